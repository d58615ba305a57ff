package booking

import (
	"context"
	"testing"
	"time"

	"studiofit/models"
)

func TestPromoteNextIsFIFO(t *testing.T) {
	repo := newFakeBookingRepo()
	members := newFakeMemberRepo(clipMember("first", 3, 10), clipMember("second", 3, 10))
	svc := newLedger(repo, members)

	base := time.Date(2025, 3, 10, 8, 0, 0, 0, time.UTC)
	first := repo.seed(models.Booking{ParticipantID: "first", ScheduleID: testSchedule, ClassDate: testDate, Status: models.StatusWaitlisted, BookingDate: base})
	repo.seed(models.Booking{ParticipantID: "second", ScheduleID: testSchedule, ClassDate: testDate, Status: models.StatusWaitlisted, BookingDate: base.Add(time.Minute)})

	promoted, err := svc.promoteNext(context.Background(), testSchedule, testDate)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if promoted == nil || promoted.ID != first.ID {
		t.Fatalf("promoted = %+v, want the earliest booking %s", promoted, first.ID)
	}
	if got := repo.mustGet(first.ID); got.Status != models.StatusBooked {
		t.Errorf("Status = %q, want BOOKED", got.Status)
	}
	if got := members.clips("first"); got != 2 {
		t.Errorf("promotion must debit: clips = %d, want 2", got)
	}
}

func TestPromoteNextSkipsExhaustedClipCard(t *testing.T) {
	repo := newFakeBookingRepo()
	members := newFakeMemberRepo(clipMember("broke", 0, 10), clipMember("funded", 2, 10))
	svc := newLedger(repo, members)

	base := time.Date(2025, 3, 10, 8, 0, 0, 0, time.UTC)
	broke := repo.seed(models.Booking{ParticipantID: "broke", ScheduleID: testSchedule, ClassDate: testDate, Status: models.StatusWaitlisted, BookingDate: base})
	funded := repo.seed(models.Booking{ParticipantID: "funded", ScheduleID: testSchedule, ClassDate: testDate, Status: models.StatusWaitlisted, BookingDate: base.Add(time.Minute)})

	promoted, err := svc.promoteNext(context.Background(), testSchedule, testDate)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if promoted == nil || promoted.ID != funded.ID {
		t.Fatalf("promoted = %+v, want the funded candidate %s", promoted, funded.ID)
	}
	// The skipped candidate keeps their queue position.
	if got := repo.mustGet(broke.ID); got.Status != models.StatusWaitlisted {
		t.Errorf("skipped candidate became %q, want WAITLISTED", got.Status)
	}
	if got := members.clips("funded"); got != 1 {
		t.Errorf("clips = %d, want 1", got)
	}
}

func TestPromoteNextNoEligibleCandidate(t *testing.T) {
	repo := newFakeBookingRepo()
	members := newFakeMemberRepo(clipMember("broke", 0, 10))
	svc := newLedger(repo, members)

	broke := repo.seed(models.Booking{ParticipantID: "broke", ScheduleID: testSchedule, ClassDate: testDate, Status: models.StatusWaitlisted, BookingDate: time.Now()})

	promoted, err := svc.promoteNext(context.Background(), testSchedule, testDate)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if promoted != nil {
		t.Errorf("promoted = %+v, want nil when nobody is eligible", promoted)
	}
	if got := repo.mustGet(broke.ID); got.Status != models.StatusWaitlisted {
		t.Errorf("ineligible candidate became %q", got.Status)
	}
}

func TestPromoteNextBreaksTiesByID(t *testing.T) {
	repo := newFakeBookingRepo()
	members := newFakeMemberRepo(subscriptionMember("a"), subscriptionMember("b"))
	svc := newLedger(repo, members)

	same := time.Date(2025, 3, 10, 8, 0, 0, 0, time.UTC)
	repo.seed(models.Booking{ID: "bk-zz", ParticipantID: "a", ScheduleID: testSchedule, ClassDate: testDate, Status: models.StatusWaitlisted, BookingDate: same})
	repo.seed(models.Booking{ID: "bk-aa", ParticipantID: "b", ScheduleID: testSchedule, ClassDate: testDate, Status: models.StatusWaitlisted, BookingDate: same})

	promoted, err := svc.promoteNext(context.Background(), testSchedule, testDate)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if promoted == nil || promoted.ID != "bk-aa" {
		t.Errorf("promoted = %+v, want bk-aa by id tiebreak", promoted)
	}
}

func TestPromoteNextEmptyWaitlist(t *testing.T) {
	svc := newLedger(newFakeBookingRepo(), newFakeMemberRepo())
	promoted, err := svc.promoteNext(context.Background(), testSchedule, testDate)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if promoted != nil {
		t.Errorf("promoted = %+v, want nil", promoted)
	}
}
