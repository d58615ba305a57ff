package booking

import (
	"context"
	"testing"
	"time"

	"studiofit/models"
)

func occurrenceAt(scheduleID string, start time.Time, maxParticipants int) models.ClassOccurrence {
	return models.ClassOccurrence{
		ScheduleID:      scheduleID,
		ClassID:         "class-yoga",
		LocationID:      "loc-1",
		Date:            start.Format("2006-01-02"),
		StartTime:       start,
		EndTime:         start.Add(60 * time.Minute),
		MaxParticipants: maxParticipants,
	}
}

func checkInFixture(occs []models.ClassOccurrence, members ...models.Member) (*fakeBookingRepo, *fakeMemberRepo, *DefaultBookingService) {
	repo := newFakeBookingRepo()
	memberRepo := newFakeMemberRepo(members...)
	sched := &fakeScheduleService{occurrences: make(map[string]models.ClassOccurrence), bookings: repo}
	for _, occ := range occs {
		sched.occurrences[occ.ScheduleID+"|"+occ.Date] = occ
	}
	svc := &DefaultBookingService{Bookings: repo, Members: memberRepo, Schedule: sched}
	return repo, memberRepo, svc
}

var classStart = time.Date(2025, 3, 10, 10, 0, 0, 0, time.Local)

func TestSelfCheckInWindowGating(t *testing.T) {
	cases := []struct {
		name       string
		now        time.Time
		allowed    bool
		wantReason string
	}{
		{"one minute before the window opens", classStart.Add(-16 * time.Minute), false, ReasonTooEarly},
		{"window just opened", classStart.Add(-15 * time.Minute), true, ""},
		{"mid window", classStart.Add(-5 * time.Minute), true, ""},
		{"exactly at start", classStart, true, ""},
		{"one minute after start", classStart.Add(time.Minute), false, ReasonTooLate},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			repo, _, svc := checkInFixture(
				[]models.ClassOccurrence{occurrenceAt(testSchedule, classStart, 10)},
				subscriptionMember("m1"),
			)
			repo.seed(models.Booking{ParticipantID: "m1", ScheduleID: testSchedule, ClassDate: testDate, Status: models.StatusBooked})

			res, err := svc.SelfCheckIn(context.Background(), "m1", testSchedule, testDate, tc.now)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if res.Allowed != tc.allowed || res.Reason != tc.wantReason {
				t.Errorf("result = %+v, want allowed=%v reason=%q", res, tc.allowed, tc.wantReason)
			}
		})
	}
}

func TestSelfCheckInWithoutBooking(t *testing.T) {
	_, _, svc := checkInFixture(
		[]models.ClassOccurrence{occurrenceAt(testSchedule, classStart, 10)},
		subscriptionMember("m1"),
	)
	res, err := svc.SelfCheckIn(context.Background(), "m1", testSchedule, testDate, classStart.Add(-5*time.Minute))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Allowed || res.Reason != ReasonNoBooking {
		t.Errorf("result = %+v, want no_booking rejection", res)
	}
}

func TestSelfCheckInUnknownOccurrence(t *testing.T) {
	_, _, svc := checkInFixture(nil, subscriptionMember("m1"))
	res, err := svc.SelfCheckIn(context.Background(), "m1", testSchedule, testDate, classStart)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Allowed || res.Reason != ReasonNoBooking {
		t.Errorf("result = %+v, want no_booking rejection", res)
	}
}

func TestSelfCheckInCancelledOccurrence(t *testing.T) {
	occ := occurrenceAt(testSchedule, classStart, 10)
	occ.Cancelled = true
	repo, _, svc := checkInFixture([]models.ClassOccurrence{occ}, subscriptionMember("m1"))
	repo.seed(models.Booking{ParticipantID: "m1", ScheduleID: testSchedule, ClassDate: testDate, Status: models.StatusBooked})

	res, err := svc.SelfCheckIn(context.Background(), "m1", testSchedule, testDate, classStart.Add(-5*time.Minute))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Allowed || res.Reason != ReasonClassCancelled {
		t.Errorf("result = %+v, want class_cancelled rejection", res)
	}
}

func TestSelfCheckInIsIdempotent(t *testing.T) {
	repo, _, svc := checkInFixture(
		[]models.ClassOccurrence{occurrenceAt(testSchedule, classStart, 10)},
		subscriptionMember("m1"),
	)
	repo.seed(models.Booking{ParticipantID: "m1", ScheduleID: testSchedule, ClassDate: testDate, Status: models.StatusCheckedIn})

	res, err := svc.SelfCheckIn(context.Background(), "m1", testSchedule, testDate, classStart.Add(-5*time.Minute))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !res.Allowed {
		t.Errorf("repeat scan should stay green: %+v", res)
	}
	if len(repo.attendance) != 0 {
		t.Errorf("repeat scan wrote %d attendance entries, want 0", len(repo.attendance))
	}
}

func TestSelfCheckInRejectsBookingCancelledConcurrently(t *testing.T) {
	repo, _, svc := checkInFixture(
		[]models.ClassOccurrence{occurrenceAt(testSchedule, classStart, 10)},
		subscriptionMember("m1"),
	)
	publisher := &recordingPublisher{}
	svc.Analytics = publisher
	b := repo.seed(models.Booking{ParticipantID: "m1", ScheduleID: testSchedule, ClassDate: testDate, Status: models.StatusBooked})

	// Another writer cancels the row between the occurrence read and the
	// serialized section; the in-transaction re-read must see that.
	repo.beforeTxn = func() {
		row := repo.rows[b.ID]
		row.Status = models.StatusCancelled
		row.CancelReason = models.CancelReasonSelf
	}

	res, err := svc.SelfCheckIn(context.Background(), "m1", testSchedule, testDate, classStart.Add(-5*time.Minute))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Allowed || res.Reason != ReasonNoBooking {
		t.Errorf("result = %+v, want no_booking rejection", res)
	}
	if got := repo.mustGet(b.ID); got.Status != models.StatusCancelled {
		t.Errorf("Status = %q, cancelled row must not be revived", got.Status)
	}
	if len(repo.attendance) != 0 {
		t.Errorf("attendance entries = %d, want 0", len(repo.attendance))
	}
	if len(publisher.events) != 0 {
		t.Errorf("events = %+v, want none for a rejected scan", publisher.events)
	}
}

func TestSelfCheckInRecordsAttendance(t *testing.T) {
	repo, _, svc := checkInFixture(
		[]models.ClassOccurrence{occurrenceAt(testSchedule, classStart, 10)},
		subscriptionMember("m1"),
	)
	repo.seed(models.Booking{ParticipantID: "m1", ScheduleID: testSchedule, ClassDate: testDate, Status: models.StatusBooked})

	now := classStart.Add(-10 * time.Minute)
	res, err := svc.SelfCheckIn(context.Background(), "m1", testSchedule, testDate, now)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !res.Allowed || res.Booking.Status != models.StatusCheckedIn {
		t.Fatalf("result = %+v, want allowed check-in", res)
	}
	if len(repo.attendance) != 1 {
		t.Fatalf("attendance entries = %d, want 1", len(repo.attendance))
	}
	entry := repo.attendance[0]
	if entry.MemberID != "m1" || entry.Source != checkInSourceOccurrence || !entry.CheckInTime.Equal(now) {
		t.Errorf("attendance entry = %+v", entry)
	}
}

func TestSelfCheckInWaitlistedTakesFreeSeat(t *testing.T) {
	repo, members, svc := checkInFixture(
		[]models.ClassOccurrence{occurrenceAt(testSchedule, classStart, 2)},
		clipMember("w", 3, 10), subscriptionMember("s"),
	)
	repo.seed(models.Booking{ParticipantID: "s", ScheduleID: testSchedule, ClassDate: testDate, Status: models.StatusBooked})
	w := repo.seed(models.Booking{ParticipantID: "w", ScheduleID: testSchedule, ClassDate: testDate, Status: models.StatusWaitlisted})

	res, err := svc.SelfCheckIn(context.Background(), "w", testSchedule, testDate, classStart.Add(-5*time.Minute))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !res.Allowed {
		t.Fatalf("result = %+v, want allowed with a free seat", res)
	}
	if got := repo.mustGet(w.ID); got.Status != models.StatusCheckedIn {
		t.Errorf("Status = %q, want CHECKED-IN", got.Status)
	}
	if got := members.clips("w"); got != 2 {
		t.Errorf("seating from the waitlist should debit: clips = %d, want 2", got)
	}
}

func TestSelfCheckInWaitlistedStillFull(t *testing.T) {
	repo, members, svc := checkInFixture(
		[]models.ClassOccurrence{occurrenceAt(testSchedule, classStart, 1)},
		clipMember("w", 3, 10), subscriptionMember("s"),
	)
	repo.seed(models.Booking{ParticipantID: "s", ScheduleID: testSchedule, ClassDate: testDate, Status: models.StatusCheckedIn})
	w := repo.seed(models.Booking{ParticipantID: "w", ScheduleID: testSchedule, ClassDate: testDate, Status: models.StatusWaitlisted})

	res, err := svc.SelfCheckIn(context.Background(), "w", testSchedule, testDate, classStart.Add(-5*time.Minute))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Allowed || res.Reason != ReasonStillFull {
		t.Errorf("result = %+v, want still_full rejection", res)
	}
	if got := repo.mustGet(w.ID); got.Status != models.StatusWaitlisted {
		t.Errorf("Status = %q, want unchanged WAITLISTED", got.Status)
	}
	if got := members.clips("w"); got != 3 {
		t.Errorf("rejected check-in must not debit: clips = %d", got)
	}
}

func TestCustomCheckInWindow(t *testing.T) {
	repo, _, svc := checkInFixture(
		[]models.ClassOccurrence{occurrenceAt(testSchedule, classStart, 10)},
		subscriptionMember("m1"),
	)
	svc.CheckInWindow = 30 * time.Minute
	repo.seed(models.Booking{ParticipantID: "m1", ScheduleID: testSchedule, ClassDate: testDate, Status: models.StatusBooked})

	res, err := svc.SelfCheckIn(context.Background(), "m1", testSchedule, testDate, classStart.Add(-25*time.Minute))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !res.Allowed {
		t.Errorf("result = %+v, want allowed inside the widened window", res)
	}
}

func TestKioskCheckInPicksNearestOpenOccurrence(t *testing.T) {
	early := occurrenceAt(testSchedule, classStart, 10)
	later := occurrenceAt("sched-2", classStart.Add(5*time.Minute), 10)
	repo, _, svc := checkInFixture([]models.ClassOccurrence{early, later}, subscriptionMember("m1"))
	repo.seed(models.Booking{ParticipantID: "m1", ScheduleID: testSchedule, ClassDate: testDate, Status: models.StatusBooked})

	// Both windows are open; 10:00 starts sooner than 10:05.
	res, err := svc.KioskCheckIn(context.Background(), "m1", "loc-1", classStart.Add(-4*time.Minute))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !res.Allowed || res.Booking.ScheduleID != testSchedule {
		t.Errorf("result = %+v, want check-in to the nearest class", res)
	}
	if len(repo.attendance) != 1 || repo.attendance[0].Source != checkInSourceKiosk {
		t.Errorf("attendance = %+v, want one kiosk entry", repo.attendance)
	}
}

func TestKioskCheckInTooEarly(t *testing.T) {
	repo, _, svc := checkInFixture(
		[]models.ClassOccurrence{occurrenceAt(testSchedule, classStart, 10)},
		subscriptionMember("m1"),
	)
	repo.seed(models.Booking{ParticipantID: "m1", ScheduleID: testSchedule, ClassDate: testDate, Status: models.StatusBooked})

	res, err := svc.KioskCheckIn(context.Background(), "m1", "loc-1", classStart.Add(-2*time.Hour))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Allowed || res.Reason != ReasonTooEarly {
		t.Errorf("result = %+v, want too_early with only upcoming classes", res)
	}
}

func TestKioskCheckInTooLate(t *testing.T) {
	repo, _, svc := checkInFixture(
		[]models.ClassOccurrence{occurrenceAt(testSchedule, classStart, 10)},
		subscriptionMember("m1"),
	)
	repo.seed(models.Booking{ParticipantID: "m1", ScheduleID: testSchedule, ClassDate: testDate, Status: models.StatusBooked})

	res, err := svc.KioskCheckIn(context.Background(), "m1", "loc-1", classStart.Add(2*time.Hour))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Allowed || res.Reason != ReasonTooLate {
		t.Errorf("result = %+v, want too_late when every class has started", res)
	}
}

func TestKioskCheckInSkipsCancelledOccurrence(t *testing.T) {
	cancelled := occurrenceAt(testSchedule, classStart, 10)
	cancelled.Cancelled = true
	open := occurrenceAt("sched-2", classStart.Add(5*time.Minute), 10)
	repo, _, svc := checkInFixture([]models.ClassOccurrence{cancelled, open}, subscriptionMember("m1"))
	repo.seed(models.Booking{ParticipantID: "m1", ScheduleID: "sched-2", ClassDate: testDate, Status: models.StatusBooked})

	res, err := svc.KioskCheckIn(context.Background(), "m1", "loc-1", classStart.Add(-4*time.Minute))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !res.Allowed || res.Booking.ScheduleID != "sched-2" {
		t.Errorf("result = %+v, want the cancelled class skipped", res)
	}
}
