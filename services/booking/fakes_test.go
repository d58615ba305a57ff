package booking

import (
	"context"
	"fmt"
	"sort"
	"time"

	"studiofit/models"
)

// In-memory doubles for the ledger's collaborators. The transaction fake
// simply runs fn inline; the tests exercise the ledger's arithmetic, not
// storage-level serialization.

type fakeBookingRepo struct {
	rows       map[string]*models.Booking
	attendance []models.Attendance
	seq        int

	// beforeTxn, when set, runs just before a transaction callback. It
	// stands in for a concurrent writer that commits first.
	beforeTxn func()
}

func newFakeBookingRepo() *fakeBookingRepo {
	return &fakeBookingRepo{rows: make(map[string]*models.Booking)}
}

func (r *fakeBookingRepo) GetByID(_ context.Context, id string) (*models.Booking, error) {
	b, ok := r.rows[id]
	if !ok {
		return nil, nil
	}
	cp := *b
	return &cp, nil
}

func (r *fakeBookingRepo) GetByOccurrence(_ context.Context, scheduleID, classDate string) ([]models.Booking, error) {
	var out []models.Booking
	for _, b := range r.rows {
		if b.ScheduleID == scheduleID && b.ClassDate == classDate {
			out = append(out, *b)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *fakeBookingRepo) FindByTriple(_ context.Context, participantID, scheduleID, classDate string) ([]models.Booking, error) {
	var out []models.Booking
	for _, b := range r.rows {
		if b.ParticipantID == participantID && b.ScheduleID == scheduleID && b.ClassDate == classDate {
			out = append(out, *b)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *fakeBookingRepo) CountOccupying(_ context.Context, scheduleID, classDate string) (int, error) {
	n := 0
	for _, b := range r.rows {
		if b.ScheduleID == scheduleID && b.ClassDate == classDate && b.Occupying() {
			n++
		}
	}
	return n, nil
}

func (r *fakeBookingRepo) Insert(_ context.Context, booking *models.Booking) error {
	if booking.ID == "" {
		r.seq++
		booking.ID = fmt.Sprintf("bk-%d", r.seq)
	}
	cp := *booking
	r.rows[booking.ID] = &cp
	return nil
}

func (r *fakeBookingRepo) Update(_ context.Context, booking *models.Booking) error {
	if _, ok := r.rows[booking.ID]; !ok {
		return fmt.Errorf("update of unknown booking %s", booking.ID)
	}
	cp := *booking
	r.rows[booking.ID] = &cp
	return nil
}

func (r *fakeBookingRepo) SaveAttendance(_ context.Context, entry models.Attendance) error {
	r.attendance = append(r.attendance, entry)
	return nil
}

func (r *fakeBookingRepo) WithOccurrenceTxn(ctx context.Context, _, _ string, fn func(ctx context.Context) error) error {
	if r.beforeTxn != nil {
		r.beforeTxn()
	}
	return fn(ctx)
}

func (r *fakeBookingRepo) EnsureIndexes(context.Context) error { return nil }

// seed inserts a row directly, bypassing the ledger.
func (r *fakeBookingRepo) seed(b models.Booking) models.Booking {
	if b.ID == "" {
		r.seq++
		b.ID = fmt.Sprintf("bk-%d", r.seq)
	}
	cp := b
	r.rows[b.ID] = &cp
	return b
}

func (r *fakeBookingRepo) mustGet(id string) models.Booking {
	b, ok := r.rows[id]
	if !ok {
		panic("missing booking " + id)
	}
	return *b
}

type fakeMemberRepo struct {
	members map[string]*models.Member
}

func newFakeMemberRepo(members ...models.Member) *fakeMemberRepo {
	r := &fakeMemberRepo{members: make(map[string]*models.Member)}
	for i := range members {
		m := members[i]
		r.members[m.ID] = &m
	}
	return r
}

func (r *fakeMemberRepo) GetByID(_ context.Context, id string) (*models.Member, error) {
	m, ok := r.members[id]
	if !ok {
		return nil, nil
	}
	cp := *m
	return &cp, nil
}

func (r *fakeMemberRepo) GetByEmail(_ context.Context, email string) (*models.Member, error) {
	for _, m := range r.members {
		if m.Email == email {
			cp := *m
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *fakeMemberRepo) GetByIDs(ctx context.Context, ids []string) ([]models.Member, error) {
	var out []models.Member
	for _, id := range ids {
		if m, err := r.GetByID(ctx, id); err == nil && m != nil {
			out = append(out, *m)
		}
	}
	return out, nil
}

func (r *fakeMemberRepo) Create(_ context.Context, member *models.Member) error {
	cp := *member
	r.members[member.ID] = &cp
	return nil
}

func (r *fakeMemberRepo) UpdateClipCard(_ context.Context, memberID string, status models.ClipCardStatus) error {
	m, ok := r.members[memberID]
	if !ok {
		return fmt.Errorf("unknown member %s", memberID)
	}
	m.ClipCard = &status
	return nil
}

func (r *fakeMemberRepo) EnsureIndexes(context.Context) error { return nil }

func (r *fakeMemberRepo) clips(id string) int {
	m := r.members[id]
	if m == nil || m.ClipCard == nil {
		return -1
	}
	return m.ClipCard.RemainingClips
}

// fakeScheduleService serves preset occurrences and attaches the booking
// repo's live rows, mirroring the production resolve path.
type fakeScheduleService struct {
	occurrences map[string]models.ClassOccurrence // key: scheduleID + "|" + date
	bookings    *fakeBookingRepo
}

func (f *fakeScheduleService) ResolveOccurrence(ctx context.Context, scheduleID, date string) (*models.ClassOccurrence, error) {
	occ, ok := f.occurrences[scheduleID+"|"+date]
	if !ok {
		return nil, nil
	}
	out := occ
	out.Bookings = nil
	rows, _ := f.bookings.GetByOccurrence(ctx, scheduleID, date)
	for _, b := range rows {
		if b.Status != models.StatusCancelled {
			out.Bookings = append(out.Bookings, b)
		}
	}
	return &out, nil
}

func (f *fakeScheduleService) OccurrencesForDate(ctx context.Context, locationID, date string) ([]models.ClassOccurrence, error) {
	var out []models.ClassOccurrence
	for key := range f.occurrences {
		occ, _ := f.ResolveOccurrence(ctx, f.occurrences[key].ScheduleID, f.occurrences[key].Date)
		if occ != nil && occ.LocationID == locationID && occ.Date == date {
			out = append(out, *occ)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartTime.Before(out[j].StartTime) })
	return out, nil
}

func (f *fakeScheduleService) UpsertException(context.Context, models.ScheduleException) error {
	return nil
}

func (f *fakeScheduleService) CancelOccurrence(context.Context, string, string, string) ([]string, error) {
	return nil, nil
}

func (f *fakeScheduleService) MoveOccurrence(context.Context, string, string, string, models.ScheduleException) error {
	return nil
}

type recordingNotifier struct {
	sent []models.Notification
}

func (n *recordingNotifier) SendMemberPush(_ context.Context, memberID, title, body string, _ map[string]string) error {
	n.sent = append(n.sent, models.Notification{MemberID: memberID, Title: title, Body: body})
	return nil
}

func (n *recordingNotifier) NotifyMany(_ context.Context, notifications []models.Notification) {
	n.sent = append(n.sent, notifications...)
}

type recordingReminders struct {
	payloads []models.ReminderPayload
	fireAts  []time.Time
}

func (r *recordingReminders) ScheduleReminder(_ context.Context, payload models.ReminderPayload, fireAt time.Time) {
	r.payloads = append(r.payloads, payload)
	r.fireAts = append(r.fireAts, fireAt)
}

type recordingPublisher struct {
	events []models.AnalyticsEvent
}

func (p *recordingPublisher) Publish(_ context.Context, event models.AnalyticsEvent) {
	p.events = append(p.events, event)
}

func clipMember(id string, remaining, grant int) models.Member {
	return models.Member{
		ID:         id,
		Name:       "Member " + id,
		Email:      id + "@example.com",
		Membership: models.Membership{Type: models.MembershipClipCard, ClipCardClips: grant},
		ClipCard:   &models.ClipCardStatus{RemainingClips: remaining},
	}
}

func subscriptionMember(id string) models.Member {
	return models.Member{
		ID:         id,
		Name:       "Member " + id,
		Email:      id + "@example.com",
		Membership: models.Membership{Type: models.MembershipSubscription},
	}
}
