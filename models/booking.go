package models

import "time"

// Booking statuses.
const (
	StatusBooked     = "BOOKED"
	StatusWaitlisted = "WAITLISTED"
	StatusCheckedIn  = "CHECKED-IN"
	StatusCancelled  = "CANCELLED"
)

// Cancellation reason tags.
const (
	CancelReasonSelf  = "self"
	CancelReasonCoach = "coach"
	CancelReasonMoved = "moved"
)

// Booking is one participant's seat (or queue position) in one class
// occurrence. For a given (ParticipantID, ScheduleID, ClassDate) there is at
// most one row: a cancelled row is resurrected on rebooking rather than a
// fresh row inserted, so the booking id is the durable key across
// cancel/rebook cycles.
type Booking struct {
	ID            string    `bson:"id" json:"id"`
	ParticipantID string    `bson:"participant_id" json:"participantId"`
	ScheduleID    string    `bson:"schedule_id" json:"scheduleId"`
	ClassDate     string    `bson:"class_date" json:"classDate"`     // occurrence calendar date, "YYYY-MM-DD"
	BookingDate   time.Time `bson:"booking_date" json:"bookingDate"` // creation/reactivation instant, the FIFO sort key
	CreatedAt     time.Time `bson:"created_at" json:"createdAt"`
	Status        string    `bson:"status" json:"status"`
	CancelReason  string    `bson:"cancel_reason,omitempty" json:"cancelReason,omitempty"`
}

// Occupying reports whether the booking currently holds a seat.
func (b Booking) Occupying() bool {
	return b.Status == StatusBooked || b.Status == StatusCheckedIn
}

// Active reports whether the booking is live (seated or queued).
func (b Booking) Active() bool {
	return b.Status == StatusBooked || b.Status == StatusWaitlisted || b.Status == StatusCheckedIn
}

// Attendance is a zero-duration activity-log entry written on self check-in.
type Attendance struct {
	ID          string    `bson:"id" json:"id"`
	MemberID    string    `bson:"member_id" json:"memberId"`
	ScheduleID  string    `bson:"schedule_id" json:"scheduleId"`
	ClassDate   string    `bson:"class_date" json:"classDate"`
	CheckInTime time.Time `bson:"check_in_time" json:"checkInTime"`
	Source      string    `bson:"source" json:"source"` // "occurrence" or "kiosk"
}
