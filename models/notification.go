package models

// Notification kinds produced by the booking engine.
const (
	NotifyFriendBooked   = "friend_booked"
	NotifyPromoted       = "waitlist_promoted"
	NotifyClassCancelled = "class_cancelled"
	NotifyClassReminder  = "class_reminder"
)

// Notification is the tuple handed to the push collaborator. Delivery is an
// external concern; the engine only produces the list.
type Notification struct {
	MemberID   string `json:"memberId"`
	Kind       string `json:"kind"`
	ScheduleID string `json:"scheduleId"`
	ClassDate  string `json:"classDate"`
	Title      string `json:"title"`
	Body       string `json:"body"`
}

// ReminderPayload is the asynq payload for scheduled class reminders.
type ReminderPayload struct {
	MemberID   string `json:"memberId"`
	ScheduleID string `json:"scheduleId"`
	ClassDate  string `json:"classDate"`
	Title      string `json:"title"`
	Body       string `json:"body"`
	FireDate   string `json:"fireDate"`
}
