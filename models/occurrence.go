package models

import "time"

// ClassOccurrence is the resolved view of one (scheduleID, date) pair after
// merging the recurring schedule with its exception. It is computed on
// demand and never persisted.
type ClassOccurrence struct {
	ScheduleID      string    `json:"scheduleId"`
	ClassID         string    `json:"classId"`
	LocationID      string    `json:"locationId"`
	CoachID         string    `json:"coachId"`
	Date            string    `json:"date"` // "YYYY-MM-DD"
	StartTime       time.Time `json:"startTime"`
	EndTime         time.Time `json:"endTime"`
	MaxParticipants int       `json:"maxParticipants"`
	Cancelled       bool      `json:"cancelled"`
	CancelReason    string    `json:"cancelReason,omitempty"`
	Bookings        []Booking `json:"bookings,omitempty"` // non-cancelled bookings for the pair
}
