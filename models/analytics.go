package models

import "time"

// Analytics event types.
const (
	EventBookingCreated   = "BOOKING_CREATED"
	EventBookingCancelled = "BOOKING_CANCELLED"
	EventCheckIn          = "CHECKIN"
)

// AnalyticsEvent is fire-and-forget; enqueue failures are logged and
// swallowed, never surfaced to the user.
type AnalyticsEvent struct {
	Type       string            `json:"type"`
	OccurredAt time.Time         `json:"occurredAt"`
	Attributes map[string]string `json:"attributes,omitempty"`
}
