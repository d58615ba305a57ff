package booking

import (
	"context"
	"time"

	bookingRepo "studiofit/database/repository/booking"
	memberRepo "studiofit/database/repository/member"
	"studiofit/models"
	"studiofit/services/notification"
	"studiofit/services/schedule"
)

// BookingService is the booking ledger: it owns every Booking.status
// transition and the capacity arithmetic for one occurrence at a time.
// Capacity is always supplied fresh by the caller (from a just-resolved
// occurrence), never re-derived inside the ledger.
type BookingService interface {
	Book(ctx context.Context, participantID, scheduleID, classDate string, maxParticipants int) (*models.Booking, error)
	Cancel(ctx context.Context, bookingID, reason string) error
	CheckIn(ctx context.Context, bookingID string, maxParticipants int) error
	UndoCheckIn(ctx context.Context, bookingID string) error

	SelfCheckIn(ctx context.Context, memberID, scheduleID, classDate string, now time.Time) (*CheckInResult, error)
	KioskCheckIn(ctx context.Context, memberID, locationID string, now time.Time) (*CheckInResult, error)
}

// DefaultBookingService is the production implementation.
type DefaultBookingService struct {
	Bookings     bookingRepo.BookingRepository
	Members      memberRepo.MemberRepository
	Schedule     schedule.ScheduleService
	Notification notification.NotificationService
	Analytics    AnalyticsPublisher
	Reminders    ReminderScheduler

	// CheckInWindow is how long before class start self check-in opens.
	// Zero means the default of 15 minutes.
	CheckInWindow time.Duration
}

func (s *DefaultBookingService) checkInWindow() time.Duration {
	if s.CheckInWindow > 0 {
		return s.CheckInWindow
	}
	return 15 * time.Minute
}
