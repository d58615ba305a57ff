package bookingRepo

import (
	"context"

	"studiofit/models"
)

// BookingRepository defines persistence for booking rows, attendance log
// entries and the occurrence-scoped transaction boundary every booking
// mutation runs inside.
type BookingRepository interface {
	GetByID(ctx context.Context, id string) (*models.Booking, error)
	// GetByOccurrence returns every booking row for (scheduleID, classDate),
	// regardless of status.
	GetByOccurrence(ctx context.Context, scheduleID, classDate string) ([]models.Booking, error)
	// FindByTriple returns every row for (participantID, scheduleID, classDate).
	FindByTriple(ctx context.Context, participantID, scheduleID, classDate string) ([]models.Booking, error)
	// CountOccupying counts BOOKED plus CHECKED-IN rows for the occurrence.
	CountOccupying(ctx context.Context, scheduleID, classDate string) (int, error)
	Insert(ctx context.Context, booking *models.Booking) error
	Update(ctx context.Context, booking *models.Booking) error

	SaveAttendance(ctx context.Context, entry models.Attendance) error

	// WithOccurrenceTxn runs fn inside a transaction serialized on
	// (scheduleID, classDate). Concurrent mutations of the same occurrence
	// conflict and retry rather than racing the capacity check.
	WithOccurrenceTxn(ctx context.Context, scheduleID, classDate string, fn func(ctx context.Context) error) error

	EnsureIndexes(ctx context.Context) error
}
