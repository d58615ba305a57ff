package scheduleRepo

import (
	"context"

	"studiofit/models"
)

// ScheduleRepository defines persistence for recurring class schedules and
// their per-date exceptions.
type ScheduleRepository interface {
	GetByID(ctx context.Context, id string) (*models.ClassSchedule, error)
	GetByLocation(ctx context.Context, locationID string) ([]models.ClassSchedule, error)
	Create(ctx context.Context, schedule *models.ClassSchedule) error

	// GetException returns the exception for (scheduleID, date), or nil when
	// none exists.
	GetException(ctx context.Context, scheduleID, date string) (*models.ScheduleException, error)
	// GetExceptionsForDate returns exceptions for the given date keyed by
	// schedule id, limited to the supplied schedule ids.
	GetExceptionsForDate(ctx context.Context, date string, scheduleIDs []string) (map[string]models.ScheduleException, error)
	// UpsertException writes the exception, replacing any previous one for
	// the same (scheduleID, date). Exceptions never accumulate per pair.
	UpsertException(ctx context.Context, exc models.ScheduleException) error

	EnsureIndexes(ctx context.Context) error
}
