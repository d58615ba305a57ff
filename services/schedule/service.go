package schedule

import (
	"context"
	"fmt"
	"sort"

	bookingRepo "studiofit/database/repository/booking"
	scheduleRepo "studiofit/database/repository/schedule"
	"studiofit/models"
	"studiofit/services/notification"
	"studiofit/utils"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

// ScheduleService resolves occurrences and manages per-date exceptions.
type ScheduleService interface {
	// ResolveOccurrence returns the resolved view for (scheduleID, date)
	// with the occurrence's non-cancelled bookings attached, or nil when no
	// occurrence exists on that date.
	ResolveOccurrence(ctx context.Context, scheduleID, date string) (*models.ClassOccurrence, error)
	// OccurrencesForDate lists every resolvable occurrence at a location on
	// one date, sorted by start time.
	OccurrencesForDate(ctx context.Context, locationID, date string) ([]models.ClassOccurrence, error)
	UpsertException(ctx context.Context, exc models.ScheduleException) error
	// CancelOccurrence writes a cancelled exception and notifies the
	// occurrence's active participants. Returns the affected member ids.
	CancelOccurrence(ctx context.Context, scheduleID, date, reason string) ([]string, error)
	// MoveOccurrence relocates one occurrence (and its active bookings) to a
	// different calendar date, optionally adjusting time/coach/capacity.
	MoveOccurrence(ctx context.Context, scheduleID, fromDate, toDate string, overrides models.ScheduleException) error
}

// DefaultScheduleService is the production implementation.
type DefaultScheduleService struct {
	Repo         scheduleRepo.ScheduleRepository
	Bookings     bookingRepo.BookingRepository
	Notification notification.NotificationService

	// Cache holds short-lived day views. Nil disables caching.
	Cache *redis.Client
}

func (s *DefaultScheduleService) ResolveOccurrence(ctx context.Context, scheduleID, date string) (*models.ClassOccurrence, error) {
	logger := utils.GetLogger()

	sched, err := s.Repo.GetByID(ctx, scheduleID)
	if err != nil {
		return nil, fmt.Errorf("failed to load schedule %s: %w", scheduleID, err)
	}
	if sched == nil {
		// Stale-UI race, not a user error.
		logger.Warn("resolve requested for unknown schedule", zap.String("scheduleID", scheduleID))
		return nil, nil
	}

	exc, err := s.Repo.GetException(ctx, scheduleID, date)
	if err != nil {
		return nil, fmt.Errorf("failed to load exception for %s/%s: %w", scheduleID, date, err)
	}

	occ, err := ResolveOccurrence(sched, exc, date)
	if err != nil || occ == nil {
		return nil, err
	}

	bookings, err := s.Bookings.GetByOccurrence(ctx, scheduleID, date)
	if err != nil {
		return nil, fmt.Errorf("failed to load bookings for %s/%s: %w", scheduleID, date, err)
	}
	for _, b := range bookings {
		if b.Status != models.StatusCancelled {
			occ.Bookings = append(occ.Bookings, b)
		}
	}
	return occ, nil
}

func (s *DefaultScheduleService) OccurrencesForDate(ctx context.Context, locationID, date string) ([]models.ClassOccurrence, error) {
	if cached, ok := s.cachedDay(ctx, locationID, date); ok {
		return cached, nil
	}

	schedules, err := s.Repo.GetByLocation(ctx, locationID)
	if err != nil {
		return nil, fmt.Errorf("failed to load schedules for location %s: %w", locationID, err)
	}
	if len(schedules) == 0 {
		return nil, nil
	}

	ids := make([]string, len(schedules))
	for i, sched := range schedules {
		ids[i] = sched.ID
	}
	exceptions, err := s.Repo.GetExceptionsForDate(ctx, date, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to load exceptions for %s: %w", date, err)
	}

	var occurrences []models.ClassOccurrence
	for i := range schedules {
		sched := schedules[i]
		var exc *models.ScheduleException
		if e, ok := exceptions[sched.ID]; ok {
			exc = &e
		}
		occ, err := ResolveOccurrence(&sched, exc, date)
		if err != nil {
			return nil, err
		}
		if occ != nil {
			occurrences = append(occurrences, *occ)
		}
	}

	sort.Slice(occurrences, func(i, j int) bool {
		return occurrences[i].StartTime.Before(occurrences[j].StartTime)
	})
	s.storeDay(ctx, locationID, date, occurrences)
	return occurrences, nil
}

func (s *DefaultScheduleService) UpsertException(ctx context.Context, exc models.ScheduleException) error {
	sched, err := s.Repo.GetByID(ctx, exc.ScheduleID)
	if err != nil {
		return fmt.Errorf("failed to load schedule %s: %w", exc.ScheduleID, err)
	}
	if sched == nil {
		utils.GetLogger().Warn("exception write for unknown schedule", zap.String("scheduleID", exc.ScheduleID))
		return nil
	}
	if err := s.Repo.UpsertException(ctx, exc); err != nil {
		return err
	}
	s.invalidateDay(ctx, sched.LocationID, exc.Date)
	return nil
}

func (s *DefaultScheduleService) CancelOccurrence(ctx context.Context, scheduleID, date, reason string) ([]string, error) {
	occ, err := s.ResolveOccurrence(ctx, scheduleID, date)
	if err != nil {
		return nil, err
	}
	if occ == nil {
		utils.GetLogger().Warn("cancel requested for unresolved occurrence",
			zap.String("scheduleID", scheduleID), zap.String("date", date))
		return nil, nil
	}

	exc := models.ScheduleException{
		ScheduleID: scheduleID,
		Date:       date,
		Status:     models.ExceptionCancelled,
		Reason:     reason,
	}
	if err := s.Repo.UpsertException(ctx, exc); err != nil {
		return nil, err
	}
	s.invalidateDay(ctx, occ.LocationID, date)

	var affected []string
	var notifications []models.Notification
	for _, b := range occ.Bookings {
		if !b.Active() {
			continue
		}
		affected = append(affected, b.ParticipantID)
		notifications = append(notifications, models.Notification{
			MemberID:   b.ParticipantID,
			Kind:       models.NotifyClassCancelled,
			ScheduleID: scheduleID,
			ClassDate:  date,
			Title:      "Class cancelled",
			Body:       fmt.Sprintf("Your class on %s has been cancelled.", date),
		})
	}
	if s.Notification != nil {
		s.Notification.NotifyMany(ctx, notifications)
	}
	return affected, nil
}

func (s *DefaultScheduleService) MoveOccurrence(ctx context.Context, scheduleID, fromDate, toDate string, overrides models.ScheduleException) error {
	occ, err := s.ResolveOccurrence(ctx, scheduleID, fromDate)
	if err != nil {
		return err
	}
	if occ == nil {
		utils.GetLogger().Warn("move requested for unresolved occurrence",
			zap.String("scheduleID", scheduleID), zap.String("date", fromDate))
		return nil
	}

	// Exception writes and booking relocation commit together or not at
	// all; a duplicate row on the target date must not leave half the
	// participants stranded on a deleted date.
	relocated := 0
	err = s.Bookings.WithOccurrenceTxn(ctx, scheduleID, fromDate, func(txCtx context.Context) error {
		// The old date gets a tombstone pointing at the new one; the new
		// date gets a modified exception carrying any overrides.
		deleted := models.ScheduleException{
			ScheduleID: scheduleID,
			Date:       fromDate,
			Status:     models.ExceptionDeleted,
			NewDate:    toDate,
		}
		if err := s.Repo.UpsertException(txCtx, deleted); err != nil {
			return err
		}

		moved := models.ScheduleException{
			ScheduleID:         scheduleID,
			Date:               toDate,
			Status:             models.ExceptionModified,
			NewStartTime:       overrides.NewStartTime,
			NewDurationMinutes: overrides.NewDurationMinutes,
			NewCoachID:         overrides.NewCoachID,
			NewMaxParticipants: overrides.NewMaxParticipants,
		}
		if err := s.Repo.UpsertException(txCtx, moved); err != nil {
			return err
		}

		n, err := s.relocateBookings(txCtx, scheduleID, fromDate, toDate)
		if err != nil {
			return err
		}
		relocated = n
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to move occurrence %s/%s: %w", scheduleID, fromDate, err)
	}

	s.invalidateDay(ctx, occ.LocationID, fromDate, toDate)
	utils.GetLogger().Info("occurrence moved",
		zap.String("scheduleID", scheduleID),
		zap.String("from", fromDate),
		zap.String("to", toDate),
		zap.Int("relocatedBookings", relocated))
	return nil
}

// relocateBookings carries the source date's live bookings over to the target
// date, one row at a time. A participant may already hold a row on the target
// date: the (participant, schedule, date) uniqueness constraint forbids a
// second one, so an active target row wins and the source row is retired,
// while a cancelled target row is resurrected with the source's state.
func (s *DefaultScheduleService) relocateBookings(ctx context.Context, scheduleID, fromDate, toDate string) (int, error) {
	rows, err := s.Bookings.GetByOccurrence(ctx, scheduleID, fromDate)
	if err != nil {
		return 0, err
	}

	relocated := 0
	for i := range rows {
		src := rows[i]
		if !src.Active() {
			continue
		}

		existing, err := s.Bookings.FindByTriple(ctx, src.ParticipantID, scheduleID, toDate)
		if err != nil {
			return 0, err
		}

		var target *models.Booking
		for j := range existing {
			if existing[j].Active() {
				target = &existing[j]
				break
			}
		}
		if target != nil {
			// Already holds a live row on the target date; keep it and
			// retire the source row.
			utils.GetLogger().Warn("participant already booked on target date, dropping moved row",
				zap.String("participantID", src.ParticipantID),
				zap.String("scheduleID", scheduleID),
				zap.String("to", toDate))
			src.Status = models.StatusCancelled
			src.CancelReason = models.CancelReasonMoved
			if err := s.Bookings.Update(ctx, &src); err != nil {
				return 0, err
			}
			continue
		}

		if len(existing) > 0 {
			// Only cancelled rows on the target date; resurrect one in place
			// of moving the source row, so the uniqueness constraint holds.
			revived := existing[0]
			revived.Status = src.Status
			revived.BookingDate = src.BookingDate
			revived.CancelReason = ""
			if err := s.Bookings.Update(ctx, &revived); err != nil {
				return 0, err
			}
			src.Status = models.StatusCancelled
			src.CancelReason = models.CancelReasonMoved
			if err := s.Bookings.Update(ctx, &src); err != nil {
				return 0, err
			}
			relocated++
			continue
		}

		src.ClassDate = toDate
		if err := s.Bookings.Update(ctx, &src); err != nil {
			return 0, err
		}
		relocated++
	}
	return relocated, nil
}
