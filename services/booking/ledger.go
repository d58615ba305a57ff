package booking

import (
	"context"
	"fmt"
	"sort"
	"time"

	"studiofit/models"
	"studiofit/utils"

	"go.uber.org/zap"
)

// Book places a participant into the occurrence, seating them when a seat is
// free and queueing them otherwise. Rebooking a cancelled row resurrects it
// instead of inserting a second row, so the booking id stays stable across
// cancel/rebook cycles. Calling Book while an active booking already exists
// is an idempotent no-op returning the existing row.
func (s *DefaultBookingService) Book(ctx context.Context, participantID, scheduleID, classDate string, maxParticipants int) (*models.Booking, error) {
	if participantID == "" || scheduleID == "" || classDate == "" {
		return nil, NewLedgerError("participant, schedule and date are required")
	}

	var result *models.Booking
	created := false
	err := s.Bookings.WithOccurrenceTxn(ctx, scheduleID, classDate, func(txCtx context.Context) error {
		rows, err := s.Bookings.FindByTriple(txCtx, participantID, scheduleID, classDate)
		if err != nil {
			return err
		}
		for i := range rows {
			if rows[i].Active() {
				result = &rows[i]
				return nil // already booked or waitlisted
			}
		}

		occupying, err := s.Bookings.CountOccupying(txCtx, scheduleID, classDate)
		if err != nil {
			return err
		}
		status := models.StatusBooked
		if occupying >= maxParticipants {
			status = models.StatusWaitlisted
		}

		now := time.Now()
		if reusable := oldestCancelled(rows); reusable != nil {
			reusable.Status = status
			reusable.BookingDate = now
			reusable.CancelReason = ""
			if err := s.Bookings.Update(txCtx, reusable); err != nil {
				return err
			}
			result = reusable
		} else {
			fresh := &models.Booking{
				ParticipantID: participantID,
				ScheduleID:    scheduleID,
				ClassDate:     classDate,
				BookingDate:   now,
				CreatedAt:     now,
				Status:        status,
			}
			if err := s.Bookings.Insert(txCtx, fresh); err != nil {
				return err
			}
			result = fresh
		}
		created = true

		if status == models.StatusBooked {
			return s.Debit(txCtx, participantID)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("book failed for %s/%s: %w", scheduleID, classDate, err)
	}

	// The idempotent already-active path changed nothing; emitting there
	// would double-count analytics and re-ping connections.
	if created {
		s.publishEvent(ctx, models.EventBookingCreated, result)
		s.fanOutToConnections(ctx, result)
		s.scheduleReminder(ctx, result)
	}
	return result, nil
}

// Cancel releases the participant's seat or queue position. Freeing an
// occupied seat refunds a clip (clip-card members) and promotes at most one
// waitlisted participant.
func (s *DefaultBookingService) Cancel(ctx context.Context, bookingID, reason string) error {
	logger := utils.GetLogger()

	b, err := s.Bookings.GetByID(ctx, bookingID)
	if err != nil {
		return fmt.Errorf("cancel failed: %w", err)
	}
	if b == nil {
		// Stale UI double-cancel; not a user error.
		logger.Warn("cancel requested for unknown booking", zap.String("bookingID", bookingID))
		return nil
	}
	if b.Status == models.StatusCancelled {
		return nil
	}

	var promoted *models.Booking
	var cancelled *models.Booking
	err = s.Bookings.WithOccurrenceTxn(ctx, b.ScheduleID, b.ClassDate, func(txCtx context.Context) error {
		current, err := s.Bookings.GetByID(txCtx, bookingID)
		if err != nil {
			return err
		}
		if current == nil || current.Status == models.StatusCancelled {
			return nil
		}

		wasOccupying := current.Occupying()
		if wasOccupying {
			if err := s.Refund(txCtx, current.ParticipantID); err != nil {
				return err
			}
		}

		current.Status = models.StatusCancelled
		current.CancelReason = reason
		if err := s.Bookings.Update(txCtx, current); err != nil {
			return err
		}
		cancelled = current

		// A single freed seat promotes at most one waiting participant.
		if wasOccupying {
			promoted, err = s.promoteNext(txCtx, current.ScheduleID, current.ClassDate)
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("cancel failed for booking %s: %w", bookingID, err)
	}

	if cancelled != nil {
		s.publishEvent(ctx, models.EventBookingCancelled, cancelled)
	}
	if promoted != nil {
		s.notifyPromoted(ctx, promoted)
		s.scheduleReminder(ctx, promoted)
	}
	return nil
}

// CheckIn marks the booking as attended. A waitlisted booking may check in
// directly only when a capacity re-check at call time shows a free seat;
// taking that seat debits the clip card like any seat occupation. Any other
// state is an idempotent no-op.
func (s *DefaultBookingService) CheckIn(ctx context.Context, bookingID string, maxParticipants int) error {
	logger := utils.GetLogger()

	b, err := s.Bookings.GetByID(ctx, bookingID)
	if err != nil {
		return fmt.Errorf("check-in failed: %w", err)
	}
	if b == nil {
		logger.Warn("check-in requested for unknown booking", zap.String("bookingID", bookingID))
		return nil
	}

	var checkedIn *models.Booking
	err = s.Bookings.WithOccurrenceTxn(ctx, b.ScheduleID, b.ClassDate, func(txCtx context.Context) error {
		current, err := s.Bookings.GetByID(txCtx, bookingID)
		if err != nil || current == nil {
			return err
		}

		switch current.Status {
		case models.StatusBooked:
			current.Status = models.StatusCheckedIn
			if err := s.Bookings.Update(txCtx, current); err != nil {
				return err
			}
			checkedIn = current
			return nil
		case models.StatusWaitlisted:
			occupying, err := s.Bookings.CountOccupying(txCtx, current.ScheduleID, current.ClassDate)
			if err != nil {
				return err
			}
			if occupying >= maxParticipants {
				return NewLedgerError("class is full; waitlisted booking cannot check in")
			}
			current.Status = models.StatusCheckedIn
			if err := s.Bookings.Update(txCtx, current); err != nil {
				return err
			}
			checkedIn = current
			return s.Debit(txCtx, current.ParticipantID)
		default:
			return nil
		}
	})
	if err != nil {
		return err
	}

	if checkedIn != nil {
		s.publishEvent(ctx, models.EventCheckIn, checkedIn)
	}
	return nil
}

// UndoCheckIn reverses an erroneous check-in. Coach action only; the sole
// permitted transition is CHECKED-IN back to BOOKED.
func (s *DefaultBookingService) UndoCheckIn(ctx context.Context, bookingID string) error {
	logger := utils.GetLogger()

	b, err := s.Bookings.GetByID(ctx, bookingID)
	if err != nil {
		return fmt.Errorf("undo check-in failed: %w", err)
	}
	if b == nil {
		logger.Warn("undo check-in requested for unknown booking", zap.String("bookingID", bookingID))
		return nil
	}

	return s.Bookings.WithOccurrenceTxn(ctx, b.ScheduleID, b.ClassDate, func(txCtx context.Context) error {
		current, err := s.Bookings.GetByID(txCtx, bookingID)
		if err != nil || current == nil {
			return err
		}
		if current.Status != models.StatusCheckedIn {
			return nil
		}
		current.Status = models.StatusBooked
		return s.Bookings.Update(txCtx, current)
	})
}

// oldestCancelled picks the cancelled row to resurrect. The order is a
// deliberate comparator (creation time, then id) rather than incidental scan
// order, so repeated cancel/rebook cycles always reuse the same row.
func oldestCancelled(rows []models.Booking) *models.Booking {
	var candidates []models.Booking
	for _, b := range rows {
		if b.Status == models.StatusCancelled {
			candidates = append(candidates, b)
		}
	}
	if len(candidates) == 0 {
		return nil
	}
	sort.Slice(candidates, func(i, j int) bool {
		if !candidates[i].CreatedAt.Equal(candidates[j].CreatedAt) {
			return candidates[i].CreatedAt.Before(candidates[j].CreatedAt)
		}
		return candidates[i].ID < candidates[j].ID
	})
	return &candidates[0]
}
