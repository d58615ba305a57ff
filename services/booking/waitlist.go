package booking

import (
	"context"
	"fmt"
	"sort"

	"studiofit/models"
	"studiofit/utils"

	"go.uber.org/zap"
)

// promoteNext fills one freed seat from the waitlist. The queue is pure FIFO
// on booking date (ties broken by id), but ineligible candidates are skipped
// rather than blocking the queue: an exhausted clip-card holder never
// freezes everyone behind them, at the cost of strict FIFO fairness. When no
// candidate is eligible the seat stays open until the next booking attempt
// recomputes capacity.
func (s *DefaultBookingService) promoteNext(ctx context.Context, scheduleID, classDate string) (*models.Booking, error) {
	rows, err := s.Bookings.GetByOccurrence(ctx, scheduleID, classDate)
	if err != nil {
		return nil, fmt.Errorf("waitlist fetch failed for %s/%s: %w", scheduleID, classDate, err)
	}

	var waiting []models.Booking
	for _, b := range rows {
		if b.Status == models.StatusWaitlisted {
			waiting = append(waiting, b)
		}
	}
	sort.Slice(waiting, func(i, j int) bool {
		if !waiting[i].BookingDate.Equal(waiting[j].BookingDate) {
			return waiting[i].BookingDate.Before(waiting[j].BookingDate)
		}
		return waiting[i].ID < waiting[j].ID
	})

	for i := range waiting {
		candidate := &waiting[i]
		m, err := s.Members.GetByID(ctx, candidate.ParticipantID)
		if err != nil {
			return nil, err
		}
		if !eligibleForSeat(m) {
			utils.GetLogger().Debug("skipping ineligible waitlist candidate",
				zap.String("bookingID", candidate.ID),
				zap.String("memberID", candidate.ParticipantID))
			continue
		}

		candidate.Status = models.StatusBooked
		if err := s.Bookings.Update(ctx, candidate); err != nil {
			return nil, err
		}
		if err := s.Debit(ctx, candidate.ParticipantID); err != nil {
			return nil, err
		}
		return candidate, nil
	}
	return nil, nil
}

func (s *DefaultBookingService) notifyPromoted(ctx context.Context, promoted *models.Booking) {
	if s.Notification == nil {
		return
	}
	s.Notification.NotifyMany(ctx, []models.Notification{{
		MemberID:   promoted.ParticipantID,
		Kind:       models.NotifyPromoted,
		ScheduleID: promoted.ScheduleID,
		ClassDate:  promoted.ClassDate,
		Title:      "You're in!",
		Body:       fmt.Sprintf("A spot opened up in your class on %s.", promoted.ClassDate),
	}})
}
