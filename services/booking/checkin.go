package booking

import (
	"context"
	"fmt"
	"time"

	"studiofit/models"
	"studiofit/utils"

	"go.uber.org/zap"
)

// Check-in rejection reason codes. These are user-visible results, not
// errors.
const (
	ReasonTooEarly       = "too_early"
	ReasonTooLate        = "too_late"
	ReasonNoBooking      = "no_booking"
	ReasonStillFull      = "still_full"
	ReasonClassCancelled = "class_cancelled"
)

// Attendance log sources.
const (
	checkInSourceOccurrence = "occurrence"
	checkInSourceKiosk      = "kiosk"
)

// CheckInResult is the outcome of a self-service check-in attempt.
type CheckInResult struct {
	Allowed bool            `json:"allowed"`
	Reason  string          `json:"reason,omitempty"`
	Booking *models.Booking `json:"booking,omitempty"`
}

func rejected(reason string) *CheckInResult {
	return &CheckInResult{Allowed: false, Reason: reason}
}

// SelfCheckIn is the QR-code entry point: the member scanned a specific
// occurrence. Check-in opens a fixed window before class start and closes at
// start; a waitlisted member gets in only if a seat is free at this exact
// instant.
func (s *DefaultBookingService) SelfCheckIn(ctx context.Context, memberID, scheduleID, classDate string, now time.Time) (*CheckInResult, error) {
	return s.selfCheckIn(ctx, memberID, scheduleID, classDate, now, checkInSourceOccurrence)
}

func (s *DefaultBookingService) selfCheckIn(ctx context.Context, memberID, scheduleID, classDate string, now time.Time, source string) (*CheckInResult, error) {
	occ, err := s.Schedule.ResolveOccurrence(ctx, scheduleID, classDate)
	if err != nil {
		return nil, fmt.Errorf("self check-in failed: %w", err)
	}
	if occ == nil {
		return rejected(ReasonNoBooking), nil
	}
	if occ.Cancelled {
		return rejected(ReasonClassCancelled), nil
	}

	opensAt := occ.StartTime.Add(-s.checkInWindow())
	if now.Before(opensAt) {
		return rejected(ReasonTooEarly), nil
	}
	if now.After(occ.StartTime) {
		return rejected(ReasonTooLate), nil
	}

	var active *models.Booking
	for i := range occ.Bookings {
		if occ.Bookings[i].ParticipantID == memberID && occ.Bookings[i].Active() {
			active = &occ.Bookings[i]
			break
		}
	}
	if active == nil {
		return rejected(ReasonNoBooking), nil
	}
	if active.Status == models.StatusCheckedIn {
		return &CheckInResult{Allowed: true, Booking: active}, nil
	}

	result := &CheckInResult{}
	checkedIn := false
	err = s.Bookings.WithOccurrenceTxn(ctx, scheduleID, classDate, func(txCtx context.Context) error {
		// The pre-transaction reads are advisory; the row's state is
		// re-validated here, inside the serialized section.
		current, err := s.Bookings.GetByID(txCtx, active.ID)
		if err != nil {
			return err
		}
		if current == nil || !current.Active() {
			// Cancelled between the occurrence read and the transaction.
			result.Reason = ReasonNoBooking
			return nil
		}
		if current.Status == models.StatusCheckedIn {
			result.Allowed = true
			result.Booking = current
			return nil
		}

		if current.Status == models.StatusWaitlisted {
			// Capacity re-check at this exact instant.
			occupying, err := s.Bookings.CountOccupying(txCtx, scheduleID, classDate)
			if err != nil {
				return err
			}
			if occupying >= occ.MaxParticipants {
				result.Reason = ReasonStillFull
				return nil
			}
			if err := s.Debit(txCtx, memberID); err != nil {
				return err
			}
		}

		current.Status = models.StatusCheckedIn
		if err := s.Bookings.Update(txCtx, current); err != nil {
			return err
		}

		entry := models.Attendance{
			MemberID:    memberID,
			ScheduleID:  scheduleID,
			ClassDate:   classDate,
			CheckInTime: now,
			Source:      source,
		}
		if err := s.Bookings.SaveAttendance(txCtx, entry); err != nil {
			return err
		}

		result.Allowed = true
		result.Booking = current
		checkedIn = true
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("self check-in failed: %w", err)
	}

	if checkedIn {
		s.publishEvent(ctx, models.EventCheckIn, result.Booking)
	}
	return result, nil
}

// KioskCheckIn is the location-facing entry point: the member tapped a
// kiosk, so the engine has to figure out which occurrence they mean. It
// scans today's classes at the location, picks the one whose check-in window
// contains now (nearest start wins when several overlap), and delegates to
// the occurrence path.
func (s *DefaultBookingService) KioskCheckIn(ctx context.Context, memberID, locationID string, now time.Time) (*CheckInResult, error) {
	date := now.Format(utils.DateLayout)

	occurrences, err := s.Schedule.OccurrencesForDate(ctx, locationID, date)
	if err != nil {
		return nil, fmt.Errorf("kiosk check-in failed: %w", err)
	}

	var candidate *models.ClassOccurrence
	upcoming := false
	for i := range occurrences {
		occ := &occurrences[i]
		if occ.Cancelled {
			continue
		}
		opensAt := occ.StartTime.Add(-s.checkInWindow())
		if now.Before(opensAt) {
			upcoming = true
			continue
		}
		if now.After(occ.StartTime) {
			continue
		}
		if candidate == nil || nearerStart(occ.StartTime, candidate.StartTime, now) {
			candidate = occ
		}
	}

	if candidate == nil {
		if upcoming {
			return rejected(ReasonTooEarly), nil
		}
		utils.GetLogger().Debug("kiosk check-in found no remaining occurrence",
			zap.String("locationID", locationID), zap.String("date", date))
		return rejected(ReasonTooLate), nil
	}

	return s.selfCheckIn(ctx, memberID, candidate.ScheduleID, candidate.Date, now, checkInSourceKiosk)
}

func nearerStart(a, b time.Time, now time.Time) bool {
	da := a.Sub(now)
	if da < 0 {
		da = -da
	}
	db := b.Sub(now)
	if db < 0 {
		db = -db
	}
	return da < db
}
