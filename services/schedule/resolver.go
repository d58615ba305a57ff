package schedule

import (
	"fmt"
	"time"

	"studiofit/models"
	"studiofit/utils"
)

// ResolveOccurrence merges a recurring schedule with its exception (if any)
// for one calendar date into a concrete occurrence view. It returns nil when
// the slot does not exist on that date: the schedule is nil, the date falls
// outside the recurrence window, the weekday does not match, or a DELETED
// exception removed it. A CANCELLED exception still resolves, flagged
// cancelled, so callers can render "class cancelled" without offering a
// seat.
//
// Pure function: no side effects, safe to call repeatedly and concurrently.
func ResolveOccurrence(sched *models.ClassSchedule, exc *models.ScheduleException, date string) (*models.ClassOccurrence, error) {
	if sched == nil {
		return nil, nil
	}

	day, err := time.ParseInLocation(utils.DateLayout, date, time.Local)
	if err != nil {
		return nil, fmt.Errorf("invalid occurrence date %q: %w", date, err)
	}
	if exc != nil && exc.Status == models.ExceptionDeleted {
		return nil, nil
	}
	if exc == nil {
		// Without an exception the date must match the base recurrence. An
		// exception asserts the occurrence exists on its date, so a moved
		// occurrence resolves even off the schedule's weekdays.
		if date < sched.StartDate || (sched.EndDate != "" && date > sched.EndDate) {
			return nil, nil
		}
		if !scheduledOn(sched, day.Weekday()) {
			return nil, nil
		}
	}

	occ := &models.ClassOccurrence{
		ScheduleID:      sched.ID,
		ClassID:         sched.ClassID,
		LocationID:      sched.LocationID,
		CoachID:         sched.CoachID,
		Date:            date,
		MaxParticipants: sched.MaxParticipants,
	}

	startClock := sched.StartTime
	duration := sched.DurationMinutes

	if exc != nil {
		switch exc.Status {
		case models.ExceptionCancelled:
			occ.Cancelled = true
			occ.CancelReason = exc.Reason
		case models.ExceptionModified:
			// Overrides win; unset fields fall through to the base schedule.
			if exc.NewStartTime != "" {
				startClock = exc.NewStartTime
			}
			if exc.NewDurationMinutes > 0 {
				duration = exc.NewDurationMinutes
			}
			if exc.NewCoachID != "" {
				occ.CoachID = exc.NewCoachID
			}
			if exc.NewMaxParticipants > 0 {
				occ.MaxParticipants = exc.NewMaxParticipants
			}
		}
	}

	start, err := time.ParseInLocation(utils.DateLayout+" "+utils.ClockLayout, date+" "+startClock, time.Local)
	if err != nil {
		return nil, fmt.Errorf("invalid start time %q for schedule %s: %w", startClock, sched.ID, err)
	}
	occ.StartTime = start
	occ.EndTime = start.Add(time.Duration(duration) * time.Minute)

	return occ, nil
}

func scheduledOn(sched *models.ClassSchedule, weekday time.Weekday) bool {
	for _, d := range sched.DaysOfWeek {
		if time.Weekday(d) == weekday {
			return true
		}
	}
	return false
}
