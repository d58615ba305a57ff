package booking

import (
	"context"
	"fmt"
	"time"

	"studiofit/models"
	"studiofit/services/tasks"
	"studiofit/utils"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

// AnalyticsPublisher receives booking-engine events. Fire-and-forget:
// implementations log and swallow failures, never surfacing them to the
// user.
type AnalyticsPublisher interface {
	Publish(ctx context.Context, event models.AnalyticsEvent)
}

// AsynqAnalyticsPublisher enqueues events on the shared asynq queue where
// the analytics worker drains them.
type AsynqAnalyticsPublisher struct {
	Client *asynq.Client
}

func (p *AsynqAnalyticsPublisher) Publish(ctx context.Context, event models.AnalyticsEvent) {
	task, err := tasks.NewAnalyticsTask(event)
	if err != nil {
		utils.GetLogger().Warn("failed to build analytics task", zap.Error(err))
		return
	}
	if _, err := p.Client.EnqueueContext(ctx, task); err != nil {
		utils.GetLogger().Warn("failed to enqueue analytics event",
			zap.String("type", event.Type), zap.Error(err))
	}
}

// ReminderScheduler queues delayed class reminders. Same fire-and-forget
// contract as AnalyticsPublisher.
type ReminderScheduler interface {
	ScheduleReminder(ctx context.Context, payload models.ReminderPayload, fireAt time.Time)
}

// AsynqReminderScheduler enqueues delayed class reminders on the shared
// asynq queue.
type AsynqReminderScheduler struct {
	Client *asynq.Client
}

func (r *AsynqReminderScheduler) ScheduleReminder(ctx context.Context, payload models.ReminderPayload, fireAt time.Time) {
	task, opts, err := tasks.NewReminderTask(payload, fireAt)
	if err != nil {
		utils.GetLogger().Warn("failed to build reminder task", zap.Error(err))
		return
	}
	if _, err := r.Client.EnqueueContext(ctx, task, opts...); err != nil {
		utils.GetLogger().Warn("failed to enqueue reminder",
			zap.String("memberID", payload.MemberID), zap.Error(err))
	}
}

// scheduleReminder queues a push for one hour before class start when the
// member just took a seat. Best-effort: a reminder that cannot be scheduled
// never fails the booking.
func (s *DefaultBookingService) scheduleReminder(ctx context.Context, b *models.Booking) {
	if s.Reminders == nil || b == nil || b.Status != models.StatusBooked {
		return
	}
	logger := utils.GetLogger()

	occ, err := s.Schedule.ResolveOccurrence(ctx, b.ScheduleID, b.ClassDate)
	if err != nil || occ == nil || occ.Cancelled {
		if err != nil {
			logger.Warn("reminder scheduling skipped", zap.Error(err))
		}
		return
	}
	fireAt := occ.StartTime.Add(-time.Hour)
	if !fireAt.After(time.Now()) {
		return // class too close; the booking itself is the reminder
	}

	s.Reminders.ScheduleReminder(ctx, models.ReminderPayload{
		MemberID:   b.ParticipantID,
		ScheduleID: b.ScheduleID,
		ClassDate:  b.ClassDate,
		Title:      "Class coming up",
		Body:       fmt.Sprintf("Your class starts at %s.", occ.StartTime.Format("15:04")),
		FireDate:   fireAt.Format(time.RFC3339),
	}, fireAt)
}

func (s *DefaultBookingService) publishEvent(ctx context.Context, eventType string, b *models.Booking) {
	if s.Analytics == nil || b == nil {
		return
	}
	s.Analytics.Publish(ctx, models.AnalyticsEvent{
		Type:       eventType,
		OccurredAt: time.Now(),
		Attributes: map[string]string{
			"bookingId":     b.ID,
			"participantId": b.ParticipantID,
			"scheduleId":    b.ScheduleID,
			"classDate":     b.ClassDate,
			"status":        b.Status,
		},
	})
}

// fanOutToConnections tells the booker's accepted connections about the new
// booking, when the booker opted into sharing. Connections already active in
// the same occurrence are skipped. Delivery is best-effort.
func (s *DefaultBookingService) fanOutToConnections(ctx context.Context, b *models.Booking) {
	if s.Notification == nil || b == nil || !b.Active() {
		return
	}
	logger := utils.GetLogger()

	booker, err := s.Members.GetByID(ctx, b.ParticipantID)
	if err != nil || booker == nil || !booker.ShareBookings || len(booker.Connections) == 0 {
		if err != nil {
			logger.Warn("friend fan-out skipped", zap.Error(err))
		}
		return
	}

	rows, err := s.Bookings.GetByOccurrence(ctx, b.ScheduleID, b.ClassDate)
	if err != nil {
		logger.Warn("friend fan-out skipped", zap.Error(err))
		return
	}
	alreadyIn := make(map[string]bool)
	for _, row := range rows {
		if row.Active() {
			alreadyIn[row.ParticipantID] = true
		}
	}

	var notifications []models.Notification
	for _, friendID := range booker.Connections {
		if alreadyIn[friendID] {
			continue
		}
		notifications = append(notifications, models.Notification{
			MemberID:   friendID,
			Kind:       models.NotifyFriendBooked,
			ScheduleID: b.ScheduleID,
			ClassDate:  b.ClassDate,
			Title:      fmt.Sprintf("%s booked a class", booker.Name),
			Body:       fmt.Sprintf("%s is going to a class on %s. Join them?", booker.Name, b.ClassDate),
		})
	}
	s.Notification.NotifyMany(ctx, notifications)
}
