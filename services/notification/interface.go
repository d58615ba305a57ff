package notification

import (
	"context"
	"fmt"

	memberRepo "studiofit/database/repository/member"
	"studiofit/models"
	"studiofit/utils"

	"firebase.google.com/go/v4/messaging"
)

// NotificationService delivers booking-engine notifications to members. The
// engine only produces (member, kind, occurrence, message) tuples; delivery
// is this collaborator's concern.
type NotificationService interface {
	SendMemberPush(ctx context.Context, memberID, title, body string, data map[string]string) error
	NotifyMany(ctx context.Context, notifications []models.Notification)
}

// DefaultNotificationService sends pushes through FCM.
type DefaultNotificationService struct {
	Members memberRepo.MemberRepository
}

func NewDefaultNotificationService(members memberRepo.MemberRepository) (*DefaultNotificationService, error) {
	if members == nil {
		return nil, fmt.Errorf("notification service initialization error: member repository is nil")
	}
	return &DefaultNotificationService{Members: members}, nil
}

// SendMemberPush looks up a member's FCM token and sends a push. Members
// without a token are skipped silently.
func (s *DefaultNotificationService) SendMemberPush(ctx context.Context, memberID, title, body string, data map[string]string) error {
	m, err := s.Members.GetByID(ctx, memberID)
	if err != nil {
		return fmt.Errorf("SendMemberPush: could not find member %s: %w", memberID, err)
	}
	if m == nil || m.FCMToken == "" {
		return nil // no push target
	}

	msg := &messaging.Message{
		Token: m.FCMToken,
		Notification: &messaging.Notification{
			Title: title,
			Body:  body,
		},
		Data: data,
	}

	if _, err := utils.FCMClient.Send(ctx, msg); err != nil {
		return fmt.Errorf("SendMemberPush: failed to send FCM message: %w", err)
	}
	return nil
}

// NotifyMany fans out a batch of notification tuples. Delivery failures are
// logged and swallowed; the booking engine never blocks on push delivery.
func (s *DefaultNotificationService) NotifyMany(ctx context.Context, notifications []models.Notification) {
	logger := utils.GetLogger().Sugar()
	for _, n := range notifications {
		data := map[string]string{
			"kind":       n.Kind,
			"scheduleId": n.ScheduleID,
			"classDate":  n.ClassDate,
		}
		if err := s.SendMemberPush(ctx, n.MemberID, n.Title, n.Body, data); err != nil {
			logger.Warnf("notification fan-out failed for member %s: %v", n.MemberID, err)
		}
	}
}
