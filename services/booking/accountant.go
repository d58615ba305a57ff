package booking

import (
	"context"
	"fmt"
	"time"

	"studiofit/models"
	"studiofit/utils"

	"go.uber.org/zap"
)

// The resource accountant keeps a clip-card member's prepaid balance in
// lockstep with booking-state transitions. It runs inside the same
// occurrence transaction as the triggering status change, and nothing else
// mutates RemainingClips.

// Debit consumes one clip when the participant occupies a seat. Members on
// subscriptions are untouched. An empty balance does not block: the booking
// the member already initiated proceeds undebited (the UI warns beforehand),
// the balance only gates waitlist promotion eligibility.
func (s *DefaultBookingService) Debit(ctx context.Context, participantID string) error {
	m, err := s.Members.GetByID(ctx, participantID)
	if err != nil {
		return fmt.Errorf("debit failed for %s: %w", participantID, err)
	}
	if m == nil {
		utils.GetLogger().Warn("debit requested for unknown member", zap.String("memberID", participantID))
		return nil
	}
	if m.Membership.Type != models.MembershipClipCard || m.ClipCard == nil {
		return nil
	}
	if m.ClipCard.RemainingClips <= 0 {
		utils.GetLogger().Debug("debit skipped at zero balance", zap.String("memberID", participantID))
		return nil
	}

	status := *m.ClipCard
	status.RemainingClips--
	status.LastUpdated = time.Now()
	if err := s.Members.UpdateClipCard(ctx, participantID, status); err != nil {
		return fmt.Errorf("debit failed for %s: %w", participantID, err)
	}
	return nil
}

// Refund returns one clip when an occupied seat is released. The refund is
// capped at the card's original grant so repeated coach cancellations cannot
// mint clips the member never paid for.
func (s *DefaultBookingService) Refund(ctx context.Context, participantID string) error {
	m, err := s.Members.GetByID(ctx, participantID)
	if err != nil {
		return fmt.Errorf("refund failed for %s: %w", participantID, err)
	}
	if m == nil {
		utils.GetLogger().Warn("refund requested for unknown member", zap.String("memberID", participantID))
		return nil
	}
	if m.Membership.Type != models.MembershipClipCard || m.ClipCard == nil {
		return nil
	}
	if m.Membership.ClipCardClips > 0 && m.ClipCard.RemainingClips >= m.Membership.ClipCardClips {
		utils.GetLogger().Warn("refund capped at original grant", zap.String("memberID", participantID))
		return nil
	}

	status := *m.ClipCard
	status.RemainingClips++
	status.LastUpdated = time.Now()
	if err := s.Members.UpdateClipCard(ctx, participantID, status); err != nil {
		return fmt.Errorf("refund failed for %s: %w", participantID, err)
	}
	return nil
}

// eligibleForSeat reports whether the member may take a freed seat. Clip-card
// members need at least one remaining clip; every other membership type is
// always eligible.
func eligibleForSeat(m *models.Member) bool {
	if m == nil {
		return false
	}
	if m.Membership.Type != models.MembershipClipCard {
		return true
	}
	return m.ClipCard != nil && m.ClipCard.RemainingClips > 0
}
