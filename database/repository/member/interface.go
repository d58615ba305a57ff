package memberRepo

import (
	"context"

	"studiofit/models"
)

// MemberRepository defines persistence for members and their clip-card
// balances.
type MemberRepository interface {
	GetByID(ctx context.Context, id string) (*models.Member, error)
	GetByEmail(ctx context.Context, email string) (*models.Member, error)
	GetByIDs(ctx context.Context, ids []string) ([]models.Member, error)
	Create(ctx context.Context, member *models.Member) error
	// UpdateClipCard replaces the member's clip-card status. Callers are the
	// booking service's resource accountant only.
	UpdateClipCard(ctx context.Context, memberID string, status models.ClipCardStatus) error

	EnsureIndexes(ctx context.Context) error
}
