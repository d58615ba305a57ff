// File: database/repository/member/crud.go
package memberRepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"studiofit/models"
)

func (r *mongoMemberRepo) GetByID(ctx context.Context, id string) (*models.Member, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var member models.Member
	err := r.coll.FindOne(ctx, bson.M{"id": id}).Decode(&member)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch member %s: %w", id, err)
	}
	return &member, nil
}

func (r *mongoMemberRepo) GetByEmail(ctx context.Context, email string) (*models.Member, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var member models.Member
	err := r.coll.FindOne(ctx, bson.M{"email": email}).Decode(&member)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch member by email: %w", err)
	}
	return &member, nil
}

func (r *mongoMemberRepo) GetByIDs(ctx context.Context, ids []string) ([]models.Member, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	cursor, err := r.coll.Find(ctx, bson.M{"id": bson.M{"$in": ids}})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch members: %w", err)
	}
	defer cursor.Close(ctx)

	var members []models.Member
	if err := cursor.All(ctx, &members); err != nil {
		return nil, err
	}
	return members, nil
}

func (r *mongoMemberRepo) Create(ctx context.Context, member *models.Member) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if member.ID == "" {
		member.ID = uuid.New().String()
	}
	if _, err := r.coll.InsertOne(ctx, member); err != nil {
		return fmt.Errorf("failed to insert member: %w", err)
	}
	return nil
}

func (r *mongoMemberRepo) UpdateClipCard(ctx context.Context, memberID string, status models.ClipCardStatus) error {
	res, err := r.coll.UpdateOne(ctx,
		bson.M{"id": memberID},
		bson.M{"$set": bson.M{"clip_card": status}},
	)
	if err != nil {
		return fmt.Errorf("failed to update clip card for member %s: %w", memberID, err)
	}
	if res.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}
