// File: database/repository/schedule/crud.go
package scheduleRepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"studiofit/models"
)

func (r *mongoScheduleRepo) GetByID(ctx context.Context, id string) (*models.ClassSchedule, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var schedule models.ClassSchedule
	err := r.schedColl.FindOne(ctx, bson.M{"id": id}).Decode(&schedule)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch schedule %s: %w", id, err)
	}
	return &schedule, nil
}

func (r *mongoScheduleRepo) Create(ctx context.Context, schedule *models.ClassSchedule) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if schedule.ID == "" {
		schedule.ID = uuid.New().String()
	}
	if _, err := r.schedColl.InsertOne(ctx, schedule); err != nil {
		return fmt.Errorf("failed to insert schedule: %w", err)
	}
	return nil
}

func (r *mongoScheduleRepo) UpsertException(ctx context.Context, exc models.ScheduleException) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if exc.ID == "" {
		exc.ID = uuid.New().String()
	}

	filter := bson.M{"schedule_id": exc.ScheduleID, "date": exc.Date}
	opts := options.Replace().SetUpsert(true)
	if _, err := r.excColl.ReplaceOne(ctx, filter, exc, opts); err != nil {
		return fmt.Errorf("failed to upsert exception for schedule %s on %s: %w", exc.ScheduleID, exc.Date, err)
	}
	return nil
}
