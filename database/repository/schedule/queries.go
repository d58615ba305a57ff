// File: database/repository/schedule/queries.go
package scheduleRepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"studiofit/models"
)

func (r *mongoScheduleRepo) GetByLocation(ctx context.Context, locationID string) ([]models.ClassSchedule, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	cursor, err := r.schedColl.Find(ctx, bson.M{"location_id": locationID})
	if err != nil {
		return nil, fmt.Errorf("failed to query schedules for location %s: %w", locationID, err)
	}
	defer cursor.Close(ctx)

	var schedules []models.ClassSchedule
	if err := cursor.All(ctx, &schedules); err != nil {
		return nil, err
	}
	return schedules, nil
}

func (r *mongoScheduleRepo) GetException(ctx context.Context, scheduleID, date string) (*models.ScheduleException, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var exc models.ScheduleException
	err := r.excColl.FindOne(ctx, bson.M{"schedule_id": scheduleID, "date": date}).Decode(&exc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch exception for schedule %s on %s: %w", scheduleID, date, err)
	}
	return &exc, nil
}

func (r *mongoScheduleRepo) GetExceptionsForDate(ctx context.Context, date string, scheduleIDs []string) (map[string]models.ScheduleException, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{"date": date, "schedule_id": bson.M{"$in": scheduleIDs}}
	cursor, err := r.excColl.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to query exceptions for %s: %w", date, err)
	}
	defer cursor.Close(ctx)

	out := make(map[string]models.ScheduleException)
	for cursor.Next(ctx) {
		var exc models.ScheduleException
		if err := cursor.Decode(&exc); err != nil {
			return nil, err
		}
		out[exc.ScheduleID] = exc
	}
	return out, cursor.Err()
}
