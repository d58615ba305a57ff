// File: database/repository/booking/queries.go
package bookingRepo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"

	"studiofit/models"
)

func (r *mongoBookingRepo) GetByOccurrence(ctx context.Context, scheduleID, classDate string) ([]models.Booking, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{"schedule_id": scheduleID, "class_date": classDate}
	cursor, err := r.bookingColl.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to query bookings for schedule %s on %s: %w", scheduleID, classDate, err)
	}
	defer cursor.Close(ctx)

	var bookings []models.Booking
	if err := cursor.All(ctx, &bookings); err != nil {
		return nil, err
	}
	return bookings, nil
}

func (r *mongoBookingRepo) FindByTriple(ctx context.Context, participantID, scheduleID, classDate string) ([]models.Booking, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{
		"participant_id": participantID,
		"schedule_id":    scheduleID,
		"class_date":     classDate,
	}
	cursor, err := r.bookingColl.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to query bookings for participant %s: %w", participantID, err)
	}
	defer cursor.Close(ctx)

	var bookings []models.Booking
	if err := cursor.All(ctx, &bookings); err != nil {
		return nil, err
	}
	return bookings, nil
}

func (r *mongoBookingRepo) CountOccupying(ctx context.Context, scheduleID, classDate string) (int, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{
		"schedule_id": scheduleID,
		"class_date":  classDate,
		"status":      bson.M{"$in": bson.A{models.StatusBooked, models.StatusCheckedIn}},
	}
	count, err := r.bookingColl.CountDocuments(ctx, filter)
	if err != nil {
		return 0, fmt.Errorf("failed to count occupying bookings: %w", err)
	}
	return int(count), nil
}
