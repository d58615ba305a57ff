// File: database/repository/booking/indexes.go
package bookingRepo

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// EnsureIndexes creates the indexes the booking repository relies on. The
// unique (participant_id, schedule_id, class_date) index enforces one row
// per triple regardless of status; history lives in the attendance log.
func (r *mongoBookingRepo) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	_, err := r.bookingColl.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "id", Value: 1}}, Options: options.Index().SetUnique(true)},
		{
			Keys: bson.D{
				{Key: "participant_id", Value: 1},
				{Key: "schedule_id", Value: 1},
				{Key: "class_date", Value: 1},
			},
			Options: options.Index().SetUnique(true),
		},
		{Keys: bson.D{{Key: "schedule_id", Value: 1}, {Key: "class_date", Value: 1}, {Key: "status", Value: 1}}},
	})
	if err != nil {
		return err
	}

	_, err = r.lockColl.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "schedule_id", Value: 1}, {Key: "class_date", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	return err
}
