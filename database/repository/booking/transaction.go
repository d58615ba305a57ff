// File: database/repository/booking/transaction.go
package bookingRepo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// WithOccurrenceTxn runs fn inside a MongoDB transaction keyed on
// (scheduleID, classDate). The transaction touches a lock document for the
// occurrence first, so two concurrent mutations of the same occurrence
// produce a write conflict and one of them retries against fresh state.
// This closes the client-computed capacity race: the occupancy count and
// seat assignment always happen against the same snapshot.
func (r *mongoBookingRepo) WithOccurrenceTxn(ctx context.Context, scheduleID, classDate string, fn func(ctx context.Context) error) error {
	client := r.bookingColl.Database().Client()
	sess, err := client.StartSession()
	if err != nil {
		return fmt.Errorf("could not start mongo session: %w", err)
	}
	defer sess.EndSession(ctx)

	txnFn := func(sc mongo.SessionContext) (interface{}, error) {
		filter := bson.M{"schedule_id": scheduleID, "class_date": classDate}
		update := bson.M{
			"$set": bson.M{"touched_at": time.Now()},
			"$setOnInsert": bson.M{
				"schedule_id": scheduleID,
				"class_date":  classDate,
			},
		}
		opts := options.Update().SetUpsert(true)
		if _, err := r.lockColl.UpdateOne(sc, filter, update, opts); err != nil {
			return nil, fmt.Errorf("failed to touch occurrence lock: %w", err)
		}
		return nil, fn(sc)
	}

	if _, err := sess.WithTransaction(ctx, txnFn); err != nil {
		return fmt.Errorf("occurrence transaction failed for %s/%s: %w", scheduleID, classDate, err)
	}
	return nil
}
