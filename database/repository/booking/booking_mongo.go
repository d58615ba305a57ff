package bookingRepo

import (
	"go.mongodb.org/mongo-driver/mongo"

	"studiofit/database"
)

type mongoBookingRepo struct {
	bookingColl    *mongo.Collection
	attendanceColl *mongo.Collection
	lockColl       *mongo.Collection
}

// NewMongoBookingRepo returns a BookingRepository backed by MongoDB.
func NewMongoBookingRepo() BookingRepository {
	db := database.DB()
	return &mongoBookingRepo{
		bookingColl:    db.Collection("bookings"),
		attendanceColl: db.Collection("attendance_log"),
		lockColl:       db.Collection("occurrence_locks"),
	}
}
