package scheduleRepo

import (
	"go.mongodb.org/mongo-driver/mongo"

	"studiofit/database"
)

type mongoScheduleRepo struct {
	schedColl *mongo.Collection
	excColl   *mongo.Collection
}

// NewMongoScheduleRepo returns a ScheduleRepository backed by MongoDB.
func NewMongoScheduleRepo() ScheduleRepository {
	db := database.DB()
	return &mongoScheduleRepo{
		schedColl: db.Collection("class_schedules"),
		excColl:   db.Collection("schedule_exceptions"),
	}
}
