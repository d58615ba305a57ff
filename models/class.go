package models

// ClassDefinition is immutable reference data describing a class type.
type ClassDefinition struct {
	ID              string `bson:"id" json:"id"`
	Name            string `bson:"name" json:"name"`
	DurationMinutes int    `bson:"duration_minutes" json:"durationMinutes"`
	Color           string `bson:"color,omitempty" json:"color,omitempty"`
}

// ClassSchedule is a recurring weekly template. One schedule yields an
// occurrence for every date where StartDate <= date <= EndDate and the
// date's weekday is in DaysOfWeek.
type ClassSchedule struct {
	ID              string `bson:"id" json:"id"`
	ClassID         string `bson:"class_id" json:"classId"`
	LocationID      string `bson:"location_id" json:"locationId"`
	CoachID         string `bson:"coach_id" json:"coachId"`
	StartTime       string `bson:"start_time" json:"startTime"` // "HH:MM"
	DurationMinutes int    `bson:"duration_minutes" json:"durationMinutes"`
	MaxParticipants int    `bson:"max_participants" json:"maxParticipants"`
	DaysOfWeek      []int  `bson:"days_of_week" json:"daysOfWeek"` // time.Weekday values, 0 = Sunday
	StartDate       string `bson:"start_date" json:"startDate"`    // "YYYY-MM-DD"
	EndDate         string `bson:"end_date" json:"endDate"`
}

// Exception statuses.
const (
	ExceptionModified  = "MODIFIED"
	ExceptionCancelled = "CANCELLED"
	ExceptionDeleted   = "DELETED"
)

// ScheduleException is a per-date patch on top of a recurring schedule.
// At most one exception exists per (ScheduleID, Date); writes upsert.
// Zero-valued override fields fall through to the base schedule.
type ScheduleException struct {
	ID                 string `bson:"id" json:"id"`
	ScheduleID         string `bson:"schedule_id" json:"scheduleId"`
	Date               string `bson:"date" json:"date"` // "YYYY-MM-DD"
	Status             string `bson:"status" json:"status"`
	NewStartTime       string `bson:"new_start_time,omitempty" json:"newStartTime,omitempty"`
	NewDurationMinutes int    `bson:"new_duration_minutes,omitempty" json:"newDurationMinutes,omitempty"`
	NewCoachID         string `bson:"new_coach_id,omitempty" json:"newCoachId,omitempty"`
	NewMaxParticipants int    `bson:"new_max_participants,omitempty" json:"newMaxParticipants,omitempty"`
	NewDate            string `bson:"new_date,omitempty" json:"newDate,omitempty"` // set when the occurrence was moved here
	Reason             string `bson:"reason,omitempty" json:"reason,omitempty"`
}
