package tasks

import (
	"encoding/json"

	"studiofit/models"

	"github.com/hibiken/asynq"
)

const TypeAnalyticsEvent = "analytics:event"

func NewAnalyticsTask(event models.AnalyticsEvent) (*asynq.Task, error) {
	b, err := json.Marshal(event)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TypeAnalyticsEvent, b), nil
}
