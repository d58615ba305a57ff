package cron

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"studiofit/config"
	"studiofit/models"
	"studiofit/services/notification"
	"studiofit/services/tasks"

	"github.com/go-redis/redis/v8"
	"github.com/hibiken/asynq"
)

// InitWorker runs the async worker in background. It drains the class
// reminder queue and the fire-and-forget analytics queue.
func InitWorker(notifSvc notification.NotificationService) {
	redisOpts := asynq.RedisClientOpt{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPass,
		DB:       config.AppConfig.RedisQueueDB,
	}

	srv := asynq.NewServer(
		redisOpts,
		asynq.Config{
			Concurrency: 10,
			Queues: map[string]int{
				"default": 1,
			},
		},
	)

	mux := asynq.NewServeMux()
	mux.HandleFunc(tasks.TypeSendReminder, handleReminderTask(notifSvc))
	mux.HandleFunc(tasks.TypeAnalyticsEvent, handleAnalyticsTask)

	// Start Redis health monitor
	go monitorRedisConnection()

	// Start async worker with retry logic
	go func() {
		log.Println("[Worker] Starting async worker...")
		const maxAttempts = 5

		for attempts := 1; attempts <= maxAttempts; attempts++ {
			if err := srv.Run(mux); err != nil {
				log.Printf("[Worker] Attempt %d/%d failed to start worker: %v", attempts, maxAttempts, err)

				if attempts == maxAttempts {
					log.Fatal("[Worker] Max retry attempts reached. Exiting.")
				}
				time.Sleep(time.Duration(attempts*2) * time.Second) // Exponential backoff
			} else {
				break
			}
		}
	}()
}

func handleReminderTask(notifSvc notification.NotificationService) asynq.HandlerFunc {
	return func(ctx context.Context, task *asynq.Task) error {
		var p models.ReminderPayload
		if err := json.Unmarshal(task.Payload(), &p); err != nil {
			log.Printf("[ReminderHandler] Invalid payload: %v", err)
			return err
		}

		log.Printf("[ReminderHandler] Triggering reminder for member %s -> %s", p.MemberID, p.Title)

		data := map[string]string{
			"kind":       models.NotifyClassReminder,
			"scheduleId": p.ScheduleID,
			"classDate":  p.ClassDate,
			"fireDate":   p.FireDate,
		}

		if err := notifSvc.SendMemberPush(ctx, p.MemberID, p.Title, p.Body, data); err != nil {
			log.Printf("[ReminderHandler] Failed to send notification: %v", err)
			return err
		}
		return nil
	}
}

// handleAnalyticsTask hands booking events to the analytics collaborator.
// Delivery is an external concern; failures are logged and swallowed so the
// queue never backs up on a flaky sink.
func handleAnalyticsTask(_ context.Context, task *asynq.Task) error {
	var event models.AnalyticsEvent
	if err := json.Unmarshal(task.Payload(), &event); err != nil {
		log.Printf("[AnalyticsHandler] Invalid payload: %v", err)
		return nil
	}
	log.Printf("[AnalyticsHandler] %s at %s: %v", event.Type, event.OccurredAt.Format(time.RFC3339), event.Attributes)
	return nil
}

// monitorRedisConnection pings Redis periodically to detect failures at runtime.
func monitorRedisConnection() {
	client := redis.NewClient(&redis.Options{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPass,
		DB:       config.AppConfig.RedisQueueDB,
	})

	ctx := context.Background()

	for {
		if err := client.Ping(ctx).Err(); err != nil {
			log.Printf("[Worker] Redis connection lost: %v", err)
		}
		time.Sleep(10 * time.Second)
	}
}
