// File: studiofit/main.go
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"studiofit/config"
	"studiofit/cron"
	"studiofit/database"
	bookingRepo "studiofit/database/repository/booking"
	memberRepo "studiofit/database/repository/member"
	scheduleRepo "studiofit/database/repository/schedule"
	"studiofit/handlers"
	"studiofit/middleware"
	"studiofit/routes"
	"studiofit/services/booking"
	"studiofit/services/notification"
	"studiofit/services/schedule"
	"studiofit/utils"

	"github.com/gin-gonic/gin"
	"github.com/hibiken/asynq"
)

func main() {
	config.LoadConfig()
	logger := utils.GetLogger()

	database.InitDB()
	utils.InitCache()
	utils.InitAuthCache()
	utils.FirebaseInit()

	// Create the Gin router.
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(utils.ErrorHandler())
	router.Use(gin.Logger())
	router.Use(middleware.RateLimitMiddleware())

	// repositories.
	schedRepo := scheduleRepo.NewMongoScheduleRepo()
	bookRepo := bookingRepo.NewMongoBookingRepo()
	membRepo := memberRepo.NewMongoMemberRepo()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	if err := schedRepo.EnsureIndexes(ctx); err != nil {
		logger.Sugar().Fatalf("main: failed to ensure schedule indexes: %v", err)
	}
	if err := bookRepo.EnsureIndexes(ctx); err != nil {
		logger.Sugar().Fatalf("main: failed to ensure booking indexes: %v", err)
	}
	if err := membRepo.EnsureIndexes(ctx); err != nil {
		logger.Sugar().Fatalf("main: failed to ensure member indexes: %v", err)
	}
	cancel()

	// services.
	notificationService, err := notification.NewDefaultNotificationService(membRepo)
	if err != nil {
		logger.Sugar().Fatalf("main: failed to initialize notification service: %v", err)
	}

	scheduleService := &schedule.DefaultScheduleService{
		Repo:         schedRepo,
		Bookings:     bookRepo,
		Notification: notificationService,
		Cache:        utils.GetCacheClient(),
	}

	asynqClient := asynq.NewClient(asynq.RedisClientOpt{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPass,
		DB:       config.AppConfig.RedisQueueDB,
	})
	defer asynqClient.Close()

	bookingService := &booking.DefaultBookingService{
		Bookings:      bookRepo,
		Members:       membRepo,
		Schedule:      scheduleService,
		Notification:  notificationService,
		Analytics:     &booking.AsynqAnalyticsPublisher{Client: asynqClient},
		Reminders:     &booking.AsynqReminderScheduler{Client: asynqClient},
		CheckInWindow: time.Duration(config.AppConfig.CheckInWindowMinutes) * time.Minute,
	}

	// Background worker for reminders and analytics.
	cron.InitWorker(notificationService)

	// Assemble the handler bundle.
	handlerBundle := &routes.HandlerBundle{
		Booking:  handlers.NewBookingHandler(bookingService, scheduleService, logger),
		Schedule: handlers.NewScheduleHandler(scheduleService, logger),
		Member:   handlers.NewMemberHandler(membRepo),
	}

	// Register routes with the assembled handler bundle.
	routes.RegisterRoutes(router, handlerBundle)

	// Start the HTTP server.
	port := config.AppConfig.AppPort
	if port == "" {
		port = "8080"
	}
	srv := &http.Server{
		Addr:    "0.0.0.0:" + port,
		Handler: router,
	}

	logger.Sugar().Infof("Starting server on %s...", srv.Addr)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Sugar().Fatalf("main: server failed to start: %v", err)
		}
	}()

	// Wait for an OS signal to gracefully shutdown.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Sugar().Info("main: server is shutting down...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Sugar().Fatalf("main: server forced to shutdown: %v", err)
	}

	logger.Sugar().Info("main: server stopped gracefully")
}
