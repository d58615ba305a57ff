package routes

import (
	"net/http"
	"time"

	"studiofit/handlers"
	"studiofit/middleware"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// HandlerBundle collects the handler instances the routes need.
type HandlerBundle struct {
	Booking  *handlers.BookingHandler
	Schedule *handlers.ScheduleHandler
	Member   *handlers.MemberHandler
}

// RegisterMemberRoutes registers member endpoints.
func RegisterMemberRoutes(r *gin.Engine, hb *HandlerBundle) {
	api := r.Group("/api/members")
	{
		api.POST("/login", hb.Member.Login)

		// Protected routes (Require Authentication)
		api.Use(middleware.JWTAuthMemberMiddleware())
		api.GET("/id/:id", hb.Member.GetMember)
	}
}

// RegisterScheduleRoutes registers occurrence resolution and exception
// management endpoints.
func RegisterScheduleRoutes(r *gin.Engine, hb *HandlerBundle) {
	api := r.Group("/api/schedule")
	api.Use(middleware.JWTAuthMemberMiddleware())
	{
		api.GET("/occurrences", hb.Schedule.OccurrencesForDate)
		api.GET("/:scheduleID/occurrences/:date", hb.Schedule.GetOccurrence)

		// Exception writes are coach actions.
		coach := api.Group("")
		coach.Use(middleware.CoachOnlyMiddleware())
		coach.PUT("/:scheduleID/exceptions/:date", hb.Schedule.UpsertException)
		coach.POST("/:scheduleID/occurrences/:date/cancel", hb.Schedule.CancelOccurrence)
		coach.POST("/:scheduleID/occurrences/:date/move", hb.Schedule.MoveOccurrence)
	}
}

// RegisterHealthRoute registers a health-check endpoint.
func RegisterHealthRoute(r *gin.Engine) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "message": "studiofit booking engine"})
	})
}

// RegisterRoutes centralizes registration of all endpoints and middleware.
func RegisterRoutes(r *gin.Engine, hb *HandlerBundle) {
	// Setup global middleware (e.g., CORS) here.
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Authorization", "Content-Type", "X-Studio-Role"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	RegisterMemberRoutes(r, hb)
	RegisterScheduleRoutes(r, hb)
	RegisterHealthRoute(r)
	RegisterBookingRoutes(r, hb)
}
