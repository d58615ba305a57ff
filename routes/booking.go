package routes

import (
	"studiofit/middleware"

	"github.com/gin-gonic/gin"
)

// RegisterBookingRoutes registers all endpoints for the booking engine.
func RegisterBookingRoutes(r *gin.Engine, hb *HandlerBundle) {
	bookings := r.Group("/api/bookings")
	bookings.Use(middleware.JWTAuthMemberMiddleware())
	{
		bookings.POST("", hb.Booking.Book)
		bookings.DELETE("/:id", hb.Booking.Cancel)

		// Roster check-in actions are coach-facing.
		coach := bookings.Group("")
		coach.Use(middleware.CoachOnlyMiddleware())
		coach.POST("/:id/checkin", hb.Booking.CheckIn)
		coach.POST("/:id/undo-checkin", hb.Booking.UndoCheckIn)
	}

	checkin := r.Group("/api/checkin")
	{
		// Self check-in carries the member's own token; the kiosk endpoint
		// identifies the member by scanned card instead.
		checkin.POST("/occurrence", middleware.JWTAuthMemberMiddleware(), hb.Booking.SelfCheckIn)
		checkin.POST("/location/:locationID", hb.Booking.KioskCheckIn)
	}
}
