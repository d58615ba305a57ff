package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"studiofit/services/booking"
	"studiofit/utils"
)

// SelfCheckIn handles QR-code check-in against a specific occurrence.
func (h *BookingHandler) SelfCheckIn(c *gin.Context) {
	var input struct {
		ScheduleID string `json:"scheduleId" binding:"required"`
		ClassDate  string `json:"classDate" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", err.Error())
		return
	}
	memberID := c.GetString("memberID")

	result, err := h.Service.SelfCheckIn(c.Request.Context(), memberID, input.ScheduleID, input.ClassDate, time.Now())
	if err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "check-in failed", err.Error())
		return
	}
	writeCheckInResult(c, result)
}

// KioskCheckIn handles location-kiosk check-in, where the engine picks the
// occurrence whose window contains now.
func (h *BookingHandler) KioskCheckIn(c *gin.Context) {
	locationID := c.Param("locationID")
	var input struct {
		MemberID string `json:"memberId" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", err.Error())
		return
	}

	result, err := h.Service.KioskCheckIn(c.Request.Context(), input.MemberID, locationID, time.Now())
	if err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "check-in failed", err.Error())
		return
	}
	writeCheckInResult(c, result)
}

func writeCheckInResult(c *gin.Context, result *booking.CheckInResult) {
	if result.Allowed {
		c.JSON(http.StatusOK, gin.H{"result": result, "message": "Welcome! You're checked in."})
		return
	}
	c.JSON(http.StatusOK, gin.H{"result": result, "message": checkInRejectionMessage(result.Reason)})
}

func checkInRejectionMessage(reason string) string {
	switch reason {
	case booking.ReasonTooEarly:
		return "Check-in hasn't opened yet."
	case booking.ReasonTooLate:
		return "Check-in has closed for this class."
	case booking.ReasonNoBooking:
		return "No active booking found for this class."
	case booking.ReasonStillFull:
		return "The class is still full."
	case booking.ReasonClassCancelled:
		return "This class has been cancelled."
	default:
		return "Check-in not possible."
	}
}
