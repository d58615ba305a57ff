package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"studiofit/models"
	"studiofit/services/booking"
	"studiofit/services/schedule"
	"studiofit/utils"
)

// BookingHandler exposes the booking ledger over HTTP.
type BookingHandler struct {
	Service  booking.BookingService
	Schedule schedule.ScheduleService
	Logger   *zap.Logger
}

func NewBookingHandler(svc booking.BookingService, schedSvc schedule.ScheduleService, logger *zap.Logger) *BookingHandler {
	return &BookingHandler{Service: svc, Schedule: schedSvc, Logger: logger}
}

// Book places the authenticated member into an occurrence. Capacity comes
// from a freshly resolved occurrence, never from the client.
func (h *BookingHandler) Book(c *gin.Context) {
	var input struct {
		ScheduleID string `json:"scheduleId" binding:"required"`
		ClassDate  string `json:"classDate" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", err.Error())
		return
	}
	memberID := c.GetString("memberID")

	occ, err := h.Schedule.ResolveOccurrence(c.Request.Context(), input.ScheduleID, input.ClassDate)
	if err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "failed to resolve occurrence", err.Error())
		return
	}
	if occ == nil {
		utils.JSONError(c, http.StatusNotFound, "no class on that date", "")
		return
	}
	if occ.Cancelled {
		utils.JSONError(c, http.StatusConflict, "class is cancelled", "")
		return
	}

	b, err := h.Service.Book(c.Request.Context(), memberID, input.ScheduleID, input.ClassDate, occ.MaxParticipants)
	if err != nil {
		var ledgerErr *booking.LedgerError
		if errors.As(err, &ledgerErr) {
			utils.JSONError(c, http.StatusBadRequest, ledgerErr.Message, "")
			return
		}
		utils.JSONError(c, http.StatusInternalServerError, "booking failed", err.Error())
		return
	}

	message := "You're booked!"
	if b.Status == models.StatusWaitlisted {
		message = "Class is full. You're on the waitlist."
	}
	c.JSON(http.StatusOK, gin.H{"booking": b, "message": message})
}

// Cancel releases a booking. Coaches pass reason "coach"; everything else is
// treated as a self-cancellation.
func (h *BookingHandler) Cancel(c *gin.Context) {
	bookingID := c.Param("id")

	reason := models.CancelReasonSelf
	if c.GetHeader("X-Studio-Role") == "coach" {
		reason = models.CancelReasonCoach
	}

	if err := h.Service.Cancel(c.Request.Context(), bookingID, reason); err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "cancellation failed", err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Booking cancelled"})
}

// CheckIn is the coach-facing roster action.
func (h *BookingHandler) CheckIn(c *gin.Context) {
	bookingID := c.Param("id")
	var input struct {
		ScheduleID string `json:"scheduleId" binding:"required"`
		ClassDate  string `json:"classDate" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", err.Error())
		return
	}

	occ, err := h.Schedule.ResolveOccurrence(c.Request.Context(), input.ScheduleID, input.ClassDate)
	if err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "failed to resolve occurrence", err.Error())
		return
	}
	if occ == nil {
		utils.JSONError(c, http.StatusNotFound, "no class on that date", "")
		return
	}

	if err := h.Service.CheckIn(c.Request.Context(), bookingID, occ.MaxParticipants); err != nil {
		var ledgerErr *booking.LedgerError
		if errors.As(err, &ledgerErr) {
			utils.JSONError(c, http.StatusConflict, ledgerErr.Message, "")
			return
		}
		utils.JSONError(c, http.StatusInternalServerError, "check-in failed", err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Checked in"})
}

// UndoCheckIn reverses an erroneous coach check-in.
func (h *BookingHandler) UndoCheckIn(c *gin.Context) {
	bookingID := c.Param("id")
	if err := h.Service.UndoCheckIn(c.Request.Context(), bookingID); err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "undo check-in failed", err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Check-in undone"})
}
