package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"studiofit/models"
	"studiofit/services/schedule"
	"studiofit/utils"
)

// ScheduleHandler exposes occurrence resolution and exception management.
type ScheduleHandler struct {
	Service schedule.ScheduleService
	Logger  *zap.Logger
}

func NewScheduleHandler(svc schedule.ScheduleService, logger *zap.Logger) *ScheduleHandler {
	return &ScheduleHandler{Service: svc, Logger: logger}
}

// OccurrencesForDate lists a location's resolved occurrences for one day.
func (h *ScheduleHandler) OccurrencesForDate(c *gin.Context) {
	locationID := c.Query("locationId")
	date := c.Query("date")
	if locationID == "" || date == "" {
		utils.JSONError(c, http.StatusBadRequest, "locationId and date are required", "")
		return
	}

	occurrences, err := h.Service.OccurrencesForDate(c.Request.Context(), locationID, date)
	if err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "failed to list occurrences", err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"occurrences": occurrences})
}

// GetOccurrence returns the resolved view for one (schedule, date) pair.
func (h *ScheduleHandler) GetOccurrence(c *gin.Context) {
	scheduleID := c.Param("scheduleID")
	date := c.Param("date")

	occ, err := h.Service.ResolveOccurrence(c.Request.Context(), scheduleID, date)
	if err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "failed to resolve occurrence", err.Error())
		return
	}
	if occ == nil {
		utils.JSONError(c, http.StatusNotFound, "no class on that date", "")
		return
	}
	c.JSON(http.StatusOK, gin.H{"occurrence": occ})
}

// UpsertException writes a per-date override for a schedule.
func (h *ScheduleHandler) UpsertException(c *gin.Context) {
	var exc models.ScheduleException
	if err := c.ShouldBindJSON(&exc); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", err.Error())
		return
	}
	exc.ScheduleID = c.Param("scheduleID")
	exc.Date = c.Param("date")
	if exc.Status == "" {
		exc.Status = models.ExceptionModified
	}

	if err := h.Service.UpsertException(c.Request.Context(), exc); err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "failed to write exception", err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Exception saved"})
}

// CancelOccurrence cancels one class instance and notifies its participants.
func (h *ScheduleHandler) CancelOccurrence(c *gin.Context) {
	var input struct {
		Reason string `json:"reason"`
	}
	_ = c.ShouldBindJSON(&input)

	affected, err := h.Service.CancelOccurrence(c.Request.Context(), c.Param("scheduleID"), c.Param("date"), input.Reason)
	if err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "failed to cancel occurrence", err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Class cancelled", "affectedMembers": affected})
}

// MoveOccurrence relocates one class instance to another date.
func (h *ScheduleHandler) MoveOccurrence(c *gin.Context) {
	var input struct {
		ToDate    string                   `json:"toDate" binding:"required"`
		Overrides models.ScheduleException `json:"overrides"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", err.Error())
		return
	}

	err := h.Service.MoveOccurrence(c.Request.Context(), c.Param("scheduleID"), c.Param("date"), input.ToDate, input.Overrides)
	if err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "failed to move occurrence", err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Class moved", "newDate": input.ToDate})
}
