package handlers

import (
	"net/http"
	"strconv"
	"time"

	"bookline/models"
	"bookline/services/scheduling"
	"bookline/utils"

	"github.com/gin-gonic/gin"
)

// AvailabilityHandler exposes the weekly availability template endpoints.
type AvailabilityHandler struct {
	Registry scheduling.ScheduleRegistry
}

// NewAvailabilityHandler constructs an AvailabilityHandler.
func NewAvailabilityHandler(registry scheduling.ScheduleRegistry) *AvailabilityHandler {
	return &AvailabilityHandler{Registry: registry}
}

// SetDayAvailability replaces one weekday's open intervals wholesale.
func (h *AvailabilityHandler) SetDayAvailability(c *gin.Context) {
	professionalID := c.Param("id")
	day, ok := parseWeekday(c.Param("weekday"))
	if !ok {
		utils.JSONError(c, http.StatusBadRequest, "invalid weekday", "expected 0 (Sunday) through 6 (Saturday)")
		return
	}

	var input struct {
		Intervals []models.OpenInterval `json:"intervals"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", err.Error())
		return
	}

	intervals, err := h.Registry.SetAvailability(professionalID, day, input.Intervals)
	if err != nil {
		switch {
		case scheduling.HasCode(err, scheduling.CodeInvalidInterval):
			utils.JSONError(c, http.StatusBadRequest, "invalid interval", err.Error())
		case scheduling.HasCode(err, scheduling.CodeNotFound):
			utils.JSONError(c, http.StatusNotFound, "not found", err.Error())
		default:
			utils.JSONError(c, http.StatusInternalServerError, "failed to set availability", err.Error())
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{"weekday": int(day), "intervals": intervals})
}

// GetWeeklyAvailability returns the full seven-day template.
func (h *AvailabilityHandler) GetWeeklyAvailability(c *gin.Context) {
	weekly, err := h.Registry.WeeklyAvailability(c.Param("id"))
	if err != nil {
		if scheduling.HasCode(err, scheduling.CodeNotFound) {
			utils.JSONError(c, http.StatusNotFound, "not found", err.Error())
			return
		}
		utils.JSONError(c, http.StatusInternalServerError, "failed to fetch availability", err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"weekly": weekly})
}

func parseWeekday(raw string) (time.Weekday, bool) {
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 || n > 6 {
		return 0, false
	}
	return time.Weekday(n), true
}
