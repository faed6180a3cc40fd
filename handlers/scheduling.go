package handlers

import (
	"net/http"
	"time"

	"bookline/middleware"
	"bookline/models"
	"bookline/services/scheduling"
	"bookline/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// SchedulingHandler exposes the availability and booking endpoints.
type SchedulingHandler struct {
	Slots       scheduling.SlotComputer
	Coordinator scheduling.BookingCoordinator
	Logger      *zap.Logger
}

// NewSchedulingHandler constructs a SchedulingHandler.
func NewSchedulingHandler(slots scheduling.SlotComputer, coordinator scheduling.BookingCoordinator, logger *zap.Logger) *SchedulingHandler {
	return &SchedulingHandler{Slots: slots, Coordinator: coordinator, Logger: logger}
}

// AvailableSlots computes the bookable start times for a professional, date
// and service combination.
func (h *SchedulingHandler) AvailableSlots(c *gin.Context) {
	var input struct {
		ProfessionalID string   `json:"professionalId" binding:"required"`
		Date           string   `json:"date" binding:"required"`
		ServiceIDs     []string `json:"serviceIds" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", err.Error())
		return
	}

	slots, err := h.Slots.ComputeSlots(input.ProfessionalID, input.Date, input.ServiceIDs)
	if err != nil {
		h.respondSchedulingError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"slots": slots})
}

// CreateAppointment commits a booking at the chosen start time. The client
// ID is the authenticated actor; an optional deposit payment record rides
// along from the upstream payment flow.
func (h *SchedulingHandler) CreateAppointment(c *gin.Context) {
	var input struct {
		ProfessionalID string   `json:"professionalId" binding:"required"`
		ServiceIDs     []string `json:"serviceIds" binding:"required"`
		Date           string   `json:"date" binding:"required"`
		StartMinute    int      `json:"startMinute"`
		Payment        *struct {
			Amount          float64 `json:"amount" binding:"required"`
			Currency        string  `json:"currency" binding:"required"`
			Source          string  `json:"source" binding:"required"`
			PaymentIntentID string  `json:"paymentIntentId"`
			CreditBalanceID string  `json:"creditBalanceId"`
		} `json:"payment"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", err.Error())
		return
	}

	req := scheduling.CreateAppointmentRequest{
		ProfessionalID: input.ProfessionalID,
		ClientID:       middleware.ActorID(c),
		ServiceIDs:     input.ServiceIDs,
		Date:           input.Date,
		StartMinute:    input.StartMinute,
	}
	if input.Payment != nil {
		req.Payment = &models.Payment{
			ID:              uuid.New().String(),
			Amount:          input.Payment.Amount,
			Currency:        input.Payment.Currency,
			Source:          input.Payment.Source,
			PaymentIntentID: input.Payment.PaymentIntentID,
			CreditBalanceID: input.Payment.CreditBalanceID,
			CreatedAt:       time.Now(),
		}
	}

	appointment, err := h.Coordinator.CreateAppointment(req)
	if err != nil {
		h.respondSchedulingError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"appointment": appointment})
}

// CancelAppointment cancels an appointment and reports the refund outcome.
func (h *SchedulingHandler) CancelAppointment(c *gin.Context) {
	appointmentID := c.Param("id")
	result, err := h.Coordinator.CancelAppointment(appointmentID, middleware.ActorID(c))
	if err != nil {
		h.respondSchedulingError(c, err)
		return
	}

	response := gin.H{
		"appointment": result.Appointment,
		"refund":      result.Refund,
	}
	if result.RefundErr != nil {
		// The cancellation stands; the refund needs reconciliation.
		response["refundError"] = result.RefundErr.Error()
	}
	c.JSON(http.StatusOK, response)
}

// respondSchedulingError maps engine error codes onto HTTP statuses.
func (h *SchedulingHandler) respondSchedulingError(c *gin.Context, err error) {
	switch {
	case scheduling.HasCode(err, scheduling.CodeInvalidRequest),
		scheduling.HasCode(err, scheduling.CodeInvalidInterval):
		utils.JSONError(c, http.StatusBadRequest, "invalid request", err.Error())
	case scheduling.HasCode(err, scheduling.CodeSlotUnavailable):
		utils.JSONError(c, http.StatusConflict, "slot unavailable; re-fetch availability", err.Error())
	case scheduling.HasCode(err, scheduling.CodeNotFound):
		utils.JSONError(c, http.StatusNotFound, "not found", err.Error())
	case scheduling.HasCode(err, scheduling.CodeTryAgain):
		c.Header("Retry-After", "1")
		utils.JSONError(c, http.StatusServiceUnavailable, "busy; retry the same request", err.Error())
	default:
		h.Logger.Error("scheduling request failed", zap.Error(err))
		utils.JSONError(c, http.StatusInternalServerError, "internal error", "")
	}
}
