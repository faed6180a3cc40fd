package handlers

import (
	"errors"
	"net/http"

	refundRepo "bookline/database/repository/refund"
	"bookline/middleware"
	"bookline/models"
	"bookline/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// RefundHandler exposes a client's refund history and receives the payment
// collaborator's status callbacks.
type RefundHandler struct {
	Repo   refundRepo.RefundRepository
	Logger *zap.Logger
}

// NewRefundHandler constructs a RefundHandler.
func NewRefundHandler(repo refundRepo.RefundRepository) *RefundHandler {
	return &RefundHandler{Repo: repo, Logger: utils.GetLogger()}
}

// ListRefunds returns the authenticated client's refunds plus the aggregate
// completed/outstanding totals.
func (h *RefundHandler) ListRefunds(c *gin.Context) {
	clientID := middleware.ActorID(c)
	if clientID == "" {
		utils.JSONError(c, http.StatusUnauthorized, "unauthorized", "missing actor identity")
		return
	}

	refunds, err := h.Repo.ListByClient(clientID)
	if err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "failed to list refunds", err.Error())
		return
	}
	totals, err := h.Repo.TotalsByClient(clientID)
	if err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "failed to aggregate refunds", err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"refunds": refunds, "totals": totals})
}

// StatusCallback advances a refund through its lifecycle on behalf of the
// payment collaborator. Illegal moves are rejected without touching the
// record; a lost race against a concurrent update surfaces as a conflict.
func (h *RefundHandler) StatusCallback(c *gin.Context) {
	var input struct {
		Status string `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", err.Error())
		return
	}

	refundID := c.Param("id")
	refund, err := h.Repo.GetByID(refundID)
	if err != nil {
		if errors.Is(err, refundRepo.ErrNotFound) {
			utils.JSONError(c, http.StatusNotFound, "not found", err.Error())
			return
		}
		utils.JSONError(c, http.StatusInternalServerError, "failed to fetch refund", err.Error())
		return
	}

	if !models.ValidRefundTransition(refund.Status, input.Status) {
		utils.JSONError(c, http.StatusConflict, "invalid transition",
			"cannot move refund from "+refund.Status+" to "+input.Status)
		return
	}
	if err := h.Repo.UpdateStatus(refundID, refund.Status, input.Status); err != nil {
		if errors.Is(err, refundRepo.ErrNotFound) {
			utils.JSONError(c, http.StatusConflict, "invalid transition", "refund state changed concurrently")
			return
		}
		utils.JSONError(c, http.StatusInternalServerError, "failed to update refund", err.Error())
		return
	}

	h.Logger.Info("Refund status updated",
		zap.String("refundId", refundID),
		zap.String("from", refund.Status),
		zap.String("to", input.Status))
	c.JSON(http.StatusOK, gin.H{"refundId": refundID, "status": input.Status})
}
