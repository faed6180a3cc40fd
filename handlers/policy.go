package handlers

import (
	"net/http"
	"time"

	"bookline/models"
	"bookline/services/policy"
	"bookline/utils"

	"github.com/gin-gonic/gin"
)

// PolicyHandler exposes the per-establishment scheduling knobs.
type PolicyHandler struct {
	Policies policy.Service
}

// NewPolicyHandler constructs a PolicyHandler.
func NewPolicyHandler(policies policy.Service) *PolicyHandler {
	return &PolicyHandler{Policies: policies}
}

// GetPolicy returns the establishment's policy, falling back to the defaults
// when nothing is configured.
func (h *PolicyHandler) GetPolicy(c *gin.Context) {
	stored, err := h.Policies.PolicyFor(c.Param("establishmentId"))
	if err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "failed to fetch policy", err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"policy": stored})
}

// SetPolicy replaces the establishment's policy.
func (h *PolicyHandler) SetPolicy(c *gin.Context) {
	var input models.EstablishmentPolicy
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", err.Error())
		return
	}
	input.EstablishmentID = c.Param("establishmentId")
	if input.Timezone != "" {
		if _, err := time.LoadLocation(input.Timezone); err != nil {
			utils.JSONError(c, http.StatusBadRequest, "invalid input", "unknown timezone "+input.Timezone)
			return
		}
	}
	if err := h.Policies.SetPolicy(input); err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "failed to store policy", err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"policy": input})
}
