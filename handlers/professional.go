package handlers

import (
	"errors"
	"net/http"
	"time"

	professionalRepo "bookline/database/repository/professional"
	"bookline/models"
	"bookline/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// ProfessionalHandler covers the minimal professional/service CRUD the
// scheduling engine needs to be exercised.
type ProfessionalHandler struct {
	Repo professionalRepo.ProfessionalRepository
}

// NewProfessionalHandler constructs a ProfessionalHandler.
func NewProfessionalHandler(repo professionalRepo.ProfessionalRepository) *ProfessionalHandler {
	return &ProfessionalHandler{Repo: repo}
}

// RegisterProfessional creates a professional under an establishment.
func (h *ProfessionalHandler) RegisterProfessional(c *gin.Context) {
	var input struct {
		EstablishmentID string `json:"establishmentId" binding:"required"`
		DisplayName     string `json:"displayName" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", err.Error())
		return
	}

	now := time.Now()
	professional := &models.Professional{
		ID:              uuid.New().String(),
		EstablishmentID: input.EstablishmentID,
		DisplayName:     input.DisplayName,
		Active:          true,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if err := h.Repo.Create(professional); err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "failed to register professional", err.Error())
		return
	}
	c.JSON(http.StatusCreated, gin.H{"professional": professional})
}

// GetProfessional returns a professional with catalogue and availability.
func (h *ProfessionalHandler) GetProfessional(c *gin.Context) {
	professional, err := h.Repo.GetByID(c.Param("id"))
	if err != nil {
		if errors.Is(err, professionalRepo.ErrNotFound) {
			utils.JSONError(c, http.StatusNotFound, "not found", err.Error())
			return
		}
		utils.JSONError(c, http.StatusInternalServerError, "failed to fetch professional", err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"professional": professional})
}

// AddService appends a service to the professional's catalogue. Edits to
// existing services never touch past appointments, which carry their own
// snapshots.
func (h *ProfessionalHandler) AddService(c *gin.Context) {
	var input struct {
		Name            string  `json:"name" binding:"required"`
		DurationMinutes int     `json:"durationMinutes" binding:"required"`
		Price           float64 `json:"price"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", err.Error())
		return
	}
	if input.DurationMinutes <= 0 {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", "durationMinutes must be positive")
		return
	}

	svc := models.Service{
		ID:              uuid.New().String(),
		Name:            input.Name,
		DurationMinutes: input.DurationMinutes,
		Price:           input.Price,
		CreatedAt:       time.Now(),
	}
	if err := h.Repo.AddService(c.Param("id"), svc); err != nil {
		if errors.Is(err, professionalRepo.ErrNotFound) {
			utils.JSONError(c, http.StatusNotFound, "not found", err.Error())
			return
		}
		utils.JSONError(c, http.StatusInternalServerError, "failed to add service", err.Error())
		return
	}
	c.JSON(http.StatusCreated, gin.H{"service": svc})
}
