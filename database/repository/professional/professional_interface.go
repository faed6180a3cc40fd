package professionalRepo

import (
	"errors"
	"time"

	"bookline/models"
)

// ErrNotFound is returned when no professional matches the given identifier.
var ErrNotFound = errors.New("professional not found")

// ProfessionalRepository persists professionals together with their embedded
// service catalogue and weekly availability template.
type ProfessionalRepository interface {
	Create(professional *models.Professional) error
	GetByID(id string) (*models.Professional, error)
	Update(professional *models.Professional) error
	AddService(professionalID string, svc models.Service) error
	// SetDayAvailability replaces the whole interval set for one weekday.
	// The replacement is a single atomic write: either the full day changes
	// or nothing does.
	SetDayAvailability(professionalID string, day time.Weekday, intervals []models.OpenInterval) error
}
