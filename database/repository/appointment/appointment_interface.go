package appointmentRepo

import (
	"errors"
	"time"

	"bookline/models"
)

// ErrNotFound is returned when no appointment matches, or when a status
// transition's precondition no longer holds.
var ErrNotFound = errors.New("appointment not found")

// AppointmentRepository is the authoritative ledger of booked appointments.
type AppointmentRepository interface {
	Create(appointment *models.Appointment) error
	GetByID(id string) (*models.Appointment, error)
	// FindScheduled returns every SCHEDULED appointment for the professional
	// on the given date, ordered by start time.
	FindScheduled(professionalID, date string) ([]models.Appointment, error)
	// MarkCancelled flips a SCHEDULED appointment to CANCELLED. It returns
	// ErrNotFound when the appointment does not exist or is already terminal,
	// so cancellation is idempotent-safe under races.
	MarkCancelled(id string, at time.Time) error
	// MarkCompleted flips a SCHEDULED appointment to COMPLETED (operator or
	// time-driven action outside the engine's booking path).
	MarkCompleted(id string) error
	ListByClient(clientID string) ([]models.Appointment, error)
}
