package refundRepo

import (
	"errors"

	"bookline/models"
)

// ErrNotFound is returned when no refund matches, or when a compare-and-set
// status update finds the refund no longer in its expected state.
var ErrNotFound = errors.New("refund not found")

// RefundRepository stores refund records and the read-only projections over
// them.
type RefundRepository interface {
	Create(refund *models.Refund) error
	GetByID(id string) (*models.Refund, error)
	// UpdateStatus moves a refund from one status to another atomically.
	// The caller is responsible for validating the transition first.
	UpdateStatus(id, from, to string) error
	ListByClient(clientID string) ([]models.Refund, error)
	// TotalsByClient aggregates COMPLETED and PENDING+APPROVED amounts
	// server-side, so the invariant computation lives in one place.
	TotalsByClient(clientID string) (models.RefundTotals, error)
}
