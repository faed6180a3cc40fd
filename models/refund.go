package models

import "time"

// Refund lifecycle. Creation lands in PENDING (or APPROVED when the
// establishment auto-approves full refunds); every later transition is driven
// by the payment collaborator's confirmation callback.
const (
	RefundPending   = "PENDING"
	RefundApproved  = "APPROVED"
	RefundRejected  = "REJECTED"
	RefundCompleted = "COMPLETED"
)

// Refund targets.
const (
	RefundTargetCash   = "cash"   // routed out through the payment collaborator
	RefundTargetCredit = "credit" // returned to the originating credit balance
)

// Refund reasons, fixed by the cancellation tariff.
const (
	RefundReasonFull     = "cancellation >=24h"
	RefundReasonPartial  = "cancellation <24h"
	RefundReasonPostAppt = "post-appointment cancellation"
)

// Refund records what a cancelled appointment's deposit resolves to.
type Refund struct {
	ID            string    `bson:"id" json:"id"`
	AppointmentID string    `bson:"appointmentId" json:"appointmentId"`
	ClientID      string    `bson:"clientId" json:"clientId"`
	Amount        float64   `bson:"amount" json:"amount"`
	Currency      string    `bson:"currency" json:"currency"`
	Reason        string    `bson:"reason" json:"reason"`
	Target        string    `bson:"target" json:"target"`
	Status        string    `bson:"status" json:"status"`
	CreatedAt     time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt     time.Time `bson:"updatedAt" json:"updatedAt"`
}

// ValidRefundTransition reports whether a status move is allowed:
// PENDING -> {APPROVED, REJECTED}, APPROVED -> COMPLETED.
func ValidRefundTransition(from, to string) bool {
	switch from {
	case RefundPending:
		return to == RefundApproved || to == RefundRejected
	case RefundApproved:
		return to == RefundCompleted
	default:
		return false
	}
}

// RefundTotals is the server-side aggregate over a client's refunds.
type RefundTotals struct {
	Completed   float64 `bson:"completed" json:"completed"`     // sum of COMPLETED amounts
	Outstanding float64 `bson:"outstanding" json:"outstanding"` // sum of PENDING + APPROVED amounts
}
