package models

import "time"

// Payment sources. A "credit" payment was drawn from a subscription credit
// balance; its refunds go back to that balance rather than out through the
// payment rails.
const (
	PaymentSourceCard   = "card"
	PaymentSourceCash   = "cash"
	PaymentSourceCredit = "credit"
)

// Payment is the deposit attached to an appointment at booking time.
type Payment struct {
	ID              string    `bson:"id" json:"id"`
	Amount          float64   `bson:"amount" json:"amount"`
	Currency        string    `bson:"currency" json:"currency"`
	Source          string    `bson:"source" json:"source"`
	PaymentIntentID string    `bson:"paymentIntentId,omitempty" json:"paymentIntentId,omitempty"` // Stripe reference for card deposits
	CreditBalanceID string    `bson:"creditBalanceId,omitempty" json:"creditBalanceId,omitempty"` // set when Source is "credit"
	CreatedAt       time.Time `bson:"createdAt" json:"createdAt"`
}

// RefundTarget returns where a refund of this payment must be routed.
// The routing is a property of the payment record, never recomputed.
func (p *Payment) RefundTarget() string {
	if p.Source == PaymentSourceCredit {
		return RefundTargetCredit
	}
	return RefundTargetCash
}
