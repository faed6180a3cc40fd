package payment

// RefundInstruction is what the engine emits toward the payment rails: which
// appointment, how much, and where the money goes. Terminal status comes
// back later through the confirmation callback.
type RefundInstruction struct {
	AppointmentID   string
	RefundID        string
	Amount          float64
	Currency        string
	Target          string // models.RefundTargetCash or models.RefundTargetCredit
	PaymentIntentID string // original Stripe payment intent, for cash-target refunds
	CreditBalanceID string // originating balance, for credit-target refunds
}

// Collaborator accepts refund instructions. Implementations only move the
// money; refund record keeping stays in the engine.
type Collaborator interface {
	IssueRefund(instruction RefundInstruction) error
}
