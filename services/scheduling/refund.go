package scheduling

import (
	"math"
	"time"

	"bookline/models"

	"github.com/google/uuid"
)

// ComputeRefund applies the fixed time-based cancellation tariff:
//
//	>= 24h before the appointment  -> full refund
//	[0h, 24h) before               -> 70% refund
//	after the scheduled time       -> no refund
//
// The refund target comes from the payment record; the amount uses unbiased
// rounding to two decimals. The result starts PENDING unless the policy
// auto-approves full refunds.
func ComputeRefund(appointment *models.Appointment, payment *models.Payment, cancelledAt time.Time, policy models.EstablishmentPolicy) (*models.Refund, error) {
	scheduledAt, err := appointment.ScheduledAt(policy.Location())
	if err != nil {
		return nil, newError(CodeInvalidRequest, "appointment %s has invalid date %q", appointment.ID, appointment.Date)
	}
	hoursUntil := scheduledAt.Sub(cancelledAt).Hours()

	var amount float64
	var reason string
	switch {
	case hoursUntil >= 24:
		amount = payment.Amount
		reason = models.RefundReasonFull
	case hoursUntil >= 0:
		amount = roundToCents(payment.Amount * 0.70)
		reason = models.RefundReasonPartial
	default:
		amount = 0
		reason = models.RefundReasonPostAppt
	}

	status := models.RefundPending
	if reason == models.RefundReasonFull && policy.AutoApproveFullRefunds {
		status = models.RefundApproved
	}

	now := time.Now()
	return &models.Refund{
		ID:            uuid.New().String(),
		AppointmentID: appointment.ID,
		ClientID:      appointment.ClientID,
		Amount:        amount,
		Currency:      payment.Currency,
		Reason:        reason,
		Target:        payment.RefundTarget(),
		Status:        status,
		CreatedAt:     now,
		UpdatedAt:     now,
	}, nil
}

// roundToCents rounds to two decimals with banker's (round-half-to-even)
// rounding, never truncating.
func roundToCents(amount float64) float64 {
	return math.RoundToEven(amount*100) / 100
}
