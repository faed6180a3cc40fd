package scheduling

import (
	"testing"
	"time"

	"bookline/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func refundFixture(amount float64, source string) (*models.Appointment, *models.Payment) {
	appt := &models.Appointment{
		ID:             "appt-1",
		ProfessionalID: "prof-1",
		ClientID:       "client-1",
		Date:           mondayDate,
		Start:          600, // 10:00
		End:            660,
		Status:         models.AppointmentScheduled,
	}
	pay := &models.Payment{
		ID:              "pay-1",
		Amount:          amount,
		Currency:        "EUR",
		Source:          source,
		CreditBalanceID: "bal-1",
	}
	return appt, pay
}

func at(day, hour, minute int) time.Time {
	return time.Date(2026, 3, day, hour, minute, 0, 0, time.UTC)
}

func TestComputeRefund_FullBefore24h(t *testing.T) {
	appt, pay := refundFixture(100, models.PaymentSourceCard)

	refund, err := ComputeRefund(appt, pay, at(1, 8, 0), models.DefaultPolicy("est-1"))
	require.NoError(t, err)
	assert.Equal(t, 100.0, refund.Amount)
	assert.Equal(t, models.RefundReasonFull, refund.Reason)
	assert.Equal(t, models.RefundPending, refund.Status)
}

func TestComputeRefund_Exactly24hIsFull(t *testing.T) {
	appt, pay := refundFixture(100, models.PaymentSourceCard)

	refund, err := ComputeRefund(appt, pay, at(1, 10, 0), models.DefaultPolicy("est-1"))
	require.NoError(t, err)
	assert.Equal(t, models.RefundReasonFull, refund.Reason)
}

func TestComputeRefund_PartialInsideWindow(t *testing.T) {
	appt, pay := refundFixture(100, models.PaymentSourceCard)

	refund, err := ComputeRefund(appt, pay, at(2, 5, 0), models.DefaultPolicy("est-1"))
	require.NoError(t, err)
	assert.Equal(t, 70.0, refund.Amount)
	assert.Equal(t, models.RefundReasonPartial, refund.Reason)
	assert.Equal(t, models.RefundPending, refund.Status)
}

func TestComputeRefund_PartialRoundsToCents(t *testing.T) {
	appt, pay := refundFixture(99.99, models.PaymentSourceCard)

	refund, err := ComputeRefund(appt, pay, at(2, 5, 0), models.DefaultPolicy("est-1"))
	require.NoError(t, err)
	assert.InDelta(t, 69.99, refund.Amount, 1e-9)
}

func TestComputeRefund_AtScheduledTimeIsPartial(t *testing.T) {
	appt, pay := refundFixture(100, models.PaymentSourceCard)

	refund, err := ComputeRefund(appt, pay, at(2, 10, 0), models.DefaultPolicy("est-1"))
	require.NoError(t, err)
	assert.Equal(t, 70.0, refund.Amount)
	assert.Equal(t, models.RefundReasonPartial, refund.Reason)
}

func TestComputeRefund_NothingAfterScheduledTime(t *testing.T) {
	appt, pay := refundFixture(100, models.PaymentSourceCard)

	refund, err := ComputeRefund(appt, pay, at(2, 10, 1), models.DefaultPolicy("est-1"))
	require.NoError(t, err)
	assert.Equal(t, 0.0, refund.Amount)
	assert.Equal(t, models.RefundReasonPostAppt, refund.Reason)
	assert.Equal(t, models.RefundPending, refund.Status)
}

func TestComputeRefund_CreditPaymentsReturnToBalance(t *testing.T) {
	appt, pay := refundFixture(100, models.PaymentSourceCredit)

	refund, err := ComputeRefund(appt, pay, at(1, 10, 0), models.DefaultPolicy("est-1"))
	require.NoError(t, err)
	assert.Equal(t, models.RefundTargetCredit, refund.Target)
}

func TestComputeRefund_CardPaymentsRefundAsCash(t *testing.T) {
	appt, pay := refundFixture(100, models.PaymentSourceCard)

	refund, err := ComputeRefund(appt, pay, at(2, 5, 0), models.DefaultPolicy("est-1"))
	require.NoError(t, err)
	assert.Equal(t, models.RefundTargetCash, refund.Target)
}

func TestComputeRefund_AutoApprovalOnlyForFullRefunds(t *testing.T) {
	policy := models.DefaultPolicy("est-1")
	policy.AutoApproveFullRefunds = true

	appt, pay := refundFixture(100, models.PaymentSourceCard)

	full, err := ComputeRefund(appt, pay, at(1, 10, 0), policy)
	require.NoError(t, err)
	assert.Equal(t, models.RefundApproved, full.Status)

	partial, err := ComputeRefund(appt, pay, at(2, 5, 0), policy)
	require.NoError(t, err)
	assert.Equal(t, models.RefundPending, partial.Status)
}

func TestComputeRefund_TimezoneShiftsTheWindow(t *testing.T) {
	loc, err := time.LoadLocation("Europe/Madrid")
	require.NoError(t, err)
	policy := models.DefaultPolicy("est-1")
	policy.Timezone = "Europe/Madrid"

	appt, pay := refundFixture(100, models.PaymentSourceCard)

	// 10:00 local on March 2nd; 25 hours earlier in the same zone is still
	// inside the full-refund window.
	cancelledAt := time.Date(2026, 3, 1, 9, 0, 0, 0, loc)
	refund, err := ComputeRefund(appt, pay, cancelledAt, policy)
	require.NoError(t, err)
	assert.Equal(t, models.RefundReasonFull, refund.Reason)
}

func TestValidRefundTransition(t *testing.T) {
	assert.True(t, models.ValidRefundTransition(models.RefundPending, models.RefundApproved))
	assert.True(t, models.ValidRefundTransition(models.RefundPending, models.RefundRejected))
	assert.True(t, models.ValidRefundTransition(models.RefundApproved, models.RefundCompleted))

	assert.False(t, models.ValidRefundTransition(models.RefundPending, models.RefundCompleted))
	assert.False(t, models.ValidRefundTransition(models.RefundRejected, models.RefundCompleted))
	assert.False(t, models.ValidRefundTransition(models.RefundCompleted, models.RefundPending))
	assert.False(t, models.ValidRefundTransition(models.RefundApproved, models.RefundPending))
}
