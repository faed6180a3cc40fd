package scheduling

import (
	"sync"
	"testing"
	"time"

	"bookline/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type coordinatorFixture struct {
	coordinator *DefaultBookingCoordinator
	profs       *fakeProfessionalRepo
	appts       *fakeAppointmentRepo
	refunds     *fakeRefundRepo
	gateway     *recordingGateway
	policy      models.EstablishmentPolicy
}

func newCoordinatorFixture(t *testing.T) *coordinatorFixture {
	t.Helper()
	profs := newFakeProfessionalRepo()
	require.NoError(t, profs.Create(newTestProfessional()))

	f := &coordinatorFixture{
		profs:   profs,
		appts:   newFakeAppointmentRepo(),
		refunds: newFakeRefundRepo(),
		gateway: &recordingGateway{},
		policy:  models.DefaultPolicy("est-1"),
	}
	f.coordinator = &DefaultBookingCoordinator{
		Professionals: profs,
		Appointments:  f.appts,
		Refunds:       f.refunds,
		Policies:      staticPolicies{policy: f.policy},
		Payments:      f.gateway,
		Locks:         NewLockArena(),
		Logger:        zap.NewNop(),
		Now: func() time.Time {
			return time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
		},
	}
	return f
}

func bookingRequest() CreateAppointmentRequest {
	return CreateAppointmentRequest{
		ProfessionalID: "prof-1",
		ClientID:       "client-1",
		ServiceIDs:     []string{"cut"},
		Date:           mondayDate,
		StartMinute:    600,
	}
}

func TestCreateAppointment_Succeeds(t *testing.T) {
	f := newCoordinatorFixture(t)

	appt, err := f.coordinator.CreateAppointment(bookingRequest())
	require.NoError(t, err)

	assert.NotEmpty(t, appt.ID)
	assert.Equal(t, models.AppointmentScheduled, appt.Status)
	assert.Equal(t, 600, appt.Start)
	assert.Equal(t, 660, appt.End)
	assert.Equal(t, 40.0, appt.TotalPrice)
	require.Len(t, appt.Services, 1)
	assert.Equal(t, "cut", appt.Services[0].ServiceID)
	assert.Equal(t, 60, appt.Services[0].DurationMinutes)

	stored, err := f.appts.GetByID(appt.ID)
	require.NoError(t, err)
	assert.Equal(t, models.AppointmentScheduled, stored.Status)
}

func TestCreateAppointment_SnapshotsSurviveCatalogueEdits(t *testing.T) {
	f := newCoordinatorFixture(t)

	appt, err := f.coordinator.CreateAppointment(bookingRequest())
	require.NoError(t, err)

	// Reprice the service after booking; the appointment keeps what was sold.
	prof, err := f.profs.GetByID("prof-1")
	require.NoError(t, err)
	prof.Services[0].Price = 99
	prof.Services[0].DurationMinutes = 120
	require.NoError(t, f.profs.Update(prof))

	stored, err := f.appts.GetByID(appt.ID)
	require.NoError(t, err)
	assert.Equal(t, 40.0, stored.TotalPrice)
	assert.Equal(t, 60, stored.TotalDuration())
	assert.Equal(t, 660, stored.End)
}

func TestCreateAppointment_RejectsTakenSlot(t *testing.T) {
	f := newCoordinatorFixture(t)

	_, err := f.coordinator.CreateAppointment(bookingRequest())
	require.NoError(t, err)

	_, err = f.coordinator.CreateAppointment(bookingRequest())
	require.Error(t, err)
	assert.True(t, HasCode(err, CodeSlotUnavailable))
}

func TestCreateAppointment_RejectsOverlappingRange(t *testing.T) {
	f := newCoordinatorFixture(t)

	_, err := f.coordinator.CreateAppointment(bookingRequest())
	require.NoError(t, err)

	// 09:45 + 60 minutes runs into the 10:00 booking.
	req := bookingRequest()
	req.StartMinute = 585
	_, err = f.coordinator.CreateAppointment(req)
	require.Error(t, err)
	assert.True(t, HasCode(err, CodeSlotUnavailable))
}

func TestCreateAppointment_AllowsBackToBack(t *testing.T) {
	f := newCoordinatorFixture(t)

	_, err := f.coordinator.CreateAppointment(bookingRequest())
	require.NoError(t, err)

	req := bookingRequest()
	req.StartMinute = 660
	_, err = f.coordinator.CreateAppointment(req)
	require.NoError(t, err)
}

func TestCreateAppointment_RejectsOffGridStart(t *testing.T) {
	f := newCoordinatorFixture(t)

	req := bookingRequest()
	req.StartMinute = 602
	_, err := f.coordinator.CreateAppointment(req)
	require.Error(t, err)
	assert.True(t, HasCode(err, CodeSlotUnavailable))
}

func TestCreateAppointment_RejectsUnknownProfessional(t *testing.T) {
	f := newCoordinatorFixture(t)

	req := bookingRequest()
	req.ProfessionalID = "ghost"
	_, err := f.coordinator.CreateAppointment(req)
	require.Error(t, err)
	assert.True(t, HasCode(err, CodeInvalidRequest))
}

func TestCreateAppointment_RejectsCrossMidnightCombination(t *testing.T) {
	f := newCoordinatorFixture(t)

	req := bookingRequest()
	req.StartMinute = 1400
	_, err := f.coordinator.CreateAppointment(req)
	require.Error(t, err)
	assert.True(t, HasCode(err, CodeInvalidRequest))
}

func TestCreateAppointment_RejectsStartOutsideDay(t *testing.T) {
	f := newCoordinatorFixture(t)

	for _, start := range []int{-15, 1440, 2000} {
		req := bookingRequest()
		req.StartMinute = start
		_, err := f.coordinator.CreateAppointment(req)
		require.Error(t, err)
		assert.True(t, HasCode(err, CodeInvalidRequest))
	}
}

func TestCreateAppointment_OnlyOneConcurrentWinner(t *testing.T) {
	f := newCoordinatorFixture(t)

	const attempts = 8
	results := make([]error, attempts)
	var wg sync.WaitGroup
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, results[i] = f.coordinator.CreateAppointment(bookingRequest())
		}(i)
	}
	wg.Wait()

	wins := 0
	for _, err := range results {
		if err == nil {
			wins++
			continue
		}
		assert.True(t, HasCode(err, CodeSlotUnavailable) || HasCode(err, CodeTryAgain))
	}
	assert.Equal(t, 1, wins)

	booked, err := f.appts.FindScheduled("prof-1", mondayDate)
	require.NoError(t, err)
	assert.Len(t, booked, 1)
}

func TestCancelAppointment_FreesTheRange(t *testing.T) {
	f := newCoordinatorFixture(t)

	appt, err := f.coordinator.CreateAppointment(bookingRequest())
	require.NoError(t, err)

	result, err := f.coordinator.CancelAppointment(appt.ID, "client-1")
	require.NoError(t, err)
	assert.Equal(t, models.AppointmentCancelled, result.Appointment.Status)
	require.NotNil(t, result.Appointment.CancelledAt)
	assert.Nil(t, result.Refund)
	assert.NoError(t, result.RefundErr)

	// The same range books again immediately.
	_, err = f.coordinator.CreateAppointment(bookingRequest())
	require.NoError(t, err)
}

func TestCancelAppointment_SecondCancelIsNotFound(t *testing.T) {
	f := newCoordinatorFixture(t)

	appt, err := f.coordinator.CreateAppointment(bookingRequest())
	require.NoError(t, err)

	_, err = f.coordinator.CancelAppointment(appt.ID, "client-1")
	require.NoError(t, err)

	_, err = f.coordinator.CancelAppointment(appt.ID, "client-1")
	require.Error(t, err)
	assert.True(t, HasCode(err, CodeNotFound))
}

func TestCancelAppointment_UnknownID(t *testing.T) {
	f := newCoordinatorFixture(t)

	_, err := f.coordinator.CancelAppointment("ghost", "client-1")
	require.Error(t, err)
	assert.True(t, HasCode(err, CodeNotFound))
}

func TestCancelAppointment_IssuesRefundForPaidBooking(t *testing.T) {
	f := newCoordinatorFixture(t)

	req := bookingRequest()
	req.Payment = &models.Payment{
		ID:              "pay-1",
		Amount:          100,
		Currency:        "EUR",
		Source:          models.PaymentSourceCard,
		PaymentIntentID: "pi_123",
	}
	appt, err := f.coordinator.CreateAppointment(req)
	require.NoError(t, err)

	// Cancelled 22 hours before the 10:00 start: partial tariff.
	result, err := f.coordinator.CancelAppointment(appt.ID, "client-1")
	require.NoError(t, err)
	require.NotNil(t, result.Refund)
	assert.NoError(t, result.RefundErr)
	assert.Equal(t, 70.0, result.Refund.Amount)
	assert.Equal(t, models.RefundReasonPartial, result.Refund.Reason)
	assert.Equal(t, models.RefundTargetCash, result.Refund.Target)
	assert.Equal(t, models.RefundPending, result.Refund.Status)

	stored, err := f.refunds.GetByID(result.Refund.ID)
	require.NoError(t, err)
	assert.Equal(t, appt.ID, stored.AppointmentID)

	issued := f.gateway.issued()
	require.Len(t, issued, 1)
	assert.Equal(t, result.Refund.ID, issued[0].RefundID)
	assert.Equal(t, 70.0, issued[0].Amount)
	assert.Equal(t, "pi_123", issued[0].PaymentIntentID)
}

func TestCancelAppointment_RefundFailureDoesNotUndoCancellation(t *testing.T) {
	f := newCoordinatorFixture(t)
	f.gateway.err = assert.AnError

	req := bookingRequest()
	req.Payment = &models.Payment{ID: "pay-1", Amount: 100, Currency: "EUR", Source: models.PaymentSourceCard}
	appt, err := f.coordinator.CreateAppointment(req)
	require.NoError(t, err)

	result, err := f.coordinator.CancelAppointment(appt.ID, "client-1")
	require.NoError(t, err)
	assert.Error(t, result.RefundErr)
	require.NotNil(t, result.Refund)

	stored, err := f.appts.GetByID(appt.ID)
	require.NoError(t, err)
	assert.Equal(t, models.AppointmentCancelled, stored.Status)

	// The refund row survives for reconciliation.
	_, err = f.refunds.GetByID(result.Refund.ID)
	require.NoError(t, err)
}

func TestCancelAppointment_ZeroRefundSkipsGateway(t *testing.T) {
	f := newCoordinatorFixture(t)

	req := bookingRequest()
	req.Payment = &models.Payment{ID: "pay-1", Amount: 100, Currency: "EUR", Source: models.PaymentSourceCard}
	appt, err := f.coordinator.CreateAppointment(req)
	require.NoError(t, err)

	// Move the clock past the appointment before cancelling.
	f.coordinator.Now = func() time.Time {
		return time.Date(2026, 3, 2, 11, 0, 0, 0, time.UTC)
	}
	result, err := f.coordinator.CancelAppointment(appt.ID, "client-1")
	require.NoError(t, err)
	require.NotNil(t, result.Refund)
	assert.Equal(t, 0.0, result.Refund.Amount)
	assert.Equal(t, models.RefundReasonPostAppt, result.Refund.Reason)
	assert.Empty(t, f.gateway.issued())
}

func TestCreateAppointment_LockTimeoutIsRetryable(t *testing.T) {
	f := newCoordinatorFixture(t)
	f.coordinator.LockWait = 20 * time.Millisecond

	release, ok := f.coordinator.Locks.Acquire(lockKey("prof-1", mondayDate), time.Second)
	require.True(t, ok)
	defer release()

	_, err := f.coordinator.CreateAppointment(bookingRequest())
	require.Error(t, err)
	assert.True(t, HasCode(err, CodeTryAgain))
}
