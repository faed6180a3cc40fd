package scheduling

import (
	"errors"
	"fmt"
	"time"

	appointmentRepo "bookline/database/repository/appointment"
	professionalRepo "bookline/database/repository/professional"
	refundRepo "bookline/database/repository/refund"
	"bookline/models"
	"bookline/services/payment"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// DefaultLockWait bounds how long a booking mutation waits for its keyed
// lock before surfacing a retryable error.
const DefaultLockWait = 3 * time.Second

// CreateAppointmentRequest carries one booking attempt. ClientID comes from
// the identity collaborator and is trusted as-is.
type CreateAppointmentRequest struct {
	ProfessionalID string
	ClientID       string
	ServiceIDs     []string
	Date           string // "YYYY-MM-DD"
	StartMinute    int
	Payment        *models.Payment // optional deposit, already collected upstream
}

// CancellationResult reports a cancellation outcome. The appointment is
// CANCELLED whenever this is returned; RefundErr carries a refund pipeline
// failure that must be reconciled separately and never undoes the
// cancellation.
type CancellationResult struct {
	Appointment *models.Appointment
	Refund      *models.Refund
	RefundErr   error
}

// BookingCoordinator owns appointment creation and cancellation. It closes
// the read-then-commit race by re-deriving slot validity inside a critical
// section keyed by (professionalID, date).
type BookingCoordinator interface {
	CreateAppointment(req CreateAppointmentRequest) (*models.Appointment, error)
	CancelAppointment(appointmentID, actorID string) (*CancellationResult, error)
}

// DefaultBookingCoordinator implements BookingCoordinator.
type DefaultBookingCoordinator struct {
	Professionals professionalRepo.ProfessionalRepository
	Appointments  appointmentRepo.AppointmentRepository
	Refunds       refundRepo.RefundRepository
	Policies      PolicyProvider
	Payments      payment.Collaborator
	Locks         *LockArena
	Cache         *AvailabilityCache // optional
	LockWait      time.Duration      // defaults to DefaultLockWait
	Logger        *zap.Logger
	Now           func() time.Time // defaults to time.Now
}

func (bc *DefaultBookingCoordinator) now() time.Time {
	if bc.Now != nil {
		return bc.Now()
	}
	return time.Now()
}

func (bc *DefaultBookingCoordinator) lockWait() time.Duration {
	if bc.LockWait > 0 {
		return bc.LockWait
	}
	return DefaultLockWait
}

func lockKey(professionalID, date string) string {
	return professionalID + "|" + date
}

// CreateAppointment validates, then revalidates-and-commits under the keyed
// lock. Two concurrent attempts for overlapping ranges on the same
// professional never both succeed.
func (bc *DefaultBookingCoordinator) CreateAppointment(req CreateAppointmentRequest) (*models.Appointment, error) {
	// Everything that can be rejected as malformed is rejected before the
	// lock is taken.
	prof, err := bc.Professionals.GetByID(req.ProfessionalID)
	if err != nil {
		if isRepoNotFound(err) {
			return nil, newError(CodeInvalidRequest, "unknown professional %s", req.ProfessionalID)
		}
		return nil, err
	}
	snapshots, err := snapshotServices(prof, req.ServiceIDs)
	if err != nil {
		return nil, err
	}
	policy, err := bc.Policies.PolicyFor(prof.EstablishmentID)
	if err != nil {
		return nil, err
	}
	if _, err := time.ParseInLocation(dateLayout, req.Date, policy.Location()); err != nil {
		return nil, newError(CodeInvalidRequest, "invalid date %q: expected YYYY-MM-DD", req.Date)
	}
	totalDuration := snapshotDuration(snapshots)
	if req.StartMinute < 0 || req.StartMinute >= models.MinutesPerDay {
		return nil, newError(CodeInvalidRequest, "start minute %d outside the day", req.StartMinute)
	}
	if req.StartMinute+totalDuration > models.MinutesPerDay {
		return nil, newError(CodeInvalidRequest, "service combination crosses midnight; split the booking")
	}

	release, ok := bc.Locks.Acquire(lockKey(req.ProfessionalID, req.Date), bc.lockWait())
	if !ok {
		return nil, newError(CodeTryAgain, "booking lock busy for professional %s on %s", req.ProfessionalID, req.Date)
	}
	defer release()

	// Revalidate against the ledger inside the critical section; the
	// availability the client saw may be stale by now.
	if err := bc.ensureSlotStillOpen(prof, policy, req.Date, req.StartMinute, totalDuration); err != nil {
		return nil, err
	}

	appointment := &models.Appointment{
		ID:             uuid.New().String(),
		ProfessionalID: req.ProfessionalID,
		ClientID:       req.ClientID,
		Date:           req.Date,
		Start:          req.StartMinute,
		End:            req.StartMinute + totalDuration,
		Services:       snapshots,
		TotalPrice:     snapshotPrice(snapshots),
		Status:         models.AppointmentScheduled,
		Payment:        req.Payment,
		CreatedAt:      bc.now(),
	}
	if err := bc.Appointments.Create(appointment); err != nil {
		return nil, fmt.Errorf("failed to persist appointment: %w", err)
	}
	if bc.Cache != nil {
		bc.Cache.Invalidate(req.ProfessionalID, req.Date)
	}

	bc.logger().Info("appointment booked",
		zap.String("appointmentID", appointment.ID),
		zap.String("professionalID", appointment.ProfessionalID),
		zap.String("date", appointment.Date),
		zap.Int("start", appointment.Start),
		zap.Int("end", appointment.End))
	return appointment, nil
}

// ensureSlotStillOpen re-runs the slot derivation for the requested start
// against the current ledger state. Must be called with the keyed lock held.
func (bc *DefaultBookingCoordinator) ensureSlotStillOpen(prof *models.Professional, policy models.EstablishmentPolicy, date string, start, totalDuration int) error {
	day, err := time.ParseInLocation(dateLayout, date, policy.Location())
	if err != nil {
		return newError(CodeInvalidRequest, "invalid date %q: expected YYYY-MM-DD", date)
	}
	intervals := prof.Weekly.IntervalsFor(day.Weekday())
	booked, err := bc.Appointments.FindScheduled(prof.ID, date)
	if err != nil {
		return err
	}
	threshold := bc.now().Add(time.Duration(policy.MinLeadTimeMin) * time.Minute)
	for _, candidate := range candidateStarts(intervals, booked, totalDuration, policy.SlotGranularityMin) {
		if candidate != start {
			continue
		}
		if !day.Add(time.Duration(candidate) * time.Minute).After(threshold) {
			break
		}
		return nil
	}
	return newError(CodeSlotUnavailable, "start %d on %s is no longer available", start, date)
}

// CancelAppointment marks the appointment CANCELLED, freeing its range
// immediately, then computes and records the refund. Refund failures are
// reported on the result, never by undoing the cancellation.
func (bc *DefaultBookingCoordinator) CancelAppointment(appointmentID, actorID string) (*CancellationResult, error) {
	appointment, err := bc.Appointments.GetByID(appointmentID)
	if err != nil {
		if isRepoNotFound(err) {
			return nil, newError(CodeNotFound, "appointment %s not found", appointmentID)
		}
		return nil, err
	}
	if appointment.Status != models.AppointmentScheduled {
		return nil, newError(CodeNotFound, "appointment %s is already %s", appointmentID, appointment.Status)
	}

	release, ok := bc.Locks.Acquire(lockKey(appointment.ProfessionalID, appointment.Date), bc.lockWait())
	if !ok {
		return nil, newError(CodeTryAgain, "booking lock busy for professional %s on %s", appointment.ProfessionalID, appointment.Date)
	}

	cancelledAt := bc.now()
	if err := bc.Appointments.MarkCancelled(appointmentID, cancelledAt); err != nil {
		release()
		if errors.Is(err, appointmentRepo.ErrNotFound) {
			return nil, newError(CodeNotFound, "appointment %s is no longer cancellable", appointmentID)
		}
		return nil, err
	}
	if bc.Cache != nil {
		bc.Cache.Invalidate(appointment.ProfessionalID, appointment.Date)
	}
	release()

	appointment.Status = models.AppointmentCancelled
	appointment.CancelledAt = &cancelledAt
	result := &CancellationResult{Appointment: appointment}

	bc.logger().Info("appointment cancelled",
		zap.String("appointmentID", appointmentID),
		zap.String("actorID", actorID))

	// Refund work happens outside the locked section; it depends only on
	// already-known data.
	if appointment.Payment == nil {
		return result, nil
	}
	refund, err := bc.issueRefund(appointment, cancelledAt)
	result.Refund = refund
	if err != nil {
		bc.logger().Error("refund pipeline failed after cancellation",
			zap.String("appointmentID", appointmentID), zap.Error(err))
		result.RefundErr = err
	}
	return result, nil
}

func (bc *DefaultBookingCoordinator) issueRefund(appointment *models.Appointment, cancelledAt time.Time) (*models.Refund, error) {
	prof, err := bc.Professionals.GetByID(appointment.ProfessionalID)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve establishment for refund: %w", err)
	}
	policy, err := bc.Policies.PolicyFor(prof.EstablishmentID)
	if err != nil {
		return nil, fmt.Errorf("failed to load policy for refund: %w", err)
	}
	refund, err := ComputeRefund(appointment, appointment.Payment, cancelledAt, policy)
	if err != nil {
		return nil, err
	}
	if err := bc.Refunds.Create(refund); err != nil {
		return nil, fmt.Errorf("failed to record refund: %w", err)
	}
	if refund.Amount > 0 && bc.Payments != nil {
		instruction := payment.RefundInstruction{
			AppointmentID:   appointment.ID,
			RefundID:        refund.ID,
			Amount:          refund.Amount,
			Currency:        refund.Currency,
			Target:          refund.Target,
			PaymentIntentID: appointment.Payment.PaymentIntentID,
			CreditBalanceID: appointment.Payment.CreditBalanceID,
		}
		if err := bc.Payments.IssueRefund(instruction); err != nil {
			// The refund row exists; the instruction can be replayed during
			// reconciliation.
			return refund, fmt.Errorf("failed to emit refund instruction: %w", err)
		}
	}
	return refund, nil
}

func (bc *DefaultBookingCoordinator) logger() *zap.Logger {
	if bc.Logger != nil {
		return bc.Logger
	}
	return zap.NewNop()
}

func isRepoNotFound(err error) bool {
	return errors.Is(err, professionalRepo.ErrNotFound) ||
		errors.Is(err, appointmentRepo.ErrNotFound) ||
		errors.Is(err, refundRepo.ErrNotFound)
}
