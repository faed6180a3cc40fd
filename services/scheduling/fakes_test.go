package scheduling

import (
	"sort"
	"sync"
	"time"

	appointmentRepo "bookline/database/repository/appointment"
	professionalRepo "bookline/database/repository/professional"
	refundRepo "bookline/database/repository/refund"
	"bookline/models"
	"bookline/services/payment"
)

// In-memory repository fakes. They hold their own locks so the concurrency
// tests exercise the coordinator's serialization, not accidental map races.

type fakeProfessionalRepo struct {
	mu   sync.Mutex
	byID map[string]*models.Professional
}

func newFakeProfessionalRepo() *fakeProfessionalRepo {
	return &fakeProfessionalRepo{byID: make(map[string]*models.Professional)}
}

func (r *fakeProfessionalRepo) Create(professional *models.Professional) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *professional
	r.byID[professional.ID] = &cp
	return nil
}

func (r *fakeProfessionalRepo) GetByID(id string) (*models.Professional, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	prof, ok := r.byID[id]
	if !ok {
		return nil, professionalRepo.ErrNotFound
	}
	cp := *prof
	return &cp, nil
}

func (r *fakeProfessionalRepo) Update(professional *models.Professional) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byID[professional.ID]; !ok {
		return professionalRepo.ErrNotFound
	}
	cp := *professional
	r.byID[professional.ID] = &cp
	return nil
}

func (r *fakeProfessionalRepo) AddService(professionalID string, svc models.Service) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	prof, ok := r.byID[professionalID]
	if !ok {
		return professionalRepo.ErrNotFound
	}
	prof.Services = append(prof.Services, svc)
	return nil
}

func (r *fakeProfessionalRepo) SetDayAvailability(professionalID string, day time.Weekday, intervals []models.OpenInterval) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	prof, ok := r.byID[professionalID]
	if !ok {
		return professionalRepo.ErrNotFound
	}
	prof.Weekly.Days[int(day)] = intervals
	return nil
}

type fakeAppointmentRepo struct {
	mu   sync.Mutex
	byID map[string]*models.Appointment
}

func newFakeAppointmentRepo() *fakeAppointmentRepo {
	return &fakeAppointmentRepo{byID: make(map[string]*models.Appointment)}
}

func (r *fakeAppointmentRepo) Create(appointment *models.Appointment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *appointment
	r.byID[appointment.ID] = &cp
	return nil
}

func (r *fakeAppointmentRepo) GetByID(id string) (*models.Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	appt, ok := r.byID[id]
	if !ok {
		return nil, appointmentRepo.ErrNotFound
	}
	cp := *appt
	return &cp, nil
}

func (r *fakeAppointmentRepo) FindScheduled(professionalID, date string) ([]models.Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Appointment
	for _, appt := range r.byID {
		if appt.ProfessionalID == professionalID && appt.Date == date && appt.Status == models.AppointmentScheduled {
			out = append(out, *appt)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Start < out[j].Start })
	return out, nil
}

func (r *fakeAppointmentRepo) MarkCancelled(id string, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	appt, ok := r.byID[id]
	if !ok || appt.Status != models.AppointmentScheduled {
		return appointmentRepo.ErrNotFound
	}
	appt.Status = models.AppointmentCancelled
	appt.CancelledAt = &at
	return nil
}

func (r *fakeAppointmentRepo) MarkCompleted(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	appt, ok := r.byID[id]
	if !ok || appt.Status != models.AppointmentScheduled {
		return appointmentRepo.ErrNotFound
	}
	appt.Status = models.AppointmentCompleted
	return nil
}

func (r *fakeAppointmentRepo) ListByClient(clientID string) ([]models.Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Appointment
	for _, appt := range r.byID {
		if appt.ClientID == clientID {
			out = append(out, *appt)
		}
	}
	return out, nil
}

type fakeRefundRepo struct {
	mu   sync.Mutex
	byID map[string]*models.Refund
}

func newFakeRefundRepo() *fakeRefundRepo {
	return &fakeRefundRepo{byID: make(map[string]*models.Refund)}
}

func (r *fakeRefundRepo) Create(refund *models.Refund) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *refund
	r.byID[refund.ID] = &cp
	return nil
}

func (r *fakeRefundRepo) GetByID(id string) (*models.Refund, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	ref, ok := r.byID[id]
	if !ok {
		return nil, refundRepo.ErrNotFound
	}
	cp := *ref
	return &cp, nil
}

func (r *fakeRefundRepo) UpdateStatus(id, from, to string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	ref, ok := r.byID[id]
	if !ok || ref.Status != from {
		return refundRepo.ErrNotFound
	}
	ref.Status = to
	return nil
}

func (r *fakeRefundRepo) ListByClient(clientID string) ([]models.Refund, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Refund
	for _, ref := range r.byID {
		if ref.ClientID == clientID {
			out = append(out, *ref)
		}
	}
	return out, nil
}

func (r *fakeRefundRepo) TotalsByClient(clientID string) (models.RefundTotals, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var totals models.RefundTotals
	for _, ref := range r.byID {
		if ref.ClientID != clientID {
			continue
		}
		switch ref.Status {
		case models.RefundCompleted:
			totals.Completed += ref.Amount
		case models.RefundPending, models.RefundApproved:
			totals.Outstanding += ref.Amount
		}
	}
	return totals, nil
}

// staticPolicies serves one fixed policy for every establishment.
type staticPolicies struct {
	policy models.EstablishmentPolicy
}

func (p staticPolicies) PolicyFor(string) (models.EstablishmentPolicy, error) {
	return p.policy, nil
}

// recordingGateway captures refund instructions and optionally fails.
type recordingGateway struct {
	mu           sync.Mutex
	instructions []payment.RefundInstruction
	err          error
}

func (g *recordingGateway) IssueRefund(instruction payment.RefundInstruction) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.err != nil {
		return g.err
	}
	g.instructions = append(g.instructions, instruction)
	return nil
}

func (g *recordingGateway) issued() []payment.RefundInstruction {
	g.mu.Lock()
	defer g.mu.Unlock()
	out := make([]payment.RefundInstruction, len(g.instructions))
	copy(out, g.instructions)
	return out
}
