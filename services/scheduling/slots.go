package scheduling

import (
	"errors"
	"time"

	appointmentRepo "bookline/database/repository/appointment"
	professionalRepo "bookline/database/repository/professional"
	"bookline/models"
)

const dateLayout = "2006-01-02"

// PolicyProvider supplies the per-establishment scheduling knobs. The
// concrete implementation lives in services/policy; tests substitute a fixed
// one.
type PolicyProvider interface {
	PolicyFor(establishmentID string) (models.EstablishmentPolicy, error)
}

// SlotComputer derives the bookable start times for a professional, date and
// requested service combination.
type SlotComputer interface {
	ComputeSlots(professionalID, date string, serviceIDs []string) ([]models.Slot, error)
}

// DefaultSlotComputer implements SlotComputer. Reads are lock-free: the race
// against concurrent bookings is tolerated here and closed at commit time by
// the coordinator.
type DefaultSlotComputer struct {
	Professionals professionalRepo.ProfessionalRepository
	Appointments  appointmentRepo.AppointmentRepository
	Policies      PolicyProvider
	Cache         *AvailabilityCache // optional; nil disables caching
	Now           func() time.Time   // defaults to time.Now
}

func (sc *DefaultSlotComputer) now() time.Time {
	if sc.Now != nil {
		return sc.Now()
	}
	return time.Now()
}

func (sc *DefaultSlotComputer) ComputeSlots(professionalID, date string, serviceIDs []string) ([]models.Slot, error) {
	prof, snapshots, err := sc.resolveRequest(professionalID, serviceIDs)
	if err != nil {
		return nil, err
	}
	policy, err := sc.Policies.PolicyFor(prof.EstablishmentID)
	if err != nil {
		return nil, err
	}

	day, err := time.ParseInLocation(dateLayout, date, policy.Location())
	if err != nil {
		return nil, newError(CodeInvalidRequest, "invalid date %q: expected YYYY-MM-DD", date)
	}

	totalDuration := snapshotDuration(snapshots)

	// The time filter below depends on "now", so only the raw candidate set
	// is cached; each request re-applies the filter.
	starts, cached := []int(nil), false
	if sc.Cache != nil {
		starts, cached = sc.Cache.Get(professionalID, date, totalDuration)
	}
	if !cached {
		intervals := prof.Weekly.IntervalsFor(day.Weekday())
		if len(intervals) == 0 {
			return []models.Slot{}, nil
		}
		booked, err := sc.Appointments.FindScheduled(professionalID, date)
		if err != nil {
			return nil, err
		}
		starts = candidateStarts(intervals, booked, totalDuration, policy.SlotGranularityMin)
		if sc.Cache != nil {
			sc.Cache.Put(professionalID, date, totalDuration, starts)
		}
	}

	threshold := sc.now().Add(time.Duration(policy.MinLeadTimeMin) * time.Minute)

	slots := make([]models.Slot, 0, len(starts))
	for _, start := range starts {
		startsAt := day.Add(time.Duration(start) * time.Minute)
		if !startsAt.After(threshold) {
			continue
		}
		slots = append(slots, models.Slot{Date: date, StartMinute: start, StartsAt: startsAt})
	}
	return slots, nil
}

// resolveRequest loads the professional and snapshots the requested services
// in order. Malformed input is rejected here, before any lock is taken.
func (sc *DefaultSlotComputer) resolveRequest(professionalID string, serviceIDs []string) (*models.Professional, []models.ServiceSnapshot, error) {
	if len(serviceIDs) == 0 {
		return nil, nil, newError(CodeInvalidRequest, "at least one service is required")
	}
	prof, err := sc.Professionals.GetByID(professionalID)
	if err != nil {
		if errors.Is(err, professionalRepo.ErrNotFound) {
			return nil, nil, newError(CodeInvalidRequest, "unknown professional %s", professionalID)
		}
		return nil, nil, err
	}
	snapshots, err := snapshotServices(prof, serviceIDs)
	if err != nil {
		return nil, nil, err
	}
	return prof, snapshots, nil
}

// snapshotServices captures duration and price for each requested service,
// preserving the order given.
func snapshotServices(prof *models.Professional, serviceIDs []string) ([]models.ServiceSnapshot, error) {
	snapshots := make([]models.ServiceSnapshot, 0, len(serviceIDs))
	for _, id := range serviceIDs {
		svc := prof.ServiceByID(id)
		if svc == nil {
			return nil, newError(CodeInvalidRequest, "professional %s offers no service %s", prof.ID, id)
		}
		snapshots = append(snapshots, svc.Snapshot())
	}
	return snapshots, nil
}

func snapshotDuration(snapshots []models.ServiceSnapshot) int {
	total := 0
	for _, s := range snapshots {
		total += s.DurationMinutes
	}
	return total
}

func snapshotPrice(snapshots []models.ServiceSnapshot) float64 {
	total := 0.0
	for _, s := range snapshots {
		total += s.Price
	}
	return total
}

// candidateStarts discretizes each open interval on the granularity tick and
// keeps the starts whose full [start, start+duration) range fits the interval
// and intersects no SCHEDULED appointment. Intervals are non-overlapping and
// sorted, so the result is ascending and free of duplicates.
func candidateStarts(intervals []models.OpenInterval, booked []models.Appointment, totalDuration, tick int) []int {
	if tick <= 0 {
		tick = models.DefaultSlotGranularityMin
	}
	var starts []int
	for _, iv := range intervals {
		for start := iv.Start; start+totalDuration <= iv.End; start += tick {
			if overlapsAny(booked, start, start+totalDuration) {
				continue
			}
			starts = append(starts, start)
		}
	}
	return starts
}

// overlapsAny applies the half-open overlap test against every scheduled
// appointment: existingStart < candidateEnd && candidateStart < existingEnd.
func overlapsAny(booked []models.Appointment, start, end int) bool {
	for i := range booked {
		if booked[i].Overlaps(start, end) {
			return true
		}
	}
	return false
}
