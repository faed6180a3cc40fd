package scheduling

import (
	"errors"
	"sort"
	"time"

	professionalRepo "bookline/database/repository/professional"
	"bookline/models"
)

// ScheduleRegistry manages each professional's recurring weekly availability
// template.
type ScheduleRegistry interface {
	// GetAvailability returns the open intervals for one weekday, sorted by
	// start. An unconfigured day or unknown professional yields an empty
	// set, never an error.
	GetAvailability(professionalID string, day time.Weekday) ([]models.OpenInterval, error)
	// SetAvailability replaces the weekday's interval set wholesale.
	SetAvailability(professionalID string, day time.Weekday, intervals []models.OpenInterval) ([]models.OpenInterval, error)
	// WeeklyAvailability returns the full seven-day template.
	WeeklyAvailability(professionalID string) (models.WeeklyAvailability, error)
}

// DefaultScheduleRegistry implements ScheduleRegistry on the professional
// repository; the template lives embedded on the professional document.
type DefaultScheduleRegistry struct {
	Repo professionalRepo.ProfessionalRepository
}

func (r *DefaultScheduleRegistry) GetAvailability(professionalID string, day time.Weekday) ([]models.OpenInterval, error) {
	prof, err := r.Repo.GetByID(professionalID)
	if err != nil {
		if errors.Is(err, professionalRepo.ErrNotFound) {
			return []models.OpenInterval{}, nil
		}
		return nil, err
	}
	intervals := prof.Weekly.IntervalsFor(day)
	sorted := make([]models.OpenInterval, len(intervals))
	copy(sorted, intervals)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Start < sorted[j].Start })
	return sorted, nil
}

// SetAvailability validates the submission as a whole, then writes the day in
// one atomic replace. A single bad interval rejects the entire submission.
func (r *DefaultScheduleRegistry) SetAvailability(professionalID string, day time.Weekday, intervals []models.OpenInterval) ([]models.OpenInterval, error) {
	sorted, err := validateIntervals(intervals)
	if err != nil {
		return nil, err
	}
	if err := r.Repo.SetDayAvailability(professionalID, day, sorted); err != nil {
		if errors.Is(err, professionalRepo.ErrNotFound) {
			return nil, newError(CodeNotFound, "professional %s not found", professionalID)
		}
		return nil, err
	}
	return sorted, nil
}

func (r *DefaultScheduleRegistry) WeeklyAvailability(professionalID string) (models.WeeklyAvailability, error) {
	prof, err := r.Repo.GetByID(professionalID)
	if err != nil {
		if errors.Is(err, professionalRepo.ErrNotFound) {
			return models.WeeklyAvailability{}, newError(CodeNotFound, "professional %s not found", professionalID)
		}
		return models.WeeklyAvailability{}, err
	}
	return prof.Weekly, nil
}

// validateIntervals checks bounds, ordering and pairwise overlap, returning
// a sorted copy of the submission.
func validateIntervals(intervals []models.OpenInterval) ([]models.OpenInterval, error) {
	sorted := make([]models.OpenInterval, len(intervals))
	copy(sorted, intervals)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Start < sorted[j].Start })

	for i, iv := range sorted {
		if iv.Start >= iv.End {
			return nil, newError(CodeInvalidInterval, "interval [%d, %d) has start >= end", iv.Start, iv.End)
		}
		if iv.Start < 0 || iv.End > models.MinutesPerDay {
			return nil, newError(CodeInvalidInterval, "interval [%d, %d) falls outside [0, %d)", iv.Start, iv.End, models.MinutesPerDay)
		}
		if i > 0 && sorted[i-1].End > iv.Start {
			return nil, newError(CodeInvalidInterval, "interval [%d, %d) overlaps [%d, %d)",
				sorted[i-1].Start, sorted[i-1].End, iv.Start, iv.End)
		}
	}
	return sorted, nil
}
