package models

import "time"

// Appointment status values. CANCELLED appointments no longer block new
// bookings; COMPLETED ones keep their frozen time range for the record.
const (
	AppointmentScheduled = "SCHEDULED"
	AppointmentCompleted = "COMPLETED"
	AppointmentCancelled = "CANCELLED"
)

// Appointment is a committed booking of one client with one professional for
// a contiguous [Start, End) range on a single calendar day.
type Appointment struct {
	ID             string            `bson:"id" json:"id"`
	ProfessionalID string            `bson:"professionalId" json:"professionalId"`
	ClientID       string            `bson:"clientId" json:"clientId"`
	Date           string            `bson:"date" json:"date"`   // "YYYY-MM-DD", establishment-local
	Start          int               `bson:"start" json:"start"` // minutes from midnight
	End            int               `bson:"end" json:"end"`     // Start + total snapshot duration
	Services       []ServiceSnapshot `bson:"services" json:"services"`
	TotalPrice     float64           `bson:"totalPrice" json:"totalPrice"`
	Status         string            `bson:"status" json:"status"`
	Payment        *Payment          `bson:"payment,omitempty" json:"payment,omitempty"`
	CreatedAt      time.Time         `bson:"createdAt" json:"createdAt"`
	CancelledAt    *time.Time        `bson:"cancelledAt,omitempty" json:"cancelledAt,omitempty"`
}

// TotalDuration sums the snapshot durations in booking order.
func (a *Appointment) TotalDuration() int {
	total := 0
	for _, s := range a.Services {
		total += s.DurationMinutes
	}
	return total
}

// Overlaps reports whether the appointment's range intersects [start, end)
// on the half-open interval rule.
func (a *Appointment) Overlaps(start, end int) bool {
	return a.Start < end && start < a.End
}

// ScheduledAt resolves the appointment's start instant in the given location.
func (a *Appointment) ScheduledAt(loc *time.Location) (time.Time, error) {
	day, err := time.ParseInLocation("2006-01-02", a.Date, loc)
	if err != nil {
		return time.Time{}, err
	}
	return day.Add(time.Duration(a.Start) * time.Minute), nil
}
