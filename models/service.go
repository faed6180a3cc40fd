package models

import "time"

// Service is a bookable offering in a professional's catalogue.
type Service struct {
	ID              string    `bson:"id" json:"id"`
	Name            string    `bson:"name" json:"name"`
	DurationMinutes int       `bson:"durationMinutes" json:"durationMinutes"` // always > 0
	Price           float64   `bson:"price" json:"price"`
	CreatedAt       time.Time `bson:"createdAt" json:"createdAt,omitzero"`
}

// ServiceSnapshot freezes a service's duration and price at booking time.
// Appointments carry snapshots so later catalogue edits never change what
// was sold.
type ServiceSnapshot struct {
	ServiceID       string  `bson:"serviceId" json:"serviceId"`
	Name            string  `bson:"name" json:"name"`
	DurationMinutes int     `bson:"durationMinutes" json:"durationMinutes"`
	Price           float64 `bson:"price" json:"price"`
}

// Snapshot copies the billable fields of the service as they are right now.
func (s Service) Snapshot() ServiceSnapshot {
	return ServiceSnapshot{
		ServiceID:       s.ID,
		Name:            s.Name,
		DurationMinutes: s.DurationMinutes,
		Price:           s.Price,
	}
}
