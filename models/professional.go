package models

import "time"

// Professional is a bookable service provider within an establishment.
// Weekly availability and the service catalogue are embedded on the document,
// so a single read resolves everything slot computation needs.
type Professional struct {
	ID              string             `bson:"id" json:"id"`
	EstablishmentID string             `bson:"establishmentId" json:"establishmentId"`
	DisplayName     string             `bson:"displayName" json:"displayName"`
	Services        []Service          `bson:"services" json:"services,omitempty"`
	Weekly          WeeklyAvailability `bson:"weekly" json:"weekly,omitzero"`
	Active          bool               `bson:"active" json:"active"`
	CreatedAt       time.Time          `bson:"createdAt" json:"createdAt,omitzero"`
	UpdatedAt       time.Time          `bson:"updatedAt" json:"updatedAt,omitzero"`
}

// ServiceByID returns the catalogue entry with the given ID, or nil.
func (p *Professional) ServiceByID(serviceID string) *Service {
	for i := range p.Services {
		if p.Services[i].ID == serviceID {
			return &p.Services[i]
		}
	}
	return nil
}
