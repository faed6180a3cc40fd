package models

import "time"

// Defaults applied when an establishment has no stored policy.
const (
	DefaultSlotGranularityMin = 15
	DefaultMinLeadTimeMin     = 0
)

// EstablishmentPolicy carries the per-establishment scheduling knobs.
type EstablishmentPolicy struct {
	EstablishmentID        string `bson:"establishmentId" json:"establishmentId"`
	SlotGranularityMin     int    `bson:"slotGranularityMin" json:"slotGranularityMin"`
	MinLeadTimeMin         int    `bson:"minLeadTimeMin" json:"minLeadTimeMin"`
	AutoApproveFullRefunds bool   `bson:"autoApproveFullRefunds" json:"autoApproveFullRefunds"`
	Timezone               string `bson:"timezone" json:"timezone"` // IANA name, e.g. "Europe/Madrid"
}

// DefaultPolicy returns the policy used when nothing is configured.
func DefaultPolicy(establishmentID string) EstablishmentPolicy {
	return EstablishmentPolicy{
		EstablishmentID:    establishmentID,
		SlotGranularityMin: DefaultSlotGranularityMin,
		MinLeadTimeMin:     DefaultMinLeadTimeMin,
		Timezone:           "UTC",
	}
}

// Location resolves the policy's time zone, falling back to UTC when the
// name is missing or unknown. The whole engine runs in this location.
func (p EstablishmentPolicy) Location() *time.Location {
	if p.Timezone == "" {
		return time.UTC
	}
	loc, err := time.LoadLocation(p.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}
