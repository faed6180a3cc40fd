package models

import "time"

// MinutesPerDay bounds every open interval; intervals never cross midnight.
const MinutesPerDay = 1440

// OpenInterval is a half-open [Start, End) span of a weekday during which a
// professional accepts bookings, expressed as minutes from midnight in the
// establishment's local time zone.
type OpenInterval struct {
	Start int `bson:"start" json:"start"`
	End   int `bson:"end" json:"end"`
}

// WeeklyAvailability holds the ordered, non-overlapping open intervals for
// each weekday, indexed by time.Weekday (Sunday = 0). An empty day means the
// professional is closed that day.
type WeeklyAvailability struct {
	Days [7][]OpenInterval `bson:"days" json:"days"`
}

// IntervalsFor returns the configured intervals for the given weekday.
// It never fails: an unconfigured day is simply empty.
func (w WeeklyAvailability) IntervalsFor(day time.Weekday) []OpenInterval {
	return w.Days[int(day)]
}
