package models

import "time"

// Slot is a valid candidate start time for a requested service combination.
type Slot struct {
	Date        string    `json:"date"`        // "YYYY-MM-DD"
	StartMinute int       `json:"startMinute"` // minutes from midnight
	StartsAt    time.Time `json:"startsAt"`    // resolved in the establishment's time zone
}
