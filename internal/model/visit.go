package model

import "time"

// Visit represents a single clinic visit for a pet.
//
// The date carries a time-of-day: scheduled visits are anchored at a fixed
// hour by the appointment engine, so comparisons are instant-based.
type Visit struct {
	ID          int       `json:"id,omitempty"`
	PetID       int       `json:"pet_id,omitempty"`
	Date        time.Time `json:"date"`
	Description string    `json:"description"`
}

// HasID returns true if the visit carries a persisted identity.
func (v *Visit) HasID() bool {
	return v.ID != 0
}
