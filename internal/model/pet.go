package model

import (
	"fmt"
	"strings"
	"time"
)

// dateLayout is the wire format for calendar dates.
const dateLayout = "2006-01-02"

// Date is a calendar date without a time-of-day component.
// It marshals as "YYYY-MM-DD".
type Date struct {
	time.Time
}

// NewDate builds a Date from year, month and day.
func NewDate(year int, month time.Month, day int) Date {
	return Date{time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// MarshalJSON encodes the date as a "YYYY-MM-DD" string.
func (d Date) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.Format(dateLayout) + `"`), nil
}

// UnmarshalJSON decodes a "YYYY-MM-DD" string.
func (d *Date) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	if s == "" || s == "null" {
		d.Time = time.Time{}
		return nil
	}
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return fmt.Errorf("invalid date %q: %w", s, err)
	}
	d.Time = t
	return nil
}

// PetType is a shared lookup value referenced by many pets.
type PetType struct {
	ID   int    `json:"id,omitempty"`
	Name string `json:"name"`
}

// HasID returns true if the pet type carries a persisted identity.
func (t *PetType) HasID() bool {
	return t.ID != 0
}

// Pet represents a pet belonging to exactly one owner.
type Pet struct {
	ID        int     `json:"id,omitempty"`
	Name      string  `json:"name"`
	BirthDate *Date   `json:"birth_date,omitempty"`
	Type      PetType `json:"type"`
	OwnerID   int     `json:"owner_id,omitempty"`
	Visits    []Visit `json:"visits,omitempty"`
}

// HasID returns true if the pet carries a persisted identity.
func (p *Pet) HasID() bool {
	return p.ID != 0
}
