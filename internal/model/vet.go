package model

// Vet represents a veterinarian employed by the clinic.
type Vet struct {
	ID          int      `json:"id,omitempty"`
	FirstName   string   `json:"first_name"`
	LastName    string   `json:"last_name"`
	Specialties []string `json:"specialties,omitempty"`
}

// HasID returns true if the vet carries a persisted identity.
func (v *Vet) HasID() bool {
	return v.ID != 0
}
