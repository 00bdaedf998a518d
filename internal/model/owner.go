// Package model defines domain entities for the application.
package model

// Owner represents a pet owner registered with the clinic.
//
// An ID of zero means the owner has not been persisted yet; the clinic
// facade assigns identities on save.
type Owner struct {
	ID        int    `json:"id,omitempty"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Address   string `json:"address"`
	City      string `json:"city"`
	Telephone string `json:"telephone"`
	Pets      []Pet  `json:"pets,omitempty"`
}

// HasID returns true if the owner carries a persisted identity.
func (o *Owner) HasID() bool {
	return o.ID != 0
}
