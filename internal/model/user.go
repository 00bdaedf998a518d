package model

import "slices"

// Role constants for request authorization.
const (
	RoleOwnerAdmin = "owner_admin"
	RoleVetAdmin   = "vet_admin"
	RoleAdmin      = "admin"
)

// ValidRoles contains all valid role values.
var ValidRoles = []string{RoleOwnerAdmin, RoleVetAdmin, RoleAdmin}

// IsValidRole reports whether the given role name is known.
func IsValidRole(role string) bool {
	return slices.Contains(ValidRoles, role)
}

// User represents an API user account.
//
// Password is only populated when a user is submitted over the wire;
// PasswordHash is what the store keeps and is never serialized.
type User struct {
	Username     string   `json:"username"`
	Password     string   `json:"password,omitempty"`
	PasswordHash string   `json:"-"`
	Enabled      bool     `json:"enabled"`
	Roles        []string `json:"roles"`
}

// HasRole checks if the user has a specific role.
// The admin role implies all other roles.
func (u *User) HasRole(role string) bool {
	if slices.Contains(u.Roles, RoleAdmin) {
		return true
	}
	return slices.Contains(u.Roles, role)
}

// AuthContext holds authenticated request context.
// This is injected into the request context by auth middleware.
type AuthContext struct {
	Username string
	Roles    []string
}

// HasRole checks if the auth context has a specific role.
// The admin role implies all other roles.
func (a *AuthContext) HasRole(role string) bool {
	if slices.Contains(a.Roles, RoleAdmin) {
		return true
	}
	return slices.Contains(a.Roles, role)
}
