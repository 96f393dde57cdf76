// Package entity contains the core business objects of the project.
package entity

import "strings"

// Role is the coarse authorization tag carried by every account.
type Role string

const (
	// RoleAdmin may mutate accounts and the catalog.
	RoleAdmin Role = "admin"
	// RoleUser is the default role assigned at registration.
	RoleUser Role = "user"
)

// String returns the string representation of the Role.
func (r Role) String() string {
	return string(r)
}

// IsValid checks if the Role is a valid value.
func (r Role) IsValid() bool {
	switch r {
	case RoleAdmin, RoleUser:
		return true
	default:
		return false
	}
}

// ParseRole normalises s into a Role. An empty string yields RoleUser.
func ParseRole(s string) (Role, bool) {
	s = strings.TrimSpace(strings.ToLower(s))
	if s == "" {
		return RoleUser, true
	}

	role := Role(s)

	return role, role.IsValid()
}
