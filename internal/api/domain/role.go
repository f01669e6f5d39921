package domain

import (
	"slices"
	"strings"
)

type Role string

const (
	RoleAdmin     Role = "ADMIN"
	RoleDeveloper Role = "DEVELOPER"
)

// DefaultRoles are granted to users created without explicit roles.
var DefaultRoles = []Role{RoleDeveloper}

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleDeveloper
}

// ParseRoles turns raw role names into roles, rejecting unknown ones.
// Duplicates are dropped and the input order kept.
func ParseRoles(names []string) ([]Role, error) {
	out := make([]Role, 0, len(names))
	for _, n := range names {
		r := Role(strings.ToUpper(strings.TrimSpace(n)))
		if !r.Valid() {
			return nil, &ValidationError{Field: "roles", Message: "unknown role " + n}
		}
		if !slices.Contains(out, r) {
			out = append(out, r)
		}
	}
	return out, nil
}

// RoleNames is the inverse of ParseRoles.
func RoleNames(roles []Role) []string {
	out := make([]string, len(roles))
	for i, r := range roles {
		out[i] = string(r)
	}
	return out
}
