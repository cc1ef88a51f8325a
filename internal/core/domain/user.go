package domain

import "time"

// Role is the closed set of roles the platform recognizes. Matching is exact
// and case-sensitive: "admin" is not RoleAdmin.
type Role string

const (
	RoleAdmin  Role = "ADMIN"
	RoleTrader Role = "TRADER"
	RoleViewer Role = "VIEWER"
)

// Valid reports whether r is one of the three recognized roles.
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleTrader, RoleViewer:
		return true
	}
	return false
}

// ParseRole converts an externally supplied string into a Role. Only the
// decode boundary needs runtime validation; everywhere else the type carries
// the invariant.
func ParseRole(s string) (Role, error) {
	r := Role(s)
	if !r.Valid() {
		return "", ErrUnrecognizedRole
	}
	return r, nil
}

// User models an authenticated actor in the platform.
type User struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	DisplayName  string    `json:"display_name,omitempty"`
	Email        string    `json:"email,omitempty"`
	PasswordHash string    `json:"-"`
	Role         Role      `json:"role"`
	Permissions  []string  `json:"permissions,omitempty"`
	LastLogin    time.Time `json:"last_login"`
}
