package domain

import "time"

// Role enumerates the access levels a user can hold.
type Role string

const (
	RoleAdmin     Role = "admin"
	RoleManager   Role = "manager"
	RoleDeveloper Role = "developer"
)

// Known reports whether the role is one of the recognized values.
// Unrecognized roles are never granted anything beyond public reads.
func (r Role) Known() bool {
	switch r {
	case RoleAdmin, RoleManager, RoleDeveloper:
		return true
	}
	return false
}

// User is the domain model for an account. TeamID is set only for
// developers that have been placed on a team.
type User struct {
	ID           string
	Username     string
	Email        string
	PasswordHash string
	Role         Role
	TeamID       *string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
