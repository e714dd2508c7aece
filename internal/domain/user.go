package domain

import "time"

// UserRole distinguishes administrators from regular accounts.
type UserRole string

const (
	RoleAdmin UserRole = "ADMIN"
	RoleUser  UserRole = "USER"
)

// Valid reports whether the role is a recognized value.
func (r UserRole) Valid() bool {
	return r == RoleAdmin || r == RoleUser
}

// User is the domain model for registered accounts.
type User struct {
	ID           string
	Email        string
	PasswordHash string
	Role         UserRole
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
