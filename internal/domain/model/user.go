package model

import "time"

// UserRole describes access level of a profile.
type UserRole string

const (
	RoleStudent UserRole = "student"
	RoleStaff   UserRole = "staff"
	RoleAdmin   UserRole = "admin"
)

// Staff reports whether the role grants access to canteen administration.
func (r UserRole) Staff() bool {
	return r == RoleStaff || r == RoleAdmin
}

// User represents a registered canteen customer or staff member.
type User struct {
	ID           string
	Email        string
	FullName     string
	PasswordHash string
	Role         UserRole
	CreatedAt    time.Time
}
