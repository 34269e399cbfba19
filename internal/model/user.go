package model

import "time"

// Role names a user's capability level within their school. Exactly one
// role is assigned per account, chosen at signup, and never reassigned by
// any exposed operation.
type Role string

const (
	RoleAdmin   Role = "admin"   // owns exactly one school, full write access to its resources
	RoleStudent Role = "student" // joins one school, read-only access to its resources
)

// Valid reports whether r is one of the two recognized roles.
func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleStudent
}

// User represents an account record as stored in the `users` table.
// Authentication data only; membership (role, school) lives in the
// user_roles and profiles tables.
//
// Fields:
//  ID           – primary key identifier of the user.
//  Email        – unique email address.
//  PasswordHash – bcrypt hashed password.
//  IsActive     – whether the account is active.
//  CreatedAt    – timestamp of creation.
//  UpdatedAt    – timestamp of last update.
type User struct {
	ID           uint64    // users.id
	Email        string    // users.email
	PasswordHash string    // users.password_hash
	IsActive     bool      // users.is_active
	CreatedAt    time.Time // users.created_at
	UpdatedAt    time.Time // users.updated_at
}
