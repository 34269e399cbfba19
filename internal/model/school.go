package model

import "time"

// School represents one tenant: an independent school community identified
// by a unique human-entered code. Each school is owned by exactly one admin
// user; AdminID is set at creation and never reassigned. The code is
// immutable once created — students join by quoting it.
//
// Fields:
//  ID        – primary key identifier.
//  Name      – display name of the school.
//  Code      – globally unique join code (schools.school_code).
//  AdminID   – user ID of the owning admin.
//  CreatedAt – timestamp when the school was created.
//  UpdatedAt – timestamp of last update.
type School struct {
	ID        uint64    `json:"id"`          // schools.id
	Name      string    `json:"name"`        // schools.name
	Code      string    `json:"school_code"` // schools.school_code
	AdminID   uint64    `json:"admin_id"`    // schools.admin_id
	CreatedAt time.Time `json:"created_at"`  // schools.created_at
	UpdatedAt time.Time `json:"updated_at"`  // schools.updated_at
}

// Profile carries the per-user membership record: display name plus the
// code of the school the user belongs to. SchoolCode is nil until the user
// creates (admin) or joins (student) a school and is never cleared
// afterwards — membership is one-way.
type Profile struct {
	ID         uint64    // profiles.id
	UserID     uint64    // profiles.user_id (unique)
	FullName   string    // profiles.full_name
	SchoolCode *string   // profiles.school_code (nullable)
	CreatedAt  time.Time // profiles.created_at
	UpdatedAt  time.Time // profiles.updated_at
}
