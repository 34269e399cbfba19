// Package repository contains the data access layer: hand-written SQL over
// a *sql.DB, one repo per table. The sentinel errors below let handlers
// map storage outcomes onto distinct HTTP responses — "that code is taken"
// must never look like "you don't have permission" or "try again".
package repository

import "errors"

// ErrEmailExists is returned when signup hits the unique index on
// users.email. Handlers translate it into HTTP 409.
var ErrEmailExists = errors.New("email already exists")

// ErrSchoolNotFound is returned when a school code or id resolves to no
// row. Handlers translate it into HTTP 404.
var ErrSchoolNotFound = errors.New("school not found")

// ErrCodeTaken is returned when school creation hits the unique index on
// schools.school_code. The constraint is the sole source of truth for
// uniqueness; there is no racy pre-check. Handlers translate it into 409
// so the client can offer a different code.
var ErrCodeTaken = errors.New("school code already taken")

// ErrAlreadyOwner is returned when an admin who already owns a school
// attempts to create another inside the creation transaction.
var ErrAlreadyOwner = errors.New("admin already owns a school")

// ErrAlreadyJoined is returned when a join attempt finds the profile's
// school_code already set. Membership is one-way; it is never cleared.
var ErrAlreadyJoined = errors.New("profile already belongs to a school")

// ErrNotFound is the generic absent-row sentinel for scholarships, fees
// and notices. Handlers translate it into HTTP 404.
var ErrNotFound = errors.New("not found")

// mysql duplicate-key error number, matched by substring the way the
// driver exposes it.
const dupKeyErr = "1062"
