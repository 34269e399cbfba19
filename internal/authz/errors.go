// Package authz implements the tenancy and role policy for SchoolConnect.
// Every read or write of school-scoped data passes through the Engine before
// it reaches the repositories; nothing in the storage layer enforces access
// on its own. The error values below give callers a distinguishable outcome
// per failure class so handlers can answer "log in first", "not yours" and
// "no such school" differently.
package authz

import "errors"

// ErrAuthenticationRequired is returned when no identity accompanies the
// request. Handlers translate it into HTTP 401.
var ErrAuthenticationRequired = errors.New("authentication required")

// ErrDenied is returned when the caller is known but the policy predicate
// is false. Write rejections must surface this explicitly; reads normally
// avoid it by scoping queries with ReadScope instead. Maps to HTTP 403.
var ErrDenied = errors.New("authorization denied")

// ErrSchoolNotFound is returned when an operation targets a school code
// that does not exist in the directory. Maps to HTTP 404.
var ErrSchoolNotFound = errors.New("school not found")

// ErrNoSchool is returned by ReadScope when the caller has not yet created
// or joined a school, so there is no tenant whose rows they may read.
var ErrNoSchool = errors.New("no school membership")

// ErrAlreadyOwner is returned when an admin who already owns a school
// attempts to create a second one. One school per admin is an invariant,
// not a client-side convenience. Maps to HTTP 409.
var ErrAlreadyOwner = errors.New("admin already owns a school")

// ErrNotAdmin is returned when a non-admin attempts to create a school.
var ErrNotAdmin = errors.New("admin role required")
