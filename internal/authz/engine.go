package authz

import (
	"context"

	"github.com/schoolconnect/schoolconnect/internal/model"
)

// Operation names the kind of access being evaluated against a row or a
// proposed row.
type Operation int

const (
	OpSelect Operation = iota
	OpInsert
	OpUpdate
	OpDelete
)

// String returns a short name for logging.
func (op Operation) String() string {
	switch op {
	case OpSelect:
		return "select"
	case OpInsert:
		return "insert"
	case OpUpdate:
		return "update"
	case OpDelete:
		return "delete"
	}
	return "unknown"
}

// Caller is the explicit identity every policy decision is made for. It is
// always passed in by the handler that extracted it from the verified JWT;
// the engine never reads ambient request state. A zero UserID means the
// request carried no identity.
type Caller struct {
	UserID uint64
}

// Authenticated reports whether the caller carries an identity at all.
func (c Caller) Authenticated() bool { return c.UserID != 0 }

// MembershipRegistry resolves what a user is (role) and where they belong
// (school code). Lookups are read-only. The ok result distinguishes
// "no row" from a backend failure: err is reserved for transient errors
// and must never be interpreted as a denial.
type MembershipRegistry interface {
	RoleOf(ctx context.Context, userID uint64) (role model.Role, ok bool, err error)
	SchoolCodeOf(ctx context.Context, userID uint64) (code string, ok bool, err error)
}

// SchoolDirectory resolves schools and their owners.
type SchoolDirectory interface {
	AdminOf(ctx context.Context, code string) (adminID uint64, ok bool, err error)
	SchoolCodeByAdmin(ctx context.Context, adminID uint64) (code string, ok bool, err error)
}

// Engine evaluates the access predicates. It is stateless and side-effect
// free; each call is independently evaluable, so a single instance is shared
// by every handler.
type Engine struct {
	members MembershipRegistry
	schools SchoolDirectory
}

// NewEngine constructs an Engine over the given lookups.
func NewEngine(members MembershipRegistry, schools SchoolDirectory) *Engine {
	if members == nil || schools == nil {
		panic("nil lookup passed to authz.NewEngine")
	}
	return &Engine{members: members, schools: schools}
}

// AuthorizeResource decides op on a school-scoped resource row (existing
// row for select/update/delete, proposed row for insert) identified by its
// school code:
//
//	select  → caller's own school matches, or caller administers the school
//	insert  → caller administers the school
//	update  → caller administers the school
//	delete  → caller administers the school
//
// Students therefore never gain write access, even inside their own school.
func (e *Engine) AuthorizeResource(ctx context.Context, op Operation, schoolCode string, caller Caller) error {
	if !caller.Authenticated() {
		return ErrAuthenticationRequired
	}
	adminID, found, err := e.schools.AdminOf(ctx, schoolCode)
	if err != nil {
		return err
	}
	if op == OpSelect {
		if found && adminID == caller.UserID {
			return nil
		}
		// Fall back to membership: the admin clause above and this one agree
		// in practice, since an admin's profile is stamped with the code at
		// school creation. The disjunction mirrors the stored policy.
		code, has, err := e.members.SchoolCodeOf(ctx, caller.UserID)
		if err != nil {
			return err
		}
		if has && code == schoolCode {
			return nil
		}
		return ErrDenied
	}
	if !found {
		return ErrSchoolNotFound
	}
	if adminID != caller.UserID {
		return ErrDenied
	}
	return nil
}

// ReadScope returns the single school code whose rows the caller may read.
// List queries use it as their tenant filter, which is how unauthorized
// rows end up silently excluded from reads instead of producing errors.
func (e *Engine) ReadScope(ctx context.Context, caller Caller) (string, error) {
	if !caller.Authenticated() {
		return "", ErrAuthenticationRequired
	}
	code, has, err := e.members.SchoolCodeOf(ctx, caller.UserID)
	if err != nil {
		return "", err
	}
	if has {
		return code, nil
	}
	// An admin whose profile was never stamped can still read the school
	// they own.
	code, has, err = e.schools.SchoolCodeByAdmin(ctx, caller.UserID)
	if err != nil {
		return "", err
	}
	if has {
		return code, nil
	}
	return "", ErrNoSchool
}

// AuthorizeCreateSchool enforces the school-creation invariants: the caller
// must hold the admin role and must not already own a school. The ownership
// check is repeated transactionally inside the repository; this pass exists
// so callers get a precise error before any write is attempted.
func (e *Engine) AuthorizeCreateSchool(ctx context.Context, caller Caller) error {
	if !caller.Authenticated() {
		return ErrAuthenticationRequired
	}
	role, ok, err := e.members.RoleOf(ctx, caller.UserID)
	if err != nil {
		return err
	}
	if !ok || role != model.RoleAdmin {
		return ErrNotAdmin
	}
	if _, owns, err := e.schools.SchoolCodeByAdmin(ctx, caller.UserID); err != nil {
		return err
	} else if owns {
		return ErrAlreadyOwner
	}
	return nil
}

// AuthorizeSchoolUpdate allows mutation of a school record only by its
// owning admin. The code itself is immutable; only descriptive fields may
// change, which the handler enforces.
func (e *Engine) AuthorizeSchoolUpdate(ctx context.Context, caller Caller, school model.School) error {
	if !caller.Authenticated() {
		return ErrAuthenticationRequired
	}
	if school.AdminID != caller.UserID {
		return ErrDenied
	}
	return nil
}

// AuthorizeProfile restricts profile rows to their owner, for reads and
// writes alike. No identity may ever see or touch another user's profile.
func (e *Engine) AuthorizeProfile(op Operation, profileUserID uint64, caller Caller) error {
	if !caller.Authenticated() {
		return ErrAuthenticationRequired
	}
	if profileUserID != caller.UserID {
		return ErrDenied
	}
	return nil
}

// AuthorizeJoin checks that the caller is a student who has not yet joined
// a school. The monotonic "set once" rule on profile.school_code is also
// enforced inside the join transaction; like AuthorizeCreateSchool this
// exists for precise early errors.
func (e *Engine) AuthorizeJoin(ctx context.Context, caller Caller) error {
	if !caller.Authenticated() {
		return ErrAuthenticationRequired
	}
	role, ok, err := e.members.RoleOf(ctx, caller.UserID)
	if err != nil {
		return err
	}
	if !ok || role != model.RoleStudent {
		return ErrDenied
	}
	return nil
}
