package authz

import (
	"context"
	"errors"
	"testing"

	"github.com/schoolconnect/schoolconnect/internal/model"
)

// fakeRegistry and fakeDirectory back the engine with in-memory maps so the
// policy predicates can be exercised without a database.
type fakeRegistry struct {
	roles map[uint64]model.Role
	codes map[uint64]string
	err   error
}

func (f *fakeRegistry) RoleOf(_ context.Context, userID uint64) (model.Role, bool, error) {
	if f.err != nil {
		return "", false, f.err
	}
	r, ok := f.roles[userID]
	return r, ok, nil
}

func (f *fakeRegistry) SchoolCodeOf(_ context.Context, userID uint64) (string, bool, error) {
	if f.err != nil {
		return "", false, f.err
	}
	c, ok := f.codes[userID]
	return c, ok, nil
}

type fakeDirectory struct {
	admins map[string]uint64 // code -> admin user id
	err    error
}

func (f *fakeDirectory) AdminOf(_ context.Context, code string) (uint64, bool, error) {
	if f.err != nil {
		return 0, false, f.err
	}
	id, ok := f.admins[code]
	return id, ok, nil
}

func (f *fakeDirectory) SchoolCodeByAdmin(_ context.Context, adminID uint64) (string, bool, error) {
	if f.err != nil {
		return "", false, f.err
	}
	for code, id := range f.admins {
		if id == adminID {
			return code, true, nil
		}
	}
	return "", false, nil
}

// Fixture: admin 1 owns SPRING24, student 2 joined SPRING24, student 3
// joined RIVER99 (owned by admin 4), user 5 has a role but no school.
func fixture() *Engine {
	reg := &fakeRegistry{
		roles: map[uint64]model.Role{
			1: model.RoleAdmin,
			2: model.RoleStudent,
			3: model.RoleStudent,
			4: model.RoleAdmin,
			5: model.RoleAdmin,
		},
		codes: map[uint64]string{
			1: "SPRING24",
			2: "SPRING24",
			3: "RIVER99",
			4: "RIVER99",
		},
	}
	dir := &fakeDirectory{admins: map[string]uint64{
		"SPRING24": 1,
		"RIVER99":  4,
	}}
	return NewEngine(reg, dir)
}

func TestAuthorizeResource(t *testing.T) {
	e := fixture()
	ctx := context.Background()

	tests := []struct {
		name   string
		op     Operation
		code   string
		caller Caller
		want   error
	}{
		{"member reads own school", OpSelect, "SPRING24", Caller{UserID: 2}, nil},
		{"admin reads own school", OpSelect, "SPRING24", Caller{UserID: 1}, nil},
		{"student blocked from other school", OpSelect, "SPRING24", Caller{UserID: 3}, ErrDenied},
		{"admin blocked from other school", OpSelect, "RIVER99", Caller{UserID: 1}, ErrDenied},
		{"admin inserts into own school", OpInsert, "SPRING24", Caller{UserID: 1}, nil},
		{"student never inserts, even at home", OpInsert, "SPRING24", Caller{UserID: 2}, ErrDenied},
		{"student never updates", OpUpdate, "SPRING24", Caller{UserID: 2}, ErrDenied},
		{"student never deletes", OpDelete, "SPRING24", Caller{UserID: 2}, ErrDenied},
		{"foreign admin cannot write", OpUpdate, "SPRING24", Caller{UserID: 4}, ErrDenied},
		{"admin updates own school", OpUpdate, "SPRING24", Caller{UserID: 1}, nil},
		{"admin deletes in own school", OpDelete, "SPRING24", Caller{UserID: 1}, nil},
		{"write to unknown school", OpInsert, "NOWHERE", Caller{UserID: 1}, ErrSchoolNotFound},
		{"read of unknown school denied", OpSelect, "NOWHERE", Caller{UserID: 2}, ErrDenied},
		{"unauthenticated", OpSelect, "SPRING24", Caller{}, ErrAuthenticationRequired},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := e.AuthorizeResource(ctx, tt.op, tt.code, tt.caller)
			if !errors.Is(got, tt.want) && !(got == nil && tt.want == nil) {
				t.Fatalf("AuthorizeResource(%s, %s, user=%d) = %v, want %v",
					tt.op, tt.code, tt.caller.UserID, got, tt.want)
			}
		})
	}
}

// Tenant isolation across every operation: a member of one school gets
// nothing but denials against another school's code.
func TestTenantIsolation(t *testing.T) {
	e := fixture()
	ctx := context.Background()
	for _, op := range []Operation{OpSelect, OpInsert, OpUpdate, OpDelete} {
		if err := e.AuthorizeResource(ctx, op, "RIVER99", Caller{UserID: 2}); !errors.Is(err, ErrDenied) {
			t.Fatalf("op %s on foreign school: got %v, want ErrDenied", op, err)
		}
	}
}

func TestBackendErrorIsNotADenial(t *testing.T) {
	boom := errors.New("connection reset")
	reg := &fakeRegistry{err: boom}
	dir := &fakeDirectory{err: boom}
	e := NewEngine(reg, dir)

	err := e.AuthorizeResource(context.Background(), OpSelect, "SPRING24", Caller{UserID: 2})
	if !errors.Is(err, boom) {
		t.Fatalf("got %v, want the backend error to pass through", err)
	}
	if errors.Is(err, ErrDenied) {
		t.Fatal("backend failure must not read as an authorization denial")
	}
}

func TestReadScope(t *testing.T) {
	e := fixture()
	ctx := context.Background()

	if code, err := e.ReadScope(ctx, Caller{UserID: 2}); err != nil || code != "SPRING24" {
		t.Fatalf("student scope = %q, %v", code, err)
	}
	if code, err := e.ReadScope(ctx, Caller{UserID: 1}); err != nil || code != "SPRING24" {
		t.Fatalf("admin scope = %q, %v", code, err)
	}
	if _, err := e.ReadScope(ctx, Caller{UserID: 5}); !errors.Is(err, ErrNoSchool) {
		t.Fatalf("scope without membership: got %v, want ErrNoSchool", err)
	}
	if _, err := e.ReadScope(ctx, Caller{}); !errors.Is(err, ErrAuthenticationRequired) {
		t.Fatalf("anonymous scope: got %v, want ErrAuthenticationRequired", err)
	}
}

// An admin whose profile was never stamped with the code still reads the
// school they own via the directory fallback.
func TestReadScopeDirectoryFallback(t *testing.T) {
	reg := &fakeRegistry{
		roles: map[uint64]model.Role{7: model.RoleAdmin},
		codes: map[uint64]string{},
	}
	dir := &fakeDirectory{admins: map[string]uint64{"HILL01": 7}}
	e := NewEngine(reg, dir)

	code, err := e.ReadScope(context.Background(), Caller{UserID: 7})
	if err != nil || code != "HILL01" {
		t.Fatalf("fallback scope = %q, %v", code, err)
	}
}

func TestAuthorizeCreateSchool(t *testing.T) {
	e := fixture()
	ctx := context.Background()

	tests := []struct {
		name   string
		caller Caller
		want   error
	}{
		{"student cannot create", Caller{UserID: 2}, ErrNotAdmin},
		{"owner cannot create a second school", Caller{UserID: 1}, ErrAlreadyOwner},
		{"admin without a school may create", Caller{UserID: 5}, nil},
		{"anonymous", Caller{}, ErrAuthenticationRequired},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := e.AuthorizeCreateSchool(ctx, tt.caller)
			if !errors.Is(got, tt.want) && !(got == nil && tt.want == nil) {
				t.Fatalf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestAuthorizeProfileSelfOnly(t *testing.T) {
	e := fixture()
	for _, op := range []Operation{OpSelect, OpInsert, OpUpdate} {
		if err := e.AuthorizeProfile(op, 2, Caller{UserID: 2}); err != nil {
			t.Fatalf("self %s: %v", op, err)
		}
		if err := e.AuthorizeProfile(op, 2, Caller{UserID: 3}); !errors.Is(err, ErrDenied) {
			t.Fatalf("foreign %s: got %v, want ErrDenied", op, err)
		}
	}
}

func TestAuthorizeJoin(t *testing.T) {
	e := fixture()
	ctx := context.Background()

	if err := e.AuthorizeJoin(ctx, Caller{UserID: 3}); err != nil {
		t.Fatalf("student join check: %v", err)
	}
	if err := e.AuthorizeJoin(ctx, Caller{UserID: 1}); !errors.Is(err, ErrDenied) {
		t.Fatalf("admin join check: got %v, want ErrDenied", err)
	}
}
