package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/schoolconnect/schoolconnect/internal/model"
)

// MembershipRepo answers the two read-only questions the authz engine asks
// about a user: what role do they hold, and which school do they belong to.
// It satisfies authz.MembershipRegistry.
type MembershipRepo struct{ DB *sql.DB }

func NewMembershipRepo(db *sql.DB) *MembershipRepo { return &MembershipRepo{DB: db} }

// RoleOf returns the user's single role. The unique index on
// (user_id, role) makes multiple rows per user impossible in the normal
// course; if it ever happens anyway that is a data-integrity fault, not a
// policy decision, so it surfaces as an error rather than a denial.
func (r *MembershipRepo) RoleOf(ctx context.Context, userID uint64) (model.Role, bool, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT role FROM user_roles WHERE user_id=? LIMIT 2", userID)
	if err != nil {
		return "", false, err
	}
	defer rows.Close()

	var roles []model.Role
	for rows.Next() {
		var role model.Role
		if err := rows.Scan(&role); err != nil {
			return "", false, err
		}
		roles = append(roles, role)
	}
	if err := rows.Err(); err != nil {
		return "", false, err
	}
	switch len(roles) {
	case 0:
		return "", false, nil
	case 1:
		return roles[0], true, nil
	default:
		return "", false, fmt.Errorf("user %d holds %d roles, expected at most one", userID, len(roles))
	}
}

// SchoolCodeOf returns the school code from the user's profile, with
// ok=false when the user has no profile or has not yet joined a school.
func (r *MembershipRepo) SchoolCodeOf(ctx context.Context, userID uint64) (string, bool, error) {
	var code sql.NullString
	err := r.DB.QueryRowContext(ctx,
		"SELECT school_code FROM profiles WHERE user_id=? LIMIT 1",
		userID).Scan(&code)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	if !code.Valid || code.String == "" {
		return "", false, nil
	}
	return code.String, true, nil
}
