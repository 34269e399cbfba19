package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/schoolconnect/schoolconnect/internal/model"
)

// ProfileRepo manages rows in the profiles table.
type ProfileRepo struct {
	db *sql.DB
}

func NewProfileRepo(db *sql.DB) *ProfileRepo {
	return &ProfileRepo{db: db}
}

// GetByUserID fetches the profile belonging to userID. Returns
// sql.ErrNoRows when the user has no profile.
func (r *ProfileRepo) GetByUserID(ctx context.Context, userID uint64) (*model.Profile, error) {
	var (
		p    model.Profile
		code sql.NullString
	)
	err := r.db.QueryRowContext(ctx,
		"SELECT id, user_id, full_name, school_code, created_at, updated_at FROM profiles WHERE user_id=? LIMIT 1",
		userID).Scan(&p.ID, &p.UserID, &p.FullName, &code, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if code.Valid {
		p.SchoolCode = &code.String
	}
	return &p, nil
}

// UpdateFullName changes the display name on the caller's own profile.
func (r *ProfileRepo) UpdateFullName(ctx context.Context, userID uint64, fullName string) error {
	res, err := r.db.ExecContext(ctx,
		"UPDATE profiles SET full_name=?, updated_at=CURRENT_TIMESTAMP(6) WHERE user_id=?",
		fullName, userID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// JoinSchool sets the user's school_code to an existing school's code.
// The code is set at most once: the WHERE clause only matches a profile
// whose school_code is still NULL, so a second join — concurrent or not —
// affects zero rows and reports ErrAlreadyJoined. There is no operation
// anywhere that clears the column again.
func (r *ProfileRepo) JoinSchool(ctx context.Context, userID uint64, code string) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	var schoolID uint64
	err = tx.QueryRowContext(ctx,
		"SELECT id FROM schools WHERE school_code=? LIMIT 1", code).Scan(&schoolID)
	if errors.Is(err, sql.ErrNoRows) {
		err = ErrSchoolNotFound
		return err
	}
	if err != nil {
		return err
	}

	res, err := tx.ExecContext(ctx,
		"UPDATE profiles SET school_code=?, updated_at=CURRENT_TIMESTAMP(6) WHERE user_id=? AND school_code IS NULL",
		code, userID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		err = ErrAlreadyJoined
		return err
	}
	return tx.Commit()
}
