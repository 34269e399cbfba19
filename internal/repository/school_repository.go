package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/schoolconnect/schoolconnect/internal/model"
)

// SchoolRepo encapsulates all database queries for the schools table. It
// doubles as the tenant directory: AdminOf and SchoolCodeByAdmin satisfy
// authz.SchoolDirectory.
type SchoolRepo struct {
	db *sql.DB
}

func NewSchoolRepo(db *sql.DB) *SchoolRepo {
	return &SchoolRepo{db: db}
}

// Create inserts a new school owned by adminID and stamps the admin's own
// profile with the code, all inside one transaction. Invariants enforced
// here, in order:
//
//   1. an admin owns at most one school (checked under FOR UPDATE so two
//      concurrent creates by the same admin cannot both pass);
//   2. the code is globally unique — the unique index is the sole arbiter,
//      concurrent takers of the same code race and exactly one wins, the
//      loser gets ErrCodeTaken.
func (r *SchoolRepo) Create(ctx context.Context, name, code string, adminID uint64) (*model.School, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	var existing uint64
	err = tx.QueryRowContext(ctx,
		"SELECT id FROM schools WHERE admin_id=? LIMIT 1 FOR UPDATE", adminID).Scan(&existing)
	if err == nil {
		err = ErrAlreadyOwner
		return nil, err
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}
	err = nil

	res, err := tx.ExecContext(ctx,
		"INSERT INTO schools (name, school_code, admin_id) VALUES (?,?,?)",
		name, code, adminID)
	if err != nil {
		if strings.Contains(strings.ToLower(err.Error()), dupKeyErr) {
			err = ErrCodeTaken
		}
		return nil, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}

	// The creating admin becomes a member of their own school.
	if _, err = tx.ExecContext(ctx,
		"UPDATE profiles SET school_code=?, updated_at=CURRENT_TIMESTAMP(6) WHERE user_id=?",
		code, adminID); err != nil {
		return nil, err
	}

	s := &model.School{ID: uint64(id)}
	err = tx.QueryRowContext(ctx,
		"SELECT id, name, school_code, admin_id, created_at, updated_at FROM schools WHERE id=?",
		s.ID).Scan(&s.ID, &s.Name, &s.Code, &s.AdminID, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if err = tx.Commit(); err != nil {
		return nil, err
	}
	return s, nil
}

// GetByCode fetches a school by its join code. Returns ErrSchoolNotFound
// when no row matches.
func (r *SchoolRepo) GetByCode(ctx context.Context, code string) (*model.School, error) {
	var s model.School
	err := r.db.QueryRowContext(ctx,
		"SELECT id, name, school_code, admin_id, created_at, updated_at FROM schools WHERE school_code=? LIMIT 1",
		code).Scan(&s.ID, &s.Name, &s.Code, &s.AdminID, &s.CreatedAt, &s.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrSchoolNotFound
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// GetByID fetches a school by primary key.
func (r *SchoolRepo) GetByID(ctx context.Context, id uint64) (*model.School, error) {
	var s model.School
	err := r.db.QueryRowContext(ctx,
		"SELECT id, name, school_code, admin_id, created_at, updated_at FROM schools WHERE id=? LIMIT 1",
		id).Scan(&s.ID, &s.Name, &s.Code, &s.AdminID, &s.CreatedAt, &s.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrSchoolNotFound
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// UpdateName renames a school if it is owned by adminID. The school_code
// and admin_id columns are never touched; both are immutable after
// creation. Returns sql.ErrNoRows when nothing matched (not found / not
// owned).
func (r *SchoolRepo) UpdateName(ctx context.Context, id, adminID uint64, name string) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE schools SET name = ?, updated_at = CURRENT_TIMESTAMP(6)
		 WHERE id = ? AND admin_id = ?`,
		name, id, adminID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// AdminOf reports the owning admin of the school with the given code.
func (r *SchoolRepo) AdminOf(ctx context.Context, code string) (uint64, bool, error) {
	var adminID uint64
	err := r.db.QueryRowContext(ctx,
		"SELECT admin_id FROM schools WHERE school_code=? LIMIT 1", code).Scan(&adminID)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}
	return adminID, true, nil
}

// SchoolCodeByAdmin reports the code of the school owned by adminID, if any.
func (r *SchoolRepo) SchoolCodeByAdmin(ctx context.Context, adminID uint64) (string, bool, error) {
	var code string
	err := r.db.QueryRowContext(ctx,
		"SELECT school_code FROM schools WHERE admin_id=? LIMIT 1", adminID).Scan(&code)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return code, true, nil
}
