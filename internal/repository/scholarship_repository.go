package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/schoolconnect/schoolconnect/internal/model"
)

// ScholarshipRepo encapsulates database access for scholarships. Every
// query is keyed by school_code — the repo never answers cross-tenant
// queries, and mutations carry the code in the WHERE clause so a row can
// only be changed through the school it belongs to.
type ScholarshipRepo struct {
	db *sql.DB
}

func NewScholarshipRepo(db *sql.DB) *ScholarshipRepo {
	return &ScholarshipRepo{db: db}
}

// Create inserts a scholarship and re-reads the row so callers receive
// database-populated timestamps.
func (r *ScholarshipRepo) Create(ctx context.Context, s *model.Scholarship) error {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO scholarships (school_code, title, description, amount, deadline, eligibility)
		 VALUES (?,?,?,?,?,?)`,
		s.SchoolCode, s.Title, s.Description, s.Amount, s.Deadline, s.Eligibility)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	s.ID = uint64(id)
	return r.db.QueryRowContext(ctx,
		`SELECT created_at, updated_at FROM scholarships WHERE id=?`, s.ID).
		Scan(&s.CreatedAt, &s.UpdatedAt)
}

// GetByID fetches a scholarship regardless of school; the caller is
// expected to authorize against the returned row's SchoolCode.
func (r *ScholarshipRepo) GetByID(ctx context.Context, id uint64) (*model.Scholarship, error) {
	var s model.Scholarship
	err := r.db.QueryRowContext(ctx,
		`SELECT id, school_code, title, description, amount, deadline, eligibility, created_at, updated_at
		 FROM scholarships WHERE id=? LIMIT 1`, id).
		Scan(&s.ID, &s.SchoolCode, &s.Title, &s.Description, &s.Amount, &s.Deadline, &s.Eligibility, &s.CreatedAt, &s.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// ListBySchool returns all scholarships of one school, newest deadline last.
func (r *ScholarshipRepo) ListBySchool(ctx context.Context, code string) ([]*model.Scholarship, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, school_code, title, description, amount, deadline, eligibility, created_at, updated_at
		 FROM scholarships WHERE school_code=? ORDER BY deadline, id`, code)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*model.Scholarship
	for rows.Next() {
		s := new(model.Scholarship)
		if err := rows.Scan(&s.ID, &s.SchoolCode, &s.Title, &s.Description, &s.Amount, &s.Deadline, &s.Eligibility, &s.CreatedAt, &s.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// Update rewrites the mutable fields of a scholarship within its school.
// updated_at is refreshed on every accepted update. Returns ErrNotFound
// when the (id, code) pair matches nothing.
func (r *ScholarshipRepo) Update(ctx context.Context, id uint64, code string, s *model.Scholarship) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE scholarships
		 SET title=?, description=?, amount=?, deadline=?, eligibility=?, updated_at=CURRENT_TIMESTAMP(6)
		 WHERE id=? AND school_code=?`,
		s.Title, s.Description, s.Amount, s.Deadline, s.Eligibility, id, code)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes a scholarship within its school.
func (r *ScholarshipRepo) Delete(ctx context.Context, id uint64, code string) error {
	res, err := r.db.ExecContext(ctx,
		"DELETE FROM scholarships WHERE id=? AND school_code=?", id, code)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// CountBySchool reports how many scholarships a school has.
func (r *ScholarshipRepo) CountBySchool(ctx context.Context, code string) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM scholarships WHERE school_code=?", code).Scan(&n)
	return n, err
}
