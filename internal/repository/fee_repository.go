package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/schoolconnect/schoolconnect/internal/model"
)

// FeeRepo encapsulates database access for fees. Same tenancy rule as the
// other resource repos: school_code rides in every WHERE clause.
type FeeRepo struct {
	db *sql.DB
}

func NewFeeRepo(db *sql.DB) *FeeRepo {
	return &FeeRepo{db: db}
}

// Create inserts a fee and re-reads database-populated timestamps.
func (r *FeeRepo) Create(ctx context.Context, f *model.Fee) error {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO fees (school_code, title, description, amount, due_date, category)
		 VALUES (?,?,?,?,?,?)`,
		f.SchoolCode, f.Title, f.Description, f.Amount, f.DueDate, f.Category)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	f.ID = uint64(id)
	return r.db.QueryRowContext(ctx,
		`SELECT created_at, updated_at FROM fees WHERE id=?`, f.ID).
		Scan(&f.CreatedAt, &f.UpdatedAt)
}

// GetByID fetches a fee regardless of school for authorization against its
// SchoolCode.
func (r *FeeRepo) GetByID(ctx context.Context, id uint64) (*model.Fee, error) {
	var f model.Fee
	err := r.db.QueryRowContext(ctx,
		`SELECT id, school_code, title, description, amount, due_date, category, created_at, updated_at
		 FROM fees WHERE id=? LIMIT 1`, id).
		Scan(&f.ID, &f.SchoolCode, &f.Title, &f.Description, &f.Amount, &f.DueDate, &f.Category, &f.CreatedAt, &f.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &f, nil
}

// ListBySchool returns all fees of one school ordered by due date.
func (r *FeeRepo) ListBySchool(ctx context.Context, code string) ([]*model.Fee, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, school_code, title, description, amount, due_date, category, created_at, updated_at
		 FROM fees WHERE school_code=? ORDER BY due_date, id`, code)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*model.Fee
	for rows.Next() {
		f := new(model.Fee)
		if err := rows.Scan(&f.ID, &f.SchoolCode, &f.Title, &f.Description, &f.Amount, &f.DueDate, &f.Category, &f.CreatedAt, &f.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, f)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// Update rewrites the mutable fields of a fee within its school and
// refreshes updated_at.
func (r *FeeRepo) Update(ctx context.Context, id uint64, code string, f *model.Fee) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE fees
		 SET title=?, description=?, amount=?, due_date=?, category=?, updated_at=CURRENT_TIMESTAMP(6)
		 WHERE id=? AND school_code=?`,
		f.Title, f.Description, f.Amount, f.DueDate, f.Category, id, code)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes a fee within its school.
func (r *FeeRepo) Delete(ctx context.Context, id uint64, code string) error {
	res, err := r.db.ExecContext(ctx,
		"DELETE FROM fees WHERE id=? AND school_code=?", id, code)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// CountBySchool reports how many fees a school has.
func (r *FeeRepo) CountBySchool(ctx context.Context, code string) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM fees WHERE school_code=?", code).Scan(&n)
	return n, err
}
