package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/schoolconnect/schoolconnect/internal/model"
)

// NoticeRepo encapsulates database access for notices.
type NoticeRepo struct {
	db *sql.DB
}

func NewNoticeRepo(db *sql.DB) *NoticeRepo {
	return &NoticeRepo{db: db}
}

// Create inserts a notice and re-reads database-populated fields. The
// priority column defaults to "normal" when the field is empty.
func (r *NoticeRepo) Create(ctx context.Context, n *model.Notice) error {
	if n.Priority == "" {
		n.Priority = model.PriorityNormal
	}
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO notices (school_code, title, content, priority) VALUES (?,?,?,?)`,
		n.SchoolCode, n.Title, n.Content, n.Priority)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	n.ID = uint64(id)
	return r.db.QueryRowContext(ctx,
		`SELECT created_at, updated_at FROM notices WHERE id=?`, n.ID).
		Scan(&n.CreatedAt, &n.UpdatedAt)
}

// GetByID fetches a notice regardless of school for authorization against
// its SchoolCode.
func (r *NoticeRepo) GetByID(ctx context.Context, id uint64) (*model.Notice, error) {
	var n model.Notice
	err := r.db.QueryRowContext(ctx,
		`SELECT id, school_code, title, content, priority, created_at, updated_at
		 FROM notices WHERE id=? LIMIT 1`, id).
		Scan(&n.ID, &n.SchoolCode, &n.Title, &n.Content, &n.Priority, &n.CreatedAt, &n.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &n, nil
}

// ListBySchool returns all notices of one school, newest first.
func (r *NoticeRepo) ListBySchool(ctx context.Context, code string) ([]*model.Notice, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, school_code, title, content, priority, created_at, updated_at
		 FROM notices WHERE school_code=? ORDER BY created_at DESC, id DESC`, code)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*model.Notice
	for rows.Next() {
		n := new(model.Notice)
		if err := rows.Scan(&n.ID, &n.SchoolCode, &n.Title, &n.Content, &n.Priority, &n.CreatedAt, &n.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// Update rewrites a notice within its school and refreshes updated_at.
func (r *NoticeRepo) Update(ctx context.Context, id uint64, code string, n *model.Notice) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE notices
		 SET title=?, content=?, priority=?, updated_at=CURRENT_TIMESTAMP(6)
		 WHERE id=? AND school_code=?`,
		n.Title, n.Content, n.Priority, id, code)
	if err != nil {
		return err
	}
	if rows, _ := res.RowsAffected(); rows == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes a notice within its school.
func (r *NoticeRepo) Delete(ctx context.Context, id uint64, code string) error {
	res, err := r.db.ExecContext(ctx,
		"DELETE FROM notices WHERE id=? AND school_code=?", id, code)
	if err != nil {
		return err
	}
	if rows, _ := res.RowsAffected(); rows == 0 {
		return ErrNotFound
	}
	return nil
}

// CountBySchool reports how many notices a school has.
func (r *NoticeRepo) CountBySchool(ctx context.Context, code string) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM notices WHERE school_code=?", code).Scan(&n)
	return n, err
}
