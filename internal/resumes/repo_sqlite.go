package resumes

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// SQLiteRepo implements Repo using SQLite. Rows come back in rowid order.
type SQLiteRepo struct {
	DB *sql.DB
}

// List returns every resume in insertion order.
func (r *SQLiteRepo) List(ctx context.Context) ([]Resume, error) {
	const query = `
SELECT id, user_id, resume_data, created_at, updated_at
FROM resumes`

	rows, err := r.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list resumes: %w", err)
	}
	defer rows.Close()

	out := []Resume{}
	for rows.Next() {
		resume, err := scanResume(rows)
		if err != nil {
			return nil, fmt.Errorf("scan resume: %w", err)
		}
		out = append(out, resume)
	}
	return out, rows.Err()
}

// GetByID returns a single resume.
func (r *SQLiteRepo) GetByID(ctx context.Context, id string) (Resume, error) {
	const query = `
SELECT id, user_id, resume_data, created_at, updated_at
FROM resumes
WHERE id = ?
LIMIT 1`

	resume, err := scanResume(r.DB.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Resume{}, ErrNotFound
		}
		return Resume{}, fmt.Errorf("get resume: %w", err)
	}
	return resume, nil
}

// Create inserts a resume and returns the stored row.
func (r *SQLiteRepo) Create(ctx context.Context, resume NewResume) (Resume, error) {
	const query = `
INSERT INTO resumes (id, user_id, resume_data)
VALUES (?, ?, ?)
RETURNING id, user_id, resume_data, created_at, updated_at`

	created, err := scanResume(r.DB.QueryRowContext(ctx, query,
		resume.ID,
		resume.UserID,
		string(resume.ResumeData),
	))
	if err != nil {
		return Resume{}, fmt.Errorf("insert resume: %w", err)
	}
	return created, nil
}

var _ Repo = (*SQLiteRepo)(nil)
