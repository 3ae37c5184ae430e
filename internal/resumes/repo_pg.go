package resumes

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
)

// PGRepo implements Repo using Postgres.
type PGRepo struct {
	DB *sql.DB
}

// List returns every resume in store order.
func (r *PGRepo) List(ctx context.Context) ([]Resume, error) {
	const query = `
SELECT id::text, user_id, resume_data, created_at, updated_at
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
func (r *PGRepo) GetByID(ctx context.Context, id string) (Resume, error) {
	const query = `
SELECT id::text, user_id, resume_data, created_at, updated_at
FROM resumes
WHERE id = $1
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
func (r *PGRepo) Create(ctx context.Context, resume NewResume) (Resume, error) {
	const query = `
INSERT INTO resumes (id, user_id, resume_data)
VALUES ($1, $2, $3::jsonb)
RETURNING id::text, user_id, resume_data, created_at, updated_at`

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

// ErrorFields extracts Postgres diagnostics from err for logging.
func ErrorFields(err error) map[string]any {
	fields := map[string]any{}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		fields["pg_code"] = pgErr.Code
		fields["pg_severity"] = pgErr.Severity
		if pgErr.Detail != "" {
			fields["pg_detail"] = pgErr.Detail
		}
		if pgErr.TableName != "" {
			fields["pg_table"] = pgErr.TableName
		}
	}
	return fields
}

var _ Repo = (*PGRepo)(nil)
