package resumes

import (
	"context"
	"errors"
)

var (
	// ErrNotFound indicates no resume matched the identifier.
	ErrNotFound = errors.New("resume not found")

	// ErrDuplicateID indicates the identifier is already taken.
	ErrDuplicateID = errors.New("resume id already exists")
)

// Repo defines persistence operations for resumes. Each method is a single
// statement against the store.
type Repo interface {
	List(ctx context.Context) ([]Resume, error)
	GetByID(ctx context.Context, id string) (Resume, error)
	Create(ctx context.Context, resume NewResume) (Resume, error)
}
