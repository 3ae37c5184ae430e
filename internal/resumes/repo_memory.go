package resumes

import (
	"context"
	"encoding/json"
	"sync"
	"time"
)

// MemoryRepo is an in-memory implementation of Repo.
type MemoryRepo struct {
	mu    sync.RWMutex
	order []string
	data  map[string]Resume
	now   func() time.Time
}

// NewMemoryRepo constructs a MemoryRepo.
func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{
		data: make(map[string]Resume),
		now:  time.Now,
	}
}

// List returns every resume in insertion order.
func (r *MemoryRepo) List(ctx context.Context) ([]Resume, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Resume, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, clone(r.data[id]))
	}
	return out, nil
}

// GetByID returns a single resume.
func (r *MemoryRepo) GetByID(ctx context.Context, id string) (Resume, error) {
	if err := ctx.Err(); err != nil {
		return Resume{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	resume, ok := r.data[id]
	if !ok {
		return Resume{}, ErrNotFound
	}
	return clone(resume), nil
}

// Create stores a resume. An existing ID is rejected like a primary key would.
func (r *MemoryRepo) Create(ctx context.Context, resume NewResume) (Resume, error) {
	if err := ctx.Err(); err != nil {
		return Resume{}, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.data[resume.ID]; exists {
		return Resume{}, ErrDuplicateID
	}
	now := r.now().UTC()
	stored := Resume{
		ID:         resume.ID,
		UserID:     resume.UserID,
		ResumeData: append(json.RawMessage(nil), resume.ResumeData...),
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	r.data[stored.ID] = stored
	r.order = append(r.order, stored.ID)
	return clone(stored), nil
}

func clone(r Resume) Resume {
	r.ResumeData = append(json.RawMessage(nil), r.ResumeData...)
	return r
}

var _ Repo = (*MemoryRepo)(nil)
