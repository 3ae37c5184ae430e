package health

import (
	"context"
	"database/sql"
	"time"
)

const defaultTimeout = 5 * time.Second

// Status is the /health payload.
type Status struct {
	Status   string `json:"status"`
	Database string `json:"database"`
	Error    string `json:"error,omitempty"`
}

// Service probes the store backing the API.
type Service struct {
	DB      *sql.DB
	Timeout time.Duration
}

// NewService constructs a health service. A nil db means the in-memory
// store is in use and the probe always passes.
func NewService(db *sql.DB) *Service {
	return &Service{DB: db, Timeout: defaultTimeout}
}

// Check runs a trivial query against the store.
func (s *Service) Check(ctx context.Context) (Status, error) {
	if s.DB == nil {
		return Status{Status: "healthy", Database: "connected"}, nil
	}
	timeout := s.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	var one int
	if err := s.DB.QueryRowContext(ctx, "SELECT 1").Scan(&one); err != nil {
		return Status{Status: "unhealthy", Database: "disconnected", Error: err.Error()}, err
	}
	return Status{Status: "healthy", Database: "connected"}, nil
}
