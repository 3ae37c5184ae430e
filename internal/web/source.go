package web

import (
	"context"

	"resume-viewer/internal/resumes"
	"resume-viewer/internal/trpc"
)

// Lister fetches the resumes shown on the page.
type Lister interface {
	List(ctx context.Context) ([]resumes.Resume, error)
}

// APILister calls resume.list on the API.
type APILister struct {
	Client *trpc.Client
}

// NewAPILister targets the API at baseURL, e.g. "http://localhost:3000".
func NewAPILister(baseURL string) *APILister {
	return &APILister{Client: trpc.NewClient(baseURL+trpc.PathPrefix, nil)}
}

func (l *APILister) List(ctx context.Context) ([]resumes.Resume, error) {
	var items []resumes.Resume
	if err := l.Client.Query(ctx, "resume.list", nil, &items); err != nil {
		return nil, err
	}
	return items, nil
}
