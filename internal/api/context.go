package api

import (
	"github.com/gin-gonic/gin"

	"resume-viewer/internal/resumes"
)

// Context is passed to every procedure. It is built fresh for each call.
type Context struct {
	DB      resumes.Repo
	Session Session
}

// NewContextFactory returns the per-call context constructor used by the
// transport handler.
func NewContextFactory(repo resumes.Repo) func(*gin.Context) Context {
	return func(*gin.Context) Context {
		return Context{DB: repo, Session: Anonymous{}}
	}
}
