package api

import (
	"context"
	"encoding/json"

	"resume-viewer/internal/resumes"
	"resume-viewer/internal/trpc"
)

// NewAppRouter assembles every procedure the API serves.
func NewAppRouter() *trpc.Router[Context] {
	r := trpc.NewRouter[Context]().
		Query("healthCheck", healthCheck).
		Merge("resume", NewResumeRouter())
	r.ErrorFields = resumes.ErrorFields
	return r
}

func healthCheck(context.Context, Context, json.RawMessage) (any, error) {
	return "OK", nil
}
