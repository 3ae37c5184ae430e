package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"resume-viewer/internal/resumes"
	"resume-viewer/internal/trpc"
)

type getResumeInput struct {
	ID string `json:"id" validate:"required,uuid_ci"`
}

type createResumeInput struct {
	UserID     *string         `json:"userId" validate:"required"`
	ResumeData json.RawMessage `json:"resumeData" validate:"required"`
}

// NewResumeRouter exposes the resume procedures: list, get and create.
func NewResumeRouter() *trpc.Router[Context] {
	return trpc.NewRouter[Context]().
		Query("list", listResumes).
		Query("get", getResume).
		Mutation("create", createResume)
}

func listResumes(ctx context.Context, c Context, _ json.RawMessage) (any, error) {
	items, err := c.DB.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list resumes: %w", err)
	}
	if items == nil {
		items = []resumes.Resume{}
	}
	return items, nil
}

// getResume returns no data when the id is unknown.
func getResume(ctx context.Context, c Context, input json.RawMessage) (any, error) {
	in, err := trpc.Bind[getResumeInput](input)
	if err != nil {
		return nil, err
	}
	resume, err := c.DB.GetByID(ctx, strings.ToLower(in.ID))
	if errors.Is(err, resumes.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get resume: %w", err)
	}
	return resume, nil
}

func createResume(ctx context.Context, c Context, input json.RawMessage) (any, error) {
	in, err := trpc.Bind[createResumeInput](input)
	if err != nil {
		return nil, err
	}
	created, err := c.DB.Create(ctx, resumes.NewResume{
		ID:         uuid.NewString(),
		UserID:     *in.UserID,
		ResumeData: in.ResumeData,
	})
	if err != nil {
		return nil, fmt.Errorf("create resume: %w", err)
	}
	return created, nil
}
