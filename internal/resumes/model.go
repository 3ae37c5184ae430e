package resumes

import (
	"encoding/json"
	"time"
)

// Resume is a stored resume record. ResumeData is an opaque JSON document.
type Resume struct {
	ID         string          `json:"id"`
	UserID     string          `json:"userId"`
	ResumeData json.RawMessage `json:"resumeData"`
	CreatedAt  time.Time       `json:"createdAt"`
	UpdatedAt  time.Time       `json:"updatedAt"`
}

// NewResume is the insert payload. Timestamps are assigned by the store.
type NewResume struct {
	ID         string
	UserID     string
	ResumeData json.RawMessage
}
