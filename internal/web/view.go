package web

import (
	"bytes"
	"encoding/json"
	"errors"

	"resume-viewer/internal/resumes"
	"resume-viewer/internal/trpc"
)

// State is the phase of the resume list page.
type State string

const (
	StateLoading State = "loading"
	StateError   State = "error"
	StateEmpty   State = "empty"
	StateReady   State = "ready"
)

const (
	emptyMessage = "No resumes found. Create one to get started."
	dateLayout   = "1/2/2006"
	shortIDLen   = 8
)

// Card is the summary shown for one resume.
type Card struct {
	ID      string
	ShortID string
	UserID  string
	Created string
	Data    string
}

// View is everything the page template needs.
type View struct {
	State   State
	Message string
	Cards   []Card
}

// Loading is the view before the list call returns.
func Loading() View {
	return View{State: StateLoading, Message: "Loading resumes..."}
}

// Resolve turns the outcome of the list call into a view.
func Resolve(items []resumes.Resume, err error) View {
	if err != nil {
		return View{State: StateError, Message: "Error loading resumes: " + errorMessage(err)}
	}
	if len(items) == 0 {
		return View{State: StateEmpty, Message: emptyMessage}
	}
	cards := make([]Card, 0, len(items))
	for _, item := range items {
		cards = append(cards, newCard(item))
	}
	return View{State: StateReady, Cards: cards}
}

func newCard(r resumes.Resume) Card {
	short := r.ID
	if len(short) > shortIDLen {
		short = short[:shortIDLen]
	}
	return Card{
		ID:      r.ID,
		ShortID: short,
		UserID:  r.UserID,
		Created: r.CreatedAt.Format(dateLayout),
		Data:    prettyJSON(r.ResumeData),
	}
}

func prettyJSON(raw json.RawMessage) string {
	if len(bytes.TrimSpace(raw)) == 0 {
		return "null"
	}
	var buf bytes.Buffer
	if err := json.Indent(&buf, raw, "", "  "); err != nil {
		return string(raw)
	}
	return buf.String()
}

func errorMessage(err error) string {
	var te *trpc.Error
	if errors.As(err, &te) {
		return te.Message
	}
	return err.Error()
}
