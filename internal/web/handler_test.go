package web

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"resume-viewer/internal/bootstrap"
	"resume-viewer/internal/resumes"
	"resume-viewer/internal/shared/config"
)

type staticLister struct {
	items []resumes.Resume
	err   error
	calls int
}

func (s *staticLister) List(context.Context) ([]resumes.Resume, error) {
	s.calls++
	return s.items, s.err
}

func render(t *testing.T, lister Lister) string {
	t.Helper()
	gin.SetMode(gin.TestMode)
	resp := httptest.NewRecorder()
	NewRouter(lister).ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/", nil))
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Contains(t, resp.Header().Get("Content-Type"), "text/html")
	return resp.Body.String()
}

func TestPageFetchesOnce(t *testing.T) {
	lister := &staticLister{}
	body := render(t, lister)
	assert.Equal(t, 1, lister.calls)
	assert.Contains(t, body, "Loading resumes...")
	assert.Contains(t, body, "#loading{display:none}")
}

func TestPageEmptyState(t *testing.T) {
	body := render(t, &staticLister{items: []resumes.Resume{}})
	assert.Contains(t, body, "No resumes found. Create one to get started.")
	assert.Contains(t, body, `data-state="empty"`)
}

func TestPageErrorState(t *testing.T) {
	body := render(t, &staticLister{err: errors.New("upstream <down>")})
	assert.Contains(t, body, `data-state="error"`)
	assert.Contains(t, body, "Error loading resumes: upstream &lt;down&gt;")
}

func TestPageReadyState(t *testing.T) {
	body := render(t, &staticLister{items: []resumes.Resume{{
		ID:         "0b7c3f1e-4a44-4f43-9c8e-6c1d1f3c2a10",
		UserID:     "u1",
		ResumeData: json.RawMessage(`{"name":"<Jane>"}`),
		CreatedAt:  time.Date(2024, time.December, 31, 0, 0, 0, 0, time.UTC),
	}}})
	assert.Contains(t, body, `data-state="ready"`)
	assert.Contains(t, body, "Resume 0b7c3f1e")
	assert.Contains(t, body, "User: u1")
	assert.Contains(t, body, "Created: 12/31/2024")
	assert.Contains(t, body, "&#34;name&#34;: &#34;&lt;Jane&gt;&#34;")
	assert.NotContains(t, body, "<Jane>")
}

func TestPageAgainstAPI(t *testing.T) {
	gin.SetMode(gin.TestMode)
	app, err := bootstrap.Build(config.Config{Env: "dev"})
	require.NoError(t, err)
	api := httptest.NewServer(app.Router)
	t.Cleanup(api.Close)

	lister := NewAPILister(api.URL)
	body := render(t, lister)
	assert.Contains(t, body, "No resumes found.")

	_, err = app.Resumes.Create(context.Background(), resumes.NewResume{
		ID:         "8d1f6c8e-2f0a-4c1b-9a53-4b8e3a9d0e11",
		UserID:     "u1",
		ResumeData: json.RawMessage(`{"name":"Jane"}`),
	})
	require.NoError(t, err)

	body = render(t, lister)
	assert.Contains(t, body, "Resume 8d1f6c8e")
	assert.Equal(t, 1, strings.Count(body, `class="panel card"`))
}

func TestPageWhenAPIUnreachable(t *testing.T) {
	api := httptest.NewServer(http.NotFoundHandler())
	url := api.URL
	api.Close()

	body := render(t, NewAPILister(url))
	assert.Contains(t, body, "Error loading resumes: ")
}
