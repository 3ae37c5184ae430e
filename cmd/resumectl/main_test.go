package main

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"resume-viewer/internal/bootstrap"
	"resume-viewer/internal/resumes"
	"resume-viewer/internal/shared/config"
)

func newAPI(t *testing.T) string {
	t.Helper()
	gin.SetMode(gin.TestMode)
	app, err := bootstrap.Build(config.Config{Env: "dev"})
	require.NoError(t, err)
	srv := httptest.NewServer(app.Router)
	t.Cleanup(srv.Close)
	return srv.URL
}

func run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestCreateListGet(t *testing.T) {
	url := newAPI(t)

	out, err := run(t, "", "list", "--api-url", url)
	require.NoError(t, err)
	assert.JSONEq(t, `[]`, out)

	out, err = run(t, "", "create", "--api-url", url, "--user-id", "u1", "--data", `{"name":"Jane"}`)
	require.NoError(t, err)
	var created resumes.Resume
	require.NoError(t, json.Unmarshal([]byte(out), &created))
	assert.Equal(t, "u1", created.UserID)
	assert.JSONEq(t, `{"name":"Jane"}`, string(created.ResumeData))

	out, err = run(t, `{"name":"Ann"}`, "create", "--api-url", url, "--user-id", "u2", "-f", "-")
	require.NoError(t, err)
	assert.Contains(t, out, `"Ann"`)

	out, err = run(t, "", "list", "--api-url", url)
	require.NoError(t, err)
	var listed []resumes.Resume
	require.NoError(t, json.Unmarshal([]byte(out), &listed))
	assert.Len(t, listed, 2)

	out, err = run(t, "", "get", created.ID, "--api-url", url)
	require.NoError(t, err)
	assert.Contains(t, out, created.ID)
}

func TestGetErrors(t *testing.T) {
	url := newAPI(t)

	_, err := run(t, "", "get", "not-a-uuid", "--api-url", url)
	require.Error(t, err)
	assert.Equal(t, "BAD_REQUEST: id: Invalid uuid", err.Error())

	_, err = run(t, "", "get", "0b7c3f1e-4a44-4f43-9c8e-6c1d1f3c2a10", "--api-url", url)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no resume with id")
}

func TestCreateRejectsInvalidDocument(t *testing.T) {
	_, err := run(t, "", "create", "--api-url", "http://127.0.0.1:1", "--user-id", "u1", "--data", `{nope`)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not valid JSON")
}
