package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"resume-viewer/internal/services/health"
	"resume-viewer/internal/shared/config"
	"resume-viewer/internal/shared/metrics"
	"resume-viewer/internal/shared/storage/db"
)

func testConfig() config.Config {
	return config.Config{Env: "dev", CORSOrigin: "http://localhost:5173"}
}

func TestRootLiveness(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := NewRouter(RouterDeps{Config: testConfig()})

	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/", nil))
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Equal(t, "OK", resp.Body.String())
	assert.Contains(t, resp.Header().Get("Content-Type"), "text/plain")
}

func TestHealthReflectsDatabase(t *testing.T) {
	gin.SetMode(gin.TestMode)
	conn, err := db.Connect(context.Background(), "sqlite://:memory:", db.DefaultServerOptions())
	require.NoError(t, err)

	r := NewRouter(RouterDeps{Config: testConfig(), Health: health.NewService(conn)})

	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/health", nil))
	require.Equal(t, http.StatusOK, resp.Code)
	assert.JSONEq(t, `{"status":"healthy","database":"connected"}`, resp.Body.String())

	require.NoError(t, conn.Close())

	resp = httptest.NewRecorder()
	r.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/health", nil))
	require.Equal(t, http.StatusServiceUnavailable, resp.Code)
	var body map[string]string
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &body))
	assert.Equal(t, "unhealthy", body["status"])
	assert.Equal(t, "disconnected", body["database"])
	assert.NotEmpty(t, body["error"])
}

func TestTRPCMountAndMetrics(t *testing.T) {
	gin.SetMode(gin.TestMode)
	metrics.Reset()
	t.Cleanup(metrics.Reset)

	var seen string
	r := NewRouter(RouterDeps{
		Config: testConfig(),
		TRPC: func(c *gin.Context) {
			seen = c.Param("path")
			metrics.ObserveProcedure("healthCheck", 1, "")
			c.JSON(http.StatusOK, gin.H{"result": gin.H{"data": "OK"}})
		},
	})

	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/api/trpc/healthCheck", nil))
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Equal(t, "/healthCheck", seen)

	resp = httptest.NewRecorder()
	r.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Contains(t, resp.Body.String(), `trpc_calls_total{path="healthCheck"} 1`)
}

func TestUnknownRouteIsJSON404(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := NewRouter(RouterDeps{Config: testConfig()})

	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/api/v1/documents", nil))
	require.Equal(t, http.StatusNotFound, resp.Code)
	assert.JSONEq(t, `{"error":{"code":"not_found","message":"route not found"}}`, resp.Body.String())
}

func TestAddr(t *testing.T) {
	assert.Equal(t, ":3000", Addr(""))
	assert.Equal(t, ":8080", Addr("8080"))
	assert.Equal(t, ":9000", Addr(":9000"))
}
