package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"resume-viewer/internal/services/health"
	"resume-viewer/internal/shared/config"
	"resume-viewer/internal/shared/metrics"
	"resume-viewer/internal/shared/server/middleware"
	"resume-viewer/internal/shared/server/respond"
	"resume-viewer/internal/shared/telemetry"
	"resume-viewer/internal/trpc"
)

// RouterDeps holds the handlers mounted on the HTTP edge.
type RouterDeps struct {
	Config config.Config
	TRPC   gin.HandlerFunc
	Health *health.Service
}

// NewRouter constructs the Gin engine with middleware and routes registered.
func NewRouter(deps RouterDeps) *gin.Engine {
	if !config.IsDevLike(deps.Config.Env) {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()

	r.Use(
		middleware.RequestID(),
		middleware.Logging(),
		middleware.Recovery(),
		middleware.CORS(deps.Config.CORSOrigin),
	)

	r.GET("/", func(c *gin.Context) {
		c.String(http.StatusOK, "OK")
	})
	r.GET("/health", healthHandler(deps.Health))
	r.GET("/metrics", metrics.Handler())
	if deps.TRPC != nil {
		r.Any(trpc.PathPrefix+"/*path", deps.TRPC)
	}

	r.NoRoute(func(c *gin.Context) {
		respond.Error(c, http.StatusNotFound, "not_found", "route not found", nil)
	})

	return r
}

func healthHandler(svc *health.Service) gin.HandlerFunc {
	if svc == nil {
		svc = health.NewService(nil)
	}
	return func(c *gin.Context) {
		status, err := svc.Check(c.Request.Context())
		if err != nil {
			telemetry.Error("health.check_failed", map[string]any{
				"request_id": middleware.RequestIDFromContext(c),
				"error":      err.Error(),
			})
			respond.JSON(c, http.StatusServiceUnavailable, status)
			return
		}
		respond.OK(c, status)
	}
}

// Addr normalizes the listen address.
func Addr(port string) string {
	if port == "" {
		return ":3000"
	}
	if port[0] == ':' {
		return port
	}
	return ":" + port
}
