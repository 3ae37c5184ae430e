package web

import (
	"embed"
	"html/template"
	"net/http"

	"github.com/gin-gonic/gin"

	"resume-viewer/internal/shared/server/middleware"
	"resume-viewer/internal/shared/telemetry"
)

//go:embed templates/*.html
var templateFiles embed.FS

var page = template.Must(template.ParseFS(templateFiles, "templates/*.html"))

// Handler renders the resume list page. The loading indicator is flushed
// first; the resolved section follows once the list call returns and hides it.
func Handler(lister Lister) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Content-Type", "text/html; charset=utf-8")
		c.Status(http.StatusOK)

		w := c.Writer
		if err := page.ExecuteTemplate(w, "head", nil); err != nil {
			renderFailed(c, err)
			return
		}
		if err := page.ExecuteTemplate(w, "loading", Loading()); err != nil {
			renderFailed(c, err)
			return
		}
		w.Flush()

		items, err := lister.List(c.Request.Context())
		view := Resolve(items, err)
		if err != nil {
			telemetry.Warn("web.list_failed", map[string]any{
				"request_id": middleware.RequestIDFromContext(c),
				"error":      err.Error(),
			})
		}

		if err := page.ExecuteTemplate(w, "result", view); err != nil {
			renderFailed(c, err)
			return
		}
		if err := page.ExecuteTemplate(w, "tail", nil); err != nil {
			renderFailed(c, err)
		}
	}
}

func renderFailed(c *gin.Context, err error) {
	telemetry.Error("web.render_failed", map[string]any{
		"request_id": middleware.RequestIDFromContext(c),
		"error":      err.Error(),
	})
	_ = c.Error(err)
}

// NewRouter builds the client view server.
func NewRouter(lister Lister) *gin.Engine {
	r := gin.New()
	r.Use(middleware.RequestID(), middleware.Logging(), middleware.Recovery())
	r.GET("/", Handler(lister))
	r.GET("/healthz", func(c *gin.Context) { c.String(http.StatusOK, "OK") })
	return r
}
