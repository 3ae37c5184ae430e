package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-chi/cors"
)

// CORS allows cross-origin calls from a single origin with GET, POST and
// OPTIONS. Preflight requests are answered without reaching the routes.
func CORS(origin string) gin.HandlerFunc {
	var origins []string
	if trimmed := strings.TrimSpace(origin); trimmed != "" {
		origins = []string{trimmed}
	}
	policy := cors.New(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders:   []string{"Accept", "Content-Type", "X-Request-Id", "trpc-accept"},
		ExposedHeaders:   []string{"X-Request-Id"},
		AllowCredentials: false,
		MaxAge:           600,
	})

	return func(c *gin.Context) {
		passed := false
		policy.Handler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			passed = true
			c.Request = r
			c.Next()
		})).ServeHTTP(c.Writer, c.Request)

		if !passed {
			c.Writer.WriteHeaderNow()
			c.Abort()
		}
	}
}
