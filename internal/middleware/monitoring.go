package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/loki1512/MS-Fitness-Gym/internal/metrics"

	"github.com/gin-gonic/gin"
	gorillaHandlers "github.com/gorilla/handlers"
)

// MetricsMiddleware records request counts and latency per route template, so
// ids in paths do not explode label cardinality.
func MetricsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		metrics.HTTPRequestsTotal.WithLabelValues(route, c.Request.Method, strconv.Itoa(c.Writer.Status())).Inc()
		metrics.HTTPRequestDuration.WithLabelValues(route, c.Request.Method).Observe(time.Since(start).Seconds())
	}
}

// MetricsAuth guards /metrics with basic auth. Without a username the
// endpoint is open.
func MetricsAuth(username, password string) gin.HandlerFunc {
	if username == "" {
		return func(c *gin.Context) { c.Next() }
	}
	return gin.BasicAuthForRealm(gin.Accounts{username: password}, "Metrics")
}

// CORS wraps the whole server handler so preflight requests are answered
// before routing.
func CORS(allowedOrigins []string) func(http.Handler) http.Handler {
	return gorillaHandlers.CORS(
		gorillaHandlers.AllowedOrigins(allowedOrigins),
		gorillaHandlers.AllowedMethods([]string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}),
		gorillaHandlers.AllowedHeaders([]string{"Content-Type", "Authorization", requestIDHeader}),
		gorillaHandlers.ExposedHeaders([]string{"Content-Length", requestIDHeader}),
	)
}
