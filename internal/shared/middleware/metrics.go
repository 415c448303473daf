package middleware

import (
	"time"

	"vinyl-collection/internal/infrastructure/metrics"

	"github.com/gin-gonic/gin"
)

// Metrics records request count, latency and in-flight gauge.
// The matched route template is used as the path label.
func Metrics(m *metrics.Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		if m == nil {
			c.Next()
			return
		}

		start := time.Now()
		m.IncRequestsInFlight()
		defer m.DecRequestsInFlight()

		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		m.RecordHTTPRequest(c.Request.Method, path, c.Writer.Status(), time.Since(start))
	}
}
