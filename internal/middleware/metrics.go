package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"barangay-projects-api/internal/metrics"
)

// Metrics returns a middleware that records HTTP metrics. Operational
// endpoints at the root or under basePath are skipped.
func Metrics(m *metrics.Metrics, basePath string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if metrics.ShouldSkipEndpoint(c.Request.URL.Path, basePath) {
			c.Next()
			return
		}

		start := time.Now()
		c.Next()

		// Route pattern, not the concrete path
		endpoint := c.FullPath()
		if endpoint == "" {
			endpoint = "unmatched"
		}
		m.RecordHTTPRequest(c.Request.Method, endpoint, c.Writer.Status(), time.Since(start))
	}
}
