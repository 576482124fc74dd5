package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/hanbyul/storefront-backend/internal/metrics"
)

// MetricsMiddleware records request counts and latency per route. The
// route template is used as the path label so IDs do not explode the
// label cardinality.
func MetricsMiddleware(collector *metrics.Collector) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		collector.RecordHTTPRequest(c.Request.Method, path, c.Writer.Status(), time.Since(start))
	}
}
