package middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/anyulbade/affiliate-analytics-dashboard/internal/metrics"
)

// Metrics records request count and latency by matched route, so path
// parameters do not blow up label cardinality. Unmatched paths share one label.
func Metrics(m *metrics.Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		m.ObserveRequest(c.Request.Method, route, strconv.Itoa(c.Writer.Status()), time.Since(start).Seconds())
	}
}
