package middleware

import (
	"strconv"
	"time"

	"github.com/ErlanBelekov/personen-api/internal/metrics"
	"github.com/gin-gonic/gin"
)

// unmatchedRoute labels requests that hit NoRoute, keeping scanners from
// creating one series per probed path.
const unmatchedRoute = "unmatched"

// Metrics records latency, count and concurrency per route template, so
// /person/:id is a single series regardless of the id.
func Metrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		metrics.HTTPRequestsInFlight.Inc()
		defer metrics.HTTPRequestsInFlight.Dec()

		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = unmatchedRoute
		}
		labels := []string{c.Request.Method, route, strconv.Itoa(c.Writer.Status())}

		metrics.HTTPRequestDuration.WithLabelValues(labels...).Observe(time.Since(start).Seconds())
		metrics.HTTPRequestsTotal.WithLabelValues(labels...).Inc()
	}
}
