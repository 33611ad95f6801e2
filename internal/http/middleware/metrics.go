package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"herald.app/relay/internal/obs"
)

// unmatchedRoute labels requests that hit no route, keeping label cardinality bounded.
const unmatchedRoute = "unmatched"

// Metrics records request counts and latencies per route template. It must run
// outside Recovery so panicking requests are counted as 500s.
func Metrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		obs.HTTPStarted()

		c.Next()

		route := c.FullPath()
		if route == "" {
			route = unmatchedRoute
		}
		obs.HTTPFinished(c.Request.Method, route, c.Writer.Status(), time.Since(start))
	}
}
