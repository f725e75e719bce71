package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
)

// RequestRecorder records the outcome of a served request.
type RequestRecorder interface {
	ObserveRequest(method, route string, status int, elapsed time.Duration)
}

// RequestMetrics reports each request to recorder, labelled by its route
// template so ids do not explode label cardinality.
func RequestMetrics(recorder RequestRecorder) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		recorder.ObserveRequest(c.Request.Method, route, c.Writer.Status(), time.Since(start))
	}
}
