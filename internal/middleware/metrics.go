package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/user/radiodex/internal/metrics"
)

// Metrics 记录请求数、耗时与并发数
func Metrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		metrics.TrackActiveRequest(true)
		defer metrics.TrackActiveRequest(false)

		start := time.Now()
		c.Next()

		metrics.RecordAPIRequest(c.Request.Method, c.FullPath(), c.Writer.Status(), time.Since(start))
	}
}
