package middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/xiebiao/shopmall/pkg/metrics"
)

// Metrics HTTP请求指标中间件
// path维度用路由模板（/api/v1/orders/:order_no）而非实际URL，避免标签爆炸
func Metrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}

		metrics.IncCounterVec(metrics.HTTPRequestsTotal, map[string]string{
			"method": c.Request.Method,
			"path":   path,
			"status": strconv.Itoa(c.Writer.Status()),
		})
		if metrics.HTTPRequestDuration != nil {
			metrics.HTTPRequestDuration.
				WithLabelValues(c.Request.Method, path).
				Observe(time.Since(start).Seconds())
		}
	}
}
