package middleware

import (
	"strconv"
	"time"

	"SocialServer/pkg/metrics"

	"github.com/gin-gonic/gin"
)

// PrometheusMiddleware 记录请求数与耗时，path 使用路由模板避免标签爆炸
func PrometheusMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		metrics.ObserveHTTP(c.Request.Method, path, strconv.Itoa(c.Writer.Status()), time.Since(start))
	}
}
