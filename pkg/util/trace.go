package util

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const HeaderXRequestID = "X-Request-ID"

// TraceLogger 追踪中间件，生成或获取 trace_id 并存入 Gin 上下文与请求 context
func TraceLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		// 1. 尝试从请求头拿（Nginx 透传）；超长的外部 id 直接丢弃
		traceId := c.GetHeader(HeaderXRequestID)
		if len(traceId) > 64 {
			traceId = ""
		}

		// 2. 如果没有，自己生成一个
		if traceId == "" {
			traceId = NewUUID()
		}

		// 3. 放入 Gin 上下文和 request context，供 Handler、Service 日志使用
		c.Set("trace_id", traceId)
		c.Request = c.Request.WithContext(context.WithValue(c.Request.Context(), "trace_id", traceId))

		// 4. 放入响应头，方便客户端拿着 ID 排查问题
		c.Header(HeaderXRequestID, traceId)

		c.Next()
	}
}

// NewUUID 生成新的 UUID
func NewUUID() string {
	return uuid.New().String()
}
