package middleware

import (
	"context"
	"errors"
	"net/http"
	"time"

	"SocialServer/consts"
	"SocialServer/pkg/logger"
	"SocialServer/pkg/result"

	"github.com/gin-gonic/gin"
)

// TimeoutMiddleware 请求超时控制
// 不开启 Goroutine，依赖下游（gorm / redis / smtp）感知 Context 超时
func TimeoutMiddleware(timeout time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), timeout)
		defer cancel()

		c.Request = c.Request.WithContext(ctx)
		c.Next()

		// Handler 已经写出响应时不再介入
		if errors.Is(ctx.Err(), context.DeadlineExceeded) && !c.Writer.Written() {
			logger.Warn(NewContextWithGin(c), "请求处理超时",
				logger.String("path", c.Request.URL.Path),
				logger.Duration("timeout", timeout),
			)
			result.Fail(c, http.StatusServiceUnavailable, consts.CodeTimeoutError, "")
		}
	}
}
