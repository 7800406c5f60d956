package middleware

import (
	"context"
	"net/http"
	"runtime/debug"
	"time"

	"SocialServer/consts"
	"SocialServer/pkg/logger"
	"SocialServer/pkg/result"

	"github.com/gin-gonic/gin"
)

// NewContextWithGin 从 gin.Context 创建包含 trace_id、user_id、client_ip 的 context.Context
// 用于将 Gin 上下文中的字段传递到日志系统与下游调用
func NewContextWithGin(c *gin.Context) context.Context {
	ctx := c.Request.Context()
	if traceId, exists := c.Get("trace_id"); exists {
		ctx = context.WithValue(ctx, "trace_id", traceId)
	}
	if userID, exists := c.Get(ctxKeyUserID); exists {
		ctx = context.WithValue(ctx, "user_id", userID)
	}
	if clientIP, exists := c.Get("client_ip"); exists {
		ctx = context.WithValue(ctx, "client_ip", clientIP)
	}
	return ctx
}

// GinLogger 请求日志
func GinLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		query := c.Request.URL.RawQuery
		clientIP := ClientIPFromGinContext(c)
		if clientIP == "" {
			clientIP = c.ClientIP()
		}

		logger.Debug(NewContextWithGin(c), "请求开始",
			logger.String("method", c.Request.Method),
			logger.String("path", path),
			logger.String("query", query),
			logger.String("ip", clientIP),
		)

		c.Next()

		cost := time.Since(start)
		status := c.Writer.Status()

		// 只记录服务端错误(5xx)和慢请求(>2s)
		if status >= 500 || cost > 2*time.Second {
			logger.Warn(NewContextWithGin(c), "慢请求或服务端错误",
				logger.Int("status", status),
				logger.String("method", c.Request.Method),
				logger.String("path", path),
				logger.String("query", query),
				logger.String("ip", clientIP),
				logger.String("user-agent", c.Request.UserAgent()),
				logger.String("errors", c.Errors.ByType(gin.ErrorTypePrivate).String()),
				logger.Duration("cost", cost),
			)
		}
	}
}

// GinRecovery 捕获 panic，记录堆栈并返回 500
func GinRecovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				logger.Error(NewContextWithGin(c), "请求处理 panic",
					logger.Any("panic", r),
					logger.String("path", c.Request.URL.Path),
					logger.String("stack", string(debug.Stack())),
				)
				if !c.Writer.Written() {
					result.AbortFail(c, http.StatusInternalServerError, consts.CodeInternalError, "")
					return
				}
				c.Abort()
			}
		}()
		c.Next()
	}
}
