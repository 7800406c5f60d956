package middleware

import (
	"net"
	"strings"

	"github.com/gin-gonic/gin"
)

const (
	headerXRealIP       = "X-Real-IP"
	headerXForwardedFor = "X-Forwarded-For"
)

// GetClientIP 获取客户端真实 IP
// 优先级：X-Real-IP > X-Forwarded-For 第一个 > RemoteAddr
func GetClientIP(c *gin.Context) string {
	if ip := strings.TrimSpace(c.GetHeader(headerXRealIP)); ip != "" {
		return ip
	}

	if xff := c.GetHeader(headerXForwardedFor); xff != "" {
		first, _, _ := strings.Cut(xff, ",")
		return strings.TrimSpace(first)
	}

	return c.ClientIP()
}

// GetClientIPSafe 获取并校验 IP 格式
func GetClientIPSafe(c *gin.Context) (string, bool) {
	ip := GetClientIP(c)
	if ip == "" || net.ParseIP(ip) == nil {
		return "", false
	}
	return ip, true
}

// ClientIPMiddleware 注入 IP 到 Context
func ClientIPMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("client_ip", GetClientIP(c))
		c.Next()
	}
}

// ClientIPFromGinContext 从 Gin Context 获取 IP
func ClientIPFromGinContext(c *gin.Context) string {
	return c.GetString("client_ip")
}
