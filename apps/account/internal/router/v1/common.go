package v1

import (
	"context"
	"errors"
	"net/http"
	"net/url"

	"SocialServer/apps/account/internal/service"
	"SocialServer/consts"
	"SocialServer/pkg/logger"
	"SocialServer/pkg/result"

	"github.com/gin-gonic/gin"
)

// failWithError 业务错误按错误码返回，其余视为内部错误并记录日志
func failWithError(ctx context.Context, c *gin.Context, err error, logMsg string) {
	var bizErr *service.BizError
	if errors.As(err, &bizErr) && !consts.IsServerError(bizErr.Code) {
		// 业务错误由客户端输入导致，不记录日志
		result.Fail(c, bizErr.HTTPStatus, bizErr.Code, "")
		return
	}

	logger.Error(ctx, logMsg, logger.ErrorField("error", err))
	result.Fail(c, http.StatusInternalServerError, consts.CodeInternalError, "")
}

// requestURL 还原当前请求的绝对地址，用于分页链接
func requestURL(c *gin.Context) *url.URL {
	scheme := "http"
	if c.Request.TLS != nil {
		scheme = "https"
	}
	if proto := c.GetHeader("X-Forwarded-Proto"); proto == "http" || proto == "https" {
		scheme = proto
	}
	return &url.URL{
		Scheme:   scheme,
		Host:     c.Request.Host,
		Path:     c.Request.URL.Path,
		RawQuery: c.Request.URL.RawQuery,
	}
}

// safeRedirect 只允许站内相对路径，防止开放重定向
func safeRedirect(next, fallback string) string {
	if next == "" || next[0] != '/' || (len(next) > 1 && (next[1] == '/' || next[1] == '\\')) {
		return fallback
	}
	return next
}
