package result

import (
	"net/http"

	"SocialServer/consts"

	"github.com/gin-gonic/gin"
)

// MessageResponse 成功提示响应，如 {"message": "Friend request sent."}
type MessageResponse struct {
	Message string `json:"message"`
}

// ErrorResponse 失败响应
type ErrorResponse struct {
	Error   string            `json:"error"`
	Code    int32             `json:"code"`
	Fields  map[string]string `json:"fields,omitempty"` // 字段级校验错误
	TraceId string            `json:"trace_id,omitempty"`
}

// Page 分页响应
type Page[T any] struct {
	Count    int64   `json:"count"`
	Next     *string `json:"next"`
	Previous *string `json:"previous"`
	Results  []T     `json:"results"`
}

// JSON 原样返回数据
func JSON(c *gin.Context, status int, data interface{}) {
	c.JSON(status, data)
}

// Message 返回提示消息
func Message(c *gin.Context, status int, message string) {
	c.JSON(status, MessageResponse{Message: message})
}

// Fail 返回失败响应，message 为空时使用错误码默认消息
func Fail(c *gin.Context, status int, code int32, message string) {
	if message == "" {
		message = consts.GetMessage(code)
	}
	c.JSON(status, ErrorResponse{
		Error:   message,
		Code:    code,
		TraceId: c.GetString("trace_id"),
	})
}

// FailWithFields 返回字段校验失败响应
func FailWithFields(c *gin.Context, fields map[string]string) {
	c.JSON(http.StatusBadRequest, ErrorResponse{
		Error:   consts.GetMessage(consts.CodeParamError),
		Code:    consts.CodeParamError,
		Fields:  fields,
		TraceId: c.GetString("trace_id"),
	})
}

// AbortFail 返回失败响应并中断后续中间件
func AbortFail(c *gin.Context, status int, code int32, message string) {
	Fail(c, status, code, message)
	c.Abort()
}
