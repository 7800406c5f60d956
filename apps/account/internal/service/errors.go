package service

import (
	"net/http"

	"SocialServer/consts"
)

// BizError 业务错误，Handler 层通过 errors.As 取出错误码与 HTTP 状态
type BizError struct {
	Code       int32
	HTTPStatus int
	Message    string
}

func (e *BizError) Error() string { return e.Message }

func newBizError(code int32, httpStatus int) *BizError {
	return &BizError{Code: code, HTTPStatus: httpStatus, Message: consts.GetMessage(code)}
}

var (
	// ==================== 好友申请 ====================

	// ErrSelfRequest 向自己发送申请
	ErrSelfRequest = newBizError(consts.CodeSelfFriendRequest, http.StatusBadRequest)
	// ErrAlreadyExists 同一有序对的申请已存在
	ErrAlreadyExists = newBizError(consts.CodeFriendRequestExists, http.StatusBadRequest)
	// ErrNotFound 好友申请不存在
	ErrNotFound = newBizError(consts.CodeFriendRequestNotFound, http.StatusNotFound)
	// ErrInvalidAction action 不是 accept / reject
	ErrInvalidAction = newBizError(consts.CodeInvalidAction, http.StatusBadRequest)
	// ErrAlreadyResponded 申请已被处理为另一种状态
	ErrAlreadyResponded = newBizError(consts.CodeFriendRequestDone, http.StatusBadRequest)
	// ErrRateLimited 发送过于频繁
	ErrRateLimited = newBizError(consts.CodeTooManyRequests, http.StatusTooManyRequests)

	// ==================== 用户与账号 ====================

	// ErrUserNotFound 目标用户不存在（发送申请时返回 400）
	ErrUserNotFound = newBizError(consts.CodeUserNotFound, http.StatusBadRequest)
	// ErrUsernameTaken 用户名已被占用
	ErrUsernameTaken = newBizError(consts.CodeUserAlreadyExist, http.StatusBadRequest)
	// ErrInvalidToken 激活令牌无效或过期
	ErrInvalidToken = newBizError(consts.CodeActivationInvalid, http.StatusBadRequest)
	// ErrInvalidCredentials 用户名或密码错误
	ErrInvalidCredentials = newBizError(consts.CodeInvalidCredentials, http.StatusBadRequest)
	// ErrInactiveUser 账号未激活
	ErrInactiveUser = newBizError(consts.CodeUserInactive, http.StatusBadRequest)

	// ==================== 通用 ====================

	// ErrInvalidPage 页码超出范围
	ErrInvalidPage = newBizError(consts.CodeInvalidPage, http.StatusNotFound)
	// ErrInternal 系统内部错误
	ErrInternal = newBizError(consts.CodeInternalError, http.StatusInternalServerError)
)
