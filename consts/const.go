package consts

// 通用错误码
const (
	CodeSuccess = 0 // 成功
)

// 客户端错误 (1xxxx)
const (
	CodeParamError       = 10001 // 参数验证失败
	CodeBodyError        = 10002 // 请求体格式错误
	CodeResourceNotFound = 10003 // 资源不存在
	CodeMethodNotAllowed = 10004 // 请求方法不允许
	CodeTooManyRequests  = 10005 // 请求过于频繁
	CodeInvalidPage      = 10007 // 页码无效
	CodeForbidden        = 10008 // 访问被禁止
)

// 认证错误 (2xxxx)
const (
	CodeUnauthorized       = 20001 // 未认证
	CodeInvalidToken       = 20002 // Token 无效
	CodeTokenExpired       = 20003 // Token 已过期
	CodeInvalidCredentials = 20005 // 用户名或密码错误
)

// 用户模块错误 (11xxx)
const (
	CodeUserNotFound       = 11001 // 用户不存在
	CodeUserAlreadyExist   = 11002 // 用户已存在
	CodeUserInactive       = 11004 // 用户未激活
	CodeActivationInvalid  = 11008 // 激活链接无效或已过期
	CodeVerifyMailSendFail = 11009 // 验证邮件发送失败
)

// 好友模块错误 (12xxx)
const (
	CodeFriendRequestExists   = 12002 // 好友申请已存在
	CodeFriendRequestNotFound = 12005 // 好友申请不存在
	CodeSelfFriendRequest     = 12006 // 不能向自己发送好友申请
	CodeInvalidAction         = 12007 // 不支持的处理动作
	CodeFriendRequestDone     = 12008 // 好友申请已被处理
)

// 服务端错误 (3xxxx)
const (
	CodeInternalError      = 30001 // 服务器内部错误
	CodeServiceUnavailable = 30002 // 服务暂不可用
	CodeTimeoutError       = 30003 // 请求处理超时
)

// 错误消息映射（面向客户端，保持英文）
var CodeMessage = map[int32]string{
	CodeSuccess: "success",

	// 客户端错误
	CodeParamError:       "Invalid parameters.",
	CodeBodyError:        "Malformed request body.",
	CodeResourceNotFound: "Not found.",
	CodeMethodNotAllowed: "Method not allowed.",
	CodeTooManyRequests:  "Request was throttled.",
	CodeInvalidPage:      "Invalid page.",
	CodeForbidden:        "Access denied.",

	// 认证错误
	CodeUnauthorized:       "Authentication credentials were not provided.",
	CodeInvalidToken:       "Invalid token.",
	CodeTokenExpired:       "Token has expired.",
	CodeInvalidCredentials: "Unable to log in with provided credentials.",

	// 用户模块
	CodeUserNotFound:       "User not found.",
	CodeUserAlreadyExist:   "A user with that username already exists.",
	CodeUserInactive:       "User account is disabled.",
	CodeActivationInvalid:  "Activation link is invalid or has expired.",
	CodeVerifyMailSendFail: "Verification email could not be sent.",

	// 好友模块
	CodeFriendRequestExists:   "Friend request already sent.",
	CodeFriendRequestNotFound: "Friend request not found.",
	CodeSelfFriendRequest:     "You cannot send a friend request to yourself.",
	CodeInvalidAction:         "Invalid action.",
	CodeFriendRequestDone:     "Friend request has already been responded to.",

	// 服务端错误
	CodeInternalError:      "Internal server error.",
	CodeServiceUnavailable: "Service temporarily unavailable.",
	CodeTimeoutError:       "Request timed out.",
}

// GetMessage 根据错误码获取错误消息
func GetMessage(code int32) string {
	if msg, ok := CodeMessage[code]; ok {
		return msg
	}
	return "Unknown error."
}

// IsServerError 判断是否为服务端错误码
func IsServerError(code int32) bool {
	return code >= 30000 && code < 40000
}
