package dto

// TokenResponse token-auth 响应
type TokenResponse struct {
	Token  string `json:"token"`
	UserID int64  `json:"user_id"`
	Email  string `json:"email"`
}

// NonFieldErrorResponse 与字段无关的校验错误
type NonFieldErrorResponse struct {
	NonFieldErrors []string `json:"non_field_errors"`
}
