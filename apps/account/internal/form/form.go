package form

import (
	"errors"
	"fmt"
	"html"
	"reflect"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"
	"github.com/microcosm-cc/bluemonday"
)

// FieldError 单个字段的校验错误，Field 使用表单字段名
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationResult 表单校验结果
type ValidationResult struct {
	Errors []FieldError `json:"errors"`
}

// Valid 是否无错误
func (r *ValidationResult) Valid() bool { return len(r.Errors) == 0 }

// Add 追加字段错误
func (r *ValidationResult) Add(field, message string) {
	r.Errors = append(r.Errors, FieldError{Field: field, Message: message})
}

// Map 每个字段保留第一条错误，供页面渲染与 JSON 响应
func (r *ValidationResult) Map() map[string]string {
	out := make(map[string]string, len(r.Errors))
	for _, e := range r.Errors {
		if _, ok := out[e.Field]; !ok {
			out[e.Field] = e.Message
		}
	}
	return out
}

const (
	msgRequired         = "This field is required."
	msgInvalidEmail     = "Enter a valid email address."
	msgInvalidUsername  = "Enter a valid username. This value may contain only letters, numbers, and @/./+/-/_ characters."
	msgPasswordMismatch = "The two password fields didn't match."
	msgInvalid          = "Enter a valid value."
)

var (
	validate  *validator.Validate
	sanitizer = bluemonday.StrictPolicy()

	usernamePattern = regexp.MustCompile(`^[\p{L}\p{N}_.@+-]+$`)
)

func init() {
	validate = validator.New(validator.WithRequiredStructEnabled())

	// 错误中使用表单字段名而不是 Go 字段名
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("form"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})

	_ = validate.RegisterValidation("username", func(fl validator.FieldLevel) bool {
		return usernamePattern.MatchString(fl.Field().String())
	})
}

// Validator 返回包内共享的校验器，供 gin binding 复用
func Validator() *validator.Validate { return validate }

// SignupForm 注册表单
type SignupForm struct {
	Username  string `form:"username" json:"username" validate:"required,max=150,username"`
	FirstName string `form:"first_name" json:"first_name" validate:"required,max=150"`
	LastName  string `form:"last_name" json:"last_name" validate:"required,max=150"`
	Mobile    string `form:"mobile" json:"mobile" validate:"required,max=15"`
	Email     string `form:"email" json:"email" validate:"required,max=254,email"`
	Password1 string `form:"password1" json:"password1" validate:"required"`
	Password2 string `form:"password2" json:"password2" validate:"required,eqfield=Password1"`
}

// Clean 规范化字段并校验。姓名去除 HTML 后再参与校验。
func (f *SignupForm) Clean() ValidationResult {
	f.Username = strings.TrimSpace(f.Username)
	f.FirstName = stripHTML(f.FirstName)
	f.LastName = stripHTML(f.LastName)
	f.Mobile = strings.TrimSpace(f.Mobile)
	f.Email = normalizeEmail(f.Email)
	return check(f)
}

// LoginForm 网页登录表单
type LoginForm struct {
	Username string `form:"username" json:"username" validate:"required,max=30"`
	Password string `form:"password" json:"password" validate:"required"`
}

// Clean 校验登录表单
func (f *LoginForm) Clean() ValidationResult {
	f.Username = strings.TrimSpace(f.Username)
	return check(f)
}

// CredentialsForm token-auth 请求体，支持 JSON 与表单
type CredentialsForm struct {
	Username string `form:"username" json:"username" validate:"required"`
	Password string `form:"password" json:"password" validate:"required"`
}

// Clean 校验凭据
func (f *CredentialsForm) Clean() ValidationResult {
	f.Username = strings.TrimSpace(f.Username)
	return check(f)
}

func check(s interface{}) ValidationResult {
	var result ValidationResult
	err := validate.Struct(s)
	if err == nil {
		return result
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		result.Add("__all__", msgInvalid)
		return result
	}
	for _, fe := range verrs {
		result.Add(fe.Field(), messageFor(fe))
	}
	return result
}

func messageFor(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return msgRequired
	case "max":
		return fmt.Sprintf("Ensure this value has at most %s characters (it has %d).",
			fe.Param(), utf8.RuneCountInString(fe.Value().(string)))
	case "email":
		return msgInvalidEmail
	case "username":
		return msgInvalidUsername
	case "eqfield":
		return msgPasswordMismatch
	}
	return msgInvalid
}

// stripHTML 去掉所有标签；bluemonday 会转义实体，这里还原为原文
func stripHTML(s string) string {
	return strings.TrimSpace(html.UnescapeString(sanitizer.Sanitize(s)))
}

// normalizeEmail 域名部分转小写
func normalizeEmail(email string) string {
	email = strings.TrimSpace(email)
	at := strings.LastIndex(email, "@")
	if at < 0 {
		return email
	}
	return email[:at] + "@" + strings.ToLower(email[at+1:])
}
