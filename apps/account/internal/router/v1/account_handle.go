package v1

import (
	"errors"
	"net/http"

	"SocialServer/apps/account/internal/dto"
	"SocialServer/apps/account/internal/form"
	"SocialServer/apps/account/internal/middleware"
	"SocialServer/apps/account/internal/service"
	"SocialServer/consts"
	"SocialServer/pkg/logger"
	"SocialServer/pkg/result"

	"github.com/gin-gonic/gin"
)

const (
	tplSignup            = "accounts/signup.html"
	tplLogin             = "accounts/login.html"
	tplAbout             = "accounts/about.html"
	tplActivationInvalid = "accounts/activation_invalid.html"

	msgSignupSuccess     = "User registered successfully. Please verify your email."
	msgSignupMailFailed  = "User registered successfully, but the verification email could not be sent. Please contact support."
	msgSignupFailed      = "Something went wrong. Please try again later."
	msgLoginInvalid      = "Invalid username or password."
	msgInvalidCredential = "Unable to log in with provided credentials."
)

// AccountHandler 注册、激活、登录处理器
type AccountHandler struct {
	accountService service.AccountService
	auth           *middleware.Authenticator
}

// NewAccountHandler 创建账号处理器
func NewAccountHandler(accountService service.AccountService, auth *middleware.Authenticator) *AccountHandler {
	return &AccountHandler{
		accountService: accountService,
		auth:           auth,
	}
}

// SignupPage 渲染注册页
func (h *AccountHandler) SignupPage(c *gin.Context) {
	c.HTML(http.StatusOK, tplSignup, gin.H{
		"form":   &form.SignupForm{},
		"errors": map[string]string{},
	})
}

// Signup 注册
// 表单错误与用户名冲突都以 200 重新渲染页面
func (h *AccountHandler) Signup(c *gin.Context) {
	ctx := middleware.NewContextWithGin(c)

	// 1. 绑定并校验表单
	var f form.SignupForm
	if err := c.ShouldBind(&f); err != nil {
		c.HTML(http.StatusOK, tplSignup, gin.H{"form": &f, "errors": map[string]string{}, "message": msgSignupFailed})
		return
	}
	if res := f.Clean(); !res.Valid() {
		c.HTML(http.StatusOK, tplSignup, gin.H{"form": &f, "errors": res.Map()})
		return
	}

	// 2. 调用服务层
	signup, err := h.accountService.Signup(ctx, &f)
	if err != nil {
		if errors.Is(err, service.ErrUsernameTaken) {
			c.HTML(http.StatusOK, tplSignup, gin.H{
				"form":   &f,
				"errors": map[string]string{"username": consts.GetMessage(consts.CodeUserAlreadyExist)},
			})
			return
		}
		logger.Error(ctx, "注册服务内部错误", logger.ErrorField("error", err))
		c.HTML(http.StatusInternalServerError, tplSignup, gin.H{"form": &f, "errors": map[string]string{}, "message": msgSignupFailed})
		return
	}

	// 3. 成功后清空表单
	message := msgSignupSuccess
	if !signup.MailSent {
		message = msgSignupMailFailed
	}
	c.HTML(http.StatusOK, tplSignup, gin.H{
		"form":    &form.SignupForm{},
		"errors":  map[string]string{},
		"message": message,
	})
}

// Activate 邮箱激活
// 成功后写入会话 cookie 并跳转登录页，失败渲染激活失败页
func (h *AccountHandler) Activate(c *gin.Context) {
	ctx := middleware.NewContextWithGin(c)

	user, err := h.accountService.Activate(ctx, c.Param("uid"), c.Param("token"))
	if err != nil {
		status := http.StatusBadRequest
		var bizErr *service.BizError
		if !errors.As(err, &bizErr) || consts.IsServerError(bizErr.Code) {
			logger.Error(ctx, "激活服务内部错误", logger.ErrorField("error", err))
			status = http.StatusInternalServerError
		}
		c.HTML(status, tplActivationInvalid, gin.H{})
		return
	}

	if token, err := h.accountService.SessionToken(user); err == nil {
		h.auth.SetSession(c, token)
	} else {
		logger.Warn(ctx, "激活后签发会话失败", logger.ErrorField("error", err))
	}
	c.Redirect(http.StatusFound, "/login/")
}

// LoginPage 渲染登录页
func (h *AccountHandler) LoginPage(c *gin.Context) {
	c.HTML(http.StatusOK, tplLogin, gin.H{
		"next":     c.Query("next"),
		"username": "",
		"errors":   map[string]string{},
	})
}

// Login 网页登录
func (h *AccountHandler) Login(c *gin.Context) {
	ctx := middleware.NewContextWithGin(c)
	next := c.Query("next")

	var f form.LoginForm
	_ = c.ShouldBind(&f)
	if res := f.Clean(); !res.Valid() {
		c.HTML(http.StatusOK, tplLogin, gin.H{"next": next, "username": f.Username, "errors": res.Map()})
		return
	}

	user, err := h.accountService.Authenticate(ctx, f.Username, f.Password)
	if err != nil {
		if !errors.Is(err, service.ErrInvalidCredentials) && !errors.Is(err, service.ErrInactiveUser) {
			logger.Error(ctx, "登录服务内部错误", logger.ErrorField("error", err))
		}
		c.HTML(http.StatusOK, tplLogin, gin.H{
			"next":     next,
			"username": f.Username,
			"errors":   map[string]string{},
			"message":  msgLoginInvalid,
		})
		return
	}

	token, err := h.accountService.SessionToken(user)
	if err != nil {
		logger.Error(ctx, "签发会话令牌失败", logger.ErrorField("error", err))
		c.HTML(http.StatusInternalServerError, tplLogin, gin.H{"next": next, "username": f.Username, "errors": map[string]string{}, "message": msgSignupFailed})
		return
	}
	h.auth.SetSession(c, token)
	c.Redirect(http.StatusFound, safeRedirect(next, "/about/"))
}

// About 登录后的个人页
func (h *AccountHandler) About(c *gin.Context) {
	ctx := middleware.NewContextWithGin(c)
	userID, _ := middleware.CurrentUserID(c)

	user, err := h.accountService.CurrentUser(ctx, userID)
	if err != nil {
		logger.Error(ctx, "读取当前用户失败", logger.ErrorField("error", err))
		c.String(http.StatusInternalServerError, consts.GetMessage(consts.CodeInternalError))
		return
	}
	if user == nil {
		// 令牌有效但用户已不存在
		c.Redirect(http.StatusFound, "/login/?next=/about/")
		return
	}
	c.HTML(http.StatusOK, tplAbout, gin.H{"user": user})
}

// TokenAuth 用户名密码换取访问令牌
// 支持 JSON 与表单请求体
func (h *AccountHandler) TokenAuth(c *gin.Context) {
	ctx := middleware.NewContextWithGin(c)

	var f form.CredentialsForm
	if err := c.ShouldBind(&f); err != nil {
		result.Fail(c, http.StatusBadRequest, consts.CodeBodyError, "")
		return
	}
	if res := f.Clean(); !res.Valid() {
		fields := make(map[string][]string, len(res.Errors))
		for field, msg := range res.Map() {
			fields[field] = []string{msg}
		}
		result.JSON(c, http.StatusBadRequest, fields)
		return
	}

	tokenResp, err := h.accountService.IssueToken(ctx, f.Username, f.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) || errors.Is(err, service.ErrInactiveUser) {
			result.JSON(c, http.StatusBadRequest, dto.NonFieldErrorResponse{
				NonFieldErrors: []string{msgInvalidCredential},
			})
			return
		}
		failWithError(ctx, c, err, "签发访问令牌服务内部错误")
		return
	}

	result.JSON(c, http.StatusOK, tokenResp)
}
