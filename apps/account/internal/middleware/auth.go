package middleware

import (
	"errors"
	"net/http"
	"net/url"
	"strings"

	"SocialServer/consts"
	"SocialServer/pkg/result"
	"SocialServer/pkg/util"

	"github.com/gin-gonic/gin"
)

// ctxKeyUserID 当前用户 id 在 gin.Context / request context 中的 key
const ctxKeyUserID = "user_id"

// Authenticator 解析访问令牌（Authorization 头或会话 cookie）
type Authenticator struct {
	issuer     *util.TokenIssuer
	cookieName string
	secure     bool
}

// NewAuthenticator 创建认证器
// secure: 会话 cookie 是否只在 HTTPS 下发送
func NewAuthenticator(issuer *util.TokenIssuer, cookieName string, secure bool) *Authenticator {
	return &Authenticator{issuer: issuer, cookieName: cookieName, secure: secure}
}

// errNoCredentials 请求未携带任何凭据
var errNoCredentials = errors.New("no credentials")

// extract 依次尝试 Authorization 头（Token / Bearer）和会话 cookie
func (a *Authenticator) extract(c *gin.Context) (string, error) {
	if header := c.GetHeader("Authorization"); header != "" {
		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || (parts[0] != "Token" && parts[0] != "Bearer") || strings.TrimSpace(parts[1]) == "" {
			return "", util.ErrTokenInvalid
		}
		return strings.TrimSpace(parts[1]), nil
	}
	if cookie, err := c.Cookie(a.cookieName); err == nil && cookie != "" {
		return cookie, nil
	}
	return "", errNoCredentials
}

// resolve 解析令牌得到用户 id
func (a *Authenticator) resolve(c *gin.Context) (int64, error) {
	token, err := a.extract(c)
	if err != nil {
		return 0, err
	}
	claims, err := a.issuer.Parse(token)
	if err != nil {
		return 0, err
	}
	userID, err := claims.UserID()
	if err != nil || userID <= 0 {
		return 0, util.ErrTokenInvalid
	}
	return userID, nil
}

// APIAuth JSON 接口认证，失败返回 401
func (a *Authenticator) APIAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, err := a.resolve(c)
		if err != nil {
			// 客户端凭据问题，属于正常业务流程，不记录日志
			var code int32 = consts.CodeInvalidToken
			switch {
			case errors.Is(err, errNoCredentials):
				code = consts.CodeUnauthorized
			case errors.Is(err, util.ErrTokenExpired):
				code = consts.CodeTokenExpired
			}
			result.AbortFail(c, http.StatusUnauthorized, code, "")
			return
		}
		setCurrentUser(c, userID)
		c.Next()
	}
}

// nextEscaper next 参数中保留 "/" 便于阅读
var nextEscaper = strings.NewReplacer("%2F", "/")

// LoginRequired 页面认证，未登录时重定向到登录页并带上 next
func (a *Authenticator) LoginRequired(loginURL string) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, err := a.resolve(c)
		if err != nil {
			target := loginURL + "?next=" + nextEscaper.Replace(url.QueryEscape(c.Request.URL.RequestURI()))
			c.Redirect(http.StatusFound, target)
			c.Abort()
			return
		}
		setCurrentUser(c, userID)
		c.Next()
	}
}

// SetSession 登录成功后写入会话 cookie
func (a *Authenticator) SetSession(c *gin.Context, token string) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(a.cookieName, token, int(a.issuer.TTL().Seconds()), "/", "", a.secure, true)
}

func setCurrentUser(c *gin.Context, userID int64) {
	c.Set(ctxKeyUserID, userID)
}

// CurrentUserID 从 Context 中获取当前登录用户 id
func CurrentUserID(c *gin.Context) (int64, bool) {
	v, exists := c.Get(ctxKeyUserID)
	if !exists {
		return 0, false
	}
	id, ok := v.(int64)
	return id, ok
}
