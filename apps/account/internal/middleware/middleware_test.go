package middleware

import (
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"SocialServer/config"
	"SocialServer/pkg/logger"
	"SocialServer/pkg/util"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var initMiddlewareTestOnce sync.Once

func initMiddlewareTest() {
	initMiddlewareTestOnce.Do(func() {
		logger.ReplaceGlobal(zap.NewNop())
		gin.SetMode(gin.TestMode)
	})
}

func newTestAuthenticator() (*Authenticator, *util.TokenIssuer) {
	cfg := config.DefaultJWTConfig()
	cfg.Secret = "middleware-test-secret"
	issuer := util.NewTokenIssuer(cfg)
	return NewAuthenticator(issuer, cfg.CookieName, false), issuer
}

func TestAPIAuth(t *testing.T) {
	initMiddlewareTest()
	auth, issuer := newTestAuthenticator()
	token, err := issuer.Generate(42, "a@x.com")
	require.NoError(t, err)

	r := gin.New()
	r.GET("/me", auth.APIAuth(), func(c *gin.Context) {
		id, ok := CurrentUserID(c)
		require.True(t, ok)
		c.JSON(http.StatusOK, gin.H{"id": id})
	})

	tests := []struct {
		name       string
		header     string
		cookie     string
		wantStatus int
		wantBody   string
	}{
		{name: "token scheme", header: "Token " + token, wantStatus: http.StatusOK, wantBody: `{"id":42}`},
		{name: "bearer scheme", header: "Bearer " + token, wantStatus: http.StatusOK, wantBody: `{"id":42}`},
		{name: "session cookie", cookie: token, wantStatus: http.StatusOK, wantBody: `{"id":42}`},
		{name: "missing", wantStatus: http.StatusUnauthorized, wantBody: `"code":20001`},
		{name: "unknown scheme", header: "Basic " + token, wantStatus: http.StatusUnauthorized, wantBody: `"code":20002`},
		{name: "garbage token", header: "Token abc", wantStatus: http.StatusUnauthorized, wantBody: `"code":20002`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/me", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			if tt.cookie != "" {
				req.AddCookie(&http.Cookie{Name: "sessionid", Value: tt.cookie})
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			assert.Equal(t, tt.wantStatus, w.Code)
			assert.Contains(t, w.Body.String(), tt.wantBody)
		})
	}
}

func TestLoginRequiredRedirects(t *testing.T) {
	initMiddlewareTest()
	auth, _ := newTestAuthenticator()

	r := gin.New()
	r.GET("/about/", auth.LoginRequired("/login/"), func(c *gin.Context) {
		c.String(http.StatusOK, "ok")
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/about/?tab=1", nil))

	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/login/?next=/about/%3Ftab%3D1", w.Header().Get("Location"))
}

func TestSetSession(t *testing.T) {
	initMiddlewareTest()
	auth, _ := newTestAuthenticator()

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/login/", nil)
	auth.SetSession(c, "tok")

	cookie := w.Header().Get("Set-Cookie")
	assert.Contains(t, cookie, "sessionid=tok")
	assert.Contains(t, cookie, "HttpOnly")
	assert.Contains(t, cookie, "SameSite=Lax")
}

func TestGetClientIP(t *testing.T) {
	initMiddlewareTest()

	tests := []struct {
		name    string
		headers map[string]string
		want    string
	}{
		{name: "x-real-ip wins", headers: map[string]string{"X-Real-IP": "1.1.1.1", "X-Forwarded-For": "2.2.2.2"}, want: "1.1.1.1"},
		{name: "first forwarded", headers: map[string]string{"X-Forwarded-For": "3.3.3.3, 4.4.4.4"}, want: "3.3.3.3"},
		{name: "remote addr", want: "192.0.2.1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _ := gin.CreateTestContext(httptest.NewRecorder())
			c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
			for k, v := range tt.headers {
				c.Request.Header.Set(k, v)
			}
			assert.Equal(t, tt.want, GetClientIP(c))
		})
	}
}

func TestIPRateLimitLocalFallback(t *testing.T) {
	initMiddlewareTest()
	limiter, err := NewIPRateLimiter(nil, 0.001, 2, 16)
	require.NoError(t, err)

	r := gin.New()
	r.Use(IPRateLimitMiddleware(limiter))
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("X-Real-IP", "10.0.0.1")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		codes = append(codes, w.Code)
	}
	assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, codes)

	// 不同 IP 使用独立的桶
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Real-IP", "10.0.0.2")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestCorsPreflight(t *testing.T) {
	initMiddlewareTest()
	r := gin.New()
	r.Use(CorsMiddleware([]string{"https://shop.example.com"}))
	r.POST("/x", func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodOptions, "/x", nil)
	req.Header.Set("Origin", "https://shop.example.com")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "https://shop.example.com", w.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodOptions, "/x", nil)
	req.Header.Set("Origin", "https://evil.example.com")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
}

func TestTimeoutMiddleware(t *testing.T) {
	initMiddlewareTest()
	r := gin.New()
	r.Use(TimeoutMiddleware(10 * time.Millisecond))
	r.GET("/slow", func(c *gin.Context) {
		<-c.Request.Context().Done()
	})
	r.GET("/fast", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/slow", nil))
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Contains(t, w.Body.String(), `"code":30003`)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/fast", nil))
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestGinRecovery(t *testing.T) {
	initMiddlewareTest()
	r := gin.New()
	r.Use(GinRecovery())
	r.GET("/boom", func(c *gin.Context) { panic("boom") })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/boom", nil))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), `"code":30001`)
}
