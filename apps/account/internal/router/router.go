package router

import (
	"html/template"
	"net/http"
	"time"

	"SocialServer/apps/account/internal/middleware"
	v1 "SocialServer/apps/account/internal/router/v1"
	"SocialServer/pkg/util"
	"SocialServer/web"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Handlers 路由依赖的处理器集合
type Handlers struct {
	Account    *v1.AccountHandler
	Friend     *v1.FriendHandler
	Search     *v1.SearchHandler
	Storefront *v1.StorefrontHandler
}

// Options 中间件相关依赖
type Options struct {
	Auth           *middleware.Authenticator
	IPLimiter      *middleware.IPRateLimiter // nil 时不启用 IP 限流
	Templates      *template.Template
	RequestTimeout time.Duration // 0 表示不设置单请求超时
	AllowedOrigins []string
}

// InitRouter 初始化路由
func InitRouter(h Handlers, opts Options) *gin.Engine {
	r := gin.New()
	r.SetHTMLTemplate(opts.Templates)

	// 恢复中间件
	r.Use(middleware.GinRecovery())

	// 追踪中间件 (生成 trace_id)
	r.Use(util.TraceLogger())

	// 客户端 IP 中间件
	r.Use(middleware.ClientIPMiddleware())

	// 日志中间件
	r.Use(middleware.GinLogger())

	// Prometheus 监控中间件
	r.Use(middleware.PrometheusMiddleware())

	// 跨域中间件
	r.Use(middleware.CorsMiddleware(opts.AllowedOrigins))

	// 健康检查与指标不参与限流
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status": "ok",
		})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	app := r.Group("/")
	if opts.IPLimiter != nil {
		app.Use(middleware.IPRateLimitMiddleware(opts.IPLimiter))
	}
	if opts.RequestTimeout > 0 {
		app.Use(middleware.TimeoutMiddleware(opts.RequestTimeout))
	}

	// 账号页面（无需认证）
	{
		app.GET("/signup/", h.Account.SignupPage)
		app.POST("/signup/", h.Account.Signup)
		app.GET("/login/", h.Account.LoginPage)
		app.POST("/login/", h.Account.Login)
		app.GET("/activate/:uid/:token/", h.Account.Activate)
		app.POST("/token-auth/", h.Account.TokenAuth)
	}

	// 需要登录的页面
	app.GET("/about/", opts.Auth.LoginRequired("/login/"), h.Account.About)

	// 需要令牌的 JSON 接口
	api := app.Group("/")
	api.Use(opts.Auth.APIAuth())
	{
		api.GET("/search/", h.Search.Search)
		api.POST("/friend-request/send/:user_id/", h.Friend.Send)
		api.POST("/friend-request/respond/:request_id/:action/", h.Friend.Respond)
		api.GET("/friends/", h.Friend.ListFriends)
		api.GET("/friend-requests/pending/", h.Friend.ListPending)
	}

	// 商城静态页面
	shop := app.Group("/shop")
	for _, name := range web.Pages {
		shop.GET("/"+name+"/", h.Storefront.Page(name))
	}

	return r
}
