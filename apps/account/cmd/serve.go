package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"SocialServer/apps/account/internal/activation"
	"SocialServer/apps/account/internal/middleware"
	"SocialServer/apps/account/internal/notify"
	"SocialServer/apps/account/internal/repository"
	"SocialServer/apps/account/internal/router"
	v1 "SocialServer/apps/account/internal/router/v1"
	"SocialServer/apps/account/internal/service"
	"SocialServer/config"
	"SocialServer/pkg/async"
	"SocialServer/pkg/idgen"
	"SocialServer/pkg/logger"
	"SocialServer/pkg/metrics"
	"SocialServer/pkg/mysql"
	pkgredis "SocialServer/pkg/redis"
	"SocialServer/pkg/util"
	"SocialServer/web"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(configPath)
		if err != nil {
			return err
		}
		return serve(cfg)
	},
}

func serve(cfg *config.Config) error {
	ctx := context.Background()

	// 1. 初始化日志
	zl, err := logger.Build(cfg.Logger)
	if err != nil {
		return fmt.Errorf("初始化日志失败: %w", err)
	}
	logger.ReplaceGlobal(zl)
	defer zl.Sync()

	// 2. 初始化小组件：雪花算法、指标、协程池
	if err := idgen.Init(cfg.Server.NodeID); err != nil {
		return fmt.Errorf("初始化雪花算法失败: %w", err)
	}
	metrics.Init(cfg.Metrics.Prefix)
	if err := async.Init(cfg.Async); err != nil {
		return fmt.Errorf("初始化协程池失败: %w", err)
	}
	defer func() {
		if err := async.Release(); err != nil {
			logger.Warn(ctx, "协程池释放超时", logger.ErrorField("error", err))
		}
	}()

	// 3. 初始化 MySQL
	db, err := mysql.Build(cfg.MySQL)
	if err != nil {
		return fmt.Errorf("初始化MySQL失败: %w", err)
	}
	defer func() {
		if err := mysql.Close(db); err != nil {
			logger.Error(ctx, "关闭 MySQL 失败", logger.ErrorField("error", err))
		}
	}()

	// 4. 初始化 Redis（失败不阻塞启动，限流与缓存降级到进程内）
	redisClient, err := pkgredis.Build(cfg.Redis)
	if err != nil {
		logger.Warn(ctx, "Redis 初始化失败，将降级到 MySQL-Only 模式",
			logger.ErrorField("error", err),
		)
		redisClient = nil
	} else if redisClient != nil {
		pkgredis.ReplaceGlobal(redisClient)
		defer redisClient.Close()
		logger.Info(ctx, "Redis 初始化成功", logger.String("addr", cfg.Redis.Addr))
	}

	// 5. 模板
	tmpl, err := web.Templates()
	if err != nil {
		return fmt.Errorf("解析模板失败: %w", err)
	}

	// 6. 通知：邮件、事件总线、Kafka
	mailer := notify.NewMailer(cfg.Mail)
	bus := notify.NewBus()
	bus.Subscribe("welcome-mail", notify.NewWelcomeMailer(mailer))
	if cfg.Kafka.Enabled {
		kafkaPublisher := notify.NewKafkaPublisher(cfg.Kafka)
		bus.Subscribe("kafka", kafkaPublisher)
		defer func() {
			if err := kafkaPublisher.Close(); err != nil {
				logger.Error(ctx, "关闭 Kafka Writer 失败", logger.ErrorField("error", err))
			}
		}()
		logger.Info(ctx, "Kafka 事件发布已启用", logger.String("topic", cfg.Kafka.Topic))
	}

	// 7. 组装依赖 - Repository 层
	userRepo := repository.NewUserRepository(db, redisClient)
	requestRepo := repository.NewFriendRequestRepository(db)
	sendLimiter, err := repository.NewSendLimiter(redisClient,
		cfg.RateLimit.FriendRequestLimit, cfg.RateLimit.FriendRequestWindow, cfg.RateLimit.LocalCacheSize)
	if err != nil {
		return fmt.Errorf("初始化好友申请限流失败: %w", err)
	}

	// 8. 组装依赖 - Service 层
	issuer := util.NewTokenIssuer(cfg.JWT)
	accountService := service.NewAccountService(userRepo, activation.NewGenerator(cfg.Activation),
		issuer, mailer, tmpl, bus, cfg.Activation)
	friendService := service.NewFriendService(userRepo, requestRepo, sendLimiter)
	userService := service.NewUserService(userRepo)

	// 9. 组装依赖 - Handler 层与中间件
	auth := middleware.NewAuthenticator(issuer, cfg.JWT.CookieName, cfg.Server.SecureCookie)
	ipLimiter, err := middleware.NewIPRateLimiter(redisClient, cfg.RateLimit.IPRate, cfg.RateLimit.IPBurst, cfg.RateLimit.LocalCacheSize)
	if err != nil {
		return fmt.Errorf("初始化 IP 限流失败: %w", err)
	}

	gin.SetMode(cfg.Server.Mode)
	r := router.InitRouter(router.Handlers{
		Account:    v1.NewAccountHandler(accountService, auth),
		Friend:     v1.NewFriendHandler(friendService),
		Search:     v1.NewSearchHandler(userService),
		Storefront: v1.NewStorefrontHandler(),
	}, router.Options{
		Auth:           auth,
		IPLimiter:      ipLimiter,
		Templates:      tmpl,
		RequestTimeout: cfg.Server.RequestTimeout,
		AllowedOrigins: cfg.Server.AllowedOrigins,
	})
	logger.Info(ctx, "路由初始化完成")

	// 10. 启动服务器
	srv := &http.Server{
		Addr:           cfg.Server.Addr,
		Handler:        r,
		ReadTimeout:    cfg.Server.ReadTimeout,
		WriteTimeout:   cfg.Server.WriteTimeout,
		MaxHeaderBytes: 1 << 20,
	}

	serveErr := make(chan error, 1)
	go func() {
		logger.Info(ctx, "SocialServer 启动中", logger.String("address", cfg.Server.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	// 11. 优雅停机
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	select {
	case err := <-serveErr:
		if err != nil {
			return fmt.Errorf("服务器启动失败: %w", err)
		}
		return nil
	case sig := <-quit:
		logger.Info(ctx, "收到关闭信号，开始优雅停机...", logger.String("signal", sig.String()))
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error(ctx, "服务器强制关闭", logger.ErrorField("error", err))
		return err
	}

	logger.Info(ctx, "SocialServer 已优雅退出")
	return nil
}
