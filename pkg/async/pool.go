package async

import (
	"context"
	"errors"
	"runtime/debug"
	"sync"
	"time"

	"SocialServer/config"
	"SocialServer/pkg/logger"

	"github.com/panjf2000/ants/v2"
)

var (
	global   *ants.Pool
	globalMu sync.Mutex
	cfgCopy  config.AsyncConfig
)

// ContextPropagator 从父 ctx 提取需要透传到异步任务的字段。
// 默认透传 trace_id 和 user_id；父 ctx 的取消不会传递给异步任务。
var ContextPropagator = func(parent context.Context) context.Context {
	ctx := context.Background()
	for _, key := range []string{"trace_id", "user_id"} {
		if v := parent.Value(key); v != nil {
			ctx = context.WithValue(ctx, key, v)
		}
	}
	return ctx
}

// SetContextPropagator 设置上下文传递器（建议在 main 初始化时调用）。
func SetContextPropagator(fn func(context.Context) context.Context) {
	ContextPropagator = fn
}

// ErrNotInitialized 表示协程池尚未初始化。
var ErrNotInitialized = errors.New("async pool not initialized")

// Pool 返回全局协程池（未初始化时为 nil）。
func Pool() *ants.Pool { return global }

// ReplaceGlobal 设置全局协程池。
func ReplaceGlobal(p *ants.Pool) { global = p }

// Build 根据配置创建协程池实例。
func Build(cfg config.AsyncConfig) (*ants.Pool, error) {
	opts := []ants.Option{
		ants.WithMaxBlockingTasks(cfg.MaxBlockingTasks),
		ants.WithExpiryDuration(cfg.ExpiryDuration),
		ants.WithPanicHandler(func(p any) {
			logger.Error(context.Background(), "async task panic",
				logger.Any("panic", p),
				logger.String("stack", string(debug.Stack())),
			)
		}),
	}
	if cfg.Nonblocking {
		opts = append(opts, ants.WithNonblocking(true))
	}

	return ants.NewPool(cfg.PoolSize, opts...)
}

// Init 初始化全局协程池（仅需在进程启动时调用一次）。
func Init(cfg config.AsyncConfig) error {
	globalMu.Lock()
	defer globalMu.Unlock()

	if global != nil {
		return nil
	}

	p, err := Build(cfg)
	if err != nil {
		return err
	}

	global = p
	cfgCopy = cfg
	return nil
}

// Submit 将任务投递到全局协程池。
func Submit(task func()) error {
	if global == nil {
		return ErrNotInitialized
	}
	return global.Submit(task)
}

// Release 优雅释放协程池资源（等待任务执行完）。
func Release() error {
	globalMu.Lock()
	defer globalMu.Unlock()

	if global == nil {
		return nil
	}

	var err error
	if cfgCopy.ReleaseTimeout > 0 {
		err = global.ReleaseTimeout(cfgCopy.ReleaseTimeout)
	} else {
		global.Release()
	}
	global = nil
	return err
}

// RunSafe 安全的异步任务：带超时、recover，并透传日志字段。
// timeout <= 0 时使用初始化配置中的 TaskTimeout（仍为 0 则 1 分钟）。
// 协程池未初始化时（命令行工具、单元测试）在当前协程同步执行。
func RunSafe(ctx context.Context, task func(ctx context.Context), timeout time.Duration) {
	if task == nil {
		return
	}

	if timeout <= 0 {
		timeout = cfgCopy.TaskTimeout
	}
	if timeout <= 0 {
		timeout = time.Minute
	}

	baseCtx := context.Background()
	if ContextPropagator != nil && ctx != nil {
		baseCtx = ContextPropagator(ctx)
	}

	runCtx, cancel := context.WithTimeout(baseCtx, timeout)

	wrap := func() {
		defer cancel()
		timer := time.AfterFunc(timeout, func() {
			logger.Warn(runCtx, "async task timeout",
				logger.Duration("timeout", timeout),
			)
		})
		defer timer.Stop()
		defer func() {
			if r := recover(); r != nil {
				logger.Error(runCtx, "async task panic",
					logger.Any("panic", r),
					logger.String("stack", string(debug.Stack())),
				)
			}
		}()

		task(runCtx)
	}

	err := Submit(wrap)
	if errors.Is(err, ErrNotInitialized) {
		wrap()
		return
	}
	if err != nil {
		cancel()
		logger.Error(baseCtx, "async submit failed",
			logger.ErrorField("error", err),
			logger.Duration("timeout", timeout),
		)
	}
}
