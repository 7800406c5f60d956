package repository

import (
	"SocialServer/consts/redisKey"
	"SocialServer/pkg/util"
	"context"
	"sync"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/redis/go-redis/v9"
)

// sendLimiterImpl 好友申请发送滑动窗口限流。
// Redis 可用时走 ZSET + Lua（多实例共享窗口），否则退化为进程内 LRU 窗口。
type sendLimiterImpl struct {
	redisClient *redis.Client
	script      *redis.Script
	limit       int
	window      time.Duration

	mu    sync.Mutex
	local *lru.Cache[int64, []time.Time]
	now   func() time.Time
}

// NewSendLimiter 创建发送限流器
// limit: 窗口内最多允许的发送次数；window: 窗口长度；localSize: 本地窗口最多跟踪的用户数
func NewSendLimiter(redisClient *redis.Client, limit int, window time.Duration, localSize int) (ISendLimiter, error) {
	if localSize <= 0 {
		localSize = 10000
	}
	local, err := lru.New[int64, []time.Time](localSize)
	if err != nil {
		return nil, err
	}
	return &sendLimiterImpl{
		redisClient: redisClient,
		script:      redis.NewScript(luaSlidingWindow),
		limit:       limit,
		window:      window,
		local:       local,
		now:         time.Now,
	}, nil
}

// Allow 判断本次发送是否允许
func (l *sendLimiterImpl) Allow(ctx context.Context, userID int64) (bool, error) {
	if l.redisClient != nil {
		allowed, err := l.allowRedis(ctx, userID)
		if err == nil {
			return allowed, nil
		}
		// Redis 故障降级为本地窗口，不阻断发送
		LogRedisError(ctx, err)
	}
	return l.allowLocal(userID), nil
}

func (l *sendLimiterImpl) allowRedis(ctx context.Context, userID int64) (bool, error) {
	now := l.now()
	res, err := l.script.Run(ctx, l.redisClient,
		[]string{rediskey.FriendRequestSendKey(userID)},
		now.UnixMilli(),
		l.window.Milliseconds(),
		l.limit,
		util.NewUUID(),
	).Int()
	if err != nil {
		return false, WrapRedisError(err)
	}
	return res == 1, nil
}

func (l *sendLimiterImpl) allowLocal(userID int64) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	cutoff := now.Add(-l.window)

	history, _ := l.local.Get(userID)
	kept := history[:0]
	for _, ts := range history {
		if ts.After(cutoff) {
			kept = append(kept, ts)
		}
	}

	if len(kept) >= l.limit {
		l.local.Add(userID, kept)
		return false
	}
	l.local.Add(userID, append(kept, now))
	return true
}
