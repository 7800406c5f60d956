package middleware

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	"SocialServer/consts"
	rediskey "SocialServer/consts/redisKey"
	"SocialServer/pkg/logger"
	"SocialServer/pkg/result"

	"github.com/gin-gonic/gin"
	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/redis/go-redis/v9"
	"golang.org/x/time/rate"
)

// luaTokenBucket Redis 令牌桶 Lua 脚本
//
//	KEYS[1]: 限流 key
//	ARGV[1]: 当前时间戳 (毫秒)
//	ARGV[2]: 令牌桶容量
//	ARGV[3]: 每秒产生的令牌数
//	ARGV[4]: 每次请求消耗的令牌数
//	ARGV[5]: key 的最小过期时间 (秒)，实际 TTL 取它与两倍填满时间的较大者
//
// 返回 1 允许通过，0 令牌不足
const luaTokenBucket = `
local key = KEYS[1]
local now = tonumber(ARGV[1])
local capacity = tonumber(ARGV[2])
local rate = tonumber(ARGV[3])
local requested = tonumber(ARGV[4])

local info = redis.call('HMGET', key, 'tokens', 'last_time')
local current_tokens = tonumber(info[1])
local last_time = tonumber(info[2])

if current_tokens == nil then
    current_tokens = capacity
end
if last_time == nil then
    last_time = now
end

local time_diff = math.max(0, now - last_time)
local new_tokens = math.floor((time_diff * rate) / 1000)

-- 只有产生了新令牌才推进时间，防止精度丢失
if new_tokens > 0 then
    current_tokens = math.min(capacity, current_tokens + new_tokens)
    last_time = now
end

local allowed = 0
if current_tokens >= requested then
    current_tokens = current_tokens - requested
    allowed = 1
end

redis.call('HMSET', key, 'tokens', current_tokens, 'last_time', last_time)

local fill_time = math.ceil(capacity / rate)
local ttl = math.max(tonumber(ARGV[5]), fill_time * 2)
redis.call('EXPIRE', key, ttl)

return allowed
`

// redisOpTimeout 单次 Redis 限流操作的超时，防止 Redis 响应慢拖垮请求
const redisOpTimeout = 50 * time.Millisecond

// IPRateLimiter IP 级别令牌桶
// Redis 可用时多实例共享同一个桶，不可用时降级到进程内 x/time/rate 桶
type IPRateLimiter struct {
	redisClient *redis.Client
	script      *redis.Script
	perSecond   float64
	burst       int

	mu    sync.Mutex
	local *lru.Cache[string, *rate.Limiter]
}

// NewIPRateLimiter 创建 IP 限流器
// redisClient 为 nil 时只使用进程内令牌桶
// localSize: 进程内最多跟踪的 IP 数，超出后淘汰最久未访问的
func NewIPRateLimiter(redisClient *redis.Client, ratePerSecond float64, burst, localSize int) (*IPRateLimiter, error) {
	if localSize <= 0 {
		localSize = 10000
	}
	cache, err := lru.New[string, *rate.Limiter](localSize)
	if err != nil {
		return nil, err
	}
	return &IPRateLimiter{
		redisClient: redisClient,
		script:      redis.NewScript(luaTokenBucket),
		perSecond:   ratePerSecond,
		burst:       burst,
		local:       cache,
	}, nil
}

// Allow 检查该 IP 是否还有令牌
func (l *IPRateLimiter) Allow(ctx context.Context, ip string) bool {
	if l.redisClient != nil {
		allowed, err := l.allowRedis(ctx, ip)
		if err == nil {
			return allowed
		}
		logger.Warn(ctx, "Redis 限流检查失败，降级到本地令牌桶",
			logger.String("ip", ip),
			logger.ErrorField("error", err),
		)
	}
	return l.allowLocal(ip)
}

func (l *IPRateLimiter) allowRedis(ctx context.Context, ip string) (bool, error) {
	redisCtx, cancel := context.WithTimeout(ctx, redisOpTimeout)
	defer cancel()

	res, err := l.script.Run(redisCtx, l.redisClient,
		[]string{rediskey.IPRateLimitKey(ip)},
		time.Now().UnixMilli(), l.burst, l.perSecond, 1, int(rediskey.IPRateLimitMinTTL.Seconds()),
	).Int64()
	if err != nil {
		return false, err
	}
	return res == 1, nil
}

func (l *IPRateLimiter) allowLocal(ip string) bool {
	l.mu.Lock()
	limiter, ok := l.local.Get(ip)
	if !ok {
		limiter = rate.NewLimiter(rate.Limit(l.perSecond), l.burst)
		l.local.Add(ip, limiter)
	}
	l.mu.Unlock()
	return limiter.Allow()
}

// IsBlacklisted 检查 IP 是否在黑名单 Set 中，Redis 不可用时视为不在
func (l *IPRateLimiter) IsBlacklisted(ctx context.Context, ip string) bool {
	if l.redisClient == nil {
		return false
	}
	redisCtx, cancel := context.WithTimeout(ctx, redisOpTimeout)
	defer cancel()

	exists, err := l.redisClient.SIsMember(redisCtx, rediskey.IPBlacklistKey, ip).Result()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			logger.Warn(ctx, "Redis 黑名单检查失败，降级放行",
				logger.String("ip", ip),
				logger.ErrorField("error", err),
			)
		}
		return false
	}
	return exists
}

// IPRateLimitMiddleware IP 黑名单 + 令牌桶限流
func IPRateLimitMiddleware(limiter *IPRateLimiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		ip, ok := GetClientIPSafe(c)
		if !ok {
			// 无法识别的来源统一归到一个桶
			ip = "unknown"
		}
		ctx := NewContextWithGin(c)

		if limiter.IsBlacklisted(ctx, ip) {
			logger.Warn(ctx, "黑名单 IP 访问被拒绝", logger.String("ip", ip))
			result.AbortFail(c, http.StatusForbidden, consts.CodeForbidden, "")
			return
		}

		if !limiter.Allow(ctx, ip) {
			result.AbortFail(c, http.StatusTooManyRequests, consts.CodeTooManyRequests, "")
			return
		}

		c.Next()
	}
}
