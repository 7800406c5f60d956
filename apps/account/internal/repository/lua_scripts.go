package repository

// luaSlidingWindow 滑动窗口限流
// 功能：原子性地清理窗口外记录 -> 计数 -> 未超限时记录本次请求
// 参数：
//
//	KEYS[1]: 限流 key (friend:request:send:{user_id})
//	ARGV[1]: 当前时间戳 (毫秒)
//	ARGV[2]: 窗口长度 (毫秒)
//	ARGV[3]: 窗口内允许的最大次数
//	ARGV[4]: 本次请求的唯一成员名（同一毫秒内多次请求不互相覆盖）
//
// 返回值：
//   - 1: 允许通过（已计入窗口）
//   - 0: 超限（不计入窗口）
const luaSlidingWindow = `
local key = KEYS[1]
local now = tonumber(ARGV[1])
local window = tonumber(ARGV[2])
local limit = tonumber(ARGV[3])
local member = ARGV[4]

redis.call('ZREMRANGEBYSCORE', key, '-inf', now - window)

local count = redis.call('ZCARD', key)
if count >= limit then
    return 0
end

redis.call('ZADD', key, now, member)
redis.call('PEXPIRE', key, window)
return 1
`
