package rediskey

import (
	"fmt"
	"time"
)

// ==================== TTL 常量 ====================

const (
	// UserInfoTTL 用户信息缓存 TTL
	UserInfoTTL = 1 * time.Hour
	// UserInfoEmptyTTL 用户信息空值缓存 TTL（防穿透）
	UserInfoEmptyTTL = 5 * time.Minute

	// IPRateLimitMinTTL 令牌桶 key 最短保留时间
	IPRateLimitMinTTL = 60 * time.Second
)

// EmptyPlaceholder 空值占位符
const EmptyPlaceholder = "__EMPTY__"

// ==================== Key 构造函数 ====================

// UserInfoKey 生成用户信息缓存 Key: user:info:{id}
func UserInfoKey(userID int64) string {
	return fmt.Sprintf("user:info:%d", userID)
}

// FriendRequestSendKey 生成好友申请发送滑动窗口 Key: friend:request:send:{user_id}
func FriendRequestSendKey(userID int64) string {
	return fmt.Sprintf("friend:request:send:%d", userID)
}

// ==================== 接入层 Key 构造函数 ====================

// IPBlacklistKey IP 黑名单 Set
const IPBlacklistKey = "social:blacklist:ips"

// IPRateLimitKey 生成 IP 限流 Key: social:rate:limit:ip:{ip}
func IPRateLimitKey(ip string) string {
	return fmt.Sprintf("social:rate:limit:ip:%s", ip)
}
