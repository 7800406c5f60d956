package config

import "time"

// JWTConfig 访问令牌配置（token-auth 与登录会话共用）
type JWTConfig struct {
	Secret     string        `json:"secret" yaml:"secret"`
	Issuer     string        `json:"issuer" yaml:"issuer"`
	TTL        time.Duration `json:"ttl" yaml:"ttl"`
	CookieName string        `json:"cookieName" yaml:"cookieName"` // 网页登录会话 cookie 名
}

// DefaultJWTConfig 返回本地开发的默认配置
func DefaultJWTConfig() JWTConfig {
	return JWTConfig{
		Secret:     "dev-secret-change-me",
		Issuer:     "socialserver",
		TTL:        7 * 24 * time.Hour,
		CookieName: "sessionid",
	}
}

// ActivationConfig 邮箱激活令牌配置
type ActivationConfig struct {
	Secret   string        `json:"secret" yaml:"secret"`
	TokenTTL time.Duration `json:"tokenTTL" yaml:"tokenTTL"` // 激活链接有效期
	Domain   string        `json:"domain" yaml:"domain"`     // 邮件中激活链接使用的站点域名
	Scheme   string        `json:"scheme" yaml:"scheme"`
}

// DefaultActivationConfig 返回本地开发的默认配置
func DefaultActivationConfig() ActivationConfig {
	return ActivationConfig{
		Secret:   "dev-activation-secret",
		TokenTTL: 72 * time.Hour,
		Domain:   "localhost:8080",
		Scheme:   "http",
	}
}

// RateLimitConfig 限流配置
type RateLimitConfig struct {
	// 好友申请发送：每个用户在滑动窗口内最多 FriendRequestLimit 次
	FriendRequestLimit  int           `json:"friendRequestLimit" yaml:"friendRequestLimit"`
	FriendRequestWindow time.Duration `json:"friendRequestWindow" yaml:"friendRequestWindow"`
	LocalCacheSize      int           `json:"localCacheSize" yaml:"localCacheSize"` // 进程内降级窗口最多跟踪的用户数

	// IP 令牌桶
	IPRate  float64 `json:"ipRate" yaml:"ipRate"`
	IPBurst int     `json:"ipBurst" yaml:"ipBurst"`
}

// DefaultRateLimitConfig 返回默认限流配置
func DefaultRateLimitConfig() RateLimitConfig {
	return RateLimitConfig{
		FriendRequestLimit:  3,
		FriendRequestWindow: time.Minute,
		LocalCacheSize:      10000,
		IPRate:              10,
		IPBurst:             20,
	}
}
