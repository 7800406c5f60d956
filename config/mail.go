package config

import "time"

// MailConfig SMTP 发信配置
type MailConfig struct {
	Host     string `json:"host" yaml:"host"` // 为空时使用日志发信器，只打印不发送
	Port     int    `json:"port" yaml:"port"`
	Username string `json:"username" yaml:"username"`
	Password string `json:"password" yaml:"password"`
	From     string `json:"from" yaml:"from"`

	// 熔断器
	BreakerMaxRequests uint32        `json:"breakerMaxRequests" yaml:"breakerMaxRequests"` // 半开状态允许的试探请求数
	BreakerInterval    time.Duration `json:"breakerInterval" yaml:"breakerInterval"`       // 闭合状态计数清零周期
	BreakerTimeout     time.Duration `json:"breakerTimeout" yaml:"breakerTimeout"`         // 开启后多久进入半开
}

// DefaultMailConfig 返回本地开发的默认配置
func DefaultMailConfig() MailConfig {
	return MailConfig{
		Port:               587,
		From:               "no-reply@localhost",
		BreakerMaxRequests: 3,
		BreakerInterval:    15 * time.Second,
		BreakerTimeout:     45 * time.Second,
	}
}

// KafkaConfig 用户事件投递配置
type KafkaConfig struct {
	Enabled      bool          `json:"enabled" yaml:"enabled"`
	Brokers      []string      `json:"brokers" yaml:"brokers"`
	Topic        string        `json:"topic" yaml:"topic"`
	WriteTimeout time.Duration `json:"writeTimeout" yaml:"writeTimeout"`
}

// DefaultKafkaConfig 默认关闭
func DefaultKafkaConfig() KafkaConfig {
	return KafkaConfig{
		Enabled:      false,
		Brokers:      []string{"127.0.0.1:9092"},
		Topic:        "user.created",
		WriteTimeout: 5 * time.Second,
	}
}
