package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// ServerConfig HTTP 服务配置
type ServerConfig struct {
	Addr            string        `json:"addr" yaml:"addr"`
	Mode            string        `json:"mode" yaml:"mode"` // gin 模式：debug/release/test
	ReadTimeout     time.Duration `json:"readTimeout" yaml:"readTimeout"`
	WriteTimeout    time.Duration `json:"writeTimeout" yaml:"writeTimeout"`
	RequestTimeout  time.Duration `json:"requestTimeout" yaml:"requestTimeout"` // 单请求处理超时
	ShutdownTimeout time.Duration `json:"shutdownTimeout" yaml:"shutdownTimeout"`
	NodeID          int64         `json:"nodeId" yaml:"nodeId"` // snowflake 节点号
	AllowedOrigins  []string      `json:"allowedOrigins" yaml:"allowedOrigins"` // CORS 白名单，空表示放行全部
	SecureCookie    bool          `json:"secureCookie" yaml:"secureCookie"`     // 会话 cookie 仅 HTTPS
}

// DefaultServerConfig 返回本地开发的默认配置
func DefaultServerConfig() ServerConfig {
	return ServerConfig{
		Addr:            "127.0.0.1:8080",
		Mode:            "release",
		ReadTimeout:     10 * time.Second,
		WriteTimeout:    10 * time.Second,
		RequestTimeout:  8 * time.Second,
		ShutdownTimeout: 30 * time.Second,
		NodeID:          1,
	}
}

// MetricsConfig Prometheus 指标配置
type MetricsConfig struct {
	Prefix string `json:"prefix" yaml:"prefix"`
}

// Config 服务全部配置
type Config struct {
	Server     ServerConfig     `json:"server" yaml:"server"`
	Logger     LoggerConfig     `json:"logger" yaml:"logger"`
	MySQL      MySQLConfig      `json:"mysql" yaml:"mysql"`
	Redis      RedisConfig      `json:"redis" yaml:"redis"`
	JWT        JWTConfig        `json:"jwt" yaml:"jwt"`
	Activation ActivationConfig `json:"activation" yaml:"activation"`
	RateLimit  RateLimitConfig  `json:"rateLimit" yaml:"rateLimit"`
	Mail       MailConfig       `json:"mail" yaml:"mail"`
	Kafka      KafkaConfig      `json:"kafka" yaml:"kafka"`
	Async      AsyncConfig      `json:"async" yaml:"async"`
	Metrics    MetricsConfig    `json:"metrics" yaml:"metrics"`
}

// Default 返回全部默认配置
func Default() *Config {
	return &Config{
		Server:     DefaultServerConfig(),
		Logger:     DefaultLoggerConfig(),
		MySQL:      DefaultMySQLConfig(),
		Redis:      DefaultRedisConfig(),
		JWT:        DefaultJWTConfig(),
		Activation: DefaultActivationConfig(),
		RateLimit:  DefaultRateLimitConfig(),
		Mail:       DefaultMailConfig(),
		Kafka:      DefaultKafkaConfig(),
		Async:      DefaultAsyncConfig(),
		Metrics:    MetricsConfig{Prefix: "socialserver"},
	}
}

// Load 加载配置，优先级从低到高：默认值 -> YAML 文件 -> .env -> 环境变量
// path 为空时跳过 YAML 文件
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config file: %w", err)
		}
	}

	// .env 不存在属于正常情况（容器内直接注入环境变量）
	_ = godotenv.Load()

	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyEnv 使用 SOCIAL_* 环境变量覆盖配置
func (c *Config) applyEnv() {
	c.Server.Addr = getEnv("SOCIAL_SERVER_ADDR", c.Server.Addr)
	c.Server.Mode = getEnv("SOCIAL_SERVER_MODE", c.Server.Mode)
	c.Server.NodeID = getEnvInt64("SOCIAL_NODE_ID", c.Server.NodeID)
	c.Server.SecureCookie = getEnvBool("SOCIAL_SECURE_COOKIE", c.Server.SecureCookie)
	if origins := os.Getenv("SOCIAL_ALLOWED_ORIGINS"); origins != "" {
		c.Server.AllowedOrigins = splitList(origins)
	}

	c.Logger.Level = getEnv("SOCIAL_LOG_LEVEL", c.Logger.Level)
	c.Logger.Encoding = getEnv("SOCIAL_LOG_ENCODING", c.Logger.Encoding)

	c.MySQL.Host = getEnv("SOCIAL_MYSQL_HOST", c.MySQL.Host)
	c.MySQL.Port = getEnvInt("SOCIAL_MYSQL_PORT", c.MySQL.Port)
	c.MySQL.User = getEnv("SOCIAL_MYSQL_USER", c.MySQL.User)
	c.MySQL.Password = getEnv("SOCIAL_MYSQL_PASSWORD", c.MySQL.Password)
	c.MySQL.Database = getEnv("SOCIAL_MYSQL_DATABASE", c.MySQL.Database)
	if replicas := os.Getenv("SOCIAL_MYSQL_REPLICAS"); replicas != "" {
		c.MySQL.Replicas = splitList(replicas)
	}

	c.Redis.Addr = getEnv("SOCIAL_REDIS_ADDR", c.Redis.Addr)
	c.Redis.Password = getEnv("SOCIAL_REDIS_PASSWORD", c.Redis.Password)
	c.Redis.DB = getEnvInt("SOCIAL_REDIS_DB", c.Redis.DB)

	c.JWT.Secret = getEnv("SOCIAL_JWT_SECRET", c.JWT.Secret)
	c.JWT.TTL = getEnvDuration("SOCIAL_JWT_TTL", c.JWT.TTL)

	c.Activation.Secret = getEnv("SOCIAL_ACTIVATION_SECRET", c.Activation.Secret)
	c.Activation.TokenTTL = getEnvDuration("SOCIAL_ACTIVATION_TTL", c.Activation.TokenTTL)
	c.Activation.Domain = getEnv("SOCIAL_SITE_DOMAIN", c.Activation.Domain)

	c.Mail.Host = getEnv("SOCIAL_MAIL_HOST", c.Mail.Host)
	c.Mail.Port = getEnvInt("SOCIAL_MAIL_PORT", c.Mail.Port)
	c.Mail.Username = getEnv("SOCIAL_MAIL_USERNAME", c.Mail.Username)
	c.Mail.Password = getEnv("SOCIAL_MAIL_PASSWORD", c.Mail.Password)
	c.Mail.From = getEnv("SOCIAL_MAIL_FROM", c.Mail.From)

	c.Kafka.Enabled = getEnvBool("SOCIAL_KAFKA_ENABLED", c.Kafka.Enabled)
	if brokers := os.Getenv("SOCIAL_KAFKA_BROKERS"); brokers != "" {
		c.Kafka.Brokers = splitList(brokers)
	}
	c.Kafka.Topic = getEnv("SOCIAL_KAFKA_TOPIC", c.Kafka.Topic)
}

// Validate 校验配置
func (c *Config) Validate() error {
	if c.JWT.Secret == "" {
		return errors.New("jwt secret is required")
	}
	if c.Activation.Secret == "" {
		return errors.New("activation secret is required")
	}
	if c.Activation.TokenTTL <= 0 {
		return errors.New("activation token ttl must be positive")
	}
	if c.RateLimit.FriendRequestLimit <= 0 || c.RateLimit.FriendRequestWindow <= 0 {
		return errors.New("friend request rate limit must be positive")
	}
	if c.Server.NodeID < 0 || c.Server.NodeID > 1023 {
		return fmt.Errorf("node id %d out of range [0, 1023]", c.Server.NodeID)
	}
	if c.Mail.Host != "" && c.Mail.Port <= 0 {
		return errors.New("mail port must be positive when mail host is set")
	}
	if c.Kafka.Enabled && (len(c.Kafka.Brokers) == 0 || c.Kafka.Topic == "") {
		return errors.New("kafka brokers and topic are required when kafka is enabled")
	}
	// release 模式下禁止使用开发密钥
	if c.Server.Mode == "release" {
		if c.JWT.Secret == DefaultJWTConfig().Secret || c.Activation.Secret == DefaultActivationConfig().Secret {
			return errors.New("development secrets must be replaced in release mode")
		}
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}

func getEnvInt64(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.ParseInt(value, 10, 64); err == nil {
			return n
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}

func splitList(raw string) []string {
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
