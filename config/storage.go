package config

import (
	"fmt"
	"time"
)

// MySQLConfig MySQL 连接配置
type MySQLConfig struct {
	Host     string `json:"host" yaml:"host"`
	Port     int    `json:"port" yaml:"port"`
	User     string `json:"user" yaml:"user"`
	Password string `json:"password" yaml:"password"`
	Database string `json:"database" yaml:"database"`
	Params   string `json:"params" yaml:"params"` // DSN 附加参数

	// 读库 DSN 列表，为空时读写都走主库
	Replicas []string `json:"replicas" yaml:"replicas"`

	// 连接池配置
	MaxIdleConns    int           `json:"maxIdleConns" yaml:"maxIdleConns"`
	MaxOpenConns    int           `json:"maxOpenConns" yaml:"maxOpenConns"`
	ConnMaxLifetime time.Duration `json:"connMaxLifetime" yaml:"connMaxLifetime"`
	SlowThreshold   time.Duration `json:"slowThreshold" yaml:"slowThreshold"` // 慢 SQL 阈值
}

// DSN 返回主库连接串
func (c MySQLConfig) DSN() string {
	params := c.Params
	if params == "" {
		params = "charset=utf8mb4&parseTime=True&loc=Local"
	}
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?%s", c.User, c.Password, c.Host, c.Port, c.Database, params)
}

// DefaultMySQLConfig 返回本地开发的默认配置（与 docker-compose 对齐）
func DefaultMySQLConfig() MySQLConfig {
	return MySQLConfig{
		Host:            "127.0.0.1",
		Port:            3306,
		User:            "root",
		Password:        "root",
		Database:        "social",
		MaxIdleConns:    10,
		MaxOpenConns:    100,
		ConnMaxLifetime: time.Hour,
		SlowThreshold:   200 * time.Millisecond,
	}
}

// RedisConfig Redis 连接配置
type RedisConfig struct {
	Addr         string        `json:"addr" yaml:"addr"` // 为空表示不启用 Redis，限流与缓存降级为进程内实现
	Password     string        `json:"password" yaml:"password"`
	DB           int           `json:"db" yaml:"db"`
	PoolSize     int           `json:"poolSize" yaml:"poolSize"`
	DialTimeout  time.Duration `json:"dialTimeout" yaml:"dialTimeout"`
	ReadTimeout  time.Duration `json:"readTimeout" yaml:"readTimeout"`
	WriteTimeout time.Duration `json:"writeTimeout" yaml:"writeTimeout"`
}

// DefaultRedisConfig 返回本地开发的默认配置
func DefaultRedisConfig() RedisConfig {
	return RedisConfig{
		Addr:         "127.0.0.1:6379",
		DB:           0,
		PoolSize:     50,
		DialTimeout:  3 * time.Second,
		ReadTimeout:  time.Second,
		WriteTimeout: time.Second,
	}
}
