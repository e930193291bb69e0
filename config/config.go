// Package config 负责服务级配置：存储后端、召回参数、过滤表达式。
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config 是服务配置（YAML）。
type Config struct {
	// Store 目录后端配置。
	Store StoreConfig `yaml:"store"`

	// Cache 元数据缓存配置（可选，driver 为空时不启用）。
	Cache CacheConfig `yaml:"cache"`

	// Engine 引擎参数。
	Engine EngineConfig `yaml:"engine"`
}

type StoreConfig struct {
	// Driver 目录后端：postgres / memory。
	Driver string `yaml:"driver"`

	// DSN Postgres 连接串，driver 为 postgres 时必填。
	DSN string `yaml:"dsn"`
}

type CacheConfig struct {
	// Driver 缓存后端：redis / memory，为空不启用。
	Driver string `yaml:"driver"`

	Addr string `yaml:"addr"`
	DB   int    `yaml:"db"`

	// TTLSeconds 元数据缓存过期秒数。
	TTLSeconds int `yaml:"ttl_seconds"`
}

type EngineConfig struct {
	// FanoutK 每个信号索引的召回条数，0 取默认值。
	FanoutK int `yaml:"fanout_k"`

	// TimeoutMS 请求级存储预算毫秒数，0 取默认值。
	TimeoutMS int `yaml:"timeout_ms"`

	// FilterExprs CEL 过滤表达式列表，表达式为真保留候选。
	FilterExprs []string `yaml:"filter_exprs"`
}

// Load 从 YAML 文件加载并校验配置。
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate 校验配置的完整性。
func (c *Config) Validate() error {
	switch c.Store.Driver {
	case "postgres":
		if c.Store.DSN == "" {
			return fmt.Errorf("config: store.dsn is required for postgres driver")
		}
	case "memory":
	case "":
		return fmt.Errorf("config: store.driver is required")
	default:
		return fmt.Errorf("config: unknown store driver %q", c.Store.Driver)
	}

	switch c.Cache.Driver {
	case "", "memory":
	case "redis":
		if c.Cache.Addr == "" {
			return fmt.Errorf("config: cache.addr is required for redis driver")
		}
	default:
		return fmt.Errorf("config: unknown cache driver %q", c.Cache.Driver)
	}

	if c.Engine.FanoutK < 0 {
		return fmt.Errorf("config: engine.fanout_k must not be negative")
	}
	if c.Engine.TimeoutMS < 0 {
		return fmt.Errorf("config: engine.timeout_ms must not be negative")
	}
	return nil
}

// Timeout 返回引擎超时，未配置时返回 0（由引擎取默认值）。
func (c *EngineConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutMS) * time.Millisecond
}
