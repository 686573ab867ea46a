// Package config loads service configuration from environment
// variables and an optional YAML file, with defaults for everything
// except the upstream API key.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config stores all service configuration.
type Config struct {
	Server ServerConfig
	Pexels PexelsConfig
	Cache  CacheConfig
	Redis  RedisConfig
	Admin  AdminConfig
	Log    LogConfig
	Warm   WarmConfig
}

// ServerConfig stores the web server settings.
type ServerConfig struct {
	Port   string
	WebDir string
}

// PexelsConfig stores the upstream API settings.
type PexelsConfig struct {
	APIKey  string
	BaseURL string
	Timeout time.Duration
}

// CacheConfig stores the response cache settings.
type CacheConfig struct {
	// TTL is the fixed time-to-live for cached payloads.
	TTL time.Duration

	// Backend selects the store: "memory" (default) or "redis".
	Backend string

	// SweepInterval controls the memory store's background sweeper.
	// Zero disables sweeping; expiry stays lazy either way.
	SweepInterval time.Duration
}

// RedisConfig stores the Redis connection settings.
type RedisConfig struct {
	Addr string
}

// AdminConfig stores the administrative endpoint settings.
type AdminConfig struct {
	// Secret gates the cache clear endpoint. Empty disables it.
	Secret string
}

// LogConfig stores logging settings.
type LogConfig struct {
	Level  string
	Pretty bool
}

// WarmConfig stores the startup cache warm-up settings.
type WarmConfig struct {
	// Queries are search terms primed into the cache at startup.
	Queries []string
}

// Load reads configuration from the environment and an optional
// config.yaml in the working directory or ./config.
func Load() (*Config, error) {
	v := viper.New()

	v.AddConfigPath(".")
	v.AddConfigPath("config")
	v.SetConfigName("config")
	v.SetConfigType("yaml")

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("server.port", "8080")
	v.SetDefault("server.webdir", "")
	v.SetDefault("pexels.apikey", "")
	v.SetDefault("pexels.baseurl", "https://api.pexels.com")
	v.SetDefault("pexels.timeout", "15s")
	v.SetDefault("cache.ttl", "300s")
	v.SetDefault("cache.backend", "memory")
	v.SetDefault("cache.sweepinterval", "60s")
	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("admin.secret", "")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.pretty", false)
	v.SetDefault("warm.queries", []string{})

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("read config file: %w", err)
		}
		// No config file is fine: defaults and env vars apply.
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks settings that have no usable default.
func (c *Config) Validate() error {
	if c.Pexels.APIKey == "" {
		return fmt.Errorf("pexels api key is required (set PEXELS_APIKEY)")
	}
	switch c.Cache.Backend {
	case "memory", "redis":
	default:
		return fmt.Errorf("unknown cache backend %q (want memory or redis)", c.Cache.Backend)
	}
	if c.Cache.TTL <= 0 {
		return fmt.Errorf("cache ttl must be positive (got %s)", c.Cache.TTL)
	}
	return nil
}
