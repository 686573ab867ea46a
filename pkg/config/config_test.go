package config

import (
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("PEXELS_APIKEY", "test-key")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if cfg.Server.Port != "8080" {
		t.Errorf("Server.Port = %q, want %q", cfg.Server.Port, "8080")
	}
	if cfg.Cache.TTL != 300*time.Second {
		t.Errorf("Cache.TTL = %v, want %v", cfg.Cache.TTL, 300*time.Second)
	}
	if cfg.Cache.Backend != "memory" {
		t.Errorf("Cache.Backend = %q, want %q", cfg.Cache.Backend, "memory")
	}
	if cfg.Pexels.BaseURL != "https://api.pexels.com" {
		t.Errorf("Pexels.BaseURL = %q, want default", cfg.Pexels.BaseURL)
	}
	if cfg.Log.Level != "info" {
		t.Errorf("Log.Level = %q, want %q", cfg.Log.Level, "info")
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("PEXELS_APIKEY", "test-key")
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("CACHE_TTL", "60s")
	t.Setenv("CACHE_BACKEND", "redis")
	t.Setenv("REDIS_ADDR", "redis:6379")
	t.Setenv("ADMIN_SECRET", "hunter2")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if cfg.Server.Port != "9090" {
		t.Errorf("Server.Port = %q, want %q", cfg.Server.Port, "9090")
	}
	if cfg.Cache.TTL != 60*time.Second {
		t.Errorf("Cache.TTL = %v, want %v", cfg.Cache.TTL, 60*time.Second)
	}
	if cfg.Cache.Backend != "redis" {
		t.Errorf("Cache.Backend = %q, want %q", cfg.Cache.Backend, "redis")
	}
	if cfg.Redis.Addr != "redis:6379" {
		t.Errorf("Redis.Addr = %q, want %q", cfg.Redis.Addr, "redis:6379")
	}
	if cfg.Admin.Secret != "hunter2" {
		t.Errorf("Admin.Secret = %q, want %q", cfg.Admin.Secret, "hunter2")
	}
}

func TestLoad_MissingAPIKey(t *testing.T) {
	t.Setenv("PEXELS_APIKEY", "")

	if _, err := Load(); err == nil {
		t.Error("Load() without api key = nil error, want error")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name        string
		mutate      func(*Config)
		expectError bool
	}{
		{
			name:        "valid",
			mutate:      func(c *Config) {},
			expectError: false,
		},
		{
			name:        "missing api key",
			mutate:      func(c *Config) { c.Pexels.APIKey = "" },
			expectError: true,
		},
		{
			name:        "unknown backend",
			mutate:      func(c *Config) { c.Cache.Backend = "memcached" },
			expectError: true,
		},
		{
			name:        "non-positive ttl",
			mutate:      func(c *Config) { c.Cache.TTL = 0 },
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{
				Pexels: PexelsConfig{APIKey: "key"},
				Cache:  CacheConfig{TTL: 300 * time.Second, Backend: "memory"},
			}
			tt.mutate(cfg)

			err := cfg.Validate()
			if tt.expectError && err == nil {
				t.Error("Validate() = nil error, want error")
			}
			if !tt.expectError && err != nil {
				t.Errorf("Validate() = %v, want nil", err)
			}
		})
	}
}
