package config

import (
	"strings"
	"testing"
	"time"
)

func setRequired(t *testing.T) {
	t.Helper()
	t.Setenv("GENIUS_ACCESS_TOKEN", "genius-token")
	t.Setenv("GROQ_API_KEY", "groq-key")
}

func TestLoadDefaults(t *testing.T) {
	setRequired(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.HTTPAddr != ":8080" {
		t.Errorf("HTTPAddr = %q, want :8080", cfg.HTTPAddr)
	}
	if cfg.CacheDriver != "memory" {
		t.Errorf("CacheDriver = %q, want memory", cfg.CacheDriver)
	}
	if cfg.StoragePath != "lyricmood.db" {
		t.Errorf("StoragePath = %q, want lyricmood.db", cfg.StoragePath)
	}
	if cfg.MaxRetries != 3 {
		t.Errorf("MaxRetries = %d, want 3", cfg.MaxRetries)
	}
	if cfg.RetryBackoff != 500*time.Millisecond {
		t.Errorf("RetryBackoff = %s, want 500ms", cfg.RetryBackoff)
	}
}

func TestLoadMissingRequired(t *testing.T) {
	t.Setenv("GENIUS_ACCESS_TOKEN", "")
	t.Setenv("GROQ_API_KEY", "groq-key")

	_, err := Load()
	if err == nil || !strings.Contains(err.Error(), "GENIUS_ACCESS_TOKEN") {
		t.Errorf("Load() error = %v, want missing GENIUS_ACCESS_TOKEN", err)
	}
}

func TestLoadOverrides(t *testing.T) {
	setRequired(t)
	t.Setenv("HTTP_ADDR", ":9999")
	t.Setenv("CACHE_DRIVER", "redis")
	t.Setenv("REDIS_ADDR", "redis:6379")
	t.Setenv("PIPELINE_MAX_RETRIES", "5")
	t.Setenv("PIPELINE_RETRY_BACKOFF_MS", "250")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.HTTPAddr != ":9999" {
		t.Errorf("HTTPAddr = %q, want :9999", cfg.HTTPAddr)
	}
	if cfg.CacheDriver != "redis" || cfg.RedisAddr != "redis:6379" {
		t.Errorf("cache config = %q/%q, want redis/redis:6379", cfg.CacheDriver, cfg.RedisAddr)
	}
	if cfg.MaxRetries != 5 {
		t.Errorf("MaxRetries = %d, want 5", cfg.MaxRetries)
	}
	if cfg.RetryBackoff != 250*time.Millisecond {
		t.Errorf("RetryBackoff = %s, want 250ms", cfg.RetryBackoff)
	}
}

func TestLoadRejectsBadValues(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{"unknown cache driver", "CACHE_DRIVER", "memcached"},
		{"non-numeric retries", "PIPELINE_MAX_RETRIES", "lots"},
		{"zero retries", "PIPELINE_MAX_RETRIES", "0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setRequired(t)
			t.Setenv(tt.key, tt.value)

			if _, err := Load(); err == nil {
				t.Error("Load() error = nil, want error")
			}
		})
	}
}
