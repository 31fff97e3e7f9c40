// Package config loads runtime configuration from the environment, with
// optional .env support for local development.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds everything main needs to wire the application.
type Config struct {
	HTTPAddr string

	GeniusAccessToken string

	GroqAPIKey string
	GroqModel  string

	CacheDriver   string // "memory" or "redis"
	RedisAddr     string
	RedisPassword string

	StoragePath string

	MaxRetries   int
	RetryBackoff time.Duration
}

// Load reads configuration from the environment. A .env file in the working
// directory is merged in first when present; real environment variables win.
func Load() (Config, error) {
	_ = godotenv.Load()

	cfg := Config{
		HTTPAddr:          getEnv("HTTP_ADDR", ":8080"),
		GeniusAccessToken: os.Getenv("GENIUS_ACCESS_TOKEN"),
		GroqAPIKey:        os.Getenv("GROQ_API_KEY"),
		GroqModel:         os.Getenv("GROQ_MODEL"),
		CacheDriver:       getEnv("CACHE_DRIVER", "memory"),
		RedisAddr:         getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword:     os.Getenv("REDIS_PASSWORD"),
		StoragePath:       getEnv("ANALYSIS_DB", "lyricmood.db"),
	}

	if cfg.GeniusAccessToken == "" {
		return Config{}, fmt.Errorf("missing required environment variable: GENIUS_ACCESS_TOKEN")
	}
	if cfg.GroqAPIKey == "" {
		return Config{}, fmt.Errorf("missing required environment variable: GROQ_API_KEY")
	}

	retries, err := getEnvInt("PIPELINE_MAX_RETRIES", 3)
	if err != nil {
		return Config{}, err
	}
	cfg.MaxRetries = retries

	backoffMs, err := getEnvInt("PIPELINE_RETRY_BACKOFF_MS", 500)
	if err != nil {
		return Config{}, err
	}
	cfg.RetryBackoff = time.Duration(backoffMs) * time.Millisecond

	switch cfg.CacheDriver {
	case "memory", "redis":
	default:
		return Config{}, fmt.Errorf("unknown cache driver: %s", cfg.CacheDriver)
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) (int, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback, nil
	}
	value, err := strconv.Atoi(raw)
	if err != nil || value < 1 {
		return 0, fmt.Errorf("%s must be a positive integer, got %q", key, raw)
	}
	return value, nil
}
