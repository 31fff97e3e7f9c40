package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/ewilliams-labs/lyricmood/internal/core/domain"
	"github.com/ewilliams-labs/lyricmood/internal/core/ports"
)

const redisKeyPrefix = "lyrics:"

// Redis caches lyrics in a shared Redis instance so multiple API
// replicas see the same entries. Redis handles TTL expiry itself.
type Redis struct {
	client *redis.Client
	ttl    time.Duration
}

var _ ports.LyricsCache = (*Redis)(nil)

// NewRedis connects to Redis and verifies the connection.
func NewRedis(ctx context.Context, addr string, password string, ttl time.Duration) (*Redis, error) {
	if ttl <= 0 {
		ttl = defaultTTL
	}
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis cache: ping: %w", err)
	}
	return &Redis{client: client, ttl: ttl}, nil
}

func (r *Redis) Get(ctx context.Context, key string) (domain.LyricText, bool, error) {
	raw, err := r.client.Get(ctx, redisKeyPrefix+key).Result()
	if err == redis.Nil {
		return domain.LyricText{}, false, nil
	}
	if err != nil {
		return domain.LyricText{}, false, fmt.Errorf("redis cache: get: %w", err)
	}

	var lyrics domain.LyricText
	if err := json.Unmarshal([]byte(raw), &lyrics); err != nil {
		// Treat a corrupt entry as a miss; it will be overwritten.
		return domain.LyricText{}, false, nil
	}
	return lyrics, true, nil
}

func (r *Redis) Set(ctx context.Context, key string, lyrics domain.LyricText) error {
	raw, err := json.Marshal(lyrics)
	if err != nil {
		return fmt.Errorf("redis cache: marshal: %w", err)
	}
	if err := r.client.Set(ctx, redisKeyPrefix+key, raw, r.ttl).Err(); err != nil {
		return fmt.Errorf("redis cache: set: %w", err)
	}
	return nil
}

// Close releases the underlying connection pool.
func (r *Redis) Close() error {
	return r.client.Close()
}
