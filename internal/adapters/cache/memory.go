// Package cache provides lyrics cache implementations behind the
// ports.LyricsCache interface: a bounded in-process cache for single
// instances and a Redis-backed one for shared deployments.
package cache

import (
	"context"
	"sync"
	"time"

	"github.com/ewilliams-labs/lyricmood/internal/core/domain"
	"github.com/ewilliams-labs/lyricmood/internal/core/ports"
)

const (
	defaultMaxEntries = 100
	defaultTTL        = time.Hour
)

type entry struct {
	lyrics  domain.LyricText
	addedAt time.Time
}

// Memory is a bounded TTL cache. When full, the oldest entry is evicted.
type Memory struct {
	mu         sync.Mutex
	entries    map[string]entry
	maxEntries int
	ttl        time.Duration
	now        func() time.Time
}

var _ ports.LyricsCache = (*Memory)(nil)

// NewMemory creates a memory cache. Non-positive arguments fall back to
// the defaults (100 entries, 1 hour).
func NewMemory(maxEntries int, ttl time.Duration) *Memory {
	if maxEntries <= 0 {
		maxEntries = defaultMaxEntries
	}
	if ttl <= 0 {
		ttl = defaultTTL
	}
	return &Memory{
		entries:    make(map[string]entry, maxEntries),
		maxEntries: maxEntries,
		ttl:        ttl,
		now:        time.Now,
	}
}

func (m *Memory) Get(ctx context.Context, key string) (domain.LyricText, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.entries[key]
	if !ok {
		return domain.LyricText{}, false, nil
	}
	if m.now().Sub(e.addedAt) > m.ttl {
		delete(m.entries, key)
		return domain.LyricText{}, false, nil
	}
	return e.lyrics, true, nil
}

func (m *Memory) Set(ctx context.Context, key string, lyrics domain.LyricText) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.entries[key]; !exists && len(m.entries) >= m.maxEntries {
		m.evictOldestLocked()
	}
	m.entries[key] = entry{lyrics: lyrics, addedAt: m.now()}
	return nil
}

func (m *Memory) evictOldestLocked() {
	var oldestKey string
	var oldestAt time.Time
	first := true
	for key, e := range m.entries {
		if first || e.addedAt.Before(oldestAt) {
			oldestKey = key
			oldestAt = e.addedAt
			first = false
		}
	}
	if oldestKey != "" {
		delete(m.entries, oldestKey)
	}
}
