// Package services holds the core analysis pipeline. It orchestrates the
// lyrics provider and the emotion analyzer behind their ports, applies the
// retry policy, and reduces every run to a single terminal status.
package services

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/ewilliams-labs/lyricmood/internal/core/domain"
	"github.com/ewilliams-labs/lyricmood/internal/core/ports"
)

const (
	defaultMaxAttempts = 3
	defaultBaseBackoff = 500 * time.Millisecond
)

// Pipeline runs fetch -> normalize -> analyze for one song query.
// Invocations are independent; the only shared state is the optional
// lyrics cache, which must be safe for concurrent use.
type Pipeline struct {
	lyrics   ports.LyricsProvider
	analyzer ports.EmotionAnalyzer
	cache    ports.LyricsCache

	maxAttempts int
	baseBackoff time.Duration
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithCache installs a read-through lyrics cache.
func WithCache(c ports.LyricsCache) Option {
	return func(p *Pipeline) { p.cache = c }
}

// WithRetryPolicy overrides the bounded-retry defaults.
func WithRetryPolicy(attempts int, baseBackoff time.Duration) Option {
	return func(p *Pipeline) {
		if attempts > 0 {
			p.maxAttempts = attempts
		}
		if baseBackoff > 0 {
			p.baseBackoff = baseBackoff
		}
	}
}

// NewPipeline constructs a Pipeline.
func NewPipeline(lyrics ports.LyricsProvider, analyzer ports.EmotionAnalyzer, opts ...Option) *Pipeline {
	p := &Pipeline{
		lyrics:      lyrics,
		analyzer:    analyzer,
		maxAttempts: defaultMaxAttempts,
		baseBackoff: defaultBaseBackoff,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Run executes one analysis. Invalid input fails fast with
// domain.ErrInvalidQuery before any network call; every other outcome is a
// terminal status on the result, never a partial score set.
func (p *Pipeline) Run(ctx context.Context, title, artist string) (domain.AnalysisResult, error) {
	query, err := domain.NewSongQuery(title, artist)
	if err != nil {
		return domain.AnalysisResult{}, err
	}

	result := domain.AnalysisResult{
		ID:         uuid.NewString(),
		Query:      query,
		AnalyzedAt: time.Now().UTC(),
	}

	lyrics, err := p.fetchLyrics(ctx, query)
	if err != nil {
		return failed(result, fmt.Errorf("fetch lyrics: %w", err)), nil
	}
	if !lyrics.SourceFound {
		result.Lyrics = lyrics
		result.Status = domain.StatusLyricsNotFound
		return result, nil
	}

	lyrics.Normalized = NormalizeLyrics(lyrics.Raw)
	result.Lyrics = lyrics
	if lyrics.Normalized == "" {
		// Nothing left after cleaning is the same as never finding lyrics.
		result.Status = domain.StatusLyricsNotFound
		return result, nil
	}

	var report domain.EmotionReport
	err = p.withRetry(ctx, "analyze emotions", func(ctx context.Context) error {
		var aerr error
		report, aerr = p.analyzer.AnalyzeEmotions(ctx, lyrics.Normalized)
		return aerr
	})
	if err != nil {
		return failed(result, fmt.Errorf("analyze emotions: %w", err)), nil
	}

	scores := report.Scores
	result.Status = domain.StatusSuccess
	result.Scores = &scores
	result.Dominant = scores.Dominant()
	result.Confidence = report.Confidence
	result.Summary = report.Summary
	return result, nil
}

func failed(result domain.AnalysisResult, err error) domain.AnalysisResult {
	result.Status = domain.StatusAnalysisFailed
	result.Scores = nil
	result.Reason = err.Error()
	return result
}

func (p *Pipeline) fetchLyrics(ctx context.Context, query domain.SongQuery) (domain.LyricText, error) {
	key := cacheKey(query)
	if p.cache != nil {
		hit, ok, err := p.cache.Get(ctx, key)
		if err != nil {
			log.Printf("WARN pipeline: lyrics cache get: %v", err)
		} else if ok {
			return hit, nil
		}
	}

	var lyrics domain.LyricText
	err := p.withRetry(ctx, "fetch lyrics", func(ctx context.Context) error {
		var ferr error
		lyrics, ferr = p.lyrics.FetchLyrics(ctx, query)
		return ferr
	})
	if err != nil {
		return domain.LyricText{}, err
	}

	if p.cache != nil && lyrics.SourceFound {
		if err := p.cache.Set(ctx, key, lyrics); err != nil {
			log.Printf("WARN pipeline: lyrics cache set: %v", err)
		}
	}
	return lyrics, nil
}

func cacheKey(query domain.SongQuery) string {
	artist := strings.Join(strings.Fields(strings.ToLower(query.Artist)), " ")
	title := strings.Join(strings.Fields(strings.ToLower(query.Title)), " ")
	return artist + "|" + title
}

// withRetry runs fn up to maxAttempts times, retrying only errors the
// adapters classified as retryable. Backoff doubles per attempt; a
// provider Retry-After hint overrides the computed delay.
func (p *Pipeline) withRetry(ctx context.Context, op string, fn func(context.Context) error) error {
	maxAttempts := p.maxAttempts
	if maxAttempts <= 0 {
		maxAttempts = defaultMaxAttempts
	}
	baseBackoff := p.baseBackoff
	if baseBackoff <= 0 {
		baseBackoff = defaultBaseBackoff
	}

	var lastErr error
	for attempt := 0; attempt < maxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("pipeline: %s canceled: %w", op, err)
		}

		lastErr = fn(ctx)
		if lastErr == nil {
			return nil
		}
		if !ports.IsRetryable(lastErr) {
			return lastErr
		}
		if attempt == maxAttempts-1 {
			break
		}

		backoff := baseBackoff * time.Duration(1<<attempt)
		if hint := ports.RetryAfterHint(lastErr); hint > 0 {
			backoff = hint
		}
		log.Printf("WARN pipeline: %s attempt %d/%d failed, retrying in %s: %v", op, attempt+1, maxAttempts, backoff, lastErr)

		if err := sleepWithContext(ctx, backoff); err != nil {
			return fmt.Errorf("pipeline: %s canceled: %w", op, err)
		}
	}

	return fmt.Errorf("pipeline: %s failed after %d attempts: %w", op, maxAttempts, lastErr)
}

func sleepWithContext(ctx context.Context, delay time.Duration) error {
	if delay <= 0 {
		return nil
	}

	timer := time.NewTimer(delay)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
