package genius

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/ewilliams-labs/lyricmood/internal/core/ports"
)

// classifyStatus maps a non-2xx Genius response to the shared error
// taxonomy so the pipeline can tell retryable faults from terminal ones.
func classifyStatus(resp *http.Response) error {
	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return fmt.Errorf("genius adapter: status %d: %w", resp.StatusCode, ports.ErrAuthFailed)
	case resp.StatusCode == http.StatusTooManyRequests:
		return &ports.RateLimitError{Provider: "genius", RetryAfter: parseRetryAfter(resp)}
	case resp.StatusCode >= http.StatusInternalServerError:
		return &ports.TransientError{Err: fmt.Errorf("genius adapter: status %d", resp.StatusCode)}
	default:
		return fmt.Errorf("genius adapter: unexpected status %d: %w", resp.StatusCode, ports.ErrMalformedResponse)
	}
}

// classifyTransport wraps transport-level failures as retryable. When the
// caller's own context is done the cancellation passes through untouched
// so the pipeline stops instead of retrying; client-side timeouts stay
// transient.
func classifyTransport(ctx context.Context, err error) error {
	if ctx.Err() != nil {
		return fmt.Errorf("genius adapter: %w", ctx.Err())
	}
	return &ports.TransientError{Err: fmt.Errorf("genius adapter: %w", err)}
}

func parseRetryAfter(resp *http.Response) time.Duration {
	retryAfter := resp.Header.Get("Retry-After")
	if retryAfter == "" {
		return 0
	}

	if seconds, err := strconv.Atoi(retryAfter); err == nil && seconds > 0 {
		return time.Duration(seconds) * time.Second
	}

	if when, err := http.ParseTime(retryAfter); err == nil {
		until := time.Until(when)
		if until > 0 {
			return until
		}
	}

	return 0
}
