package ports

import (
	"errors"
	"fmt"
	"time"
)

// Shared error taxonomy for the provider adapters. The pipeline only cares
// whether a failure is worth retrying; adapters decide the classification.
var (
	ErrAuthFailed        = errors.New("provider authentication failed")
	ErrMalformedResponse = errors.New("malformed provider response")
)

// TransientError wraps a fault the caller may retry: connection failures,
// timeouts, provider 5xx responses.
type TransientError struct {
	Err error
}

func (e *TransientError) Error() string {
	return fmt.Sprintf("transient provider error: %v", e.Err)
}

func (e *TransientError) Unwrap() error { return e.Err }

// RateLimitError reports a 429 from a provider, with the server's
// Retry-After hint when it sent one.
type RateLimitError struct {
	Provider   string
	RetryAfter time.Duration
}

func (e *RateLimitError) Error() string {
	if e.RetryAfter > 0 {
		return fmt.Sprintf("%s: rate limited, retry after %s", e.Provider, e.RetryAfter)
	}
	return fmt.Sprintf("%s: rate limited", e.Provider)
}

// IsRetryable reports whether err is a transient or rate-limit failure.
func IsRetryable(err error) bool {
	var t *TransientError
	var r *RateLimitError
	return errors.As(err, &t) || errors.As(err, &r)
}

// RetryAfterHint extracts the provider's Retry-After delay, or zero.
func RetryAfterHint(err error) time.Duration {
	var r *RateLimitError
	if errors.As(err, &r) {
		return r.RetryAfter
	}
	return 0
}
