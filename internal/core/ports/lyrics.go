package ports

import (
	"context"

	"github.com/ewilliams-labs/lyricmood/internal/core/domain"
)

// LyricsProvider fetches raw lyrics for a song. A definitive miss is a
// value, not an error: the provider returns LyricText with
// SourceFound=false and leaves the error nil. Errors are reserved for
// faults (network, auth, rate limit, malformed responses).
type LyricsProvider interface {
	FetchLyrics(ctx context.Context, query domain.SongQuery) (domain.LyricText, error)
}

// LyricsCache is an optional read-through cache in front of the provider,
// keyed by normalized (artist, title). Implementations must be safe for
// concurrent use. A cache miss returns ok=false with a nil error.
type LyricsCache interface {
	Get(ctx context.Context, key string) (domain.LyricText, bool, error)
	Set(ctx context.Context, key string, lyrics domain.LyricText) error
}
