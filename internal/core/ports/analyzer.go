package ports

import (
	"context"
	"errors"

	"github.com/ewilliams-labs/lyricmood/internal/core/domain"
)

// ErrInputTooLarge reports that the model provider rejected the payload
// outright. Oversized lyrics are truncated before sending, so this only
// surfaces when the provider still refuses the request.
var ErrInputTooLarge = errors.New("analyzer: input too large for model provider")

// EmotionAnalyzer scores normalized lyric text across the five fixed
// categories. The returned report always carries a valid distribution;
// anything the adapter cannot validate or rescale comes back as an error
// (ErrMalformedResponse, domain.ErrDegenerateScores, auth/transient/rate
// variants from this package).
type EmotionAnalyzer interface {
	AnalyzeEmotions(ctx context.Context, lyrics string) (domain.EmotionReport, error)
}
