package ports

import (
	"context"
	"errors"

	"github.com/ewilliams-labs/lyricmood/internal/core/domain"
)

var ErrAnalysisNotFound = errors.New("analysis not found")

// AnalysisRepository stores finished analyses for the history views.
type AnalysisRepository interface {
	Save(ctx context.Context, result domain.AnalysisResult) error
	GetByID(ctx context.Context, id string) (domain.AnalysisResult, error)
	ListRecent(ctx context.Context, limit int) ([]domain.AnalysisResult, error)
}
