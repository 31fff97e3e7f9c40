package domain

import "time"

// Status is the terminal outcome of one pipeline run.
type Status string

const (
	StatusSuccess        Status = "success"
	StatusLyricsNotFound Status = "lyrics_not_found"
	StatusAnalysisFailed Status = "analysis_failed"
)

// AnalysisResult is created once per run and never mutated afterwards.
// Scores is nil unless Status is StatusSuccess; the pipeline never returns
// a partially populated distribution.
type AnalysisResult struct {
	ID         string          `json:"id"`
	Query      SongQuery       `json:"query"`
	Lyrics     LyricText       `json:"-"`
	Scores     *EmotionScores  `json:"scores,omitempty"`
	Dominant   EmotionCategory `json:"dominant_emotion,omitempty"`
	Confidence float64         `json:"confidence,omitempty"`
	Summary    string          `json:"summary,omitempty"`
	Status     Status          `json:"status"`
	Reason     string          `json:"reason,omitempty"`
	AnalyzedAt time.Time       `json:"analyzed_at"`
}
