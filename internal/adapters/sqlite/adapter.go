// Package sqlite provides a SQLite-backed implementation of the analysis
// history repository port.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3" // Import the driver anonymously

	"github.com/ewilliams-labs/lyricmood/internal/core/domain"
	"github.com/ewilliams-labs/lyricmood/internal/core/ports"
)

const defaultListLimit = 20

// Adapter implements the repository port for SQLite
type Adapter struct {
	db *sql.DB
}

var _ ports.AnalysisRepository = (*Adapter)(nil)

// NewAdapter creates a connection and runs the schema migration
func NewAdapter(storagePath string) (*Adapter, error) {
	db, err := sql.Open("sqlite3", storagePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite db: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping sqlite db: %w", err)
	}

	adapter := &Adapter{db: db}
	if err := adapter.migrate(); err != nil {
		return nil, fmt.Errorf("migration failed: %w", err)
	}

	return adapter, nil
}

// Close ensures the DB connection is closed gracefully
func (a *Adapter) Close() error {
	return a.db.Close()
}

// Save stores one finished analysis. Score columns stay NULL for
// non-success rows, mirroring the invariant that failed runs carry no
// partial distributions.
func (a *Adapter) Save(ctx context.Context, result domain.AnalysisResult) error {
	query := `
		INSERT INTO analyses (
			id, title, artist, status, reason, source_url,
			happiness, sadness, anger, fear, love,
			dominant_emotion, confidence, summary, analyzed_at
		)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO NOTHING;
	`

	var happiness, sadness, anger, fear, love sql.NullFloat64
	var dominant sql.NullString
	if result.Scores != nil {
		happiness = sql.NullFloat64{Float64: result.Scores.Happiness, Valid: true}
		sadness = sql.NullFloat64{Float64: result.Scores.Sadness, Valid: true}
		anger = sql.NullFloat64{Float64: result.Scores.Anger, Valid: true}
		fear = sql.NullFloat64{Float64: result.Scores.Fear, Valid: true}
		love = sql.NullFloat64{Float64: result.Scores.Love, Valid: true}
		dominant = sql.NullString{String: string(result.Dominant), Valid: true}
	}

	if _, err := a.db.ExecContext(
		ctx,
		query,
		result.ID,
		result.Query.Title,
		result.Query.Artist,
		string(result.Status),
		result.Reason,
		result.Lyrics.SourceURL,
		happiness,
		sadness,
		anger,
		fear,
		love,
		dominant,
		result.Confidence,
		result.Summary,
		result.AnalyzedAt.UTC().Format(time.RFC3339Nano),
	); err != nil {
		return fmt.Errorf("failed to save analysis %s: %w", result.ID, err)
	}

	return nil
}

func (a *Adapter) GetByID(ctx context.Context, id string) (domain.AnalysisResult, error) {
	row := a.db.QueryRowContext(ctx, selectColumns+" FROM analyses WHERE id = ?", id)
	result, err := scanAnalysis(row)
	if err == sql.ErrNoRows {
		return domain.AnalysisResult{}, ports.ErrAnalysisNotFound
	}
	if err != nil {
		return domain.AnalysisResult{}, fmt.Errorf("failed to load analysis: %w", err)
	}
	return result, nil
}

func (a *Adapter) ListRecent(ctx context.Context, limit int) ([]domain.AnalysisResult, error) {
	if limit <= 0 {
		limit = defaultListLimit
	}

	rows, err := a.db.QueryContext(ctx, selectColumns+" FROM analyses ORDER BY analyzed_at DESC LIMIT ?", limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list analyses: %w", err)
	}
	defer rows.Close()

	results := []domain.AnalysisResult{}
	for rows.Next() {
		result, err := scanAnalysis(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan analysis: %w", err)
		}
		results = append(results, result)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate analyses: %w", err)
	}

	return results, nil
}

const selectColumns = `
	SELECT id, title, artist, status, reason, source_url,
		happiness, sadness, anger, fear, love,
		dominant_emotion, confidence, summary, analyzed_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanAnalysis(row rowScanner) (domain.AnalysisResult, error) {
	var result domain.AnalysisResult
	var status string
	var reason, sourceURL, dominant, summary sql.NullString
	var happiness, sadness, anger, fear, love, confidence sql.NullFloat64
	var analyzedAt string

	if err := row.Scan(
		&result.ID,
		&result.Query.Title,
		&result.Query.Artist,
		&status,
		&reason,
		&sourceURL,
		&happiness,
		&sadness,
		&anger,
		&fear,
		&love,
		&dominant,
		&confidence,
		&summary,
		&analyzedAt,
	); err != nil {
		return domain.AnalysisResult{}, err
	}

	result.Status = domain.Status(status)
	if reason.Valid {
		result.Reason = reason.String
	}
	if sourceURL.Valid {
		result.Lyrics.SourceURL = sourceURL.String
	}
	if summary.Valid {
		result.Summary = summary.String
	}
	if confidence.Valid {
		result.Confidence = confidence.Float64
	}
	if happiness.Valid && sadness.Valid && anger.Valid && fear.Valid && love.Valid {
		result.Scores = &domain.EmotionScores{
			Happiness: happiness.Float64,
			Sadness:   sadness.Float64,
			Anger:     anger.Float64,
			Fear:      fear.Float64,
			Love:      love.Float64,
		}
	}
	if dominant.Valid {
		result.Dominant = domain.EmotionCategory(dominant.String)
	}
	if ts, err := time.Parse(time.RFC3339Nano, analyzedAt); err == nil {
		result.AnalyzedAt = ts
	}

	return result, nil
}

func (a *Adapter) migrate() error {
	query := `
	CREATE TABLE IF NOT EXISTS analyses (
		id TEXT PRIMARY KEY,
		title TEXT NOT NULL,
		artist TEXT NOT NULL,
		status TEXT NOT NULL,
		reason TEXT,
		source_url TEXT,
		happiness REAL,
		sadness REAL,
		anger REAL,
		fear REAL,
		love REAL,
		dominant_emotion TEXT,
		confidence REAL,
		summary TEXT,
		analyzed_at TEXT NOT NULL,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE INDEX IF NOT EXISTS idx_analyses_analyzed_at ON analyses(analyzed_at DESC);
	`
	if _, err := a.db.Exec(query); err != nil {
		return err
	}

	return nil
}
