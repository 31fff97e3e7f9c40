package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/ewilliams-labs/lyricmood/internal/core/domain"
	"github.com/ewilliams-labs/lyricmood/internal/core/ports"
	"github.com/ewilliams-labs/lyricmood/internal/core/services"
	"github.com/ewilliams-labs/lyricmood/internal/worker"
)

// --- Mocks ---
// The Handler depends on the concrete *Pipeline, so we build a real one
// over mock ports instead of mocking the service itself.

type mockLyrics struct {
	text domain.LyricText
	err  error
}

func (m *mockLyrics) FetchLyrics(ctx context.Context, query domain.SongQuery) (domain.LyricText, error) {
	if m.err != nil {
		return domain.LyricText{}, m.err
	}
	return m.text, nil
}

type mockAnalyzer struct {
	report domain.EmotionReport
	err    error
}

func (m *mockAnalyzer) AnalyzeEmotions(ctx context.Context, lyrics string) (domain.EmotionReport, error) {
	if m.err != nil {
		return domain.EmotionReport{}, m.err
	}
	return m.report, nil
}

type mockRepo struct {
	results []domain.AnalysisResult
	listErr error
	getErr  error
}

func (m *mockRepo) Save(ctx context.Context, result domain.AnalysisResult) error {
	m.results = append(m.results, result)
	return nil
}

func (m *mockRepo) GetByID(ctx context.Context, id string) (domain.AnalysisResult, error) {
	if m.getErr != nil {
		return domain.AnalysisResult{}, m.getErr
	}
	for _, result := range m.results {
		if result.ID == id {
			return result, nil
		}
	}
	return domain.AnalysisResult{}, ports.ErrAnalysisNotFound
}

func (m *mockRepo) ListRecent(ctx context.Context, limit int) ([]domain.AnalysisResult, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	if limit > 0 && limit < len(m.results) {
		return m.results[:limit], nil
	}
	return m.results, nil
}

func foundLyrics() domain.LyricText {
	return domain.LyricText{
		Raw:         "Imagine there's no heaven\nIt's easy if you try",
		SourceFound: true,
		SourceURL:   "https://genius.com/john-lennon-imagine-lyrics",
	}
}

func happyReport() domain.EmotionReport {
	return domain.EmotionReport{
		Scores: domain.EmotionScores{
			Happiness: 0.6,
			Sadness:   0.1,
			Anger:     0.05,
			Fear:      0.05,
			Love:      0.2,
		},
		Confidence: 0.9,
		Summary:    "An optimistic vision of unity.",
	}
}

func newTestHandler(lyrics *mockLyrics, analyzer *mockAnalyzer, repo *mockRepo) *Handler {
	svc := services.NewPipeline(lyrics, analyzer, services.WithRetryPolicy(1, time.Millisecond))
	return NewHandler(svc, repo, nil)
}

// --- Tests ---

func TestHandler_HealthCheck(t *testing.T) {
	h := newTestHandler(&mockLyrics{}, &mockAnalyzer{}, &mockRepo{})

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("Status Code: got %d, want %d", rec.Code, http.StatusOK)
	}
	if !strings.Contains(rec.Body.String(), "\"status\":\"ok\"") {
		t.Errorf("Response Body: got %q, want ok status", rec.Body.String())
	}
}

func TestHandler_AnalyzeSong(t *testing.T) {
	tests := []struct {
		name           string
		body           map[string]string
		rawBody        string
		contentType    string
		lyrics         domain.LyricText
		lyricsErr      error
		analyzerErr    error
		expectedStatus int
		expectedBody   string
	}{
		{
			name:           "Success: returns scores",
			body:           map[string]string{"title": "Imagine", "artist": "John Lennon"},
			lyrics:         foundLyrics(),
			expectedStatus: http.StatusOK,
			expectedBody:   "\"dominant_emotion\":\"happiness\"",
		},
		{
			name:           "Bad Request: blank title",
			body:           map[string]string{"title": "   ", "artist": "John Lennon"},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   domain.ErrInvalidQuery.Error(),
		},
		{
			name:           "Bad Request: malformed json",
			rawBody:        `{invalid-json`,
			expectedStatus: http.StatusBadRequest,
			expectedBody:   "Invalid request body",
		},
		{
			name:           "Unsupported Media Type: missing content type",
			body:           map[string]string{"title": "Imagine", "artist": "John Lennon"},
			contentType:    "text/plain",
			expectedStatus: http.StatusUnsupportedMediaType,
			expectedBody:   "Content-Type must be application/json",
		},
		{
			name:           "Not Found: no lyric source",
			body:           map[string]string{"title": "Nonexistent", "artist": "Nobody"},
			lyrics:         domain.LyricText{SourceFound: false},
			expectedStatus: http.StatusNotFound,
			expectedBody:   "\"status\":\"lyrics_not_found\"",
		},
		{
			name:           "Bad Gateway: analyzer keeps failing",
			body:           map[string]string{"title": "Imagine", "artist": "John Lennon"},
			lyrics:         foundLyrics(),
			analyzerErr:    &ports.TransientError{Err: errors.New("upstream 503")},
			expectedStatus: http.StatusBadGateway,
			expectedBody:   "\"status\":\"analysis_failed\"",
		},
		{
			name:           "Bad Gateway: lyric provider auth failure",
			body:           map[string]string{"title": "Imagine", "artist": "John Lennon"},
			lyricsErr:      ports.ErrAuthFailed,
			expectedStatus: http.StatusBadGateway,
			expectedBody:   "\"status\":\"analysis_failed\"",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lyrics := &mockLyrics{text: tt.lyrics, err: tt.lyricsErr}
			analyzer := &mockAnalyzer{report: happyReport(), err: tt.analyzerErr}
			h := newTestHandler(lyrics, analyzer, &mockRepo{})

			var bodyBytes []byte
			if tt.rawBody != "" {
				bodyBytes = []byte(tt.rawBody)
			} else {
				bodyBytes, _ = json.Marshal(tt.body)
			}
			contentType := tt.contentType
			if contentType == "" {
				contentType = "application/json"
			}

			req := httptest.NewRequest(http.MethodPost, "/analyses", bytes.NewBuffer(bodyBytes))
			req.Header.Set("Content-Type", contentType)
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)

			if rec.Code != tt.expectedStatus {
				t.Errorf("Status Code: got %d, want %d, body: %s", rec.Code, tt.expectedStatus, strings.TrimSpace(rec.Body.String()))
			}
			if !strings.Contains(rec.Body.String(), tt.expectedBody) {
				t.Errorf("Response Body: got %q, want substring %q", rec.Body.String(), tt.expectedBody)
			}
		})
	}
}

func TestHandler_AnalyzeSongPersistsResult(t *testing.T) {
	repo := &mockRepo{}
	pool := worker.NewPool(repo, 10)
	pool.Start(1)

	svc := services.NewPipeline(
		&mockLyrics{text: foundLyrics()},
		&mockAnalyzer{report: happyReport()},
		services.WithRetryPolicy(1, time.Millisecond),
	)
	h := NewHandler(svc, repo, pool)

	bodyBytes, _ := json.Marshal(map[string]string{"title": "Imagine", "artist": "John Lennon"})
	req := httptest.NewRequest(http.MethodPost, "/analyses", bytes.NewBuffer(bodyBytes))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("Status Code: got %d, want %d", rec.Code, http.StatusOK)
	}

	pool.Stop()
	if len(repo.results) != 1 {
		t.Fatalf("saved %d results, want 1", len(repo.results))
	}
	if repo.results[0].Status != domain.StatusSuccess {
		t.Errorf("saved status = %q, want %q", repo.results[0].Status, domain.StatusSuccess)
	}
}

func TestHandler_ListAnalyses(t *testing.T) {
	stored := []domain.AnalysisResult{
		{ID: "a1", Status: domain.StatusSuccess},
		{ID: "a2", Status: domain.StatusLyricsNotFound},
	}

	tests := []struct {
		name           string
		target         string
		results        []domain.AnalysisResult
		listErr        error
		expectedStatus int
		expectedBody   string
	}{
		{
			name:           "Success: returns history",
			target:         "/analyses",
			results:        stored,
			expectedStatus: http.StatusOK,
			expectedBody:   "\"id\":\"a2\"",
		},
		{
			name:           "Success: applies limit",
			target:         "/analyses?limit=1",
			results:        stored,
			expectedStatus: http.StatusOK,
			expectedBody:   "\"id\":\"a1\"",
		},
		{
			name:           "Success: empty history returns empty array",
			target:         "/analyses",
			expectedStatus: http.StatusOK,
			expectedBody:   "[]",
		},
		{
			name:           "Bad Request: non-numeric limit",
			target:         "/analyses?limit=lots",
			expectedStatus: http.StatusBadRequest,
			expectedBody:   "limit must be a positive integer",
		},
		{
			name:           "Server Error: repo failure",
			target:         "/analyses",
			listErr:        errors.New("db locked"),
			expectedStatus: http.StatusInternalServerError,
			expectedBody:   "db locked",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &mockRepo{results: tt.results, listErr: tt.listErr}
			h := newTestHandler(&mockLyrics{}, &mockAnalyzer{}, repo)

			req := httptest.NewRequest(http.MethodGet, tt.target, nil)
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)

			if rec.Code != tt.expectedStatus {
				t.Errorf("Status Code: got %d, want %d", rec.Code, tt.expectedStatus)
			}
			if !strings.Contains(rec.Body.String(), tt.expectedBody) {
				t.Errorf("Response Body: got %q, want substring %q", rec.Body.String(), tt.expectedBody)
			}
		})
	}

	t.Run("Success: limit=1 excludes later rows", func(t *testing.T) {
		repo := &mockRepo{results: stored}
		h := newTestHandler(&mockLyrics{}, &mockAnalyzer{}, repo)

		req := httptest.NewRequest(http.MethodGet, "/analyses?limit=1", nil)
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)

		if strings.Contains(rec.Body.String(), "\"id\":\"a2\"") {
			t.Errorf("Response Body: got %q, want a1 only", rec.Body.String())
		}
	})
}

func TestHandler_GetAnalysis(t *testing.T) {
	stored := domain.AnalysisResult{
		ID:     "a1",
		Query:  domain.SongQuery{Title: "Imagine", Artist: "John Lennon"},
		Status: domain.StatusSuccess,
	}

	tests := []struct {
		name           string
		id             string
		getErr         error
		expectedStatus int
		expectedBody   string
	}{
		{
			name:           "Success: returns stored analysis",
			id:             "a1",
			expectedStatus: http.StatusOK,
			expectedBody:   "\"id\":\"a1\"",
		},
		{
			name:           "Not Found: unknown id",
			id:             "missing",
			expectedStatus: http.StatusNotFound,
			expectedBody:   ports.ErrAnalysisNotFound.Error(),
		},
		{
			name:           "Server Error: repo failure",
			id:             "a1",
			getErr:         errors.New("db locked"),
			expectedStatus: http.StatusInternalServerError,
			expectedBody:   "db locked",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &mockRepo{results: []domain.AnalysisResult{stored}, getErr: tt.getErr}
			h := newTestHandler(&mockLyrics{}, &mockAnalyzer{}, repo)

			req := httptest.NewRequest(http.MethodGet, "/analyses/"+tt.id, nil)
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)

			if rec.Code != tt.expectedStatus {
				t.Errorf("Status Code: got %d, want %d", rec.Code, tt.expectedStatus)
			}
			if !strings.Contains(rec.Body.String(), tt.expectedBody) {
				t.Errorf("Response Body: got %q, want substring %q", rec.Body.String(), tt.expectedBody)
			}
		})
	}
}
