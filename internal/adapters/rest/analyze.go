package rest

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/ewilliams-labs/lyricmood/internal/core/domain"
	"github.com/ewilliams-labs/lyricmood/internal/core/ports"
)

const maxListLimit = 100

// analyzeRequest defines what the client sends us
type analyzeRequest struct {
	Title  string `json:"title"`
	Artist string `json:"artist"`
}

// analysisResponse adds the lyric source to the wire form of a result;
// the raw lyric text itself is never exposed.
type analysisResponse struct {
	domain.AnalysisResult
	SourceURL string `json:"source_url,omitempty"`
}

func toResponse(result domain.AnalysisResult) analysisResponse {
	return analysisResponse{AnalysisResult: result, SourceURL: result.Lyrics.SourceURL}
}

// AnalyzeSong handles POST /analyses
func (h *Handler) AnalyzeSong(w http.ResponseWriter, r *http.Request) {
	if !isJSONContentType(r) {
		writeError(w, http.StatusUnsupportedMediaType, "Content-Type must be application/json")
		return
	}

	// 1. Decode the Request Body
	var req analyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	// 2. Call the Service (The Core Logic)
	// We pass the Context so the pipeline can cancel long-running calls if the user disconnects
	result, err := h.svc.Run(r.Context(), req.Title, req.Artist)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidQuery) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	// 3. Persist in the background; the response never waits on storage
	if h.pool != nil {
		h.pool.Submit(result)
	}

	// 4. Map the terminal status onto the HTTP status
	switch result.Status {
	case domain.StatusSuccess:
		writeJSON(w, http.StatusOK, toResponse(result))
	case domain.StatusLyricsNotFound:
		writeJSON(w, http.StatusNotFound, toResponse(result))
	case domain.StatusAnalysisFailed:
		writeJSON(w, http.StatusBadGateway, toResponse(result))
	default:
		writeError(w, http.StatusInternalServerError, "unknown analysis status")
	}
}

// ListAnalyses handles GET /analyses
func (h *Handler) ListAnalyses(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			writeError(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = parsed
	}
	if limit > maxListLimit {
		limit = maxListLimit
	}

	results, err := h.repo.ListRecent(r.Context(), limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	responses := make([]analysisResponse, 0, len(results))
	for _, result := range results {
		responses = append(responses, toResponse(result))
	}
	writeJSON(w, http.StatusOK, responses)
}

// GetAnalysis handles GET /analyses/{id}
func (h *Handler) GetAnalysis(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "analysis id is required")
		return
	}

	result, err := h.repo.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, ports.ErrAnalysisNotFound) {
			writeError(w, http.StatusNotFound, err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, toResponse(result))
}
