package rest

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/ewilliams-labs/lyricmood/internal/core/ports"
	"github.com/ewilliams-labs/lyricmood/internal/core/services"
	"github.com/ewilliams-labs/lyricmood/internal/worker"
)

// Handler manages the HTTP interface for our application.
type Handler struct {
	svc    *services.Pipeline      // Dependency on the Core Service
	repo   ports.AnalysisRepository
	pool   *worker.Pool
	router *http.ServeMux // Standard library router
}

// NewHandler initializes the HTTP adapter and sets up routes.
func NewHandler(svc *services.Pipeline, repo ports.AnalysisRepository, pool *worker.Pool) *Handler {
	h := &Handler{
		svc:    svc,
		repo:   repo,
		pool:   pool,
		router: http.NewServeMux(),
	}

	h.routes()

	return h
}

// ServeHTTP satisfies the http.Handler interface.
// It acts as a proxy, passing the request to our internal router.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.router.ServeHTTP(w, r)
}

// routes defines the mapping between URLs and methods.
func (h *Handler) routes() {
	h.router.HandleFunc("GET /health", h.HealthCheck)
	h.router.HandleFunc("POST /analyses", h.AnalyzeSong)
	h.router.HandleFunc("GET /analyses", h.ListAnalyses)
	h.router.HandleFunc("GET /analyses/{id}", h.GetAnalysis)
}

// HealthCheck is a simple endpoint to verify the API is running.
func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok", "message": "LyricMood is live 🎤"})
}

func isJSONContentType(r *http.Request) bool {
	contentType := r.Header.Get("Content-Type")
	return strings.HasPrefix(contentType, "application/json")
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
