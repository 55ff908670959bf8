// Package rest is the thin HTTP surface over the core services. Handlers
// translate query parameters and status codes only; all behavior lives in
// the services they delegate to.
package rest

import (
	"net/http"
	"strconv"

	"github.com/soundprint-labs/soundprint/internal/core/domain"
	"github.com/soundprint-labs/soundprint/internal/core/ports"
	"github.com/soundprint-labs/soundprint/internal/core/services"
)

// Analyzer accepts tracks for background feature analysis.
type Analyzer interface {
	Submit(track domain.Track)
}

// Handler manages the HTTP interface for our application.
type Handler struct {
	recommender *services.Recommender
	stats       *services.Stats
	playlists   *services.Playlists
	catalog     ports.PrimaryCatalog
	analyzer    Analyzer
	router      *http.ServeMux
}

// NewHandler initializes the HTTP adapter and sets up routes. analyzer may
// be nil, in which case search results are not queued for analysis.
func NewHandler(recommender *services.Recommender, stats *services.Stats, playlists *services.Playlists, catalog ports.PrimaryCatalog, analyzer Analyzer) *Handler {
	h := &Handler{
		recommender: recommender,
		stats:       stats,
		playlists:   playlists,
		catalog:     catalog,
		analyzer:    analyzer,
		router:      http.NewServeMux(),
	}

	h.routes()

	return h
}

// ServeHTTP satisfies the http.Handler interface.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.router.ServeHTTP(w, r)
}

// routes defines the mapping between URLs and methods.
func (h *Handler) routes() {
	h.router.HandleFunc("GET /health", h.HealthCheck)
	h.router.HandleFunc("GET /search", h.SearchTracks)
	h.router.HandleFunc("GET /tracks/{id}/recommendations", h.Recommendations)
	h.router.HandleFunc("GET /stats", h.ListeningStats)
	h.router.HandleFunc("POST /playlists", h.CreatePlaylist)
	h.router.HandleFunc("GET /playlists/{id}/analysis", h.PlaylistAnalysis)
	h.router.HandleFunc("POST /playlists/{id}/tracks", h.AddPlaylistTracks)
	h.router.HandleFunc("DELETE /playlists/{id}/tracks", h.RemovePlaylistTracks)
	h.router.HandleFunc("DELETE /playlists/{id}", h.UnfollowPlaylist)
}

// HealthCheck is a simple endpoint to verify the API is running.
func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// SearchTracks handles GET /search?q=...&limit=...
func (h *Handler) SearchTracks(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	if query == "" {
		writeError(w, http.StatusBadRequest, "query parameter q is required")
		return
	}
	limit := parseLimit(r, 10)

	tracks, err := h.catalog.SearchTracks(r.Context(), query, limit)
	if err != nil {
		writeError(w, http.StatusBadGateway, err.Error())
		return
	}

	results := make([]trackResponse, 0, len(tracks))
	for _, t := range tracks {
		results = append(results, toTrackResponse(t))
		// warm the feature store off the request path
		if h.analyzer != nil {
			h.analyzer.Submit(t)
		}
	}
	writeJSON(w, http.StatusOK, searchResponse{Results: results})
}

// Recommendations handles GET /tracks/{id}/recommendations?limit=...
func (h *Handler) Recommendations(w http.ResponseWriter, r *http.Request) {
	seedID := r.PathValue("id")
	if seedID == "" {
		writeError(w, http.StatusBadRequest, "track id is required")
		return
	}
	limit := parseLimit(r, 0)

	results, err := h.recommender.Recommend(r.Context(), seedID, limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, recommendationsResponse{Seed: seedID, Results: results})
}

// ListeningStats handles GET /stats
func (h *Handler) ListeningStats(w http.ResponseWriter, r *http.Request) {
	hours, err := h.stats.ListeningTimeHours(r.Context())
	if err != nil {
		writeError(w, http.StatusBadGateway, err.Error())
		return
	}
	genre, err := h.stats.FavoriteGenre(r.Context())
	if err != nil {
		writeError(w, http.StatusBadGateway, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, statsResponse{ListeningTimeHours: hours, FavoriteGenre: genre})
}

func parseLimit(r *http.Request, fallback int) int {
	raw := r.URL.Query().Get("limit")
	if raw == "" {
		return fallback
	}
	limit, err := strconv.Atoi(raw)
	if err != nil || limit < 1 {
		return fallback
	}
	return limit
}
