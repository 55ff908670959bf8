package rest

import (
	"encoding/json"
	"net/http"

	"github.com/soundprint-labs/soundprint/internal/core/domain"
	"github.com/soundprint-labs/soundprint/internal/similarity"
)

type trackResponse struct {
	ID         string `json:"id"`
	Title      string `json:"title"`
	Artist     string `json:"artist"`
	Album      string `json:"album,omitempty"`
	DurationMs int    `json:"duration_ms,omitempty"`
	CoverURL   string `json:"cover_url,omitempty"`
	PreviewURL string `json:"preview_url,omitempty"`
}

type searchResponse struct {
	Results []trackResponse `json:"results"`
}

type recommendationsResponse struct {
	Seed    string              `json:"seed"`
	Results []similarity.Result `json:"results"`
}

type statsResponse struct {
	ListeningTimeHours float64 `json:"listening_time_hours"`
	FavoriteGenre      string  `json:"favorite_genre,omitempty"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func toTrackResponse(t domain.Track) trackResponse {
	return trackResponse{
		ID:         t.ID,
		Title:      t.Title,
		Artist:     t.Artist,
		Album:      t.Album,
		DurationMs: t.DurationMs,
		CoverURL:   t.CoverURL,
		PreviewURL: t.PreviewURL,
	}
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message})
}
