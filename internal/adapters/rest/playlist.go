package rest

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/soundprint-labs/soundprint/internal/core/domain"
)

type createPlaylistRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

type playlistTracksRequest struct {
	TrackIDs []string `json:"track_ids"`
}

type playlistResponse struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// playlistAnalysisResponse reports the mean feature vector over a
// playlist's analyzed tracks. Profile is null when none are analyzed.
type playlistAnalysisResponse struct {
	ID         string               `json:"id"`
	Name       string               `json:"name"`
	TrackCount int                  `json:"track_count"`
	Profile    domain.FeatureVector `json:"profile"`
}

// CreatePlaylist handles POST /playlists
func (h *Handler) CreatePlaylist(w http.ResponseWriter, r *http.Request) {
	var req createPlaylistRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Name == "" {
		writeError(w, http.StatusBadRequest, "playlist name is required")
		return
	}

	playlist, err := h.catalog.CreatePlaylist(r.Context(), req.Name, req.Description)
	if err != nil {
		writeError(w, http.StatusBadGateway, err.Error())
		return
	}

	writeJSON(w, http.StatusCreated, playlistResponse{ID: playlist.ID, Name: playlist.Name})
}

// PlaylistAnalysis handles GET /playlists/{id}/analysis
func (h *Handler) PlaylistAnalysis(w http.ResponseWriter, r *http.Request) {
	playlistID := r.PathValue("id")

	playlist, profile, err := h.playlists.Analysis(r.Context(), playlistID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			writeError(w, http.StatusNotFound, "playlist not found")
			return
		}
		writeError(w, http.StatusBadGateway, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, playlistAnalysisResponse{
		ID:         playlist.ID,
		Name:       playlist.Name,
		TrackCount: len(playlist.Tracks),
		Profile:    profile,
	})
}

// AddPlaylistTracks handles POST /playlists/{id}/tracks
func (h *Handler) AddPlaylistTracks(w http.ResponseWriter, r *http.Request) {
	playlistID := r.PathValue("id")

	var req playlistTracksRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if len(req.TrackIDs) == 0 {
		writeError(w, http.StatusBadRequest, "track_ids is required")
		return
	}

	if err := h.catalog.AddTracksToPlaylist(r.Context(), playlistID, req.TrackIDs); err != nil {
		writeError(w, http.StatusBadGateway, err.Error())
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// RemovePlaylistTracks handles DELETE /playlists/{id}/tracks
func (h *Handler) RemovePlaylistTracks(w http.ResponseWriter, r *http.Request) {
	playlistID := r.PathValue("id")

	var req playlistTracksRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if len(req.TrackIDs) == 0 {
		writeError(w, http.StatusBadRequest, "track_ids is required")
		return
	}

	if err := h.catalog.RemoveTracksFromPlaylist(r.Context(), playlistID, req.TrackIDs); err != nil {
		writeError(w, http.StatusBadGateway, err.Error())
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// UnfollowPlaylist handles DELETE /playlists/{id}
func (h *Handler) UnfollowPlaylist(w http.ResponseWriter, r *http.Request) {
	playlistID := r.PathValue("id")

	if err := h.catalog.UnfollowPlaylist(r.Context(), playlistID); err != nil {
		writeError(w, http.StatusBadGateway, err.Error())
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
