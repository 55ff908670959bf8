package spotify

import (
	"context"
	"fmt"

	"github.com/soundprint-labs/soundprint/internal/core/domain"
	"github.com/soundprint-labs/soundprint/internal/core/ports"
)

const libraryPageLimit = 15

// currentUserID resolves the authenticated user's id. The profile is
// immutable for the lifetime of a token, so it is cached aggressively.
func (c *Client) currentUserID(ctx context.Context) (string, error) {
	cacheKey := "spotify_user:me"
	var user spotifyUser
	if c.cacheGet(cacheKey, &user) {
		return user.ID, nil
	}

	if err := c.getJSON(ctx, "/me", &user); err != nil {
		return "", fmt.Errorf("spotify adapter: current user: %w", err)
	}

	c.cacheSet(cacheKey, user, ports.TTLUserLibrary)
	return user.ID, nil
}

// CurrentUserTopTracks returns the user's medium-term top tracks,
// cached per user for an hour.
func (c *Client) CurrentUserTopTracks(ctx context.Context) ([]domain.Track, error) {
	userID, err := c.currentUserID(ctx)
	if err != nil {
		return nil, err
	}

	cacheKey := ports.CacheKey("spotify_top_tracks", userID)
	var cached []domain.Track
	if c.cacheGet(cacheKey, &cached) {
		return cached, nil
	}

	path := fmt.Sprintf("/me/top/tracks?limit=%d&time_range=medium_term", libraryPageLimit)
	var body trackPaging
	if err := c.getJSON(ctx, path, &body); err != nil {
		return nil, fmt.Errorf("spotify adapter: top tracks: %w", err)
	}

	tracks := mapTracksToDomain(body.Items)
	c.cacheSet(cacheKey, tracks, ports.TTLUserLibrary)
	return tracks, nil
}

// CurrentUserRecentlyPlayed returns the user's most recent listens, newest
// first, with PlayedAt populated from the play history timestamps.
func (c *Client) CurrentUserRecentlyPlayed(ctx context.Context) ([]domain.Track, error) {
	userID, err := c.currentUserID(ctx)
	if err != nil {
		return nil, err
	}

	cacheKey := ports.CacheKey("spotify_recently_played", userID)
	var cached []domain.Track
	if c.cacheGet(cacheKey, &cached) {
		return cached, nil
	}

	path := fmt.Sprintf("/me/player/recently-played?limit=%d", libraryPageLimit)
	var body struct {
		Items []playHistoryItem `json:"items"`
	}
	if err := c.getJSON(ctx, path, &body); err != nil {
		return nil, fmt.Errorf("spotify adapter: recently played: %w", err)
	}

	tracks := make([]domain.Track, 0, len(body.Items))
	for _, item := range body.Items {
		track := mapTrackToDomain(item.Track)
		track.PlayedAt = item.PlayedAt
		tracks = append(tracks, track)
	}

	c.cacheSet(cacheKey, tracks, ports.TTLUserLibrary)
	return tracks, nil
}
