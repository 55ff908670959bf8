package spotify

import (
	"context"
	"errors"
	"fmt"
	"net/url"

	"github.com/soundprint-labs/soundprint/internal/core/domain"
	"github.com/soundprint-labs/soundprint/internal/core/ports"
)

// Playlist fetches a playlist with its tracks. Repeated entries of the
// same track collapse to the first occurrence.
func (c *Client) Playlist(ctx context.Context, id string) (domain.Playlist, error) {
	cacheKey := ports.CacheKey("spotify_playlist", id)
	var cached domain.Playlist
	if c.cacheGet(cacheKey, &cached) {
		return cached, nil
	}

	var body spotifyPlaylistDetail
	if err := c.getJSON(ctx, "/playlists/"+url.PathEscape(id), &body); err != nil {
		if errors.Is(err, errNotFound) {
			return domain.Playlist{}, fmt.Errorf("spotify adapter: playlist %q: %w", id, domain.ErrNotFound)
		}
		return domain.Playlist{}, fmt.Errorf("spotify adapter: playlist: %w", err)
	}

	playlist, err := domain.NewPlaylist(body.ID, body.Name)
	if err != nil {
		return domain.Playlist{}, fmt.Errorf("spotify adapter: playlist %q: %w", id, err)
	}
	for _, item := range body.Tracks.Items {
		if err := playlist.AddTrack(mapTrackToDomain(item.Track)); err != nil && !errors.Is(err, domain.ErrDuplicateTrack) {
			return domain.Playlist{}, fmt.Errorf("spotify adapter: playlist %q: %w", id, err)
		}
	}

	c.cacheSet(cacheKey, *playlist, ports.TTLDetails)
	return *playlist, nil
}

// CreatePlaylist creates a private playlist owned by the current user.
func (c *Client) CreatePlaylist(ctx context.Context, name, description string) (domain.Playlist, error) {
	userID, err := c.currentUserID(ctx)
	if err != nil {
		return domain.Playlist{}, err
	}

	body := map[string]any{
		"name":        name,
		"description": description,
		"public":      false,
	}

	var created spotifyPlaylist
	path := fmt.Sprintf("/users/%s/playlists", url.PathEscape(userID))
	if err := c.sendJSON(ctx, "POST", path, body, &created); err != nil {
		return domain.Playlist{}, fmt.Errorf("spotify adapter: create playlist: %w", err)
	}

	return domain.Playlist{ID: created.ID, Name: created.Name, Tracks: []domain.Track{}}, nil
}

// AddTracksToPlaylist appends tracks to a playlist.
func (c *Client) AddTracksToPlaylist(ctx context.Context, playlistID string, trackIDs []string) error {
	if len(trackIDs) == 0 {
		return nil
	}

	body := map[string][]string{"uris": trackURIs(trackIDs)}
	path := fmt.Sprintf("/playlists/%s/tracks", url.PathEscape(playlistID))
	if err := c.sendJSON(ctx, "POST", path, body, nil); err != nil {
		return fmt.Errorf("spotify adapter: add tracks: %w", err)
	}
	return nil
}

// RemoveTracksFromPlaylist removes all occurrences of the given tracks.
func (c *Client) RemoveTracksFromPlaylist(ctx context.Context, playlistID string, trackIDs []string) error {
	if len(trackIDs) == 0 {
		return nil
	}

	uris := trackURIs(trackIDs)
	items := make([]map[string]string, 0, len(uris))
	for _, uri := range uris {
		items = append(items, map[string]string{"uri": uri})
	}

	body := map[string]any{"tracks": items}
	path := fmt.Sprintf("/playlists/%s/tracks", url.PathEscape(playlistID))
	if err := c.sendJSON(ctx, "DELETE", path, body, nil); err != nil {
		return fmt.Errorf("spotify adapter: remove tracks: %w", err)
	}
	return nil
}

// UnfollowPlaylist removes the playlist from the current user's library.
// Spotify has no hard delete; unfollowing an owned playlist is the
// canonical way to discard it.
func (c *Client) UnfollowPlaylist(ctx context.Context, playlistID string) error {
	path := fmt.Sprintf("/playlists/%s/followers", url.PathEscape(playlistID))
	if err := c.sendJSON(ctx, "DELETE", path, nil, nil); err != nil {
		return fmt.Errorf("spotify adapter: unfollow playlist: %w", err)
	}
	return nil
}

func trackURIs(trackIDs []string) []string {
	uris := make([]string, 0, len(trackIDs))
	for _, id := range trackIDs {
		uris = append(uris, "spotify:track:"+id)
	}
	return uris
}
