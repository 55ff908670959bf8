package spotify

import (
	"context"
	"errors"
	"fmt"
	"net/url"

	"github.com/soundprint-labs/soundprint/internal/core/domain"
	"github.com/soundprint-labs/soundprint/internal/core/ports"
)

// Artist fetches a single artist by id.
func (c *Client) Artist(ctx context.Context, id string) (domain.Artist, error) {
	cacheKey := ports.CacheKey("spotify_artist", id)
	var cached domain.Artist
	if c.cacheGet(cacheKey, &cached) {
		return cached, nil
	}

	var body spotifyArtist
	if err := c.getJSON(ctx, "/artists/"+url.PathEscape(id), &body); err != nil {
		if errors.Is(err, errNotFound) {
			return domain.Artist{}, fmt.Errorf("spotify adapter: artist %q: %w", id, domain.ErrNotFound)
		}
		return domain.Artist{}, fmt.Errorf("spotify adapter: artist: %w", err)
	}

	artist := mapArtistToDomain(body)
	c.cacheSet(cacheKey, artist, ports.TTLDetails)
	return artist, nil
}

// SearchArtist resolves an artist by name; the top search result wins.
func (c *Client) SearchArtist(ctx context.Context, name string) (domain.Artist, error) {
	cacheKey := ports.CacheKey("spotify_artist_search", name)
	var cached domain.Artist
	if c.cacheGet(cacheKey, &cached) {
		return cached, nil
	}

	params := url.Values{}
	params.Set("q", name)
	params.Set("type", "artist")
	params.Set("limit", "1")
	path := "/search?" + params.Encode()

	var body struct {
		Artists struct {
			Items []spotifyArtist `json:"items"`
		} `json:"artists"`
	}
	if err := c.getJSON(ctx, path, &body); err != nil {
		return domain.Artist{}, fmt.Errorf("spotify adapter: artist search: %w", err)
	}

	if len(body.Artists.Items) == 0 {
		return domain.Artist{}, fmt.Errorf("spotify adapter: artist %q: %w", name, domain.ErrNotFound)
	}

	artist := mapArtistToDomain(body.Artists.Items[0])
	c.cacheSet(cacheKey, artist, ports.TTLDetails)
	return artist, nil
}

// ArtistTopTracks fetches an artist's top tracks. The result set changes
// more often than other catalog data, so it is cached for five minutes only.
func (c *Client) ArtistTopTracks(ctx context.Context, artistID string) ([]domain.Track, error) {
	cacheKey := ports.CacheKey("spotify_artist_top_tracks", artistID)
	var cached []domain.Track
	if c.cacheGet(cacheKey, &cached) {
		return cached, nil
	}

	path := fmt.Sprintf("/artists/%s/top-tracks?market=US", url.PathEscape(artistID))
	var body struct {
		Tracks []spotifyTrack `json:"tracks"`
	}
	if err := c.getJSON(ctx, path, &body); err != nil {
		if errors.Is(err, errNotFound) {
			return nil, fmt.Errorf("spotify adapter: artist %q: %w", artistID, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("spotify adapter: top tracks: %w", err)
	}

	tracks := mapTracksToDomain(body.Tracks)
	c.cacheSet(cacheKey, tracks, ports.TTLArtistTopTracks)
	return tracks, nil
}
