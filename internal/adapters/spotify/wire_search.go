package spotify

import (
	"context"
	"fmt"
	"log"
	"net/url"
	"strconv"
	"strings"

	"github.com/soundprint-labs/soundprint/internal/core/domain"
)

const defaultSearchLimit = 10

// SearchTracks runs a free-text track search. The first result is the best
// match by Spotify's own ranking; no re-ranking happens here. An empty query
// returns an empty list without touching the network.
func (c *Client) SearchTracks(ctx context.Context, query string, limit int) ([]domain.Track, error) {
	if strings.TrimSpace(query) == "" {
		return []domain.Track{}, nil
	}
	if limit <= 0 {
		limit = defaultSearchLimit
	}

	params := url.Values{}
	params.Set("q", query)
	params.Set("type", "track")
	params.Set("limit", strconv.Itoa(limit))
	path := "/search?" + params.Encode()

	log.Printf("DEBUG spotify adapter: track search query %q", query)

	var body struct {
		Tracks trackPaging `json:"tracks"`
	}
	if err := c.getJSON(ctx, path, &body); err != nil {
		return nil, fmt.Errorf("spotify adapter: search: %w", err)
	}

	return mapTracksToDomain(body.Tracks.Items), nil
}
