// Package saavn implements the secondary-catalog port against the JioSaavn
// public API. It exists solely to locate downloadable preview audio for
// tracks the primary catalog cannot provide a preview for.
package saavn

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/soundprint-labs/soundprint/internal/core/ports"
	"github.com/soundprint-labs/soundprint/internal/httpretry"
)

const (
	// DefaultBaseURL is the public endpoint root.
	DefaultBaseURL = "https://www.jiosaavn.com"

	// DefaultSearchLimit bounds text-search results.
	DefaultSearchLimit = 10
)

// artwork URLs embed a dimension token like "150x150"; details always
// report the 500x500 variant
var imageDimensions = regexp.MustCompile(`\d+x\d+`)

// Client is an HTTP client for the JioSaavn adapter.
type Client struct {
	httpClient *http.Client
	baseURL    string
	cache      ports.Cache
	retry      httpretry.Policy
}

// compile-time interface assertion
var _ ports.SecondaryCatalog = (*Client)(nil)

// NewClient constructs a JioSaavn client. Search and detail responses are
// cached for an hour through the supplied cache.
func NewClient(httpClient *http.Client, baseURL string, cache ports.Cache) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 15 * time.Second}
	}
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		httpClient: httpClient,
		baseURL:    strings.TrimRight(baseURL, "/"),
		cache:      cache,
		retry:      httpretry.Policy{Name: "saavn adapter"},
	}
}

// SearchTracks runs the free-text autocomplete search, truncated to limit.
// An empty query returns an empty list without touching the network.
func (c *Client) SearchTracks(ctx context.Context, query string, limit int) ([]ports.SearchHit, error) {
	if strings.TrimSpace(query) == "" {
		return []ports.SearchHit{}, nil
	}
	if limit <= 0 {
		limit = DefaultSearchLimit
	}

	cacheKey := ports.CacheKey("saavn_search", query, strconv.Itoa(limit))
	if raw, ok := c.cacheGet(cacheKey); ok {
		var hits []ports.SearchHit
		if err := json.Unmarshal(raw, &hits); err == nil {
			return hits, nil
		}
	}

	endpoint := fmt.Sprintf(
		"%s/api.php?__call=autocomplete.get&_format=json&_marker=0&cc=in&includeMetaTags=1&query=%s",
		c.baseURL, url.QueryEscape(query),
	)

	var body searchResponse
	if err := c.getJSON(ctx, endpoint, &body); err != nil {
		return nil, fmt.Errorf("saavn adapter: search: %w", err)
	}

	songs := body.Songs.Data
	if len(songs) > limit {
		songs = songs[:limit]
	}
	hits := make([]ports.SearchHit, 0, len(songs))
	for _, s := range songs {
		hits = append(hits, ports.SearchHit{ID: s.ID, Title: s.Title})
	}

	c.cacheSet(cacheKey, hits, ports.TTLSearch)
	return hits, nil
}

// TrackDetails fetches the full detail record for a track id. The artwork
// URL is normalized to 500x500 and the duration converted to milliseconds.
// The primary preview link (vlink) wins over the secondary media preview.
func (c *Client) TrackDetails(ctx context.Context, id string) (ports.TrackDetails, error) {
	cacheKey := ports.CacheKey("saavn_track", id)
	if raw, ok := c.cacheGet(cacheKey); ok {
		var details ports.TrackDetails
		if err := json.Unmarshal(raw, &details); err == nil {
			return details, nil
		}
	}

	endpoint := fmt.Sprintf(
		"%s/api.php?__call=song.getDetails&cc=in&_marker=0%%3F_marker%%3D0&_format=json&pids=%s",
		c.baseURL, url.QueryEscape(id),
	)

	var body map[string]songDetail
	if err := c.getJSON(ctx, endpoint, &body); err != nil {
		return ports.TrackDetails{}, fmt.Errorf("saavn adapter: details: %w", err)
	}

	detail, ok := body[id]
	if !ok {
		return ports.TrackDetails{}, fmt.Errorf("saavn adapter: details: track %q not in response", id)
	}

	durationMs := 0
	if seconds, err := strconv.Atoi(detail.Duration); err == nil {
		durationMs = seconds * 1000
	}

	previewURL := detail.VLink
	if previewURL == "" {
		previewURL = detail.MediaPreviewURL
	}

	details := ports.TrackDetails{
		ID:         detail.ID,
		Title:      detail.Song,
		Artist:     detail.PrimaryArtists,
		Album:      detail.Album,
		Year:       detail.Year,
		ImageURL:   imageDimensions.ReplaceAllString(detail.Image, "500x500"),
		DurationMs: durationMs,
		PreviewURL: previewURL,
	}

	c.cacheSet(cacheKey, details, ports.TTLDetails)
	return details, nil
}

// getJSON performs a GET with bounded retry on transient failures.
func (c *Client) getJSON(ctx context.Context, endpoint string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return err
	}

	resp, err := c.retry.Do(c.httpClient, req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("status %d", resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode: %w", err)
	}
	return nil
}

func (c *Client) cacheGet(key string) ([]byte, bool) {
	if c.cache == nil {
		return nil, false
	}
	return c.cache.Get(key)
}

func (c *Client) cacheSet(key string, value any, ttl time.Duration) {
	if c.cache == nil {
		return
	}
	raw, err := json.Marshal(value)
	if err != nil {
		return
	}
	c.cache.Set(key, raw, ttl)
}
