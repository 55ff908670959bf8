// Package spotify implements the primary-catalog port against the Spotify
// Web API. It supplies the user's listening history, search, artist lookups,
// and playlist management; it never computes acoustic features itself.
package spotify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"

	"github.com/soundprint-labs/soundprint/internal/core/ports"
	"github.com/soundprint-labs/soundprint/internal/httpretry"
)

// DefaultBaseURL is the Spotify Web API root.
const DefaultBaseURL = "https://api.spotify.com/v1"

const tokenURL = "https://accounts.spotify.com/api/token"

// Client is an HTTP client for the Spotify adapter.
type Client struct {
	httpClient *http.Client
	baseURL    string
	cache      ports.Cache
	retry      httpretry.Policy
}

// compile-time interface assertion
var _ ports.PrimaryCatalog = (*Client)(nil)

// NewClient constructs a Spotify client around an already-authenticated
// HTTP client; the user-scoped endpoints (/me and below) only work when
// that client carries a user token. The cache may be nil, in which case
// every call goes upstream. Retry bounds are tunable through
// SPOTIFY_MAX_RETRIES and SPOTIFY_RETRY_BACKOFF_MS.
func NewClient(httpClient *http.Client, baseURL string, cache ports.Cache) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		httpClient: httpClient,
		baseURL:    strings.TrimRight(baseURL, "/"),
		cache:      cache,
		retry:      retryPolicyFromEnv(),
	}
}

// NewClientCredentials constructs a Spotify client that authenticates with
// the client-credentials grant. Token refresh is handled by the oauth2
// transport; the returned client shares its lifetime with ctx.
//
// A client-credentials token has no user context: search, artist and
// public playlist lookups work, but the /me endpoints (top tracks,
// recently played, playlist creation) are rejected upstream. Use
// NewClientWithToken or inject a user-authorized http.Client via NewClient
// for those.
func NewClientCredentials(ctx context.Context, clientID, clientSecret string, cache ports.Cache) *Client {
	conf := &clientcredentials.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		TokenURL:     tokenURL,
	}
	return NewClient(conf.Client(ctx), DefaultBaseURL, cache)
}

// NewClientWithToken constructs a Spotify client around a user-scoped
// bearer token, obtained out of band through the authorization-code flow.
// The token is used as is and never refreshed.
func NewClientWithToken(ctx context.Context, accessToken string, cache ports.Cache) *Client {
	source := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: accessToken})
	return NewClient(oauth2.NewClient(ctx, source), DefaultBaseURL, cache)
}

func retryPolicyFromEnv() httpretry.Policy {
	policy := httpretry.Policy{Name: "spotify adapter"}
	if raw := os.Getenv("SPOTIFY_MAX_RETRIES"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 {
			policy.MaxAttempts = parsed
		}
	}
	if raw := os.Getenv("SPOTIFY_RETRY_BACKOFF_MS"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 {
			policy.BaseBackoff = time.Duration(parsed) * time.Millisecond
		}
	}
	return policy
}

// getJSON performs a GET against an API path and decodes the response body.
func (c *Client) getJSON(ctx context.Context, path string, out any) error {
	return c.sendJSON(ctx, http.MethodGet, path, nil, out)
}

// sendJSON performs a request with an optional JSON body. A nil out discards
// the response body. 404 responses map to errNotFound so callers can
// translate them to domain errors.
func (c *Client) sendJSON(ctx context.Context, method, path string, body any, out any) error {
	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("spotify adapter: marshal request: %w", err)
		}
		reader = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("spotify adapter: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.retry.Do(c.httpClient, req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return errNotFound
	case resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices:
		return fmt.Errorf("spotify adapter: status %d", resp.StatusCode)
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("spotify adapter: decode: %w", err)
	}
	return nil
}

func (c *Client) cacheGet(key string, out any) bool {
	if c.cache == nil {
		return false
	}
	raw, ok := c.cache.Get(key)
	if !ok {
		return false
	}
	return json.Unmarshal(raw, out) == nil
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
