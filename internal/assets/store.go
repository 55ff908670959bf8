// Package assets manages the local preview-clip directory: a permanent,
// write-once cache of short audio files keyed by track identifier.
package assets

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/soundprint-labs/soundprint/internal/core/domain"
)

// Store is the preview-asset directory. Files are never rewritten or
// expired; existence of previews/<id>.mp3 is the only freshness check.
type Store struct {
	dir        string
	httpClient *http.Client

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// NewStore creates the asset directory if needed. A nil httpClient gets a
// bounded default, matching the 15s budget used for preview fetches.
func NewStore(dir string, httpClient *http.Client) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("assets: create dir: %w", err)
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 15 * time.Second}
	}
	return &Store{
		dir:        dir,
		httpClient: httpClient,
		locks:      make(map[string]*sync.Mutex),
	}, nil
}

// Path returns the canonical location for a track's preview clip.
func (s *Store) Path(trackID string) string {
	return filepath.Join(s.dir, trackID+".mp3")
}

// Has reports whether a preview asset already exists for the track.
func (s *Store) Has(trackID string) bool {
	_, err := os.Stat(s.Path(trackID))
	return err == nil
}

// Download fetches previewURL and persists it at the canonical path.
// Idempotent: if the asset already exists the call returns immediately
// without any network request. A missing or non-http URL, or a non-200
// response, yields domain.ErrPreviewUnavailable.
//
// The write goes through a temp file and an atomic rename, guarded by a
// per-track lock, so concurrent callers never observe a partial file.
func (s *Store) Download(ctx context.Context, previewURL, trackID string) (string, error) {
	path := s.Path(trackID)
	if s.Has(trackID) {
		return path, nil
	}

	if !strings.HasPrefix(previewURL, "http") {
		return "", fmt.Errorf("assets: %w: missing or invalid preview url", domain.ErrPreviewUnavailable)
	}

	lock := s.trackLock(trackID)
	lock.Lock()
	defer lock.Unlock()

	// another caller may have won the race while we waited
	if s.Has(trackID) {
		return path, nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, previewURL, nil)
	if err != nil {
		return "", fmt.Errorf("assets: %w: %v", domain.ErrPreviewUnavailable, err)
	}
	resp, err := s.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("assets: %w: fetch: %v", domain.ErrPreviewUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("assets: %w: fetch status %d", domain.ErrPreviewUnavailable, resp.StatusCode)
	}

	tmp := path + ".tmp"
	f, err := os.Create(tmp)
	if err != nil {
		return "", fmt.Errorf("assets: write temp: %w", err)
	}
	if _, err := io.Copy(f, resp.Body); err != nil {
		f.Close()
		os.Remove(tmp)
		return "", fmt.Errorf("assets: %w: read body: %v", domain.ErrPreviewUnavailable, err)
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return "", fmt.Errorf("assets: close temp: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return "", fmt.Errorf("assets: finalize: %w", err)
	}

	return path, nil
}

func (s *Store) trackLock(trackID string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.locks[trackID]
	if !ok {
		l = &sync.Mutex{}
		s.locks[trackID] = l
	}
	return l
}
