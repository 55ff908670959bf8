package assets

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"sync/atomic"
	"testing"

	"github.com/soundprint-labs/soundprint/internal/core/domain"
)

func TestDownload_IdempotentPerTrackID(t *testing.T) {
	var hits atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.Write([]byte("fake mp3 bytes"))
	}))
	defer srv.Close()

	store, err := NewStore(t.TempDir(), srv.Client())
	if err != nil {
		t.Fatal(err)
	}

	first, err := store.Download(context.Background(), srv.URL, "track-1")
	if err != nil {
		t.Fatalf("first download: %v", err)
	}
	second, err := store.Download(context.Background(), srv.URL, "track-1")
	if err != nil {
		t.Fatalf("second download: %v", err)
	}

	if first != second {
		t.Fatalf("paths differ: %q vs %q", first, second)
	}
	if got := hits.Load(); got != 1 {
		t.Fatalf("expected exactly 1 network request, got %d", got)
	}

	data, err := os.ReadFile(first)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "fake mp3 bytes" {
		t.Fatalf("unexpected file content: %q", data)
	}
}

func TestDownload_ExistingAssetSkipsNetwork(t *testing.T) {
	store, err := NewStore(t.TempDir(), nil)
	if err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(store.Path("track-2"), []byte("already here"), 0o644); err != nil {
		t.Fatal(err)
	}

	// an unreachable URL proves no request is attempted
	path, err := store.Download(context.Background(), "http://127.0.0.1:1/preview.mp3", "track-2")
	if err != nil {
		t.Fatalf("expected cached asset, got error: %v", err)
	}
	if path != store.Path("track-2") {
		t.Fatalf("unexpected path %q", path)
	}
}

func TestDownload_NonSuccessStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusNotFound)
	}))
	defer srv.Close()

	store, err := NewStore(t.TempDir(), srv.Client())
	if err != nil {
		t.Fatal(err)
	}

	_, err = store.Download(context.Background(), srv.URL, "track-3")
	if !errors.Is(err, domain.ErrPreviewUnavailable) {
		t.Fatalf("expected ErrPreviewUnavailable, got %v", err)
	}
	if store.Has("track-3") {
		t.Fatal("failed download must not leave an asset behind")
	}
}

func TestDownload_InvalidURL(t *testing.T) {
	store, err := NewStore(t.TempDir(), nil)
	if err != nil {
		t.Fatal(err)
	}

	for _, url := range []string{"", "ftp://example.com/x.mp3", "not a url"} {
		if _, err := store.Download(context.Background(), url, "track-4"); !errors.Is(err, domain.ErrPreviewUnavailable) {
			t.Fatalf("url %q: expected ErrPreviewUnavailable, got %v", url, err)
		}
	}
}
