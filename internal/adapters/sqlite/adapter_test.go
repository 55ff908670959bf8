package sqlite

import (
	"context"
	"errors"
	"testing"

	"github.com/soundprint-labs/soundprint/internal/core/domain"
)

func testFeatures(tempo float64) domain.FeatureVector {
	fv := make(domain.FeatureVector, len(domain.FeatureKeys))
	for _, key := range domain.FeatureKeys {
		fv[key] = 0.5
	}
	fv["tempo"] = tempo
	return fv
}

func newTestAdapter(t *testing.T) *Adapter {
	t.Helper()
	a, err := NewAdapter(":memory:")
	if err != nil {
		t.Fatalf("new adapter: %v", err)
	}
	t.Cleanup(func() { a.Close() })
	return a
}

func TestAdapter_GetByID(t *testing.T) {
	tests := []struct {
		name    string
		setup   func(t *testing.T, a *Adapter) string
		wantErr error
		want    domain.Track
	}{
		{
			name: "not found",
			setup: func(t *testing.T, a *Adapter) string {
				return "missing"
			},
			wantErr: domain.ErrNotFound,
		},
		{
			name: "round trips full record",
			setup: func(t *testing.T, a *Adapter) string {
				track := domain.Track{
					ID:         "t1",
					Title:      "Song One",
					Artist:     "Artist A",
					Album:      "Album A",
					DurationMs: 123000,
					CoverURL:   "https://img.test/1.jpg",
					PreviewURL: "https://cdn.test/t1.mp3",
					Features:   testFeatures(120),
				}
				if err := a.Save(context.Background(), track); err != nil {
					t.Fatalf("save track: %v", err)
				}
				return track.ID
			},
			want: domain.Track{
				ID:         "t1",
				Title:      "Song One",
				Artist:     "Artist A",
				Album:      "Album A",
				DurationMs: 123000,
				CoverURL:   "https://img.test/1.jpg",
				PreviewURL: "https://cdn.test/t1.mp3",
			},
		},
		{
			name: "record without features",
			setup: func(t *testing.T, a *Adapter) string {
				track := domain.Track{ID: "t2", Title: "Bare", Artist: "Artist B"}
				if err := a.Save(context.Background(), track); err != nil {
					t.Fatalf("save track: %v", err)
				}
				return track.ID
			},
			want: domain.Track{ID: "t2", Title: "Bare", Artist: "Artist B"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := newTestAdapter(t)

			id := tt.setup(t, a)
			got, err := a.GetByID(context.Background(), id)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("expected error %v, got %v", tt.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got.ID != tt.want.ID || got.Title != tt.want.Title || got.Artist != tt.want.Artist {
				t.Fatalf("metadata mismatch: %+v", got)
			}
			if got.Album != tt.want.Album || got.DurationMs != tt.want.DurationMs {
				t.Fatalf("metadata mismatch: %+v", got)
			}
			if got.CoverURL != tt.want.CoverURL || got.PreviewURL != tt.want.PreviewURL {
				t.Fatalf("url mismatch: %+v", got)
			}
		})
	}
}

func TestAdapter_FeatureRoundTrip(t *testing.T) {
	a := newTestAdapter(t)
	ctx := context.Background()

	track := domain.Track{ID: "t1", Title: "Song", Artist: "Artist", Features: testFeatures(98.5)}
	if err := a.Save(ctx, track); err != nil {
		t.Fatalf("save: %v", err)
	}

	got, err := a.GetByID(ctx, "t1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if len(got.Features) != len(domain.FeatureKeys) {
		t.Fatalf("features: got %d keys, want %d", len(got.Features), len(domain.FeatureKeys))
	}
	if got.Features["tempo"] != 98.5 {
		t.Fatalf("tempo: got %v, want 98.5", got.Features["tempo"])
	}
	if _, err := got.Features.Values(); err != nil {
		t.Fatalf("stored vector invalid: %v", err)
	}
}

func TestAdapter_SavePreservesFeatures(t *testing.T) {
	a := newTestAdapter(t)
	ctx := context.Background()

	if err := a.Save(ctx, domain.Track{ID: "t1", Title: "Song", Artist: "Artist", Features: testFeatures(120)}); err != nil {
		t.Fatalf("initial save: %v", err)
	}

	// a later catalog refresh carries no features; the stored vector must survive
	if err := a.Save(ctx, domain.Track{ID: "t1", Title: "Song (Refreshed)", Artist: "Artist"}); err != nil {
		t.Fatalf("refresh save: %v", err)
	}

	got, err := a.GetByID(ctx, "t1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Title != "Song (Refreshed)" {
		t.Fatalf("title not refreshed: %q", got.Title)
	}
	if len(got.Features) == 0 {
		t.Fatal("stored features were lost on metadata refresh")
	}
}

func TestAdapter_UpdateTrackFeatures(t *testing.T) {
	a := newTestAdapter(t)
	ctx := context.Background()

	if err := a.Save(ctx, domain.Track{ID: "t1", Title: "Song", Artist: "Artist"}); err != nil {
		t.Fatalf("save: %v", err)
	}

	if err := a.UpdateTrackFeatures(ctx, "t1", testFeatures(140)); err != nil {
		t.Fatalf("update features: %v", err)
	}

	got, err := a.GetByID(ctx, "t1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Features["tempo"] != 140 {
		t.Fatalf("tempo: got %v, want 140", got.Features["tempo"])
	}

	if err := a.UpdateTrackFeatures(ctx, "missing", testFeatures(140)); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for unknown track, got %v", err)
	}
}

func TestAdapter_UpdatePreviewURL(t *testing.T) {
	a := newTestAdapter(t)
	ctx := context.Background()

	if err := a.Save(ctx, domain.Track{ID: "t1", Title: "Song", Artist: "Artist"}); err != nil {
		t.Fatalf("save: %v", err)
	}

	if err := a.UpdatePreviewURL(ctx, "t1", "https://cdn.test/t1.mp3"); err != nil {
		t.Fatalf("update preview: %v", err)
	}

	got, err := a.GetByID(ctx, "t1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.PreviewURL != "https://cdn.test/t1.mp3" {
		t.Fatalf("preview url: got %q", got.PreviewURL)
	}

	if err := a.UpdatePreviewURL(ctx, "missing", "https://x"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for unknown track, got %v", err)
	}
}
