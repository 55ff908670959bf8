// Package services contains the application core: preview resolution,
// feature storage, recommendation ranking, and listening stats. Services
// depend on ports only; adapters are injected at wiring time.
package services

import (
	"context"
	"log"

	"github.com/soundprint-labs/soundprint/internal/core/ports"
	"github.com/soundprint-labs/soundprint/internal/searchtext"
)

// assetStore is the slice of the preview asset store the resolver needs.
type assetStore interface {
	Has(trackID string) bool
	Path(trackID string) string
	Download(ctx context.Context, previewURL, trackID string) (string, error)
}

// Resolver locates a downloadable preview clip for a loosely identified
// track. An already-downloaded asset short-circuits without any network
// traffic; otherwise the secondary catalog is searched and the first hit
// is treated as authoritative.
type Resolver struct {
	secondary ports.SecondaryCatalog
	assets    assetStore
	repo      ports.TrackRepository
}

// compile-time interface assertion
var _ ports.PreviewResolver = (*Resolver)(nil)

// NewResolver constructs a Resolver. repo may be nil, in which case resolved
// preview URLs are not persisted.
func NewResolver(secondary ports.SecondaryCatalog, assets assetStore, repo ports.TrackRepository) *Resolver {
	return &Resolver{
		secondary: secondary,
		assets:    assets,
		repo:      repo,
	}
}

// ResolvePreview returns the local path of the track's preview clip,
// downloading it on first use. All failure modes come back as a
// ResolutionError matching domain.ErrPreviewUnavailable.
func (r *Resolver) ResolvePreview(ctx context.Context, title, artist, trackID string) (string, error) {
	if r.assets.Has(trackID) {
		return r.assets.Path(trackID), nil
	}

	query := searchtext.Query(title, artist)
	if query == "" {
		return "", ports.ResolutionError{TrackID: trackID, Reason: "no searchable metadata"}
	}

	hits, err := r.secondary.SearchTracks(ctx, query, ports.DefaultSecondarySearchLimit)
	if err != nil {
		return "", ports.ResolutionError{TrackID: trackID, Query: query, Reason: err.Error()}
	}
	if len(hits) == 0 {
		return "", ports.ResolutionError{TrackID: trackID, Query: query, Reason: "no search results"}
	}

	// the top hit wins; no re-ranking
	details, err := r.secondary.TrackDetails(ctx, hits[0].ID)
	if err != nil {
		return "", ports.ResolutionError{TrackID: trackID, Query: query, Reason: err.Error()}
	}
	if details.PreviewURL == "" {
		return "", ports.ResolutionError{TrackID: trackID, Query: query, Reason: "no preview url in details"}
	}

	if r.repo != nil {
		if err := r.repo.UpdatePreviewURL(ctx, trackID, details.PreviewURL); err != nil {
			log.Printf("WARN resolver: failed to persist preview url for %s: %v", trackID, err)
		}
	}

	path, err := r.assets.Download(ctx, details.PreviewURL, trackID)
	if err != nil {
		return "", ports.ResolutionError{TrackID: trackID, Query: query, Reason: err.Error()}
	}

	return path, nil
}
