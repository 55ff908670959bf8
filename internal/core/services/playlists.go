package services

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/soundprint-labs/soundprint/internal/core/domain"
	"github.com/soundprint-labs/soundprint/internal/core/ports"
)

// Playlists serves playlist reads that need local enrichment: catalog
// playlist tracks carry no feature vectors, so stored ones are merged in
// before any acoustic aggregation.
type Playlists struct {
	catalog ports.PrimaryCatalog
	repo    ports.TrackRepository
}

// NewPlaylists constructs a Playlists service.
func NewPlaylists(catalog ports.PrimaryCatalog, repo ports.TrackRepository) *Playlists {
	return &Playlists{catalog: catalog, repo: repo}
}

// Analysis returns the playlist together with its acoustic profile, the
// mean feature vector over every analyzed track. Tracks whose features
// were never computed are left out of the average; a playlist with no
// analyzed tracks yields a nil profile.
func (p *Playlists) Analysis(ctx context.Context, playlistID string) (domain.Playlist, domain.FeatureVector, error) {
	playlist, err := p.catalog.Playlist(ctx, playlistID)
	if err != nil {
		return domain.Playlist{}, nil, fmt.Errorf("playlists: %w", err)
	}

	for i, track := range playlist.Tracks {
		if len(track.Features) > 0 {
			continue
		}
		stored, err := p.repo.GetByID(ctx, track.ID)
		if err != nil {
			if !errors.Is(err, domain.ErrNotFound) {
				log.Printf("WARN playlists: lookup for track %s failed: %v", track.ID, err)
			}
			continue
		}
		playlist.Tracks[i].Features = stored.Features
	}

	return playlist, playlist.Analyze(), nil
}
