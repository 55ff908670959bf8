package ports

import (
	"context"
	"fmt"

	"github.com/soundprint-labs/soundprint/internal/core/domain"
)

// ResolutionError provides context for a failed preview resolution.
// It matches domain.ErrPreviewUnavailable under errors.Is, so callers can
// treat all resolution failures uniformly as "skip this track".
type ResolutionError struct {
	TrackID string
	Query   string
	Reason  string
}

func (e ResolutionError) Error() string {
	if e.Query == "" {
		return fmt.Sprintf("no preview for track %q: %s", e.TrackID, e.Reason)
	}
	return fmt.Sprintf("no preview for track %q (query %q): %s", e.TrackID, e.Query, e.Reason)
}

func (e ResolutionError) Is(target error) bool {
	return target == domain.ErrPreviewUnavailable
}

// PreviewResolver maps a loosely identified track to a local preview asset,
// downloading it on first use. The returned path is stable for a given
// track ID.
type PreviewResolver interface {
	ResolvePreview(ctx context.Context, title, artist, trackID string) (string, error)
}

// FeatureExtractor computes the canonical acoustic feature vector from a
// local audio clip. Extraction is deterministic over the clip's bytes.
type FeatureExtractor interface {
	Extract(path string) (domain.FeatureVector, error)
}
