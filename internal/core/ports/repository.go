package ports

import (
	"context"

	"github.com/soundprint-labs/soundprint/internal/core/domain"
)

// TrackRepository is the durable store for denormalized track records.
// The persisted feature vector is the authoritative cache tier: once set,
// it is never recomputed by this system.
type TrackRepository interface {
	GetByID(ctx context.Context, id string) (domain.Track, error)
	Save(ctx context.Context, t domain.Track) error
	UpdateTrackFeatures(ctx context.Context, id string, features domain.FeatureVector) error
	UpdatePreviewURL(ctx context.Context, id, previewURL string) error
}
