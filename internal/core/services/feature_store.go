package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"

	"github.com/soundprint-labs/soundprint/internal/core/domain"
	"github.com/soundprint-labs/soundprint/internal/core/ports"
)

// FeatureStore is the tiered lookup for a track's acoustic feature vector:
// the persisted record first, then the TTL cache, then computation with
// write-through to both tiers. Failed computations are never cached, so a
// transient failure does not poison a track.
type FeatureStore struct {
	repo  ports.TrackRepository
	cache ports.Cache
}

// NewFeatureStore constructs a FeatureStore. cache may be nil.
func NewFeatureStore(repo ports.TrackRepository, cache ports.Cache) *FeatureStore {
	return &FeatureStore{repo: repo, cache: cache}
}

// GetOrCompute returns the track's feature vector, computing it at most
// once per cache lifetime. compute is only invoked when both tiers miss.
func (s *FeatureStore) GetOrCompute(ctx context.Context, trackID string, compute func() (domain.FeatureVector, error)) (domain.FeatureVector, error) {
	if stored, err := s.repo.GetByID(ctx, trackID); err == nil && len(stored.Features) > 0 {
		return stored.Features, nil
	} else if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return nil, fmt.Errorf("feature store: %w", err)
	}

	cacheKey := ports.CacheKey("features", trackID)
	if s.cache != nil {
		if raw, ok := s.cache.Get(cacheKey); ok {
			var features domain.FeatureVector
			if err := json.Unmarshal(raw, &features); err == nil {
				return features, nil
			}
		}
	}

	features, err := compute()
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if raw, err := json.Marshal(features); err == nil {
			s.cache.Set(cacheKey, raw, ports.TTLFeatures)
		}
	}
	if err := s.repo.UpdateTrackFeatures(ctx, trackID, features); err != nil {
		// the durable tier is best effort here; the caller still gets the vector
		log.Printf("WARN feature store: failed to persist features for %s: %v", trackID, err)
	}

	return features, nil
}
