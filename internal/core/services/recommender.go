package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strconv"

	"github.com/soundprint-labs/soundprint/internal/core/domain"
	"github.com/soundprint-labs/soundprint/internal/core/ports"
	"github.com/soundprint-labs/soundprint/internal/similarity"
)

// Recommender ranks the user's listening pool against a seed track by
// acoustic similarity. Tracks whose previews cannot be resolved or decoded
// are silently skipped; an unresolvable seed yields an empty list, not an
// error.
type Recommender struct {
	catalog   ports.PrimaryCatalog
	repo      ports.TrackRepository
	resolver  ports.PreviewResolver
	extractor ports.FeatureExtractor
	features  *FeatureStore
	cache     ports.Cache
}

// NewRecommender constructs a Recommender. cache may be nil.
func NewRecommender(
	catalog ports.PrimaryCatalog,
	repo ports.TrackRepository,
	resolver ports.PreviewResolver,
	extractor ports.FeatureExtractor,
	features *FeatureStore,
	cache ports.Cache,
) *Recommender {
	return &Recommender{
		catalog:   catalog,
		repo:      repo,
		resolver:  resolver,
		extractor: extractor,
		features:  features,
		cache:     cache,
	}
}

// Recommend returns up to limit tracks from the user's listening pool,
// ranked by cosine similarity to the seed track's feature vector.
// Results are cached per (seed, limit) pair.
func (r *Recommender) Recommend(ctx context.Context, seedID string, limit int) ([]similarity.Result, error) {
	if limit <= 0 {
		limit = similarity.DefaultLimit
	}

	cacheKey := ports.CacheKey("recommendations", seedID, strconv.Itoa(limit))
	if r.cache != nil {
		if raw, ok := r.cache.Get(cacheKey); ok {
			var results []similarity.Result
			if err := json.Unmarshal(raw, &results); err == nil {
				return results, nil
			}
		}
	}

	seed, err := r.repo.GetByID(ctx, seedID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			log.Printf("WARN recommender: unknown seed %s", seedID)
			return []similarity.Result{}, nil
		}
		return nil, fmt.Errorf("recommender: seed lookup: %w", err)
	}

	seedFeatures, err := r.trackFeatures(ctx, seed)
	if err != nil {
		if errors.Is(err, domain.ErrPreviewUnavailable) || errors.Is(err, domain.ErrFeaturesUnavailable) {
			log.Printf("WARN recommender: seed %s unresolvable: %v", seedID, err)
			return []similarity.Result{}, nil
		}
		return nil, fmt.Errorf("recommender: seed features: %w", err)
	}

	pool, err := r.candidatePool(ctx, seedID)
	if err != nil {
		return nil, fmt.Errorf("recommender: candidate pool: %w", err)
	}

	candidates := make([]similarity.Candidate, 0, len(pool))
	for _, track := range pool {
		features, err := r.trackFeatures(ctx, track)
		if err != nil {
			if errors.Is(err, domain.ErrPreviewUnavailable) || errors.Is(err, domain.ErrFeaturesUnavailable) {
				log.Printf("DEBUG recommender: skipping %s: %v", track.ID, err)
				continue
			}
			return nil, fmt.Errorf("recommender: candidate %s: %w", track.ID, err)
		}
		candidates = append(candidates, similarity.Candidate{TrackID: track.ID, Features: features})
	}

	results, err := similarity.Rank(seedFeatures, candidates, limit)
	if err != nil {
		return nil, fmt.Errorf("recommender: %w", err)
	}

	if r.cache != nil {
		if raw, err := json.Marshal(results); err == nil {
			r.cache.Set(cacheKey, raw, ports.TTLRecommendations)
		}
	}
	return results, nil
}

// candidatePool gathers the user's top and recently played tracks, persists
// them for later lookups, dedupes by id, and filters the seed itself out.
func (r *Recommender) candidatePool(ctx context.Context, seedID string) ([]domain.Track, error) {
	top, err := r.catalog.CurrentUserTopTracks(ctx)
	if err != nil {
		return nil, err
	}
	recent, err := r.catalog.CurrentUserRecentlyPlayed(ctx)
	if err != nil {
		return nil, err
	}

	pool := make([]domain.Track, 0, len(top)+len(recent))
	pool = append(pool, top...)
	pool = append(pool, recent...)
	pool = similarity.Dedupe(pool, func(t domain.Track) string { return t.ID })

	filtered := pool[:0]
	for _, track := range pool {
		if track.ID == seedID {
			continue
		}
		if err := r.repo.Save(ctx, track); err != nil {
			log.Printf("WARN recommender: failed to persist track %s: %v", track.ID, err)
		}
		filtered = append(filtered, track)
	}
	return filtered, nil
}

// trackFeatures resolves a track's preview and computes its feature vector
// through the tiered feature store.
func (r *Recommender) trackFeatures(ctx context.Context, track domain.Track) (domain.FeatureVector, error) {
	if len(track.Features) > 0 {
		return track.Features, nil
	}
	return r.features.GetOrCompute(ctx, track.ID, func() (domain.FeatureVector, error) {
		path, err := r.resolver.ResolvePreview(ctx, track.Title, track.Artist, track.ID)
		if err != nil {
			return nil, err
		}
		return r.extractor.Extract(path)
	})
}
