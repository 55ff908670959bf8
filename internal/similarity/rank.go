// Package similarity ranks candidate tracks against a seed track by the
// cosine similarity of their acoustic feature vectors.
package similarity

import (
	"fmt"
	"sort"

	"gonum.org/v1/gonum/floats"

	"github.com/soundprint-labs/soundprint/internal/core/domain"
)

// DefaultLimit bounds a ranked result list when the caller does not.
const DefaultLimit = 10

// Candidate pairs a track identifier with its computed feature vector.
type Candidate struct {
	TrackID  string
	Features domain.FeatureVector
}

// Result is one ranked entry. Similarity lies in [-1, 1].
type Result struct {
	TrackID    string  `json:"id"`
	Similarity float64 `json:"similarity"`
}

// Cosine computes the cosine similarity of two equal-length vectors.
// The second return is false when either vector has zero norm, for which
// the measure is undefined.
func Cosine(a, b []float64) (float64, bool) {
	normA := floats.Norm(a, 2)
	normB := floats.Norm(b, 2)
	if normA == 0 || normB == 0 {
		return 0, false
	}
	return floats.Dot(a, b) / (normA * normB), true
}

// Rank scores every candidate against the seed vector, sorts by similarity
// descending (stable, so exact ties keep input order) and truncates to
// limit.
//
// A candidate whose vector has zero norm is skipped rather than scored:
// cosine similarity is undefined there, and reporting it as 0 would rank a
// silent clip above genuinely dissimilar tracks. A zero-norm seed skips
// every candidate for the same reason, yielding an empty list.
//
// A vector whose key set deviates from domain.FeatureKeys is a programming
// error and fails the whole call.
func Rank(seed domain.FeatureVector, candidates []Candidate, limit int) ([]Result, error) {
	if limit <= 0 {
		limit = DefaultLimit
	}

	seedVec, err := seed.Values()
	if err != nil {
		return nil, fmt.Errorf("similarity: seed vector: %w", err)
	}

	results := make([]Result, 0, len(candidates))
	for _, c := range candidates {
		candVec, err := c.Features.Values()
		if err != nil {
			return nil, fmt.Errorf("similarity: candidate %q: %w", c.TrackID, err)
		}
		sim, ok := Cosine(seedVec, candVec)
		if !ok {
			continue
		}
		results = append(results, Result{TrackID: c.TrackID, Similarity: sim})
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Similarity > results[j].Similarity
	})

	if len(results) > limit {
		results = results[:limit]
	}
	return results, nil
}
