package domain

import "math"

// FeatureKeys is the canonical ordering of the acoustic feature vector.
// Every stored or computed vector carries exactly these keys, and vectors
// are always flattened in this order before being compared.
var FeatureKeys = [8]string{
	"tempo",
	"chroma_stft_mean",
	"rmse_mean",
	"spectral_centroid_mean",
	"spectral_bandwidth_mean",
	"rolloff_mean",
	"zero_crossing_rate_mean",
	"mfcc_mean",
}

// FeatureVector is the acoustic summary of a track's preview clip,
// keyed by the names in FeatureKeys.
type FeatureVector map[string]float64

// Values flattens the vector in FeatureKeys order. It fails if the key set
// does not match FeatureKeys exactly or if any value is NaN or infinite,
// so a malformed vector can never reach a similarity comparison.
func (fv FeatureVector) Values() ([]float64, error) {
	if len(fv) != len(FeatureKeys) {
		return nil, ErrFeatureKeyMismatch
	}
	out := make([]float64, len(FeatureKeys))
	for i, key := range FeatureKeys {
		v, ok := fv[key]
		if !ok {
			return nil, ErrFeatureKeyMismatch
		}
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, ErrFeatureNotFinite
		}
		out[i] = v
	}
	return out, nil
}

// Track represents a musical track in the domain layer. It is a lightweight,
// denormalized view as returned by catalog lookups; the track ID from the
// primary catalog is the stable key used everywhere.
type Track struct {
	ID         string
	Title      string
	Artist     string   // flattened display string, comma separated
	Artists    []string // individual artist names, lead artist first
	Album      string   // optional
	DurationMs int
	CoverURL   string
	PreviewURL string
	PlayedAt   string // RFC3339, set only on recently-played entries
	Features   FeatureVector
}

// Artist is a denormalized artist reference from the primary catalog.
type Artist struct {
	ID       string
	Name     string
	Genres   []string
	ImageURL string
}
