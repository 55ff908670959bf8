package features

import (
	"fmt"

	"gonum.org/v1/gonum/stat"

	"github.com/soundprint-labs/soundprint/internal/audio"
	"github.com/soundprint-labs/soundprint/internal/cache"
	"github.com/soundprint-labs/soundprint/internal/core/domain"
	"github.com/soundprint-labs/soundprint/internal/core/ports"
)

const (
	defaultSampleRate = 22050
	defaultWindowSize = 2048
	defaultHopSize    = 512
	defaultMemoSize   = 50
)

// Extractor computes the canonical feature vector for a local audio clip.
// Extraction is a pure function of the clip's bytes; results are memoized
// by path in a bounded LRU since preview assets are write-once.
type Extractor struct {
	sampleRate int
	windowSize int
	hopSize    int
	memo       *cache.LRU[domain.FeatureVector]
}

// compile-time interface assertion
var _ ports.FeatureExtractor = (*Extractor)(nil)

// NewExtractor constructs an extractor with the standard analysis
// parameters: 22050Hz mono, 2048-sample Hann windows, 512-sample hop.
func NewExtractor() *Extractor {
	return &Extractor{
		sampleRate: defaultSampleRate,
		windowSize: defaultWindowSize,
		hopSize:    defaultHopSize,
		memo:       cache.NewLRU[domain.FeatureVector](defaultMemoSize),
	}
}

// Extract loads the clip at path and computes the 8 canonical features.
// Returns an error wrapping domain.ErrFeaturesUnavailable when the clip
// cannot be decoded or is too short to analyze.
func (e *Extractor) Extract(path string) (domain.FeatureVector, error) {
	if fv, ok := e.memo.Get(path); ok {
		return cloneVector(fv), nil
	}

	samples, rate, err := audio.DecodeMono(path)
	if err != nil {
		return nil, err
	}
	samples = audio.Resample(samples, rate, e.sampleRate)
	if len(samples) < e.windowSize {
		return nil, fmt.Errorf("features: %w: clip shorter than one analysis window", domain.ErrFeaturesUnavailable)
	}

	magFrames := stft(samples, e.windowSize, e.hopSize)
	rawFrames := timeFrames(samples, e.windowSize, e.hopSize)
	freqs := binFrequencies(e.windowSize/2+1, e.windowSize, e.sampleRate)

	frameRate := float64(e.sampleRate) / float64(e.hopSize)
	tempo := estimateTempo(onsetEnvelope(magFrames), frameRate)

	centroids := make([]float64, len(magFrames))
	bandwidths := make([]float64, len(magFrames))
	for i, mag := range magFrames {
		centroids[i] = spectralCentroid(mag, freqs)
		bandwidths[i] = spectralBandwidth(mag, freqs, centroids[i])
	}

	fv := domain.FeatureVector{
		"tempo":                   tempo,
		"chroma_stft_mean":        chromaMean(magFrames, freqs),
		"rmse_mean":               meanOver(rawFrames, frameRMS),
		"spectral_centroid_mean":  stat.Mean(centroids, nil),
		"spectral_bandwidth_mean": stat.Mean(bandwidths, nil),
		"rolloff_mean": meanOver(magFrames, func(mag []float64) float64 {
			return spectralRolloff(mag, freqs)
		}),
		"zero_crossing_rate_mean": meanOver(rawFrames, frameZCR),
		"mfcc_mean":               mfccMean(magFrames, e.windowSize, e.sampleRate),
	}

	// a vector with NaN/Inf must never leave the extractor
	if _, err := fv.Values(); err != nil {
		return nil, fmt.Errorf("features: %w: %v", domain.ErrFeaturesUnavailable, err)
	}

	e.memo.Add(path, cloneVector(fv))
	return fv, nil
}

func cloneVector(fv domain.FeatureVector) domain.FeatureVector {
	out := make(domain.FeatureVector, len(fv))
	for k, v := range fv {
		out[k] = v
	}
	return out
}
