package domain

import "errors"

var (
	// ErrNotFound indicates a record is absent from the local store.
	ErrNotFound = errors.New("domain: not found")

	// ErrPreviewUnavailable indicates no downloadable preview clip could be
	// resolved for a track. Recoverable: callers skip the track.
	ErrPreviewUnavailable = errors.New("domain: preview unavailable")

	// ErrFeaturesUnavailable indicates feature extraction failed, typically
	// because the preview clip could not be decoded. Recoverable.
	ErrFeaturesUnavailable = errors.New("domain: audio features unavailable")

	// ErrFeatureKeyMismatch indicates a feature vector does not carry the
	// canonical key set. A programming error, never recoverable.
	ErrFeatureKeyMismatch = errors.New("domain: feature vector key set does not match canonical keys")

	// ErrFeatureNotFinite indicates a feature vector carries a NaN or Inf.
	ErrFeatureNotFinite = errors.New("domain: feature vector contains non-finite value")
)
