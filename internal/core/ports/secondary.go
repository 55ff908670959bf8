package ports

import "context"

// DefaultSecondarySearchLimit bounds preview-resolution searches.
const DefaultSecondarySearchLimit = 10

// SearchHit is a single result from the secondary catalog's text search.
type SearchHit struct {
	ID    string
	Title string
}

// TrackDetails is the full detail record for a secondary-catalog track.
// ImageURL is already normalized to the 500x500 variant and DurationMs is
// in milliseconds regardless of what the wire format carries.
type TrackDetails struct {
	ID         string
	Title      string
	Artist     string
	Album      string
	Year       string
	ImageURL   string
	DurationMs int
	PreviewURL string
}

// SecondaryCatalog is the unauthenticated text-search service used solely to
// locate downloadable preview audio. An empty query yields an empty result
// list, not an error.
type SecondaryCatalog interface {
	SearchTracks(ctx context.Context, query string, limit int) ([]SearchHit, error)
	TrackDetails(ctx context.Context, id string) (TrackDetails, error)
}
