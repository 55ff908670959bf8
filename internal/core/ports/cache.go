package ports

import (
	"strings"
	"time"
)

// TTL policy per cache namespace. Preview assets are the exception: they are
// written once to disk and never expire.
const (
	TTLSearch          = time.Hour
	TTLDetails         = time.Hour
	TTLFeatures        = time.Hour
	TTLRecommendations = time.Hour
	TTLUserLibrary     = time.Hour
	TTLArtistTopTracks = 5 * time.Minute
)

// Cache is the time-bounded key-value tier. Get and Set are atomic per key;
// no multi-key guarantees are required. Set failures are best effort and
// must not surface to callers.
type Cache interface {
	Get(key string) ([]byte, bool)
	Set(key string, value []byte, ttl time.Duration)
}

// CacheKey builds a namespaced cache key. Centralizing key construction
// keeps ad hoc string concatenation (and the collisions it invites) out of
// the adapters.
func CacheKey(namespace, id string, params ...string) string {
	parts := make([]string, 0, 2+len(params))
	parts = append(parts, namespace, id)
	parts = append(parts, params...)
	return strings.Join(parts, ":")
}
