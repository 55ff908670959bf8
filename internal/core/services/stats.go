package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"math"
	"strings"

	"github.com/soundprint-labs/soundprint/internal/core/domain"
	"github.com/soundprint-labs/soundprint/internal/core/ports"
)

// Stats computes lightweight listening statistics from the user's catalog
// history. Both figures are derived, never stored, and cached for an hour.
type Stats struct {
	catalog ports.PrimaryCatalog
	cache   ports.Cache
}

// NewStats constructs a Stats service. cache may be nil.
func NewStats(catalog ports.PrimaryCatalog, cache ports.Cache) *Stats {
	return &Stats{catalog: catalog, cache: cache}
}

// ListeningTimeHours sums the durations of recently played tracks,
// reported in hours rounded to two decimals.
func (s *Stats) ListeningTimeHours(ctx context.Context) (float64, error) {
	cacheKey := ports.CacheKey("stats", "listening_time")
	if s.cache != nil {
		if raw, ok := s.cache.Get(cacheKey); ok {
			var hours float64
			if err := json.Unmarshal(raw, &hours); err == nil {
				return hours, nil
			}
		}
	}

	tracks, err := s.catalog.CurrentUserRecentlyPlayed(ctx)
	if err != nil {
		return 0, fmt.Errorf("stats: listening time: %w", err)
	}

	totalMs := 0
	for _, t := range tracks {
		totalMs += t.DurationMs
	}
	hours := math.Round(float64(totalMs)/(1000*60*60)*100) / 100

	s.cacheFloat(cacheKey, hours)
	return hours, nil
}

// FavoriteGenre returns the most frequent genre across the artists of the
// user's top tracks. Ties break toward the genre seen first; no listening
// history yields an empty string.
func (s *Stats) FavoriteGenre(ctx context.Context) (string, error) {
	cacheKey := ports.CacheKey("stats", "favorite_genre")
	if s.cache != nil {
		if raw, ok := s.cache.Get(cacheKey); ok {
			var genre string
			if err := json.Unmarshal(raw, &genre); err == nil {
				return genre, nil
			}
		}
	}

	tracks, err := s.catalog.CurrentUserTopTracks(ctx)
	if err != nil {
		return "", fmt.Errorf("stats: favorite genre: %w", err)
	}

	counts := make(map[string]int)
	var order []string
	seenArtists := make(map[string]struct{})
	for _, track := range tracks {
		name := leadArtist(track)
		if name == "" {
			continue
		}
		if _, seen := seenArtists[name]; seen {
			continue
		}
		seenArtists[name] = struct{}{}

		artist, err := s.catalog.SearchArtist(ctx, name)
		if err != nil {
			log.Printf("DEBUG stats: artist lookup %q failed: %v", name, err)
			continue
		}
		for _, genre := range artist.Genres {
			if counts[genre] == 0 {
				order = append(order, genre)
			}
			counts[genre]++
		}
	}

	favorite := ""
	best := 0
	for _, genre := range order {
		if counts[genre] > best {
			best = counts[genre]
			favorite = genre
		}
	}

	if favorite != "" {
		s.cacheString(cacheKey, favorite)
	}
	return favorite, nil
}

// leadArtist prefers the structured artist list, which is immune to commas
// inside an artist's own name. Older records only carry the flattened
// display string and fall back to cutting at the first comma.
func leadArtist(track domain.Track) string {
	if len(track.Artists) > 0 {
		return strings.TrimSpace(track.Artists[0])
	}
	name, _, _ := strings.Cut(track.Artist, ",")
	return strings.TrimSpace(name)
}

func (s *Stats) cacheFloat(key string, value float64) {
	if s.cache == nil {
		return
	}
	if raw, err := json.Marshal(value); err == nil {
		s.cache.Set(key, raw, ports.TTLUserLibrary)
	}
}

func (s *Stats) cacheString(key, value string) {
	if s.cache == nil {
		return
	}
	if raw, err := json.Marshal(value); err == nil {
		s.cache.Set(key, raw, ports.TTLUserLibrary)
	}
}
