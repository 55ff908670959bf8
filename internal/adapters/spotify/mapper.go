package spotify

import (
	"strings"

	"github.com/soundprint-labs/soundprint/internal/core/domain"
)

// mapTrackToDomain converts a raw Spotify track to a clean domain track.
// Artists are flattened to a single display string and the first album
// image (Spotify orders them largest first) becomes the cover.
func mapTrackToDomain(st spotifyTrack) domain.Track {
	artistNames := make([]string, 0, len(st.Artists))
	for _, a := range st.Artists {
		artistNames = append(artistNames, a.Name)
	}

	coverURL := ""
	if len(st.Album.Images) > 0 {
		coverURL = st.Album.Images[0].URL
	}

	return domain.Track{
		ID:         st.ID,
		Title:      st.Name,
		Artist:     strings.Join(artistNames, ", "),
		Artists:    artistNames,
		Album:      st.Album.Name,
		DurationMs: st.DurationMs,
		CoverURL:   coverURL,
		PreviewURL: st.PreviewURL,
	}
}

func mapTracksToDomain(items []spotifyTrack) []domain.Track {
	tracks := make([]domain.Track, 0, len(items))
	for _, st := range items {
		tracks = append(tracks, mapTrackToDomain(st))
	}
	return tracks
}

func mapArtistToDomain(sa spotifyArtist) domain.Artist {
	imageURL := ""
	if len(sa.Images) > 0 {
		imageURL = sa.Images[0].URL
	}
	return domain.Artist{
		ID:       sa.ID,
		Name:     sa.Name,
		Genres:   sa.Genres,
		ImageURL: imageURL,
	}
}
