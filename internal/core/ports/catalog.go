package ports

import (
	"context"

	"github.com/soundprint-labs/soundprint/internal/core/domain"
)

// PrimaryCatalog is the authenticated streaming service that supplies the
// user's listening history and playlists. Implementations return lightweight
// track references; they never compute features themselves.
type PrimaryCatalog interface {
	CurrentUserTopTracks(ctx context.Context) ([]domain.Track, error)
	CurrentUserRecentlyPlayed(ctx context.Context) ([]domain.Track, error)
	SearchTracks(ctx context.Context, query string, limit int) ([]domain.Track, error)

	Artist(ctx context.Context, id string) (domain.Artist, error)
	SearchArtist(ctx context.Context, name string) (domain.Artist, error)
	ArtistTopTracks(ctx context.Context, artistID string) ([]domain.Track, error)

	Playlist(ctx context.Context, id string) (domain.Playlist, error)
	CreatePlaylist(ctx context.Context, name, description string) (domain.Playlist, error)
	AddTracksToPlaylist(ctx context.Context, playlistID string, trackIDs []string) error
	RemoveTracksFromPlaylist(ctx context.Context, playlistID string, trackIDs []string) error
	UnfollowPlaylist(ctx context.Context, playlistID string) error
}
