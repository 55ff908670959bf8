package spotify

import "errors"

// sentinel for 404 responses; translated to domain.ErrNotFound by callers
var errNotFound = errors.New("spotify adapter: not found")

// spotifyTrack mirrors the track object of the Spotify Web API.
type spotifyTrack struct {
	ID         string          `json:"id"`
	Name       string          `json:"name"`
	DurationMs int             `json:"duration_ms"`
	PreviewURL string          `json:"preview_url"`
	Artists    []spotifyArtist `json:"artists"`
	Album      spotifyAlbum    `json:"album"`
}

type spotifyArtist struct {
	ID     string         `json:"id"`
	Name   string         `json:"name"`
	Genres []string       `json:"genres,omitempty"`
	Images []spotifyImage `json:"images,omitempty"`
}

type spotifyAlbum struct {
	Name   string         `json:"name"`
	Images []spotifyImage `json:"images"`
}

type spotifyImage struct {
	URL string `json:"url"`
}

// trackPaging wraps endpoints that return a paged list of tracks.
type trackPaging struct {
	Items []spotifyTrack `json:"items"`
}

// playHistoryItem is one entry of the recently-played endpoint.
type playHistoryItem struct {
	Track    spotifyTrack `json:"track"`
	PlayedAt string       `json:"played_at"`
}

type spotifyUser struct {
	ID string `json:"id"`
}

type spotifyPlaylist struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// spotifyPlaylistDetail is the full playlist object with its track page.
type spotifyPlaylistDetail struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Tracks struct {
		Items []playlistTrackItem `json:"items"`
	} `json:"tracks"`
}

type playlistTrackItem struct {
	Track spotifyTrack `json:"track"`
}
