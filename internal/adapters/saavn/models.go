package saavn

// wire shapes for the unauthenticated JioSaavn endpoints

type searchResponse struct {
	Songs struct {
		Data []searchSong `json:"data"`
	} `json:"songs"`
}

type searchSong struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

// songDetail is the value type of the song.getDetails response, which is a
// map keyed by the requested track id. Duration arrives in seconds as a
// string.
type songDetail struct {
	ID              string `json:"id"`
	Song            string `json:"song"`
	PrimaryArtists  string `json:"primary_artists"`
	Album           string `json:"album"`
	Year            string `json:"year"`
	Image           string `json:"image"`
	Duration        string `json:"duration"`
	VLink           string `json:"vlink"`
	MediaPreviewURL string `json:"media_preview_url"`
}
