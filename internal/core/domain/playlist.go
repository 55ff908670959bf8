package domain

import "errors"

var ErrDuplicateTrack = errors.New("domain: duplicate track id")

type Playlist struct {
	ID     string
	Name   string
	Tracks []Track
}

func NewPlaylist(id, name string) (*Playlist, error) {
	if id == "" || name == "" {
		return nil, errors.New("domain: invalid argument")
	}
	return &Playlist{
		ID:     id,
		Name:   name,
		Tracks: []Track{},
	}, nil
}

// AddTrack appends a track to the playlist while preventing duplicates.
// If the incoming track's catalog ID already exists in the playlist,
// AddTrack returns ErrDuplicateTrack.
func (p *Playlist) AddTrack(t Track) error {
	if t.ID != "" {
		for _, ex := range p.Tracks {
			if ex.ID == t.ID {
				return ErrDuplicateTrack
			}
		}
	}
	p.Tracks = append(p.Tracks, t)
	return nil
}

// Analyze averages the acoustic feature vectors of all tracks that have one.
// Tracks without computed features are ignored; an empty playlist (or one
// with no analyzed tracks) yields nil.
func (p *Playlist) Analyze() FeatureVector {
	counted := 0
	sums := make(map[string]float64, len(FeatureKeys))
	for _, t := range p.Tracks {
		if len(t.Features) != len(FeatureKeys) {
			continue
		}
		for _, key := range FeatureKeys {
			sums[key] += t.Features[key]
		}
		counted++
	}
	if counted == 0 {
		return nil
	}
	avg := make(FeatureVector, len(FeatureKeys))
	for _, key := range FeatureKeys {
		avg[key] = sums[key] / float64(counted)
	}
	return avg
}
