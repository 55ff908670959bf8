// Package sqlite provides a SQLite-backed implementation of the track
// repository port. Feature vectors are persisted as a JSON column; once a
// vector is written it is treated as authoritative and never recomputed.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/soundprint-labs/soundprint/internal/core/domain"
	"github.com/soundprint-labs/soundprint/internal/core/ports"
	_ "github.com/mattn/go-sqlite3" // Import the driver anonymously
)

// Adapter implements the repository port for SQLite
type Adapter struct {
	db *sql.DB
}

// compile-time interface assertion
var _ ports.TrackRepository = (*Adapter)(nil)

// NewAdapter creates a connection and runs the schema migration
func NewAdapter(storagePath string) (*Adapter, error) {
	db, err := sql.Open("sqlite3", storagePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite db: %w", err)
	}

	// Verify connection
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping sqlite db: %w", err)
	}

	adapter := &Adapter{db: db}

	if err := adapter.migrate(); err != nil {
		return nil, fmt.Errorf("migration failed: %w", err)
	}

	return adapter, nil
}

// Close ensures the DB connection is closed gracefully
func (a *Adapter) Close() error {
	return a.db.Close()
}

// GetByID loads a track record by its catalog id.
func (a *Adapter) GetByID(ctx context.Context, id string) (domain.Track, error) {
	row := a.db.QueryRowContext(ctx, `
		SELECT id, title, artist, album, duration_ms, cover_url, preview_url, audio_features
		FROM tracks WHERE id = ?
	`, id)

	var track domain.Track
	var album, coverURL, previewURL, featuresJSON sql.NullString
	var duration sql.NullInt64
	if err := row.Scan(
		&track.ID,
		&track.Title,
		&track.Artist,
		&album,
		&duration,
		&coverURL,
		&previewURL,
		&featuresJSON,
	); err != nil {
		if err == sql.ErrNoRows {
			return domain.Track{}, domain.ErrNotFound
		}
		return domain.Track{}, fmt.Errorf("failed to load track: %w", err)
	}

	if album.Valid {
		track.Album = album.String
	}
	if duration.Valid {
		track.DurationMs = int(duration.Int64)
	}
	if coverURL.Valid {
		track.CoverURL = coverURL.String
	}
	if previewURL.Valid {
		track.PreviewURL = previewURL.String
	}
	if featuresJSON.Valid && featuresJSON.String != "" {
		var features domain.FeatureVector
		if err := json.Unmarshal([]byte(featuresJSON.String), &features); err != nil {
			return domain.Track{}, fmt.Errorf("failed to decode stored features for track %s: %w", track.ID, err)
		}
		track.Features = features
	}

	return track, nil
}

// Save upserts the track's metadata. The audio_features column is left
// untouched on conflict unless the incoming track carries a vector, so a
// stored vector survives metadata refreshes.
func (a *Adapter) Save(ctx context.Context, t domain.Track) error {
	var featuresJSON any
	if len(t.Features) > 0 {
		raw, err := json.Marshal(t.Features)
		if err != nil {
			return fmt.Errorf("failed to encode features for track %s: %w", t.ID, err)
		}
		featuresJSON = string(raw)
	}

	query := `
		INSERT INTO tracks (id, title, artist, album, duration_ms, cover_url, preview_url, audio_features)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			title=excluded.title,
			artist=excluded.artist,
			album=excluded.album,
			duration_ms=excluded.duration_ms,
			cover_url=excluded.cover_url,
			preview_url=excluded.preview_url,
			audio_features=COALESCE(excluded.audio_features, tracks.audio_features);
	`
	if _, err := a.db.ExecContext(
		ctx,
		query,
		t.ID,
		t.Title,
		t.Artist,
		t.Album,
		t.DurationMs,
		t.CoverURL,
		t.PreviewURL,
		featuresJSON,
	); err != nil {
		return fmt.Errorf("failed to save track %s: %w", t.ID, err)
	}

	return nil
}

// UpdateTrackFeatures writes the computed feature vector for a track.
func (a *Adapter) UpdateTrackFeatures(ctx context.Context, id string, features domain.FeatureVector) error {
	raw, err := json.Marshal(features)
	if err != nil {
		return fmt.Errorf("failed to encode features for track %s: %w", id, err)
	}

	result, err := a.db.ExecContext(ctx, "UPDATE tracks SET audio_features = ? WHERE id = ?", string(raw), id)
	if err != nil {
		return fmt.Errorf("failed to update track features: %w", err)
	}
	if affected, err := result.RowsAffected(); err == nil && affected == 0 {
		return domain.ErrNotFound
	}

	return nil
}

// UpdatePreviewURL records the resolved preview link for a track.
func (a *Adapter) UpdatePreviewURL(ctx context.Context, id, previewURL string) error {
	result, err := a.db.ExecContext(ctx, "UPDATE tracks SET preview_url = ? WHERE id = ?", previewURL, id)
	if err != nil {
		return fmt.Errorf("failed to update preview url: %w", err)
	}
	if affected, err := result.RowsAffected(); err == nil && affected == 0 {
		return domain.ErrNotFound
	}

	return nil
}

func (a *Adapter) migrate() error {
	query := `
	CREATE TABLE IF NOT EXISTS tracks (
		id TEXT PRIMARY KEY,
		title TEXT NOT NULL,
		artist TEXT NOT NULL,
		album TEXT,
		duration_ms INTEGER,
		cover_url TEXT,
		preview_url TEXT,
		audio_features TEXT,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);
	`
	if _, err := a.db.Exec(query); err != nil {
		return err
	}

	if _, err := a.db.Exec("ALTER TABLE tracks ADD COLUMN audio_features TEXT"); err != nil {
		if !isDuplicateColumnError(err) {
			return err
		}
	}
	if _, err := a.db.Exec("ALTER TABLE tracks ADD COLUMN preview_url TEXT"); err != nil {
		if !isDuplicateColumnError(err) {
			return err
		}
	}

	return nil
}

func isDuplicateColumnError(err error) bool {
	return err != nil && (strings.Contains(err.Error(), "duplicate column") || strings.Contains(err.Error(), "already exists"))
}
