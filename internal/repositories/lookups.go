// package repositories provides the sqlite persistence layer for remote
// lookups that rarely change: audio features per track and genre tags per
// artist. Caching these keeps repeated sorting sessions off the API.
package repositories

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"crates/internal/services"
)

const schema = `
CREATE TABLE IF NOT EXISTS audio_features (
	track_id TEXT PRIMARY KEY,
	tempo REAL NOT NULL,
	key INTEGER NOT NULL,
	energy REAL NOT NULL,
	cached_at TIMESTAMP NOT NULL
);

CREATE TABLE IF NOT EXISTS artist_genres (
	artist_id TEXT PRIMARY KEY,
	name TEXT NOT NULL,
	genres TEXT NOT NULL,
	cached_at TIMESTAMP NOT NULL
);
`

// InitSchema creates the lookup tables if they do not exist. Idempotent, run
// at every startup that opens the database.
func InitSchema(db *sql.DB) error {
	if _, err := db.Exec(schema); err != nil {
		return fmt.Errorf("failed to create lookup tables: %w", err)
	}
	return nil
}

// LookupRepository reads and writes the cached remote lookups.
type LookupRepository struct {
	db *sql.DB
}

// NewLookupRepository creates a LookupRepository with the given database connection.
func NewLookupRepository(db *sql.DB) *LookupRepository {
	return &LookupRepository{db: db}
}

// Features returns the cached audio features for a track, or (nil, nil) on a
// cache miss.
func (r *LookupRepository) Features(trackID string) (*services.AudioFeatures, error) {
	row := r.db.QueryRow(
		`SELECT track_id, tempo, key, energy FROM audio_features WHERE track_id = ?`, trackID)

	var f services.AudioFeatures
	err := row.Scan(&f.TrackID, &f.Tempo, &f.Key, &f.Energy)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read audio features: %w", err)
	}
	return &f, nil
}

// SaveFeatures upserts the audio features for a track.
func (r *LookupRepository) SaveFeatures(f services.AudioFeatures) error {
	_, err := r.db.Exec(
		`INSERT INTO audio_features (track_id, tempo, key, energy, cached_at)
		 VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT(track_id) DO UPDATE SET
		 tempo = excluded.tempo, key = excluded.key, energy = excluded.energy, cached_at = excluded.cached_at`,
		f.TrackID, f.Tempo, f.Key, f.Energy, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("failed to cache audio features: %w", err)
	}
	return nil
}

// Artist returns the cached artist record, or (nil, nil) on a cache miss.
func (r *LookupRepository) Artist(artistID string) (*services.Artist, error) {
	row := r.db.QueryRow(
		`SELECT artist_id, name, genres FROM artist_genres WHERE artist_id = ?`, artistID)

	var a services.Artist
	var genres string
	err := row.Scan(&a.ID, &a.Name, &genres)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read artist: %w", err)
	}

	if err := json.Unmarshal([]byte(genres), &a.Genres); err != nil {
		return nil, fmt.Errorf("corrupt genre list for artist %s: %w", artistID, err)
	}
	return &a, nil
}

// SaveArtist upserts an artist record.
func (r *LookupRepository) SaveArtist(a services.Artist) error {
	genres, err := json.Marshal(a.Genres)
	if err != nil {
		return fmt.Errorf("failed to marshal genre list: %w", err)
	}

	_, err = r.db.Exec(
		`INSERT INTO artist_genres (artist_id, name, genres, cached_at)
		 VALUES (?, ?, ?, ?)
		 ON CONFLICT(artist_id) DO UPDATE SET
		 name = excluded.name, genres = excluded.genres, cached_at = excluded.cached_at`,
		a.ID, a.Name, string(genres), time.Now().UTC())
	if err != nil {
		return fmt.Errorf("failed to cache artist: %w", err)
	}
	return nil
}
