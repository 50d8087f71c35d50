package cache

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"crates/internal/shared"
)

// Record is the on-disk shape of one playlist. Pointer fields distinguish a
// missing key from an empty value so malformed records are rejected rather
// than silently zeroed.
type Record struct {
	ID       *string  `json:"id"`
	Name     *string  `json:"name"`
	TrackIDs []string `json:"track_ids"`
}

// LoadFile reads a category cache file: a JSON array of playlist records,
// order-preserving. Returns [shared.ErrCacheFile] if the file is missing or
// unreadable, [shared.ErrMalformedCacheRecord] if a record fails validation.
func LoadFile(path string) (*Group, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", shared.ErrCacheFile, path, err)
	}
	return Load(data, path)
}

// Load decodes the JSON cache representation. The name argument is used only
// in error messages.
func Load(data []byte, name string) (*Group, error) {
	var records []Record
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", shared.ErrCacheFile, name, err)
	}

	group := NewGroup()
	for i, rec := range records {
		pl, err := FromRecord(rec)
		if err != nil {
			return nil, fmt.Errorf("%w (%s, record %d)", err, name, i)
		}
		group.AddPlaylist(pl)
	}
	return group, nil
}

// Serialize returns the order-preserving JSON representation of the group.
// Round-trips with Load.
func (g *Group) Serialize() ([]byte, error) {
	records := make([]Record, len(g.playlists))
	for i, p := range g.playlists {
		records[i] = p.Record()
	}

	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to serialize cache: %w", err)
	}
	return data, nil
}

// WriteFile rewrites the backing cache file for the group. Called after every
// committed assignment so the disk never lags the in-memory cache by more than
// one pending write.
func (g *Group) WriteFile(path string) error {
	data, err := g.Serialize()
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write cache file %s: %w", path, err)
	}
	return nil
}

// FilePath resolves a category cache key against the cache directory.
func FilePath(dir, key string) string {
	return filepath.Join(dir, key)
}
