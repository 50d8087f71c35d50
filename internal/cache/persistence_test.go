package cache

import (
	"errors"
	"path/filepath"
	"testing"

	"crates/internal/shared"
)

func TestCacheRoundTrip(t *testing.T) {
	group := NewGroup()
	a := NewPlaylist("pl1", "WCS 90bpm")
	a.AddTrack("trk1")
	a.AddTrack("trk2")
	group.AddPlaylist(a)
	group.AddPlaylist(NewPlaylist("pl2", "WCS 100bpm"))

	path := filepath.Join(t.TempDir(), TempoKey)
	if err := group.WriteFile(path); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	loaded, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile failed: %v", err)
	}

	if loaded.Len() != 2 {
		t.Fatalf("expected 2 playlists, got %d", loaded.Len())
	}
	first := loaded.Playlists()[0]
	if first.ID != "pl1" || first.Name != "WCS 90bpm" {
		t.Fatalf("order or identity lost: %+v", first)
	}
	if !first.ContainsTrack("trk1") || !first.ContainsTrack("trk2") {
		t.Fatalf("membership lost: %v", first.TrackIDs)
	}
	if loaded.Playlists()[1].Len() != 0 {
		t.Fatal("empty playlist grew tracks on the way through disk")
	}
}

func TestLoadFileMissing(t *testing.T) {
	_, err := LoadFile(filepath.Join(t.TempDir(), "nope.json"))
	if !errors.Is(err, shared.ErrCacheFile) {
		t.Fatalf("expected ErrCacheFile, got %v", err)
	}
}

func TestLoadRejectsBadJSON(t *testing.T) {
	_, err := Load([]byte("{not json"), "tempo.json")
	if !errors.Is(err, shared.ErrCacheFile) {
		t.Fatalf("expected ErrCacheFile, got %v", err)
	}
}

func TestLoadRejectsMalformedRecord(t *testing.T) {
	cases := []struct {
		name string
		data string
	}{
		{"missing id", `[{"name": "WCS 90bpm", "track_ids": []}]`},
		{"missing name", `[{"id": "pl1", "track_ids": []}]`},
		{"missing track_ids", `[{"id": "pl1", "name": "WCS 90bpm"}]`},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Load([]byte(tc.data), "tempo.json")
			if !errors.Is(err, shared.ErrMalformedCacheRecord) {
				t.Fatalf("expected ErrMalformedCacheRecord, got %v", err)
			}
		})
	}
}

func TestLoadPreservesEmptyValues(t *testing.T) {
	// Empty strings and empty arrays are valid values, only absent keys are
	// malformed.
	group, err := Load([]byte(`[{"id": "", "name": "", "track_ids": []}]`), "tempo.json")
	if err != nil {
		t.Fatalf("empty values should load: %v", err)
	}
	if group.Len() != 1 {
		t.Fatalf("expected 1 playlist, got %d", group.Len())
	}
}
