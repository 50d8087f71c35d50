package tasks

import (
	"context"
	"io"
	"testing"

	"crates/internal/cache"
	"crates/internal/services"
	"crates/internal/shared"
)

// mockService serves a canned library and records mutations.
type mockService struct {
	userID    string
	playlists map[string]services.Playlist       // by id
	items     map[string][]services.PlaylistItem // by playlist id
	features  map[string]services.AudioFeatures  // by track id
	tracks    map[string]services.Track          // by track id

	removeCalls []string // "playlistID/trackID"
}

func (m *mockService) Playlist(ctx context.Context, id string) (*services.Playlist, error) {
	pl, ok := m.playlists[id]
	if !ok {
		return nil, shared.ErrPlaylistNotFound
	}
	return &pl, nil
}

func (m *mockService) PlaylistItems(ctx context.Context, id string) ([]services.PlaylistItem, error) {
	return m.items[id], nil
}

func (m *mockService) AddTracks(ctx context.Context, playlistID string, trackIDs ...string) error {
	return nil
}

func (m *mockService) RemoveTracks(ctx context.Context, playlistID string, trackIDs ...string) error {
	for _, id := range trackIDs {
		m.removeCalls = append(m.removeCalls, playlistID+"/"+id)
	}
	return nil
}

func (m *mockService) Tracks(ctx context.Context, ids []string) ([]services.Track, error) {
	var out []services.Track
	for _, id := range ids {
		if t, ok := m.tracks[id]; ok {
			out = append(out, t)
		}
	}
	return out, nil
}

func (m *mockService) AudioFeatures(ctx context.Context, ids []string) ([]services.AudioFeatures, error) {
	var out []services.AudioFeatures
	for _, id := range ids {
		if f, ok := m.features[id]; ok {
			out = append(out, f)
		}
	}
	return out, nil
}

func (m *mockService) Artists(ctx context.Context, ids []string) ([]services.Artist, error) {
	return nil, nil
}

func (m *mockService) SearchTracks(ctx context.Context, q string, limit int) ([]services.Track, error) {
	return nil, nil
}

func (m *mockService) CurrentlyPlaying(ctx context.Context) (*services.Track, error) {
	return nil, nil
}

func (m *mockService) StartPlayback(ctx context.Context, id string, positionMs int) error {
	return nil
}

func (m *mockService) FollowedPlaylists(ctx context.Context) ([]services.Playlist, error) {
	var out []services.Playlist
	for _, pl := range m.playlists {
		out = append(out, pl)
	}
	return out, nil
}

func (m *mockService) CurrentUserID(ctx context.Context) (string, error) { return m.userID, nil }
func (m *mockService) Name() string                                      { return "mock" }

func TestRefreshCaches(t *testing.T) {
	svc := &mockService{
		userID: "user",
		playlists: map[string]services.Playlist{
			"pl90":   {ID: "pl90", Name: "WCS 90bpm", OwnerID: "user"},
			"plrock": {ID: "plrock", Name: "WCS rock", OwnerID: "user"},
			// Someone else's playlist with a registry name must be ignored.
			"theirs": {ID: "theirs", Name: "WCS 100bpm", OwnerID: "other"},
			// Unrelated playlist, not in any registry.
			"plmisc": {ID: "plmisc", Name: "road trip", OwnerID: "user"},
		},
		items: map[string][]services.PlaylistItem{
			"pl90": {
				{Track: services.Track{ID: "trk1"}},
				{Track: services.Track{}}, // local track, skipped
				{Track: services.Track{ID: "trk2"}},
			},
			"plrock": {
				{Track: services.Track{ID: "trk2"}},
			},
		},
	}

	dir := t.TempDir()
	logger := shared.NewLogger(io.Discard)
	if err := RefreshCaches(context.Background(), svc, dir, logger); err != nil {
		t.Fatalf("RefreshCaches failed: %v", err)
	}

	tempo, err := cache.LoadFile(cache.FilePath(dir, cache.TempoKey))
	if err != nil {
		t.Fatalf("tempo cache not written: %v", err)
	}
	pl := tempo.ByName("WCS 90bpm", "")
	if pl == nil {
		t.Fatal("WCS 90bpm missing from tempo cache")
	}
	if pl.Len() != 2 || !pl.ContainsTrack("trk1") || !pl.ContainsTrack("trk2") {
		t.Fatalf("unexpected membership: %v", pl.TrackIDs)
	}
	if tempo.ByName("WCS 100bpm", "") != nil {
		t.Fatal("foreign-owned playlist leaked into the cache")
	}

	genre, err := cache.LoadFile(cache.FilePath(dir, cache.GenreKey))
	if err != nil {
		t.Fatalf("genre cache not written: %v", err)
	}
	if genre.ByName("WCS rock", "") == nil {
		t.Fatal("WCS rock missing from genre cache")
	}
	if genre.ByName("road trip", "") != nil {
		t.Fatal("unregistered playlist leaked into the cache")
	}

	// Every category file is rewritten, even when empty.
	for _, key := range []string{cache.SpecialKey, cache.StatusKey} {
		if _, err := cache.LoadFile(cache.FilePath(dir, key)); err != nil {
			t.Fatalf("%s not written: %v", key, err)
		}
	}
}
