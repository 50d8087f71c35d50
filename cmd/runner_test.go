package main

import (
	"bytes"
	"context"
	"errors"
	"io"
	"path/filepath"
	"strings"
	"testing"

	"github.com/urfave/cli/v3"

	"crates/internal/cache"
	"crates/internal/services"
	"crates/internal/shared"
)

// mockService serves a canned library and records mutations.
type mockService struct {
	playlists map[string]services.Playlist
	items     map[string][]services.PlaylistItem

	addCalls []string // "playlistID/trackID"
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
	for _, id := range trackIDs {
		m.addCalls = append(m.addCalls, playlistID+"/"+id)
	}
	return nil
}

func (m *mockService) RemoveTracks(ctx context.Context, playlistID string, trackIDs ...string) error {
	return nil
}

func (m *mockService) Tracks(ctx context.Context, ids []string) ([]services.Track, error) {
	return nil, nil
}

func (m *mockService) AudioFeatures(ctx context.Context, ids []string) ([]services.AudioFeatures, error) {
	return nil, nil
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
	return nil, nil
}

func (m *mockService) CurrentUserID(ctx context.Context) (string, error) { return "user", nil }
func (m *mockService) Name() string                                      { return "mock" }

// 22-character base62 ids, the only shape ParseID accepts.
const (
	showID = "5555555555555555555555"
	allID  = "6666666666666666666666"
)

func seedCacheDir(t *testing.T, dir string) {
	t.Helper()

	write := func(key string, playlists ...*cache.Playlist) {
		group := cache.NewGroup()
		for _, pl := range playlists {
			group.AddPlaylist(pl)
		}
		if err := group.WriteFile(cache.FilePath(dir, key)); err != nil {
			t.Fatalf("failed to seed %s: %v", key, err)
		}
	}

	write(cache.TempoKey, cache.NewPlaylist("pl90", "WCS 90bpm"))
	write(cache.GenreKey, cache.NewPlaylist("plrock", "WCS rock"))
	write(cache.SpecialKey)
	write(cache.StatusKey)
}

func newTestRunner(t *testing.T, svc services.Service, input string) (*Runner, *bytes.Buffer) {
	t.Helper()

	dir := t.TempDir()
	seedCacheDir(t, dir)

	config := shared.DefaultConfig()
	config.Library.AllPlaylistID = allID
	config.Cache.Dir = dir
	config.Database.Path = filepath.Join(dir, "lookups.db")
	config.Sorter.RetryAttempts = 1
	config.Sorter.RetryDelaySeconds = 0

	out := &bytes.Buffer{}
	return NewRunner(RunnerOpts{
		Config:  config,
		Logger:  shared.NewLogger(io.Discard),
		Output:  out,
		Input:   strings.NewReader(input),
		Service: svc,
	}), out
}

func TestResolvePlaylist(t *testing.T) {
	svc := &mockService{
		playlists: map[string]services.Playlist{
			showID: {ID: showID, Name: "incoming"},
			"pl90": {ID: "pl90", Name: "WCS 90bpm"},
		},
	}
	runner, _ := newTestRunner(t, svc, "")
	ctx := context.Background()

	t.Run("by id", func(t *testing.T) {
		pl, err := runner.resolvePlaylist(ctx, svc, showID)
		if err != nil {
			t.Fatalf("resolvePlaylist failed: %v", err)
		}
		if pl.Name != "incoming" {
			t.Fatalf("unexpected playlist: %+v", pl)
		}
	})

	t.Run("by cached name without prefix", func(t *testing.T) {
		pl, err := runner.resolvePlaylist(ctx, svc, "90bpm")
		if err != nil {
			t.Fatalf("resolvePlaylist failed: %v", err)
		}
		if pl.ID != "pl90" {
			t.Fatalf("unexpected playlist: %+v", pl)
		}
	})

	t.Run("unknown", func(t *testing.T) {
		_, err := runner.resolvePlaylist(ctx, svc, "no such list")
		if !errors.Is(err, shared.ErrPlaylistNotFound) {
			t.Fatalf("expected ErrPlaylistNotFound, got %v", err)
		}
	})

	t.Run("missing argument", func(t *testing.T) {
		_, err := runner.resolvePlaylist(ctx, svc, "")
		if !errors.Is(err, shared.ErrMissingArgument) {
			t.Fatalf("expected ErrMissingArgument, got %v", err)
		}
	})
}

func TestSortCommandEndToEnd(t *testing.T) {
	svc := &mockService{
		playlists: map[string]services.Playlist{
			showID: {ID: showID, Name: "incoming"},
			allID:  {ID: allID, Name: "WCS all"},
		},
		items: map[string][]services.PlaylistItem{
			showID: {
				{Track: services.Track{
					ID:      "trk1",
					Name:    "Night Song",
					Artists: []services.Artist{{ID: "art1", Name: "Some Artist"}},
					Album:   services.Album{ReleaseDate: "2014-03-01"},
				}},
			},
		},
	}

	// Tempo 90, no genre, playback disabled via a negative start offset.
	runner, out := newTestRunner(t, svc, "90\n\n")

	app := &cli.Command{Name: "crates", Commands: runner.register()}
	err := app.Run(context.Background(), []string{"crates", "sort", "-s", "-1", showID})
	if err != nil {
		t.Fatalf("sort command failed: %v", err)
	}

	wantAdds := []string{"pl90/trk1", allID + "/trk1"}
	if strings.Join(svc.addCalls, " ") != strings.Join(wantAdds, " ") {
		t.Fatalf("expected adds %v, got %v", wantAdds, svc.addCalls)
	}
	if !strings.Contains(out.String(), "Night Song") {
		t.Fatalf("track info not shown:\n%s", out.String())
	}
}

func TestSortCommandNameMismatchOnAllPlaylist(t *testing.T) {
	svc := &mockService{
		playlists: map[string]services.Playlist{
			showID: {ID: showID, Name: "incoming"},
			allID:  {ID: allID, Name: "renamed by someone"},
		},
	}
	runner, _ := newTestRunner(t, svc, "")

	app := &cli.Command{Name: "crates", Commands: runner.register()}
	err := app.Run(context.Background(), []string{"crates", "sort", showID})
	if !errors.Is(err, shared.ErrNameMismatch) {
		t.Fatalf("expected ErrNameMismatch, got %v", err)
	}
}
