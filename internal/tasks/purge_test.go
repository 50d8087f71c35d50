package tasks

import (
	"bytes"
	"context"
	"errors"
	"io"
	"slices"
	"strings"
	"testing"

	"crates/internal/cache"
	"crates/internal/services"
	"crates/internal/shared"
)

func purgeFixture(t *testing.T) (*mockService, shared.LibraryConfig, string) {
	t.Helper()

	svc := &mockService{
		userID: "user",
		playlists: map[string]services.Playlist{
			"plall":  {ID: "plall", Name: "WCS all", OwnerID: "user"},
			"plrm":   {ID: "plrm", Name: "WCS removed", OwnerID: "user"},
			"pl90":   {ID: "pl90", Name: "WCS 90bpm", OwnerID: "user"},
			"plrock": {ID: "plrock", Name: "WCS rock", OwnerID: "user"},
		},
		items: map[string][]services.PlaylistItem{
			"plrm": {
				{Track: services.Track{ID: "trkX", Name: "Gone Song"}},
				{Track: services.Track{ID: "trkY", Name: "Other Gone Song"}},
			},
			"plall": {
				{Track: services.Track{ID: "trkX"}},
				{Track: services.Track{ID: "trkKeep"}},
			},
			"pl90": {
				{Track: services.Track{ID: "trkX"}},
				{Track: services.Track{ID: "trkY"}},
			},
			"plrock": {
				{Track: services.Track{ID: "trkKeep"}},
			},
		},
	}

	lib := shared.LibraryConfig{
		Prefix:              "WCS ",
		AllPlaylistID:       "plall",
		AllPlaylistName:     "WCS all",
		RemovedPlaylistID:   "plrm",
		RemovedPlaylistName: "WCS removed",
	}

	dir := t.TempDir()
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
	// The removed playlist itself shows up in the special category and must be
	// skipped, not purged from.
	write(cache.SpecialKey, cache.NewPlaylist("plrm", "WCS removed"))
	write(cache.StatusKey)

	return svc, lib, dir
}

func TestPurgeDryRun(t *testing.T) {
	svc, lib, dir := purgeFixture(t)
	logger := shared.NewLogger(io.Discard)

	result, err := Purge(context.Background(), svc, lib, dir, PurgeOptions{}, logger)
	if err != nil {
		t.Fatalf("Purge failed: %v", err)
	}

	if result.Confirmed {
		t.Fatal("dry run reported as confirmed")
	}
	if len(svc.removeCalls) != 0 {
		t.Fatalf("dry run must not remove anything, got %v", svc.removeCalls)
	}

	if len(result.Entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(result.Entries))
	}
	x := result.Entries[0]
	if x.Track.ID != "trkX" || len(x.Playlists) != 2 {
		t.Fatalf("unexpected first entry: %+v", x)
	}
	y := result.Entries[1]
	if y.Track.ID != "trkY" || len(y.Playlists) != 1 || y.Playlists[0].ID != "pl90" {
		t.Fatalf("unexpected second entry: %+v", y)
	}
}

func TestPurgeConfirmed(t *testing.T) {
	svc, lib, dir := purgeFixture(t)
	logger := shared.NewLogger(io.Discard)

	var logBuf bytes.Buffer
	result, err := Purge(context.Background(), svc, lib, dir,
		PurgeOptions{Confirm: true, LogW: &logBuf}, logger)
	if err != nil {
		t.Fatalf("Purge failed: %v", err)
	}
	if !result.Confirmed {
		t.Fatal("confirmed run reported as dry run")
	}

	for _, want := range []string{"plall/trkX", "pl90/trkX", "pl90/trkY"} {
		if !slices.Contains(svc.removeCalls, want) {
			t.Fatalf("missing removal %s, got %v", want, svc.removeCalls)
		}
	}
	if slices.Contains(svc.removeCalls, "plrm/trkX") || slices.Contains(svc.removeCalls, "plrm/trkY") {
		t.Fatal("purge must never remove from the removed playlist itself")
	}
	for _, call := range svc.removeCalls {
		if strings.Contains(call, "trkKeep") {
			t.Fatalf("trkKeep is not on the removed list but was removed: %v", svc.removeCalls)
		}
	}

	log := logBuf.String()
	if !strings.Contains(log, "Gone Song") || !strings.Contains(log, "WCS 90bpm") {
		t.Fatalf("removal log incomplete:\n%s", log)
	}
}

func TestPurgeNameMismatch(t *testing.T) {
	svc, lib, dir := purgeFixture(t)
	logger := shared.NewLogger(io.Discard)

	pl := svc.playlists["plrm"]
	pl.Name = "renamed"
	svc.playlists["plrm"] = pl

	_, err := Purge(context.Background(), svc, lib, dir, PurgeOptions{}, logger)
	if !errors.Is(err, shared.ErrNameMismatch) {
		t.Fatalf("expected ErrNameMismatch, got %v", err)
	}
}
