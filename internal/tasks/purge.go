package tasks

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"crates/internal/cache"
	"crates/internal/services"
	"crates/internal/shared"
)

// PurgeEntry records one removed-list track and the playlists it was found in.
type PurgeEntry struct {
	Track     services.Track
	Playlists []services.Playlist
}

// PurgeResult summarizes a purge pass.
type PurgeResult struct {
	Confirmed bool
	Entries   []PurgeEntry
}

// PurgeOptions configures a purge pass.
type PurgeOptions struct {
	// Confirm actually removes tracks; otherwise this is a dry run.
	Confirm bool
	// LogW, when non-nil, receives the findings as an append-only log.
	// Only written on confirmed runs.
	LogW io.Writer
}

// Purge finds every member of the configured "removed" playlist across the
// all-tracks playlist and every cached category playlist, and (when confirmed)
// removes them remotely. Membership is checked against live listings, not the
// cache, so a stale cache can't cause a missed removal.
func Purge(ctx context.Context, svc services.Service, lib shared.LibraryConfig, cacheDir string,
	opts PurgeOptions, logger *log.Logger) (*PurgeResult, error) {

	if lib.RemovedPlaylistID == "" {
		return nil, fmt.Errorf("%w: removed_playlist_id not configured", shared.ErrMissingConfig)
	}

	removed, err := svc.Playlist(ctx, lib.RemovedPlaylistID)
	if err != nil {
		return nil, err
	}
	if lib.RemovedPlaylistName != "" && removed.Name != lib.RemovedPlaylistName {
		return nil, fmt.Errorf("%w: expected %q, remote says %q",
			shared.ErrNameMismatch, lib.RemovedPlaylistName, removed.Name)
	}

	removedItems, err := svc.PlaylistItems(ctx, lib.RemovedPlaylistID)
	if err != nil {
		return nil, err
	}

	removedIDs := map[string]bool{}
	for _, item := range removedItems {
		if item.Track.ID != "" {
			removedIDs[item.Track.ID] = true
		}
	}

	foundIn := map[string][]services.Playlist{}

	handle := func(playlistID, expectedName string) error {
		remote, err := svc.Playlist(ctx, playlistID)
		if err != nil {
			return err
		}
		if expectedName != "" && remote.Name != expectedName {
			return fmt.Errorf("%w: expected %q, remote says %q", shared.ErrNameMismatch, expectedName, remote.Name)
		}

		logger.Info("checking playlist", "name", remote.Name)
		items, err := svc.PlaylistItems(ctx, playlistID)
		if err != nil {
			return err
		}

		var hits []string
		seen := map[string]bool{}
		for _, item := range items {
			id := item.Track.ID
			if id == "" || !removedIDs[id] || seen[id] {
				continue
			}
			seen[id] = true
			hits = append(hits, id)
			foundIn[id] = append(foundIn[id], *remote)
		}

		if len(hits) > 0 && opts.Confirm {
			if err := svc.RemoveTracks(ctx, playlistID, hits...); err != nil {
				return err
			}
		}
		return nil
	}

	if err := handle(lib.AllPlaylistID, lib.AllPlaylistName); err != nil {
		return nil, err
	}

	for _, category := range cache.Categories() {
		group, err := cache.LoadFile(cache.FilePath(cacheDir, category.Key))
		if err != nil {
			return nil, err
		}
		for _, pl := range group.Playlists() {
			if pl.ID == lib.RemovedPlaylistID {
				continue
			}
			if err := handle(pl.ID, pl.Name); err != nil {
				return nil, err
			}
		}
	}

	result := &PurgeResult{Confirmed: opts.Confirm}
	for _, item := range removedItems {
		id := item.Track.ID
		if id == "" || len(foundIn[id]) == 0 {
			continue
		}
		result.Entries = append(result.Entries, PurgeEntry{Track: item.Track, Playlists: foundIn[id]})
	}

	if opts.Confirm && opts.LogW != nil {
		writeLog(opts.LogW, result)
	}
	return result, nil
}

func writeLog(w io.Writer, result *PurgeResult) {
	fmt.Fprintf(w, "=== %s ===\n", time.Now().Format(time.RFC3339))
	for _, entry := range result.Entries {
		fmt.Fprintf(w, "Removed [%s] %q (%s), which was in:\n",
			entry.Track.ID, entry.Track.Name, services.FormatArtists(entry.Track.Artists))
		for _, pl := range entry.Playlists {
			fmt.Fprintf(w, " - [%s] %s\n", pl.ID, pl.Name)
		}
	}
	fmt.Fprintln(w)
}
