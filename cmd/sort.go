package main

import (
	"context"
	"errors"
	"io"

	"github.com/urfave/cli/v3"

	"crates/internal/sorter"
)

// Sort interactively files every track of one playlist into the tempo and
// genre lists.
func (r *Runner) Sort(ctx context.Context, cmd *cli.Command) error {
	svc, err := r.service(ctx)
	if err != nil {
		return err
	}

	playlist, err := r.resolvePlaylist(ctx, svc, cmd.StringArg("playlist"))
	if err != nil {
		return err
	}

	lookups, db := r.openLookups()
	if db != nil {
		defer db.Close()
	}

	cfg := sorter.Config{
		PromptForAll:    false,
		OnAlreadySorted: sorter.PolicyPrompt,
		PlaybackStartMs: int(cmd.Float("playback-start") * 1000),
	}
	if cmd.Bool("skip-sorted") {
		cfg.OnAlreadySorted = sorter.PolicySkip
	}

	s, err := r.loadSession(ctx, svc, cfg, lookups)
	if err != nil {
		return err
	}

	// Membership in the playlist being sorted mustn't count as filing.
	s.Everything.RemovePlaylist(playlist.ID)

	console := r.console()
	console.Printf("Sorting playlist %s [%s]\n\n", console.Palette().Title(playlist.Name), playlist.ID)

	items, err := svc.PlaylistItems(ctx, playlist.ID)
	if err != nil {
		return err
	}

	for _, item := range items {
		if item.Track.ID == "" {
			continue
		}

		addedAt := item.AddedAt
		err := s.SortTrack(ctx, item.Track, &addedAt)
		if errors.Is(err, sorter.ErrSessionQuit) || errors.Is(err, io.EOF) {
			console.Println("Session ended.")
			return nil
		}
		if err != nil {
			return err
		}

		if cmd.Bool("remove-after-sort") {
			if err := svc.RemoveTracks(ctx, playlist.ID, item.Track.ID); err != nil {
				console.Warnf("Couldn't remove from %s: %v", playlist.Name, err)
			} else {
				console.Errf("← removed from %s", playlist.Name)
			}
		}
		console.Println()
	}

	console.OK("Done, every track in %s handled.", playlist.Name)
	return nil
}
