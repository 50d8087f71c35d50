package main

import (
	"context"
	"errors"
	"io"

	"github.com/urfave/cli/v3"

	"crates/internal/sorter"
	"crates/internal/tasks"
)

// Check scans the whole library for inconsistently filed tracks and either
// lists them or walks the operator through fixing each one.
func (r *Runner) Check(ctx context.Context, cmd *cli.Command) error {
	svc, err := r.service(ctx)
	if err != nil {
		return err
	}

	if !cmd.Bool("skip-refresh") {
		if err := tasks.RefreshCaches(ctx, svc, r.config.Cache.Dir, r.logger); err != nil {
			return err
		}
	}

	lookups, db := r.openLookups()
	if db != nil {
		defer db.Close()
	}

	cfg := sorter.Config{
		PromptForAll:    true,
		OnAlreadySorted: sorter.PolicyPrompt,
		PlaybackStartMs: int(cmd.Float("playback-start") * 1000),
	}

	s, err := r.loadSession(ctx, svc, cfg, lookups)
	if err != nil {
		return err
	}

	ids := tasks.CollectTrackIDs(s.Tempo, s.Genre, s.All)
	offenders := tasks.FindUnsorted(ids, s.Tempo, s.Genre, s.All)

	console := r.console()
	r.writePlain("There are %d tracks in total, %d of them in %s.\n", len(ids), s.All.Len(), s.All.Name)
	if len(offenders) == 0 {
		console.OK("Everything is filed consistently.")
		return nil
	}
	r.writePlain("%d tracks have inconsistent filing.\n\n", len(offenders))

	tracks, err := svc.Tracks(ctx, offenders)
	if err != nil {
		return err
	}

	if cmd.Bool("list") {
		findings := make([]tasks.Finding, 0, len(tracks))
		for _, track := range tracks {
			findings = append(findings,
				tasks.NewFinding(track, s.Everything, s.Tempo, s.Genre, s.All, r.config.Library.Prefix))
		}
		tasks.RenderReport(r.output, findings)
		return nil
	}

	for _, track := range tracks {
		err := s.SortTrack(ctx, track, nil)
		if errors.Is(err, sorter.ErrSessionQuit) || errors.Is(err, io.EOF) {
			console.Println("Session ended.")
			return nil
		}
		if err != nil {
			return err
		}
		console.Println()
	}

	return nil
}

// Refresh rebuilds the category playlist caches from the remote library.
func (r *Runner) Refresh(ctx context.Context, cmd *cli.Command) error {
	svc, err := r.service(ctx)
	if err != nil {
		return err
	}

	if err := tasks.RefreshCaches(ctx, svc, r.config.Cache.Dir, r.logger); err != nil {
		return err
	}
	r.console().OK("Caches rebuilt in %s.", r.config.Cache.Dir)
	return nil
}
