package main

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/urfave/cli/v3"

	"crates/internal/services"
	"crates/internal/shared"
	"crates/internal/sorter"
)

// Track shows details for a single track: the currently playing one when no
// argument is given, otherwise the track named by URI, URL, id or search
// query. With --sort it runs the interactive sort on it.
func (r *Runner) Track(ctx context.Context, cmd *cli.Command) error {
	svc, err := r.service(ctx)
	if err != nil {
		return err
	}

	lookups, db := r.openLookups()
	if db != nil {
		defer db.Close()
	}

	cfg := sorter.Config{
		PromptForAll:    true,
		OnAlreadySorted: sorter.PolicyPrompt,
		PlaybackStartMs: -1, // the track is usually already playing
	}
	s, err := r.loadSession(ctx, svc, cfg, lookups)
	if err != nil {
		return err
	}

	track, err := r.findTrack(ctx, svc, s, cmd.StringArg("track"), cmd.Bool("verbose"))
	if err != nil {
		return err
	}

	if cmd.Bool("sort") {
		err := s.SortTrack(ctx, *track, nil)
		if errors.Is(err, sorter.ErrSessionQuit) || errors.Is(err, io.EOF) {
			return nil
		}
		return err
	}

	s.ShowTrackInfo(ctx, *track, nil)
	s.ShowExistingPlaylists(*track)
	return nil
}

// findTrack resolves the track argument: empty means the currently playing
// track, a URI/URL/id is fetched directly, anything else is a search query.
// Search prefers a result that is already in a cached playlist, on the theory
// that the operator is usually asking about their own library.
func (r *Runner) findTrack(ctx context.Context, svc services.Service, s *sorter.Sorter,
	arg string, verbose bool) (*services.Track, error) {

	console := r.console()

	if arg == "" {
		playing, err := svc.CurrentlyPlaying(ctx)
		if err != nil {
			return nil, err
		}
		if playing == nil {
			return nil, fmt.Errorf("%w: nothing is playing right now", shared.ErrTrackNotFound)
		}
		console.Println("Currently playing:")
		return playing, nil
	}

	if id := services.ParseID(arg, "track"); id != "" {
		tracks, err := svc.Tracks(ctx, []string{id})
		if err != nil {
			return nil, err
		}
		if len(tracks) == 0 {
			return nil, fmt.Errorf("%w: %s", shared.ErrTrackNotFound, id)
		}
		return &tracks[0], nil
	}

	results, err := svc.SearchTracks(ctx, arg, 20)
	if err != nil {
		return nil, err
	}
	if len(results) == 0 {
		return nil, fmt.Errorf("%w: no results for %q", shared.ErrTrackNotFound, arg)
	}

	if verbose {
		console.Printf("%d results for %q:\n", len(results), arg)
		for _, t := range results {
			console.Printf(" - %s (%s)\n", t.Name, services.FormatArtists(t.Artists))
		}
	}

	for i := range results {
		if len(s.Everything.PlaylistsContaining(results[i].ID)) > 0 {
			console.Println("First result already in the library:")
			return &results[i], nil
		}
	}
	console.Println("First result:")
	return &results[0], nil
}
