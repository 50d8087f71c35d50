package main

import (
	"context"
	"fmt"
	"os"

	"github.com/urfave/cli/v3"

	"crates/internal/services"
	"crates/internal/tasks"
)

// Purge removes every member of the removed playlist from all other
// playlists. Dry run unless --confirm is given; confirmed removals are
// appended to the removal log.
func (r *Runner) Purge(ctx context.Context, cmd *cli.Command) error {
	svc, err := r.service(ctx)
	if err != nil {
		return err
	}

	opts := tasks.PurgeOptions{Confirm: cmd.Bool("confirm")}
	if opts.Confirm {
		f, err := os.OpenFile(cmd.String("output-file"), os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
		if err != nil {
			return fmt.Errorf("failed to open removal log: %w", err)
		}
		defer f.Close()
		opts.LogW = f
	}

	result, err := tasks.Purge(ctx, svc, r.config.Library, r.config.Cache.Dir, opts, r.logger)
	if err != nil {
		return err
	}

	console := r.console()
	if len(result.Entries) == 0 {
		console.OK("Nothing on the removed list is in any other playlist.")
		return nil
	}

	verb := "Would remove"
	if result.Confirmed {
		verb = "Removed"
	}
	for _, entry := range result.Entries {
		console.Printf("%s %q (%s) from:\n", verb, entry.Track.Name, services.FormatArtists(entry.Track.Artists))
		for _, pl := range entry.Playlists {
			console.Printf(" - %s\n", pl.Name)
		}
	}

	if result.Confirmed {
		console.OK("Removals recorded in %s.", cmd.String("output-file"))
	} else {
		console.Warnf("Dry run, nothing removed. Re-run with --confirm to follow through.")
	}
	return nil
}
