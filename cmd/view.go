package main

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"crates/internal/cache"
	"crates/internal/formatter"
	"crates/internal/tasks"
	"crates/internal/ui"
)

// View prints a playlist's tracks annotated with cached tempo and genre
// filing, or exports them to CSV, or browses them interactively.
func (r *Runner) View(ctx context.Context, cmd *cli.Command) error {
	svc, err := r.service(ctx)
	if err != nil {
		return err
	}

	playlist, err := r.resolvePlaylist(ctx, svc, cmd.StringArg("playlist"))
	if err != nil {
		return err
	}

	tempo, err := r.loadGroup(cache.TempoKey)
	if err != nil {
		return err
	}
	genre, err := r.loadGroup(cache.GenreKey)
	if err != nil {
		return err
	}
	// Viewing a genre playlist: its own membership column would be all noise.
	genre.RemovePlaylist(playlist.ID)

	listing, err := tasks.BuildListing(ctx, svc, tempo, genre, *playlist, tasks.ListingOptions{
		Prefix:           r.config.Library.Prefix,
		ClipTempo:        !cmd.Bool("no-bpm-clip"),
		ReleasePrecision: cmd.String("release-date-precision"),
	})
	if err != nil {
		return err
	}

	if path := cmd.String("output"); path != "" {
		written, err := formatter.WriteCSVExport(listing, path)
		if err != nil {
			return err
		}
		r.console().OK("Exported %d tracks to %s", len(listing.Rows), written)
		return nil
	}

	if cmd.Bool("tui") {
		items := make([]ui.Item, 0, len(listing.Rows))
		for _, row := range listing.Rows {
			items = append(items, ui.Item{
				TitleText: fmt.Sprintf("%d. %s / %s", row.Index, row.Name, row.Artists),
				DescText:  fmt.Sprintf("%s bpm │ %s │ %s %s", row.Tempo, row.Release, row.TempoLists, row.Genres),
			})
		}
		title := fmt.Sprintf("%s (%d tracks)", playlist.Name, len(listing.Rows))
		return ui.Browse(title, items)
	}

	text, err := formatter.ExportToText(listing)
	if err != nil {
		return err
	}
	_, err = r.output.Write(text)
	return err
}
