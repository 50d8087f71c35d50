// submodule cmd contains command definitions
package main

import "github.com/urfave/cli/v3"

// setupCommand writes the starter config and initializes the lookup database.
func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "setup",
		Usage: "Write a starter config.toml and initialize the lookup database",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to configuration file",
				Value:   "config.toml",
			},
		},
		Action: r.Setup,
	}
}

// authCommand handles authentication operations
func authCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "auth",
		Usage: "Manage Spotify authentication",
		Commands: []*cli.Command{
			{
				Name:   "login",
				Usage:  "Authenticate with Spotify using OAuth2 and persist the token",
				Action: r.AuthLogin,
			},
			{
				Name:   "status",
				Usage:  "Check whether a usable token is present",
				Action: r.AuthStatus,
			},
		},
	}
}

// sortCommand drives the interactive sort of one playlist.
func sortCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "sort",
		Usage: "Interactively file each track of a playlist into tempo and genre lists",
		Arguments: []cli.Argument{
			&cli.StringArg{
				Name: "playlist",
			},
		},
		Flags: []cli.Flag{
			&cli.FloatFlag{
				Name:    "playback-start",
				Aliases: []string{"s"},
				Usage:   "Start playback this many seconds into each track",
				Value:   15,
			},
			&cli.BoolFlag{
				Name:    "skip-sorted",
				Aliases: []string{"q"},
				Usage:   "Don't prompt about tracks that are already properly sorted",
			},
			&cli.BoolFlag{
				Name:  "remove-after-sort",
				Usage: "Remove each track from this playlist once it is sorted",
			},
		},
		Action: r.Sort,
	}
}

// checkCommand scans the whole library for inconsistent filing.
func checkCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "check",
		Usage: "Check that every track is in the all list, one tempo list and a genre list",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:    "list",
				Aliases: []string{"l"},
				Usage:   "List offending tracks, don't rectify",
			},
			&cli.BoolFlag{
				Name:  "skip-refresh",
				Usage: "Skip refreshing the cache first (use if you just ran refresh)",
			},
			&cli.FloatFlag{
				Name:    "playback-start",
				Aliases: []string{"s"},
				Usage:   "Start playback this many seconds into each track",
				Value:   15,
			},
		},
		Action: r.Check,
	}
}

// refreshCommand rebuilds the category cache files from the remote library.
func refreshCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:   "refresh",
		Usage:  "Rebuild the category playlist caches from the remote library",
		Action: r.Refresh,
	}
}

// viewCommand shows a playlist with filing annotations.
func viewCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "view",
		Usage: "Show a playlist annotated with cached tempo and genre filing",
		Arguments: []cli.Argument{
			&cli.StringArg{
				Name: "playlist",
			},
		},
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:    "no-bpm-clip",
				Aliases: []string{"B"},
				Usage:   "Don't clip displayed BPMs to be between 60 and 140",
			},
			&cli.StringFlag{
				Name:    "release-date-precision",
				Aliases: []string{"r"},
				Usage:   "Display release date as year, month or day",
				Value:   "year",
			},
			&cli.BoolFlag{
				Name:  "tui",
				Usage: "Browse the listing interactively",
			},
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "Export the listing to this CSV file",
			},
		},
		Action: r.View,
	}
}

// trackCommand shows (and optionally sorts) a single track.
func trackCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "track",
		Usage: "Show details for a track by URI or search, or the currently playing track",
		Arguments: []cli.Argument{
			&cli.StringArg{
				Name: "track",
			},
		},
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "sort",
				Usage: "Sort the track",
			},
			&cli.BoolFlag{
				Name:    "verbose",
				Aliases: []string{"v"},
				Usage:   "Show more information about the search",
			},
		},
		Action: r.Track,
	}
}

// purgeCommand removes every member of the removed playlist from all other playlists.
func purgeCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "purge",
		Usage: "Remove all tracks on the removed playlist from every other playlist (dry run by default)",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "confirm",
				Usage: "Actually remove the tracks",
			},
			&cli.StringFlag{
				Name:    "output-file",
				Aliases: []string{"O"},
				Usage:   "Record removed tracks here (used only with --confirm)",
				Value:   "removed.log",
			},
		},
		Action: r.Purge,
	}
}
