package main

import (
	"context"

	"github.com/urfave/cli/v3"

	"crates/internal/repositories"
	"crates/internal/shared"
)

// Setup writes the starter config file and initializes the lookup database.
func (r *Runner) Setup(ctx context.Context, cmd *cli.Command) error {
	console := r.console()

	path := cmd.String("config")
	if err := shared.CreateConfigFile(path); err != nil {
		r.logger.Warnf("%v", err)
	} else {
		console.OK("Wrote %s. Fill in your Spotify credentials and playlist ids.", path)
	}

	db, err := shared.NewDatabase(r.config.Database.Path)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := repositories.InitSchema(db); err != nil {
		return err
	}
	console.OK("Lookup database ready at %s.", r.config.Database.Path)
	return nil
}
