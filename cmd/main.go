package main

import (
	"context"
	"os"

	"github.com/joho/godotenv"
	"github.com/urfave/cli/v3"

	"crates/internal/shared"
)

func main() {
	logger := shared.NewLogger(nil)

	// .env is an optional convenience for credentials during development.
	godotenv.Load()

	config := shared.DefaultConfig()
	if _, err := os.Stat("config.toml"); err == nil {
		if loadedConfig, err := shared.LoadConfig("config.toml"); err == nil {
			config = loadedConfig
		} else {
			logger.Warnf("ignoring config.toml: %v", err)
		}
	}
	applyEnvCredentials(config)

	runner := NewRunner(RunnerOpts{
		Config: config,
		Logger: logger,
	})

	app := &cli.Command{
		Name:     "crates",
		Usage:    "Sort a streaming library into tempo and genre playlists",
		Version:  "0.3.0",
		Commands: runner.register(),
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		logger.Fatalf("application error: %v", err)
	}
}

// applyEnvCredentials lets SPOTIFY_ID / SPOTIFY_SECRET override the config
// file, so credentials can stay out of version-controlled config.
func applyEnvCredentials(config *shared.Config) {
	if id := os.Getenv("SPOTIFY_ID"); id != "" {
		config.Credentials.Spotify.ClientID = id
	}
	if secret := os.Getenv("SPOTIFY_SECRET"); secret != "" {
		config.Credentials.Spotify.ClientSecret = secret
	}
}
