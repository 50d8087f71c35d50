package main

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/urfave/cli/v3"

	"crates/internal/cache"
	"crates/internal/repositories"
	"crates/internal/services"
	"crates/internal/shared"
	"crates/internal/sorter"
	"crates/internal/ui"
)

// Runner holds all dependencies for CLI commands and provides methods for
// each command action.
type Runner struct {
	config  *shared.Config
	logger  *log.Logger
	output  io.Writer
	input   io.Reader
	svc     services.Service
	palette *ui.Palette
}

// RunnerOpts contains configuration options for creating a Runner.
type RunnerOpts struct {
	Config  *shared.Config
	Logger  *log.Logger
	Output  io.Writer
	Input   io.Reader
	Service services.Service // injected by tests; nil means authenticate lazily
}

// NewRunner creates a new Runner with the provided configuration
func NewRunner(opts RunnerOpts) *Runner {
	if opts.Config == nil {
		opts.Config = shared.DefaultConfig()
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}
	if opts.Input == nil {
		opts.Input = os.Stdin
	}

	return &Runner{
		config:  opts.Config,
		logger:  opts.Logger,
		output:  opts.Output,
		input:   opts.Input,
		svc:     opts.Service,
		palette: ui.TermPalette(),
	}
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		setupCommand, authCommand, sortCommand, checkCommand, refreshCommand, viewCommand, trackCommand, purgeCommand,
	} {
		commands = append(commands, fn(r))
	}
	return commands
}

func (r *Runner) console() *ui.Console {
	return ui.NewConsole(r.input, r.output, r.palette)
}

func (r *Runner) writePlain(format string, args ...any) {
	fmt.Fprintf(r.output, format, args...)
}

// service returns the remote service handle, authenticating from the
// persisted token on first use.
func (r *Runner) service(ctx context.Context) (services.Service, error) {
	if r.svc != nil {
		return r.svc, nil
	}

	svc, err := services.NewAuthenticatedService(ctx, r.config.Credentials.Spotify)
	if err != nil {
		return nil, err
	}
	r.svc = svc
	return svc, nil
}

// openLookups opens the sqlite lookup cache. A broken database degrades to a
// nil repository, the sorter just falls back to remote lookups.
func (r *Runner) openLookups() (*repositories.LookupRepository, *sql.DB) {
	db, err := shared.NewDatabase(r.config.Database.Path)
	if err != nil {
		r.logger.Warnf("lookup cache unavailable: %v", err)
		return nil, nil
	}

	shared.ConfigureDatabase(db, r.config.Database.MaxOpenConns, r.config.Database.MaxIdleConns)
	if err := repositories.InitSchema(db); err != nil {
		r.logger.Warnf("lookup cache unavailable: %v", err)
		db.Close()
		return nil, nil
	}
	return repositories.NewLookupRepository(db), db
}

// loadGroup loads one category cache file.
func (r *Runner) loadGroup(key string) (*cache.Group, error) {
	return cache.LoadFile(cache.FilePath(r.config.Cache.Dir, key))
}

// loadSession assembles a Sorter: tempo and genre groups from their cache
// files, special and status groups when present, and the all-tracks playlist
// fetched live with its configured name verified.
func (r *Runner) loadSession(ctx context.Context, svc services.Service, cfg sorter.Config,
	lookups *repositories.LookupRepository) (*sorter.Sorter, error) {

	lib := r.config.Library
	if lib.AllPlaylistID == "" {
		return nil, fmt.Errorf("%w: all_playlist_id not configured", shared.ErrMissingConfig)
	}

	tempo, err := r.loadGroup(cache.TempoKey)
	if err != nil {
		return nil, err
	}
	genre, err := r.loadGroup(cache.GenreKey)
	if err != nil {
		return nil, err
	}

	var extra []*cache.Group
	for _, key := range []string{cache.SpecialKey, cache.StatusKey} {
		group, err := r.loadGroup(key)
		if err != nil {
			r.logger.Warnf("skipping %s: %v", key, err)
			continue
		}
		extra = append(extra, group)
	}

	all, err := cache.FromRemote(ctx, svc, lib.AllPlaylistID, lib.AllPlaylistName)
	if err != nil {
		return nil, err
	}

	cfg.Prefix = lib.Prefix
	cfg.CacheDir = r.config.Cache.Dir
	cfg.RetryAttempts = r.config.Sorter.RetryAttempts
	cfg.RetryDelay = r.config.Sorter.RetryDelay()
	cfg.ClipTempoDisplay = r.config.Sorter.ClipTempo

	return sorter.New(svc, r.console(), shared.SessionLogger(r.logger), lookups, cfg,
		tempo, genre, all, extra...), nil
}

// resolvePlaylist turns a playlist argument (cached name, URI, URL or bare
// id) into remote playlist metadata.
func (r *Runner) resolvePlaylist(ctx context.Context, svc services.Service, arg string) (*services.Playlist, error) {
	if arg == "" {
		return nil, fmt.Errorf("%w: playlist", shared.ErrMissingArgument)
	}

	if id := services.ParseID(arg, "playlist"); id != "" {
		return svc.Playlist(ctx, id)
	}

	for _, category := range cache.Categories() {
		group, err := r.loadGroup(category.Key)
		if err != nil {
			continue
		}
		if pl := group.ByName(arg, r.config.Library.Prefix); pl != nil {
			return svc.Playlist(ctx, pl.ID)
		}
	}

	return nil, fmt.Errorf("%w: %q is not a cached playlist name or a playlist id", shared.ErrPlaylistNotFound, arg)
}
