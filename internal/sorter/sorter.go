// package sorter implements the interactive workflow that files tracks into
// tempo and genre playlists.
//
// Sorting one track walks a fixed sequence: show track info, check existing
// memberships, optionally seek playback, then prompt for a tempo list, zero
// or more genre lists, and the all-tracks playlist. Each assignment step
// reports an Outcome so the state transitions live in return values rather
// than control-flow exceptions.
package sorter

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/adrg/strutil"
	"github.com/adrg/strutil/metrics"
	"github.com/charmbracelet/log"

	"crates/internal/cache"
	"crates/internal/repositories"
	"crates/internal/services"
	"crates/internal/ui"
)

// Outcome is the tagged result of one assignment step.
type Outcome int

const (
	// Continue means the step finished and the next step should run.
	Continue Outcome = iota
	// Skipped means the operator abandoned the remaining steps for this track.
	Skipped
	// Aborted means the operator ended the whole session.
	Aborted
)

// Policy controls what happens when a track already looks fully sorted.
type Policy int

const (
	// PolicyPrompt asks the operator whether to sort anyway.
	PolicyPrompt Policy = iota
	// PolicySkip silently moves on.
	PolicySkip
	// PolicyAlways sorts regardless.
	PolicyAlways
)

// ErrSessionQuit is returned by SortTrack when the operator ends the session.
// Prior committed steps stay committed.
var ErrSessionQuit = errors.New("session ended by operator")

// Config carries the argument-derived settings the sorter needs, threaded in
// explicitly at construction.
type Config struct {
	// Prefix is the shared branding prefix on curated playlist names ("WCS ").
	Prefix string
	// PromptForAll asks before adding to the all-tracks playlist.
	PromptForAll bool
	// OnAlreadySorted picks the policy for fully sorted tracks.
	OnAlreadySorted Policy
	// PlaybackStartMs seeks playback this far into each track. Negative
	// disables the playback side effect.
	PlaybackStartMs int
	// RetryAttempts and RetryDelay bound the retry loop on failing remote adds.
	RetryAttempts int
	RetryDelay    time.Duration
	// ClipTempoDisplay clips reported BPM into [60,140] for display.
	ClipTempoDisplay bool
	// CacheDir holds the category cache files.
	CacheDir string
}

// Sorter drives the interactive sort of tracks into playlists. It owns the
// session state: the per-category groups, the all-tracks playlist, an
// aggregate view of everything, and transient lookup caches.
type Sorter struct {
	svc     services.Service
	console *ui.Console
	logger  *log.Logger
	lookups *repositories.LookupRepository
	cfg     Config

	// Tempo and Genre mirror tempo.json and genre.json. All is the
	// distinguished all-tracks playlist, fetched live at session start.
	// Everything aggregates every relevant playlist for already-filed
	// detection; it shares the *cache.Playlist values with the category
	// groups, so mutations are visible through both views.
	Tempo      *cache.Group
	Genre      *cache.Group
	All        *cache.Playlist
	Everything *cache.Group

	features map[string]*services.AudioFeatures
	artists  map[string]*services.Artist
}

// New builds a Sorter over already-loaded cache state. The extra groups
// (special, status) join the aggregate view but are never assigned to.
// lookups may be nil to disable the persistent lookup cache.
func New(svc services.Service, console *ui.Console, logger *log.Logger,
	lookups *repositories.LookupRepository, cfg Config,
	tempo, genre *cache.Group, all *cache.Playlist, extra ...*cache.Group) *Sorter {

	if cfg.RetryAttempts <= 0 {
		cfg.RetryAttempts = 10
	}
	if cfg.RetryDelay <= 0 {
		cfg.RetryDelay = 2 * time.Second
	}

	everything := cache.NewGroup()
	everything.AddGroup(tempo)
	everything.AddGroup(genre)
	for _, g := range extra {
		everything.AddGroup(g)
	}
	everything.AddPlaylist(all)

	return &Sorter{
		svc:        svc,
		console:    console,
		logger:     logger,
		lookups:    lookups,
		cfg:        cfg,
		Tempo:      tempo,
		Genre:      genre,
		All:        all,
		Everything: everything,
		features:   map[string]*services.AudioFeatures{},
		artists:    map[string]*services.Artist{},
	}
}

// ProperlySorted reports whether the track looks fully filed, using cached
// state only.
func (s *Sorter) ProperlySorted(trackID string) bool {
	return ProperlySorted(trackID, s.Tempo, s.Genre, s.All)
}

// SortTrack is the main entry point: guides the operator through filing one
// track. addedAt, when known, is shown alongside the track info. Returns
// ErrSessionQuit if the operator ends the session.
func (s *Sorter) SortTrack(ctx context.Context, track services.Track, addedAt *time.Time) error {
	s.ShowTrackInfo(ctx, track, addedAt)

	proceed, err := s.checkExisting(track)
	if err != nil {
		return err
	}
	if !proceed {
		return nil
	}

	if s.cfg.PlaybackStartMs >= 0 {
		// Best effort, a dead playback device must not stall sorting.
		if err := s.svc.StartPlayback(ctx, track.ID, s.cfg.PlaybackStartMs); err != nil {
			s.console.Warnf("Couldn't start playback: %v", err)
		}
	}

	steps := []func(context.Context, services.Track) (Outcome, error){
		s.assignTempo,
		s.assignGenres,
		s.assignAll,
	}
	for _, step := range steps {
		out, err := step(ctx, track)
		if err != nil {
			return err
		}
		switch out {
		case Skipped:
			return nil
		case Aborted:
			return ErrSessionQuit
		}
	}
	return nil
}

// ShowTrackInfo prints the track's fixed fields plus derived tempo guidance
// and artist genre tags.
func (s *Sorter) ShowTrackInfo(ctx context.Context, track services.Track, addedAt *time.Time) {
	p := s.console.Palette()
	s.console.Printf(" title: %s\n", p.Title(track.Name))
	s.console.Printf("artist: %s\n", p.Accent(services.FormatArtists(track.Artists)))
	s.console.Printf(" album: %s\n", p.Accent(track.Album.Name))
	s.console.Printf("%s\n", p.Dim("URI: spotify:track:"+track.ID))
	s.console.Printf("released: %s\n", p.Accent(track.Album.ReleaseDate))
	if addedAt != nil && !addedAt.IsZero() {
		s.console.Printf("added on: %s\n", addedAt.Format("2006-01-02"))
	}

	if features, err := s.trackFeatures(ctx, track.ID); err != nil {
		s.console.Warnf("Couldn't fetch audio features: %v", err)
	} else if features != nil {
		display := features.Tempo
		if s.cfg.ClipTempoDisplay {
			display = ClipTempo(display)
		}
		s.console.Printf("Spotify-reported tempo: %s, nearest list: %dbpm\n",
			p.Title(fmt.Sprintf("%.1f bpm", features.Tempo)), NearestBucket(display))
	}

	if genres, err := s.artistGenres(ctx, track.Artists); err != nil {
		s.console.Warnf("Couldn't fetch artist genres: %v", err)
	} else {
		s.console.Printf("artist genres: %s\n", strings.Join(genres, ", "))
	}
}

// ShowExistingPlaylists lists the cached memberships of the track.
func (s *Sorter) ShowExistingPlaylists(track services.Track) {
	already := s.Everything.PlaylistsContaining(track.ID)
	if len(already) == 0 {
		s.console.Println("This track is not in any cached playlist.")
		return
	}
	s.console.Warnf("This track is already in:")
	for _, pl := range already {
		s.console.Printf(" - %s\n", pl.Name)
	}
}

// checkExisting reports whether sorting should proceed given existing
// memberships and the already-sorted policy.
func (s *Sorter) checkExisting(track services.Track) (bool, error) {
	already := s.Everything.PlaylistsContaining(track.ID)
	if len(already) == 0 {
		return true, nil
	}

	s.console.Warnf("This track is already in:")
	for _, pl := range already {
		s.console.Printf(" - %s\n", pl.Name)
	}

	if !s.ProperlySorted(track.ID) {
		return true, nil
	}

	s.console.Warnf("Looks like this track is already fully sorted.")
	switch s.cfg.OnAlreadySorted {
	case PolicySkip:
		return false, nil
	case PolicyAlways:
		return true, nil
	default:
		return s.console.YesNo("Do you still want to sort this track?")
	}
}

// trackFeatures resolves audio features through the session cache, then the
// sqlite lookup cache, then the remote.
func (s *Sorter) trackFeatures(ctx context.Context, trackID string) (*services.AudioFeatures, error) {
	if f, ok := s.features[trackID]; ok {
		return f, nil
	}

	if s.lookups != nil {
		if f, err := s.lookups.Features(trackID); err != nil {
			s.logger.Warn("lookup cache read failed", "err", err)
		} else if f != nil {
			s.features[trackID] = f
			return f, nil
		}
	}

	fetched, err := s.svc.AudioFeatures(ctx, []string{trackID})
	if err != nil {
		return nil, err
	}
	if len(fetched) == 0 {
		s.features[trackID] = nil
		return nil, nil
	}

	f := &fetched[0]
	s.features[trackID] = f
	if s.lookups != nil {
		if err := s.lookups.SaveFeatures(*f); err != nil {
			s.logger.Warn("lookup cache write failed", "err", err)
		}
	}
	return f, nil
}

// artistGenres resolves the merged genre tags of the track's artists.
func (s *Sorter) artistGenres(ctx context.Context, trackArtists []services.Artist) ([]string, error) {
	var resolved []services.Artist
	var missing []string

	for _, a := range trackArtists {
		if cached, ok := s.artists[a.ID]; ok {
			resolved = append(resolved, *cached)
			continue
		}
		if s.lookups != nil {
			if cached, err := s.lookups.Artist(a.ID); err != nil {
				s.logger.Warn("lookup cache read failed", "err", err)
			} else if cached != nil {
				s.artists[a.ID] = cached
				resolved = append(resolved, *cached)
				continue
			}
		}
		missing = append(missing, a.ID)
	}

	if len(missing) > 0 {
		fetched, err := s.svc.Artists(ctx, missing)
		if err != nil {
			return nil, err
		}
		for i := range fetched {
			a := fetched[i]
			s.artists[a.ID] = &a
			resolved = append(resolved, a)
			if s.lookups != nil {
				if err := s.lookups.SaveArtist(a); err != nil {
					s.logger.Warn("lookup cache write failed", "err", err)
				}
			}
		}
	}

	return services.CollectGenres(resolved), nil
}

func isQuit(input string) bool {
	return input == "q" || input == "quit"
}

func isSkip(input string) bool {
	return input == "s" || input == "skip"
}

// tempoByInput resolves an operator tempo token, trying the "bpm"-suffixed
// form first so a bare "90" finds "WCS 90bpm".
func (s *Sorter) tempoByInput(input string) *cache.Playlist {
	if pl := s.Tempo.ByName(input+"bpm", s.cfg.Prefix); pl != nil {
		return pl
	}
	return s.Tempo.ByName(input, s.cfg.Prefix)
}

// assignTempo prompts for a tempo list until it gets a valid directive. The
// "remove from <list>" directive performs a corrective removal and re-prompts;
// the removal is independent of any later assignment in the same session.
func (s *Sorter) assignTempo(ctx context.Context, track services.Track) (Outcome, error) {
	label := "Which tempo list? "
	for {
		input, err := s.console.Prompt(label)
		if err != nil {
			return Aborted, err
		}

		switch {
		case isQuit(input):
			return Aborted, nil
		case isSkip(input):
			return Skipped, nil
		case input == "none":
			return Continue, nil
		}

		if target, ok := strings.CutPrefix(input, "remove from "); ok {
			if pl := s.tempoByInput(target); pl != nil {
				if err := s.removeTrack(ctx, pl, track); err != nil {
					s.console.Warnf("Couldn't remove: %v", err)
				} else if err := s.persistTempo(); err != nil {
					return Aborted, err
				}
				label = "Which tempo list? "
				continue
			}
		}

		pl := s.tempoByInput(input)
		if pl == nil {
			label = s.invalidTempoLabel(input)
			continue
		}

		added, err := s.checkThenAdd(ctx, pl, track.ID)
		if err != nil {
			return Aborted, err
		}
		if added {
			if err := s.persistTempo(); err != nil {
				return Aborted, err
			}
		}
		return Continue, nil
	}
}

func (s *Sorter) invalidTempoLabel(input string) string {
	p := s.console.Palette()
	label := p.Err("✘ Invalid tempo.")
	if hint := closestName(input, s.Tempo.Names(), s.cfg.Prefix); hint != "" {
		label += fmt.Sprintf(" Did you mean %q?", hint)
	}
	return label + " Type 'skip' to skip, or pick a tempo list: "
}

// assignGenres prompts for genre lists until the operator enters an empty
// line or a no/skip directive. Any cached playlist name is accepted, not just
// genre lists.
func (s *Sorter) assignGenres(ctx context.Context, track services.Track) (Outcome, error) {
	label := "Which genre list? "
	for {
		input, err := s.console.Prompt(label)
		if err != nil {
			return Aborted, err
		}

		switch {
		case isQuit(input):
			return Aborted, nil
		case input == "" || isSkip(input) || input == "n" || input == "no":
			return Continue, nil
		}

		token := input
		if token == "pop" {
			suggestion := PopBucket(services.ReleaseYear(track.Album.ReleaseDate))
			yes, err := s.console.YesNo(fmt.Sprintf("Did you mean %q?", suggestion))
			if err != nil {
				return Aborted, err
			}
			if !yes {
				label = "Any others? "
				continue
			}
			token = suggestion
		}

		pl := s.Everything.ByName(token, s.cfg.Prefix)
		if pl == nil {
			p := s.console.Palette()
			label = p.Err(fmt.Sprintf("✘ Playlist %q not found.", s.cfg.Prefix+token))
			if hint := closestName(token, s.Everything.Names(), s.cfg.Prefix); hint != "" {
				label += fmt.Sprintf(" Did you mean %q?", hint)
			}
			label += " Try again? "
			continue
		}

		added, err := s.checkThenAdd(ctx, pl, track.ID)
		if err != nil {
			return Aborted, err
		}
		if added {
			if err := s.persistGenre(); err != nil {
				return Aborted, err
			}
		}
		label = "Any others? "
	}
}

// assignAll adds the track to the all-tracks playlist, after confirmation if
// configured. The all-tracks playlist is fetched live each session and has no
// backing cache file to persist.
func (s *Sorter) assignAll(ctx context.Context, track services.Track) (Outcome, error) {
	if s.cfg.PromptForAll {
		yes, err := s.console.YesNo(fmt.Sprintf("Add to %s?", s.All.Name))
		if err != nil {
			return Aborted, err
		}
		if !yes {
			return Continue, nil
		}
	}

	if _, err := s.checkThenAdd(ctx, s.All, track.ID); err != nil {
		return Aborted, err
	}
	return Continue, nil
}

// checkThenAdd adds the track to the playlist remotely and then locally,
// retrying transient remote failures a bounded number of times. An exhausted
// retry loop degrades to a warning and leaves the cache untouched, so the
// local cache only ever reflects confirmed remote state. Reports whether a
// new membership was committed.
func (s *Sorter) checkThenAdd(ctx context.Context, pl *cache.Playlist, trackID string) (bool, error) {
	p := s.console.Palette()
	if pl.ContainsTrack(trackID) {
		s.console.Printf("%s\n", p.Accent(fmt.Sprintf("✓ already in %s", pl.Name)))
		return false, nil
	}

	var lastErr error
	for attempt := 1; attempt <= s.cfg.RetryAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return false, err
		}

		lastErr = s.svc.AddTracks(ctx, pl.ID, trackID)
		if lastErr == nil {
			pl.AddTrack(trackID)
			s.console.OK("→ added to %s", pl.Name)
			return true, nil
		}

		s.logger.Warn("add failed", "playlist", pl.Name, "attempt", attempt, "err", lastErr)
		if attempt < s.cfg.RetryAttempts {
			time.Sleep(s.cfg.RetryDelay)
		}
	}

	s.console.Warnf("Giving up on adding to %s: %v", pl.Name, lastErr)
	return false, nil
}

// removeTrack removes the track from the playlist remotely and locally.
func (s *Sorter) removeTrack(ctx context.Context, pl *cache.Playlist, track services.Track) error {
	if err := s.svc.RemoveTracks(ctx, pl.ID, track.ID); err != nil {
		return err
	}
	pl.RemoveTrack(track.ID)
	s.console.Errf("← removed from %s", pl.Name)
	return nil
}

func (s *Sorter) persistTempo() error {
	return s.Tempo.WriteFile(cache.FilePath(s.cfg.CacheDir, cache.TempoKey))
}

func (s *Sorter) persistGenre() error {
	return s.Genre.WriteFile(cache.FilePath(s.cfg.CacheDir, cache.GenreKey))
}

// closestName suggests the most similar playlist name for a mistyped token.
// Returns "" when nothing is close enough to be a plausible typo.
func closestName(input string, names []string, stripPrefix string) string {
	const threshold = 0.8
	metric := metrics.NewJaroWinkler()

	best := ""
	bestScore := threshold
	for _, name := range names {
		candidate := strings.TrimPrefix(name, stripPrefix)
		score := strutil.Similarity(strings.ToLower(input), strings.ToLower(candidate), metric)
		if score > bestScore {
			best = candidate
			bestScore = score
		}
	}
	return best
}
