package tasks

import (
	"io"

	"github.com/jedib0t/go-pretty/v6/table"

	"crates/internal/cache"
	"crates/internal/services"
	"crates/internal/sorter"
)

// Finding is one inconsistently filed track.
type Finding struct {
	Track     services.Track
	FiledIn   string // playlist names, branding prefix stripped
	TempoHits int
	GenreHits int
	InAll     bool
}

// CollectTrackIDs gathers the distinct track population across the all-tracks
// playlist and the tempo and genre groups, in first-seen order.
func CollectTrackIDs(tempo, genre *cache.Group, all *cache.Playlist) []string {
	seen := map[string]bool{}
	var ids []string

	add := func(trackIDs []string) {
		for _, id := range trackIDs {
			if !seen[id] {
				seen[id] = true
				ids = append(ids, id)
			}
		}
	}

	add(all.TrackIDs)
	for _, pl := range tempo.Playlists() {
		add(pl.TrackIDs)
	}
	for _, pl := range genre.Playlists() {
		add(pl.TrackIDs)
	}
	return ids
}

// FindUnsorted filters the population down to tracks that fail the
// properly-sorted predicate, preserving order.
func FindUnsorted(trackIDs []string, tempo, genre *cache.Group, all *cache.Playlist) []string {
	var offenders []string
	for _, id := range trackIDs {
		if !sorter.ProperlySorted(id, tempo, genre, all) {
			offenders = append(offenders, id)
		}
	}
	return offenders
}

// NewFinding annotates an offending track with its cached filing state.
func NewFinding(track services.Track, aggregate *cache.Group, tempo, genre *cache.Group, all *cache.Playlist, prefix string) Finding {
	return Finding{
		Track:     track,
		FiledIn:   aggregate.NamesContaining(track.ID, ", ", prefix),
		TempoHits: tempo.CountContaining(track.ID),
		GenreHits: genre.CountContaining(track.ID),
		InAll:     all.ContainsTrack(track.ID),
	}
}

// RenderReport writes the findings as a table.
func RenderReport(w io.Writer, findings []Finding) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.AppendHeader(table.Row{"Track", "Artists", "All", "Tempo", "Genre", "Filed in"})

	for _, f := range findings {
		inAll := "yes"
		if !f.InAll {
			inAll = "NO"
		}
		t.AppendRow(table.Row{
			f.Track.Name,
			services.FormatArtists(f.Track.Artists),
			inAll,
			f.TempoHits,
			f.GenreHits,
			f.FiledIn,
		})
	}

	t.Render()
}
