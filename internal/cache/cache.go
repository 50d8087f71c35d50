// package cache implements the local mirror of remote playlist membership.
//
// Each category of curated playlists (tempo buckets, genres, ...) is cached in
// one JSON file holding an ordered array of playlist records. The in-memory
// model is a Group of Playlists; a Playlist is an id, a display name, and the
// sequence of track ids it is known to contain.
//
// Playlists are shared by reference: the same *Playlist can belong to a
// per-category Group and to an aggregate Group built by merging several
// categories, so an AddTrack through one view is visible through every view.
package cache

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"crates/internal/services"
	"crates/internal/shared"
)

// Playlist is a single cached playlist: remote identity plus known membership.
//
// ID and Name are fixed at construction. TrackIDs grows by AddTrack only;
// duplicates are possible and harmless, membership queries stay correct.
type Playlist struct {
	ID       string   `json:"id"`
	Name     string   `json:"name"`
	TrackIDs []string `json:"track_ids"`
}

// NewPlaylist creates a cached playlist with empty membership.
func NewPlaylist(id, name string) *Playlist {
	return &Playlist{ID: id, Name: name, TrackIDs: []string{}}
}

// FromRecord validates and converts a decoded cache record.
func FromRecord(rec Record) (*Playlist, error) {
	if rec.ID == nil || rec.Name == nil || rec.TrackIDs == nil {
		return nil, fmt.Errorf("%w: id, name and track_ids are required", shared.ErrMalformedCacheRecord)
	}
	return &Playlist{ID: *rec.ID, Name: *rec.Name, TrackIDs: rec.TrackIDs}, nil
}

// FromRemote builds a cached playlist from a live fetch of the full track
// listing. Items without a track id (local or unavailable tracks) are skipped.
// If expectedName is non-empty and does not match the remote name the fetch
// fails with [shared.ErrNameMismatch].
func FromRemote(ctx context.Context, svc services.Service, playlistID, expectedName string) (*Playlist, error) {
	remote, err := svc.Playlist(ctx, playlistID)
	if err != nil {
		return nil, err
	}

	if expectedName != "" && remote.Name != expectedName {
		return nil, fmt.Errorf("%w: expected %q, remote says %q", shared.ErrNameMismatch, expectedName, remote.Name)
	}

	items, err := svc.PlaylistItems(ctx, playlistID)
	if err != nil {
		return nil, err
	}

	pl := NewPlaylist(remote.ID, remote.Name)
	for _, item := range items {
		if item.Track.ID != "" {
			pl.TrackIDs = append(pl.TrackIDs, item.Track.ID)
		}
	}
	return pl, nil
}

// ContainsTrack reports whether the playlist is known to contain the track.
func (p *Playlist) ContainsTrack(trackID string) bool {
	return slices.Contains(p.TrackIDs, trackID)
}

// AddTrack appends a track id to the membership log.
func (p *Playlist) AddTrack(trackID string) {
	p.TrackIDs = append(p.TrackIDs, trackID)
}

// RemoveTrack drops every occurrence of the track id. Used by corrective
// removals during sorting; a no-op if the track isn't present.
func (p *Playlist) RemoveTrack(trackID string) {
	p.TrackIDs = slices.DeleteFunc(p.TrackIDs, func(id string) bool {
		return id == trackID
	})
}

// Len returns the number of cached membership entries.
func (p *Playlist) Len() int {
	return len(p.TrackIDs)
}

// Record returns the serializable form of the playlist.
func (p *Playlist) Record() Record {
	ids := p.TrackIDs
	if ids == nil {
		ids = []string{}
	}
	return Record{ID: &p.ID, Name: &p.Name, TrackIDs: ids}
}

// Group is an ordered collection of cached playlists. Order matters only for
// first-match name lookup and for stable serialization.
type Group struct {
	playlists []*Playlist
}

// NewGroup constructs an empty group.
func NewGroup() *Group {
	return &Group{}
}

// Playlists returns the playlists in group order. The slice is shared; do not
// reorder it.
func (g *Group) Playlists() []*Playlist {
	return g.playlists
}

// Len returns the number of playlists in the group.
func (g *Group) Len() int {
	return len(g.playlists)
}

// AddPlaylist appends a playlist, preserving order. The playlist is referenced,
// not copied, so mutations are visible through every group holding it.
func (g *Group) AddPlaylist(p *Playlist) {
	g.playlists = append(g.playlists, p)
}

// AddGroup appends every playlist of another group, preserving order.
// Duplicate entries are tolerated; membership queries stay correct.
func (g *Group) AddGroup(other *Group) {
	g.playlists = append(g.playlists, other.playlists...)
}

// RemovePlaylist drops a playlist by id. No-op if absent.
func (g *Group) RemovePlaylist(playlistID string) {
	g.playlists = slices.DeleteFunc(g.playlists, func(p *Playlist) bool {
		return p.ID == playlistID
	})
}

// PlaylistsContaining returns the playlists known to contain the track, in
// group order.
func (g *Group) PlaylistsContaining(trackID string) []*Playlist {
	var out []*Playlist
	for _, p := range g.playlists {
		if p.ContainsTrack(trackID) {
			out = append(out, p)
		}
	}
	return out
}

// CountContaining returns how many playlists in the group contain the track.
func (g *Group) CountContaining(trackID string) int {
	n := 0
	for _, p := range g.playlists {
		if p.ContainsTrack(trackID) {
			n++
		}
	}
	return n
}

// NamesContaining joins the names of playlists containing the track, in group
// order. A non-empty stripPrefix is removed from any name that starts with it,
// keeping display compact.
func (g *Group) NamesContaining(trackID, sep, stripPrefix string) string {
	var names []string
	for _, p := range g.PlaylistsContaining(trackID) {
		name := p.Name
		if stripPrefix != "" {
			name = strings.TrimPrefix(name, stripPrefix)
		}
		names = append(names, name)
	}
	return strings.Join(names, sep)
}

// ByName returns the first playlist named exactly name, else the first named
// aliasPrefix + name, else nil. The two-tier lookup lets the operator type a
// short label without the shared branding prefix.
func (g *Group) ByName(name, aliasPrefix string) *Playlist {
	for _, p := range g.playlists {
		if p.Name == name {
			return p
		}
	}
	if aliasPrefix != "" {
		for _, p := range g.playlists {
			if p.Name == aliasPrefix+name {
				return p
			}
		}
	}
	return nil
}

// Names returns the playlist display names in group order.
func (g *Group) Names() []string {
	names := make([]string, len(g.playlists))
	for i, p := range g.playlists {
		names[i] = p.Name
	}
	return names
}
