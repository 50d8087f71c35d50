package sorter

import "crates/internal/cache"

// ProperlySorted reports whether a track looks fully filed: present in the
// all-tracks playlist, in exactly one tempo playlist, and in at least one
// genre playlist. Pure function over cached state; never hits the remote.
//
// Zero or multiple tempo memberships both count as improperly sorted — an
// ambiguous tempo classification needs operator attention.
func ProperlySorted(trackID string, tempo, genre *cache.Group, all *cache.Playlist) bool {
	return all.ContainsTrack(trackID) &&
		tempo.CountContaining(trackID) == 1 &&
		genre.CountContaining(trackID) >= 1
}
