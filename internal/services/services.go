// package services defines the capability surface the toolkit needs from a
// remote streaming service, plus the Spotify implementation.
//
// The rest of the repository depends only on the Service interface, so the
// sorter and batch tasks can be exercised against in-memory fakes.
package services

import (
	"context"
	"sort"
	"strconv"
	"strings"
	"time"
)

// Service is the remote playlist/track capability surface consumed by the
// curation core. Pagination is handled transparently: listing methods return
// complete result sets.
type Service interface {
	// Playlist retrieves playlist metadata by id.
	Playlist(ctx context.Context, playlistID string) (*Playlist, error)

	// PlaylistItems retrieves the full track listing of a playlist,
	// following pagination to the end.
	PlaylistItems(ctx context.Context, playlistID string) ([]PlaylistItem, error)

	// AddTracks adds the given tracks to a playlist.
	AddTracks(ctx context.Context, playlistID string, trackIDs ...string) error

	// RemoveTracks removes all occurrences of the given tracks from a playlist.
	RemoveTracks(ctx context.Context, playlistID string, trackIDs ...string) error

	// Tracks retrieves full track records for the given ids.
	Tracks(ctx context.Context, trackIDs []string) ([]Track, error)

	// AudioFeatures retrieves audio analysis (tempo and friends) for the given track ids.
	AudioFeatures(ctx context.Context, trackIDs []string) ([]AudioFeatures, error)

	// Artists retrieves artist records, including genre tags, for the given ids.
	Artists(ctx context.Context, artistIDs []string) ([]Artist, error)

	// SearchTracks searches tracks by free-text query.
	SearchTracks(ctx context.Context, query string, limit int) ([]Track, error)

	// CurrentlyPlaying returns the track playing on the user's active device,
	// or nil if nothing (or a non-track item) is playing.
	CurrentlyPlaying(ctx context.Context) (*Track, error)

	// StartPlayback starts playback of a track at the given position offset.
	// Best effort: callers treat failures as non-fatal.
	StartPlayback(ctx context.Context, trackID string, positionMs int) error

	// FollowedPlaylists retrieves the playlists in the current user's library.
	FollowedPlaylists(ctx context.Context) ([]Playlist, error)

	// CurrentUserID returns the authenticated user's id.
	CurrentUserID(ctx context.Context) (string, error)

	// Name returns the name of the service (e.g., "Spotify")
	Name() string
}

// Playlist represents remote playlist metadata.
type Playlist struct {
	ID         string
	Name       string
	OwnerID    string
	TrackCount int
}

// Artist represents a remote artist record.
type Artist struct {
	ID     string
	Name   string
	Genres []string
}

// Album holds the album fields the toolkit cares about.
type Album struct {
	Name        string
	ReleaseDate string // YYYY, YYYY-MM or YYYY-MM-DD depending on precision
}

// Track represents a remote track record.
type Track struct {
	ID      string
	Name    string
	Artists []Artist
	Album   Album
}

// PlaylistItem is a track in playlist context. Local or unavailable tracks
// carry an empty Track.ID.
type PlaylistItem struct {
	Track   Track
	AddedAt time.Time
}

// AudioFeatures holds the audio analysis fields the toolkit cares about.
type AudioFeatures struct {
	TrackID string
	Tempo   float64
	Key     int
	Energy  float64
}

// FormatArtists joins artist names for display.
func FormatArtists(artists []Artist) string {
	names := make([]string, len(artists))
	for i, a := range artists {
		names[i] = a.Name
	}
	return strings.Join(names, ", ")
}

// CollectGenres merges, deduplicates and sorts the genre tags of the given artists.
func CollectGenres(artists []Artist) []string {
	seen := map[string]bool{}
	var genres []string
	for _, a := range artists {
		for _, g := range a.Genres {
			if !seen[g] {
				seen[g] = true
				genres = append(genres, g)
			}
		}
	}
	sort.Strings(genres)
	return genres
}

// ReleaseYear parses the year out of a release date string. Returns 0 if the
// date is empty or unparseable.
func ReleaseYear(releaseDate string) int {
	if len(releaseDate) < 4 {
		return 0
	}
	year, err := strconv.Atoi(releaseDate[:4])
	if err != nil {
		return 0
	}
	return year
}
