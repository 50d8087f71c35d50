package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/zmb3/spotify/v2"
	"golang.org/x/time/rate"

	"crates/internal/shared"
)

const (
	tracksChunkSize   = 50
	artistsChunkSize  = 50
	featuresChunkSize = 100
)

// SpotifyService implements [Service] on top of the Spotify Web API.
//
// All calls go through a shared rate limiter so batch operations (cache
// refresh, purge) stay inside the API's request budget.
type SpotifyService struct {
	client  *spotify.Client
	limiter *rate.Limiter
}

// NewSpotifyService wraps an authenticated [spotify.Client].
func NewSpotifyService(client *spotify.Client) *SpotifyService {
	return &SpotifyService{
		client:  client,
		limiter: rate.NewLimiter(rate.Every(100*time.Millisecond), 5),
	}
}

func (s *SpotifyService) Name() string {
	return "Spotify"
}

func (s *SpotifyService) wait(ctx context.Context) error {
	return s.limiter.Wait(ctx)
}

func trackFromFull(t *spotify.FullTrack) Track {
	artists := make([]Artist, len(t.Artists))
	for i, a := range t.Artists {
		artists[i] = Artist{ID: string(a.ID), Name: a.Name}
	}
	return Track{
		ID:      string(t.ID),
		Name:    t.Name,
		Artists: artists,
		Album: Album{
			Name:        t.Album.Name,
			ReleaseDate: t.Album.ReleaseDate,
		},
	}
}

func toSpotifyIDs(ids []string) []spotify.ID {
	out := make([]spotify.ID, len(ids))
	for i, id := range ids {
		out[i] = spotify.ID(id)
	}
	return out
}

// Playlist retrieves playlist metadata by id.
func (s *SpotifyService) Playlist(ctx context.Context, playlistID string) (*Playlist, error) {
	if err := s.wait(ctx); err != nil {
		return nil, err
	}

	pl, err := s.client.GetPlaylist(ctx, spotify.ID(playlistID))
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", shared.ErrPlaylistNotFound, playlistID, err)
	}

	return &Playlist{
		ID:         string(pl.ID),
		Name:       pl.Name,
		OwnerID:    pl.Owner.ID,
		TrackCount: int(pl.Tracks.Total),
	}, nil
}

// PlaylistItems retrieves the full paginated track listing of a playlist.
// Episode items and local tracks come back with an empty Track.ID.
func (s *SpotifyService) PlaylistItems(ctx context.Context, playlistID string) ([]PlaylistItem, error) {
	if err := s.wait(ctx); err != nil {
		return nil, err
	}

	page, err := s.client.GetPlaylistItems(ctx, spotify.ID(playlistID))
	if err != nil {
		return nil, fmt.Errorf("failed to fetch playlist items: %w", err)
	}

	var items []PlaylistItem
	for {
		for _, item := range page.Items {
			var out PlaylistItem
			if item.Track.Track != nil {
				out.Track = trackFromFull(item.Track.Track)
			}
			if at, err := time.Parse(spotify.TimestampLayout, item.AddedAt); err == nil {
				out.AddedAt = at
			}
			items = append(items, out)
		}

		if err := s.wait(ctx); err != nil {
			return nil, err
		}
		err = s.client.NextPage(ctx, page)
		if errors.Is(err, spotify.ErrNoMorePages) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to fetch playlist page: %w", err)
		}
	}

	return items, nil
}

// AddTracks adds the given tracks to a playlist.
func (s *SpotifyService) AddTracks(ctx context.Context, playlistID string, trackIDs ...string) error {
	if len(trackIDs) == 0 {
		return nil
	}
	if err := s.wait(ctx); err != nil {
		return err
	}

	if _, err := s.client.AddTracksToPlaylist(ctx, spotify.ID(playlistID), toSpotifyIDs(trackIDs)...); err != nil {
		return fmt.Errorf("failed to add tracks to playlist %s: %w", playlistID, err)
	}
	return nil
}

// RemoveTracks removes all occurrences of the given tracks from a playlist.
func (s *SpotifyService) RemoveTracks(ctx context.Context, playlistID string, trackIDs ...string) error {
	if len(trackIDs) == 0 {
		return nil
	}
	if err := s.wait(ctx); err != nil {
		return err
	}

	if _, err := s.client.RemoveTracksFromPlaylist(ctx, spotify.ID(playlistID), toSpotifyIDs(trackIDs)...); err != nil {
		return fmt.Errorf("failed to remove tracks from playlist %s: %w", playlistID, err)
	}
	return nil
}

// Tracks retrieves full track records for the given ids, chunking requests to
// the API's batch limit.
func (s *SpotifyService) Tracks(ctx context.Context, trackIDs []string) ([]Track, error) {
	var tracks []Track
	for start := 0; start < len(trackIDs); start += tracksChunkSize {
		end := min(start+tracksChunkSize, len(trackIDs))

		if err := s.wait(ctx); err != nil {
			return nil, err
		}
		chunk, err := s.client.GetTracks(ctx, toSpotifyIDs(trackIDs[start:end]))
		if err != nil {
			return nil, fmt.Errorf("failed to fetch tracks: %w", err)
		}
		for _, t := range chunk {
			if t != nil {
				tracks = append(tracks, trackFromFull(t))
			}
		}
	}
	return tracks, nil
}

// AudioFeatures retrieves audio analysis for the given track ids.
func (s *SpotifyService) AudioFeatures(ctx context.Context, trackIDs []string) ([]AudioFeatures, error) {
	var features []AudioFeatures
	for start := 0; start < len(trackIDs); start += featuresChunkSize {
		end := min(start+featuresChunkSize, len(trackIDs))

		if err := s.wait(ctx); err != nil {
			return nil, err
		}
		chunk, err := s.client.GetAudioFeatures(ctx, toSpotifyIDs(trackIDs[start:end])...)
		if err != nil {
			return nil, fmt.Errorf("failed to fetch audio features: %w", err)
		}
		for _, f := range chunk {
			if f == nil {
				continue
			}
			features = append(features, AudioFeatures{
				TrackID: string(f.ID),
				Tempo:   float64(f.Tempo),
				Key:     int(f.Key),
				Energy:  float64(f.Energy),
			})
		}
	}
	return features, nil
}

// Artists retrieves artist records, including genre tags, for the given ids.
func (s *SpotifyService) Artists(ctx context.Context, artistIDs []string) ([]Artist, error) {
	var artists []Artist
	for start := 0; start < len(artistIDs); start += artistsChunkSize {
		end := min(start+artistsChunkSize, len(artistIDs))

		if err := s.wait(ctx); err != nil {
			return nil, err
		}
		chunk, err := s.client.GetArtists(ctx, toSpotifyIDs(artistIDs[start:end])...)
		if err != nil {
			return nil, fmt.Errorf("failed to fetch artists: %w", err)
		}
		for _, a := range chunk {
			if a == nil {
				continue
			}
			artists = append(artists, Artist{
				ID:     string(a.ID),
				Name:   a.Name,
				Genres: a.Genres,
			})
		}
	}
	return artists, nil
}

// SearchTracks searches tracks by free-text query.
func (s *SpotifyService) SearchTracks(ctx context.Context, query string, limit int) ([]Track, error) {
	if limit <= 0 || limit > 50 {
		limit = 20
	}
	if err := s.wait(ctx); err != nil {
		return nil, err
	}

	result, err := s.client.Search(ctx, query, spotify.SearchTypeTrack, spotify.Limit(limit))
	if err != nil {
		return nil, fmt.Errorf("search failed: %w", err)
	}
	if result.Tracks == nil {
		return nil, nil
	}

	tracks := make([]Track, 0, len(result.Tracks.Tracks))
	for i := range result.Tracks.Tracks {
		tracks = append(tracks, trackFromFull(&result.Tracks.Tracks[i]))
	}
	return tracks, nil
}

// CurrentlyPlaying returns the track playing on the user's active device, or
// nil if nothing (or a non-track item, e.g. a podcast episode) is playing.
func (s *SpotifyService) CurrentlyPlaying(ctx context.Context) (*Track, error) {
	if err := s.wait(ctx); err != nil {
		return nil, err
	}

	playing, err := s.client.PlayerCurrentlyPlaying(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch playback state: %w", err)
	}
	if playing == nil || playing.Item == nil {
		return nil, nil
	}

	track := trackFromFull(playing.Item)
	return &track, nil
}

// StartPlayback starts playback of a track at the given position offset.
func (s *SpotifyService) StartPlayback(ctx context.Context, trackID string, positionMs int) error {
	if err := s.wait(ctx); err != nil {
		return err
	}

	opts := &spotify.PlayOptions{
		URIs:       []spotify.URI{spotify.URI("spotify:track:" + trackID)},
		PositionMs: spotify.Numeric(positionMs),
	}
	if err := s.client.PlayOpt(ctx, opts); err != nil {
		return fmt.Errorf("failed to start playback: %w", err)
	}
	return nil
}

// FollowedPlaylists retrieves all playlists in the current user's library.
func (s *SpotifyService) FollowedPlaylists(ctx context.Context) ([]Playlist, error) {
	if err := s.wait(ctx); err != nil {
		return nil, err
	}

	page, err := s.client.CurrentUsersPlaylists(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch playlists: %w", err)
	}

	var playlists []Playlist
	for {
		for _, pl := range page.Playlists {
			playlists = append(playlists, Playlist{
				ID:         string(pl.ID),
				Name:       pl.Name,
				OwnerID:    pl.Owner.ID,
				TrackCount: int(pl.Tracks.Total),
			})
		}

		if err := s.wait(ctx); err != nil {
			return nil, err
		}
		err = s.client.NextPage(ctx, page)
		if errors.Is(err, spotify.ErrNoMorePages) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to fetch playlist page: %w", err)
		}
	}

	return playlists, nil
}

// CurrentUserID returns the authenticated user's id.
func (s *SpotifyService) CurrentUserID(ctx context.Context) (string, error) {
	if err := s.wait(ctx); err != nil {
		return "", err
	}

	user, err := s.client.CurrentUser(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to fetch current user: %w", err)
	}
	return user.ID, nil
}
