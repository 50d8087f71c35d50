package tasks

import (
	"context"
	"fmt"

	"crates/internal/cache"
	"crates/internal/formatter"
	"crates/internal/services"
	"crates/internal/sorter"
)

// ListingOptions controls how a playlist listing is annotated.
type ListingOptions struct {
	// Prefix is stripped from playlist names in the annotation columns.
	Prefix string
	// ClipTempo clips displayed BPM into [60,140].
	ClipTempo bool
	// ReleasePrecision is "year", "month" or "day".
	ReleasePrecision string
}

func formatRelease(releaseDate, precision string) string {
	limits := map[string]int{"year": 4, "month": 7, "day": 10}
	limit, ok := limits[precision]
	if !ok {
		limit = 4
	}
	if len(releaseDate) > limit {
		return releaseDate[:limit]
	}
	return releaseDate
}

// BuildListing fetches a playlist's tracks and annotates each with cached
// tempo/genre filing plus its reported tempo. The caller is expected to have
// dropped the shown playlist from genreGroup so the column isn't all noise.
func BuildListing(ctx context.Context, svc services.Service, tempoGroup, genreGroup *cache.Group,
	playlist services.Playlist, opts ListingOptions) (*formatter.Listing, error) {

	items, err := svc.PlaylistItems(ctx, playlist.ID)
	if err != nil {
		return nil, err
	}

	var trackIDs []string
	for _, item := range items {
		if item.Track.ID != "" {
			trackIDs = append(trackIDs, item.Track.ID)
		}
	}

	features, err := svc.AudioFeatures(ctx, trackIDs)
	if err != nil {
		return nil, err
	}
	tempoByID := map[string]float64{}
	for _, f := range features {
		tempoByID[f.TrackID] = f.Tempo
	}

	listing := &formatter.Listing{Playlist: playlist}
	index := 0
	for _, item := range items {
		track := item.Track
		if track.ID == "" {
			continue
		}
		index++

		tempoDisplay := "- "
		if bpm, ok := tempoByID[track.ID]; ok {
			if opts.ClipTempo {
				bpm = sorter.ClipTempo(bpm)
			}
			tempoDisplay = fmt.Sprintf("%.0f", bpm)
		}

		listing.Rows = append(listing.Rows, formatter.Row{
			Index:      index,
			Name:       track.Name,
			Artists:    services.FormatArtists(track.Artists),
			TempoLists: tempoGroup.NamesContaining(track.ID, " ", opts.Prefix),
			Tempo:      tempoDisplay,
			Release:    formatRelease(track.Album.ReleaseDate, opts.ReleasePrecision),
			Genres:     genreGroup.NamesContaining(track.ID, ", ", opts.Prefix),
		})
	}

	return listing, nil
}
