// package formatter renders annotated track listings to CSV and plain text.
package formatter

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"os"

	"crates/internal/services"
)

// Row is one annotated track in a listing.
type Row struct {
	Index      int
	Name       string
	Artists    string
	TempoLists string // names of tempo playlists the track is filed in
	Tempo      string // formatted BPM, possibly clipped
	Release    string // release date at the requested precision
	Genres     string // names of genre playlists the track is filed in
}

// Listing is a playlist's track listing annotated with cached filing state.
type Listing struct {
	Playlist services.Playlist
	Rows     []Row
}

// ExportToCSV converts a listing to CSV with columns:
// Index, Title, Artist, TempoLists, Tempo, Release, Genres
func ExportToCSV(listing *Listing) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	headers := []string{"Index", "Title", "Artist", "TempoLists", "Tempo", "Release", "Genres"}
	if err := writer.Write(headers); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for _, row := range listing.Rows {
		record := []string{
			fmt.Sprintf("%d", row.Index),
			row.Name,
			row.Artists,
			row.TempoLists,
			row.Tempo,
			row.Release,
			row.Genres,
		}
		if err := writer.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}

	return buf.Bytes(), nil
}

// ExportToText converts a listing to the fixed-width console format.
func ExportToText(listing *Listing) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteString(fmt.Sprintf("Playlist: %s [%s]\n", listing.Playlist.Name, listing.Playlist.ID))
	buf.WriteString(fmt.Sprintf("Tracks: %d\n\n", len(listing.Rows)))

	for _, row := range listing.Rows {
		buf.WriteString(FormatRow(row) + "\n")
	}

	return buf.Bytes(), nil
}

// FormatRow renders one listing row in the fixed-width console format.
func FormatRow(row Row) string {
	return fmt.Sprintf("%3d │ %-35.35s │ %-25.25s │ %6s %4s│ %4s │ %s",
		row.Index, row.Name, row.Artists, row.TempoLists, row.Tempo, row.Release, row.Genres)
}

// WriteCSVExport writes the listing to a CSV file. An empty path defaults to
// "<playlist id>_tracks.csv". Returns the path written.
func WriteCSVExport(listing *Listing, path string) (string, error) {
	if path == "" {
		path = listing.Playlist.ID + "_tracks.csv"
	}

	data, err := ExportToCSV(listing)
	if err != nil {
		return "", err
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write CSV file: %w", err)
	}
	return path, nil
}
