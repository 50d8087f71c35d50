package formatter

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"crates/internal/services"
)

func testListing() *Listing {
	return &Listing{
		Playlist: services.Playlist{ID: "pl1", Name: "WCS 90bpm"},
		Rows: []Row{
			{
				Index:      1,
				Name:       "Night Song",
				Artists:    "Some Artist",
				TempoLists: "90bpm",
				Tempo:      "92",
				Release:    "2014",
				Genres:     "rock, blues",
			},
		},
	}
}

func TestExportToCSV(t *testing.T) {
	data, err := ExportToCSV(testListing())
	if err != nil {
		t.Fatalf("ExportToCSV failed: %v", err)
	}

	records, err := csv.NewReader(strings.NewReader(string(data))).ReadAll()
	if err != nil {
		t.Fatalf("output is not valid CSV: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("expected header plus 1 row, got %d records", len(records))
	}
	if records[0][0] != "Index" || records[0][6] != "Genres" {
		t.Fatalf("unexpected header: %v", records[0])
	}
	if records[1][1] != "Night Song" || records[1][6] != "rock, blues" {
		t.Fatalf("unexpected row: %v", records[1])
	}
}

func TestExportToText(t *testing.T) {
	data, err := ExportToText(testListing())
	if err != nil {
		t.Fatalf("ExportToText failed: %v", err)
	}

	out := string(data)
	if !strings.Contains(out, "Playlist: WCS 90bpm [pl1]") {
		t.Fatalf("header missing:\n%s", out)
	}
	if !strings.Contains(out, "Night Song") || !strings.Contains(out, "rock, blues") {
		t.Fatalf("row missing:\n%s", out)
	}
}

func TestFormatRowTruncatesLongFields(t *testing.T) {
	row := Row{
		Index:   1,
		Name:    strings.Repeat("x", 50),
		Artists: "Some Artist",
	}

	line := FormatRow(row)
	if strings.Contains(line, strings.Repeat("x", 36)) {
		t.Fatalf("name not truncated to column width: %q", line)
	}
}

func TestWriteCSVExport(t *testing.T) {
	dir := t.TempDir()

	t.Run("explicit path", func(t *testing.T) {
		path := filepath.Join(dir, "out.csv")
		written, err := WriteCSVExport(testListing(), path)
		if err != nil {
			t.Fatalf("WriteCSVExport failed: %v", err)
		}
		if written != path {
			t.Fatalf("expected %s, got %s", path, written)
		}
		if _, err := os.Stat(path); err != nil {
			t.Fatalf("file not written: %v", err)
		}
	})

	t.Run("default path", func(t *testing.T) {
		cwd, err := os.Getwd()
		if err != nil {
			t.Fatal(err)
		}
		if err := os.Chdir(dir); err != nil {
			t.Fatal(err)
		}
		defer os.Chdir(cwd)

		written, err := WriteCSVExport(testListing(), "")
		if err != nil {
			t.Fatalf("WriteCSVExport failed: %v", err)
		}
		if written != "pl1_tracks.csv" {
			t.Fatalf("unexpected default path: %s", written)
		}
	})
}
