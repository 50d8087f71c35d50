package sorter

import (
	"testing"

	"crates/internal/cache"
)

func TestProperlySorted(t *testing.T) {
	pl90 := cache.NewPlaylist("pl90", "WCS 90bpm")
	pl100 := cache.NewPlaylist("pl100", "WCS 100bpm")
	tempo := cache.NewGroup()
	tempo.AddPlaylist(pl90)
	tempo.AddPlaylist(pl100)

	rock := cache.NewPlaylist("plrock", "WCS rock")
	blues := cache.NewPlaylist("plblues", "WCS blues")
	genre := cache.NewGroup()
	genre.AddPlaylist(rock)
	genre.AddPlaylist(blues)

	all := cache.NewPlaylist("plall", "WCS all")

	file := func(trackID string, playlists ...*cache.Playlist) {
		for _, pl := range playlists {
			pl.AddTrack(trackID)
		}
	}

	file("good", all, pl90, rock)
	file("multigenre", all, pl90, rock, blues) // several genres are fine
	file("noall", pl90, rock)
	file("notempo", all, rock)
	file("twotempo", all, pl90, pl100, rock)
	file("nogenre", all, pl90)

	cases := []struct {
		trackID string
		want    bool
	}{
		{"good", true},
		{"multigenre", true},
		{"noall", false},
		{"notempo", false},
		{"twotempo", false},
		{"nogenre", false},
		{"unknown", false},
	}

	for _, tc := range cases {
		if got := ProperlySorted(tc.trackID, tempo, genre, all); got != tc.want {
			t.Errorf("ProperlySorted(%q) = %v, want %v", tc.trackID, got, tc.want)
		}
	}
}
