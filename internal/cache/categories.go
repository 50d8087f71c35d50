package cache

// Category maps a cache file key to the ordered list of playlist display names
// it should contain. Maintained by hand; the refresh task rebuilds each file
// from the remote library using these names.
type Category struct {
	Key   string
	Names []string
}

// Tempo and Genre are the keys of the two categories with filing invariants.
// Special and Status playlists are cached for membership display only.
const (
	TempoKey   = "tempo.json"
	GenreKey   = "genre.json"
	SpecialKey = "special.json"
	StatusKey  = "status.json"
)

var tempoPlaylists = []string{
	"WCS 60bpm",
	"WCS 70bpm",
	"WCS 80bpm",
	"WCS 90bpm",
	"WCS 100bpm",
	"WCS 110bpm",
	"WCS 120bpm",
	"WCS 130bpm",
}

var genrePlaylists = []string{
	"WCS acoustic",
	"WCS alternative",
	"WCS blues",
	"WCS country",
	"WCS covers",
	"WCS dance-pop",
	"WCS 1970s disco",
	"WCS electronic",
	"WCS funk",
	"WCS hip-hop/rap",
	"WCS jazz-like",
	"WCS k-pop",
	"WCS latin pop",
	"WCS pre-1990 pop",
	"WCS 1990s pop",
	"WCS 2000s pop",
	"WCS 2010s pop",
	"WCS 2020s pop",
	"WCS reggae",
	"WCS rock",
	"WCS soul/R&B",
	"WCS European languages",
	"WCS European artists",
	"WCS Asian artists",
	"WCS swung beat",
}

var statusPlaylists = []string{
	"WCS untested",
	"WCS unfiled",
	"WCS added since 2019-07-01",
	"WCS added since 2019-11-14",
	"WCS added during lockdown",
	"WCS released during lockdown",
	"WCS added since 2020-10-16",
	"WCS released since 2020-10-16",
}

var specialPlaylists = []string{
	"WCS half-time/double-time",
	"WCS high-tempo low-energy?",
	"WCS blues 12-bar riff",
	"WCS blues straight beat",
	"WCS songs to ask about",
	"WCS unfiled from J&J O'Rama 2019",
	"WCS removed",
}

// Categories returns the full registry in refresh order.
func Categories() []Category {
	return []Category{
		{Key: GenreKey, Names: genrePlaylists},
		{Key: TempoKey, Names: tempoPlaylists},
		{Key: SpecialKey, Names: specialPlaylists},
		{Key: StatusKey, Names: statusPlaylists},
	}
}
