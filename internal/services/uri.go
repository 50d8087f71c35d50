package services

import "strings"

// Spotify ids are 22 characters of base62.
const idLength = 22

func isBareID(s string) bool {
	if len(s) != idLength {
		return false
	}
	for _, r := range s {
		switch {
		case r >= '0' && r <= '9':
		case r >= 'a' && r <= 'z':
		case r >= 'A' && r <= 'Z':
		default:
			return false
		}
	}
	return true
}

// ParseID extracts a resource id of the given type ("playlist", "track") from
// an argument that may be a spotify: URI, an open.spotify.com URL, or a bare
// id. Returns "" if the argument is none of those.
func ParseID(arg, resourceType string) string {
	arg = strings.TrimSpace(arg)

	if id, ok := strings.CutPrefix(arg, "spotify:"+resourceType+":"); ok {
		if isBareID(id) {
			return id
		}
		return ""
	}

	for _, host := range []string{"https://open.spotify.com/", "http://open.spotify.com/"} {
		if rest, ok := strings.CutPrefix(arg, host+resourceType+"/"); ok {
			id, _, _ := strings.Cut(rest, "?")
			if isBareID(id) {
				return id
			}
			return ""
		}
	}

	if isBareID(arg) {
		return arg
	}
	return ""
}
