package shared

import "fmt"

var (
	// Cache errors
	ErrCacheFile            = fmt.Errorf("cache file unreadable")
	ErrMalformedCacheRecord = fmt.Errorf("malformed cache record")

	// Configuration errors
	ErrMissingConfig      = fmt.Errorf("configuration not found")
	ErrInvalidConfig      = fmt.Errorf("invalid configuration")
	ErrMissingCredentials = fmt.Errorf("missing credentials")

	// Authentication errors
	ErrAuthFailed       = fmt.Errorf("authentication failed")
	ErrNotAuthenticated = fmt.Errorf("not authenticated")

	// Remote service errors
	ErrRemoteUnavailable = fmt.Errorf("remote service unavailable")
	ErrPlaylistNotFound  = fmt.Errorf("playlist not found")
	ErrTrackNotFound     = fmt.Errorf("track not found")

	// ErrNameMismatch means a playlist fetched by a configured id came back
	// with an unexpected name. Continuing would risk writing to the wrong
	// playlist, so callers treat this as fatal.
	ErrNameMismatch = fmt.Errorf("playlist name mismatch")

	// Input validation errors
	ErrInvalidInput    = fmt.Errorf("invalid input")
	ErrMissingArgument = fmt.Errorf("missing required argument")
)
