package services

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/zmb3/spotify/v2"
	spotifyauth "github.com/zmb3/spotify/v2/auth"
	"golang.org/x/oauth2"

	"crates/internal/shared"
)

// NewAuthenticator builds the Spotify OAuth2 authenticator with every scope
// the toolkit needs: reading and mutating playlists plus controlling playback.
func NewAuthenticator(cfg shared.SpotifyConfig) (*spotifyauth.Authenticator, error) {
	if cfg.ClientID == "" || cfg.ClientSecret == "" {
		return nil, fmt.Errorf("%w: spotify client_id and client_secret required", shared.ErrMissingCredentials)
	}

	redirect := cfg.RedirectURI
	if redirect == "" {
		redirect = "http://localhost:8080/callback"
	}

	return spotifyauth.New(
		spotifyauth.WithClientID(cfg.ClientID),
		spotifyauth.WithClientSecret(cfg.ClientSecret),
		spotifyauth.WithRedirectURL(redirect),
		spotifyauth.WithScopes(
			spotifyauth.ScopePlaylistReadPrivate,
			spotifyauth.ScopePlaylistModifyPublic,
			spotifyauth.ScopePlaylistModifyPrivate,
			spotifyauth.ScopeUserModifyPlaybackState,
			spotifyauth.ScopeUserReadPlaybackState,
			spotifyauth.ScopeUserReadCurrentlyPlaying,
		),
	), nil
}

// LoadToken reads a persisted OAuth2 token from disk.
func LoadToken(path string) (*oauth2.Token, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrNotAuthenticated, err)
	}

	var token oauth2.Token
	if err := json.Unmarshal(data, &token); err != nil {
		return nil, fmt.Errorf("%w: corrupt token file: %v", shared.ErrNotAuthenticated, err)
	}
	return &token, nil
}

// SaveToken persists an OAuth2 token to disk, readable only by the owner.
func SaveToken(path string, token *oauth2.Token) error {
	data, err := json.MarshalIndent(token, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal token: %w", err)
	}
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write token file: %w", err)
	}
	return nil
}

// NewAuthenticatedService builds a [SpotifyService] from the persisted token.
// The underlying HTTP client refreshes the token transparently when expired.
func NewAuthenticatedService(ctx context.Context, cfg shared.SpotifyConfig) (*SpotifyService, error) {
	auth, err := NewAuthenticator(cfg)
	if err != nil {
		return nil, err
	}

	token, err := LoadToken(cfg.TokenPath)
	if err != nil {
		return nil, err
	}

	client := spotify.New(auth.Client(ctx, token))
	return NewSpotifyService(client), nil
}
