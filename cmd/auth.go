package main

import (
	"context"
	"fmt"
	"net"
	"net/url"

	"github.com/urfave/cli/v3"

	"crates/internal/server"
	"crates/internal/services"
	"crates/internal/shared"
)

// AuthLogin runs the interactive OAuth2 flow: opens the authorization page,
// catches the redirect on a one-shot localhost listener, and persists the
// exchanged token.
func (r *Runner) AuthLogin(ctx context.Context, cmd *cli.Command) error {
	cfg := r.config.Credentials.Spotify
	auth, err := services.NewAuthenticator(cfg)
	if err != nil {
		return err
	}

	redirect := cfg.RedirectURI
	if redirect == "" {
		redirect = "http://localhost:8080/callback"
	}

	state := shared.GenerateID()
	srv, err := server.NewCallbackServer(auth, state, redirect)
	if err != nil {
		return err
	}

	authURL := auth.AuthURL(state)
	r.writePlain("Opening the authorization page:\n\n  %s\n\n", authURL)
	if err := shared.OpenBrowser(authURL); err != nil {
		r.logger.Warnf("couldn't open browser, visit the URL manually: %v", err)
	}

	addr, err := listenAddr(redirect)
	if err != nil {
		return err
	}

	token, err := srv.Wait(ctx, addr)
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrAuthFailed, err)
	}

	if err := services.SaveToken(cfg.TokenPath, token); err != nil {
		return err
	}
	r.console().OK("Logged in, token saved to %s.", cfg.TokenPath)
	return nil
}

// AuthStatus reports whether a usable token is on disk.
func (r *Runner) AuthStatus(ctx context.Context, cmd *cli.Command) error {
	cfg := r.config.Credentials.Spotify
	console := r.console()

	token, err := services.LoadToken(cfg.TokenPath)
	if err != nil {
		console.Warnf("Not authenticated: %v", err)
		console.Println("Run 'crates auth login' to authenticate.")
		return nil
	}

	switch {
	case token.Valid():
		console.OK("Token valid until %s.", token.Expiry.Format("2006-01-02 15:04:05"))
	case token.RefreshToken != "":
		console.Printf("Token expired at %s but holds a refresh token; it refreshes on first use.\n",
			token.Expiry.Format("2006-01-02 15:04:05"))
	default:
		console.Warnf("Token expired at %s and cannot refresh. Run 'crates auth login' again.",
			token.Expiry.Format("2006-01-02 15:04:05"))
	}
	return nil
}

// listenAddr derives the local listen address from the redirect URI.
func listenAddr(redirectURI string) (string, error) {
	u, err := url.Parse(redirectURI)
	if err != nil {
		return "", fmt.Errorf("invalid redirect URI: %w", err)
	}

	host := u.Hostname()
	if host == "" {
		host = "localhost"
	}
	port := u.Port()
	if port == "" {
		port = "8080"
	}
	return net.JoinHostPort(host, port), nil
}
