// package server runs the one-shot localhost HTTP listener that catches the
// OAuth2 redirect during interactive login.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"sync"
	"time"

	spotifyauth "github.com/zmb3/spotify/v2/auth"
	"golang.org/x/oauth2"
)

// CallbackResult carries the outcome of the authorization flow.
type CallbackResult struct {
	Token *oauth2.Token
	Err   error
}

// CallbackServer listens for the OAuth2 redirect, validates the state
// parameter, and exchanges the authorization code for a token. It serves a
// single callback and then shuts down.
type CallbackServer struct {
	auth    *spotifyauth.Authenticator
	state   string
	path    string
	results chan CallbackResult
	once    sync.Once
}

// NewCallbackServer creates a callback server for the given authenticator and
// state token. The state token should be cryptographically random.
func NewCallbackServer(auth *spotifyauth.Authenticator, state, redirectURI string) (*CallbackServer, error) {
	u, err := url.Parse(redirectURI)
	if err != nil {
		return nil, fmt.Errorf("invalid redirect URI: %w", err)
	}

	path := u.Path
	if path == "" {
		path = "/callback"
	}

	return &CallbackServer{
		auth:    auth,
		state:   state,
		path:    path,
		results: make(chan CallbackResult, 1),
	}, nil
}

func (s *CallbackServer) send(r CallbackResult) {
	s.once.Do(func() { s.results <- r })
}

func (s *CallbackServer) handle(w http.ResponseWriter, r *http.Request) {
	if r.URL.Query().Get("state") != s.state {
		s.send(CallbackResult{Err: errors.New("state parameter mismatch")})
		http.Error(w, "State mismatch", http.StatusBadRequest)
		return
	}

	token, err := s.auth.Token(r.Context(), s.state, r)
	if err != nil {
		s.send(CallbackResult{Err: fmt.Errorf("token exchange failed: %w", err)})
		http.Error(w, "Token exchange failed", http.StatusInternalServerError)
		return
	}

	s.send(CallbackResult{Token: token})
	w.Header().Set("Content-Type", "text/html")
	fmt.Fprint(w, "<html><body><h3>Login complete</h3><p>You can close this tab and return to the terminal.</p></body></html>")
}

// Wait runs the listener on addr until the callback arrives, the context is
// cancelled, or the server fails to start. Returns the exchanged token.
func (s *CallbackServer) Wait(ctx context.Context, addr string) (*oauth2.Token, error) {
	mux := http.NewServeMux()
	mux.HandleFunc(s.path, s.handle)

	srv := &http.Server{Addr: addr, Handler: mux}

	errs := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errs <- err
		}
	}()

	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		srv.Shutdown(shutdownCtx)
	}()

	select {
	case result := <-s.results:
		return result.Token, result.Err
	case err := <-errs:
		return nil, fmt.Errorf("callback server failed: %w", err)
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}
