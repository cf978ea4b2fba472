package main

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/desertthunder/tracklist/internal/server"
	"github.com/desertthunder/tracklist/internal/session"
	"github.com/desertthunder/tracklist/internal/shared"
	"github.com/urfave/cli/v3"
)

// AuthURL prints the authorization URL for a fresh state value without starting the redirect listener.
func (r *Runner) AuthURL(ctx context.Context, cmd *cli.Command) error {
	config, err := r.loadConfig(cmd)
	if err != nil {
		return err
	}
	if err := config.Validate(); err != nil {
		return err
	}

	source, err := r.trackSource(config)
	if err != nil {
		return err
	}

	state := shared.GenerateState()
	authURL := source.AuthURL(state)

	if cmd.Bool("json") {
		return r.writeJSON(map[string]string{"url": authURL, "state": state}, true)
	}
	return r.writePlain("%s\n", authURL)
}

// authorize runs the redirect listener until the session accepts a redirect, the user denies access, or the wait times out.
//
// Redirects with a bad state or no token are logged and the wait continues.
func (r *Runner) authorize(ctx context.Context, config shared.Config, s *session.Session) error {
	addr, err := config.Spotify.CallbackAddr()
	if err != nil {
		return err
	}

	redirects := make(chan *url.URL, 4)
	router := server.NewRedirectRouter(config.Spotify.CallbackPath(), func(u *url.URL) {
		select {
		case redirects <- u:
		default:
		}
	}, shared.WithLogger(r.logger, "component", "server"))

	srv, serveErrs, err := server.Listen(addr, router)
	if err != nil {
		return err
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			r.logger.Warn("error shutting down server", "error", err)
		}
	}()
	r.logger.Info("listening for redirect", "addr", srv.Addr)

	r.logger.Info("opening browser for Spotify authorization")
	authURL, err := s.StartAuthentication()
	if err != nil {
		if authURL == "" {
			return err
		}
		r.logger.Warn("could not open browser automatically, open this URL to continue", "url", authURL, "error", err)
	}

	r.logger.Infof("waiting for authorization (%s timeout)", r.authTimeout)

	timeout := time.NewTimer(r.authTimeout)
	defer timeout.Stop()

	for {
		select {
		case u := <-redirects:
			err := s.HandleRedirect(u)
			switch {
			case err == nil:
				return nil
			case errors.Is(err, shared.ErrAuthDenied):
				return err
			default:
				r.logger.Warn("rejected redirect", "error", err)
			}
		case err, ok := <-serveErrs:
			if ok {
				return fmt.Errorf("%w: redirect listener: %v", shared.ErrServiceUnavailable, err)
			}
			serveErrs = nil
		case <-timeout.C:
			return fmt.Errorf("%w: authorization timed out after %s", shared.ErrTimeout, r.authTimeout)
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}
