package main

import (
	"context"
	"fmt"
	"net/url"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/tracklist/internal/server"
	"github.com/desertthunder/tracklist/internal/session"
	"github.com/desertthunder/tracklist/internal/shared"
	"github.com/desertthunder/tracklist/internal/ui"
	"github.com/urfave/cli/v3"
)

const defaultLogFile = "./tmp/tracklist.log"

// TUI launches the interactive track browser.
//
// The redirect listener runs for the life of the program and forwards every callback to the UI loop.
func (r *Runner) TUI(ctx context.Context, cmd *cli.Command) error {
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

	addr, err := config.Spotify.CallbackAddr()
	if err != nil {
		return err
	}

	// Log to a file so output doesn't interfere with TUI rendering
	logPath := config.Log.File
	if logPath == "" {
		logPath = defaultLogFile
	}
	fileLogger, err := shared.NewFileLogger(logPath)
	if err != nil {
		return fmt.Errorf("failed to create file logger: %w", err)
	}
	if err := shared.SetLogLevel(fileLogger, config.Log.Level); err != nil {
		fileLogger.Warn("ignoring log level", "error", err)
	}
	r.SetLogger(fileLogger)

	s := session.New(config.Spotify, source, r.open, r.logger)
	model := ui.NewModel(ctx, s, r.open, r.logger)
	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))

	router := server.NewRedirectRouter(config.Spotify.CallbackPath(), func(u *url.URL) {
		p.Send(ui.RedirectMsg(u))
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

	go func() {
		if err, ok := <-serveErrs; ok {
			r.logger.Error("redirect listener stopped", "error", err)
		}
	}()

	r.logger.Info("starting TUI", "addr", srv.Addr, "mode", s.Mode())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running TUI: %w", err)
	}

	return nil
}
