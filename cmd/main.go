package main

import (
	"context"
	"errors"
	"os"

	"github.com/desertthunder/tracklist/internal/shared"
	"github.com/urfave/cli/v3"
)

func main() {
	logger := shared.NewLogger(nil)
	runner := NewRunner(RunnerOpts{Logger: logger})

	app := &cli.Command{
		Name:     "tracklist",
		Usage:    "Browse your Spotify top tracks from the terminal",
		Version:  "0.1.0",
		Flags:    rootFlags(),
		Action:   runner.TUI,
		Commands: runner.register(),
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		switch {
		case errors.Is(err, shared.ErrMissingCredentials), errors.Is(err, shared.ErrInvalidConfig):
			logger.Error("configuration error", "error", err)
			logger.Info("run 'tracklist setup config' or set " + shared.EnvClientID)
			os.Exit(2)
		case errors.Is(err, shared.ErrAuthDenied):
			logger.Warn("authorization denied")
			os.Exit(1)
		default:
			logger.Fatalf("application error: %v", err)
		}
	}
}
