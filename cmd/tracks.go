package main

import (
	"context"
	"fmt"

	"github.com/desertthunder/tracklist/internal/formatter"
	"github.com/desertthunder/tracklist/internal/session"
	"github.com/urfave/cli/v3"
)

// Tracks authorizes in the browser, fetches once and prints the list in the requested format.
func (r *Runner) Tracks(ctx context.Context, cmd *cli.Command) error {
	format, err := formatter.ParseFormat(cmd.String("format"))
	if err != nil {
		return err
	}

	config, err := r.loadConfig(cmd)
	if err != nil {
		return err
	}
	if cmd.Bool("album") {
		config.Spotify.UseAlbum = true
	}
	if id := cmd.String("album-id"); id != "" {
		config.Spotify.AlbumID = id
		config.Spotify.UseAlbum = true
	}
	if err := config.Validate(); err != nil {
		return err
	}

	source, err := r.trackSource(config)
	if err != nil {
		return err
	}

	s := session.New(config.Spotify, source, r.open, r.logger)
	if err := r.authorize(ctx, config, s); err != nil {
		return err
	}

	r.logger.Info("fetching tracks", "mode", s.Mode())
	if err := s.Run(ctx); err != nil {
		return fmt.Errorf("failed to fetch tracks: %w", err)
	}

	title := "My Top Tracks"
	if s.Mode() == session.AlbumTracks {
		title = "Album Tracks"
	}

	data, err := formatter.Export(format, title, s.Tracks(), cmd.Bool("pretty"))
	if err != nil {
		return err
	}

	if path := cmd.String("output"); path != "" {
		if err := formatter.WriteExport(path, data); err != nil {
			return err
		}
		r.writePlain("✓ Wrote %d tracks to %s\n", len(s.Tracks()), path)
		return nil
	}

	if _, err := r.output.Write(data); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}
