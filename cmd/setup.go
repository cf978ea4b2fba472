package main

import (
	"context"
	"fmt"

	"github.com/desertthunder/tracklist/internal/shared"
	"github.com/urfave/cli/v3"
)

// SetupConfig writes the example configuration to the --config path.
//
// An existing file is left untouched.
func (r *Runner) SetupConfig(ctx context.Context, cmd *cli.Command) error {
	configPath := cmd.String("config")

	r.logger.Info("creating config file from template", "path", configPath)
	if err := shared.CreateConfigFile(configPath); err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}

	r.writePlain("✓ Config written to %s\n", configPath)
	r.writePlainln("Next steps:")
	r.writePlain("1. Set spotify.client_id (or %s)\n", shared.EnvClientID)
	r.writePlain("2. Register %s as a redirect URI for your Spotify app\n", shared.DefaultConfig().Spotify.RedirectURI)
	r.writePlain("3. Run 'tracklist' to browse your top tracks\n")
	return nil
}
