// package services defines interface TrackSource for fetching tracks from a music provider's HTTP API
//
// Spotify
package services

import (
	"context"

	"github.com/desertthunder/tracklist/internal/models"
)

// TrackSource defines a music provider that authorizes with the implicit grant and lists tracks for a bearer token.
type TrackSource interface {
	// AuthURL returns the provider authorization URL for the given state value.
	// The provider redirects back with an access token rather than a code.
	AuthURL(state string) string

	// TopTracks retrieves the first page of the listener's top tracks.
	TopTracks(ctx context.Context, token string) ([]models.Track, error)

	// AlbumTracks retrieves the first page of an album's tracks.
	AlbumTracks(ctx context.Context, token, albumID string) ([]models.Track, error)

	// Name returns the name of the service (e.g., "Spotify")
	Name() string
}
