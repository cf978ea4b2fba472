// Spotify Web API implementation of [TrackSource]
//
// Endpoints: https://developer.spotify.com/documentation/web-api/reference/get-users-top-artists-and-tracks
// and https://developer.spotify.com/documentation/web-api/reference/get-an-albums-tracks
package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"slices"

	"github.com/desertthunder/tracklist/internal/models"
	"github.com/desertthunder/tracklist/internal/shared"
	"github.com/zmb3/spotify/v2"
	spotifyauth "github.com/zmb3/spotify/v2/auth"
	"golang.org/x/oauth2"
	"golang.org/x/time/rate"
)

const defaultRateLimit = 5.0

// SpotifyService implements [TrackSource] for the Spotify Web API.
type SpotifyService struct {
	auth    *spotifyauth.Authenticator
	baseURL string
	limiter *rate.Limiter
	base    http.RoundTripper
}

// NewSpotifyService creates a new Spotify service from the client settings in config.
//
// The user-top-read scope is always requested.
func NewSpotifyService(config shared.SpotifyConfig) (*SpotifyService, error) {
	if config.ClientID == "" {
		return nil, fmt.Errorf("%w: missing client_id", shared.ErrMissingCredentials)
	}
	if config.RedirectURI == "" {
		return nil, fmt.Errorf("%w: missing redirect_uri", shared.ErrInvalidConfig)
	}

	scopes := slices.Clone(config.Scopes)
	if !slices.Contains(scopes, spotifyauth.ScopeUserTopRead) {
		scopes = append(scopes, spotifyauth.ScopeUserTopRead)
	}

	limit := config.RateLimit
	if limit <= 0 {
		limit = defaultRateLimit
	}

	auth := spotifyauth.New(
		spotifyauth.WithClientID(config.ClientID),
		spotifyauth.WithRedirectURL(config.RedirectURI),
		spotifyauth.WithScopes(scopes...),
	)

	return &SpotifyService{
		auth:    auth,
		baseURL: config.APIURL,
		limiter: rate.NewLimiter(rate.Limit(limit), 1),
		base:    http.DefaultTransport,
	}, nil
}

func (s *SpotifyService) Name() string {
	return "Spotify"
}

// AuthURL returns the authorization URL for the implicit grant (response_type=token).
func (s *SpotifyService) AuthURL(state string) string {
	return s.auth.AuthURL(state, oauth2.SetAuthURLParam("response_type", "token"))
}

// TopTracks retrieves the current user's top tracks (first page).
func (s *SpotifyService) TopTracks(ctx context.Context, token string) ([]models.Track, error) {
	page, err := s.client(token).CurrentUsersTopTracks(ctx)
	if err != nil {
		return nil, apiError(err)
	}

	tracks := make([]models.Track, 0, len(page.Tracks))
	for _, t := range page.Tracks {
		tracks = append(tracks, convertTrack(t.SimpleTrack, t.Album))
	}
	return validTracks(tracks), nil
}

// AlbumTracks retrieves an album's tracks (first page).
func (s *SpotifyService) AlbumTracks(ctx context.Context, token, albumID string) ([]models.Track, error) {
	if albumID == "" {
		return nil, fmt.Errorf("%w: album ID is required", shared.ErrInvalidArgument)
	}

	page, err := s.client(token).GetAlbumTracks(ctx, spotify.ID(albumID))
	if err != nil {
		return nil, apiError(err)
	}

	tracks := make([]models.Track, 0, len(page.Tracks))
	for _, t := range page.Tracks {
		tracks = append(tracks, convertTrack(t, spotify.SimpleAlbum{}))
	}
	return validTracks(tracks), nil
}

// client returns a Spotify API client that authorizes every request with token.
func (s *SpotifyService) client(token string) *spotify.Client {
	src := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token, TokenType: "Bearer"})
	httpClient := &http.Client{
		Transport: &oauth2.Transport{
			Source: src,
			Base:   &limitedTransport{limiter: s.limiter, next: s.base},
		},
	}

	var opts []spotify.ClientOption
	if s.baseURL != "" {
		opts = append(opts, spotify.WithBaseURL(s.baseURL))
	}
	return spotify.New(httpClient, opts...)
}

// limitedTransport waits on a [rate.Limiter] before each request.
type limitedTransport struct {
	limiter *rate.Limiter
	next    http.RoundTripper
}

func (t *limitedTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if err := t.limiter.Wait(req.Context()); err != nil {
		return nil, err
	}
	return t.next.RoundTrip(req)
}

// convertTrack maps a provider track and its album onto [models.Track].
//
// When album has no artists (album listings omit the album) the track's artists are used.
func convertTrack(t spotify.SimpleTrack, album spotify.SimpleAlbum) models.Track {
	duration := int(t.Duration)
	if duration < 0 {
		duration = 0
	}

	track := models.Track{
		ID:          string(t.ID),
		Name:        t.Name,
		DurationMS:  duration,
		ExternalURL: t.ExternalURLs["spotify"],
		PreviewURL:  t.PreviewURL,
		Album: models.Album{
			Name: album.Name,
		},
	}

	for _, img := range album.Images {
		if img.URL == "" {
			continue
		}
		track.Album.Images = append(track.Album.Images, models.Image{
			URL:    img.URL,
			Width:  int(img.Width),
			Height: int(img.Height),
		})
	}

	artists := album.Artists
	if len(artists) == 0 {
		artists = t.Artists
	}
	for _, a := range artists {
		track.Album.Artists = append(track.Album.Artists, models.Artist{Name: a.Name})
	}

	return track
}

// validTracks drops tracks without an ID and repeats of an earlier ID, keeping order.
func validTracks(tracks []models.Track) []models.Track {
	seen := make(map[string]struct{}, len(tracks))
	valid := tracks[:0]
	for _, t := range tracks {
		if t.ID == "" {
			continue
		}
		if _, ok := seen[t.ID]; ok {
			continue
		}
		seen[t.ID] = struct{}{}
		valid = append(valid, t)
	}
	return valid
}

// apiError wraps a client error with the matching sentinel from [shared].
func apiError(err error) error {
	var se spotify.Error
	if errors.As(err, &se) {
		if se.Status == http.StatusUnauthorized {
			return fmt.Errorf("%w: %s", shared.ErrTokenExpired, se.Message)
		}
		return fmt.Errorf("%w: spotify API error: status %d: %s", shared.ErrAPIRequest, se.Status, se.Message)
	}
	return fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
}
