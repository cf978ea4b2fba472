package session

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"slices"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/tracklist/internal/models"
	"github.com/desertthunder/tracklist/internal/services"
	"github.com/desertthunder/tracklist/internal/shared"
)

// State is the position of a [Session] in the auth/fetch lifecycle.
type State int

const (
	Unauthenticated State = iota
	Fetching
	Ready
	Empty
)

func (s State) String() string {
	switch s {
	case Unauthenticated:
		return "unauthenticated"
	case Fetching:
		return "fetching"
	case Ready:
		return "ready"
	case Empty:
		return "empty"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Mode selects which track listing is fetched.
type Mode int

const (
	TopTracks Mode = iota
	AlbumTracks
)

func (m Mode) String() string {
	if m == AlbumTracks {
		return "album"
	}
	return "top"
}

// Session holds at most one bearer token and the last fetched track list.
type Session struct {
	source  services.TrackSource
	open    shared.Opener
	logger  *log.Logger
	mode    Mode
	albumID string
	timeout time.Duration

	state   State
	token   string
	tracks  []models.Track
	pending map[string]struct{}
}

// New creates an unauthenticated session.
//
// The fetch mode comes from config: album mode when UseAlbum is set and an album ID is present.
func New(config shared.SpotifyConfig, source services.TrackSource, open shared.Opener, logger *log.Logger) *Session {
	if open == nil {
		open = shared.OpenBrowser
	}
	if logger == nil {
		logger = shared.NewLogger(nil)
	}

	mode := TopTracks
	if config.UseAlbum && config.AlbumID != "" {
		mode = AlbumTracks
	}

	return &Session{
		source:  source,
		open:    open,
		logger:  shared.WithLogger(logger, "component", "session"),
		mode:    mode,
		albumID: config.AlbumID,
		timeout: config.Timeout(),
		state:   Unauthenticated,
		pending: make(map[string]struct{}),
	}
}

// StartAuthentication issues a fresh state value and opens the authorization URL in the browser.
//
// The URL is returned even when opening fails so callers can show it.
func (s *Session) StartAuthentication() (string, error) {
	if s.state != Unauthenticated {
		return "", fmt.Errorf("%w: session is %s", shared.ErrInvalidArgument, s.state)
	}

	state := shared.GenerateState()
	s.pending[state] = struct{}{}
	authURL := s.source.AuthURL(state)

	s.logger.Info("starting authorization", "service", s.source.Name())
	if err := s.open(authURL); err != nil {
		s.logger.Warn("failed to open browser", "error", err)
		return authURL, fmt.Errorf("failed to open browser: %w", err)
	}
	return authURL, nil
}

// HandleRedirect validates the redirect URL and stores its token, moving the session to [Fetching].
//
// Parameters are read from the fragment, falling back to the query.
func (s *Session) HandleRedirect(u *url.URL) error {
	if u == nil {
		return fmt.Errorf("%w: no redirect URL", shared.ErrInvalidRedirect)
	}
	if s.state != Unauthenticated {
		return fmt.Errorf("%w: session is %s", shared.ErrInvalidRedirect, s.state)
	}

	params, err := redirectParams(u)
	if err != nil {
		return err
	}

	state := params.Get("state")
	if _, ok := s.pending[state]; !ok || state == "" {
		return shared.ErrStateMismatch
	}

	if reason := params.Get("error"); reason != "" {
		s.logger.Info("authorization denied", "reason", reason)
		return fmt.Errorf("%w: %s", shared.ErrAuthDenied, reason)
	}

	token := params.Get("access_token")
	if token == "" {
		return fmt.Errorf("%w: missing access_token", shared.ErrInvalidRedirect)
	}
	if tt := params.Get("token_type"); tt != "" && !strings.EqualFold(tt, "bearer") {
		return fmt.Errorf("%w: unsupported token_type %q", shared.ErrInvalidRedirect, tt)
	}

	s.token = token
	s.state = Fetching
	clear(s.pending)
	s.logger.Info("authorized", "mode", s.mode)
	return nil
}

func redirectParams(u *url.URL) (url.Values, error) {
	if u.Fragment != "" {
		v, err := url.ParseQuery(u.EscapedFragment())
		if err != nil {
			return nil, fmt.Errorf("%w: %v", shared.ErrInvalidRedirect, err)
		}
		return v, nil
	}
	return u.Query(), nil
}

// Fetch performs the single authenticated request for the session's mode.
//
// It reads only immutable configuration and may run off the UI loop.
func (s *Session) Fetch(ctx context.Context, token string) ([]models.Track, error) {
	if token == "" {
		return nil, shared.ErrNotAuthenticated
	}

	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	var (
		tracks []models.Track
		err    error
	)
	switch s.mode {
	case AlbumTracks:
		tracks, err = s.source.AlbumTracks(ctx, token, s.albumID)
	default:
		tracks, err = s.source.TopTracks(ctx, token)
	}

	if err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return nil, fmt.Errorf("%w: fetch exceeded %s", shared.ErrTimeout, s.timeout)
		}
		return nil, err
	}
	return tracks, nil
}

// Complete applies a fetch result. Calls outside [Fetching] are ignored.
//
// A failed fetch moves the session to [Empty] and keeps the token.
func (s *Session) Complete(tracks []models.Track, err error) {
	if s.state != Fetching {
		s.logger.Debug("ignoring fetch result", "state", s.state)
		return
	}

	if err != nil {
		s.logger.Error("failed to fetch tracks", "mode", s.mode, "error", err)
		s.tracks = nil
		s.state = Empty
		return
	}

	s.tracks = slices.Clone(tracks)
	s.state = Ready
	s.logger.Info("fetched tracks", "count", len(tracks))
}

// Run fetches with the stored token and completes the session in one step.
//
// Used by non-interactive callers that have no separate event loop.
func (s *Session) Run(ctx context.Context) error {
	if s.state != Fetching {
		return fmt.Errorf("%w: session is %s", shared.ErrNotAuthenticated, s.state)
	}
	tracks, err := s.Fetch(ctx, s.token)
	s.Complete(tracks, err)
	return err
}

func (s *Session) State() State { return s.state }

func (s *Session) Token() string { return s.token }

func (s *Session) Mode() Mode { return s.mode }

// Tracks returns a copy of the fetched list.
func (s *Session) Tracks() []models.Track {
	return slices.Clone(s.tracks)
}
