package shared

import (
	_ "embed"
	"fmt"
	"net"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

//go:embed config.example.toml
var exampleConf []byte

// Environment variables that override values from config.toml
const (
	EnvClientID    = "SPOTIFY_CLIENT_ID"
	EnvRedirectURI = "SPOTIFY_REDIRECT_URI"
	EnvAlbumID     = "SPOTIFY_ALBUM_ID"
	EnvLogLevel    = "TRACKLIST_LOG_LEVEL"
)

// Config represents the application configuration loaded from a TOML file and the environment.
//
// It is built once at startup and passed by value afterwards.
type Config struct {
	Spotify SpotifyConfig `toml:"spotify"`
	Log     LogConfig     `toml:"log"`
}

// SpotifyConfig contains the implicit-grant client settings and the fetch mode.
type SpotifyConfig struct {
	ClientID       string   `toml:"client_id"`
	RedirectURI    string   `toml:"redirect_uri"`
	Scopes         []string `toml:"scopes"`
	AlbumID        string   `toml:"album_id"`
	UseAlbum       bool     `toml:"use_album"`
	TimeoutSeconds int      `toml:"timeout_seconds"`
	RateLimit      float64  `toml:"rate_limit"` // requests per second
	APIURL         string   `toml:"api_url"`    // empty uses the public Web API
}

// LogConfig contains logger settings.
type LogConfig struct {
	Level string `toml:"level"`
	File  string `toml:"file"` // TUI log destination
}

// LoadConfig reads and parses a TOML configuration file from the specified path.
//
// Keys missing from the file keep their defaults.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := DefaultConfig()
	if err := toml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	return config, nil
}

// Load builds the startup configuration: defaults, then path (when it exists), then .env and process environment.
func Load(path string) (*Config, error) {
	config := DefaultConfig()
	if path != "" {
		if _, err := os.Stat(path); err == nil {
			if config, err = LoadConfig(path); err != nil {
				return nil, err
			}
		}
	}

	// .env is optional
	_ = godotenv.Load()

	config.ApplyEnv(os.Getenv)
	return config, nil
}

// DefaultConfig returns a Config with sensible defaults loaded from the embedded example config.
func DefaultConfig() *Config {
	var config Config
	if err := toml.Unmarshal(exampleConf, &config); err != nil {
		panic(fmt.Sprintf("failed to parse embedded default config: %v", err))
	}
	return &config
}

// CreateConfigFile creates a config.toml file at the specified path using the embedded example config.
func CreateConfigFile(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists at %s", path)
	}

	if err := os.WriteFile(path, exampleConf, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// ApplyEnv overrides config values with non-empty environment variables read through getenv.
func (c *Config) ApplyEnv(getenv func(string) string) {
	if v := getenv(EnvClientID); v != "" {
		c.Spotify.ClientID = v
	}
	if v := getenv(EnvRedirectURI); v != "" {
		c.Spotify.RedirectURI = v
	}
	if v := getenv(EnvAlbumID); v != "" {
		c.Spotify.AlbumID = v
	}
	if v := getenv(EnvLogLevel); v != "" {
		c.Log.Level = v
	}
}

// Validate checks that the configuration can drive an authorization and a fetch.
func (c *Config) Validate() error {
	s := c.Spotify
	if strings.TrimSpace(s.ClientID) == "" {
		return fmt.Errorf("%w: spotify.client_id (or %s) must be set", ErrMissingCredentials, EnvClientID)
	}
	if _, err := s.CallbackAddr(); err != nil {
		return err
	}
	if s.UseAlbum && strings.TrimSpace(s.AlbumID) == "" {
		return fmt.Errorf("%w: spotify.album_id is required when use_album is set", ErrInvalidConfig)
	}
	if s.TimeoutSeconds <= 0 {
		return fmt.Errorf("%w: spotify.timeout_seconds must be positive", ErrInvalidConfig)
	}
	return nil
}

// Timeout returns the bound on a single API request.
func (s SpotifyConfig) Timeout() time.Duration {
	return time.Duration(s.TimeoutSeconds) * time.Second
}

// CallbackAddr returns the host:port the redirect listener binds to, taken from the redirect URI.
//
// The redirect URI must be an absolute http URL with an explicit port on a loopback host.
func (s SpotifyConfig) CallbackAddr() (string, error) {
	u, err := url.Parse(s.RedirectURI)
	if err != nil {
		return "", fmt.Errorf("%w: redirect_uri: %v", ErrInvalidConfig, err)
	}
	if u.Scheme != "http" {
		return "", fmt.Errorf("%w: redirect_uri must use http, got %q", ErrInvalidConfig, u.Scheme)
	}
	if u.Port() == "" {
		return "", fmt.Errorf("%w: redirect_uri must include a port", ErrInvalidConfig)
	}

	host := u.Hostname()
	if host != "localhost" {
		ip := net.ParseIP(host)
		if ip == nil || !ip.IsLoopback() {
			return "", fmt.Errorf("%w: redirect_uri host %q is not a loopback address", ErrInvalidConfig, host)
		}
	}

	return u.Host, nil
}

// CallbackPath returns the path component of the redirect URI, defaulting to "/".
func (s SpotifyConfig) CallbackPath() string {
	u, err := url.Parse(s.RedirectURI)
	if err != nil || u.Path == "" {
		return "/"
	}
	return u.Path
}
