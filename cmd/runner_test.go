package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/desertthunder/tracklist/internal/models"
	"github.com/desertthunder/tracklist/internal/shared"
	tu "github.com/desertthunder/tracklist/internal/testing"
	"github.com/urfave/cli/v3"
)

func freePort(t *testing.T) int {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("failed to find a free port: %v", err)
	}
	defer ln.Close()
	return ln.Addr().(*net.TCPAddr).Port
}

func testConfig(t *testing.T) *shared.Config {
	t.Helper()
	config := shared.DefaultConfig()
	config.Spotify.ClientID = "test-client"
	config.Spotify.RedirectURI = fmt.Sprintf("http://127.0.0.1:%d/callback", freePort(t))
	config.Log.Level = "error"
	return config
}

// fakeBrowser answers the authorization URL by requesting the redirect URI with each set of params in turn.
func fakeBrowser(redirectURI string, params ...func(state string) string) shared.Opener {
	return func(authURL string) error {
		u, err := url.Parse(authURL)
		if err != nil {
			return err
		}
		state := u.Query().Get("state")

		go func() {
			for _, p := range params {
				resp, err := http.Get(redirectURI + "?" + p(state))
				if err != nil {
					return
				}
				io.Copy(io.Discard, resp.Body)
				resp.Body.Close()
			}
		}()
		return nil
	}
}

func grant(state string) string {
	return "access_token=tok&token_type=Bearer&expires_in=3600&state=" + state
}

func newTestRunner(t *testing.T, config *shared.Config, source *tu.MockTrackSource, opener shared.Opener) (*Runner, *bytes.Buffer) {
	t.Helper()
	output := &bytes.Buffer{}
	runner := NewRunner(RunnerOpts{
		Config:      config,
		Source:      source,
		Logger:      shared.NewLogger(io.Discard),
		Output:      output,
		Opener:      opener,
		AuthTimeout: 5 * time.Second,
	})
	return runner, output
}

func run(r *Runner, args ...string) error {
	app := &cli.Command{
		Name:     "tracklist",
		Flags:    rootFlags(),
		Commands: r.register(),
	}
	return app.Run(context.Background(), append([]string{"tracklist"}, args...))
}

func TestRunner(t *testing.T) {
	t.Run("NewRunner", func(t *testing.T) {
		t.Run("with all dependencies provided", func(t *testing.T) {
			config := shared.DefaultConfig()
			logger := shared.NewLogger(nil)
			output := &bytes.Buffer{}
			source := &tu.MockTrackSource{}

			runner := NewRunner(RunnerOpts{
				Config:      config,
				Source:      source,
				Logger:      logger,
				Output:      output,
				AuthTimeout: time.Second,
			})

			if runner.config != config {
				t.Error("expected config to be set")
			}
			if runner.source != source {
				t.Error("expected source to be set")
			}
			if runner.logger != logger {
				t.Error("expected logger to be set")
			}
			if runner.output != output {
				t.Error("expected output to be set")
			}
			if runner.authTimeout != time.Second {
				t.Errorf("expected auth timeout 1s, got %s", runner.authTimeout)
			}
		})

		t.Run("with nil options uses defaults", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{})

			if runner.logger == nil {
				t.Error("expected default logger to be set")
			}
			if runner.output == nil {
				t.Error("expected default output to be set")
			}
			if runner.open == nil {
				t.Error("expected default opener to be set")
			}
			if runner.authTimeout != defaultAuthTimeout {
				t.Errorf("expected default auth timeout, got %s", runner.authTimeout)
			}
		})
	})

	t.Run("register", func(t *testing.T) {
		runner := NewRunner(RunnerOpts{})
		names := []string{}
		for _, c := range runner.register() {
			names = append(names, c.Name)
		}
		if got := strings.Join(names, ","); got != "tracks,auth,setup,tui" {
			t.Errorf("unexpected commands %s", got)
		}
	})

	t.Run("write helpers", func(t *testing.T) {
		output := &bytes.Buffer{}
		runner := NewRunner(RunnerOpts{Output: output})

		if err := runner.writeJSON(map[string]int{"n": 1}, false); err != nil {
			t.Fatalf("writeJSON failed: %v", err)
		}
		if output.String() != "{\"n\":1}\n" {
			t.Errorf("unexpected JSON output %q", output.String())
		}

		failing := NewRunner(RunnerOpts{Output: &tu.FWriter{}})
		if err := failing.writeJSON(map[string]int{"n": 1}, true); err == nil {
			t.Error("expected writeJSON error")
		}
		if err := failing.writePlain("x"); err == nil {
			t.Error("expected writePlain error")
		}
		if err := failing.writePlainln("x"); err == nil {
			t.Error("expected writePlainln error")
		}

		limited := tu.NewLimitedWriter(1, 0, &bytes.Buffer{})
		partial := NewRunner(RunnerOpts{Output: &limited})
		if err := partial.writeJSON(map[string]int{"n": 1}, false); err == nil {
			t.Error("expected newline write to fail")
		}
	})
}

func TestTracks(t *testing.T) {
	t.Run("prints top tracks as text", func(t *testing.T) {
		config := testConfig(t)
		source := &tu.MockTrackSource{Tracks: tu.SampleTracks()}
		runner, output := newTestRunner(t, config, source, fakeBrowser(config.Spotify.RedirectURI, grant))

		if err := run(runner, "tracks"); err != nil {
			t.Fatalf("tracks failed: %v", err)
		}

		out := output.String()
		if !strings.HasPrefix(out, "My Top Tracks\n") {
			t.Errorf("expected top tracks title, got:\n%s", out)
		}
		if !strings.Contains(out, "1. Radiohead - Everything In Its Right Place (4:11)") {
			t.Errorf("expected first track, got:\n%s", out)
		}
		if source.TopCalls() != 1 || source.LastToken() != "tok" {
			t.Errorf("expected one fetch with the granted token, got %d calls with %q", source.TopCalls(), source.LastToken())
		}
	})

	t.Run("prints JSON", func(t *testing.T) {
		config := testConfig(t)
		source := &tu.MockTrackSource{Tracks: tu.SampleTracks()}
		runner, output := newTestRunner(t, config, source, fakeBrowser(config.Spotify.RedirectURI, grant))

		if err := run(runner, "tracks", "--format", "json", "--pretty"); err != nil {
			t.Fatalf("tracks failed: %v", err)
		}

		var tracks []models.Track
		if err := json.Unmarshal(output.Bytes(), &tracks); err != nil {
			t.Fatalf("output is not JSON: %v\n%s", err, output.String())
		}
		if len(tracks) != 3 || tracks[2].ID != "t3" {
			t.Errorf("unexpected tracks %+v", tracks)
		}
	})

	t.Run("album mode", func(t *testing.T) {
		config := testConfig(t)
		source := &tu.MockTrackSource{Tracks: tu.SampleTracks()}
		runner, output := newTestRunner(t, config, source, fakeBrowser(config.Spotify.RedirectURI, grant))

		if err := run(runner, "tracks", "--album-id", "alb", "--format", "md"); err != nil {
			t.Fatalf("tracks failed: %v", err)
		}
		if calls := source.AlbumCalls(); len(calls) != 1 || calls[0] != "alb" {
			t.Errorf("expected album fetch for alb, got %v", calls)
		}
		if !strings.HasPrefix(output.String(), "# Album Tracks") {
			t.Errorf("expected album title, got:\n%s", output.String())
		}
	})

	t.Run("writes to file", func(t *testing.T) {
		config := testConfig(t)
		source := &tu.MockTrackSource{Tracks: tu.SampleTracks()}
		runner, output := newTestRunner(t, config, source, fakeBrowser(config.Spotify.RedirectURI, grant))
		path := filepath.Join(t.TempDir(), "out", "tracks.csv")

		if err := run(runner, "tracks", "-f", "csv", "-o", path); err != nil {
			t.Fatalf("tracks failed: %v", err)
		}
		tu.AssertFileExists(t, path)
		if !strings.Contains(tu.MustReadFile(t, path), "t1,Everything In Its Right Place,Radiohead") {
			t.Error("expected CSV rows in file")
		}
		if !strings.Contains(output.String(), "Wrote 3 tracks") {
			t.Errorf("expected confirmation, got %q", output.String())
		}
	})

	t.Run("skips forged redirect", func(t *testing.T) {
		config := testConfig(t)
		source := &tu.MockTrackSource{Tracks: tu.SampleTracks()}
		forged := func(string) string { return "access_token=evil&state=forged" }
		runner, _ := newTestRunner(t, config, source, fakeBrowser(config.Spotify.RedirectURI, forged, grant))

		if err := run(runner, "tracks"); err != nil {
			t.Fatalf("tracks failed: %v", err)
		}
		if source.LastToken() != "tok" {
			t.Errorf("expected granted token, got %q", source.LastToken())
		}
	})

	t.Run("skips forged denial", func(t *testing.T) {
		config := testConfig(t)
		source := &tu.MockTrackSource{Tracks: tu.SampleTracks()}
		forged := func(string) string { return "error=access_denied&state=forged" }
		runner, _ := newTestRunner(t, config, source, fakeBrowser(config.Spotify.RedirectURI, forged, grant))

		if err := run(runner, "tracks"); err != nil {
			t.Fatalf("tracks failed: %v", err)
		}
		if source.TopCalls() != 1 || source.LastToken() != "tok" {
			t.Errorf("expected fetch with granted token, got %d calls with %q", source.TopCalls(), source.LastToken())
		}
	})

	t.Run("denied", func(t *testing.T) {
		config := testConfig(t)
		source := &tu.MockTrackSource{Tracks: tu.SampleTracks()}
		deny := func(state string) string { return "error=access_denied&state=" + state }
		runner, _ := newTestRunner(t, config, source, fakeBrowser(config.Spotify.RedirectURI, deny))

		if err := run(runner, "tracks"); !errors.Is(err, shared.ErrAuthDenied) {
			t.Fatalf("expected ErrAuthDenied, got %v", err)
		}
		if source.TopCalls() != 0 {
			t.Error("expected no fetch after denial")
		}
	})

	t.Run("authorization timeout", func(t *testing.T) {
		config := testConfig(t)
		opener := &tu.FakeOpener{}
		runner, _ := newTestRunner(t, config, &tu.MockTrackSource{}, opener.Open)
		runner.authTimeout = 200 * time.Millisecond

		if err := run(runner, "tracks"); !errors.Is(err, shared.ErrTimeout) {
			t.Fatalf("expected ErrTimeout, got %v", err)
		}
		if opener.Last() == "" {
			t.Error("expected authorization URL to be opened")
		}
	})

	t.Run("fetch failure", func(t *testing.T) {
		config := testConfig(t)
		source := &tu.MockTrackSource{Err: fmt.Errorf("%w: status 500", shared.ErrAPIRequest)}
		runner, output := newTestRunner(t, config, source, fakeBrowser(config.Spotify.RedirectURI, grant))

		if err := run(runner, "tracks"); !errors.Is(err, shared.ErrAPIRequest) {
			t.Fatalf("expected ErrAPIRequest, got %v", err)
		}
		if output.Len() != 0 {
			t.Errorf("expected no output, got %q", output.String())
		}
	})

	t.Run("invalid format", func(t *testing.T) {
		runner, _ := newTestRunner(t, testConfig(t), &tu.MockTrackSource{}, nil)
		if err := run(runner, "tracks", "--format", "yaml"); !errors.Is(err, shared.ErrInvalidArgument) {
			t.Errorf("expected ErrInvalidArgument, got %v", err)
		}
	})

	t.Run("album without id", func(t *testing.T) {
		runner, _ := newTestRunner(t, testConfig(t), &tu.MockTrackSource{}, nil)
		if err := run(runner, "tracks", "--album"); !errors.Is(err, shared.ErrInvalidConfig) {
			t.Errorf("expected ErrInvalidConfig, got %v", err)
		}
	})

	t.Run("missing client id", func(t *testing.T) {
		config := testConfig(t)
		config.Spotify.ClientID = ""
		runner, _ := newTestRunner(t, config, &tu.MockTrackSource{}, nil)
		if err := run(runner, "tracks"); !errors.Is(err, shared.ErrMissingCredentials) {
			t.Errorf("expected ErrMissingCredentials, got %v", err)
		}
	})
}

func TestAuthURL(t *testing.T) {
	t.Run("plain", func(t *testing.T) {
		runner, output := newTestRunner(t, testConfig(t), &tu.MockTrackSource{}, nil)

		if err := run(runner, "auth", "url"); err != nil {
			t.Fatalf("auth url failed: %v", err)
		}
		if !strings.Contains(output.String(), "response_type=token") {
			t.Errorf("expected implicit-grant URL, got %q", output.String())
		}
	})

	t.Run("json", func(t *testing.T) {
		runner, output := newTestRunner(t, testConfig(t), &tu.MockTrackSource{}, nil)

		if err := run(runner, "auth", "url", "--json"); err != nil {
			t.Fatalf("auth url failed: %v", err)
		}

		var got map[string]string
		if err := json.Unmarshal(output.Bytes(), &got); err != nil {
			t.Fatalf("output is not JSON: %v", err)
		}
		if got["state"] == "" || !strings.HasSuffix(got["url"], "state="+got["state"]) {
			t.Errorf("expected URL to carry state, got %v", got)
		}
	})

	t.Run("real client", func(t *testing.T) {
		config := testConfig(t)
		output := &bytes.Buffer{}
		runner := NewRunner(RunnerOpts{Config: config, Logger: shared.NewLogger(io.Discard), Output: output})

		if err := run(runner, "auth", "url"); err != nil {
			t.Fatalf("auth url failed: %v", err)
		}
		u, err := url.Parse(strings.TrimSpace(output.String()))
		if err != nil {
			t.Fatalf("output is not a URL: %v", err)
		}
		if u.Host != "accounts.spotify.com" || u.Query().Get("client_id") != "test-client" {
			t.Errorf("unexpected authorization URL %s", u)
		}
	})
}

func TestSetupConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	output := &bytes.Buffer{}
	runner := NewRunner(RunnerOpts{Logger: shared.NewLogger(io.Discard), Output: output})

	if err := run(runner, "--config", path, "setup", "config"); err != nil {
		t.Fatalf("setup config failed: %v", err)
	}
	tu.AssertFileExists(t, path)

	loaded, err := shared.LoadConfig(path)
	if err != nil {
		t.Fatalf("written config did not load: %v", err)
	}
	if loaded.Spotify.RedirectURI == "" {
		t.Error("expected redirect URI in written config")
	}
	if !strings.Contains(output.String(), path) {
		t.Errorf("expected confirmation with path, got %q", output.String())
	}

	if err := run(runner, "--config", path, "setup", "config"); err == nil {
		t.Error("expected error when config already exists")
	}
}
