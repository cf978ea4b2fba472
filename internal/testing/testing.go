// package testing contains shared testing utilities
package testing

import (
	"context"
	"errors"
	"io"
	"os"
	"sync"
	"testing"

	"github.com/desertthunder/tracklist/internal/models"
)

// MockTrackSource is a test double for [services.TrackSource]
//
// When Block is set, fetches wait for the context to end and return its error.
type MockTrackSource struct {
	Tracks []models.Track
	Err    error
	Block  bool

	mu          sync.Mutex
	topCalls    int
	albumCalls  []string
	lastToken   string
	lastAuthURL string
}

func (m *MockTrackSource) AuthURL(state string) string {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lastAuthURL = "https://accounts.example.com/authorize?response_type=token&state=" + state
	return m.lastAuthURL
}

func (m *MockTrackSource) TopTracks(ctx context.Context, token string) ([]models.Track, error) {
	m.mu.Lock()
	m.topCalls++
	m.lastToken = token
	m.mu.Unlock()
	return m.result(ctx)
}

func (m *MockTrackSource) AlbumTracks(ctx context.Context, token, albumID string) ([]models.Track, error) {
	m.mu.Lock()
	m.albumCalls = append(m.albumCalls, albumID)
	m.lastToken = token
	m.mu.Unlock()
	return m.result(ctx)
}

func (m *MockTrackSource) Name() string { return "mock" }

func (m *MockTrackSource) result(ctx context.Context) ([]models.Track, error) {
	if m.Block {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	if m.Err != nil {
		return nil, m.Err
	}
	return m.Tracks, nil
}

// TopCalls returns how many times TopTracks was called.
func (m *MockTrackSource) TopCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.topCalls
}

// AlbumCalls returns the album IDs AlbumTracks was called with.
func (m *MockTrackSource) AlbumCalls() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.albumCalls...)
}

// LastToken returns the token passed to the most recent fetch.
func (m *MockTrackSource) LastToken() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.lastToken
}

// FakeOpener records the URLs it is asked to open in place of a browser.
type FakeOpener struct {
	Err error

	mu   sync.Mutex
	urls []string
}

// Open satisfies [shared.Opener].
func (f *FakeOpener) Open(url string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.urls = append(f.urls, url)
	return f.Err
}

// URLs returns every URL opened so far.
func (f *FakeOpener) URLs() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.urls...)
}

// Last returns the most recently opened URL or "".
func (f *FakeOpener) Last() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.urls) == 0 {
		return ""
	}
	return f.urls[len(f.urls)-1]
}

// SampleTracks returns a small fixture covering a full track, one without a preview and one with no album metadata.
func SampleTracks() []models.Track {
	return []models.Track{
		{
			ID:          "t1",
			Name:        "Everything In Its Right Place",
			DurationMS:  251000,
			ExternalURL: "https://open.spotify.com/track/t1",
			PreviewURL:  "https://p.scdn.co/mp3-preview/t1",
			Album: models.Album{
				Name:    "Kid A",
				Images:  []models.Image{{URL: "https://i.scdn.co/image/kid-a", Width: 640, Height: 640}},
				Artists: []models.Artist{{Name: "Radiohead"}},
			},
		},
		{
			ID:          "t2",
			Name:        "Windowlicker",
			DurationMS:  367000,
			ExternalURL: "https://open.spotify.com/track/t2",
			Album: models.Album{
				Name:    "Windowlicker",
				Images:  []models.Image{{URL: "https://i.scdn.co/image/wl"}},
				Artists: []models.Artist{{Name: "Aphex Twin"}},
			},
		},
		{
			ID:          "t3",
			Name:        "Untitled",
			DurationMS:  61000,
			ExternalURL: "https://open.spotify.com/track/t3",
			PreviewURL:  "https://p.scdn.co/mp3-preview/t3",
		},
	}
}

// FWriter always returns an error on Write
type FWriter struct{}

func (f *FWriter) Write(p []byte) (n int, err error) {
	return 0, errors.New("write failed")
}

// LimitedWriter fails after a certain number of writes
type LimitedWriter struct {
	maxWrites int
	written   int
	target    io.Writer
}

func (l *LimitedWriter) Write(p []byte) (n int, err error) {
	if l.written >= l.maxWrites {
		return 0, errors.New("write limit exceeded")
	}
	l.written++
	return l.target.Write(p)
}

func NewLimitedWriter(maxWrites, written int, target io.Writer) LimitedWriter {
	return LimitedWriter{maxWrites: maxWrites, written: written, target: target}
}

func AssertFileExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Errorf("File does not exist: %s", path)
	}
}

func MustReadFile(t *testing.T, path string) string {
	t.Helper()
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read file %s: %v", path, err)
	}
	return string(content)
}
