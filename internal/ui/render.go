package ui

import (
	"strings"

	"github.com/desertthunder/tracklist/internal/models"
	"github.com/desertthunder/tracklist/internal/shared"
	"github.com/mattn/go-runewidth"
)

const ellipsis = "…"

// Row is the display form of one track in the list.
//
// Missing album metadata and previews leave the matching fields blank.
type Row struct {
	Index       int
	Key         string
	CoverURL    string
	Artist      string
	Song        string
	Album       string
	Duration    string
	ExternalURL string
	PreviewURL  string
	HasPreview  bool
}

// RenderTrack builds the [Row] for the track at index.
func RenderTrack(index int, track models.Track) Row {
	return Row{
		Index:       index,
		Key:         track.ID,
		CoverURL:    track.Album.CoverURL(),
		Artist:      oneLine(track.Album.ArtistName()),
		Song:        oneLine(track.Name),
		Album:       oneLine(track.Album.Name),
		Duration:    shared.MillisToMinutesAndSeconds(track.DurationMS),
		ExternalURL: track.ExternalURL,
		PreviewURL:  track.PreviewURL,
		HasPreview:  track.HasPreview(),
	}
}

// Subtitle joins artist and album, skipping whichever is blank.
func (r Row) Subtitle() string {
	parts := make([]string, 0, 2)
	for _, s := range []string{r.Artist, r.Album} {
		if s != "" {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, " • ")
}

// PreviewGlyph marks whether the row can be previewed.
func (r Row) PreviewGlyph() string {
	if r.HasPreview {
		return "▶"
	}
	return "·"
}

func oneLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// truncate shortens s to at most width terminal cells, ending in an ellipsis when cut.
func truncate(s string, width int) string {
	if width <= 0 {
		return ""
	}
	return runewidth.Truncate(s, width, ellipsis)
}
