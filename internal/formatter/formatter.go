// package formatter renders track lists as plain text, Markdown, CSV or JSON
package formatter

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/desertthunder/tracklist/internal/models"
	"github.com/desertthunder/tracklist/internal/shared"
)

// Format names an output format for [Export].
type Format string

const (
	Text     Format = "text"
	Markdown Format = "markdown"
	CSV      Format = "csv"
	JSON     Format = "json"
)

// Formats lists every supported format.
var Formats = []Format{Text, Markdown, CSV, JSON}

// ParseFormat resolves a format name, accepting "md" for Markdown.
func ParseFormat(name string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(name))); f {
	case "", Text:
		return Text, nil
	case "md", Markdown:
		return Markdown, nil
	case CSV, JSON:
		return f, nil
	default:
		return "", fmt.Errorf("%w: unknown format %q", shared.ErrInvalidArgument, name)
	}
}

// Export renders tracks in the given format. title heads the text and Markdown output.
func Export(format Format, title string, tracks []models.Track, pretty bool) ([]byte, error) {
	switch format {
	case Text:
		return ExportToText(title, tracks)
	case Markdown:
		return ExportToMarkdown(title, tracks)
	case CSV:
		return ExportToCSV(tracks)
	case JSON:
		return ExportToJSON(tracks, pretty)
	default:
		return nil, fmt.Errorf("%w: unknown format %q", shared.ErrInvalidArgument, format)
	}
}

// ExportToCSV converts tracks to CSV with columns: ID, Title, Artist, Album, Duration, URL, Preview
func ExportToCSV(tracks []models.Track) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	headers := []string{"ID", "Title", "Artist", "Album", "Duration", "URL", "Preview"}
	if err := writer.Write(headers); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for _, track := range tracks {
		record := []string{
			track.ID,
			track.Name,
			track.Album.ArtistName(),
			track.Album.Name,
			strconv.Itoa(max(0, track.DurationMS)),
			track.ExternalURL,
			track.PreviewURL,
		}
		if err := writer.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}

	return buf.Bytes(), nil
}

// ExportToMarkdown converts tracks to a Markdown list, led by the first track's cover when it has one
func ExportToMarkdown(title string, tracks []models.Track) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteString(fmt.Sprintf("# %s\n\n", title))

	if len(tracks) > 0 {
		if cover := tracks[0].Album.CoverURL(); cover != "" {
			buf.WriteString(fmt.Sprintf("![Cover](%s)\n\n", cover))
		}
	}

	buf.WriteString(fmt.Sprintf("**Tracks**: %d\n\n", len(tracks)))

	for i, track := range tracks {
		name := track.Name
		if track.ExternalURL != "" {
			name = fmt.Sprintf("[%s](%s)", track.Name, track.ExternalURL)
		}

		line := name
		if artist := track.Album.ArtistName(); artist != "" {
			line = fmt.Sprintf("%s - %s", artist, name)
		}
		if track.Album.Name != "" {
			line = fmt.Sprintf("%s (%s)", line, track.Album.Name)
		}

		buf.WriteString(fmt.Sprintf("%d. %s [%s]", i+1, line, shared.MillisToMinutesAndSeconds(track.DurationMS)))
		if track.HasPreview() {
			buf.WriteString(fmt.Sprintf(" · [preview](%s)", track.PreviewURL))
		}
		buf.WriteString("\n")
	}

	return buf.Bytes(), nil
}

// ExportToText converts tracks to plain text
func ExportToText(title string, tracks []models.Track) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteString(fmt.Sprintf("%s\n", title))
	buf.WriteString(fmt.Sprintf("Tracks: %d\n\n", len(tracks)))

	for i, track := range tracks {
		artist := track.Album.ArtistName()
		if artist == "" {
			artist = "Unknown artist"
		}
		buf.WriteString(fmt.Sprintf("%d. %s - %s (%s)\n", i+1, artist, track.Name, shared.MillisToMinutesAndSeconds(track.DurationMS)))
	}

	return buf.Bytes(), nil
}

// ExportToJSON encodes tracks as a JSON array, indented when pretty is set
func ExportToJSON(tracks []models.Track, pretty bool) ([]byte, error) {
	if tracks == nil {
		tracks = []models.Track{}
	}

	var (
		data []byte
		err  error
	)
	if pretty {
		data, err = json.MarshalIndent(tracks, "", "  ")
	} else {
		data, err = json.Marshal(tracks)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to encode JSON: %w", err)
	}
	return append(data, '\n'), nil
}

// WriteExport writes rendered output to path, creating parent directories as needed.
func WriteExport(path string, data []byte) error {
	if path == "" {
		return fmt.Errorf("%w: output path", shared.ErrMissingArgument)
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}
