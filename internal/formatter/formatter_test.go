package formatter

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/desertthunder/tracklist/internal/models"
	"github.com/desertthunder/tracklist/internal/shared"
	th "github.com/desertthunder/tracklist/internal/testing"
)

func TestExporters(t *testing.T) {
	tracks := th.SampleTracks()

	t.Run("ExportToCSV", func(t *testing.T) {
		data, err := ExportToCSV(tracks)
		if err != nil {
			t.Fatalf("ExportToCSV failed: %v", err)
		}

		records, err := csv.NewReader(strings.NewReader(string(data))).ReadAll()
		if err != nil {
			t.Fatalf("CSV output did not parse: %v", err)
		}
		if len(records) != len(tracks)+1 {
			t.Fatalf("expected %d records, got %d", len(tracks)+1, len(records))
		}
		if strings.Join(records[0], ",") != "ID,Title,Artist,Album,Duration,URL,Preview" {
			t.Errorf("CSV missing headers, got: %v", records[0])
		}

		first := records[1]
		if first[0] != "t1" || first[2] != "Radiohead" || first[4] != "251000" {
			t.Errorf("unexpected first record %v", first)
		}
		if records[3][2] != "" || records[3][3] != "" {
			t.Errorf("expected blank artist and album for bare track, got %v", records[3])
		}
	})

	t.Run("ExportToMarkdown", func(t *testing.T) {
		data, err := ExportToMarkdown("My Top Tracks", tracks)
		if err != nil {
			t.Fatalf("ExportToMarkdown failed: %v", err)
		}
		output := string(data)

		for _, want := range []string{
			"# My Top Tracks",
			"![Cover](https://i.scdn.co/image/kid-a)",
			"**Tracks**: 3",
			"1. Radiohead - [Everything In Its Right Place](https://open.spotify.com/track/t1) (Kid A) [4:11]",
			"[preview](https://p.scdn.co/mp3-preview/t1)",
			"3. [Untitled](https://open.spotify.com/track/t3) [1:01]",
		} {
			if !strings.Contains(output, want) {
				t.Errorf("Markdown missing %q, got:\n%s", want, output)
			}
		}
		if strings.Contains(output, "2. Aphex Twin - [Windowlicker](https://open.spotify.com/track/t2) (Windowlicker) [6:07] ·") {
			t.Error("track without preview must not link one")
		}
	})

	t.Run("ExportToMarkdown without tracks", func(t *testing.T) {
		data, err := ExportToMarkdown("Album Tracks", nil)
		if err != nil {
			t.Fatalf("ExportToMarkdown failed: %v", err)
		}
		if strings.Contains(string(data), "![Cover]") {
			t.Error("expected no cover for empty list")
		}
	})

	t.Run("ExportToText", func(t *testing.T) {
		data, err := ExportToText("My Top Tracks", tracks)
		if err != nil {
			t.Fatalf("ExportToText failed: %v", err)
		}
		output := string(data)

		if !strings.HasPrefix(output, "My Top Tracks\nTracks: 3\n") {
			t.Errorf("unexpected header: %s", output)
		}
		if !strings.Contains(output, "2. Aphex Twin - Windowlicker (6:07)") {
			t.Errorf("missing second track, got: %s", output)
		}
		if !strings.Contains(output, "3. Unknown artist - Untitled (1:01)") {
			t.Errorf("missing bare track, got: %s", output)
		}
	})

	t.Run("ExportToJSON", func(t *testing.T) {
		compact, err := ExportToJSON(tracks, false)
		if err != nil {
			t.Fatalf("ExportToJSON failed: %v", err)
		}
		pretty, err := ExportToJSON(tracks, true)
		if err != nil {
			t.Fatalf("ExportToJSON failed: %v", err)
		}
		if len(pretty) <= len(compact) || !strings.Contains(string(pretty), "\n  ") {
			t.Error("expected indented output when pretty")
		}

		var decoded []models.Track
		if err := json.Unmarshal(compact, &decoded); err != nil {
			t.Fatalf("JSON output did not parse: %v", err)
		}
		if len(decoded) != 3 || decoded[0].ID != "t1" || decoded[0].Album.ArtistName() != "Radiohead" {
			t.Errorf("unexpected decoded tracks %+v", decoded)
		}
	})

	t.Run("ExportToJSON empty", func(t *testing.T) {
		data, err := ExportToJSON(nil, false)
		if err != nil {
			t.Fatalf("ExportToJSON failed: %v", err)
		}
		if strings.TrimSpace(string(data)) != "[]" {
			t.Errorf("expected empty array, got %s", data)
		}
	})
}

func TestParseFormat(t *testing.T) {
	tt := []struct {
		in      string
		want    Format
		wantErr bool
	}{
		{in: "", want: Text},
		{in: "text", want: Text},
		{in: "MD", want: Markdown},
		{in: "markdown", want: Markdown},
		{in: "csv", want: CSV},
		{in: " json ", want: JSON},
		{in: "yaml", wantErr: true},
	}

	for _, tc := range tt {
		t.Run(tc.in, func(t *testing.T) {
			got, err := ParseFormat(tc.in)
			if tc.wantErr {
				if !errors.Is(err, shared.ErrInvalidArgument) {
					t.Errorf("expected ErrInvalidArgument, got %v", err)
				}
				return
			}
			if err != nil || got != tc.want {
				t.Errorf("ParseFormat(%q) = %q, %v", tc.in, got, err)
			}
		})
	}
}

func TestExport(t *testing.T) {
	for _, f := range Formats {
		t.Run(string(f), func(t *testing.T) {
			data, err := Export(f, "My Top Tracks", th.SampleTracks(), false)
			if err != nil {
				t.Fatalf("Export failed: %v", err)
			}
			if !strings.Contains(string(data), "Windowlicker") {
				t.Errorf("expected track in %s output", f)
			}
		})
	}

	if _, err := Export(Format("xml"), "x", nil, false); !errors.Is(err, shared.ErrInvalidArgument) {
		t.Errorf("expected ErrInvalidArgument, got %v", err)
	}
}

func TestWriteExport(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "tracks.md")

	if err := WriteExport(path, []byte("# Tracks\n")); err != nil {
		t.Fatalf("WriteExport failed: %v", err)
	}
	th.AssertFileExists(t, path)
	if got := th.MustReadFile(t, path); got != "# Tracks\n" {
		t.Errorf("unexpected file contents %q", got)
	}

	if err := WriteExport("", nil); !errors.Is(err, shared.ErrMissingArgument) {
		t.Errorf("expected ErrMissingArgument, got %v", err)
	}
}
