package ui

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/desertthunder/tracklist/internal/models"
	"github.com/mattn/go-runewidth"
)

var (
	_ list.Item         = trackItem{}
	_ list.ItemDelegate = trackDelegate{}
)

// trackItem wraps a rendered [Row] to implement [list.Item].
type trackItem struct {
	row Row
}

func (i trackItem) FilterValue() string { return i.row.Song + " " + i.row.Artist }
func (i trackItem) Title() string       { return i.row.Song }
func (i trackItem) Description() string { return i.row.Subtitle() }

// trackItems renders tracks into list items, preserving order.
func trackItems(tracks []models.Track) []list.Item {
	items := make([]list.Item, len(tracks))
	for i, t := range tracks {
		items[i] = trackItem{row: RenderTrack(i, t)}
	}
	return items
}

// trackDelegate draws a two-line row: position and song, then artist/album with duration and preview glyph.
type trackDelegate struct{}

func (d trackDelegate) Height() int                             { return 2 }
func (d trackDelegate) Spacing() int                            { return 1 }
func (d trackDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd { return nil }

func (d trackDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	ti, ok := item.(trackItem)
	if !ok {
		return
	}
	row := ti.row

	width := m.Width() - 2
	if width <= 0 {
		width = 80
	}

	tail := fmt.Sprintf("  %s %s", row.Duration, row.PreviewGlyph())
	title := truncate(fmt.Sprintf("%d. %s", row.Index+1, row.Song), width)
	sub := truncate(row.Subtitle(), width-runewidth.StringWidth(tail))
	sub += strings.Repeat(" ", max(0, width-runewidth.StringWidth(sub)-runewidth.StringWidth(tail))) + tail

	style := lipgloss.NewStyle().PaddingLeft(2)
	if index == m.Index() {
		fmt.Fprint(w, styles.selected.Render(title+"\n"+styles.muted.Render(sub)))
		return
	}
	fmt.Fprint(w, style.Render(title+"\n"+styles.muted.Render(sub)))
}

// newTrackList builds the list model for tracks. The list's own quit keys are disabled.
func newTrackList(title string, tracks []models.Track, width, height int) list.Model {
	l := list.New(trackItems(tracks), trackDelegate{}, width, height)
	l.Title = title
	l.SetShowHelp(false)
	l.SetStatusBarItemName("track", "tracks")
	l.KeyMap.Quit.SetEnabled(false)
	l.KeyMap.ForceQuit.SetEnabled(false)
	return l
}
