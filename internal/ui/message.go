package ui

import (
	"net/url"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/tracklist/internal/models"
)

// MsgKind enumerates all message types in the application.
type MsgKind int

// Msg represents all possible messages in the TUI (Elm-style message union).
type Msg struct {
	kind MsgKind
	data any
}

var (
	_ tea.Msg = Msg{}
)

const (
	MsgRedirect MsgKind = iota
	MsgTracksFetched
	MsgBrowserOpened
)

// RedirectMsg is the constructor for [MsgRedirect].
//
// The redirect listener hands every callback URL to the program with it via [tea.Program.Send].
func RedirectMsg(u *url.URL) tea.Msg {
	return Msg{kind: MsgRedirect, data: u}
}

// tracksFetchedMsg is the constructor for [MsgTracksFetched]
func tracksFetchedMsg(tracks []models.Track, err error) Msg {
	return Msg{
		kind: MsgTracksFetched,
		data: struct {
			tracks []models.Track
			err    error
		}{tracks, err},
	}
}

// browserOpenedMsg is the constructor for [MsgBrowserOpened]
func browserOpenedMsg(url string, err error) Msg {
	return Msg{
		kind: MsgBrowserOpened,
		data: struct {
			url string
			err error
		}{url, err},
	}
}
