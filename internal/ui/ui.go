package ui

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/desertthunder/tracklist/internal/models"
	"github.com/desertthunder/tracklist/internal/session"
	"github.com/desertthunder/tracklist/internal/shared"
)

const (
	connectLabel = "CONNECT WITH SPOTIFY"
	emptyMessage = "Couldn't load tracks."
)

// Model represents the TUI application state.
type Model struct {
	ctx     context.Context
	session *session.Session
	open    shared.Opener
	logger  *log.Logger
	nav     *Navigator
	list    list.Model
	spinner spinner.Model
	help    help.Model
	keys    keyMap
	width   int
	height  int
	authURL string
	status  string
}

// NewModel creates a new TUI model over s. Pages are opened with open.
func NewModel(ctx context.Context, s *session.Session, open shared.Opener, logger *log.Logger) *Model {
	if open == nil {
		open = shared.OpenBrowser
	}
	if logger == nil {
		logger = shared.NewLogger(nil)
	}

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = styles.ok

	return &Model{
		ctx:     ctx,
		session: s,
		open:    open,
		logger:  shared.WithLogger(logger, "component", "ui"),
		nav:     NewNavigator(),
		spinner: sp,
		help:    help.New(),
		keys:    newKeyMap(),
		width:   80,
		height:  24,
	}
}

// Init starts the spinner; nothing is fetched until a redirect arrives.
func (m *Model) Init() tea.Cmd {
	return m.spinner.Tick
}

// Route returns the screen currently on top of the navigation stack.
func (m *Model) Route() Route {
	return m.nav.Current()
}

// Update handles incoming messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		if m.session.State() == session.Ready {
			m.list.SetSize(m.listSize())
		}
		return m, nil

	case spinner.TickMsg:
		if m.session.State() != session.Fetching {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		return m.handleKeys(msg)

	case Msg:
		return m.handleMsg(msg)
	}

	return m.updateList(msg)
}

func (m *Model) handleMsg(msg Msg) (tea.Model, tea.Cmd) {
	switch msg.kind {
	case MsgRedirect:
		u, _ := msg.data.(*url.URL)
		if err := m.session.HandleRedirect(u); err != nil {
			if errors.Is(err, shared.ErrAuthDenied) {
				m.logger.Info("authorization cancelled", "error", err)
				m.status = ""
			} else {
				m.logger.Warn("rejected redirect", "error", err)
			}
			return m, nil
		}
		m.status = ""
		return m, tea.Batch(m.fetch(m.session.Token()), m.spinner.Tick)

	case MsgTracksFetched:
		data := msg.data.(struct {
			tracks []models.Track
			err    error
		})
		m.session.Complete(data.tracks, data.err)
		if m.session.State() == session.Ready {
			w, h := m.listSize()
			m.list = newTrackList(m.header(), m.session.Tracks(), w, h)
		}
		return m, nil

	case MsgBrowserOpened:
		data := msg.data.(struct {
			url string
			err error
		})
		if data.err != nil {
			m.logger.Warn("failed to open browser", "url", data.url, "error", data.err)
			m.status = "Couldn't open a browser. Visit the link shown above."
		}
		return m, nil
	}
	return m, nil
}

func (m *Model) handleKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return m, tea.Quit
	}

	if m.filtering() {
		return m.updateList(msg)
	}

	if key.Matches(msg, m.keys.quit) {
		return m, tea.Quit
	}

	if route := m.nav.Current(); route.Name != Home {
		switch {
		case key.Matches(msg, m.keys.back):
			m.nav.Pop()
			m.status = ""
		case key.Matches(msg, m.keys.reopen):
			return m, m.openURL(route.URL())
		}
		return m, nil
	}

	switch m.session.State() {
	case session.Unauthenticated:
		if key.Matches(msg, m.keys.connect) {
			return m, m.connect()
		}
		return m, nil
	case session.Ready:
		return m.handleListKeys(msg)
	default:
		return m, nil
	}
}

// handleListKeys checks the preview key before the primary activation so a preview never also opens the detail screen.
func (m *Model) handleListKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.preview):
		row, ok := m.selectedRow()
		if !ok {
			return m, nil
		}
		if !row.HasPreview {
			m.status = fmt.Sprintf("No preview available for %s.", row.Song)
			return m, nil
		}
		return m, m.push(SongPreview, row, ParamPreviewURL, row.PreviewURL)

	case key.Matches(msg, m.keys.open):
		row, ok := m.selectedRow()
		if !ok {
			return m, nil
		}
		return m, m.push(SongDetail, row, ParamExternalURL, row.ExternalURL)
	}

	m.status = ""
	return m.updateList(msg)
}

func (m *Model) push(name RouteName, row Row, param, target string) tea.Cmd {
	m.status = ""
	m.nav.Push(Route{Name: name, Params: map[string]string{param: target, ParamTitle: row.Song, ParamCoverURL: row.CoverURL}})
	return m.openURL(target)
}

func (m *Model) connect() tea.Cmd {
	authURL, err := m.session.StartAuthentication()
	m.authURL = authURL
	if err != nil {
		m.logger.Warn("failed to start authorization", "error", err)
		if authURL != "" {
			m.status = "Couldn't open a browser. Visit the link below to connect."
		} else {
			m.status = "Couldn't start authorization."
		}
		return nil
	}
	m.status = "Waiting for authorization in your browser…"
	return nil
}

func (m *Model) selectedRow() (Row, bool) {
	item, ok := m.list.SelectedItem().(trackItem)
	if !ok {
		return Row{}, false
	}
	return item.row, true
}

func (m *Model) filtering() bool {
	return m.nav.Current().Name == Home &&
		m.session.State() == session.Ready &&
		m.list.FilterState() == list.Filtering
}

func (m *Model) updateList(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.session.State() != session.Ready {
		return m, nil
	}
	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

// fetch runs the session's single request off the update loop.
func (m *Model) fetch(token string) tea.Cmd {
	return func() tea.Msg {
		tracks, err := m.session.Fetch(m.ctx, token)
		return tracksFetchedMsg(tracks, err)
	}
}

func (m *Model) openURL(target string) tea.Cmd {
	if target == "" {
		return nil
	}
	open := m.open
	return func() tea.Msg {
		return browserOpenedMsg(target, open(target))
	}
}

func (m *Model) listSize() (int, int) {
	return max(0, m.width-4), max(0, m.height-6)
}

func (m *Model) header() string {
	if m.session.Mode() == session.AlbumTracks {
		return "Album Tracks"
	}
	return "My Top Tracks"
}

// View renders the screen on top of the navigation stack.
func (m *Model) View() string {
	switch route := m.nav.Current(); route.Name {
	case SongDetail:
		return m.renderPage(route, "Song")
	case SongPreview:
		return m.renderPage(route, "Preview")
	default:
		return m.renderRoot()
	}
}

// renderRoot branches on session state only.
func (m *Model) renderRoot() string {
	switch m.session.State() {
	case session.Unauthenticated:
		return m.renderConnect()
	case session.Fetching:
		return fmt.Sprintf("%s\n%s Loading tracks…\n", styles.title.Render(m.header()), m.spinner.View())
	case session.Empty:
		return fmt.Sprintf("%s\n%s\n\n%s", styles.title.Render(m.header()), styles.err.Render(emptyMessage), m.help.ShortHelpView([]key.Binding{m.keys.quit}))
	default:
		return m.renderTrackList()
	}
}

func (m *Model) renderConnect() string {
	var b strings.Builder
	b.WriteString(styles.title.Render("tracklist"))
	b.WriteString("\n")
	b.WriteString(styles.button.Render(connectLabel))
	b.WriteString("\n\n")

	if m.authURL != "" {
		b.WriteString(styles.muted.Render(m.authURL))
		b.WriteString("\n\n")
	}
	if m.status != "" {
		b.WriteString(styles.warn.Render(m.status))
		b.WriteString("\n\n")
	}

	b.WriteString(m.help.ShortHelpView([]key.Binding{m.keys.connect, m.keys.quit}))
	return b.String()
}

func (m *Model) renderTrackList() string {
	helpView := m.help.ShortHelpView([]key.Binding{m.keys.open, m.keys.preview, m.keys.filter, m.keys.quit})
	if m.status != "" {
		return fmt.Sprintf("%s\n%s\n\n%s", m.list.View(), styles.warn.Render(m.status), helpView)
	}
	return fmt.Sprintf("%s\n\n%s", m.list.View(), helpView)
}

func (m *Model) renderPage(route Route, label string) string {
	title := styles.title.Render(fmt.Sprintf("%s: %s", label, route.Params[ParamTitle]))
	link := truncate(route.URL(), max(1, m.width-2))
	if cover := route.Params[ParamCoverURL]; cover != "" {
		link += "\n" + styles.muted.Render("Cover: "+truncate(cover, max(1, m.width-9)))
	}
	body := styles.help.Render("Opened in your browser.")
	if m.status != "" {
		body = styles.warn.Render(m.status)
	}

	helpView := m.help.ShortHelpView([]key.Binding{m.keys.reopen, m.keys.back, m.keys.quit})
	return fmt.Sprintf("%s\n%s\n\n%s\n\n%s", title, link, body, helpView)
}
