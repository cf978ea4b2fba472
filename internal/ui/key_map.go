package ui

import "github.com/charmbracelet/bubbles/key"

// keyMap defines the [key.Binding] mapping for the TUI.
type keyMap struct {
	up      key.Binding
	down    key.Binding
	filter  key.Binding
	connect key.Binding
	open    key.Binding
	preview key.Binding
	reopen  key.Binding
	back    key.Binding
	quit    key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		up:      key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		down:    key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		filter:  key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "filter")),
		connect: key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "connect")),
		open:    key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "open")),
		preview: key.NewBinding(key.WithKeys("p"), key.WithHelp("p", "preview")),
		reopen:  key.NewBinding(key.WithKeys("o"), key.WithHelp("o", "open in browser")),
		back:    key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "back")),
		quit:    key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.up, k.down, k.filter},
		{k.open, k.preview, k.reopen},
		{k.back, k.quit},
	}
}
