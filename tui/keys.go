package tui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"midiscope/app"
)

// keyMap defines the monitor's key bindings
type keyMap struct {
	Up         key.Binding
	Down       key.Binding
	FocusLeft  key.Binding
	FocusRight key.Binding
	Toggle     key.Binding
	CloseAll   key.Binding
	Refresh    key.Binding
	Quit       key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "down"),
		),
		FocusLeft: key.NewBinding(
			key.WithKeys("left", "h"),
			key.WithHelp("←/h", "devices"),
		),
		FocusRight: key.NewBinding(
			key.WithKeys("right", "l"),
			key.WithHelp("→/l", "details"),
		),
		Toggle: key.NewBinding(
			key.WithKeys("enter", " "),
			key.WithHelp("enter", "connect/disconnect"),
		),
		CloseAll: key.NewBinding(
			key.WithKeys("x"),
			key.WithHelp("x", "close all"),
		),
		Refresh: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "refresh"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "esc", "ctrl+c"),
			key.WithHelp("q/esc", "quit"),
		),
	}
}

// ShortHelp returns keybindings to be shown in the mini help view
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.FocusLeft, k.FocusRight, k.Toggle, k.CloseAll, k.Refresh, k.Quit}
}

// FullHelp returns keybindings for the expanded help view
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.FocusLeft, k.FocusRight},
		{k.Toggle, k.CloseAll, k.Refresh, k.Quit},
	}
}

// intent maps a key press to an app intent
func (k keyMap) intent(msg tea.KeyMsg) (app.Intent, bool) {
	switch {
	case key.Matches(msg, k.Up):
		return app.Up, true
	case key.Matches(msg, k.Down):
		return app.Down, true
	case key.Matches(msg, k.FocusLeft):
		return app.FocusLeft, true
	case key.Matches(msg, k.FocusRight):
		return app.FocusRight, true
	case key.Matches(msg, k.Toggle):
		return app.Toggle, true
	case key.Matches(msg, k.CloseAll):
		return app.CloseAll, true
	case key.Matches(msg, k.Refresh):
		return app.Refresh, true
	case key.Matches(msg, k.Quit):
		return app.Quit, true
	}
	return 0, false
}
