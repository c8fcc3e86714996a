package tui

import (
	"time"

	"github.com/charmbracelet/bubbles/help"
	tea "github.com/charmbracelet/bubbletea"

	"midiscope/app"
	"midiscope/theme"
)

// Model hosts the control loop inside a Bubble Tea program. A tick message
// every interval drives App.Tick; key presses become App intents.
type Model struct {
	App   *app.App
	Theme *theme.Theme

	keys     keyMap
	help     help.Model
	interval time.Duration
	width    int
	height   int
	quitting bool
}

type tickMsg time.Time

func NewModel(a *app.App, th *theme.Theme, interval time.Duration) Model {
	if interval <= 0 {
		interval = 100 * time.Millisecond
	}
	h := help.New()
	h.ShortSeparator = "  "
	return Model{
		App:      a,
		Theme:    th,
		keys:     defaultKeyMap(),
		help:     h,
		interval: interval,
		width:    100,
		height:   30,
	}
}

func tick(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m Model) Init() tea.Cmd {
	return tick(m.interval)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.help.Width = msg.Width

	case tickMsg:
		m.App.Tick(time.Time(msg))
		return m, tick(m.interval)

	case tea.KeyMsg:
		intent, ok := m.keys.intent(msg)
		if !ok {
			return m, nil
		}
		m.App.Apply(intent)
		if m.App.Phase() == app.Terminated {
			m.quitting = true
			return m, tea.Quit
		}
	}

	return m, nil
}
