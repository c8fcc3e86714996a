package tui

import (
	"fmt"
	"strconv"

	"github.com/charmbracelet/lipgloss"

	"midiscope/app"
	"midiscope/state"
	"midiscope/widgets"
)

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	snap := m.App.Snapshot(m.height)

	footer := m.help.View(m.keys)
	bodyHeight := m.height - lipgloss.Height(footer)
	if bodyHeight < 6 {
		bodyHeight = 6
	}

	leftWidth := m.width * 45 / 100
	rightWidth := m.width - leftWidth

	left := m.pane(" MIDI Devices ", m.deviceList(snap, leftWidth-2, bodyHeight-3), leftWidth, bodyHeight, snap.Focus == state.Left)
	right := m.pane(" Details ", m.details(snap, rightWidth-4, bodyHeight-3), rightWidth, bodyHeight, snap.Focus == state.Right)

	return lipgloss.JoinVertical(lipgloss.Left,
		lipgloss.JoinHorizontal(lipgloss.Top, left, right),
		footer,
	)
}

// pane draws a bordered box of the given outer size with a title line
func (m Model) pane(title, body string, width, height int, focused bool) string {
	border := m.Theme.Muted()
	if focused {
		border = m.Theme.Accent()
	}
	titleStyle := lipgloss.NewStyle().Foreground(border).Bold(focused)

	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(border).
		Width(width - 2).
		Height(height - 2).
		MaxHeight(height).
		Render(titleStyle.Render(title) + "\n" + body)
}

func (m Model) deviceList(snap app.Snapshot, width, height int) string {
	if len(snap.Devices) == 0 {
		return lipgloss.NewStyle().Foreground(m.Theme.Muted()).Render("  (none)")
	}

	rows := make([]widgets.Row, len(snap.Devices))
	for i, d := range snap.Devices {
		rows[i] = widgets.Row{Tag: d.Kind.Tag(), Name: d.Name, Open: d.Open}
	}

	styles := widgets.ListStyles{
		Tag:        lipgloss.NewStyle().Foreground(m.Theme.Tag()),
		Open:       lipgloss.NewStyle().Foreground(m.Theme.Success()),
		Closed:     lipgloss.NewStyle().Foreground(m.Theme.Muted()),
		Selected:   lipgloss.NewStyle().Foreground(m.Theme.Cursor()).Bold(true),
		Normal:     lipgloss.NewStyle().Foreground(m.Theme.FG()),
		Cursor:     m.Theme.Symbols.Cursor,
		OpenMark:   m.Theme.Symbols.Open,
		ClosedMark: m.Theme.Symbols.Closed,
	}
	return widgets.DeviceList(rows, snap.Selected, width, height, styles)
}

func (m Model) details(snap app.Snapshot, width, height int) string {
	label := lipgloss.NewStyle().Foreground(m.Theme.Tag())

	var top string
	if dev, ok := snap.SelectedView(); ok {
		status := "closed"
		if dev.Open {
			status = "open"
		}
		top = widgets.Details("Selected Device", []widgets.Field{
			{Label: "Name", Value: dev.Name},
			{Label: "Kind", Value: dev.Kind.String()},
			{Label: "Index", Value: strconv.Itoa(dev.Index)},
			{Label: "State", Value: status},
		}, label)
	} else {
		top = "No devices detected.\nPress r to refresh."
	}

	summary := label.Render(fmt.Sprintf("Open: %d in, %d out", snap.Inputs, snap.Outputs))
	if snap.Dropped > 0 {
		summary += lipgloss.NewStyle().Foreground(m.Theme.Warning()).Render(fmt.Sprintf("  dropped: %d", snap.Dropped))
	}
	top += "\n\n" + summary + "\n"

	rest := height - lipgloss.Height(top) - 1
	if rest <= 0 || len(snap.Log) == 0 {
		return top
	}
	entries := snap.Log
	if len(entries) > rest {
		entries = entries[:rest]
	}

	styles := widgets.LogStyles{
		Time:    lipgloss.NewStyle().Foreground(m.Theme.Muted()),
		Status:  lipgloss.NewStyle().Foreground(m.Theme.FG()),
		Error:   lipgloss.NewStyle().Foreground(m.Theme.Error()),
		Message: lipgloss.NewStyle().Foreground(m.Theme.Accent()),
	}
	return top + "\n" + widgets.LogLines(entries, width, styles)
}
