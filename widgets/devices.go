package widgets

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
)

// Row is one line of the device list
type Row struct {
	Tag  string // "[IN] " / "[OUT]"
	Name string
	Open bool
}

// ListStyles controls how DeviceList draws rows
type ListStyles struct {
	Tag      lipgloss.Style
	Open     lipgloss.Style
	Closed   lipgloss.Style
	Selected lipgloss.Style
	Normal   lipgloss.Style

	Cursor     rune
	OpenMark   rune
	ClosedMark rune
}

// DeviceList renders rows into at most height lines of the given width,
// scrolling so the selected row stays visible. selected < 0 highlights nothing.
func DeviceList(rows []Row, selected, width, height int, st ListStyles) string {
	if height <= 0 || len(rows) == 0 {
		return ""
	}

	start, end := Window(len(rows), selected, height)
	lines := make([]string, 0, end-start)
	for i := start; i < end; i++ {
		r := rows[i]

		cursor := "  "
		if i == selected {
			cursor = string(st.Cursor) + " "
		}
		mark := st.Closed.Render(string(st.ClosedMark))
		if r.Open {
			mark = st.Open.Render(string(st.OpenMark))
		}

		name := r.Name
		if width > 0 {
			// cursor, tag, mark and separators take 10 cells
			name = ansi.Truncate(name, max(width-10, 1), "…")
		}

		line := cursor + st.Tag.Render(r.Tag) + " " + mark + " "
		if i == selected {
			line += st.Selected.Render(name)
		} else {
			line += st.Normal.Render(name)
		}
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n")
}

// Window returns the [start, end) slice of n rows that fits in height lines
// with selected inside it
func Window(n, selected, height int) (start, end int) {
	if n <= height {
		return 0, n
	}
	if selected < 0 {
		selected = 0
	}
	start = selected - height/2
	if start < 0 {
		start = 0
	}
	if start+height > n {
		start = n - height
	}
	return start, start + height
}
