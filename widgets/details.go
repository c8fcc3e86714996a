package widgets

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"midiscope/eventlog"
)

// Field is a labelled value in the details pane
type Field struct {
	Label string
	Value string
}

// Details renders "Label: value" lines under a bold heading
func Details(heading string, fields []Field, label lipgloss.Style) string {
	lines := []string{lipgloss.NewStyle().Bold(true).Render(heading), ""}
	for _, f := range fields {
		lines = append(lines, label.Render(f.Label+": ")+f.Value)
	}
	return strings.Join(lines, "\n")
}

// LogStyles colours log lines by entry kind
type LogStyles struct {
	Time    lipgloss.Style
	Status  lipgloss.Style
	Error   lipgloss.Style
	Message lipgloss.Style
}

// LogLines renders entries one per line, in the order given, cut to width
func LogLines(entries []eventlog.Entry, width int, st LogStyles) string {
	lines := make([]string, 0, len(entries))
	for _, e := range entries {
		text := e.Text
		style := st.Message
		switch e.Kind {
		case eventlog.Status:
			style = st.Status
		case eventlog.Error:
			text = "Error: " + text
			style = st.Error
		}

		ts := e.At.Format("15:04:05.000") + " "
		if width > 0 {
			text = ansi.Truncate(text, max(width-len(ts), 1), "…")
		}
		lines = append(lines, st.Time.Render(ts)+style.Render(text))
	}
	return strings.Join(lines, "\n")
}
