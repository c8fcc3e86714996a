package widgets

import (
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"midiscope/eventlog"
)

var plain = ListStyles{Cursor: '>', OpenMark: '*', ClosedMark: '-'}

func TestDeviceListMarksCursorAndOpenState(t *testing.T) {
	rows := []Row{
		{Tag: "[IN] ", Name: "Beta", Open: true},
		{Tag: "[OUT]", Name: "Alpha"},
	}

	out := ansi.Strip(DeviceList(rows, 1, 0, 10, plain))
	lines := strings.Split(out, "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "  [IN]  * Beta", lines[0])
	assert.Equal(t, "> [OUT] - Alpha", lines[1])
}

func TestDeviceListTruncatesNames(t *testing.T) {
	rows := []Row{{Tag: "[IN] ", Name: "A very long device name indeed"}}
	out := ansi.Strip(DeviceList(rows, 0, 20, 5, plain))
	assert.LessOrEqual(t, lipgloss.Width(out), 20)
	assert.True(t, strings.HasSuffix(out, "…"))
}

func TestDeviceListScrollsToSelection(t *testing.T) {
	var rows []Row
	for _, n := range []string{"a", "b", "c", "d", "e", "f"} {
		rows = append(rows, Row{Tag: "[IN] ", Name: n})
	}

	out := ansi.Strip(DeviceList(rows, 5, 0, 3, plain))
	lines := strings.Split(out, "\n")
	require.Len(t, lines, 3)
	assert.True(t, strings.HasSuffix(lines[2], "f"))
	assert.True(t, strings.HasPrefix(lines[2], ">"))
}

func TestWindow(t *testing.T) {
	tests := []struct {
		name               string
		n, selected, height int
		wantStart, wantEnd int
	}{
		{"fits", 3, 1, 5, 0, 3},
		{"top", 10, 0, 4, 0, 4},
		{"middle", 10, 5, 4, 3, 7},
		{"bottom", 10, 9, 4, 6, 10},
		{"none selected", 10, -1, 4, 0, 4},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			start, end := Window(tt.n, tt.selected, tt.height)
			assert.Equal(t, tt.wantStart, start)
			assert.Equal(t, tt.wantEnd, end)
		})
	}
}

func TestLogLinesMarksErrors(t *testing.T) {
	at := time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)
	out := ansi.Strip(LogLines([]eventlog.Entry{
		{At: at, Kind: eventlog.Error, Text: "port gone"},
		{At: at, Kind: eventlog.Message, Text: "Beta: 90 40 7F"},
	}, 0, LogStyles{}))

	assert.Equal(t, "09:00:00.000 Error: port gone\n09:00:00.000 Beta: 90 40 7F", out)
}

func TestDetails(t *testing.T) {
	out := ansi.Strip(Details("Selected Device", []Field{
		{Label: "Name", Value: "Beta"},
		{Label: "Kind", Value: "Input"},
	}, lipgloss.NewStyle()))
	assert.Equal(t, "Selected Device\n\nName: Beta\nKind: Input", out)
}
