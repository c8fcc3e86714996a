package app

import (
	"time"

	"midiscope/eventlog"
	"midiscope/midi"
	"midiscope/state"
)

// DeviceView is a device row with its connection state
type DeviceView struct {
	midi.DeviceItem
	Open bool
}

// Snapshot is the read-only view handed to the presentation layer
type Snapshot struct {
	Devices     []DeviceView
	Selected    int // -1: nothing selected
	Focus       state.Focus
	Log         []eventlog.Entry // newest first
	Inputs      int              // open input connections
	Outputs     int              // open output connections
	Dropped     uint64
	LastRefresh time.Time
	Phase       Phase
}

// Snapshot captures the current state with at most logLimit log entries
// (all when logLimit <= 0)
func (a *App) Snapshot(logLimit int) Snapshot {
	devices := make([]DeviceView, len(a.devices))
	for i, d := range a.devices {
		devices[i] = DeviceView{DeviceItem: d, Open: a.conns.IsOpen(d.Identity)}
	}
	ins, outs := a.conns.Counts()

	return Snapshot{
		Devices:     devices,
		Selected:    a.selected,
		Focus:       a.focus,
		Log:         a.log.Recent(logLimit),
		Inputs:      ins,
		Outputs:     outs,
		Dropped:     a.pipe.Dropped(),
		LastRefresh: a.lastRefresh,
		Phase:       a.phase,
	}
}

// SelectedView returns the selected row, if any
func (s Snapshot) SelectedView() (DeviceView, bool) {
	if s.Selected < 0 || s.Selected >= len(s.Devices) {
		return DeviceView{}, false
	}
	return s.Devices[s.Selected], true
}
