// Package app is the control loop of the monitor. It owns the device list,
// the selection cursor, the connection manager, the ingestion pipeline and
// the log, and is driven one call at a time by the presentation layer:
// Tick on every timer beat, Apply for every user intent.
package app

import (
	"time"

	"go.uber.org/zap"

	"midiscope/debug"
	"midiscope/eventlog"
	"midiscope/midi"
	"midiscope/state"
)

// Phase is the lifecycle state of the loop
type Phase int

const (
	Running Phase = iota
	ShuttingDown
	Terminated
)

func (p Phase) String() string {
	switch p {
	case Running:
		return "running"
	case ShuttingDown:
		return "shutting down"
	default:
		return "terminated"
	}
}

// Intent is a user command produced by the presentation layer
type Intent int

const (
	Up Intent = iota
	Down
	FocusLeft
	FocusRight
	Toggle
	CloseAll
	Refresh
	Quit
)

// Options tune an App. Zero values pick the defaults.
type Options struct {
	Label           string // client label passed to the driver on open
	RefreshInterval time.Duration
	LogCapacity     int
	QueueCapacity   int
	Store           *state.Store // nil disables persistence
	Now             func() time.Time
}

func (o Options) withDefaults() Options {
	if o.Label == "" {
		o.Label = "midiscope"
	}
	if o.RefreshInterval <= 0 {
		o.RefreshInterval = 5 * time.Second
	}
	if o.LogCapacity <= 0 {
		o.LogCapacity = eventlog.DefaultCapacity
	}
	if o.QueueCapacity <= 0 {
		o.QueueCapacity = midi.DefaultQueueCapacity
	}
	if o.Store == nil {
		o.Store = state.NewStore("")
	}
	if o.Now == nil {
		o.Now = time.Now
	}
	return o
}

// App is the aggregate state of a running monitor. All methods must be
// called from the one goroutine that drives the loop.
type App struct {
	drv  midi.Driver
	opts Options

	devices  []midi.DeviceItem
	selected int // -1 when the list is empty
	focus    state.Focus

	conns *midi.Manager
	pipe  *midi.Pipeline
	log   *eventlog.Log

	lastRefresh time.Time
	phase       Phase
}

// New runs the first discovery and restores the saved session. A
// *midi.DiscoveryError here means there is no usable MIDI subsystem.
func New(drv midi.Driver, opts Options) (*App, error) {
	opts = opts.withDefaults()

	devices, err := midi.Discover(drv)
	if err != nil {
		return nil, err
	}

	log := eventlog.New(opts.LogCapacity)
	pipe := midi.NewPipeline(opts.QueueCapacity)
	a := &App{
		drv:         drv,
		opts:        opts,
		devices:     devices,
		selected:    -1,
		conns:       midi.NewManager(drv, opts.Label, pipe, log),
		pipe:        pipe,
		log:         log,
		lastRefresh: opts.Now(),
	}

	sess := opts.Store.Load()
	if sess.LastFocus != nil {
		a.focus = *sess.LastFocus
	}
	a.reselect(sess.LastDevice)

	ins, outs := countKinds(devices)
	log.Statusf("Found %d input(s), %d output(s)", ins, outs)
	return a, nil
}

// reselect moves the cursor to id if it is listed, else to the first row
func (a *App) reselect(id *midi.Identity) {
	if len(a.devices) == 0 {
		a.selected = -1
		return
	}
	if id != nil {
		if i := midi.IndexOf(a.devices, *id); i >= 0 {
			a.selected = i
			return
		}
	}
	a.selected = 0
}

// Selected returns the device under the cursor
func (a *App) Selected() (midi.DeviceItem, bool) {
	if a.selected < 0 || a.selected >= len(a.devices) {
		return midi.DeviceItem{}, false
	}
	return a.devices[a.selected], true
}

// Tick drains inbound messages into the log and re-discovers once the
// refresh interval has passed
func (a *App) Tick(now time.Time) {
	if a.phase != Running {
		return
	}
	a.pipe.Drain(a.log)
	if now.Sub(a.lastRefresh) >= a.opts.RefreshInterval {
		a.Refresh(now)
	}
}

// Refresh re-discovers ports and keeps the cursor on the same identity when
// it is still present. Open connections are not touched. If the driver
// fails the previous list is kept and the failure is logged.
func (a *App) Refresh(now time.Time) {
	a.lastRefresh = now

	devices, err := midi.Discover(a.drv)
	if err != nil {
		debug.Named("app").Warn("refresh failed", zap.Error(err))
		a.log.Err(err)
		return
	}

	prev, ok := a.Selected()
	a.devices = devices
	if ok {
		a.reselect(&prev.Identity)
	} else {
		a.reselect(nil)
	}
}

// Apply performs one user intent. Driver failures end up in the log.
func (a *App) Apply(in Intent) {
	if a.phase != Running {
		return
	}

	switch in {
	case Up:
		if a.focus == state.Left {
			a.move(-1)
		}
	case Down:
		if a.focus == state.Left {
			a.move(1)
		}
	case FocusLeft:
		a.focus = state.Left
	case FocusRight:
		a.focus = state.Right
	case Toggle:
		if item, ok := a.Selected(); ok {
			_ = a.conns.Toggle(item)
		}
	case CloseAll:
		a.conns.CloseAll()
	case Refresh:
		a.Refresh(a.opts.Now())
	case Quit:
		a.Shutdown()
	}
}

// move steps the cursor, wrapping at both ends
func (a *App) move(delta int) {
	n := len(a.devices)
	if n == 0 {
		return
	}
	a.selected = ((a.selected+delta)%n + n) % n
}

// Shutdown saves the session, drops every connection and terminates the
// loop. Calling it again is a no-op.
func (a *App) Shutdown() {
	if a.phase != Running {
		return
	}
	a.phase = ShuttingDown

	var sess state.Session
	if item, ok := a.Selected(); ok {
		id := item.Identity
		sess.LastDevice = &id
	}
	focus := a.focus
	sess.LastFocus = &focus
	a.opts.Store.Save(sess)

	a.conns.CloseAll()
	a.phase = Terminated
	debug.Named("app").Info("terminated")
}

func (a *App) Phase() Phase       { return a.phase }
func (a *App) Focus() state.Focus { return a.focus }

func countKinds(items []midi.DeviceItem) (ins, outs int) {
	for _, it := range items {
		if it.Kind == midi.Input {
			ins++
		} else {
			outs++
		}
	}
	return ins, outs
}
