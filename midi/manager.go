package midi

import (
	"slices"
	"strings"

	"go.uber.org/zap"

	"midiscope/debug"
	"midiscope/eventlog"
)

// InputSink hands out the callback for a newly opened input
type InputSink interface {
	Sink(name string) InputFunc
}

// Manager owns every open connection, keyed by device identity, so there is
// at most one connection per device. It is driven from the control loop only.
type Manager struct {
	drv   Driver
	label string
	sink  InputSink
	log   *eventlog.Log

	inputs  map[Identity]Conn
	outputs map[Identity]Conn
}

// NewManager creates a manager that opens ports on drv. Status and error
// entries go to log; input callbacks come from sink.
func NewManager(drv Driver, label string, sink InputSink, log *eventlog.Log) *Manager {
	return &Manager{
		drv:     drv,
		label:   label,
		sink:    sink,
		log:     log,
		inputs:  make(map[Identity]Conn),
		outputs: make(map[Identity]Conn),
	}
}

func (m *Manager) conns(kind Kind) map[Identity]Conn {
	if kind == Input {
		return m.inputs
	}
	return m.outputs
}

// Toggle closes the device if it is open, otherwise opens it. The item's
// index is checked against a fresh port list first; a stale index fails with
// *StalePortError and nothing is opened. Failures leave the maps untouched
// and are also written to the log.
func (m *Manager) Toggle(item DeviceItem) error {
	conns := m.conns(item.Kind)

	if c, ok := conns[item.Identity]; ok {
		delete(conns, item.Identity)
		m.release(item.Identity, c)
		m.log.Statusf("Closed %s", item.Identity)
		return nil
	}

	c, err := m.open(item)
	if err != nil {
		debug.Named("conn").Info("open failed",
			zap.String("device", item.Name),
			zap.Stringer("kind", item.Kind),
			zap.Error(err),
		)
		m.log.Err(err)
		return err
	}

	conns[item.Identity] = c
	m.log.Statusf("Opened %s", item.Identity)
	return nil
}

func (m *Manager) open(item DeviceItem) (Conn, error) {
	ports, err := m.drv.Ports(item.Kind)
	if err != nil {
		return nil, &ConnectionError{Identity: item.Identity, Op: "open", Err: err}
	}
	if item.Index < 0 || item.Index >= len(ports) {
		return nil, &StalePortError{Identity: item.Identity, Index: item.Index, Ports: len(ports)}
	}

	port := ports[item.Index]
	// Ports reindex on hot-plug; a readable name that differs means the
	// index now points at another device.
	if name, err := port.Name(); err == nil && name != item.Name {
		return nil, &StalePortError{Identity: item.Identity, Index: item.Index, Ports: len(ports), Found: name}
	}

	var c Conn
	if item.Kind == Input {
		c, err = m.drv.OpenInput(port, m.label, m.sink.Sink(item.Name))
	} else {
		c, err = m.drv.OpenOutput(port, m.label)
	}
	if err != nil {
		return nil, &ConnectionError{Identity: item.Identity, Op: "open", Err: err}
	}
	return c, nil
}

func (m *Manager) release(id Identity, c Conn) {
	if err := c.Close(); err != nil {
		m.log.Err(&ConnectionError{Identity: id, Op: "close", Err: err})
	}
}

// CloseAll drops every connection of both kinds and logs one summary line
// with the prior counts, even when nothing was open.
func (m *Manager) CloseAll() {
	inputs, outputs := m.inputs, m.outputs
	m.inputs = make(map[Identity]Conn)
	m.outputs = make(map[Identity]Conn)

	for id, c := range inputs {
		m.release(id, c)
	}
	for id, c := range outputs {
		m.release(id, c)
	}

	m.log.Statusf("Closed all connections (inputs: %d, outputs: %d)", len(inputs), len(outputs))
}

func (m *Manager) IsOpen(id Identity) bool {
	_, ok := m.conns(id.Kind)[id]
	return ok
}

// Counts returns the number of open inputs and outputs
func (m *Manager) Counts() (inputs, outputs int) {
	return len(m.inputs), len(m.outputs)
}

// Open lists the open identities, inputs first, each kind by name
func (m *Manager) Open() []Identity {
	out := make([]Identity, 0, len(m.inputs)+len(m.outputs))
	for _, conns := range []map[Identity]Conn{m.inputs, m.outputs} {
		start := len(out)
		for id := range conns {
			out = append(out, id)
		}
		slices.SortFunc(out[start:], func(a, b Identity) int {
			return strings.Compare(a.Name, b.Name)
		})
	}
	return out
}
