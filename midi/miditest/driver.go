// Package miditest provides an in-memory midi.Driver for tests.
//
// Ports are scripted per kind and can be replaced at any time to simulate
// hot-plug. Deliver invokes the callbacks of open inputs from separate
// goroutines, the way a real driver's delivery thread would.
package miditest

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"midiscope/midi"
)

var ErrClosed = errors.New("connection already closed")

// Port is a scripted port
type Port struct {
	name    string
	nameErr error
	openErr error
}

func (p *Port) Name() (string, error) {
	if p.nameErr != nil {
		return "", p.nameErr
	}
	return p.name, nil
}

// FailName makes Name return err
func (p *Port) FailName(err error) *Port {
	p.nameErr = err
	return p
}

// FailOpen makes opening this port return err
func (p *Port) FailOpen(err error) *Port {
	p.openErr = err
	return p
}

// Driver is a scripted midi.Driver, safe for concurrent use
type Driver struct {
	mu      sync.Mutex
	ports   map[midi.Kind][]*Port
	listErr map[midi.Kind]error
	open    map[*Conn]struct{}
	labels  []string
}

func New() *Driver {
	return &Driver{
		ports:   make(map[midi.Kind][]*Port),
		listErr: make(map[midi.Kind]error),
		open:    make(map[*Conn]struct{}),
	}
}

// AddPort appends a port to the end of the kind's list
func (d *Driver) AddPort(kind midi.Kind, name string) *Port {
	d.mu.Lock()
	defer d.mu.Unlock()
	p := &Port{name: name}
	d.ports[kind] = append(d.ports[kind], p)
	return p
}

// SetPorts replaces the kind's list with fresh ports. Open connections are
// left alone.
func (d *Driver) SetPorts(kind midi.Kind, names ...string) []*Port {
	d.mu.Lock()
	defer d.mu.Unlock()
	ports := make([]*Port, len(names))
	for i, n := range names {
		ports[i] = &Port{name: n}
	}
	d.ports[kind] = ports
	return ports
}

// FailList makes Ports(kind) return err; nil clears it
func (d *Driver) FailList(kind midi.Kind, err error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.listErr[kind] = err
}

func (d *Driver) Ports(kind midi.Kind) ([]midi.Port, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if err := d.listErr[kind]; err != nil {
		return nil, err
	}
	out := make([]midi.Port, len(d.ports[kind]))
	for i, p := range d.ports[kind] {
		out[i] = p
	}
	return out, nil
}

func (d *Driver) OpenInput(p midi.Port, label string, fn midi.InputFunc) (midi.Conn, error) {
	return d.openConn(p, midi.Input, label, fn)
}

func (d *Driver) OpenOutput(p midi.Port, label string) (midi.Conn, error) {
	return d.openConn(p, midi.Output, label, nil)
}

func (d *Driver) openConn(p midi.Port, kind midi.Kind, label string, fn midi.InputFunc) (midi.Conn, error) {
	port, ok := p.(*Port)
	if !ok {
		return nil, fmt.Errorf("foreign port %T", p)
	}
	if port.openErr != nil {
		return nil, port.openErr
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	c := &Conn{drv: d, port: port, kind: kind, fn: fn}
	d.open[c] = struct{}{}
	d.labels = append(d.labels, label)
	return c, nil
}

// OpenCount is the number of connections not yet closed
func (d *Driver) OpenCount() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.open)
}

// Labels returns the client labels passed to every open call, in order
func (d *Driver) Labels() []string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]string(nil), d.labels...)
}

// Deliver sends data to every open input whose port is called name. Each
// callback runs on its own goroutine; Deliver returns once all have returned,
// reporting how many inputs received the message.
func (d *Driver) Deliver(name string, data ...byte) int {
	d.mu.Lock()
	var targets []*Conn
	for c := range d.open {
		if c.kind == midi.Input && c.port.name == name {
			targets = append(targets, c)
		}
	}
	d.mu.Unlock()

	var wg sync.WaitGroup
	for _, c := range targets {
		wg.Add(1)
		go func(c *Conn) {
			defer wg.Done()
			c.fn(data, 5*time.Millisecond)
		}(c)
	}
	wg.Wait()
	return len(targets)
}

// Conn is a scripted open port
type Conn struct {
	drv      *Driver
	port     *Port
	kind     midi.Kind
	fn       midi.InputFunc
	closed   bool
	closeErr error
}

// FailClose makes Close report err after releasing the connection
func (c *Conn) FailClose(err error) {
	c.drv.mu.Lock()
	defer c.drv.mu.Unlock()
	c.closeErr = err
}

func (c *Conn) Close() error {
	c.drv.mu.Lock()
	defer c.drv.mu.Unlock()
	if c.closed {
		return ErrClosed
	}
	c.closed = true
	delete(c.drv.open, c)
	return c.closeErr
}

// Conns returns the open connections, for tests that need a handle
func (d *Driver) Conns() []*Conn {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]*Conn, 0, len(d.open))
	for c := range d.open {
		out = append(out, c)
	}
	return out
}
