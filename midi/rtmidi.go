package midi

import (
	"errors"
	"fmt"
	"strings"
	"time"

	gomidi "gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/drivers"
	_ "gitlab.com/gomidi/midi/v2/drivers/rtmididrv" // Register MIDI driver
	"go.uber.org/zap"

	"midiscope/debug"
)

// portQueryTimeout bounds a port listing. CoreMIDI can hang; when it does
// the user needs to run: sudo killall coreaudiod midiserver
const portQueryTimeout = 3 * time.Second

// RtMidi is the Driver backed by gomidi's rtmidi driver
type RtMidi struct {
	drv     drivers.Driver
	client  string
	timeout time.Duration
}

// NewRtMidi returns the host MIDI driver. It fails with *DiscoveryError when
// no MIDI subsystem is available.
func NewRtMidi(client string) (*RtMidi, error) {
	drv := drivers.Get()
	if drv == nil {
		return nil, &DiscoveryError{Kind: Input, Err: errors.New("no MIDI driver available")}
	}
	debug.Named("driver").Info("using MIDI driver", zap.String("driver", drv.String()), zap.String("client", client))
	return &RtMidi{drv: drv, client: client, timeout: portQueryTimeout}, nil
}

// Ports lists the ports of a kind, giving up after the query timeout
func (r *RtMidi) Ports(kind Kind) ([]Port, error) {
	type result struct {
		ports []Port
		err   error
	}

	ch := make(chan result, 1)
	go func() {
		ports, err := r.query(kind)
		ch <- result{ports: ports, err: err}
	}()

	select {
	case res := <-ch:
		return res.ports, res.err
	case <-time.After(r.timeout):
		return nil, ErrDriverTimeout
	}
}

func (r *RtMidi) query(kind Kind) ([]Port, error) {
	if kind == Input {
		ins, err := r.drv.Ins()
		if err != nil {
			return nil, fmt.Errorf("list inputs: %w", err)
		}
		ports := make([]Port, len(ins))
		for i, in := range ins {
			ports[i] = inPort{in: in}
		}
		return ports, nil
	}

	outs, err := r.drv.Outs()
	if err != nil {
		return nil, fmt.Errorf("list outputs: %w", err)
	}
	ports := make([]Port, len(outs))
	for i, out := range outs {
		ports[i] = outPort{out: out}
	}
	return ports, nil
}

// OpenInput opens the port and forwards every message to fn from the
// driver's delivery thread
func (r *RtMidi) OpenInput(p Port, label string, fn InputFunc) (Conn, error) {
	ip, ok := p.(inPort)
	if !ok {
		return nil, fmt.Errorf("not an rtmidi input port: %T", p)
	}

	stop, err := gomidi.ListenTo(ip.in, func(msg gomidi.Message, timestampms int32) {
		fn([]byte(msg), time.Duration(timestampms)*time.Millisecond)
	}, gomidi.UseSysEx(), gomidi.UseTimeCode(), gomidi.UseActiveSense())
	if err != nil {
		return nil, fmt.Errorf("open input: %w", err)
	}

	debug.Named("driver").Debug("input opened", zap.String("port", ip.in.String()), zap.String("label", label))
	return &inConn{in: ip.in, stop: stop}, nil
}

// OpenOutput opens the port. Nothing is sent on it.
func (r *RtMidi) OpenOutput(p Port, label string) (Conn, error) {
	op, ok := p.(outPort)
	if !ok {
		return nil, fmt.Errorf("not an rtmidi output port: %T", p)
	}
	if err := op.out.Open(); err != nil {
		return nil, fmt.Errorf("open output: %w", err)
	}

	debug.Named("driver").Debug("output opened", zap.String("port", op.out.String()), zap.String("label", label))
	return &outConn{out: op.out}, nil
}

// Close shuts the underlying driver down
func (r *RtMidi) Close() error {
	return r.drv.Close()
}

type inPort struct{ in drivers.In }

func (p inPort) Name() (string, error) { return portName(p.in) }

type outPort struct{ out drivers.Out }

func (p outPort) Name() (string, error) { return portName(p.out) }

func portName(p drivers.Port) (string, error) {
	name := strings.TrimSpace(p.String())
	if name == "" {
		return "", fmt.Errorf("port %d has no name", p.Number())
	}
	return name, nil
}

type inConn struct {
	in   drivers.In
	stop func()
}

func (c *inConn) Close() error {
	if c.stop != nil {
		c.stop()
	}
	return c.in.Close()
}

type outConn struct{ out drivers.Out }

func (c *outConn) Close() error {
	return c.out.Close()
}
