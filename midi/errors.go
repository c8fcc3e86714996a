package midi

import (
	"errors"
	"fmt"
)

// ErrDriverTimeout is returned when the MIDI service stops answering port queries
var ErrDriverTimeout = errors.New("MIDI service not responding")

// DiscoveryError means the MIDI subsystem could not be queried at all.
// At startup it is fatal.
type DiscoveryError struct {
	Kind Kind
	Err  error
}

func (e *DiscoveryError) Error() string {
	return fmt.Sprintf("discover %s ports: %v", e.Kind, e.Err)
}

func (e *DiscoveryError) Unwrap() error {
	return e.Err
}

// StalePortError means the positional index of a device no longer points at
// that device. Nothing is opened.
type StalePortError struct {
	Identity Identity
	Index    int
	Ports    int // ports of that kind at validation time
	Found    string
}

func (e *StalePortError) Error() string {
	if e.Found != "" {
		return fmt.Sprintf("%s: port %d is now %q, refresh and retry", e.Identity, e.Index, e.Found)
	}
	return fmt.Sprintf("%s: port %d out of range (%d available), refresh and retry", e.Identity, e.Index, e.Ports)
}

// ConnectionError wraps a driver failure while opening or closing a port
type ConnectionError struct {
	Identity Identity
	Op       string
	Err      error
}

func (e *ConnectionError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Identity, e.Err)
}

func (e *ConnectionError) Unwrap() error {
	return e.Err
}
