package midi

import "time"

// InputFunc receives raw message bytes and the driver's delivery timestamp.
// Drivers call it on their own goroutine, so it must return quickly.
type InputFunc func(data []byte, ts time.Duration)

// Port is a driver-owned endpoint
type Port interface {
	// Name fails when the driver cannot read a human-readable name
	Name() (string, error)
}

// Conn is an open port. Closing it releases the driver resource and, for
// inputs, stops further InputFunc calls.
type Conn interface {
	Close() error
}

// Driver is the platform MIDI subsystem as seen by the rest of the program
type Driver interface {
	// Ports lists the current ports of a kind in driver order
	Ports(kind Kind) ([]Port, error)
	OpenInput(p Port, label string, fn InputFunc) (Conn, error)
	OpenOutput(p Port, label string) (Conn, error)
}
