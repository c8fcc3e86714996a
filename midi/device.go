package midi

import "fmt"

// Kind is the direction of a MIDI port
type Kind int

const (
	Input Kind = iota
	Output
)

func (k Kind) String() string {
	switch k {
	case Input:
		return "Input"
	case Output:
		return "Output"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Tag is the fixed-width label shown in device lists
func (k Kind) Tag() string {
	if k == Input {
		return "[IN] "
	}
	return "[OUT]"
}

func (k Kind) MarshalText() ([]byte, error) {
	switch k {
	case Input, Output:
		return []byte(k.String()), nil
	default:
		return nil, fmt.Errorf("invalid port kind %d", int(k))
	}
}

func (k *Kind) UnmarshalText(text []byte) error {
	switch string(text) {
	case "Input":
		*k = Input
	case "Output":
		*k = Output
	default:
		return fmt.Errorf("unknown port kind %q", text)
	}
	return nil
}

// Identity is what makes two devices "the same" across discovery snapshots.
// Names compare case-sensitively. Identity is comparable and used directly
// as a map key.
type Identity struct {
	Name string `json:"name"`
	Kind Kind   `json:"kind"`
}

func (id Identity) String() string {
	return id.Kind.String() + ": " + id.Name
}

// DeviceItem is one row of a discovery snapshot. Index is the port's position
// within its kind at the time of discovery and goes stale as soon as ports
// appear or disappear; it must be re-validated before use.
type DeviceItem struct {
	Identity
	Index int
}
