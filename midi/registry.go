package midi

import (
	"fmt"
	"slices"
	"strings"

	"go.uber.org/zap"

	"midiscope/debug"
)

// Discover builds a snapshot of every port: all inputs before all outputs,
// each kind ordered by case-insensitive name with driver order breaking ties.
// A port whose name cannot be read is listed as "<Kind> #<index>".
func Discover(drv Driver) ([]DeviceItem, error) {
	var items []DeviceItem

	for _, kind := range []Kind{Input, Output} {
		ports, err := drv.Ports(kind)
		if err != nil {
			return nil, &DiscoveryError{Kind: kind, Err: err}
		}

		group := make([]DeviceItem, 0, len(ports))
		for i, p := range ports {
			name, err := p.Name()
			if err != nil {
				debug.Named("registry").Debug("unreadable port name",
					zap.Stringer("kind", kind),
					zap.Int("index", i),
					zap.Error(err),
				)
				name = fmt.Sprintf("%s #%d", kind, i)
			}
			group = append(group, DeviceItem{
				Identity: Identity{Name: name, Kind: kind},
				Index:    i,
			})
		}

		slices.SortStableFunc(group, func(a, b DeviceItem) int {
			return strings.Compare(strings.ToLower(a.Name), strings.ToLower(b.Name))
		})
		items = append(items, group...)
	}

	return items, nil
}

// IndexOf returns the position of id in items, or -1
func IndexOf(items []DeviceItem, id Identity) int {
	for i := range items {
		if items[i].Identity == id {
			return i
		}
	}
	return -1
}
