package component

import (
	"fmt"

	"github.com/ddbase3/MissionBay-sub002/errors"
)

// Port describes one named, typed data slot on a node.
//
// The Type tag is informational only; values are not coerced or checked
// against it at runtime. A port with Required set and a nil Default must
// be supplied externally (initial input, incoming connection, or run
// input) or the owning node is replaced by a synthetic error result
// without its body ever being invoked.
type Port struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Type        string `json:"type,omitempty"`
	Default     any    `json:"default,omitempty"`
	Required    bool   `json:"required"`
}

// DockPort names a resource slot on a node. Each dock binds zero or more
// shared resource instances, resolved once per run before execution.
// MaxResources of zero means unbounded.
type DockPort struct {
	Name         string `json:"name"`
	Description  string `json:"description,omitempty"`
	MaxResources int    `json:"max_resources,omitempty"`
}

// ValidatePorts checks that port names are unique within a list.
func ValidatePorts(ports []Port) error {
	seen := make(map[string]bool, len(ports))
	for _, p := range ports {
		if p.Name == "" {
			return errors.WrapInvalid(
				fmt.Errorf("port name cannot be empty"),
				"Port", "ValidatePorts", "name validation")
		}
		if seen[p.Name] {
			return errors.WrapInvalid(
				fmt.Errorf("duplicate port name '%s'", p.Name),
				"Port", "ValidatePorts", "uniqueness check")
		}
		seen[p.Name] = true
	}
	return nil
}

// FindPort returns the port with the given name, if present.
func FindPort(ports []Port, name string) (Port, bool) {
	for _, p := range ports {
		if p.Name == name {
			return p, true
		}
	}
	return Port{}, false
}
