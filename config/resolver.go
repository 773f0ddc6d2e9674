package config

import (
	"fmt"
	"math/rand/v2"
	"os"

	"github.com/google/uuid"

	"github.com/ddbase3/MissionBay-sub002/errors"
)

// Resolution modes for {mode, value} configuration fragments.
const (
	ModeFixed   = "fixed"   // use value as-is
	ModeDefault = "default" // value used only if the caller supplies none
	ModeEnv     = "env"     // read the environment variable named by value
	ModeConfig  = "config"  // look up section/key in host configuration
	ModeInherit = "inherit" // defer to the caller-supplied runtime value
	ModeRandom  = "random"  // pick uniformly from the supplied list
	ModeUUID    = "uuid"    // generate a fresh random identifier
)

// Resolver implements the {mode, value} resolution contract uniformly for
// node and resource configuration. A fragment is a map carrying a "mode"
// string; any other value passes through unchanged.
type Resolver struct {
	host *Config
}

// NewResolver creates a resolver backed by the given host configuration.
// The host may be nil; the "config" mode then fails with a lookup error.
func NewResolver(host *Config) *Resolver {
	return &Resolver{host: host}
}

// Resolve resolves a single configuration value. If the value is a
// mode-tagged fragment it is resolved according to its mode; plain values
// are returned as-is. The supplied argument carries the caller-provided
// runtime value for the "default" and "inherit" modes (nil when absent).
func (r *Resolver) Resolve(value any, supplied any) (any, error) {
	fragment, ok := value.(map[string]any)
	if !ok {
		return value, nil
	}
	mode, ok := fragment["mode"].(string)
	if !ok {
		// A map without a mode tag is ordinary structured data.
		return value, nil
	}

	switch mode {
	case ModeFixed:
		return fragment["value"], nil

	case ModeDefault:
		if supplied != nil {
			return supplied, nil
		}
		return fragment["value"], nil

	case ModeInherit:
		return supplied, nil

	case ModeEnv:
		name, ok := fragment["value"].(string)
		if !ok || name == "" {
			return nil, errors.WrapInvalid(
				fmt.Errorf("env mode requires a variable name"),
				"Resolver", "Resolve", "env value validation")
		}
		return os.Getenv(name), nil

	case ModeConfig:
		section := GetString(fragment, "section", "")
		key := GetString(fragment, "key", "")
		if section == "" || key == "" {
			return nil, errors.WrapInvalid(
				fmt.Errorf("config mode requires section and key"),
				"Resolver", "Resolve", "config reference validation")
		}
		if r.host == nil {
			return nil, errors.WrapInvalid(
				fmt.Errorf("%w: no host configuration", errors.ErrConfigNotFound),
				"Resolver", "Resolve", "host configuration lookup")
		}
		return r.host.Lookup(section, key)

	case ModeRandom:
		choices, ok := fragment["value"].([]any)
		if !ok || len(choices) == 0 {
			return nil, errors.WrapInvalid(
				fmt.Errorf("random mode requires a non-empty list"),
				"Resolver", "Resolve", "random value validation")
		}
		return choices[rand.IntN(len(choices))], nil

	case ModeUUID:
		return uuid.NewString(), nil

	default:
		return nil, errors.WrapInvalid(
			fmt.Errorf("unknown resolution mode '%s'", mode),
			"Resolver", "Resolve", "mode validation")
	}
}

// ResolveMap resolves every value of a configuration map. The runtime map
// carries caller-supplied values keyed like the configuration; it may be
// nil.
func (r *Resolver) ResolveMap(cfg map[string]any, runtime map[string]any) (map[string]any, error) {
	if cfg == nil {
		return nil, nil
	}
	resolved := make(map[string]any, len(cfg))
	for key, value := range cfg {
		var supplied any
		if runtime != nil {
			supplied = runtime[key]
		}
		out, err := r.Resolve(value, supplied)
		if err != nil {
			return nil, errors.Wrap(err, "Resolver", "ResolveMap", fmt.Sprintf("resolve key '%s'", key))
		}
		resolved[key] = out
	}
	return resolved, nil
}
