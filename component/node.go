package component

import (
	"context"
)

// Executable is the fixed capability interface for values that can be
// invoked by higher-order nodes. A live node flowing through a port is
// represented as an Executable rather than dispatched dynamically.
type Executable interface {
	// Execute runs the unit of work with the merged inputs, the resolved
	// docked resources (one list per dock name, possibly empty), and the
	// run-scoped execution context. The result is a flat output map.
	//
	// A returned error is captured at the node boundary and converted to
	// a synthetic {error: message} result; it never aborts the run.
	Execute(
		ctx context.Context,
		inputs map[string]any,
		resources map[string][]any,
		run RunContext,
	) (map[string]any, error)
}

// Node is the polymorphic unit of work executed by the flow engine.
//
// A node is stateless across runs except through the shared execution
// context; each run hands it freshly merged inputs. The type name is the
// declarative instantiation key used by the registry.
type Node interface {
	Executable

	// TypeName returns the stable type name used in flow descriptions.
	TypeName() string

	// InputPorts returns the ordered input port descriptors.
	InputPorts() []Port

	// OutputPorts returns the ordered output port descriptors.
	OutputPorts() []Port

	// DockPorts returns the named resource slots, if any.
	DockPorts() []DockPort

	// SetConfig applies structured configuration. It is called at most
	// once, during graph build, before the first execution.
	SetConfig(config map[string]any) error
}

// Identifiable is implemented by nodes that want to know the identity
// assigned to them at graph load. The id is set once and is immutable
// afterwards.
type Identifiable interface {
	SetID(id string)
}

// Configurable is implemented by resource instances that accept structured
// configuration. Resource configuration goes through the same {mode, value}
// resolution contract as node configuration before SetConfig is called.
type Configurable interface {
	SetConfig(config map[string]any) error
}

// Memory is the run-scoped memory backend visible to node bodies:
// per-node history plus a generic key/value store.
type Memory interface {
	Append(ctx context.Context, nodeID string, entry map[string]any) error
	History(ctx context.Context, nodeID string, limit int) ([]map[string]any, error)
	Put(ctx context.Context, key string, value any) error
	Get(ctx context.Context, key string) (any, error)
}

// RunContext is the execution-facing view of the run-scoped context.
// Variable writes are serialized per context; a nested flow sees its
// caller's values through an overlay without leaking writes outward.
type RunContext interface {
	GetVar(name string) (any, bool)
	SetVar(name string, value any)
	Memory() Memory
}
