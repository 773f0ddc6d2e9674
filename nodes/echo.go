package nodes

import (
	"context"

	"github.com/ddbase3/MissionBay-sub002/component"
)

// EchoNode mirrors all of its inputs as outputs. Useful for probing
// wiring and as a trivial loop body.
type EchoNode struct{}

// NewEchoNode creates an EchoNode.
func NewEchoNode() *EchoNode { return &EchoNode{} }

// TypeName returns the registry type name.
func (n *EchoNode) TypeName() string { return "echo" }

// InputPorts describes the node inputs.
func (n *EchoNode) InputPorts() []component.Port {
	return []component.Port{
		{Name: "value", Description: "any value to mirror", Type: "any"},
	}
}

// OutputPorts describes the node outputs.
func (n *EchoNode) OutputPorts() []component.Port {
	return []component.Port{
		{Name: "value", Description: "the mirrored value", Type: "any"},
	}
}

// DockPorts declares no docks.
func (n *EchoNode) DockPorts() []component.DockPort { return nil }

// SetConfig applies node configuration.
func (n *EchoNode) SetConfig(cfg map[string]any) error { return nil }

// Execute returns every input unchanged.
func (n *EchoNode) Execute(ctx context.Context, inputs map[string]any, resources map[string][]any, run component.RunContext) (map[string]any, error) {
	out := make(map[string]any, len(inputs))
	for k, v := range inputs {
		out[k] = v
	}
	return out, nil
}
