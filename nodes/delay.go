package nodes

import (
	"context"
	"time"

	"github.com/ddbase3/MissionBay-sub002/component"
	"github.com/ddbase3/MissionBay-sub002/config"
	"github.com/ddbase3/MissionBay-sub002/errors"
)

// DelayNode pauses for a configurable number of milliseconds and passes
// its value input through. Cancellation of the run context cuts the
// delay short with an error.
type DelayNode struct {
	ms int
}

// NewDelayNode creates a DelayNode with no delay configured.
func NewDelayNode() *DelayNode { return &DelayNode{} }

// TypeName returns the registry type name.
func (n *DelayNode) TypeName() string { return "delay" }

// InputPorts describes the node inputs.
func (n *DelayNode) InputPorts() []component.Port {
	return []component.Port{
		{Name: "ms", Description: "delay in milliseconds, overrides config", Type: "number"},
		{Name: "value", Description: "value passed through after the delay", Type: "any"},
	}
}

// OutputPorts describes the node outputs.
func (n *DelayNode) OutputPorts() []component.Port {
	return []component.Port{
		{Name: "value", Description: "the delayed value", Type: "any"},
	}
}

// DockPorts declares no docks.
func (n *DelayNode) DockPorts() []component.DockPort { return nil }

// SetConfig reads the default delay from configuration.
func (n *DelayNode) SetConfig(cfg map[string]any) error {
	n.ms = config.GetInt(cfg, "ms", 0)
	return nil
}

// Execute waits and passes the value through.
func (n *DelayNode) Execute(ctx context.Context, inputs map[string]any, resources map[string][]any, run component.RunContext) (map[string]any, error) {
	ms := n.ms
	if v := config.GetInt(inputs, "ms", 0); v > 0 {
		ms = v
	}
	if ms > 0 {
		select {
		case <-time.After(time.Duration(ms) * time.Millisecond):
		case <-ctx.Done():
			return nil, errors.WrapTransient(ctx.Err(), "DelayNode", "Execute", "wait for delay")
		}
	}
	return map[string]any{"value": inputs["value"]}, nil
}
