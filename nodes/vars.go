package nodes

import (
	"context"
	"fmt"

	"github.com/ddbase3/MissionBay-sub002/component"
	"github.com/ddbase3/MissionBay-sub002/errors"
)

// SetVarNode stores a value under a name in the run context.
type SetVarNode struct{}

// NewSetVarNode creates a SetVarNode.
func NewSetVarNode() *SetVarNode { return &SetVarNode{} }

// TypeName returns the registry type name.
func (n *SetVarNode) TypeName() string { return "set_var" }

// InputPorts describes the node inputs.
func (n *SetVarNode) InputPorts() []component.Port {
	return []component.Port{
		{Name: "name", Description: "variable name", Type: "string", Required: true},
		{Name: "value", Description: "value to store", Type: "any"},
	}
}

// OutputPorts describes the node outputs.
func (n *SetVarNode) OutputPorts() []component.Port {
	return []component.Port{
		{Name: "value", Description: "stored value, passed through", Type: "any"},
	}
}

// DockPorts declares no docks.
func (n *SetVarNode) DockPorts() []component.DockPort { return nil }

// SetConfig applies node configuration.
func (n *SetVarNode) SetConfig(cfg map[string]any) error { return nil }

// Execute stores the value and passes it through.
func (n *SetVarNode) Execute(ctx context.Context, inputs map[string]any, resources map[string][]any, run component.RunContext) (map[string]any, error) {
	name := fmt.Sprintf("%v", inputs["name"])
	if name == "" || name == "<nil>" {
		return nil, errors.WrapInvalid(errors.ErrMissingInput, "SetVarNode", "Execute", "read name input")
	}
	run.SetVar(name, inputs["value"])
	return map[string]any{"value": inputs["value"]}, nil
}

// GetVarNode reads a value from the run context by name.
type GetVarNode struct{}

// NewGetVarNode creates a GetVarNode.
func NewGetVarNode() *GetVarNode { return &GetVarNode{} }

// TypeName returns the registry type name.
func (n *GetVarNode) TypeName() string { return "get_var" }

// InputPorts describes the node inputs.
func (n *GetVarNode) InputPorts() []component.Port {
	return []component.Port{
		{Name: "name", Description: "variable name", Type: "string", Required: true},
		{Name: "fallback", Description: "value when the variable is unset", Type: "any"},
	}
}

// OutputPorts describes the node outputs.
func (n *GetVarNode) OutputPorts() []component.Port {
	return []component.Port{
		{Name: "value", Description: "the variable value or fallback", Type: "any"},
		{Name: "found", Description: "whether the variable was set", Type: "boolean"},
	}
}

// DockPorts declares no docks.
func (n *GetVarNode) DockPorts() []component.DockPort { return nil }

// SetConfig applies node configuration.
func (n *GetVarNode) SetConfig(cfg map[string]any) error { return nil }

// Execute reads the variable.
func (n *GetVarNode) Execute(ctx context.Context, inputs map[string]any, resources map[string][]any, run component.RunContext) (map[string]any, error) {
	name := fmt.Sprintf("%v", inputs["name"])
	val, ok := run.GetVar(name)
	if !ok {
		val = inputs["fallback"]
	}
	return map[string]any{"value": val, "found": ok}, nil
}
