package nodes

import (
	"context"
	"encoding/json"

	"github.com/ddbase3/MissionBay-sub002/component"
	"github.com/ddbase3/MissionBay-sub002/errors"
)

// JSONDecodeNode parses a JSON document into native values. Registered
// under both "json_decode" and the historical alias "to_array".
type JSONDecodeNode struct {
	typeName string
}

// NewJSONDecodeNode creates a decode node registered as typeName.
func NewJSONDecodeNode(typeName string) *JSONDecodeNode {
	return &JSONDecodeNode{typeName: typeName}
}

// TypeName returns the registry type name.
func (n *JSONDecodeNode) TypeName() string { return n.typeName }

// InputPorts describes the node inputs.
func (n *JSONDecodeNode) InputPorts() []component.Port {
	return []component.Port{
		{Name: "json", Description: "JSON document to decode", Type: "string", Required: true},
	}
}

// OutputPorts describes the node outputs.
func (n *JSONDecodeNode) OutputPorts() []component.Port {
	return []component.Port{
		{Name: "data", Description: "decoded value", Type: "any"},
	}
}

// DockPorts declares no docks.
func (n *JSONDecodeNode) DockPorts() []component.DockPort { return nil }

// SetConfig applies node configuration.
func (n *JSONDecodeNode) SetConfig(cfg map[string]any) error { return nil }

// Execute decodes the input document.
func (n *JSONDecodeNode) Execute(ctx context.Context, inputs map[string]any, resources map[string][]any, run component.RunContext) (map[string]any, error) {
	var raw []byte
	switch v := inputs["json"].(type) {
	case string:
		raw = []byte(v)
	case []byte:
		raw = v
	default:
		// Already decoded upstream; pass it through.
		if v != nil {
			return map[string]any{"data": v}, nil
		}
		return nil, errors.WrapInvalid(errors.ErrMissingInput, "JSONDecodeNode", "Execute", "read json input")
	}

	var data any
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, errors.WrapInvalid(err, "JSONDecodeNode", "Execute", "decode document")
	}
	return map[string]any{"data": data}, nil
}
