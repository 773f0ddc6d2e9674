package nodes

import (
	"context"
	"fmt"
	"strings"

	"github.com/ddbase3/MissionBay-sub002/component"
	"github.com/ddbase3/MissionBay-sub002/config"
)

// TemplateNode renders a text template by substituting ${key}
// placeholders with the node's input values. Unmatched placeholders are
// left verbatim so partial data still produces usable output.
type TemplateNode struct {
	template string
}

// NewTemplateNode creates an empty template node.
func NewTemplateNode() *TemplateNode { return &TemplateNode{} }

// TypeName returns the registry type name.
func (n *TemplateNode) TypeName() string { return "template" }

// InputPorts describes the node inputs.
func (n *TemplateNode) InputPorts() []component.Port {
	return []component.Port{
		{Name: "template", Description: "template text, overrides config", Type: "string"},
	}
}

// OutputPorts describes the node outputs.
func (n *TemplateNode) OutputPorts() []component.Port {
	return []component.Port{
		{Name: "text", Description: "rendered text", Type: "string"},
	}
}

// DockPorts declares no docks.
func (n *TemplateNode) DockPorts() []component.DockPort { return nil }

// SetConfig reads the template text from configuration.
func (n *TemplateNode) SetConfig(cfg map[string]any) error {
	n.template = config.GetString(cfg, "template", n.template)
	return nil
}

// Execute renders the template against all inputs.
func (n *TemplateNode) Execute(ctx context.Context, inputs map[string]any, resources map[string][]any, run component.RunContext) (map[string]any, error) {
	tmpl := n.template
	if s, ok := inputs["template"].(string); ok && s != "" {
		tmpl = s
	}

	out := tmpl
	for key, val := range inputs {
		if key == "template" {
			continue
		}
		out = strings.ReplaceAll(out, "${"+key+"}", fmt.Sprintf("%v", val))
	}
	return map[string]any{"text": out}, nil
}
