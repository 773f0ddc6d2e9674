package flow

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/ddbase3/MissionBay-sub002/component"
	"github.com/ddbase3/MissionBay-sub002/errors"
)

// SubFlowNode executes a nested flow held in its "flow" input. The inner
// flow is cloned to prevent cross-run state leakage and rebound to an
// overlay of the current context, so it sees caller-computed values
// without leaking writes outward. All inputs except the flow reference
// itself are forwarded as the inner run's inputs.
//
// Known limitation: when the inner flow has several terminal nodes, only
// the first non-empty terminal result in declaration order is surfaced.
type SubFlowNode struct {
	id     string
	logger *slog.Logger
}

// NewSubFlowNode creates a subflow node.
func NewSubFlowNode(deps component.Dependencies) *SubFlowNode {
	return &SubFlowNode{logger: deps.GetLoggerWithComponent("subflow")}
}

// TypeName returns the declarative type name.
func (n *SubFlowNode) TypeName() string { return "subflow" }

// SetID records the node identity assigned at load.
func (n *SubFlowNode) SetID(id string) { n.id = id }

// InputPorts returns the subflow node's input descriptors.
func (n *SubFlowNode) InputPorts() []component.Port {
	return []component.Port{
		{Name: "flow", Type: "flow", Required: true,
			Description: "Flow instance to execute"},
	}
}

// OutputPorts are those of the inner flow's first terminal node and are
// not statically declarable.
func (n *SubFlowNode) OutputPorts() []component.Port { return nil }

// DockPorts returns no docks.
func (n *SubFlowNode) DockPorts() []component.DockPort { return nil }

// SetConfig accepts no configuration.
func (n *SubFlowNode) SetConfig(map[string]any) error { return nil }

// Execute clones and runs the inner flow, returning its first non-empty
// terminal result.
func (n *SubFlowNode) Execute(
	ctx context.Context, inputs map[string]any, _ map[string][]any, run component.RunContext,
) (map[string]any, error) {
	inner, ok := inputs["flow"].(*Flow)
	if !ok {
		return nil, errors.WrapInvalid(
			fmt.Errorf("'flow' input is not a flow instance"),
			"SubFlowNode", "Execute", "flow input validation")
	}

	ectx, ok := run.(*Context)
	if !ok {
		return nil, errors.WrapInvalid(
			fmt.Errorf("subflow requires a flow execution context"),
			"SubFlowNode", "Execute", "context validation")
	}
	engine := ectx.Engine()
	if engine == nil {
		return nil, errors.WrapInvalid(
			fmt.Errorf("no engine bound to the execution context"),
			"SubFlowNode", "Execute", "engine lookup")
	}

	forwarded := make(map[string]any, len(inputs))
	for k, v := range inputs {
		if k == "flow" {
			continue
		}
		forwarded[k] = v
	}

	clone := inner.Clone()
	child := ectx.Overlay(forwarded)

	results, err := engine.RunWithContext(ctx, clone, forwarded, child)
	if err != nil {
		return nil, errors.Wrap(err, "SubFlowNode", "Execute", "nested run")
	}

	for _, result := range results {
		if len(result) > 0 {
			return result, nil
		}
	}
	n.logger.Debug("Nested flow produced no terminal output", "node_id", n.id)
	return map[string]any{}, nil
}
