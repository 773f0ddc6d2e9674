package flow

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/ddbase3/MissionBay-sub002/component"
	"github.com/ddbase3/MissionBay-sub002/config"
	"github.com/ddbase3/MissionBay-sub002/errors"
)

// maxLoopIterations is the hard ceiling on iterations of a single loop
// node, independent of the engine's pass ceiling.
const maxLoopIterations = 1000

// Input-mapping directives understood by the loop node. Any other
// right-hand side is passed through as a literal.
const (
	mapIndex     = "$index"
	mapItem      = "$item"
	mapKey       = "$key"
	mapVarPrefix = "$var:"
)

// LoopNode invokes a held executable repeatedly: a fixed number of times,
// or once per element of a list or map. Per-iteration inputs are built
// from a mapping table whose right-hand sides are literals, the iteration
// index, a context-variable lookup, or the current item/key. A failing
// iteration contributes an {error: message} entry; remaining iterations
// still run.
type LoopNode struct {
	id       string
	logger   *slog.Logger
	inputMap map[string]any
}

// NewLoopNode creates a loop node.
func NewLoopNode(deps component.Dependencies) *LoopNode {
	return &LoopNode{logger: deps.GetLoggerWithComponent("loop")}
}

// TypeName returns the declarative type name.
func (n *LoopNode) TypeName() string { return "loop" }

// SetID records the node identity assigned at load.
func (n *LoopNode) SetID(id string) { n.id = id }

// InputPorts returns the loop node's input descriptors.
func (n *LoopNode) InputPorts() []component.Port {
	return []component.Port{
		{Name: "node", Type: "executable", Required: true,
			Description: "Executable invoked once per iteration"},
		{Name: "count", Type: "number", Default: 1,
			Description: "Number of iterations when no items are given"},
		{Name: "items", Type: "any",
			Description: "List or map to iterate instead of a fixed count"},
		{Name: "input_map", Type: "object",
			Description: "Per-iteration input mapping table"},
	}
}

// OutputPorts returns the loop node's output descriptors.
func (n *LoopNode) OutputPorts() []component.Port {
	return []component.Port{
		{Name: "results", Type: "list", Description: "Ordered per-iteration results"},
	}
}

// DockPorts returns no docks; the held executable docks on its own.
func (n *LoopNode) DockPorts() []component.DockPort { return nil }

// SetConfig accepts an optional input_map, overridable per run through
// the input port of the same name.
func (n *LoopNode) SetConfig(cfg map[string]any) error {
	n.inputMap = config.GetStringMap(cfg, "input_map")
	return nil
}

// Execute runs the iterations and returns their ordered results.
func (n *LoopNode) Execute(
	ctx context.Context, inputs map[string]any, _ map[string][]any, run component.RunContext,
) (map[string]any, error) {
	exec, ok := inputs["node"].(component.Executable)
	if !ok {
		return nil, errors.WrapInvalid(
			fmt.Errorf("%w: 'node' input", errors.ErrNotExecutable),
			"LoopNode", "Execute", "node input validation")
	}

	inputMap := n.inputMap
	if m, ok := inputs["input_map"].(map[string]any); ok {
		inputMap = m
	}

	var results []map[string]any
	iterate := func(index int, item, key any) {
		iterInputs := n.buildInputs(inputMap, index, item, key, run)
		result, err := safeExecute(ctx, exec, iterInputs, run)
		if err != nil {
			n.logger.Debug("Loop iteration failed", "node_id", n.id, "iteration", index, "error", err)
			results = append(results, map[string]any{"error": err.Error()})
			return
		}
		results = append(results, result)
	}

	switch items := inputs["items"].(type) {
	case []any:
		if len(items) > maxLoopIterations {
			return nil, loopLimitError(len(items))
		}
		for i, item := range items {
			iterate(i, item, i)
		}

	case map[string]any:
		if len(items) > maxLoopIterations {
			return nil, loopLimitError(len(items))
		}
		keys := make([]string, 0, len(items))
		for k := range items {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for i, k := range keys {
			iterate(i, items[k], k)
		}

	default:
		count := config.GetInt(inputs, "count", 1)
		if count < 0 {
			count = 0
		}
		if count > maxLoopIterations {
			return nil, loopLimitError(count)
		}
		for i := range count {
			iterate(i, nil, nil)
		}
	}

	return map[string]any{"results": results}, nil
}

// buildInputs resolves one iteration's input map.
func (n *LoopNode) buildInputs(
	inputMap map[string]any, index int, item, key any, run component.RunContext,
) map[string]any {
	iterInputs := make(map[string]any, len(inputMap))
	for name, rhs := range inputMap {
		directive, ok := rhs.(string)
		if !ok {
			iterInputs[name] = rhs
			continue
		}
		switch {
		case directive == mapIndex:
			iterInputs[name] = index
		case directive == mapItem:
			iterInputs[name] = item
		case directive == mapKey:
			iterInputs[name] = key
		case strings.HasPrefix(directive, mapVarPrefix):
			value, _ := run.GetVar(strings.TrimPrefix(directive, mapVarPrefix))
			iterInputs[name] = value
		default:
			iterInputs[name] = directive
		}
	}
	return iterInputs
}

func loopLimitError(count int) error {
	return errors.WrapInvalid(
		fmt.Errorf("%w: %d iterations, maximum is %d",
			errors.ErrLoopLimitExceeded, count, maxLoopIterations),
		"LoopNode", "Execute", "iteration bound validation")
}

// safeExecute invokes an executable, converting a panic into an error so
// one iteration can never abort the loop.
func safeExecute(
	ctx context.Context, exec component.Executable, inputs map[string]any, run component.RunContext,
) (result map[string]any, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("iteration panic: %v", r)
		}
	}()
	return exec.Execute(ctx, inputs, nil, run)
}
