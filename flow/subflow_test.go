package flow

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ddbase3/MissionBay-sub002/component"
)

// buildInnerFlow builds a one-node flow whose terminal returns the
// given outputs.
func buildInnerFlow(t *testing.T, engine *Engine, registry *component.Registry, outputs map[string]any) *Flow {
	t.Helper()
	registerStub(t, registry, "inner_terminal", func() *stubNode {
		return &stubNode{
			typeName: "inner_terminal",
			body: func(_ context.Context, _ map[string]any, _ map[string][]any, _ component.RunContext) (map[string]any, error) {
				return outputs, nil
			},
		}
	})
	f, err := engine.Build(&Description{
		Nodes: []NodeDef{{ID: "t", Type: "inner_terminal"}},
	})
	require.NoError(t, err)
	return f
}

func TestSubFlowNodeReturnsInnerTerminalResult(t *testing.T) {
	registry := component.NewRegistry()
	require.NoError(t, Register(registry))
	engine := NewEngine(registry, nil, testDeps())

	inner := buildInnerFlow(t, engine, registry, map[string]any{"msg": "hi"})

	registerStub(t, registry, "holder", func() *stubNode {
		return &stubNode{
			typeName: "holder",
			out:      []component.Port{{Name: "flow", Type: "flow"}},
			body: func(_ context.Context, _ map[string]any, _ map[string][]any, _ component.RunContext) (map[string]any, error) {
				return map[string]any{"flow": inner}, nil
			},
		}
	})

	outer, err := engine.Build(&Description{
		Nodes: []NodeDef{
			{ID: "h", Type: "holder"},
			{ID: "sub", Type: "subflow"},
		},
		Connections: []ConnectionDef{
			{From: "h", Output: "flow", To: "sub", Input: "flow"},
		},
	})
	require.NoError(t, err)

	results, err := engine.Run(context.Background(), outer, nil)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, map[string]any{"msg": "hi"}, results[0])
}

func TestSubFlowNodeForwardsInputsThroughOverlay(t *testing.T) {
	registry := component.NewRegistry()
	require.NoError(t, Register(registry))
	engine := NewEngine(registry, nil, testDeps())

	// The inner node reads a caller-computed value through the context.
	registerStub(t, registry, "reader", func() *stubNode {
		return &stubNode{
			typeName: "reader",
			body: func(_ context.Context, inputs map[string]any, _ map[string][]any, run component.RunContext) (map[string]any, error) {
				fromVar, _ := run.GetVar("greeting")
				return map[string]any{
					"via_input": inputs["greeting"],
					"via_var":   fromVar,
				}, nil
			},
		}
	})
	inner, err := engine.Build(&Description{
		Nodes: []NodeDef{{ID: "r", Type: "reader"}},
		Connections: []ConnectionDef{
			{From: InputSentinel, Output: "greeting", To: "r", Input: "greeting"},
		},
	})
	require.NoError(t, err)

	sub := NewSubFlowNode(testDeps())
	ectx := NewContext(NewMemory(NewMapStore()))
	ectx.bind(engine, NewRouter())

	result, err := sub.Execute(context.Background(), map[string]any{
		"flow":     inner,
		"greeting": "hello",
	}, nil, ectx)
	require.NoError(t, err)
	assert.Equal(t, "hello", result["via_input"])
	assert.Equal(t, "hello", result["via_var"])

	// Nothing leaks back into the caller's context.
	_, ok := ectx.GetVar("greeting")
	assert.False(t, ok)
}

func TestSubFlowNodeRejectsNonFlowInput(t *testing.T) {
	sub := NewSubFlowNode(testDeps())
	ectx := NewContext(nil)
	ectx.bind(&Engine{}, NewRouter())

	_, err := sub.Execute(context.Background(), map[string]any{"flow": "nope"}, nil, ectx)
	require.Error(t, err)
}

func TestSubFlowNodeRequiresBoundEngine(t *testing.T) {
	registry := component.NewRegistry()
	engine := NewEngine(registry, nil, testDeps())
	inner := buildInnerFlow(t, engine, registry, map[string]any{"msg": "hi"})

	sub := NewSubFlowNode(testDeps())
	_, err := sub.Execute(context.Background(), map[string]any{"flow": inner}, nil, NewContext(nil))
	require.Error(t, err)
}

func TestSubFlowNodeEmptyInnerResult(t *testing.T) {
	registry := component.NewRegistry()
	engine := NewEngine(registry, nil, testDeps())
	inner := buildInnerFlow(t, engine, registry, map[string]any{})

	sub := NewSubFlowNode(testDeps())
	ectx := NewContext(nil)
	ectx.bind(engine, NewRouter())

	result, err := sub.Execute(context.Background(), map[string]any{"flow": inner}, nil, ectx)
	require.NoError(t, err)
	assert.Empty(t, result)
}
