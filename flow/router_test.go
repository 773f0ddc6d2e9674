package flow

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRouterIsReady(t *testing.T) {
	r := NewRouter()
	r.AddConnection("a", "out", "b", "in", false)
	r.AddConnection("c", "out", "b", "extra", false)

	assert.True(t, r.IsReady("a", map[string]any{}), "no incoming connections means ready")
	assert.False(t, r.IsReady("b", map[string]any{"in": 1}))
	assert.True(t, r.IsReady("b", map[string]any{"in": 1, "extra": nil}),
		"an explicit nil entry satisfies readiness")
}

func TestRouterMapInputsDeclarationOrder(t *testing.T) {
	r := NewRouter()
	r.AddConnection("a", "first", "b", "v", false)
	r.AddConnection("a", "second", "b", "v", false)

	mapped := r.MapInputs("a", "b", map[string]any{"first": 1, "second": 2})
	assert.Equal(t, 2, mapped["v"], "later connection to the same key wins")
}

func TestRouterMapInputsMissingSourceKeyYieldsNil(t *testing.T) {
	r := NewRouter()
	r.AddConnection("a", "absent", "b", "v", false)

	mapped := r.MapInputs("a", "b", map[string]any{"other": 1})
	v, present := mapped["v"]
	require.True(t, present)
	assert.Nil(t, v)
}

func TestRouterOutgoingKeepsOrder(t *testing.T) {
	r := NewRouter()
	r.AddConnection("a", "x", "b", "in", false)
	r.AddConnection("a", "y", "c", "in", false)
	r.AddConnection("z", "x", "b", "in2", false)

	out := r.Outgoing("a")
	require.Len(t, out, 2)
	assert.Equal(t, "b", out[0].ToNode)
	assert.Equal(t, "c", out[1].ToNode)

	assert.True(t, r.HasIncoming("b"))
	assert.False(t, r.HasIncoming("a"))
}

func TestRouterInitialInputsCopied(t *testing.T) {
	r := NewRouter()
	r.AddInitialInput("a", "k", "v")

	first := r.InitialInputs()
	first["a"]["k"] = "mutated"

	second := r.InitialInputs()
	assert.Equal(t, "v", second["a"]["k"])
}
