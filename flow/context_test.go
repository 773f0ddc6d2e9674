package flow

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestContextVars(t *testing.T) {
	ctx := NewContext(nil)
	ctx.SetVar("name", "alpha")

	v, ok := ctx.GetVar("name")
	require.True(t, ok)
	assert.Equal(t, "alpha", v)

	_, ok = ctx.GetVar("missing")
	assert.False(t, ok)
}

func TestContextOverlayReadPrecedence(t *testing.T) {
	parent := NewContext(nil)
	parent.SetVar("a", 1)
	parent.SetVar("b", 2)

	child := parent.Overlay(map[string]any{"b": 20, "c": 30})

	v, _ := child.GetVar("a")
	assert.Equal(t, 1, v, "falls through to the parent")
	v, _ = child.GetVar("b")
	assert.Equal(t, 20, v, "overlay shadows the parent")
	v, _ = child.GetVar("c")
	assert.Equal(t, 30, v)
}

func TestContextOverlayWritesStayInChild(t *testing.T) {
	parent := NewContext(nil)
	child := parent.Overlay(nil)

	child.SetVar("x", "child-only")

	_, ok := parent.GetVar("x")
	assert.False(t, ok, "child writes never reach the parent")

	v, ok := child.GetVar("x")
	require.True(t, ok)
	assert.Equal(t, "child-only", v)
}

func TestContextOverlayOwnWriteShadowedByOverlay(t *testing.T) {
	parent := NewContext(nil)
	child := parent.Overlay(map[string]any{"x": "pinned"})
	child.SetVar("x", "written")

	v, _ := child.GetVar("x")
	assert.Equal(t, "pinned", v, "overlay reads take precedence over own writes")
}

func TestContextVarsSnapshot(t *testing.T) {
	parent := NewContext(nil)
	parent.SetVar("a", 1)
	child := parent.Overlay(map[string]any{"b": 2})
	child.SetVar("c", 3)

	snap := child.Vars()
	assert.Equal(t, map[string]any{"a": 1, "b": 2, "c": 3}, snap)
}

func TestContextEngineWalksParentChain(t *testing.T) {
	parent := NewContext(nil)
	engine := &Engine{}
	router := NewRouter()
	parent.bind(engine, router)

	child := parent.Overlay(nil)
	assert.Same(t, engine, child.Engine())
	assert.Same(t, router, child.Router())
}

func TestContextSharesMemoryWithOverlay(t *testing.T) {
	mem := NewMemory(NewMapStore())
	parent := NewContext(mem)
	child := parent.Overlay(nil)

	assert.Same(t, parent.Memory(), child.Memory())
}
