package flow

import (
	"sync"

	"github.com/ddbase3/MissionBay-sub002/component"
)

// Context is the run-scoped shared state of a flow run: variables, the
// memory backend, and a reference to the router of the flow being run.
// Lifetime is caller-controlled; a fresh context per run gives stateless
// runs, a long-lived one gives continuity across calls.
//
// Variable access is serialized, so node bodies executed concurrently
// within a pass may read and write vars safely.
type Context struct {
	mu      sync.RWMutex
	vars    map[string]any
	overlay map[string]any
	parent  *Context
	memory  component.Memory
	router  *Router
	engine  *Engine
}

var _ component.RunContext = (*Context)(nil)

// NewContext creates a root context with the given memory backend.
// Memory may be nil; node bodies must then tolerate a nil Memory().
func NewContext(memory component.Memory) *Context {
	return &Context{
		vars:   make(map[string]any),
		memory: memory,
	}
}

// GetVar reads a variable. Lookup order: the overlay map, this context's
// own writes, then the parent chain.
func (c *Context) GetVar(name string) (any, bool) {
	c.mu.RLock()
	if c.overlay != nil {
		if v, ok := c.overlay[name]; ok {
			c.mu.RUnlock()
			return v, true
		}
	}
	if v, ok := c.vars[name]; ok {
		c.mu.RUnlock()
		return v, true
	}
	parent := c.parent
	c.mu.RUnlock()

	if parent != nil {
		return parent.GetVar(name)
	}
	return nil, false
}

// SetVar writes a variable into this context only. Writes in a derived
// overlay context never reach the parent.
func (c *Context) SetVar(name string, value any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.vars[name] = value
}

// Vars returns a snapshot of the variables visible from this context.
func (c *Context) Vars() map[string]any {
	out := make(map[string]any)
	c.collect(out)
	return out
}

func (c *Context) collect(out map[string]any) {
	if c.parent != nil {
		c.parent.collect(out)
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	for k, v := range c.vars {
		out[k] = v
	}
	for k, v := range c.overlay {
		out[k] = v
	}
}

// Memory returns the memory backend shared across the run.
func (c *Context) Memory() component.Memory {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.memory
}

// Router returns the router of the flow currently bound to this context,
// walking the parent chain for overlay contexts.
func (c *Context) Router() *Router {
	c.mu.RLock()
	router, parent := c.router, c.parent
	c.mu.RUnlock()

	if router == nil && parent != nil {
		return parent.Router()
	}
	return router
}

// Engine returns the engine driving the current run, walking the parent
// chain for overlay contexts. Higher-order nodes use it to run nested
// flows against the same runtime.
func (c *Context) Engine() *Engine {
	c.mu.RLock()
	engine, parent := c.engine, c.parent
	c.mu.RUnlock()

	if engine == nil && parent != nil {
		return parent.Engine()
	}
	return engine
}

// Overlay derives a child context whose reads give precedence to the
// extra map before falling through to this context. Writes stay in the
// child and never mutate the parent. Memory is shared.
func (c *Context) Overlay(extra map[string]any) *Context {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return &Context{
		vars:    make(map[string]any),
		overlay: extra,
		parent:  c,
		memory:  c.memory,
	}
}

// bind attaches the engine and router for the duration of a run.
func (c *Context) bind(engine *Engine, router *Router) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.engine = engine
	c.router = router
}
