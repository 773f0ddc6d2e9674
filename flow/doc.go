// Package flow implements the declarative dataflow execution engine: a
// graph of typed nodes connected through named ports, executed over a
// shared runtime context with per-node resource docking and partial
// failure tolerance.
//
// # Model
//
// A flow description declares nodes (id + type name + initial inputs +
// config), connections between output and input ports, shared resources,
// and dock bindings. The Engine resolves instances by type name through
// a component.Registry, registers the wiring with a Router, and drives
// iterative execution passes: each pass executes every node whose
// required inputs are already buffered and propagates its outputs into
// downstream buffers. The run ends when all nodes have executed or no
// further progress is possible; outputs of nodes with no outgoing
// connection form the result.
//
// Readiness is evaluated per pass from actual buffered data rather than
// from a precomputed topological order: the same structural graph can
// light up different dynamic paths depending on which output port a node
// actually populates. Cycles are tolerated structurally and bounded only
// by the engine's pass ceiling.
//
// # Failure semantics
//
// Node failures never abort a run. A missing required input, a returned
// error, or a panic each yield a synthetic {error: message} result for
// that node only; siblings and downstream nodes reachable through other
// paths still execute. A stalled run with unexecuted nodes is a partial
// completion, not an error. Only an exceeded pass ceiling escapes as the
// run result. Callers must inspect every terminal output for an "error"
// key.
//
// # Higher-order composition
//
// LoopNode and SubFlowNode consume the engine itself: a live executable
// or flow instance arrives through an input port and is invoked
// repeatedly or as a nested run over an overlay context.
package flow
