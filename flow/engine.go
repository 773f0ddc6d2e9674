package flow

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/ddbase3/MissionBay-sub002/component"
	"github.com/ddbase3/MissionBay-sub002/config"
	"github.com/ddbase3/MissionBay-sub002/errors"
	"github.com/ddbase3/MissionBay-sub002/event"
	"github.com/ddbase3/MissionBay-sub002/metric"
)

const (
	// InputSentinel is the reserved source id for run inputs. Connections
	// from this sentinel deliver external inputs, matched by output name.
	InputSentinel = "$input"

	// maxPasses bounds the number of execution passes per run. A graph
	// still making progress past this ceiling ends with a fatal
	// iteration-exceeded result, never a silent truncation.
	maxPasses = 1000
)

// Flow is a runnable graph built from a description: resolved node and
// resource instances plus the registered wiring. A Flow carries no
// per-run state (buffers and execution registers belong to the run), so
// it may be reused across run invocations.
type Flow struct {
	nodeIDs   []string
	nodes     map[string]component.Node
	resources map[string]any
	docks     map[string]map[string][]string
	router    *Router
}

// Nodes returns the node ids in declaration order.
func (f *Flow) Nodes() []string {
	out := make([]string, len(f.nodeIDs))
	copy(out, f.nodeIDs)
	return out
}

// Node returns the node instance with the given id.
func (f *Flow) Node(id string) (component.Node, bool) {
	n, ok := f.nodes[id]
	return n, ok
}

// Router returns the flow's router.
func (f *Flow) Router() *Router {
	return f.router
}

// Clone returns a copy of the flow that shares node and resource
// instances but owns its own wiring tables, preventing cross-run state
// leakage when a nested flow execution mutates its copy.
func (f *Flow) Clone() *Flow {
	clone := &Flow{
		nodeIDs:   append([]string(nil), f.nodeIDs...),
		nodes:     make(map[string]component.Node, len(f.nodes)),
		resources: make(map[string]any, len(f.resources)),
		docks:     make(map[string]map[string][]string, len(f.docks)),
		router:    NewRouter(),
	}
	for id, n := range f.nodes {
		clone.nodes[id] = n
	}
	for id, r := range f.resources {
		clone.resources[id] = r
	}
	for nodeID, docks := range f.docks {
		m := make(map[string][]string, len(docks))
		for name, bound := range docks {
			m[name] = append([]string(nil), bound...)
		}
		clone.docks[nodeID] = m
	}
	clone.router.connections = append([]Connection(nil), f.router.connections...)
	clone.router.initial = f.router.InitialInputs()
	return clone
}

// Engine builds runnable flows from declarative descriptions and drives
// their iterative execution.
type Engine struct {
	registry *component.Registry
	resolver *config.Resolver
	deps     component.Dependencies
	logger   *slog.Logger
	emitter  event.Emitter
	metrics  *engineMetrics
	parallel int
}

// Option configures an Engine.
type Option func(*Engine)

// WithEmitter streams run progress events to the given emitter.
func WithEmitter(emitter event.Emitter) Option {
	return func(e *Engine) { e.emitter = emitter }
}

// WithParallel executes up to n independently-ready nodes of one pass
// concurrently. Outputs become visible to downstream buffers only after
// the whole pass completes. n < 2 keeps sequential execution.
func WithParallel(n int) Option {
	return func(e *Engine) { e.parallel = n }
}

// NewEngine creates a flow engine. The registry resolves node and
// resource instances by type name; the resolver applies the {mode, value}
// configuration contract. Metrics come from deps.Metrics and are optional.
func NewEngine(
	registry *component.Registry,
	resolver *config.Resolver,
	deps component.Dependencies,
	opts ...Option,
) *Engine {
	logger := deps.GetLoggerWithComponent("flow-engine")

	metrics, err := newEngineMetrics(deps.Metrics)
	if err != nil {
		logger.Error("Failed to initialize flow engine metrics", "error", err)
		metrics = nil // Continue without metrics
	}

	if resolver == nil {
		resolver = config.NewResolver(deps.Config)
	}

	e := &Engine{
		registry: registry,
		resolver: resolver,
		deps:     deps,
		logger:   logger,
		metrics:  metrics,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Metrics returns the metrics registry the engine records into, if any.
func (e *Engine) Metrics() *metric.Registry {
	return e.deps.Metrics
}

// Build resolves a validated description into a runnable Flow: resource
// instances first, then node instances with their identity and resolved
// configuration, then the wiring registered with a fresh router.
//
// An unknown node or resource type name is a hard load error carrying
// errors.ErrTypeNotFound. Earlier revisions skipped unknown types
// silently; callers that relied on that leniency must now prune unknown
// node declarations before building.
func (e *Engine) Build(desc *Description) (*Flow, error) {
	if desc == nil {
		return nil, errors.WrapInvalid(
			fmt.Errorf("%w: description cannot be nil", errors.ErrInvalidGraph),
			"Engine", "Build", "description validation")
	}
	if err := desc.Validate(); err != nil {
		e.metrics.recordBuildError()
		return nil, err
	}

	f := &Flow{
		nodes:     make(map[string]component.Node, len(desc.Nodes)),
		resources: make(map[string]any, len(desc.Resources)),
		docks:     make(map[string]map[string][]string, len(desc.Docks)),
		router:    NewRouter(),
	}

	for _, rd := range desc.Resources {
		instance, err := e.registry.NewResource(rd.Type, e.deps)
		if err != nil {
			e.metrics.recordBuildError()
			return nil, errors.Wrap(err, "Engine", "Build",
				fmt.Sprintf("resolve resource '%s'", rd.ID))
		}
		if configurable, ok := instance.(component.Configurable); ok && rd.Config != nil {
			resolved, err := e.resolver.ResolveMap(rd.Config, nil)
			if err != nil {
				e.metrics.recordBuildError()
				return nil, errors.Wrap(err, "Engine", "Build",
					fmt.Sprintf("resolve config for resource '%s'", rd.ID))
			}
			if err := configurable.SetConfig(resolved); err != nil {
				e.metrics.recordBuildError()
				return nil, errors.WrapInvalid(err, "Engine", "Build",
					fmt.Sprintf("configure resource '%s'", rd.ID))
			}
		}
		f.resources[rd.ID] = instance
	}

	for _, nd := range desc.Nodes {
		node, err := e.registry.NewNode(nd.Type, e.deps)
		if err != nil {
			e.metrics.recordBuildError()
			return nil, errors.Wrap(err, "Engine", "Build",
				fmt.Sprintf("resolve node '%s'", nd.ID))
		}
		if identifiable, ok := node.(component.Identifiable); ok {
			identifiable.SetID(nd.ID)
		}
		if nd.Config != nil {
			resolved, err := e.resolver.ResolveMap(nd.Config, nil)
			if err != nil {
				e.metrics.recordBuildError()
				return nil, errors.Wrap(err, "Engine", "Build",
					fmt.Sprintf("resolve config for node '%s'", nd.ID))
			}
			if err := node.SetConfig(resolved); err != nil {
				e.metrics.recordBuildError()
				return nil, errors.WrapInvalid(err, "Engine", "Build",
					fmt.Sprintf("configure node '%s'", nd.ID))
			}
		}

		f.nodeIDs = append(f.nodeIDs, nd.ID)
		f.nodes[nd.ID] = node

		for key, value := range nd.Inputs {
			f.router.AddInitialInput(nd.ID, key, value)
		}
	}

	for _, cd := range desc.Connections {
		f.router.AddConnection(cd.From, cd.Output, cd.To, cd.Input, cd.Mandatory)
	}

	for nodeID, docks := range desc.Docks {
		node := f.nodes[nodeID]
		bound := make(map[string][]string, len(docks))
		for dockName, resourceIDs := range docks {
			dock, ok := findDock(node.DockPorts(), dockName)
			if !ok {
				e.metrics.recordBuildError()
				return nil, errors.WrapInvalid(
					fmt.Errorf("%w: node '%s' has no dock '%s'",
						errors.ErrInvalidGraph, nodeID, dockName),
					"Engine", "Build", "dock validation")
			}
			if dock.MaxResources > 0 && len(resourceIDs) > dock.MaxResources {
				e.metrics.recordBuildError()
				return nil, errors.WrapInvalid(
					fmt.Errorf("%w: dock '%s.%s' binds %d resources, maximum is %d",
						errors.ErrInvalidGraph, nodeID, dockName, len(resourceIDs), dock.MaxResources),
					"Engine", "Build", "dock bound validation")
			}
			bound[dockName] = append([]string(nil), resourceIDs...)
		}
		f.docks[nodeID] = bound
	}

	return f, nil
}

// Run executes the flow with a fresh execution context backed by an
// in-process memory store. See RunWithContext for the run semantics.
func (e *Engine) Run(ctx context.Context, f *Flow, external map[string]any) ([]map[string]any, error) {
	return e.RunWithContext(ctx, f, external, NewContext(NewMemory(NewMapStore())))
}

// RunWithContext executes the flow over the given execution context in
// iterative passes: each pass executes every not-yet-executed node whose
// buffered inputs satisfy its incoming connections, propagating outputs
// through the router into downstream buffers. The run ends when all
// nodes have executed or a full pass makes no progress (a legitimate
// partial completion for data-dependent graphs). Outputs of nodes with
// no outgoing connection form the result, in declaration order.
//
// Node failures never abort the run; they surface as {error: message}
// entries. Only an exceeded iteration ceiling escapes as the run result,
// as a single synthetic error entry plus errors.ErrIterationExceeded.
func (e *Engine) RunWithContext(
	ctx context.Context, f *Flow, external map[string]any, ectx *Context,
) ([]map[string]any, error) {
	start := time.Now()
	runID := uuid.NewString()
	ectx.bind(e, f.router)

	e.emit(event.Event{Type: event.TypeRunStart, RunID: runID})

	run := &runState{
		buffers:  make(map[string]map[string]any, len(f.nodeIDs)),
		executed: make(map[string]bool, len(f.nodeIDs)),
		outputs:  make(map[string]map[string]any, len(f.nodeIDs)),
	}
	for _, id := range f.nodeIDs {
		run.buffers[id] = make(map[string]any)
	}

	// Initial inputs first.
	for nodeID, inputs := range f.router.InitialInputs() {
		buffer, ok := run.buffers[nodeID]
		if !ok {
			continue
		}
		for k, v := range inputs {
			buffer[k] = v
		}
	}

	// External inputs second, through the sentinel connections.
	if external != nil {
		for _, id := range f.nodeIDs {
			mapped := f.router.MapInputs(InputSentinel, id, external)
			for k, v := range mapped {
				run.buffers[id][k] = v
			}
		}
	}

	passes := 0
	status := "completed"
	var runErr error

	for {
		passes++
		if passes > maxPasses {
			status = "iteration_exceeded"
			runErr = errors.WrapFatal(
				errors.ErrIterationExceeded, "Engine", "Run",
				fmt.Sprintf("pass ceiling of %d", maxPasses))
			break
		}

		var progressed bool
		if e.parallel > 1 {
			progressed = e.runPassParallel(ctx, f, run, ectx, runID, passes)
		} else {
			progressed = e.runPass(ctx, f, run, ectx, runID, passes)
		}

		if len(run.executed) == len(f.nodeIDs) {
			break
		}
		if !progressed {
			status = "partial"
			e.logger.Debug("Flow run stalled with unexecuted nodes",
				"run_id", runID, "executed", len(run.executed), "total", len(f.nodeIDs))
			break
		}
	}

	duration := time.Since(start)
	e.metrics.recordRun(status, passes, duration)
	e.emit(event.Event{Type: event.TypeRunEnd, RunID: runID, Message: status})

	if runErr != nil {
		return []map[string]any{
			{"error": fmt.Sprintf("iteration limit (%d) exceeded", maxPasses)},
		}, runErr
	}

	// Terminal nodes: zero outgoing connections anywhere in the graph.
	// Never-executed nodes contribute nothing.
	var results []map[string]any
	for _, id := range f.nodeIDs {
		if len(f.router.Outgoing(id)) > 0 {
			continue
		}
		if output, ok := run.outputs[id]; ok {
			results = append(results, output)
		}
	}
	return results, nil
}

// runState carries the per-run mutable registers.
type runState struct {
	buffers  map[string]map[string]any
	executed map[string]bool
	outputs  map[string]map[string]any
}

// runPass sweeps the not-yet-executed nodes in declaration order,
// executing each one that is ready. Outputs propagate immediately, so a
// node later in the same pass may become ready mid-sweep.
func (e *Engine) runPass(
	ctx context.Context, f *Flow, run *runState, ectx *Context, runID string, pass int,
) bool {
	e.emit(event.Event{Type: event.TypePass, RunID: runID, Pass: pass})

	progressed := false
	for _, id := range f.nodeIDs {
		if run.executed[id] {
			continue
		}
		if !f.router.IsReady(id, run.buffers[id]) {
			continue
		}

		result := e.executeNode(ctx, f, id, run.buffers[id], ectx, runID, pass)
		run.executed[id] = true
		run.outputs[id] = result
		e.propagate(f, run, id, result)
		progressed = true
	}
	return progressed
}

// propagate delivers a node's result along its outgoing connections, in
// router declaration order; later connections to the same key win. A
// delivery into an already-executed node re-arms it for the next pass,
// which is what lets a cycle keep running until the pass ceiling.
func (e *Engine) propagate(f *Flow, run *runState, nodeID string, result map[string]any) {
	delivered := make(map[string]bool)
	for _, c := range f.router.Outgoing(nodeID) {
		if delivered[c.ToNode] {
			continue
		}
		delivered[c.ToNode] = true
		mapped := f.router.MapInputs(nodeID, c.ToNode, result)
		buffer := run.buffers[c.ToNode]
		for k, v := range mapped {
			buffer[k] = v
		}
		if run.executed[c.ToNode] {
			delete(run.executed, c.ToNode)
		}
	}
}

// executeNode runs one node: default injection, dock resolution, body
// invocation with fault capture, output-default injection, bookkeeping.
func (e *Engine) executeNode(
	ctx context.Context, f *Flow, id string, buffer map[string]any,
	ectx *Context, runID string, pass int,
) map[string]any {
	node := f.nodes[id]
	nodeType := node.TypeName()

	e.emit(event.Event{Type: event.TypeNodeStart, RunID: runID, NodeID: id, NodeType: nodeType, Pass: pass})

	// Inject port defaults; a required port with no default and no
	// supplied value replaces the execution with a synthetic error.
	for _, port := range node.InputPorts() {
		if _, present := buffer[port.Name]; present {
			continue
		}
		if port.Required && port.Default == nil {
			msg := fmt.Sprintf("missing required input %s for node %s", port.Name, id)
			e.metrics.recordNode(nodeType, true, 0)
			e.emit(event.Event{Type: event.TypeNodeError, RunID: runID, NodeID: id, NodeType: nodeType, Error: msg})
			return map[string]any{"error": msg}
		}
		if port.Default != nil {
			buffer[port.Name] = port.Default
		}
	}

	resources := e.resolveDocks(f, id, node)

	start := time.Now()
	result, err := invokeBody(ctx, node, buffer, resources, ectx)
	duration := time.Since(start)

	if err != nil {
		e.metrics.recordNode(nodeType, true, duration)
		e.emit(event.Event{Type: event.TypeNodeError, RunID: runID, NodeID: id, NodeType: nodeType, Error: err.Error()})
		return map[string]any{"error": err.Error()}
	}
	if result == nil {
		result = make(map[string]any)
	}

	// Output defaults are additive only; a key the body returned is
	// never overwritten, even when its value is empty or falsy.
	for _, port := range node.OutputPorts() {
		if port.Default == nil {
			continue
		}
		if _, present := result[port.Name]; !present {
			result[port.Name] = port.Default
		}
	}

	if mem := ectx.Memory(); mem != nil {
		if err := mem.Append(ctx, id, result); err != nil {
			e.logger.Warn("Failed to append node history", "node_id", id, "error", err)
		}
	}

	e.metrics.recordNode(nodeType, false, duration)
	e.emit(event.Event{Type: event.TypeNodeDone, RunID: runID, NodeID: id, NodeType: nodeType, Pass: pass})
	return result
}

// resolveDocks binds each dock name to the resource instances bound to it
// in the flow's resource table. Unbound docks yield empty lists; nodes
// must degrade gracefully.
func (e *Engine) resolveDocks(f *Flow, id string, node component.Node) map[string][]any {
	dockPorts := node.DockPorts()
	if len(dockPorts) == 0 {
		return nil
	}

	resources := make(map[string][]any, len(dockPorts))
	for _, dock := range dockPorts {
		bound := f.docks[id][dock.Name]
		list := make([]any, 0, len(bound))
		for _, rid := range bound {
			if instance, ok := f.resources[rid]; ok {
				list = append(list, instance)
			}
		}
		resources[dock.Name] = list
	}
	return resources
}

// invokeBody calls the node body, converting a panic into an error so a
// node can never abort the run.
func invokeBody(
	ctx context.Context, node component.Node, inputs map[string]any,
	resources map[string][]any, ectx *Context,
) (result map[string]any, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("node panic: %v", r)
		}
	}()
	return node.Execute(ctx, inputs, resources, ectx)
}

func (e *Engine) emit(ev event.Event) {
	if e.emitter == nil {
		return
	}
	ev.Timestamp = time.Now()
	e.emitter.Emit(ev)
}

func findDock(docks []component.DockPort, name string) (component.DockPort, bool) {
	for _, d := range docks {
		if d.Name == name {
			return d, true
		}
	}
	return component.DockPort{}, false
}
