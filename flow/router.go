package flow

// Connection is a registered directed edge between two node ports.
type Connection struct {
	FromNode   string
	FromOutput string
	ToNode     string
	ToInput    string
	Mandatory  bool
}

// Router owns the wiring graph of a flow. It answers readiness and
// input-mapping queries but never executes anything; cycle handling is
// the engine's concern via its iteration ceiling.
//
// Delivery order is a hard contract: initial inputs first, connection
// deliveries second (in declaration order, later connections to the same
// key win), port defaults last.
type Router struct {
	connections []Connection
	initial     map[string]map[string]any
}

// NewRouter creates an empty router.
func NewRouter() *Router {
	return &Router{
		initial: make(map[string]map[string]any),
	}
}

// AddConnection registers a connection. Append-only; no cycle detection.
func (r *Router) AddConnection(from, output, to, input string, mandatory bool) {
	r.connections = append(r.connections, Connection{
		FromNode:   from,
		FromOutput: output,
		ToNode:     to,
		ToInput:    input,
		Mandatory:  mandatory,
	})
}

// AddInitialInput registers a pre-seeded input value for a node. Initial
// inputs are applied once at run setup, before any connection delivery;
// a later connection to the same key overwrites the seeded value.
func (r *Router) AddInitialInput(nodeID, key string, value any) {
	inputs, ok := r.initial[nodeID]
	if !ok {
		inputs = make(map[string]any)
		r.initial[nodeID] = inputs
	}
	inputs[key] = value
}

// InitialInputs returns a copy of the registered initial inputs.
func (r *Router) InitialInputs() map[string]map[string]any {
	out := make(map[string]map[string]any, len(r.initial))
	for nodeID, inputs := range r.initial {
		m := make(map[string]any, len(inputs))
		for k, v := range inputs {
			m[k] = v
		}
		out[nodeID] = m
	}
	return out
}

// Connections returns the registered connections in declaration order.
func (r *Router) Connections() []Connection {
	return r.connections
}

// Outgoing returns the connections originating at the given node, in
// declaration order.
func (r *Router) Outgoing(nodeID string) []Connection {
	var out []Connection
	for _, c := range r.connections {
		if c.FromNode == nodeID {
			out = append(out, c)
		}
	}
	return out
}

// HasIncoming reports whether any connection targets the given node.
func (r *Router) HasIncoming(nodeID string) bool {
	for _, c := range r.connections {
		if c.ToNode == nodeID {
			return true
		}
	}
	return false
}

// IsReady reports whether every incoming connection's target key is
// already present in the node's current input buffer. A node with no
// incoming connections is always ready.
//
// Readiness is necessary but not sufficient: required ports with no
// incoming connection are validated later by the engine via defaults.
func (r *Router) IsReady(nodeID string, currentInputs map[string]any) bool {
	for _, c := range r.connections {
		if c.ToNode != nodeID {
			continue
		}
		if _, present := currentInputs[c.ToInput]; !present {
			return false
		}
	}
	return true
}

// MapInputs computes the inputs delivered from one node to another for
// the given output map. Every connection between the pair contributes, in
// declaration order; a missing source key yields an explicit nil entry,
// not an omission. Required/default checks still apply downstream.
func (r *Router) MapInputs(fromNode, toNode string, output map[string]any) map[string]any {
	mapped := make(map[string]any)
	for _, c := range r.connections {
		if c.FromNode != fromNode || c.ToNode != toNode {
			continue
		}
		mapped[c.ToInput] = output[c.FromOutput]
	}
	return mapped
}
