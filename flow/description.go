package flow

import (
	"encoding/json"
	"fmt"

	"github.com/ddbase3/MissionBay-sub002/errors"
)

// NodeDef declares one node instance in a flow description.
type NodeDef struct {
	ID     string         `json:"id"`
	Type   string         `json:"type"`
	Inputs map[string]any `json:"inputs,omitempty"`
	Config map[string]any `json:"config,omitempty"`
}

// ConnectionDef declares a directed edge from one node's output port to
// another node's input port. From may be the reserved InputSentinel to
// receive run inputs.
type ConnectionDef struct {
	From      string `json:"from"`
	Output    string `json:"output"`
	To        string `json:"to"`
	Input     string `json:"input"`
	Mandatory bool   `json:"mandatory,omitempty"`
}

// ResourceDef declares a shared resource instance.
type ResourceDef struct {
	ID     string         `json:"id"`
	Type   string         `json:"type"`
	Config map[string]any `json:"config,omitempty"`
}

// Description is the declarative graph description loaded into the
// engine: nodes, connections, resources, dock bindings.
type Description struct {
	Nodes       []NodeDef                      `json:"nodes"`
	Connections []ConnectionDef                `json:"connections,omitempty"`
	Resources   []ResourceDef                  `json:"resources,omitempty"`
	Docks       map[string]map[string][]string `json:"docks,omitempty"`
}

// ParseDescription validates raw JSON against the description schema and
// unmarshals it. Structural problems are load errors.
func ParseDescription(data []byte) (*Description, error) {
	if err := validateDescriptionSchema(data); err != nil {
		return nil, err
	}

	var desc Description
	if err := json.Unmarshal(data, &desc); err != nil {
		return nil, errors.WrapInvalid(err, "Description", "ParseDescription", "json unmarshal")
	}
	if err := desc.Validate(); err != nil {
		return nil, err
	}
	return &desc, nil
}

// Validate checks referential integrity: unique node and resource ids,
// connections and docks referencing declared ids only. The reserved
// InputSentinel is a valid connection source.
func (d *Description) Validate() error {
	if len(d.Nodes) == 0 {
		return errors.WrapInvalid(
			fmt.Errorf("%w: no nodes declared", errors.ErrInvalidGraph),
			"Description", "Validate", "node list validation")
	}

	nodeIDs := make(map[string]bool, len(d.Nodes))
	for _, n := range d.Nodes {
		if n.ID == "" || n.Type == "" {
			return errors.WrapInvalid(
				fmt.Errorf("%w: node id and type are required", errors.ErrInvalidGraph),
				"Description", "Validate", "node validation")
		}
		if n.ID == InputSentinel {
			return errors.WrapInvalid(
				fmt.Errorf("%w: node id '%s' is reserved", errors.ErrInvalidGraph, InputSentinel),
				"Description", "Validate", "node id validation")
		}
		if nodeIDs[n.ID] {
			return errors.WrapInvalid(
				fmt.Errorf("%w: duplicate node id '%s'", errors.ErrInvalidGraph, n.ID),
				"Description", "Validate", "node id uniqueness")
		}
		nodeIDs[n.ID] = true
	}

	resourceIDs := make(map[string]bool, len(d.Resources))
	for _, r := range d.Resources {
		if r.ID == "" || r.Type == "" {
			return errors.WrapInvalid(
				fmt.Errorf("%w: resource id and type are required", errors.ErrInvalidGraph),
				"Description", "Validate", "resource validation")
		}
		if resourceIDs[r.ID] {
			return errors.WrapInvalid(
				fmt.Errorf("%w: duplicate resource id '%s'", errors.ErrInvalidGraph, r.ID),
				"Description", "Validate", "resource id uniqueness")
		}
		resourceIDs[r.ID] = true
	}

	for _, c := range d.Connections {
		if c.From != InputSentinel && !nodeIDs[c.From] {
			return errors.WrapInvalid(
				fmt.Errorf("%w: connection references unknown node '%s'", errors.ErrInvalidGraph, c.From),
				"Description", "Validate", "connection source validation")
		}
		if !nodeIDs[c.To] {
			return errors.WrapInvalid(
				fmt.Errorf("%w: connection references unknown node '%s'", errors.ErrInvalidGraph, c.To),
				"Description", "Validate", "connection target validation")
		}
		if c.Output == "" || c.Input == "" {
			return errors.WrapInvalid(
				fmt.Errorf("%w: connection port names are required", errors.ErrInvalidGraph),
				"Description", "Validate", "connection port validation")
		}
	}

	for nodeID, docks := range d.Docks {
		if !nodeIDs[nodeID] {
			return errors.WrapInvalid(
				fmt.Errorf("%w: dock references unknown node '%s'", errors.ErrInvalidGraph, nodeID),
				"Description", "Validate", "dock node validation")
		}
		for dockName, bound := range docks {
			for _, rid := range bound {
				if !resourceIDs[rid] {
					return errors.WrapInvalid(
						fmt.Errorf("%w: dock '%s.%s' references unknown resource '%s'",
							errors.ErrInvalidGraph, nodeID, dockName, rid),
						"Description", "Validate", "dock resource validation")
				}
			}
		}
	}

	return nil
}
