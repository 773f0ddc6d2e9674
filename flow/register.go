package flow

import (
	"github.com/ddbase3/MissionBay-sub002/component"
	"github.com/ddbase3/MissionBay-sub002/errors"
)

// Register registers the higher-order node types with the registry:
//
//   - loop: repeated invocation of a held executable
//   - subflow: nested execution of a held flow
func Register(registry *component.Registry) error {
	if err := registry.RegisterNode("loop", func(deps component.Dependencies) (component.Node, error) {
		return NewLoopNode(deps), nil
	}); err != nil {
		return errors.Wrap(err, "flow", "Register", "loop node registration")
	}

	if err := registry.RegisterNode("subflow", func(deps component.Dependencies) (component.Node, error) {
		return NewSubFlowNode(deps), nil
	}); err != nil {
		return errors.Wrap(err, "flow", "Register", "subflow node registration")
	}

	return nil
}
