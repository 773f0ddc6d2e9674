package nodes

import (
	"github.com/ddbase3/MissionBay-sub002/component"
	"github.com/ddbase3/MissionBay-sub002/errors"
)

// Register wires the builtin node and resource types into the registry.
func Register(registry *component.Registry) error {
	nodeFactories := map[string]func(deps component.Dependencies) (component.Node, error){
		"http_get": func(deps component.Dependencies) (component.Node, error) {
			return NewHTTPGetNode(deps)
		},
		"json_decode": func(deps component.Dependencies) (component.Node, error) {
			return NewJSONDecodeNode("json_decode"), nil
		},
		"to_array": func(deps component.Dependencies) (component.Node, error) {
			return NewJSONDecodeNode("to_array"), nil
		},
		"template": func(deps component.Dependencies) (component.Node, error) {
			return NewTemplateNode(), nil
		},
		"log": func(deps component.Dependencies) (component.Node, error) {
			return NewLogNode(deps)
		},
		"delay": func(deps component.Dependencies) (component.Node, error) {
			return NewDelayNode(), nil
		},
		"set_var": func(deps component.Dependencies) (component.Node, error) {
			return NewSetVarNode(), nil
		},
		"get_var": func(deps component.Dependencies) (component.Node, error) {
			return NewGetVarNode(), nil
		},
		"echo": func(deps component.Dependencies) (component.Node, error) {
			return NewEchoNode(), nil
		},
	}
	for name, factory := range nodeFactories {
		if err := registry.RegisterNode(name, factory); err != nil {
			return errors.Wrap(err, "nodes", "Register", "node factory registration")
		}
	}

	resourceFactories := map[string]component.Factory{
		"http_client": func(deps component.Dependencies) (any, error) {
			return NewHTTPClient(), nil
		},
		"logger": func(deps component.Dependencies) (any, error) {
			return NewLogger(deps), nil
		},
	}
	for name, factory := range resourceFactories {
		if err := registry.RegisterResource(name, factory); err != nil {
			return errors.Wrap(err, "nodes", "Register", "resource factory registration")
		}
	}
	return nil
}
