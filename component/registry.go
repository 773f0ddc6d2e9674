package component

import (
	"fmt"
	"sort"
	"sync"

	"github.com/ddbase3/MissionBay-sub002/errors"
)

// Kind classifies what a registered factory produces.
type Kind string

// Factory kinds resolvable by name.
const (
	KindNode     Kind = "node"
	KindResource Kind = "resource"
	KindFlow     Kind = "flow"
	KindMemory   Kind = "memory"
	KindRouter   Kind = "router"
)

// Factory creates an instance from the shared dependencies. Factories do
// no I/O; anything blocking belongs in the instance's own operations.
type Factory func(deps Dependencies) (any, error)

// Registry is the process-local mapping from type-name strings to factory
// functions, populated at startup. An unknown name yields a typed
// not-found error, never a silent nil.
type Registry struct {
	factories map[Kind]map[string]Factory
	mu        sync.RWMutex
}

// NewRegistry creates a new empty registry.
func NewRegistry() *Registry {
	return &Registry{
		factories: make(map[Kind]map[string]Factory),
	}
}

// Register registers a factory for the given kind and type name.
// Returns an error if a factory with the same kind and name exists.
func (r *Registry) Register(kind Kind, name string, factory Factory) error {
	if name == "" {
		return errors.WrapInvalid(errors.ErrInvalidConfig, "Registry", "Register", "type name validation")
	}
	if factory == nil {
		return errors.WrapInvalid(errors.ErrInvalidConfig, "Registry", "Register", "factory validation")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	byName := r.factories[kind]
	if byName == nil {
		byName = make(map[string]Factory)
		r.factories[kind] = byName
	}
	if _, exists := byName[name]; exists {
		return errors.WrapInvalid(
			fmt.Errorf("%w: %s '%s'", errors.ErrDuplicateFactory, kind, name),
			"Registry", "Register", "duplicate factory check")
	}

	byName[name] = factory
	return nil
}

// RegisterNode registers a node factory under KindNode.
func (r *Registry) RegisterNode(name string, factory func(deps Dependencies) (Node, error)) error {
	if factory == nil {
		return errors.WrapInvalid(errors.ErrInvalidConfig, "Registry", "RegisterNode", "factory validation")
	}
	return r.Register(KindNode, name, func(deps Dependencies) (any, error) {
		return factory(deps)
	})
}

// RegisterResource registers a resource factory under KindResource.
func (r *Registry) RegisterResource(name string, factory Factory) error {
	return r.Register(KindResource, name, factory)
}

// Resolve creates an instance for the given kind and type name.
// An unregistered name returns errors.ErrTypeNotFound.
func (r *Registry) Resolve(kind Kind, name string, deps Dependencies) (any, error) {
	r.mu.RLock()
	factory, exists := r.factories[kind][name]
	r.mu.RUnlock()

	if !exists {
		return nil, errors.WrapInvalid(
			fmt.Errorf("%w: %s '%s'", errors.ErrTypeNotFound, kind, name),
			"Registry", "Resolve", "factory lookup")
	}

	instance, err := factory(deps)
	if err != nil {
		return nil, errors.Wrap(err, "Registry", "Resolve", "factory execution")
	}
	return instance, nil
}

// NewNode resolves a node instance by type name.
func (r *Registry) NewNode(name string, deps Dependencies) (Node, error) {
	instance, err := r.Resolve(KindNode, name, deps)
	if err != nil {
		return nil, err
	}
	node, ok := instance.(Node)
	if !ok {
		return nil, errors.WrapInvalid(
			fmt.Errorf("factory for '%s' did not return a Node", name),
			"Registry", "NewNode", "type assertion")
	}
	return node, nil
}

// NewResource resolves a resource instance by type name.
func (r *Registry) NewResource(name string, deps Dependencies) (any, error) {
	return r.Resolve(KindResource, name, deps)
}

// TypeNames returns the sorted registered type names for a kind.
func (r *Registry) TypeNames(kind Kind) []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.factories[kind]))
	for name := range r.factories[kind] {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
