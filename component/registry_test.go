package component

import (
	"context"
	stderrors "errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ddbase3/MissionBay-sub002/errors"
)

type fakeNode struct{}

func (fakeNode) TypeName() string               { return "fake" }
func (fakeNode) InputPorts() []Port             { return nil }
func (fakeNode) OutputPorts() []Port            { return nil }
func (fakeNode) DockPorts() []DockPort          { return nil }
func (fakeNode) SetConfig(map[string]any) error { return nil }
func (fakeNode) Execute(context.Context, map[string]any, map[string][]any, RunContext) (map[string]any, error) {
	return map[string]any{}, nil
}

func TestRegistryRegisterAndResolve(t *testing.T) {
	r := NewRegistry()
	err := r.RegisterNode("fake", func(deps Dependencies) (Node, error) {
		return fakeNode{}, nil
	})
	require.NoError(t, err)

	node, err := r.NewNode("fake", Dependencies{})
	require.NoError(t, err)
	assert.Equal(t, "fake", node.TypeName())
}

func TestRegistryUnknownTypeName(t *testing.T) {
	r := NewRegistry()
	_, err := r.NewNode("ghost", Dependencies{})
	require.Error(t, err)
	assert.True(t, stderrors.Is(err, errors.ErrTypeNotFound))
	assert.True(t, errors.IsInvalid(err))
}

func TestRegistryDuplicateRegistration(t *testing.T) {
	r := NewRegistry()
	factory := func(deps Dependencies) (Node, error) { return fakeNode{}, nil }

	require.NoError(t, r.RegisterNode("fake", factory))
	err := r.RegisterNode("fake", factory)
	require.Error(t, err)
	assert.True(t, stderrors.Is(err, errors.ErrDuplicateFactory))
}

func TestRegistryKindsAreIndependent(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.RegisterNode("shared", func(deps Dependencies) (Node, error) {
		return fakeNode{}, nil
	}))
	require.NoError(t, r.RegisterResource("shared", func(deps Dependencies) (any, error) {
		return "a resource", nil
	}))

	res, err := r.NewResource("shared", Dependencies{})
	require.NoError(t, err)
	assert.Equal(t, "a resource", res)
}

func TestRegistryRejectsInvalidRegistrations(t *testing.T) {
	r := NewRegistry()

	err := r.Register(KindNode, "", func(deps Dependencies) (any, error) { return nil, nil })
	assert.Error(t, err)

	err = r.Register(KindNode, "named", nil)
	assert.Error(t, err)

	err = r.RegisterNode("named", nil)
	assert.Error(t, err)
}

func TestRegistryTypeNamesSorted(t *testing.T) {
	r := NewRegistry()
	for _, name := range []string{"zeta", "alpha", "mid"} {
		require.NoError(t, r.RegisterNode(name, func(deps Dependencies) (Node, error) {
			return fakeNode{}, nil
		}))
	}
	assert.Equal(t, []string{"alpha", "mid", "zeta"}, r.TypeNames(KindNode))
	assert.Empty(t, r.TypeNames(KindResource))
}
