package config

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ddbase3/MissionBay-sub002/errors"
)

func TestResolve_PlainValuesPassThrough(t *testing.T) {
	r := NewResolver(nil)

	for _, value := range []any{"literal", 42, true, []any{1, 2}, nil} {
		out, err := r.Resolve(value, nil)
		require.NoError(t, err)
		assert.Equal(t, value, out)
	}

	// A map without a mode tag is ordinary structured data.
	plain := map[string]any{"host": "localhost"}
	out, err := r.Resolve(plain, nil)
	require.NoError(t, err)
	assert.Equal(t, plain, out)
}

func TestResolve_Fixed(t *testing.T) {
	r := NewResolver(nil)

	out, err := r.Resolve(map[string]any{"mode": ModeFixed, "value": "pinned"}, "supplied")
	require.NoError(t, err)
	assert.Equal(t, "pinned", out, "fixed ignores the supplied value")
}

func TestResolve_Default(t *testing.T) {
	r := NewResolver(nil)
	fragment := map[string]any{"mode": ModeDefault, "value": "fallback"}

	out, err := r.Resolve(fragment, nil)
	require.NoError(t, err)
	assert.Equal(t, "fallback", out)

	out, err = r.Resolve(fragment, "caller")
	require.NoError(t, err)
	assert.Equal(t, "caller", out)
}

func TestResolve_Inherit(t *testing.T) {
	r := NewResolver(nil)
	fragment := map[string]any{"mode": ModeInherit, "value": "ignored"}

	out, err := r.Resolve(fragment, "runtime")
	require.NoError(t, err)
	assert.Equal(t, "runtime", out)

	out, err = r.Resolve(fragment, nil)
	require.NoError(t, err)
	assert.Nil(t, out)
}

func TestResolve_Env(t *testing.T) {
	r := NewResolver(nil)
	t.Setenv("FLOW_TEST_TOKEN", "secret")

	out, err := r.Resolve(map[string]any{"mode": ModeEnv, "value": "FLOW_TEST_TOKEN"}, nil)
	require.NoError(t, err)
	assert.Equal(t, "secret", out)

	_, err = r.Resolve(map[string]any{"mode": ModeEnv}, nil)
	assert.Error(t, err)
}

func TestResolve_Config(t *testing.T) {
	host := New()
	host.Set("http", "base_url", "https://api.example.com")
	r := NewResolver(host)

	out, err := r.Resolve(map[string]any{
		"mode": ModeConfig, "section": "http", "key": "base_url",
	}, nil)
	require.NoError(t, err)
	assert.Equal(t, "https://api.example.com", out)

	_, err = r.Resolve(map[string]any{
		"mode": ModeConfig, "section": "http", "key": "missing",
	}, nil)
	assert.ErrorIs(t, err, errors.ErrConfigNotFound)

	_, err = r.Resolve(map[string]any{"mode": ModeConfig}, nil)
	assert.Error(t, err, "section/key are required")

	_, err = NewResolver(nil).Resolve(map[string]any{
		"mode": ModeConfig, "section": "s", "key": "k",
	}, nil)
	assert.ErrorIs(t, err, errors.ErrConfigNotFound)
}

func TestResolve_Random(t *testing.T) {
	r := NewResolver(nil)
	choices := []any{"a", "b", "c"}

	for range 20 {
		out, err := r.Resolve(map[string]any{"mode": ModeRandom, "value": choices}, nil)
		require.NoError(t, err)
		assert.Contains(t, choices, out)
	}

	_, err := r.Resolve(map[string]any{"mode": ModeRandom, "value": []any{}}, nil)
	assert.Error(t, err)
}

func TestResolve_UUID(t *testing.T) {
	r := NewResolver(nil)

	first, err := r.Resolve(map[string]any{"mode": ModeUUID}, nil)
	require.NoError(t, err)
	second, err := r.Resolve(map[string]any{"mode": ModeUUID}, nil)
	require.NoError(t, err)

	_, parseErr := uuid.Parse(first.(string))
	assert.NoError(t, parseErr)
	assert.NotEqual(t, first, second)
}

func TestResolve_UnknownMode(t *testing.T) {
	r := NewResolver(nil)
	_, err := r.Resolve(map[string]any{"mode": "teleport"}, nil)
	assert.Error(t, err)
}

func TestResolveMap(t *testing.T) {
	host := New()
	host.Set("broker", "url", "nats://localhost:4222")
	r := NewResolver(host)

	cfg := map[string]any{
		"name":    "worker",
		"url":     map[string]any{"mode": ModeConfig, "section": "broker", "key": "url"},
		"retries": map[string]any{"mode": ModeDefault, "value": 3},
	}

	resolved, err := r.ResolveMap(cfg, map[string]any{"retries": 5})
	require.NoError(t, err)
	assert.Equal(t, "worker", resolved["name"])
	assert.Equal(t, "nats://localhost:4222", resolved["url"])
	assert.Equal(t, 5, resolved["retries"])

	out, err := r.ResolveMap(nil, nil)
	require.NoError(t, err)
	assert.Nil(t, out)
}
