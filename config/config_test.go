package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ddbase3/MissionBay-sub002/errors"
)

func TestLoad(t *testing.T) {
	data := []byte(`
http:
  base_url: "https://api.example.com"
  timeout: 30
logging:
  level: debug
`)

	cfg, err := Load(data)
	require.NoError(t, err)

	url, err := cfg.Lookup("http", "base_url")
	require.NoError(t, err)
	assert.Equal(t, "https://api.example.com", url)

	level, err := cfg.Lookup("logging", "level")
	require.NoError(t, err)
	assert.Equal(t, "debug", level)
}

func TestLoad_InvalidYAML(t *testing.T) {
	_, err := Load([]byte("::: not yaml"))
	assert.Error(t, err)
}

func TestLookup_Missing(t *testing.T) {
	cfg := New()
	cfg.Set("http", "timeout", 30)

	_, err := cfg.Lookup("missing", "key")
	assert.ErrorIs(t, err, errors.ErrConfigNotFound)

	_, err = cfg.Lookup("http", "missing")
	assert.ErrorIs(t, err, errors.ErrConfigNotFound)

	val, err := cfg.Lookup("http", "timeout")
	require.NoError(t, err)
	assert.Equal(t, 30, val)
}

func TestSection_Copy(t *testing.T) {
	cfg := New()
	cfg.Set("s", "k", "v")

	sec := cfg.Section("s")
	require.NotNil(t, sec)
	sec["k"] = "mutated"

	val, err := cfg.Lookup("s", "k")
	require.NoError(t, err)
	assert.Equal(t, "v", val, "Section must return a copy")

	assert.Nil(t, cfg.Section("absent"))
}

func TestHelpers(t *testing.T) {
	cfg := map[string]any{
		"name":    "flow",
		"count":   float64(3),
		"enabled": true,
		"nested":  map[string]any{"a": 1},
		"list":    []any{"x", "y"},
	}

	assert.Equal(t, "flow", GetString(cfg, "name", "fallback"))
	assert.Equal(t, "fallback", GetString(cfg, "missing", "fallback"))
	assert.Equal(t, 3, GetInt(cfg, "count", 0))
	assert.Equal(t, 7, GetInt(cfg, "missing", 7))
	assert.True(t, GetBool(cfg, "enabled", false))
	assert.False(t, GetBool(cfg, "missing", false))
	assert.Equal(t, map[string]any{"a": 1}, GetStringMap(cfg, "nested"))
	assert.Nil(t, GetStringMap(cfg, "name"))
	assert.Equal(t, []any{"x", "y"}, GetSlice(cfg, "list"))
}
