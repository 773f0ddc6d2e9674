package metric

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCounter(name string) prometheus.Counter {
	return prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "flowtest",
		Name:      name,
		Help:      "test counter",
	})
}

func TestRegister(t *testing.T) {
	r := NewRegistry()

	err := r.Register("engine", "runs", newTestCounter("runs_total"))
	require.NoError(t, err)

	// Same owner/name pair is rejected.
	err = r.Register("engine", "runs", newTestCounter("other_total"))
	assert.Error(t, err)

	// Same collector identity under a different key is a prometheus conflict.
	err = r.Register("engine", "runs2", newTestCounter("runs_total"))
	assert.Error(t, err)
}

func TestUnregister(t *testing.T) {
	r := NewRegistry()

	require.NoError(t, r.Register("engine", "passes", newTestCounter("passes_total")))
	assert.True(t, r.Unregister("engine", "passes"))
	assert.False(t, r.Unregister("engine", "passes"))

	// Re-registration after unregister succeeds.
	assert.NoError(t, r.Register("engine", "passes", newTestCounter("passes_total")))
}

func TestHandler(t *testing.T) {
	r := NewRegistry()
	assert.NotNil(t, r.Handler())
	assert.NotNil(t, r.PrometheusRegistry())
}
