package flow

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/ddbase3/MissionBay-sub002/metric"
)

// engineMetrics holds Prometheus metrics for flow engine operations.
type engineMetrics struct {
	runs          *prometheus.CounterVec   // By status (completed/partial/iteration_exceeded)
	runDuration   prometheus.Histogram     // Wall-clock run duration
	passes        prometheus.Histogram     // Passes per run
	nodeRuns      *prometheus.CounterVec   // By node_type and status (success/error)
	nodeDurations *prometheus.HistogramVec // By node_type
	buildErrors   prometheus.Counter       // Failed graph builds
}

// newEngineMetrics creates and registers engine metrics with the provided
// registry. A nil registry disables metrics.
func newEngineMetrics(registry *metric.Registry) (*engineMetrics, error) {
	if registry == nil {
		return nil, nil
	}

	m := &engineMetrics{
		runs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "missionbay",
			Subsystem: "engine",
			Name:      "runs_total",
			Help:      "Total number of flow runs by outcome",
		}, []string{"status"}),

		runDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "missionbay",
			Subsystem: "engine",
			Name:      "run_duration_seconds",
			Help:      "Flow run duration in seconds",
			Buckets:   []float64{0.001, 0.01, 0.1, 0.5, 1.0, 5.0, 30.0},
		}),

		passes: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "missionbay",
			Subsystem: "engine",
			Name:      "run_passes",
			Help:      "Number of execution passes per run",
			Buckets:   []float64{1, 2, 5, 10, 50, 100, 500, 1000},
		}),

		nodeRuns: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "missionbay",
			Subsystem: "engine",
			Name:      "node_executions_total",
			Help:      "Total number of node executions by type and status",
		}, []string{"node_type", "status"}),

		nodeDurations: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "missionbay",
			Subsystem: "engine",
			Name:      "node_duration_seconds",
			Help:      "Node body execution duration in seconds",
			Buckets:   []float64{0.0001, 0.001, 0.01, 0.1, 1.0, 10.0},
		}, []string{"node_type"}),

		buildErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "missionbay",
			Subsystem: "engine",
			Name:      "build_errors_total",
			Help:      "Total number of failed graph builds",
		}),
	}

	if err := registry.Register("engine", "runs", m.runs); err != nil {
		return nil, err
	}
	if err := registry.Register("engine", "run_duration", m.runDuration); err != nil {
		return nil, err
	}
	if err := registry.Register("engine", "passes", m.passes); err != nil {
		return nil, err
	}
	if err := registry.Register("engine", "node_runs", m.nodeRuns); err != nil {
		return nil, err
	}
	if err := registry.Register("engine", "node_durations", m.nodeDurations); err != nil {
		return nil, err
	}
	if err := registry.Register("engine", "build_errors", m.buildErrors); err != nil {
		return nil, err
	}

	return m, nil
}

func (m *engineMetrics) recordRun(status string, passes int, duration time.Duration) {
	if m == nil {
		return
	}
	m.runs.WithLabelValues(status).Inc()
	m.passes.Observe(float64(passes))
	m.runDuration.Observe(duration.Seconds())
}

func (m *engineMetrics) recordNode(nodeType string, failed bool, duration time.Duration) {
	if m == nil {
		return
	}
	status := "success"
	if failed {
		status = "error"
	}
	m.nodeRuns.WithLabelValues(nodeType, status).Inc()
	m.nodeDurations.WithLabelValues(nodeType).Observe(duration.Seconds())
}

func (m *engineMetrics) recordBuildError() {
	if m == nil {
		return
	}
	m.buildErrors.Inc()
}
