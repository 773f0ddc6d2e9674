package component

import (
	"log/slog"

	"github.com/nats-io/nats.go"

	"github.com/ddbase3/MissionBay-sub002/config"
	"github.com/ddbase3/MissionBay-sub002/metric"
)

// Dependencies provides all external dependencies needed by node and
// resource factories. Components receive a structured dependency set
// rather than individual fields.
type Dependencies struct {
	Logger  *slog.Logger     // Structured logger (can be nil, defaults to slog.Default())
	Metrics *metric.Registry // Metrics registry for Prometheus (can be nil)
	Config  *config.Config   // Host configuration (can be nil)
	NATS    *nats.Conn       // NATS connection for event sinks and KV memory (can be nil)
}

// GetLogger returns the configured logger or a default logger if none is provided
func (d *Dependencies) GetLogger() *slog.Logger {
	if d.Logger != nil {
		return d.Logger
	}
	return slog.Default()
}

// GetLoggerWithComponent returns a logger configured with component context
func (d *Dependencies) GetLoggerWithComponent(componentName string) *slog.Logger {
	return d.GetLogger().With("component", componentName)
}
