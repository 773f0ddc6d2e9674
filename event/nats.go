package event

import (
	"encoding/json"
	"log/slog"

	"github.com/nats-io/nats.go"
)

// NATSEmitter publishes events as JSON to a NATS subject so external
// consumers can stream run progress. Publishing is best-effort: a
// marshal or publish failure is logged and the run continues.
type NATSEmitter struct {
	nc      *nats.Conn
	subject string
	logger  *slog.Logger
}

// NewNATSEmitter creates an emitter publishing to the given subject.
func NewNATSEmitter(nc *nats.Conn, subject string, logger *slog.Logger) *NATSEmitter {
	if logger == nil {
		logger = slog.Default()
	}
	return &NATSEmitter{nc: nc, subject: subject, logger: logger}
}

// Emit publishes the event. A nil or closed connection drops the event.
func (ne *NATSEmitter) Emit(event Event) {
	if ne.nc == nil || !ne.nc.IsConnected() {
		return
	}

	data, err := json.Marshal(event)
	if err != nil {
		ne.logger.Warn("Failed to marshal flow event", "error", err)
		return
	}

	if err := ne.nc.Publish(ne.subject, data); err != nil {
		ne.logger.Warn("Failed to publish flow event",
			"subject", ne.subject, "error", err)
	}
}
