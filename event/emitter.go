// Package event provides the optional side channel streaming progress
// events during a flow run. The engine emits events for run, pass, and
// node boundaries; sinks deliver them to a logger, a NATS subject, or
// connected websocket clients.
package event

import (
	"log/slog"
	"time"
)

// Type identifies the kind of progress event
type Type string

// Event types emitted during a flow run
const (
	TypeRunStart  Type = "run_start"
	TypeRunEnd    Type = "run_end"
	TypePass      Type = "pass"
	TypeNodeStart Type = "node_start"
	TypeNodeDone  Type = "node_done"
	TypeNodeError Type = "node_error"
)

// Event is a single progress event in a flow run
type Event struct {
	Timestamp time.Time `json:"timestamp"`
	Type      Type      `json:"type"`
	RunID     string    `json:"run_id"`
	NodeID    string    `json:"node_id,omitempty"`
	NodeType  string    `json:"node_type,omitempty"`
	Pass      int       `json:"pass,omitempty"`
	Message   string    `json:"message,omitempty"`
	Error     string    `json:"error,omitempty"`
}

// Emitter receives progress events. Implementations must be safe for
// concurrent use and must not block the run; slow sinks drop events.
type Emitter interface {
	Emit(event Event)
}

// LogEmitter writes events to a structured logger.
type LogEmitter struct {
	logger *slog.Logger
}

// NewLogEmitter creates an emitter backed by the given logger.
// A nil logger falls back to slog.Default().
func NewLogEmitter(logger *slog.Logger) *LogEmitter {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogEmitter{logger: logger}
}

// Emit logs the event at debug level, or warn for node errors.
func (le *LogEmitter) Emit(event Event) {
	attrs := []any{
		"run_id", event.RunID,
		"type", string(event.Type),
	}
	if event.NodeID != "" {
		attrs = append(attrs, "node_id", event.NodeID)
	}
	if event.Pass > 0 {
		attrs = append(attrs, "pass", event.Pass)
	}

	if event.Type == TypeNodeError {
		attrs = append(attrs, "error", event.Error)
		le.logger.Warn("Flow event", attrs...)
		return
	}
	le.logger.Debug("Flow event", attrs...)
}

// Multi fans a single event out to several emitters.
type Multi []Emitter

// Emit delivers the event to every emitter in order.
func (m Multi) Emit(event Event) {
	for _, e := range m {
		if e != nil {
			e.Emit(event)
		}
	}
}
