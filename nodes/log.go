package nodes

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/ddbase3/MissionBay-sub002/component"
)

// LogNode writes its message to every logger docked on the "loggers"
// port. With nothing docked it degrades to the engine logger handed in
// through Dependencies, so a flow without resource wiring still logs.
type LogNode struct {
	fallback *slog.Logger
}

// NewLogNode creates a LogNode with the dependency logger as fallback.
func NewLogNode(deps component.Dependencies) (*LogNode, error) {
	return &LogNode{fallback: deps.GetLogger()}, nil
}

// TypeName returns the registry type name.
func (n *LogNode) TypeName() string { return "log" }

// InputPorts describes the node inputs.
func (n *LogNode) InputPorts() []component.Port {
	return []component.Port{
		{Name: "message", Description: "text to log", Type: "string", Required: true},
		{Name: "level", Description: "log level: debug, info, warn, error", Type: "string", Default: "info"},
	}
}

// OutputPorts describes the node outputs.
func (n *LogNode) OutputPorts() []component.Port {
	return []component.Port{
		{Name: "message", Description: "the logged message, passed through", Type: "string"},
	}
}

// DockPorts declares the logger dock.
func (n *LogNode) DockPorts() []component.DockPort {
	return []component.DockPort{
		{Name: "loggers", Description: "logger resources to write to", MaxResources: 0},
	}
}

// SetConfig applies node configuration.
func (n *LogNode) SetConfig(cfg map[string]any) error { return nil }

// Execute writes the message to all docked loggers.
func (n *LogNode) Execute(ctx context.Context, inputs map[string]any, resources map[string][]any, run component.RunContext) (map[string]any, error) {
	msg := fmt.Sprintf("%v", inputs["message"])
	level := levelFrom(inputs["level"])

	loggers := make([]*slog.Logger, 0, len(resources["loggers"]))
	for _, r := range resources["loggers"] {
		switch lg := r.(type) {
		case *Logger:
			if lg.Logger != nil {
				loggers = append(loggers, lg.Logger)
			}
		case *slog.Logger:
			loggers = append(loggers, lg)
		}
	}
	if len(loggers) == 0 && n.fallback != nil {
		loggers = append(loggers, n.fallback)
	}
	for _, lg := range loggers {
		lg.Log(ctx, level, msg)
	}

	return map[string]any{"message": msg}, nil
}

func levelFrom(v any) slog.Level {
	switch v {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
