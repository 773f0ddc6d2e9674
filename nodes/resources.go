package nodes

import (
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/ddbase3/MissionBay-sub002/component"
	"github.com/ddbase3/MissionBay-sub002/config"
)

// HTTPClient is a shared HTTP client resource for docking onto nodes
// that perform requests, so a flow reuses one connection pool.
type HTTPClient struct {
	Client *http.Client
}

// NewHTTPClient creates an HTTPClient resource with default timeout.
func NewHTTPClient() *HTTPClient {
	return &HTTPClient{Client: &http.Client{Timeout: defaultHTTPTimeout}}
}

// SetConfig applies resource configuration.
func (r *HTTPClient) SetConfig(cfg map[string]any) error {
	if secs := config.GetInt(cfg, "timeout_seconds", 0); secs > 0 {
		r.Client.Timeout = time.Duration(secs) * time.Second
	}
	return nil
}

// Logger is a structured logger resource. Configuration selects text or
// JSON output and the minimum level; unconfigured it carries the engine
// logger handed in through Dependencies.
type Logger struct {
	deps   component.Dependencies
	Logger *slog.Logger
}

// NewLogger creates a Logger resource defaulting to the engine logger.
func NewLogger(deps component.Dependencies) *Logger {
	return &Logger{deps: deps, Logger: deps.GetLogger()}
}

// SetConfig rebuilds the logger from configuration.
func (r *Logger) SetConfig(cfg map[string]any) error {
	format := config.GetString(cfg, "format", "")
	if format == "" {
		return nil
	}
	level := slog.LevelInfo
	switch config.GetString(cfg, "level", "info") {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}
	opts := &slog.HandlerOptions{Level: level}
	if format == "json" {
		r.Logger = slog.New(slog.NewJSONHandler(os.Stderr, opts))
	} else {
		r.Logger = slog.New(slog.NewTextHandler(os.Stderr, opts))
	}
	return nil
}
