// Package main implements the flowrun command line runner: it loads a
// declarative flow description, builds it against the builtin node and
// resource types, executes it once, and prints the terminal outputs as
// JSON on stdout.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"strings"
	"syscall"

	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"

	"github.com/ddbase3/MissionBay-sub002/component"
	"github.com/ddbase3/MissionBay-sub002/config"
	"github.com/ddbase3/MissionBay-sub002/event"
	"github.com/ddbase3/MissionBay-sub002/flow"
	"github.com/ddbase3/MissionBay-sub002/metric"
	"github.com/ddbase3/MissionBay-sub002/nodes"
)

// Build information constants
const (
	Version = "0.1.0"
	appName = "flowrun"
)

func main() {
	defer func() {
		if r := recover(); r != nil {
			buf := make([]byte, 4096)
			n := runtime.Stack(buf, false)
			_, _ = fmt.Fprintf(os.Stderr, "PANIC: %v\nStack trace:\n%s\n", r, string(buf[:n]))
			os.Exit(2)
		}
	}()

	if err := run(); err != nil {
		slog.Error("Run failed", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cliCfg := parseFlags()
	if err := validateFlags(cliCfg); err != nil {
		return fmt.Errorf("invalid flags: %w", err)
	}

	if cliCfg.ShowVersion {
		fmt.Printf("%s version %s\n", appName, Version)
		return nil
	}
	if cliCfg.ShowHelp {
		printHelp()
		return nil
	}

	logger := setupLogger(cliCfg.LogLevel, cliCfg.LogFormat)
	slog.SetDefault(logger)

	hostCfg, err := loadHostConfig(cliCfg.ConfigPath)
	if err != nil {
		return err
	}

	desc, err := loadDescription(cliCfg.FlowPath)
	if err != nil {
		return err
	}

	inputs, err := loadInputs(cliCfg.InputsJSON)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	metricsRegistry := metric.NewRegistry()
	if cliCfg.MetricsPort > 0 {
		serveHandler(ctx, logger, cliCfg.MetricsPort, "/metrics", metricsRegistry.Handler())
	}

	deps := component.Dependencies{
		Logger:  logger,
		Metrics: metricsRegistry,
		Config:  hostCfg,
	}

	emitters := event.Multi{event.NewLogEmitter(logger)}
	if cliCfg.EventsPort > 0 {
		hub := event.NewHub(logger)
		defer hub.Close()
		serveHandler(ctx, logger, cliCfg.EventsPort, "/events", hub)
		emitters = append(emitters, hub)
	}

	var nc *nats.Conn
	if cliCfg.NATSURL != "" {
		nc, err = nats.Connect(cliCfg.NATSURL, nats.Name(appName))
		if err != nil {
			return fmt.Errorf("connect to NATS: %w", err)
		}
		defer nc.Close()
		deps.NATS = nc
		emitters = append(emitters, event.NewNATSEmitter(nc, "flowrun.events", logger))
	}

	registry := component.NewRegistry()
	if err := nodes.Register(registry); err != nil {
		return fmt.Errorf("register builtin nodes: %w", err)
	}
	if err := flow.Register(registry); err != nil {
		return fmt.Errorf("register higher-order nodes: %w", err)
	}

	opts := []flow.Option{flow.WithEmitter(emitters)}
	if cliCfg.Parallel > 1 {
		opts = append(opts, flow.WithParallel(cliCfg.Parallel))
	}
	engine := flow.NewEngine(registry, config.NewResolver(hostCfg), deps, opts...)

	f, err := engine.Build(desc)
	if err != nil {
		return fmt.Errorf("build flow: %w", err)
	}
	if cliCfg.Validate {
		logger.Info("Flow description is valid", "nodes", len(f.Nodes()))
		return nil
	}

	ectx, err := buildExecutionContext(ctx, cliCfg, nc)
	if err != nil {
		return err
	}

	results, err := engine.RunWithContext(ctx, f, inputs, ectx)
	if err != nil {
		return fmt.Errorf("run flow: %w", err)
	}

	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(results)
}

// loadHostConfig loads the optional host configuration.
func loadHostConfig(path string) (*config.Config, error) {
	if path == "" {
		return config.New(), nil
	}
	cfg, err := config.LoadFile(path)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	return cfg, nil
}

// loadDescription reads and validates the flow description file.
func loadDescription(path string) (*flow.Description, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read flow description: %w", err)
	}
	desc, err := flow.ParseDescription(data)
	if err != nil {
		return nil, fmt.Errorf("parse flow description: %w", err)
	}
	return desc, nil
}

// loadInputs parses the run inputs from an inline JSON object or an
// @path file reference.
func loadInputs(spec string) (map[string]any, error) {
	if spec == "" {
		return nil, nil
	}
	raw := []byte(spec)
	if strings.HasPrefix(spec, "@") {
		data, err := os.ReadFile(strings.TrimPrefix(spec, "@"))
		if err != nil {
			return nil, fmt.Errorf("read inputs file: %w", err)
		}
		raw = data
	}
	var inputs map[string]any
	if err := json.Unmarshal(raw, &inputs); err != nil {
		return nil, fmt.Errorf("parse inputs: %w", err)
	}
	return inputs, nil
}

// buildExecutionContext selects the memory backend: a JetStream KV
// bucket when configured, an in-process store otherwise.
func buildExecutionContext(ctx context.Context, cliCfg *CLIConfig, nc *nats.Conn) (*flow.Context, error) {
	if cliCfg.MemoryBucket == "" {
		return flow.NewContext(flow.NewMemory(flow.NewMapStore())), nil
	}

	js, err := jetstream.New(nc)
	if err != nil {
		return nil, fmt.Errorf("create jetstream context: %w", err)
	}
	store, err := flow.NewKVStore(ctx, js, cliCfg.MemoryBucket)
	if err != nil {
		return nil, fmt.Errorf("open memory bucket: %w", err)
	}
	return flow.NewContext(flow.NewMemory(store)), nil
}

// serveHandler starts a best-effort HTTP listener for a side surface
// (metrics or the event stream). Failures are logged, never fatal.
func serveHandler(ctx context.Context, logger *slog.Logger, port int, path string, handler http.Handler) {
	mux := http.NewServeMux()
	mux.Handle(path, handler)
	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", port),
		Handler: mux,
	}
	go func() {
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Warn("Side surface listener failed", "port", port, "path", path, "error", err)
		}
	}()
	go func() {
		<-ctx.Done()
		_ = server.Close()
	}()
}
