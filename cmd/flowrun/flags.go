package main

import (
	"flag"
	"fmt"
	"os"
	"strconv"
)

// CLIConfig holds command-line configuration
type CLIConfig struct {
	FlowPath     string
	ConfigPath   string
	InputsJSON   string
	LogLevel     string
	LogFormat    string
	NATSURL      string
	MemoryBucket string
	MetricsPort  int
	EventsPort   int
	Parallel     int
	Validate     bool
	ShowVersion  bool
	ShowHelp     bool
}

func parseFlags() *CLIConfig {
	cfg := &CLIConfig{}

	flag.StringVar(&cfg.FlowPath, "flow",
		getEnv("FLOWRUN_FLOW", ""),
		"Path to flow description JSON (env: FLOWRUN_FLOW)")

	flag.StringVar(&cfg.ConfigPath, "config",
		getEnv("FLOWRUN_CONFIG", ""),
		"Path to host configuration YAML (env: FLOWRUN_CONFIG)")

	flag.StringVar(&cfg.InputsJSON, "inputs",
		getEnv("FLOWRUN_INPUTS", ""),
		"Run inputs as a JSON object, or @path to read from a file (env: FLOWRUN_INPUTS)")

	flag.StringVar(&cfg.LogLevel, "log-level",
		getEnv("FLOWRUN_LOG_LEVEL", "info"),
		"Log level: debug, info, warn, error (env: FLOWRUN_LOG_LEVEL)")

	flag.StringVar(&cfg.LogFormat, "log-format",
		getEnv("FLOWRUN_LOG_FORMAT", "text"),
		"Log format: json, text (env: FLOWRUN_LOG_FORMAT)")

	flag.StringVar(&cfg.NATSURL, "nats",
		getEnv("FLOWRUN_NATS_URL", ""),
		"NATS server URL for events and shared memory, empty to disable (env: FLOWRUN_NATS_URL)")

	flag.StringVar(&cfg.MemoryBucket, "memory-bucket",
		getEnv("FLOWRUN_MEMORY_BUCKET", ""),
		"JetStream KV bucket for run memory, empty for in-process memory (env: FLOWRUN_MEMORY_BUCKET)")

	flag.IntVar(&cfg.MetricsPort, "metrics-port",
		getEnvInt("FLOWRUN_METRICS_PORT", 0),
		"Prometheus metrics port, 0 to disable (env: FLOWRUN_METRICS_PORT)")

	flag.IntVar(&cfg.EventsPort, "events-port",
		getEnvInt("FLOWRUN_EVENTS_PORT", 0),
		"Websocket event stream port, 0 to disable (env: FLOWRUN_EVENTS_PORT)")

	flag.IntVar(&cfg.Parallel, "parallel",
		getEnvInt("FLOWRUN_PARALLEL", 0),
		"Maximum concurrently executing nodes per pass, <2 for sequential (env: FLOWRUN_PARALLEL)")

	flag.BoolVar(&cfg.Validate, "validate", false,
		"Validate and build the flow, then exit without running")

	flag.BoolVar(&cfg.ShowVersion, "version", false, "Show version and exit")
	flag.BoolVar(&cfg.ShowHelp, "help", false, "Show help and exit")

	flag.Parse()
	return cfg
}

func validateFlags(cfg *CLIConfig) error {
	if cfg.ShowVersion || cfg.ShowHelp {
		return nil
	}
	if cfg.FlowPath == "" {
		return fmt.Errorf("a flow description is required (-flow)")
	}
	if cfg.MemoryBucket != "" && cfg.NATSURL == "" {
		return fmt.Errorf("-memory-bucket requires -nats")
	}
	return nil
}

func printHelp() {
	fmt.Printf("%s %s - declarative dataflow runner\n\n", appName, Version)
	fmt.Println("Usage:")
	fmt.Printf("  %s -flow flow.json [-inputs '{\"key\": \"value\"}']\n\n", appName)
	fmt.Println("Flags:")
	flag.PrintDefaults()
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return fallback
}
