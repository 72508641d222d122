package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"RocketClient/internal/config"
	"RocketClient/internal/shell"
	"RocketClient/internal/store"
	"RocketClient/internal/telemetry"
)

func main() {
	cfg := config.Default()
	var configPath string
	var transcriptID string

	var flags config.Config
	flag.StringVar(&configPath, "config", "", "Path to a TOML or YAML config file")
	flag.StringVar(&flags.BaseURL, "base-url", cfg.BaseURL, "Rocket backend URL")
	flag.StringVar(&flags.ElevationURL, "elevation-url", cfg.ElevationURL, "Elevation service URL")
	flag.DurationVar(&flags.Timeout, "timeout", cfg.Timeout, "HTTP request timeout")
	flag.StringVar(&flags.DBPath, "db", cfg.DBPath, "SQLite file for cookies and chat transcripts")
	flag.StringVar(&flags.LogDir, "log-dir", cfg.LogDir, "Directory for log, trace and metric files")
	flag.BoolVar(&flags.Debug, "debug", false, "Enable debug logging")
	flag.StringVar(&transcriptID, "transcript", "", "Print a saved chat transcript by ID and exit")
	flag.Parse()

	if configPath != "" {
		if err := config.LoadFile(configPath, &cfg); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
			os.Exit(1)
		}
	}

	// explicit flags win over the config file
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "base-url":
			cfg.BaseURL = flags.BaseURL
		case "elevation-url":
			cfg.ElevationURL = flags.ElevationURL
		case "timeout":
			cfg.Timeout = flags.Timeout
		case "db":
			cfg.DBPath = flags.DBPath
		case "log-dir":
			cfg.LogDir = flags.LogDir
		case "debug":
			cfg.Debug = flags.Debug
		}
	})

	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Invalid configuration: %v\n", err)
		os.Exit(1)
	}

	if err := run(cfg, transcriptID); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(cfg config.Config, transcriptID string) error {
	logger, err := telemetry.InitLogger(cfg.LogDir, cfg.Debug)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	tracer, meter, cleanup, err := telemetry.InitTelemetry(ctx, cfg.LogDir)
	if err != nil {
		return fmt.Errorf("failed to initialize telemetry: %w", err)
	}
	defer cleanup()

	st, err := store.Open(cfg.DBPath, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer st.Close()

	if transcriptID != "" {
		return shell.PrintTranscript(st, transcriptID, os.Stdout)
	}

	sh, err := shell.New(cfg, st, logger, telemetry.Instruments{Tracer: tracer, Meter: meter}, os.Stdin, os.Stdout)
	if err != nil {
		return fmt.Errorf("failed to initialize shell: %w", err)
	}

	start := time.Now()
	err = sh.Run(ctx)
	logger.Info("shell exited", "duration", time.Since(start))
	return err
}
