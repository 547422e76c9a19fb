// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/AleutianAI/papergate/cmd/papergate/config"
	"github.com/AleutianAI/papergate/pkg/logging"
	"github.com/AleutianAI/papergate/pkg/telemetry"
)

// appLogger is the process-wide logger, built in PersistentPreRunE.
var appLogger *logging.Logger

// telemetryShutdown flushes exporters on exit; nil when telemetry is off.
var telemetryShutdown func(context.Context) error

// exitCode is set by commands whose result maps to an exit status
// (feasibility check). Defaults to success.
var exitCode = exitFeasible

func main() {
	os.Exit(run())
}

func run() int {
	defer func() {
		if appLogger != nil {
			_ = appLogger.Close()
		}
		if telemetryShutdown != nil {
			_ = telemetryShutdown(context.Background())
		}
	}()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return exitError
	}
	return exitCode
}

func init() {
	rootCmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		if err := config.Load(); err != nil {
			return fmt.Errorf("load config: %w", err)
		}

		appLogger = logging.New(logging.Config{
			Level:   parseLogLevel(config.Global.Logging.Level),
			LogDir:  config.Global.Logging.LogDir,
			Service: "cli",
			JSON:    config.Global.Logging.JSON,
		})
		slog.SetDefault(appLogger.Slog())

		if config.Global.Telemetry.Enabled {
			cfg := telemetry.DefaultConfig()
			cfg.TraceExporter = config.Global.Telemetry.TraceExporter
			cfg.MetricExporter = config.Global.Telemetry.MetricExporter
			cfg.OTLPEndpoint = config.Global.Telemetry.OTLPEndpoint
			shutdown, err := telemetry.Init(cmd.Context(), cfg)
			if err != nil {
				return fmt.Errorf("init telemetry: %w", err)
			}
			telemetryShutdown = shutdown
		}
		return nil
	}
}

// parseLogLevel maps a config string to a logging.Level, defaulting to Info.
func parseLogLevel(s string) logging.Level {
	switch s {
	case "debug":
		return logging.LevelDebug
	case "warn":
		return logging.LevelWarn
	case "error":
		return logging.LevelError
	default:
		return logging.LevelInfo
	}
}
