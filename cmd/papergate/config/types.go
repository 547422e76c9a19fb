// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package config

// PapergateConfig is the user-level configuration persisted at
// ~/.papergate/papergate.yaml.
type PapergateConfig struct {
	// Manifests configures where repository manifests live and how
	// stale they may be before freshness warnings fire.
	Manifests ManifestsConfig `yaml:"manifests"`

	// Calibration configures the accuracy-tracking store.
	Calibration CalibrationConfig `yaml:"calibration"`

	// Telemetry configures tracing and metrics export.
	Telemetry TelemetryConfig `yaml:"telemetry"`

	// Logging configures the structured logger.
	Logging LoggingConfig `yaml:"logging"`
}

type ManifestsConfig struct {
	// Dir is the directory holding per-repository manifest YAML files.
	Dir string `yaml:"dir"` // e.g. ./manifests

	// StalenessThresholdDays flags manifests older than this many days.
	StalenessThresholdDays int `yaml:"staleness_threshold_days"` // e.g. 7
}

type CalibrationConfig struct {
	// DBPath is the BadgerDB directory for accuracy records.
	DBPath string `yaml:"db_path"` // e.g. ~/.papergate/calibration
}

type TelemetryConfig struct {
	// Enabled turns the OpenTelemetry stack on at startup.
	Enabled bool `yaml:"enabled"`

	// TraceExporter: "otlp", "stdout", or "none".
	TraceExporter string `yaml:"trace_exporter"`

	// MetricExporter: "prometheus", "stdout", or "none".
	MetricExporter string `yaml:"metric_exporter"`

	// OTLPEndpoint is the OTLP receiver for traces.
	OTLPEndpoint string `yaml:"otlp_endpoint"`
}

type LoggingConfig struct {
	// Level: "debug", "info", "warn", or "error".
	Level string `yaml:"level"`

	// LogDir enables file logging when set.
	LogDir string `yaml:"log_dir,omitempty"`

	// JSON switches stderr output to JSON format.
	JSON bool `yaml:"json"`
}

// DefaultConfig returns the configuration written on first run.
func DefaultConfig() PapergateConfig {
	return PapergateConfig{
		Manifests: ManifestsConfig{
			Dir:                    "./manifests",
			StalenessThresholdDays: 7,
		},
		Calibration: CalibrationConfig{
			DBPath: "~/.papergate/calibration",
		},
		Telemetry: TelemetryConfig{
			Enabled:        false,
			TraceExporter:  "stdout",
			MetricExporter: "prometheus",
			OTLPEndpoint:   "localhost:4317",
		},
		Logging: LoggingConfig{
			Level: "info",
			JSON:  false,
		},
	}
}
