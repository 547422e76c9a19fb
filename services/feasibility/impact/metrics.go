// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package impact

import (
	"context"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

// Package-level tracer and meter for blast radius analysis.
var (
	tracer = otel.Tracer("papergate.impact")
	meter  = otel.Meter("papergate.impact")
)

// Metrics for blast radius analysis.
var (
	analysisLatency metric.Float64Histogram
	analysisTotal   metric.Int64Counter
	affectedCounts  metric.Int64Histogram

	metricsOnce sync.Once
	metricsErr  error
)

// initMetrics initializes the metrics. Safe to call multiple times.
func initMetrics() error {
	metricsOnce.Do(func() {
		var err error

		analysisLatency, err = meter.Float64Histogram(
			"blast_radius_duration_seconds",
			metric.WithDescription("Duration of blast radius analyses"),
			metric.WithUnit("s"),
		)
		if err != nil {
			metricsErr = err
			return
		}

		analysisTotal, err = meter.Int64Counter(
			"blast_radius_total",
			metric.WithDescription("Total number of blast radius analyses"),
		)
		if err != nil {
			metricsErr = err
			return
		}

		affectedCounts, err = meter.Int64Histogram(
			"blast_radius_affected_nodes",
			metric.WithDescription("Number of nodes affected per analysis"),
		)
		if err != nil {
			metricsErr = err
			return
		}
	})
	return metricsErr
}

// startAnalysisSpan creates a span for a blast radius analysis.
func startAnalysisSpan(ctx context.Context, targetCount int) (context.Context, trace.Span) {
	return tracer.Start(ctx, "BlastRadius.Compute",
		trace.WithAttributes(
			attribute.Int("impact.target_count", targetCount),
		),
	)
}

// setAnalysisSpanResult sets the result attributes on an analysis span.
func setAnalysisSpanResult(span trace.Span, riskLevel string, validTargets, totalAffected int) {
	span.SetAttributes(
		attribute.String("impact.risk_level", riskLevel),
		attribute.Int("impact.valid_targets", validTargets),
		attribute.Int("impact.total_affected", totalAffected),
	)
}

// recordAnalysisMetrics records metrics for one blast radius analysis.
func recordAnalysisMetrics(ctx context.Context, duration time.Duration, riskLevel string, totalAffected int) {
	if err := initMetrics(); err != nil {
		return
	}

	attrs := metric.WithAttributes(
		attribute.String("risk_level", riskLevel),
	)

	analysisLatency.Record(ctx, duration.Seconds(), attrs)
	analysisTotal.Add(ctx, 1, attrs)
	affectedCounts.Record(ctx, int64(totalAffected), attrs)
}
