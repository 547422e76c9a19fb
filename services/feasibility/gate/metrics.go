// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package gate

import (
	"context"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

// Package-level tracer and meter for feasibility assessments.
var (
	tracer = otel.Tracer("papergate.gate")
	meter  = otel.Meter("papergate.gate")
)

// Metrics for feasibility assessments.
var (
	assessmentsTotal metric.Int64Counter

	metricsOnce sync.Once
	metricsErr  error
)

// initMetrics initializes the metrics. Safe to call multiple times.
func initMetrics() error {
	metricsOnce.Do(func() {
		assessmentsTotal, metricsErr = meter.Int64Counter(
			"feasibility_assessments_total",
			metric.WithDescription("Total feasibility assessments by type and status"),
		)
	})
	return metricsErr
}

// startAssessSpan creates a span for a feasibility assessment.
func startAssessSpan(ctx context.Context, innovationType string, confidence float64) (context.Context, trace.Span) {
	return tracer.Start(ctx, "Gate.Assess",
		trace.WithAttributes(
			attribute.String("gate.innovation_type", innovationType),
			attribute.Float64("gate.confidence", confidence),
		),
	)
}

// finishAssessSpan records the verdict on the span and counters.
func finishAssessSpan(ctx context.Context, span trace.Span, result *Result) {
	span.SetAttributes(
		attribute.String("gate.status", string(result.Status)),
		attribute.Float64("gate.manifest_coverage", result.ManifestCheck.CoverageRatio),
	)
	if result.EscalationTrigger != "" {
		span.SetAttributes(attribute.String("gate.escalation_trigger", string(result.EscalationTrigger)))
	}

	if err := initMetrics(); err != nil {
		return
	}
	assessmentsTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String("innovation_type", string(result.InnovationType)),
		attribute.String("status", string(result.Status)),
	))
}
