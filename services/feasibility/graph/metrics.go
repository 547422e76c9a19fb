// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package graph

import (
	"context"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

// Package-level tracer and meter for graph construction.
var (
	tracer = otel.Tracer("papergate.graph")
	meter  = otel.Meter("papergate.graph")
)

// Metrics for graph construction.
var (
	buildLatency metric.Float64Histogram
	buildsTotal  metric.Int64Counter
	nodeCounts   metric.Int64Histogram
	edgeCounts   metric.Int64Histogram

	metricsOnce sync.Once
	metricsErr  error
)

// initMetrics initializes the metrics. Safe to call multiple times.
func initMetrics() error {
	metricsOnce.Do(func() {
		var err error

		buildLatency, err = meter.Float64Histogram(
			"graph_build_duration_seconds",
			metric.WithDescription("Duration of dependency graph builds"),
			metric.WithUnit("s"),
		)
		if err != nil {
			metricsErr = err
			return
		}

		buildsTotal, err = meter.Int64Counter(
			"graph_builds_total",
			metric.WithDescription("Total number of dependency graph builds"),
		)
		if err != nil {
			metricsErr = err
			return
		}

		nodeCounts, err = meter.Int64Histogram(
			"graph_node_count",
			metric.WithDescription("Distribution of built graph node counts"),
		)
		if err != nil {
			metricsErr = err
			return
		}

		edgeCounts, err = meter.Int64Histogram(
			"graph_edge_count",
			metric.WithDescription("Distribution of built graph edge counts"),
		)
		if err != nil {
			metricsErr = err
			return
		}
	})
	return metricsErr
}

// startBuildSpan creates a span for a graph build.
func startBuildSpan(ctx context.Context, manifestCount int) (context.Context, trace.Span) {
	return tracer.Start(ctx, "Graph.Build",
		trace.WithAttributes(
			attribute.Int("graph.manifest_count", manifestCount),
		),
	)
}

// setBuildSpanResult sets the result attributes on a build span.
func setBuildSpanResult(span trace.Span, nodes, edges int) {
	span.SetAttributes(
		attribute.Int("graph.node_count", nodes),
		attribute.Int("graph.edge_count", edges),
	)
}

// recordBuildMetrics records metrics for one graph build.
func recordBuildMetrics(ctx context.Context, duration time.Duration, manifests, nodes, edges int) {
	if err := initMetrics(); err != nil {
		return
	}

	attrs := metric.WithAttributes(
		attribute.Int("manifest_count", manifests),
	)

	buildLatency.Record(ctx, duration.Seconds(), attrs)
	buildsTotal.Add(ctx, 1, attrs)
	nodeCounts.Record(ctx, int64(nodes))
	edgeCounts.Record(ctx, int64(edges))
}
