// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package impact computes the blast radius of a proposed change: the
// downstream-reachable portion of the dependency graph, partitioned into
// functions, tests, and contracts, with a discrete risk level.
package impact

import (
	"context"
	"strings"
	"time"

	"github.com/AleutianAI/papergate/services/feasibility/graph"
)

// RiskLevel grades blast radius size.
type RiskLevel string

const (
	// RiskLow: at most 2 affected nodes.
	RiskLow RiskLevel = "low"

	// RiskMedium: 3 to 10 affected nodes.
	RiskMedium RiskLevel = "medium"

	// RiskHigh: 11 to 30 affected nodes.
	RiskHigh RiskLevel = "high"

	// RiskCritical: more than 30 affected nodes.
	RiskCritical RiskLevel = "critical"
)

// Report is the result of a blast radius analysis.
type Report struct {
	// TargetNodes are the input targets that were present in the graph,
	// in input order. Unknown IDs are silently dropped.
	TargetNodes []string `json:"target_nodes"`

	// AffectedFunctions, AffectedTests, and AffectedContracts partition
	// the downstream-reachable set, each sorted lexically.
	AffectedFunctions []string `json:"affected_functions"`
	AffectedTests     []string `json:"affected_tests"`
	AffectedContracts []string `json:"affected_contracts"`

	// RiskLevel grades TotalAffected against fixed thresholds.
	RiskLevel RiskLevel `json:"risk_level"`
}

// TotalAffected returns the size of the affected set.
func (r *Report) TotalAffected() int {
	return len(r.AffectedFunctions) + len(r.AffectedTests) + len(r.AffectedContracts)
}

// ClassifyRisk maps an affected-node count onto a RiskLevel.
//
// The boundaries are exact and covered by tests: <=2 low, 3-10 medium,
// 11-30 high, >30 critical. Calibration history was collected against
// these values; do not retune them casually.
func ClassifyRisk(totalAffected int) RiskLevel {
	switch {
	case totalAffected <= 2:
		return RiskLow
	case totalAffected <= 10:
		return RiskMedium
	case totalAffected <= 30:
		return RiskHigh
	default:
		return RiskCritical
	}
}

// IsTestNode reports whether a node represents a test.
//
// Name-based heuristic, not a node tag: the module path is checked
// first, then the node ID, for the substring "test" (case-insensitive).
// Kept as a pure function so it is swappable and testable in isolation.
func IsTestNode(g *graph.Graph, id string) bool {
	return nameMatches(g, id, "test")
}

// IsContractNode reports whether a node represents a contract, using
// the same heuristic as IsTestNode with the substring "contract".
func IsContractNode(g *graph.Graph, id string) bool {
	return nameMatches(g, id, "contract")
}

func nameMatches(g *graph.Graph, id, substr string) bool {
	if n := g.GetNode(id); n != nil && strings.Contains(strings.ToLower(n.ModulePath), substr) {
		return true
	}
	return strings.Contains(strings.ToLower(id), substr)
}

// Compute analyzes the blast radius for a set of target nodes.
//
// Description:
//
//	Targets absent from the graph contribute nothing. The downstream
//	sets of all valid targets are unioned, then partitioned in sorted
//	order by the test/contract heuristics. Risk is graded on the total
//	affected count. An empty or all-invalid target list yields empty
//	partitions and RiskLow.
//
// Inputs:
//
//	ctx - Context for the analysis span. Must not be nil.
//	targetIDs - Node IDs of the functions/classes to be modified.
//	g - The dependency graph.
//
// Outputs:
//
//	*Report - The blast radius report. Never nil.
func Compute(ctx context.Context, targetIDs []string, g *graph.Graph) *Report {
	start := time.Now()
	_, span := startAnalysisSpan(ctx, len(targetIDs))
	defer span.End()

	allAffected := make(graph.NodeSet)
	validTargets := make([]string, 0, len(targetIDs))

	for _, id := range targetIDs {
		if !g.HasNode(id) {
			continue
		}
		validTargets = append(validTargets, id)
		for affected := range g.Downstream(id) {
			allAffected[affected] = struct{}{}
		}
	}

	report := &Report{
		TargetNodes:       validTargets,
		AffectedFunctions: make([]string, 0, len(allAffected)),
		AffectedTests:     make([]string, 0),
		AffectedContracts: make([]string, 0),
	}

	for _, id := range allAffected.Sorted() {
		switch {
		case IsTestNode(g, id):
			report.AffectedTests = append(report.AffectedTests, id)
		case IsContractNode(g, id):
			report.AffectedContracts = append(report.AffectedContracts, id)
		default:
			report.AffectedFunctions = append(report.AffectedFunctions, id)
		}
	}

	report.RiskLevel = ClassifyRisk(report.TotalAffected())

	recordAnalysisMetrics(ctx, time.Since(start), string(report.RiskLevel), report.TotalAffected())
	setAnalysisSpanResult(span, string(report.RiskLevel), len(validTargets), report.TotalAffected())
	return report
}
