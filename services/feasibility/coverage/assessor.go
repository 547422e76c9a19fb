// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package coverage assesses whether the functions in a blast radius have
// existing tests near them in the dependency graph.
package coverage

import (
	"github.com/AleutianAI/papergate/services/feasibility/graph"
	"github.com/AleutianAI/papergate/services/feasibility/impact"
)

// Assessment is the result of a test coverage assessment.
type Assessment struct {
	// CoveredFunctions have at least one test node reachable from them
	// (in either direction) in the graph.
	CoveredFunctions []string `json:"covered_functions"`

	// UncoveredFunctions have no reachable test node.
	UncoveredFunctions []string `json:"uncovered_functions"`

	// CoverageRatio is covered / max(covered+uncovered, 1), in [0, 1].
	CoverageRatio float64 `json:"coverage_ratio"`

	// AdditionalTestsNeeded equals the number of uncovered functions.
	AdditionalTestsNeeded int `json:"additional_tests_needed"`
}

// Assess determines test coverage for a set of affected functions.
//
// Description:
//
//	A function counts as covered when any node in Upstream ∪ Downstream
//	of it is a test node by the impact package's name heuristic. An
//	empty input is trivially fully covered (ratio 1.0, zero additional
//	tests): no affected code means no coverage gap. This convention is
//	deliberate and relied on by the feasibility gate.
//
// Inputs:
//
//	affectedFunctions - Function node IDs, typically the blast radius's
//	  AffectedFunctions list.
//	g - The dependency graph.
//
// Outputs:
//
//	*Assessment - Covered/uncovered partition and ratio. Never nil.
func Assess(affectedFunctions []string, g *graph.Graph) *Assessment {
	if len(affectedFunctions) == 0 {
		return &Assessment{
			CoveredFunctions:      []string{},
			UncoveredFunctions:    []string{},
			CoverageRatio:         1.0,
			AdditionalTestsNeeded: 0,
		}
	}

	covered := make([]string, 0, len(affectedFunctions))
	uncovered := make([]string, 0)

	for _, funcID := range affectedFunctions {
		if hasNearbyTest(funcID, g) {
			covered = append(covered, funcID)
		} else {
			uncovered = append(uncovered, funcID)
		}
	}

	total := len(covered) + len(uncovered)
	return &Assessment{
		CoveredFunctions:      covered,
		UncoveredFunctions:    uncovered,
		CoverageRatio:         float64(len(covered)) / float64(max(total, 1)),
		AdditionalTestsNeeded: len(uncovered),
	}
}

// hasNearbyTest reports whether any node connected to funcID, upstream
// or downstream, is a test node.
func hasNearbyTest(funcID string, g *graph.Graph) bool {
	neighbors := g.Upstream(funcID).Union(g.Downstream(funcID))
	for id := range neighbors {
		if impact.IsTestNode(g, id) {
			return true
		}
	}
	return false
}
