// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package manifest

import "strings"

// MatchType tags which tier of the checker matched an operation.
type MatchType string

const (
	// MatchExactFunction is a substring hit on a function name.
	MatchExactFunction MatchType = "exact_function"

	// MatchExactClass is a substring hit on a class name.
	MatchExactClass MatchType = "exact_class"

	// MatchDocstring is a substring hit on a function or class docstring.
	MatchDocstring MatchType = "docstring"

	// MatchModulePath is a substring hit on a function's module path.
	MatchModulePath MatchType = "module_path"
)

// OperationMatch records where a single operation string matched.
//
// Exactly one of FunctionName and ClassName is set.
type OperationMatch struct {
	// Operation is the original operation string.
	Operation string `json:"operation"`

	// RepoName is the repository whose manifest matched.
	RepoName string `json:"repo_name"`

	// FunctionName is the matched function name, if a function matched.
	FunctionName string `json:"function_name,omitempty"`

	// ClassName is the matched class name, if a class matched.
	ClassName string `json:"class_name,omitempty"`

	// ModulePath is the module path of the matched entry.
	ModulePath string `json:"module_path"`

	// MatchType tags the tier that produced the match.
	MatchType MatchType `json:"match_type"`
}

// CheckResult aggregates operation matching over all manifests.
type CheckResult struct {
	// MatchedOperations holds one match per matched operation, in input order.
	MatchedOperations []OperationMatch `json:"matched_operations"`

	// UnmatchedOperations holds operations no manifest matched, in input order.
	UnmatchedOperations []string `json:"unmatched_operations"`

	// ManifestsLoaded lists the repo names that were consulted.
	ManifestsLoaded []string `json:"manifests_loaded"`

	// CoverageRatio is matched / max(matched+unmatched, 1), in [0, 1].
	// An empty operations list yields exactly 0.0.
	CoverageRatio float64 `json:"coverage_ratio"`
}

// CheckOperations matches paper-derived operation strings against manifests.
//
// Description:
//
//	For each operation, manifests are tried in order (LoadAll returns
//	them sorted by repo name) and within a manifest the tiers run in
//	strict priority: function name, class name, function docstring,
//	class docstring, function module path. The first hit wins and
//	scanning stops. Matching is case-insensitive substring containment.
//
//	Class module paths are intentionally not a tier. The asymmetry is
//	long-standing observed behavior that downstream calibration data
//	was collected against; changing it would shift coverage ratios.
//
// Inputs:
//
//	operations - Operation strings to check. Empty strings never match.
//	manifests - Loaded manifests, in stable order.
//
// Outputs:
//
//	*CheckResult - Matches, misses, and the clamped coverage ratio.
func CheckOperations(operations []string, manifests []*RepositoryManifest) *CheckResult {
	result := &CheckResult{
		MatchedOperations:   make([]OperationMatch, 0, len(operations)),
		UnmatchedOperations: make([]string, 0),
		ManifestsLoaded:     make([]string, 0, len(manifests)),
	}
	for _, m := range manifests {
		result.ManifestsLoaded = append(result.ManifestsLoaded, m.RepoName)
	}

	for _, op := range operations {
		var match *OperationMatch
		for _, m := range manifests {
			if match = matchOperation(op, m); match != nil {
				break
			}
		}
		if match != nil {
			result.MatchedOperations = append(result.MatchedOperations, *match)
		} else {
			result.UnmatchedOperations = append(result.UnmatchedOperations, op)
		}
	}

	total := len(result.MatchedOperations) + len(result.UnmatchedOperations)
	result.CoverageRatio = clamp01(float64(len(result.MatchedOperations)) / float64(max(total, 1)))
	return result
}

// matchOperation tries one operation against one manifest, first hit wins.
func matchOperation(operation string, m *RepositoryManifest) *OperationMatch {
	op := strings.ToLower(operation)
	if strings.TrimSpace(op) == "" {
		// Empty substring containment is vacuously true; a blank
		// operation must count as unmatched instead.
		return nil
	}

	// Tier 1: function name
	for i := range m.Functions {
		f := &m.Functions[i]
		if strings.Contains(strings.ToLower(f.Name), op) {
			return &OperationMatch{
				Operation:    operation,
				RepoName:     m.RepoName,
				FunctionName: f.Name,
				ModulePath:   f.ModulePath,
				MatchType:    MatchExactFunction,
			}
		}
	}

	// Tier 2: class name
	for i := range m.Classes {
		c := &m.Classes[i]
		if strings.Contains(strings.ToLower(c.Name), op) {
			return &OperationMatch{
				Operation:  operation,
				RepoName:   m.RepoName,
				ClassName:  c.Name,
				ModulePath: c.ModulePath,
				MatchType:  MatchExactClass,
			}
		}
	}

	// Tier 3: docstrings, functions before classes
	for i := range m.Functions {
		f := &m.Functions[i]
		if f.Docstring != "" && strings.Contains(strings.ToLower(f.Docstring), op) {
			return &OperationMatch{
				Operation:    operation,
				RepoName:     m.RepoName,
				FunctionName: f.Name,
				ModulePath:   f.ModulePath,
				MatchType:    MatchDocstring,
			}
		}
	}
	for i := range m.Classes {
		c := &m.Classes[i]
		if c.Docstring != "" && strings.Contains(strings.ToLower(c.Docstring), op) {
			return &OperationMatch{
				Operation:  operation,
				RepoName:   m.RepoName,
				ClassName:  c.Name,
				ModulePath: c.ModulePath,
				MatchType:  MatchDocstring,
			}
		}
	}

	// Tier 4: function module paths
	for i := range m.Functions {
		f := &m.Functions[i]
		if strings.Contains(strings.ToLower(f.ModulePath), op) {
			return &OperationMatch{
				Operation:    operation,
				RepoName:     m.RepoName,
				FunctionName: f.Name,
				ModulePath:   f.ModulePath,
				MatchType:    MatchModulePath,
			}
		}
	}

	return nil
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
