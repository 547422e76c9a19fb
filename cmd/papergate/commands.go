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
	"github.com/spf13/cobra"
)

// Exit codes for feasibility check: callers script against these.
const (
	exitFeasible    = 0 // FEASIBLE or FEASIBLE_WITH_ADAPTATION
	exitNotFeasible = 1 // ESCALATE or NOT_FEASIBLE
	exitError       = 2 // assessment could not run
)

var (
	// Shared flags
	manifestsDirFlag string
	jsonOutput       bool

	rootCmd = &cobra.Command{
		Use:   "papergate",
		Short: "A cli to gate research-paper implementations on codebase feasibility",
		Long: `Papergate assesses whether a research paper's proposed change can be
implemented in the target codebase: it matches the paper's operations
against repository manifests, computes the blast radius of the change
through the dependency graph, and applies a feasibility gate per
innovation type.`,
	}
)

func init() {
	rootCmd.PersistentFlags().StringVar(&manifestsDirFlag, "manifests-dir", "",
		"override the manifests directory from config")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false,
		"emit machine-readable JSON output")

	// graph
	graphCmd.AddCommand(graphStatsCmd)
	graphCmd.AddCommand(graphDownstreamCmd)
	graphCmd.AddCommand(graphUpstreamCmd)
	graphCmd.AddCommand(graphPathCmd)
	graphCmd.AddCommand(graphWatchCmd)
	rootCmd.AddCommand(graphCmd)

	// manifest
	manifestCmd.AddCommand(manifestFreshnessCmd)
	rootCmd.AddCommand(manifestCmd)

	// feasibility
	feasibilityCmd.AddCommand(feasibilityCheckCmd)
	rootCmd.AddCommand(feasibilityCmd)

	// batch
	batchCmd.AddCommand(batchRunCmd)
	rootCmd.AddCommand(batchCmd)

	// calibration
	calibrationCmd.AddCommand(calibrationRecordCmd)
	calibrationCmd.AddCommand(calibrationReportCmd)
	rootCmd.AddCommand(calibrationCmd)
}
