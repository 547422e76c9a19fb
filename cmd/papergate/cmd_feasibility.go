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
	"fmt"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"github.com/AleutianAI/papergate/cmd/papergate/config"
	"github.com/AleutianAI/papergate/services/feasibility/gate"
	"github.com/AleutianAI/papergate/services/feasibility/manifest"
	"github.com/AleutianAI/papergate/services/feasibility/paper"
)

var (
	summaryPath        string
	classificationPath string
)

var feasibilityCmd = &cobra.Command{
	Use:   "feasibility",
	Short: "Run the feasibility gate on a classified paper",
}

var feasibilityCheckCmd = &cobra.Command{
	Use:   "check",
	Short: "Assess whether a paper's change is feasible in the codebase",
	Long: `Assess a paper against the repository manifests.

Reads the Stage 1 comprehension summary and Stage 2 classification from
JSON files, then runs manifest matching, blast radius analysis, and the
per-innovation-type gate.

Exit codes:
  0 - FEASIBLE or FEASIBLE_WITH_ADAPTATION
  1 - ESCALATE or NOT_FEASIBLE
  2 - the assessment could not run

Example:
  papergate feasibility check --summary paper.json --classification class.json`,
	RunE: runFeasibilityCheck,
}

func init() {
	feasibilityCheckCmd.Flags().StringVar(&summaryPath, "summary", "",
		"path to the comprehension summary JSON (required)")
	feasibilityCheckCmd.Flags().StringVar(&classificationPath, "classification", "",
		"path to the classification result JSON (required)")
	_ = feasibilityCheckCmd.MarkFlagRequired("summary")
	_ = feasibilityCheckCmd.MarkFlagRequired("classification")
}

func runFeasibilityCheck(cmd *cobra.Command, args []string) error {
	var summary paper.ComprehensionSummary
	if err := readJSONFile(summaryPath, &summary); err != nil {
		return err
	}
	var classification paper.ClassificationResult
	if err := readJSONFile(classificationPath, &classification); err != nil {
		return err
	}

	manifestsDir := resolveManifestsDir()
	warnIfStale(manifestsDir)

	result, err := gate.Assess(cmd.Context(), &summary, &classification, manifestsDir)
	if err != nil {
		return fmt.Errorf("feasibility assessment: %w", err)
	}

	if jsonOutput {
		if err := printJSON(result); err != nil {
			return err
		}
	} else {
		fmt.Printf("Status:     %s\n", result.Status)
		fmt.Printf("Type:       %s\n", result.InnovationType)
		fmt.Printf("Coverage:   %.0f%% of operations matched\n",
			result.ManifestCheck.CoverageRatio*100)
		if result.BlastRadius != nil {
			fmt.Printf("Risk:       %s (%d affected)\n",
				result.BlastRadius.RiskLevel, result.BlastRadius.TotalAffected())
		}
		if result.EscalationTrigger != paper.TriggerNone {
			fmt.Printf("Trigger:    %s\n", result.EscalationTrigger)
		}
		fmt.Printf("Rationale:  %s\n", result.Rationale)
	}

	switch result.Status {
	case gate.StatusFeasible, gate.StatusFeasibleWithAdaptation:
		exitCode = exitFeasible
	default:
		exitCode = exitNotFeasible
	}
	return nil
}

// warnIfStale logs a warning for stale or untimestamped manifests; the
// assessment proceeds regardless.
func warnIfStale(dir string) {
	days := config.Global.Manifests.StalenessThresholdDays
	if days <= 0 {
		days = 7
	}
	report, err := manifest.CheckFreshness(dir, time.Duration(days)*24*time.Hour)
	if err != nil || report == nil {
		return
	}
	if !report.AllFresh() {
		slog.Warn("some manifests are stale or missing timestamps",
			slog.Int("stale", report.StaleCount),
			slog.Int("missing_timestamp", report.MissingTimestampCount),
		)
	}
}
