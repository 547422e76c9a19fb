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
	"time"

	"github.com/spf13/cobra"

	"github.com/AleutianAI/papergate/cmd/papergate/config"
	"github.com/AleutianAI/papergate/services/feasibility/manifest"
)

var manifestCmd = &cobra.Command{
	Use:   "manifest",
	Short: "Inspect repository manifests",
}

var manifestFreshnessCmd = &cobra.Command{
	Use:   "freshness",
	Short: "Report manifest ages against the staleness threshold",
	Long: `Check the generated_at timestamps of all manifests in the manifests
directory. Manifests older than the staleness threshold (default 7 days)
or without timestamps are flagged; assessments still run against them,
but their matches may not reflect the current codebase.`,
	RunE: runManifestFreshness,
}

func runManifestFreshness(cmd *cobra.Command, args []string) error {
	days := config.Global.Manifests.StalenessThresholdDays
	if days <= 0 {
		days = 7
	}

	report, err := manifest.CheckFreshness(resolveManifestsDir(), time.Duration(days)*24*time.Hour)
	if err != nil {
		return fmt.Errorf("freshness check: %w", err)
	}

	if jsonOutput {
		return printJSON(report)
	}

	fmt.Printf("Manifests checked:   %d\n", report.ManifestsChecked)
	fmt.Printf("Fresh:               %d\n", report.FreshCount)
	fmt.Printf("Stale:               %d\n", report.StaleCount)
	fmt.Printf("Missing timestamp:   %d\n", report.MissingTimestampCount)
	for _, r := range report.Results {
		if r.Warning != "" {
			fmt.Printf("  %s: %s\n", r.RepoName, r.Warning)
		}
	}
	return nil
}
