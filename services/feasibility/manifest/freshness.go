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

import (
	"fmt"
	"strings"
	"time"
)

// DefaultStalenessThreshold is the manifest age beyond which a manifest
// is reported stale.
const DefaultStalenessThreshold = 7 * 24 * time.Hour

// FreshnessResult reports the freshness of a single manifest.
type FreshnessResult struct {
	// RepoName is the manifest's repository name.
	RepoName string `json:"repo_name"`

	// GeneratedAt is the parsed generation time, zero when missing.
	GeneratedAt time.Time `json:"generated_at,omitempty"`

	// Age is how old the manifest is. Zero when GeneratedAt is missing.
	Age time.Duration `json:"age"`

	// Stale is true when Age exceeds the threshold.
	Stale bool `json:"stale"`

	// Warning is a human-readable note for stale or timestamp-less manifests.
	Warning string `json:"warning,omitempty"`
}

// FreshnessReport aggregates freshness over a manifests directory.
type FreshnessReport struct {
	ManifestsChecked      int               `json:"manifests_checked"`
	StaleCount            int               `json:"stale_count"`
	FreshCount            int               `json:"fresh_count"`
	MissingTimestampCount int               `json:"missing_timestamp_count"`
	Threshold             time.Duration     `json:"threshold"`
	Results               []FreshnessResult `json:"results"`
}

// AllFresh reports whether every manifest carried a timestamp and none
// exceeded the threshold.
func (r *FreshnessReport) AllFresh() bool {
	return r.StaleCount == 0 && r.MissingTimestampCount == 0
}

// CheckFreshness inspects the generated_at timestamps of all manifests
// in a directory.
//
// Description:
//
//	Stale manifests describe a codebase surface that may have drifted,
//	which silently skews manifest coverage and blast radius. The check
//	is advisory: callers log warnings, assessments still proceed.
//
// Inputs:
//
//	dir - Manifests directory. Missing dir yields an empty report.
//	threshold - Staleness cutoff; <= 0 uses DefaultStalenessThreshold.
//
// Outputs:
//
//	*FreshnessReport - Per-manifest results plus aggregate counts.
//	error - Non-nil only when a manifest file cannot be loaded.
func CheckFreshness(dir string, threshold time.Duration) (*FreshnessReport, error) {
	if threshold <= 0 {
		threshold = DefaultStalenessThreshold
	}

	manifests, err := LoadAll(dir)
	if err != nil {
		return nil, err
	}

	report := &FreshnessReport{
		Threshold: threshold,
		Results:   make([]FreshnessResult, 0, len(manifests)),
	}
	now := time.Now()

	for _, m := range manifests {
		result := FreshnessResult{RepoName: m.RepoName}

		generatedAt, ok := parseGeneratedAt(m.GeneratedAt)
		if !ok {
			result.Warning = fmt.Sprintf("manifest %s has no generated_at timestamp", m.RepoName)
			report.MissingTimestampCount++
		} else {
			result.GeneratedAt = generatedAt
			result.Age = now.Sub(generatedAt)
			if result.Age > threshold {
				result.Stale = true
				result.Warning = fmt.Sprintf(
					"manifest %s is %.1f days old (threshold %.1f days)",
					m.RepoName, result.Age.Hours()/24, threshold.Hours()/24,
				)
				report.StaleCount++
			} else {
				report.FreshCount++
			}
		}

		report.Results = append(report.Results, result)
		report.ManifestsChecked++
	}

	return report, nil
}

// parseGeneratedAt parses an ISO 8601 / RFC 3339 timestamp, tolerating a
// missing offset (interpreted as UTC).
func parseGeneratedAt(raw string) (time.Time, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, false
	}
	for _, layout := range []string{
		time.RFC3339,
		"2006-01-02T15:04:05",
		"2006-01-02 15:04:05",
		"2006-01-02",
	} {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
