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
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckFreshness_FreshAndStale(t *testing.T) {
	dir := t.TempDir()
	fresh := time.Now().Add(-24 * time.Hour).UTC().Format(time.RFC3339)
	stale := time.Now().Add(-30 * 24 * time.Hour).UTC().Format(time.RFC3339)

	writeManifest(t, dir, "fresh.yaml", fmt.Sprintf("repo_name: fresh\ngenerated_at: %q\n", fresh))
	writeManifest(t, dir, "stale.yaml", fmt.Sprintf("repo_name: stale\ngenerated_at: %q\n", stale))

	report, err := CheckFreshness(dir, DefaultStalenessThreshold)
	require.NoError(t, err)

	assert.Equal(t, 2, report.ManifestsChecked)
	assert.Equal(t, 1, report.FreshCount)
	assert.Equal(t, 1, report.StaleCount)
	assert.Equal(t, 0, report.MissingTimestampCount)
	assert.False(t, report.AllFresh())

	for _, r := range report.Results {
		if r.RepoName == "stale" {
			assert.True(t, r.Stale)
			assert.Contains(t, r.Warning, "days old")
		} else {
			assert.False(t, r.Stale)
			assert.Empty(t, r.Warning)
		}
	}
}

func TestCheckFreshness_MissingTimestamp(t *testing.T) {
	dir := t.TempDir()
	writeManifest(t, dir, "untimed.yaml", "repo_name: untimed\n")

	report, err := CheckFreshness(dir, DefaultStalenessThreshold)
	require.NoError(t, err)

	assert.Equal(t, 1, report.MissingTimestampCount)
	assert.False(t, report.AllFresh())
	require.Len(t, report.Results, 1)
	assert.Contains(t, report.Results[0].Warning, "no generated_at")
}

func TestCheckFreshness_MissingDir(t *testing.T) {
	report, err := CheckFreshness(t.TempDir()+"/nope", DefaultStalenessThreshold)
	require.NoError(t, err)
	assert.Equal(t, 0, report.ManifestsChecked)
	assert.True(t, report.AllFresh())
}

func TestCheckFreshness_ZeroThresholdUsesDefault(t *testing.T) {
	dir := t.TempDir()
	recent := time.Now().Add(-time.Hour).UTC().Format(time.RFC3339)
	writeManifest(t, dir, "m.yaml", fmt.Sprintf("repo_name: m\ngenerated_at: %q\n", recent))

	report, err := CheckFreshness(dir, 0)
	require.NoError(t, err)
	assert.Equal(t, DefaultStalenessThreshold, report.Threshold)
	assert.Equal(t, 1, report.FreshCount)
}

func TestParseGeneratedAt(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		ok   bool
	}{
		{"rfc3339 with zone", "2025-11-01T10:00:00Z", true},
		{"rfc3339 with offset", "2025-11-01T10:00:00+02:00", true},
		{"no offset", "2025-11-01T10:00:00", true},
		{"space separator", "2025-11-01 10:00:00", true},
		{"date only", "2025-11-01", true},
		{"empty", "", false},
		{"whitespace", "   ", false},
		{"garbage", "last tuesday", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			parsed, ok := parseGeneratedAt(tt.raw)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.False(t, parsed.IsZero())
			}
		})
	}
}
