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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testManifest builds a manifest exercising every matcher tier.
func testManifest(t *testing.T) *RepositoryManifest {
	t.Helper()
	return &RepositoryManifest{
		RepoName: "webapp",
		Functions: []Function{
			{
				Name:       "check_token",
				ModulePath: "auth.middleware",
				Docstring:  "Validates the bearer token signature.",
			},
			{
				Name:       "render_page",
				ModulePath: "views.pages",
				Docstring:  "Renders a page with caching.",
			},
		},
		Classes: []Class{
			{
				Name:       "SessionStore",
				ModulePath: "auth.session",
				Docstring:  "Keeps login sessions in redis.",
			},
		},
	}
}

func TestCheckOperations_TierPriority(t *testing.T) {
	manifests := []*RepositoryManifest{testManifest(t)}

	tests := []struct {
		name      string
		operation string
		wantType  MatchType
		wantFn    string
		wantClass string
	}{
		{
			name:      "function name wins",
			operation: "check_token",
			wantType:  MatchExactFunction,
			wantFn:    "check_token",
		},
		{
			name:      "class name when no function matches",
			operation: "sessionstore",
			wantType:  MatchExactClass,
			wantClass: "SessionStore",
		},
		{
			name:      "function docstring before class docstring",
			operation: "caching",
			wantType:  MatchDocstring,
			wantFn:    "render_page",
		},
		{
			name:      "class docstring",
			operation: "redis",
			wantType:  MatchDocstring,
			wantClass: "SessionStore",
		},
		{
			name:      "function module path as last tier",
			operation: "views.pages",
			wantType:  MatchModulePath,
			wantFn:    "render_page",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := CheckOperations([]string{tt.operation}, manifests)
			require.Len(t, result.MatchedOperations, 1)
			match := result.MatchedOperations[0]
			assert.Equal(t, tt.wantType, match.MatchType)
			assert.Equal(t, tt.wantFn, match.FunctionName)
			assert.Equal(t, tt.wantClass, match.ClassName)
			assert.Equal(t, "webapp", match.RepoName)
		})
	}
}

func TestCheckOperations_CaseInsensitive(t *testing.T) {
	manifests := []*RepositoryManifest{testManifest(t)}

	result := CheckOperations([]string{"CHECK_TOKEN"}, manifests)
	require.Len(t, result.MatchedOperations, 1)
	assert.Equal(t, MatchExactFunction, result.MatchedOperations[0].MatchType)
}

func TestCheckOperations_SubstringContainment(t *testing.T) {
	manifests := []*RepositoryManifest{testManifest(t)}

	// "token" is a substring of the function name "check_token".
	result := CheckOperations([]string{"token"}, manifests)
	require.Len(t, result.MatchedOperations, 1)
	assert.Equal(t, "check_token", result.MatchedOperations[0].FunctionName)
}

func TestCheckOperations_ClassModulePathNeverMatches(t *testing.T) {
	// "auth.session" appears only as a class module path; the matcher
	// deliberately skips class module paths.
	manifests := []*RepositoryManifest{testManifest(t)}

	result := CheckOperations([]string{"auth.session"}, manifests)
	assert.Empty(t, result.MatchedOperations)
	assert.Equal(t, []string{"auth.session"}, result.UnmatchedOperations)
}

func TestCheckOperations_EmptyOperationNeverMatches(t *testing.T) {
	manifests := []*RepositoryManifest{testManifest(t)}

	result := CheckOperations([]string{"", "   "}, manifests)
	assert.Empty(t, result.MatchedOperations)
	assert.Len(t, result.UnmatchedOperations, 2)
}

func TestCheckOperations_EmptyOperationsYieldZeroCoverage(t *testing.T) {
	manifests := []*RepositoryManifest{testManifest(t)}

	result := CheckOperations(nil, manifests)
	assert.Equal(t, 0.0, result.CoverageRatio)
	assert.Empty(t, result.MatchedOperations)
	assert.Empty(t, result.UnmatchedOperations)
}

func TestCheckOperations_NoManifests(t *testing.T) {
	result := CheckOperations([]string{"check_token"}, nil)
	assert.Empty(t, result.MatchedOperations)
	assert.Equal(t, []string{"check_token"}, result.UnmatchedOperations)
	assert.Equal(t, 0.0, result.CoverageRatio)
}

func TestCheckOperations_CoverageRatio(t *testing.T) {
	manifests := []*RepositoryManifest{testManifest(t)}

	result := CheckOperations([]string{"check_token", "quantum_solver"}, manifests)
	require.Len(t, result.MatchedOperations, 1)
	require.Len(t, result.UnmatchedOperations, 1)
	assert.InDelta(t, 0.5, result.CoverageRatio, 1e-9)
}

func TestCheckOperations_FirstManifestWins(t *testing.T) {
	first := &RepositoryManifest{
		RepoName:  "alpha",
		Functions: []Function{{Name: "shared_helper", ModulePath: "a"}},
	}
	second := &RepositoryManifest{
		RepoName:  "beta",
		Functions: []Function{{Name: "shared_helper", ModulePath: "b"}},
	}

	result := CheckOperations([]string{"shared_helper"}, []*RepositoryManifest{first, second})
	require.Len(t, result.MatchedOperations, 1)
	assert.Equal(t, "alpha", result.MatchedOperations[0].RepoName)
}

func TestCheckOperations_InputOrderPreserved(t *testing.T) {
	manifests := []*RepositoryManifest{testManifest(t)}

	ops := []string{"render_page", "missing_one", "check_token", "missing_two"}
	result := CheckOperations(ops, manifests)

	require.Len(t, result.MatchedOperations, 2)
	assert.Equal(t, "render_page", result.MatchedOperations[0].Operation)
	assert.Equal(t, "check_token", result.MatchedOperations[1].Operation)
	assert.Equal(t, []string{"missing_one", "missing_two"}, result.UnmatchedOperations)
}
