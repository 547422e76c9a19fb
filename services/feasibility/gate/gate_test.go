// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package gate

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AleutianAI/papergate/services/feasibility/impact"
	"github.com/AleutianAI/papergate/services/feasibility/manifest"
	"github.com/AleutianAI/papergate/services/feasibility/paper"
)

func classification(t paper.InnovationType, confidence float64) *paper.ClassificationResult {
	return &paper.ClassificationResult{
		InnovationType: t,
		Confidence:     confidence,
		Rationale:      "classifier rationale",
	}
}

func summaryWithOps(ops ...string) *paper.ComprehensionSummary {
	return &paper.ComprehensionSummary{
		TransformationProposed: "replace the optimizer schedule",
		PaperTerms:             ops,
	}
}

// pipelineManifests expose a DataPipeline class whose module has a test
// sibling, so its methods count as covered.
func pipelineManifests() []*manifest.RepositoryManifest {
	return []*manifest.RepositoryManifest{{
		RepoName: "mlrepo",
		Functions: []manifest.Function{
			{Name: "train_model", ModulePath: "ml.train"},
			{Name: "test_pipeline", ModulePath: "pipe.tests"},
		},
		Classes: []manifest.Class{{
			Name:       "DataPipeline",
			ModulePath: "pipe.core",
			Methods: []manifest.Function{
				{Name: "load", ModulePath: "pipe.core"},
				{Name: "transform", ModulePath: "pipe.core"},
			},
		}},
	}}
}

// untestedManifests expose the same class with no tests anywhere.
func untestedManifests() []*manifest.RepositoryManifest {
	return []*manifest.RepositoryManifest{{
		RepoName: "mlrepo",
		Classes: []manifest.Class{{
			Name:       "DataPipeline",
			ModulePath: "pipe.core",
			Methods: []manifest.Function{
				{Name: "load", ModulePath: "pipe.core"},
				{Name: "transform", ModulePath: "pipe.core"},
			},
		}},
	}}
}

// wideClassManifests expose a class with enough methods to grade critical.
func wideClassManifests() []*manifest.RepositoryManifest {
	methods := make([]manifest.Function, 0, 35)
	for i := 0; i < 35; i++ {
		methods = append(methods, manifest.Function{
			Name:       fmt.Sprintf("handle_%02d", i),
			ModulePath: "svc.mega",
		})
	}
	return []*manifest.RepositoryManifest{{
		RepoName: "svc",
		Classes: []manifest.Class{{
			Name:       "MegaController",
			ModulePath: "svc.mega",
			Methods:    methods,
		}},
	}}
}

func TestParameterTuning_Feasible(t *testing.T) {
	result, err := AssessWithManifests(context.Background(),
		summaryWithOps("train_model"),
		classification(paper.InnovationParameterTuning, 0.8),
		pipelineManifests())
	require.NoError(t, err)

	assert.Equal(t, StatusFeasible, result.Status)
	assert.Equal(t, paper.InnovationParameterTuning, result.InnovationType)
	assert.Nil(t, result.BlastRadius)
	assert.Nil(t, result.Coverage)
	assert.Equal(t, paper.TriggerNone, result.EscalationTrigger)
	assert.NotEmpty(t, result.Rationale)
}

func TestParameterTuning_LowConfidenceEscalates(t *testing.T) {
	result, err := AssessWithManifests(context.Background(),
		summaryWithOps("train_model"),
		classification(paper.InnovationParameterTuning, 0.5),
		pipelineManifests())
	require.NoError(t, err)

	assert.Equal(t, StatusEscalate, result.Status)
	assert.Equal(t, paper.TriggerConfidenceBelowThreshold, result.EscalationTrigger)
}

func TestParameterTuning_ZeroCoverageNotFeasible(t *testing.T) {
	result, err := AssessWithManifests(context.Background(),
		summaryWithOps("quantum_annealing"),
		classification(paper.InnovationParameterTuning, 0.9),
		pipelineManifests())
	require.NoError(t, err)

	assert.Equal(t, StatusNotFeasible, result.Status)
	assert.NotEmpty(t, result.Rationale)
}

func TestParameterTuning_PartialCoverageAdapts(t *testing.T) {
	// 1 of 3 operations matched: coverage 0.33 sits between 0 and the floor.
	result, err := AssessWithManifests(context.Background(),
		summaryWithOps("train_model", "quantum_annealing", "warp_drive"),
		classification(paper.InnovationParameterTuning, 0.9),
		pipelineManifests())
	require.NoError(t, err)

	assert.Equal(t, StatusFeasibleWithAdaptation, result.Status)
	assert.NotEmpty(t, result.AdaptationNotes)
}

func TestModularSwap_Feasible(t *testing.T) {
	result, err := AssessWithManifests(context.Background(),
		summaryWithOps("datapipeline"),
		classification(paper.InnovationModularSwap, 0.85),
		pipelineManifests())
	require.NoError(t, err)

	assert.Equal(t, StatusFeasible, result.Status)
	require.NotNil(t, result.BlastRadius)
	assert.Nil(t, result.Coverage)
	assert.Equal(t, impact.RiskLow, result.BlastRadius.RiskLevel)
}

func TestModularSwap_CriticalRiskEscalatesAsNovelPrimitive(t *testing.T) {
	// Confidence is fine; the critical blast radius alone escalates, and
	// critical risk picks the novel_primitive trigger over confidence.
	result, err := AssessWithManifests(context.Background(),
		summaryWithOps("megacontroller"),
		classification(paper.InnovationModularSwap, 0.85),
		wideClassManifests())
	require.NoError(t, err)

	require.NotNil(t, result.BlastRadius)
	require.Equal(t, impact.RiskCritical, result.BlastRadius.RiskLevel)
	assert.Equal(t, StatusEscalate, result.Status)
	assert.Equal(t, paper.TriggerNovelPrimitive, result.EscalationTrigger)
}

func TestModularSwap_LowConfidenceEscalates(t *testing.T) {
	result, err := AssessWithManifests(context.Background(),
		summaryWithOps("datapipeline"),
		classification(paper.InnovationModularSwap, 0.3),
		pipelineManifests())
	require.NoError(t, err)

	assert.Equal(t, StatusEscalate, result.Status)
	assert.Equal(t, paper.TriggerConfidenceBelowThreshold, result.EscalationTrigger)
}

func TestModularSwap_ZeroCoverageNotFeasible(t *testing.T) {
	result, err := AssessWithManifests(context.Background(),
		summaryWithOps("nothing_matches_this"),
		classification(paper.InnovationModularSwap, 0.9),
		pipelineManifests())
	require.NoError(t, err)

	assert.Equal(t, StatusNotFeasible, result.Status)
}

func TestPipelineRestructuring_FeasibleWithNearbyTests(t *testing.T) {
	result, err := AssessWithManifests(context.Background(),
		summaryWithOps("datapipeline"),
		classification(paper.InnovationPipelineRestructuring, 0.8),
		pipelineManifests())
	require.NoError(t, err)

	assert.Equal(t, StatusFeasible, result.Status)
	require.NotNil(t, result.Coverage)
	assert.Equal(t, 1.0, result.Coverage.CoverageRatio)
}

func TestPipelineRestructuring_UntestedCodeAdapts(t *testing.T) {
	result, err := AssessWithManifests(context.Background(),
		summaryWithOps("datapipeline"),
		classification(paper.InnovationPipelineRestructuring, 0.8),
		untestedManifests())
	require.NoError(t, err)

	assert.Equal(t, StatusFeasibleWithAdaptation, result.Status)
	require.NotNil(t, result.Coverage)
	assert.Equal(t, 0.0, result.Coverage.CoverageRatio)
	assert.NotEmpty(t, result.AdaptationNotes)
}

func TestArchitectural_MostlyUnmatchedNotFeasible(t *testing.T) {
	// 1 matched out of 10: unmatched ratio 0.9 exceeds the reject bound
	// even though coverage itself is nonzero.
	ops := []string{"train_model"}
	for i := 0; i < 9; i++ {
		ops = append(ops, fmt.Sprintf("unheard_of_op_%d", i))
	}
	result, err := AssessWithManifests(context.Background(),
		summaryWithOps(ops...),
		classification(paper.InnovationArchitectural, 0.95),
		pipelineManifests())
	require.NoError(t, err)

	assert.Equal(t, StatusNotFeasible, result.Status)
	assert.NotEmpty(t, result.Rationale)
}

func TestArchitectural_HalfUnmatchedEscalatesAsNovelPrimitive(t *testing.T) {
	// 2 matched, 3 unmatched: ratio 0.6 is in the escalate band. The
	// novel_primitive trigger wins even with high confidence.
	result, err := AssessWithManifests(context.Background(),
		summaryWithOps("train_model", "datapipeline", "op_a", "op_b", "op_c"),
		classification(paper.InnovationArchitectural, 0.95),
		pipelineManifests())
	require.NoError(t, err)

	assert.Equal(t, StatusEscalate, result.Status)
	assert.Equal(t, paper.TriggerNovelPrimitive, result.EscalationTrigger)
}

func TestArchitectural_LowConfidenceEscalates(t *testing.T) {
	// Fully matched operations, so the only escalation signal left is
	// the confidence floor.
	result, err := AssessWithManifests(context.Background(),
		summaryWithOps("train_model", "datapipeline"),
		classification(paper.InnovationArchitectural, 0.4),
		pipelineManifests())
	require.NoError(t, err)

	assert.Equal(t, StatusEscalate, result.Status)
	assert.Equal(t, paper.TriggerConfidenceBelowThreshold, result.EscalationTrigger)
}

func TestArchitectural_Feasible(t *testing.T) {
	result, err := AssessWithManifests(context.Background(),
		summaryWithOps("datapipeline"),
		classification(paper.InnovationArchitectural, 0.9),
		pipelineManifests())
	require.NoError(t, err)

	assert.Equal(t, StatusFeasible, result.Status)
	require.NotNil(t, result.Coverage)
	require.NotNil(t, result.BlastRadius)
}

func TestUnknownInnovationType_FallsBackToStrictestBranch(t *testing.T) {
	result, err := AssessWithManifests(context.Background(),
		summaryWithOps("datapipeline"),
		classification(paper.InnovationType("quantum_leap"), 0.9),
		pipelineManifests())
	require.NoError(t, err)

	// The conservative fallback behaves like architectural_innovation,
	// so both graph signals are populated.
	assert.NotNil(t, result.BlastRadius)
	assert.NotNil(t, result.Coverage)
}

func TestAssess_MissingManifestsDirNotFeasible(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "does-not-exist")

	result, err := Assess(context.Background(),
		summaryWithOps("train_model"),
		classification(paper.InnovationArchitectural, 0.9),
		dir)
	require.NoError(t, err)

	assert.Equal(t, StatusNotFeasible, result.Status)
	assert.NotEmpty(t, result.Rationale)
}

func TestAssessWithManifests_InvalidClassification(t *testing.T) {
	tests := []struct {
		name           string
		classification *paper.ClassificationResult
	}{
		{"confidence above 1", &paper.ClassificationResult{
			InnovationType: paper.InnovationModularSwap,
			Confidence:     1.5,
			Rationale:      "r",
		}},
		{"negative confidence", &paper.ClassificationResult{
			InnovationType: paper.InnovationModularSwap,
			Confidence:     -0.1,
			Rationale:      "r",
		}},
		{"missing rationale", &paper.ClassificationResult{
			InnovationType: paper.InnovationModularSwap,
			Confidence:     0.9,
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := AssessWithManifests(context.Background(),
				summaryWithOps("train_model"), tt.classification, pipelineManifests())
			assert.Error(t, err)
			assert.Nil(t, result)
		})
	}
}

func TestRationaleNeverEmpty(t *testing.T) {
	types := []paper.InnovationType{
		paper.InnovationParameterTuning,
		paper.InnovationModularSwap,
		paper.InnovationPipelineRestructuring,
		paper.InnovationArchitectural,
	}
	confidences := []float64{0.2, 0.9}
	opSets := [][]string{
		{"train_model", "datapipeline"},
		{"nothing_matches_this"},
		{},
	}

	for _, it := range types {
		for _, conf := range confidences {
			for _, ops := range opSets {
				result, err := AssessWithManifests(context.Background(),
					summaryWithOps(ops...), classification(it, conf), pipelineManifests())
				require.NoError(t, err)
				assert.NotEmpty(t, result.Rationale,
					"type=%s conf=%.1f ops=%v", it, conf, ops)
			}
		}
	}
}

func TestManifestCheckAlwaysPopulated(t *testing.T) {
	result, err := AssessWithManifests(context.Background(),
		summaryWithOps(),
		classification(paper.InnovationParameterTuning, 0.9),
		nil)
	require.NoError(t, err)

	require.NotNil(t, result.ManifestCheck)
	assert.Equal(t, 0.0, result.ManifestCheck.CoverageRatio)
}
