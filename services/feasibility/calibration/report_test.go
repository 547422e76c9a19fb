// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package calibration

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AleutianAI/papergate/services/feasibility/paper"
)

func rec(predicted, truth paper.InnovationType, confidence float64) AccuracyRecord {
	return AccuracyRecord{
		PaperID:         "p",
		PredictedType:   predicted,
		GroundTruthType: truth,
		Confidence:      confidence,
	}
}

func TestBuildReport_Empty(t *testing.T) {
	report := BuildReport(nil)

	assert.Equal(t, 0, report.Matrix.TotalRecords)
	assert.Equal(t, 0.0, report.Matrix.OverallAccuracy())
	assert.Empty(t, report.PerType)
	assert.NotNil(t, report.Matrix.Counts)
	assert.Equal(t, 0.0, report.MeanConfidenceCorrect)
	assert.Equal(t, 0.0, report.MeanConfidenceIncorrect)
}

func TestBuildReport_ConfusionMatrix(t *testing.T) {
	records := []AccuracyRecord{
		rec(paper.InnovationModularSwap, paper.InnovationModularSwap, 0.9),
		rec(paper.InnovationModularSwap, paper.InnovationModularSwap, 0.8),
		rec(paper.InnovationParameterTuning, paper.InnovationModularSwap, 0.6),
		rec(paper.InnovationArchitectural, paper.InnovationArchitectural, 0.7),
	}

	report := BuildReport(records)

	assert.Equal(t, 4, report.Matrix.TotalRecords)
	assert.Equal(t, 3, report.Matrix.Correct)
	assert.Equal(t, 0.75, report.Matrix.OverallAccuracy())

	swapRow := report.Matrix.Counts[paper.InnovationModularSwap]
	require.NotNil(t, swapRow)
	assert.Equal(t, 2, swapRow[paper.InnovationModularSwap])
	assert.Equal(t, 1, swapRow[paper.InnovationParameterTuning])
	assert.Equal(t, 1, report.Matrix.Counts[paper.InnovationArchitectural][paper.InnovationArchitectural])
}

func TestBuildReport_PerTypeMetrics(t *testing.T) {
	// modular_swap: 2 TP, 1 FN (predicted as tuning).
	// parameter_tuning: 0 TP, 1 FP, 0 support as truth.
	records := []AccuracyRecord{
		rec(paper.InnovationModularSwap, paper.InnovationModularSwap, 0.9),
		rec(paper.InnovationModularSwap, paper.InnovationModularSwap, 0.8),
		rec(paper.InnovationParameterTuning, paper.InnovationModularSwap, 0.6),
	}

	report := BuildReport(records)
	byType := make(map[paper.InnovationType]TypeMetrics)
	for _, tm := range report.PerType {
		byType[tm.InnovationType] = tm
	}

	swap := byType[paper.InnovationModularSwap]
	assert.Equal(t, 2, swap.TruePositives)
	assert.Equal(t, 1, swap.FalseNegatives)
	assert.Equal(t, 0, swap.FalsePositives)
	assert.Equal(t, 3, swap.Support)
	assert.Equal(t, 1.0, swap.Precision())
	assert.InDelta(t, 2.0/3.0, swap.Recall(), 1e-9)
	assert.InDelta(t, 0.8, swap.F1(), 1e-9)

	tuning := byType[paper.InnovationParameterTuning]
	assert.Equal(t, 0, tuning.TruePositives)
	assert.Equal(t, 1, tuning.FalsePositives)
	assert.Equal(t, 0, tuning.Support)
	assert.Equal(t, 0.0, tuning.Precision())
	assert.Equal(t, 0.0, tuning.Recall())
	assert.Equal(t, 0.0, tuning.F1())
}

func TestBuildReport_PerTypeSortedByName(t *testing.T) {
	records := []AccuracyRecord{
		rec(paper.InnovationPipelineRestructuring, paper.InnovationPipelineRestructuring, 0.8),
		rec(paper.InnovationArchitectural, paper.InnovationArchitectural, 0.9),
		rec(paper.InnovationModularSwap, paper.InnovationModularSwap, 0.7),
	}

	report := BuildReport(records)
	require.Len(t, report.PerType, 3)
	assert.Equal(t, paper.InnovationArchitectural, report.PerType[0].InnovationType)
	assert.Equal(t, paper.InnovationModularSwap, report.PerType[1].InnovationType)
	assert.Equal(t, paper.InnovationPipelineRestructuring, report.PerType[2].InnovationType)
}

func TestBuildReport_MeanConfidenceSplit(t *testing.T) {
	records := []AccuracyRecord{
		rec(paper.InnovationModularSwap, paper.InnovationModularSwap, 0.9),
		rec(paper.InnovationModularSwap, paper.InnovationModularSwap, 0.7),
		rec(paper.InnovationArchitectural, paper.InnovationModularSwap, 0.5),
	}

	report := BuildReport(records)
	assert.InDelta(t, 0.8, report.MeanConfidenceCorrect, 1e-9)
	assert.InDelta(t, 0.5, report.MeanConfidenceIncorrect, 1e-9)
}

func TestBuildReport_AllIncorrect(t *testing.T) {
	records := []AccuracyRecord{
		rec(paper.InnovationModularSwap, paper.InnovationArchitectural, 0.6),
	}

	report := BuildReport(records)
	assert.Equal(t, 0, report.Matrix.Correct)
	assert.Equal(t, 0.0, report.Matrix.OverallAccuracy())
	assert.Equal(t, 0.0, report.MeanConfidenceCorrect)
	assert.Equal(t, 0.6, report.MeanConfidenceIncorrect)
}
