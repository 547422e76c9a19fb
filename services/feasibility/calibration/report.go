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
	"sort"

	"github.com/AleutianAI/papergate/services/feasibility/paper"
)

// ConfusionMatrix counts predictions by (ground truth, predicted) pair.
type ConfusionMatrix struct {
	// Counts maps ground truth type -> predicted type -> count.
	Counts map[paper.InnovationType]map[paper.InnovationType]int `json:"counts"`

	TotalRecords int `json:"total_records"`
	Correct      int `json:"correct"`
}

// OverallAccuracy is correct / total; 0.0 when there are no records.
func (m *ConfusionMatrix) OverallAccuracy() float64 {
	if m.TotalRecords == 0 {
		return 0.0
	}
	return float64(m.Correct) / float64(m.TotalRecords)
}

// TypeMetrics carries per-innovation-type classification quality.
type TypeMetrics struct {
	InnovationType paper.InnovationType `json:"innovation_type"`

	TruePositives  int `json:"true_positives"`
	FalsePositives int `json:"false_positives"`
	FalseNegatives int `json:"false_negatives"`

	// Support is how many records have this type as ground truth.
	Support int `json:"support"`
}

// Precision is TP / (TP + FP); 0.0 when the type was never predicted.
func (tm *TypeMetrics) Precision() float64 {
	denom := tm.TruePositives + tm.FalsePositives
	if denom == 0 {
		return 0.0
	}
	return float64(tm.TruePositives) / float64(denom)
}

// Recall is TP / (TP + FN); 0.0 when the type never appears as truth.
func (tm *TypeMetrics) Recall() float64 {
	denom := tm.TruePositives + tm.FalseNegatives
	if denom == 0 {
		return 0.0
	}
	return float64(tm.TruePositives) / float64(denom)
}

// F1 is the harmonic mean of precision and recall; 0.0 when both are 0.
func (tm *TypeMetrics) F1() float64 {
	p, r := tm.Precision(), tm.Recall()
	if p+r == 0 {
		return 0.0
	}
	return 2 * p * r / (p + r)
}

// AccuracyReport summarizes stored records: a confusion matrix plus
// per-type precision/recall, and the average confidence split by
// correctness so over- or under-confidence is visible at a glance.
type AccuracyReport struct {
	Matrix  ConfusionMatrix `json:"confusion_matrix"`
	PerType []TypeMetrics   `json:"per_type"`

	MeanConfidenceCorrect   float64 `json:"mean_confidence_correct"`
	MeanConfidenceIncorrect float64 `json:"mean_confidence_incorrect"`
}

// BuildReport computes an AccuracyReport from records. An empty input
// yields a report with zero counts and an empty PerType slice.
func BuildReport(records []AccuracyRecord) *AccuracyReport {
	report := &AccuracyReport{
		Matrix: ConfusionMatrix{
			Counts: make(map[paper.InnovationType]map[paper.InnovationType]int),
		},
		PerType: make([]TypeMetrics, 0, 4),
	}

	perType := make(map[paper.InnovationType]*TypeMetrics)
	metricsFor := func(it paper.InnovationType) *TypeMetrics {
		tm, ok := perType[it]
		if !ok {
			tm = &TypeMetrics{InnovationType: it}
			perType[it] = tm
		}
		return tm
	}

	var sumCorrect, sumIncorrect float64
	var numCorrect, numIncorrect int

	for i := range records {
		rec := &records[i]
		truth, predicted := rec.GroundTruthType, rec.PredictedType

		row, ok := report.Matrix.Counts[truth]
		if !ok {
			row = make(map[paper.InnovationType]int)
			report.Matrix.Counts[truth] = row
		}
		row[predicted]++
		report.Matrix.TotalRecords++

		metricsFor(truth).Support++
		if rec.IsCorrect() {
			report.Matrix.Correct++
			metricsFor(truth).TruePositives++
			sumCorrect += rec.Confidence
			numCorrect++
		} else {
			metricsFor(truth).FalseNegatives++
			metricsFor(predicted).FalsePositives++
			sumIncorrect += rec.Confidence
			numIncorrect++
		}
	}

	if numCorrect > 0 {
		report.MeanConfidenceCorrect = sumCorrect / float64(numCorrect)
	}
	if numIncorrect > 0 {
		report.MeanConfidenceIncorrect = sumIncorrect / float64(numIncorrect)
	}

	for _, tm := range perType {
		report.PerType = append(report.PerType, *tm)
	}
	sort.Slice(report.PerType, func(i, j int) bool {
		return report.PerType[i].InnovationType < report.PerType[j].InnovationType
	})
	return report
}
