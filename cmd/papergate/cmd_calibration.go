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

	"github.com/spf13/cobra"

	"github.com/AleutianAI/papergate/cmd/papergate/config"
	"github.com/AleutianAI/papergate/services/feasibility/calibration"
	"github.com/AleutianAI/papergate/services/feasibility/paper"
)

var (
	calPaperID     string
	calPredicted   string
	calGroundTruth string
	calConfidence  float64
	calRationale   string
)

var calibrationCmd = &cobra.Command{
	Use:   "calibration",
	Short: "Track classifier accuracy against ground truth",
}

var calibrationRecordCmd = &cobra.Command{
	Use:   "record",
	Short: "Store one prediction with its ground truth label",
	Long: `Record a classifier prediction alongside the ground truth label.

Recording the same paper ID twice overwrites the earlier record.

Example:
  papergate calibration record --paper-id p-42 \
    --predicted modular_swap --ground-truth pipeline_restructuring \
    --confidence 0.74`,
	RunE: runCalibrationRecord,
}

var calibrationReportCmd = &cobra.Command{
	Use:   "report",
	Short: "Print the accuracy report over all stored records",
	RunE:  runCalibrationReport,
}

func init() {
	calibrationRecordCmd.Flags().StringVar(&calPaperID, "paper-id", "", "paper identifier (required)")
	calibrationRecordCmd.Flags().StringVar(&calPredicted, "predicted", "", "predicted innovation type (required)")
	calibrationRecordCmd.Flags().StringVar(&calGroundTruth, "ground-truth", "", "ground truth innovation type (required)")
	calibrationRecordCmd.Flags().Float64Var(&calConfidence, "confidence", 0, "classification confidence in [0,1]")
	calibrationRecordCmd.Flags().StringVar(&calRationale, "rationale", "", "classifier rationale")
	_ = calibrationRecordCmd.MarkFlagRequired("paper-id")
	_ = calibrationRecordCmd.MarkFlagRequired("predicted")
	_ = calibrationRecordCmd.MarkFlagRequired("ground-truth")
}

// openTracker opens the calibration store at the configured path.
func openTracker() (*calibration.Tracker, error) {
	return calibration.NewTracker(calibration.TrackerOptions{
		Path:   config.ExpandPath(config.Global.Calibration.DBPath),
		Logger: slog.Default(),
	})
}

func runCalibrationRecord(cmd *cobra.Command, args []string) error {
	tracker, err := openTracker()
	if err != nil {
		return err
	}
	defer func() { _ = tracker.Close() }()

	rec := &calibration.AccuracyRecord{
		PaperID:         calPaperID,
		PredictedType:   paper.InnovationType(calPredicted),
		GroundTruthType: paper.InnovationType(calGroundTruth),
		Confidence:      calConfidence,
		Rationale:       calRationale,
	}
	if err := tracker.Record(rec); err != nil {
		return err
	}

	fmt.Printf("Recorded %s: predicted=%s ground_truth=%s correct=%v\n",
		rec.PaperID, rec.PredictedType, rec.GroundTruthType, rec.IsCorrect())
	return nil
}

func runCalibrationReport(cmd *cobra.Command, args []string) error {
	tracker, err := openTracker()
	if err != nil {
		return err
	}
	defer func() { _ = tracker.Close() }()

	report, err := tracker.Report()
	if err != nil {
		return err
	}

	if jsonOutput {
		return printJSON(report)
	}

	fmt.Printf("Records:           %d\n", report.Matrix.TotalRecords)
	fmt.Printf("Overall accuracy:  %.2f\n", report.Matrix.OverallAccuracy())
	for _, tm := range report.PerType {
		fmt.Printf("  %-26s precision=%.2f recall=%.2f f1=%.2f (support %d)\n",
			tm.InnovationType, tm.Precision(), tm.Recall(), tm.F1(), tm.Support)
	}
	return nil
}
