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
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"sort"

	"github.com/spf13/cobra"

	"github.com/AleutianAI/papergate/services/feasibility/batch"
	"github.com/AleutianAI/papergate/services/feasibility/paper"
)

var (
	batchPapersDir string
	batchOutPath   string
)

var batchCmd = &cobra.Command{
	Use:   "batch",
	Short: "Evaluate many papers in one run",
}

var batchRunCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the feasibility pipeline over a directory of paper files",
	Long: `Evaluate every paper JSON file in a directory sequentially.

Each file holds one pre-classified paper:

  {
    "document_id": "...",
    "title": "...",
    "corpus": "...",
    "summary": { ... },
    "classification": { "innovation_type": "...", "confidence": 0.8, ... }
  }

A failure on one paper is recorded in its result and the run continues.

Example:
  papergate batch run --papers ./papers --out summary.json`,
	RunE: runBatch,
}

func init() {
	batchRunCmd.Flags().StringVar(&batchPapersDir, "papers", "",
		"directory of paper JSON files (required)")
	batchRunCmd.Flags().StringVar(&batchOutPath, "out", "",
		"write the batch summary JSON to this file instead of stdout")
	_ = batchRunCmd.MarkFlagRequired("papers")
}

// paperFile is the on-disk batch input: a document plus its
// classification, produced by the upstream comprehension stages.
type paperFile struct {
	DocumentID     string                       `json:"document_id"`
	Title          string                       `json:"title"`
	Corpus         string                       `json:"corpus"`
	Summary        *paper.ComprehensionSummary `json:"summary"`
	Classification *paper.ClassificationResult `json:"classification"`
}

// fileClassifier serves the classifications that were embedded in the
// paper files, keyed by summary identity.
type fileClassifier struct {
	bySummary map[*paper.ComprehensionSummary]*paper.ClassificationResult
}

func (c *fileClassifier) Classify(ctx context.Context, summary *paper.ComprehensionSummary) (*paper.ClassificationResult, error) {
	classification, ok := c.bySummary[summary]
	if !ok || classification == nil {
		return nil, errors.New("paper file carries no classification")
	}
	return classification, nil
}

func runBatch(cmd *cobra.Command, args []string) error {
	paths, err := filepath.Glob(filepath.Join(batchPapersDir, "*.json"))
	if err != nil {
		return fmt.Errorf("list papers in %s: %w", batchPapersDir, err)
	}
	sort.Strings(paths)
	if len(paths) == 0 {
		return fmt.Errorf("no paper files found in %s", batchPapersDir)
	}

	classifier := &fileClassifier{
		bySummary: make(map[*paper.ComprehensionSummary]*paper.ClassificationResult, len(paths)),
	}
	docs := make([]batch.Document, 0, len(paths))

	for _, path := range paths {
		var pf paperFile
		if err := readJSONFile(path, &pf); err != nil {
			slog.Warn("skipping unreadable paper file",
				slog.String("path", path),
				slog.String("error", err.Error()),
			)
			continue
		}
		if pf.DocumentID == "" {
			pf.DocumentID = fileStem(path)
		}
		classifier.bySummary[pf.Summary] = pf.Classification
		docs = append(docs, batch.Document{
			DocumentID: pf.DocumentID,
			Title:      pf.Title,
			Corpus:     pf.Corpus,
			Summary:    pf.Summary,
		})
	}

	pipeline := batch.NewPipeline(resolveManifestsDir(), classifier, slog.Default())
	summary := pipeline.Evaluate(cmd.Context(), docs)

	slog.Info("batch complete",
		slog.Int("total", summary.TotalPapers),
		slog.Int("successful", summary.Successful),
		slog.Int("failed", summary.Failed),
	)

	if batchOutPath != "" {
		return writeJSONFile(batchOutPath, summary)
	}
	return printJSON(summary)
}

// fileStem returns a path's base name without extension.
func fileStem(path string) string {
	base := filepath.Base(path)
	return base[:len(base)-len(filepath.Ext(base))]
}
