// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package batch evaluates multiple papers through classification and the
// feasibility gate, strictly sequentially, capturing each paper's
// outcome or error independently so one bad paper never aborts a run.
package batch

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/AleutianAI/papergate/services/feasibility/gate"
	"github.com/AleutianAI/papergate/services/feasibility/paper"
)

// Document is one paper queued for evaluation, already parsed by the
// upstream comprehension stage.
type Document struct {
	// DocumentID identifies the paper in its corpus.
	DocumentID string `json:"document_id"`

	// Title is the paper title.
	Title string `json:"title"`

	// Corpus names the collection the paper came from.
	Corpus string `json:"corpus"`

	// Summary is the Stage 1 comprehension output.
	Summary *paper.ComprehensionSummary `json:"summary"`
}

// Classifier is the Stage 2 collaborator that assigns an innovation
// type to a paper summary.
type Classifier interface {
	// Classify returns the innovation-type classification for a summary.
	Classify(ctx context.Context, summary *paper.ComprehensionSummary) (*paper.ClassificationResult, error)
}

// PaperResult captures one paper's trip through the pipeline. On
// failure, Error is set and the assessment fields stay empty.
type PaperResult struct {
	// ResultID uniquely identifies this evaluation.
	ResultID string `json:"result_id"`

	DocumentID string `json:"document_id"`
	Title      string `json:"title"`
	Corpus     string `json:"corpus"`

	// InnovationType and Confidence echo the classification, when it ran.
	InnovationType string   `json:"innovation_type,omitempty"`
	Confidence     *float64 `json:"classification_confidence,omitempty"`

	// FeasibilityStatus is the gate verdict, when the gate ran.
	FeasibilityStatus string `json:"feasibility_status,omitempty"`

	// Rationale is the gate's explanation, when the gate ran.
	Rationale string `json:"rationale,omitempty"`

	// Error records why this paper's evaluation failed, if it did.
	Error string `json:"error,omitempty"`

	// Timestamp is when the evaluation finished.
	Timestamp time.Time `json:"timestamp"`
}

// Summary aggregates one batch run.
type Summary struct {
	TotalPapers         int            `json:"total_papers"`
	Successful          int            `json:"successful"`
	Failed              int            `json:"failed"`
	ByInnovationType    map[string]int `json:"by_innovation_type"`
	ByFeasibilityStatus map[string]int `json:"by_feasibility_status"`
	Results             []PaperResult  `json:"results"`
	StartedAt           time.Time      `json:"started_at"`
	CompletedAt         time.Time      `json:"completed_at"`
}

// Pipeline evaluates documents against a manifests directory.
//
// Thread Safety: a Pipeline is safe for concurrent use, but a single
// Evaluate call processes its documents strictly sequentially; there is
// no shared graph state between assessments to protect.
type Pipeline struct {
	manifestsDir string
	classifier   Classifier
	logger       *slog.Logger
}

// NewPipeline creates a batch pipeline.
//
// logger may be nil, in which case slog.Default() is used.
func NewPipeline(manifestsDir string, classifier Classifier, logger *slog.Logger) *Pipeline {
	if logger == nil {
		logger = slog.Default()
	}
	return &Pipeline{
		manifestsDir: manifestsDir,
		classifier:   classifier,
		logger:       logger,
	}
}

// Evaluate runs every document through classification and the gate.
//
// Description:
//
//	Documents are processed in order. Manifests are reloaded per paper
//	(and the dependency graph rebuilt per assessment inside the gate),
//	so a manifest fixed mid-run benefits later papers. A failure on one
//	paper is recorded in its result's Error field and the run continues;
//	context cancellation is the only way to stop a batch early, and a
//	cancelled run returns the results accumulated so far.
//
// Inputs:
//
//	ctx - Context for cancellation and spans.
//	docs - Documents to evaluate.
//
// Outputs:
//
//	*Summary - Aggregate counts plus one PaperResult per processed doc.
func (p *Pipeline) Evaluate(ctx context.Context, docs []Document) *Summary {
	summary := &Summary{
		TotalPapers:         len(docs),
		ByInnovationType:    make(map[string]int),
		ByFeasibilityStatus: make(map[string]int),
		Results:             make([]PaperResult, 0, len(docs)),
		StartedAt:           time.Now().UTC(),
	}

	for _, doc := range docs {
		if ctx.Err() != nil {
			p.logger.Warn("batch evaluation cancelled",
				slog.Int("processed", len(summary.Results)),
				slog.Int("total", len(docs)),
			)
			break
		}

		result := p.evaluateOne(ctx, doc)
		summary.Results = append(summary.Results, result)

		if result.Error != "" {
			summary.Failed++
			p.logger.Warn("paper evaluation failed",
				slog.String("document_id", doc.DocumentID),
				slog.String("error", result.Error),
			)
			continue
		}

		summary.Successful++
		summary.ByInnovationType[result.InnovationType]++
		summary.ByFeasibilityStatus[result.FeasibilityStatus]++
	}

	summary.CompletedAt = time.Now().UTC()
	return summary
}

// evaluateOne runs a single document, converting any failure into the
// result's Error field.
func (p *Pipeline) evaluateOne(ctx context.Context, doc Document) (result PaperResult) {
	result = PaperResult{
		ResultID:   uuid.NewString(),
		DocumentID: doc.DocumentID,
		Title:      doc.Title,
		Corpus:     doc.Corpus,
	}
	defer func() { result.Timestamp = time.Now().UTC() }()

	if doc.Summary == nil {
		result.Error = "document has no comprehension summary"
		return result
	}
	if err := paper.ValidateSummary(doc.Summary); err != nil {
		result.Error = err.Error()
		return result
	}

	classification, err := p.classifier.Classify(ctx, doc.Summary)
	if err != nil {
		result.Error = err.Error()
		return result
	}
	result.InnovationType = string(classification.InnovationType)
	confidence := classification.Confidence
	result.Confidence = &confidence

	assessment, err := gate.Assess(ctx, doc.Summary, classification, p.manifestsDir)
	if err != nil {
		result.Error = err.Error()
		return result
	}

	result.FeasibilityStatus = string(assessment.Status)
	result.Rationale = assessment.Rationale
	return result
}
