// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package gate decides whether a classified paper innovation is
// implementable against the loaded codebase manifests.
//
// The policy is stratified by innovation type, each tier consuming a
// strictly larger signal set:
//
//	parameter_tuning          manifest coverage + confidence
//	modular_swap              + blast radius
//	pipeline_restructuring    + test coverage
//	architectural_innovation  same signals, strictest thresholds
//
// Every result carries a non-empty rationale. The branch dispatch is a
// flat switch over the innovation type.
package gate

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/AleutianAI/papergate/services/feasibility/coverage"
	"github.com/AleutianAI/papergate/services/feasibility/graph"
	"github.com/AleutianAI/papergate/services/feasibility/impact"
	"github.com/AleutianAI/papergate/services/feasibility/manifest"
	"github.com/AleutianAI/papergate/services/feasibility/paper"
)

// Decision thresholds shared across branches.
const (
	// ConfidenceFloor is the classification confidence below which every
	// branch escalates.
	ConfidenceFloor = 0.6

	// CoverageFloor is the manifest coverage required for a clean
	// FEASIBLE verdict.
	CoverageFloor = 0.5

	// TestCoverageFloor is the test coverage pipeline_restructuring
	// requires for FEASIBLE.
	TestCoverageFloor = 0.5

	// ArchTestCoverageFloor is the stricter test coverage
	// architectural_innovation requires for FEASIBLE.
	ArchTestCoverageFloor = 0.7

	// ArchUnmatchedEscalate and ArchUnmatchedReject bound the unmatched
	// operation ratio for architectural_innovation.
	ArchUnmatchedEscalate = 0.5
	ArchUnmatchedReject   = 0.8
)

// Assess runs the feasibility gate against a manifests directory.
//
// Description:
//
//	Loads manifests, checks the summary's operations against them, and
//	dispatches to the innovation type's branch. The dependency graph is
//	built at most once per call and only when the branch needs it; it is
//	discarded afterwards (no shared graph state across assessments).
//	A missing or empty manifests directory loads as zero manifests,
//	which the branches report as NOT_FEASIBLE via zero coverage.
//
// Inputs:
//
//	ctx - Context for spans. Must not be nil.
//	summary - Stage 1 paper summary. Must not be nil.
//	classification - Stage 2 classification. Must not be nil.
//	manifestsDir - Directory of per-repository manifest YAML files.
//
// Outputs:
//
//	*Result - The assessment. Never nil on success.
//	error - Non-nil only for structural failures (unparseable manifest,
//	  invalid classification); absence of data is not an error.
func Assess(ctx context.Context, summary *paper.ComprehensionSummary, classification *paper.ClassificationResult, manifestsDir string) (*Result, error) {
	manifests, err := manifest.LoadAll(manifestsDir)
	if err != nil {
		return nil, err
	}
	return AssessWithManifests(ctx, summary, classification, manifests)
}

// AssessWithManifests runs the feasibility gate against already-loaded
// manifests. See Assess for semantics.
func AssessWithManifests(ctx context.Context, summary *paper.ComprehensionSummary, classification *paper.ClassificationResult, manifests []*manifest.RepositoryManifest) (*Result, error) {
	if err := paper.ValidateClassification(classification); err != nil {
		return nil, fmt.Errorf("invalid classification: %w", err)
	}

	ctx, span := startAssessSpan(ctx, string(classification.InnovationType), classification.Confidence)
	defer span.End()

	operations := summary.Operations()
	check := manifest.CheckOperations(operations, manifests)

	result := &Result{
		InnovationType: classification.InnovationType,
		ManifestCheck:  check,
	}

	// Cheapest branch first: parameter_tuning never touches the graph.
	if classification.InnovationType == paper.InnovationParameterTuning {
		result.apply(gateParameterTuning(check, classification))
		finishAssessSpan(ctx, span, result)
		return result, nil
	}

	g := graph.Build(ctx, manifests)
	targets := targetNodes(check, g)
	if len(targets) < len(check.MatchedOperations) {
		slog.Debug("matched operations without graph nodes were dropped",
			slog.Int("matched", len(check.MatchedOperations)),
			slog.Int("targets", len(targets)),
		)
	}
	blast := impact.Compute(ctx, targets, g)
	result.BlastRadius = blast

	switch classification.InnovationType {
	case paper.InnovationModularSwap:
		result.apply(gateModularSwap(check, blast, classification))

	case paper.InnovationPipelineRestructuring:
		cov := coverage.Assess(blast.AffectedFunctions, g)
		result.Coverage = cov
		result.apply(gatePipelineRestructuring(check, blast, cov, classification))

	default:
		// architectural_innovation, and the conservative fallback for
		// any label the classifier grows later.
		cov := coverage.Assess(blast.AffectedFunctions, g)
		result.Coverage = cov
		result.apply(gateArchitecturalInnovation(check, blast, cov, classification))
	}

	finishAssessSpan(ctx, span, result)
	return result, nil
}

// apply copies a branch verdict onto the result.
func (r *Result) apply(v verdict) {
	r.Status = v.status
	r.Rationale = v.rationale
	r.EscalationTrigger = v.trigger
	r.AdaptationNotes = v.notes
}

// targetNodes maps manifest check matches back onto graph node IDs,
// dropping matches whose node is not in the graph (docstring matches on
// methods, for example, resolve to IDs the builder never created).
func targetNodes(check *manifest.CheckResult, g *graph.Graph) []string {
	targets := make([]string, 0, len(check.MatchedOperations))
	for _, match := range check.MatchedOperations {
		var symbol string
		switch {
		case match.FunctionName != "":
			symbol = match.FunctionName
		case match.ClassName != "":
			symbol = match.ClassName
		default:
			continue
		}
		id := graph.NodeID(match.RepoName, match.ModulePath, symbol)
		if g.HasNode(id) {
			targets = append(targets, id)
		}
	}
	return targets
}

// gateParameterTuning consumes manifest coverage and confidence only.
func gateParameterTuning(check *manifest.CheckResult, classification *paper.ClassificationResult) verdict {
	cov := check.CoverageRatio

	if classification.Confidence < ConfidenceFloor {
		return verdict{
			status:    StatusEscalate,
			rationale: fmt.Sprintf("Classification confidence %.2f below threshold", classification.Confidence),
			trigger:   paper.TriggerConfidenceBelowThreshold,
		}
	}

	if cov == 0 {
		return verdict{
			status:    StatusNotFeasible,
			rationale: "No operations matched in manifests",
		}
	}

	if cov >= CoverageFloor {
		return verdict{
			status:    StatusFeasible,
			rationale: fmt.Sprintf("Manifest coverage %.2f sufficient for parameter tuning", cov),
		}
	}

	return verdict{
		status:    StatusFeasibleWithAdaptation,
		rationale: fmt.Sprintf("Manifest coverage %.2f partial; adaptation may be needed", cov),
		notes:     []string{fmt.Sprintf("Only %.0f%% of operations found in manifests", cov*100)},
	}
}

// gateModularSwap adds blast radius to the parameter_tuning signals.
func gateModularSwap(check *manifest.CheckResult, blast *impact.Report, classification *paper.ClassificationResult) verdict {
	cov := check.CoverageRatio
	risk := blast.RiskLevel

	if classification.Confidence < ConfidenceFloor || risk == impact.RiskCritical {
		return verdict{
			status: StatusEscalate,
			rationale: fmt.Sprintf("Modular swap escalated: confidence=%.2f, risk=%s",
				classification.Confidence, risk),
			trigger: escalationTrigger(risk),
		}
	}

	if cov == 0 {
		return verdict{
			status:    StatusNotFeasible,
			rationale: "No operations matched in manifests for modular swap",
		}
	}

	if cov >= CoverageFloor && riskAcceptable(risk) {
		return verdict{
			status:    StatusFeasible,
			rationale: fmt.Sprintf("Modular swap feasible: coverage=%.2f, risk=%s", cov, risk),
		}
	}

	var notes []string
	if cov < CoverageFloor {
		notes = append(notes, fmt.Sprintf("Manifest coverage %.0f%% below 50%%", cov*100))
	}
	if !riskAcceptable(risk) {
		notes = append(notes, fmt.Sprintf("Blast radius risk is %s", risk))
	}
	return verdict{
		status:    StatusFeasibleWithAdaptation,
		rationale: fmt.Sprintf("Modular swap feasible with adaptation: coverage=%.2f, risk=%s", cov, risk),
		notes:     notes,
	}
}

// gatePipelineRestructuring adds test coverage to the modular_swap signals.
func gatePipelineRestructuring(check *manifest.CheckResult, blast *impact.Report, cov *coverage.Assessment, classification *paper.ClassificationResult) verdict {
	mCov := check.CoverageRatio
	risk := blast.RiskLevel
	testCov := cov.CoverageRatio

	if classification.Confidence < ConfidenceFloor || risk == impact.RiskCritical {
		return verdict{
			status: StatusEscalate,
			rationale: fmt.Sprintf("Pipeline restructuring escalated: confidence=%.2f, risk=%s",
				classification.Confidence, risk),
			trigger: escalationTrigger(risk),
		}
	}

	if mCov == 0 {
		return verdict{
			status:    StatusNotFeasible,
			rationale: "No operations matched for pipeline restructuring",
		}
	}

	if mCov >= CoverageFloor && riskAcceptable(risk) && testCov >= TestCoverageFloor {
		return verdict{
			status: StatusFeasible,
			rationale: fmt.Sprintf("Pipeline restructuring feasible: coverage=%.2f, risk=%s, test_cov=%.2f",
				mCov, risk, testCov),
		}
	}

	var notes []string
	if mCov < CoverageFloor {
		notes = append(notes, fmt.Sprintf("Manifest coverage %.0f%% below 50%%", mCov*100))
	}
	if !riskAcceptable(risk) {
		notes = append(notes, fmt.Sprintf("Blast radius risk is %s", risk))
	}
	if testCov < TestCoverageFloor {
		notes = append(notes, fmt.Sprintf("Test coverage %.0f%% below 50%%", testCov*100))
	}
	return verdict{
		status: StatusFeasibleWithAdaptation,
		rationale: fmt.Sprintf("Pipeline restructuring feasible with adaptation: coverage=%.2f, risk=%s, test_cov=%.2f",
			mCov, risk, testCov),
		notes: notes,
	}
}

// gateArchitecturalInnovation applies the strictest thresholds and is
// the only branch gating on the unmatched-operation ratio.
func gateArchitecturalInnovation(check *manifest.CheckResult, blast *impact.Report, cov *coverage.Assessment, classification *paper.ClassificationResult) verdict {
	mCov := check.CoverageRatio
	risk := blast.RiskLevel
	testCov := cov.CoverageRatio

	totalOps := len(check.MatchedOperations) + len(check.UnmatchedOperations)
	unmatchedRatio := float64(len(check.UnmatchedOperations)) / float64(max(totalOps, 1))

	if mCov == 0 || unmatchedRatio > ArchUnmatchedReject {
		return verdict{
			status: StatusNotFeasible,
			rationale: fmt.Sprintf("Architectural innovation not feasible: coverage=%.2f, unmatched=%.0f%%",
				mCov, unmatchedRatio*100),
		}
	}

	if unmatchedRatio > ArchUnmatchedEscalate || classification.Confidence < ConfidenceFloor {
		trigger := paper.TriggerConfidenceBelowThreshold
		if unmatchedRatio > ArchUnmatchedEscalate {
			trigger = paper.TriggerNovelPrimitive
		}
		return verdict{
			status: StatusEscalate,
			rationale: fmt.Sprintf("Architectural innovation escalated: unmatched=%.0f%%, confidence=%.2f",
				unmatchedRatio*100, classification.Confidence),
			trigger: trigger,
		}
	}

	if mCov >= CoverageFloor && riskAcceptable(risk) && testCov >= ArchTestCoverageFloor {
		return verdict{
			status: StatusFeasible,
			rationale: fmt.Sprintf("Architectural innovation feasible: coverage=%.2f, risk=%s, test_cov=%.2f",
				mCov, risk, testCov),
		}
	}

	var notes []string
	if mCov < CoverageFloor {
		notes = append(notes, fmt.Sprintf("Manifest coverage %.0f%% below 50%%", mCov*100))
	}
	if !riskAcceptable(risk) {
		notes = append(notes, fmt.Sprintf("Blast radius risk is %s", risk))
	}
	if testCov < ArchTestCoverageFloor {
		notes = append(notes, fmt.Sprintf("Test coverage %.0f%% below 70%%", testCov*100))
	}
	return verdict{
		status: StatusFeasibleWithAdaptation,
		rationale: fmt.Sprintf("Architectural innovation feasible with adaptation: coverage=%.2f, risk=%s, test_cov=%.2f",
			mCov, risk, testCov),
		notes: notes,
	}
}

// riskAcceptable reports whether a risk level permits a FEASIBLE verdict.
func riskAcceptable(risk impact.RiskLevel) bool {
	return risk == impact.RiskLow || risk == impact.RiskMedium
}

// escalationTrigger picks the trigger for the graph-consuming branches.
// Critical risk wins when both thresholds fire: a critical blast radius
// is the stronger signal that the change has no safe precedent.
func escalationTrigger(risk impact.RiskLevel) paper.EscalationTrigger {
	if risk == impact.RiskCritical {
		return paper.TriggerNovelPrimitive
	}
	return paper.TriggerConfidenceBelowThreshold
}
