// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package paper defines the structured inputs the feasibility pipeline
// consumes from its upstream collaborators: the paper comprehension
// parser (Stage 1) and the innovation-type classifier (Stage 2).
//
// papergate does not produce these values. It validates them at the
// boundary and treats them as read-only for the rest of an assessment.
package paper

import (
	"github.com/go-playground/validator/v10"
)

// InnovationType is the four-type taxonomy for classified papers.
type InnovationType string

const (
	// InnovationParameterTuning covers changes confined to tunable values.
	InnovationParameterTuning InnovationType = "parameter_tuning"

	// InnovationModularSwap covers replacing one component with another
	// behind an existing interface.
	InnovationModularSwap InnovationType = "modular_swap"

	// InnovationPipelineRestructuring covers reordering or rewiring
	// existing pipeline stages.
	InnovationPipelineRestructuring InnovationType = "pipeline_restructuring"

	// InnovationArchitectural covers changes that introduce genuinely new
	// structure. These get the strictest feasibility thresholds.
	InnovationArchitectural InnovationType = "architectural_innovation"
)

// Valid reports whether t is one of the four known innovation types.
func (t InnovationType) Valid() bool {
	switch t {
	case InnovationParameterTuning, InnovationModularSwap,
		InnovationPipelineRestructuring, InnovationArchitectural:
		return true
	}
	return false
}

// EscalationTrigger identifies why an assessment escalated to a human.
type EscalationTrigger string

const (
	// TriggerNone means no escalation occurred.
	TriggerNone EscalationTrigger = ""

	// TriggerConfidenceBelowThreshold fires when classification confidence
	// is below the 0.6 floor.
	TriggerConfidenceBelowThreshold EscalationTrigger = "confidence_below_threshold"

	// TriggerNovelPrimitive fires when the change touches something the
	// codebase has no precedent for: a critical blast radius or a mostly
	// unmatched operation set.
	TriggerNovelPrimitive EscalationTrigger = "novel_primitive"
)

// ClassificationResult is the Stage 2 classifier output.
type ClassificationResult struct {
	// InnovationType is the assigned taxonomy label.
	InnovationType InnovationType `json:"innovation_type" validate:"required"`

	// Confidence is the classifier's confidence in [0, 1].
	Confidence float64 `json:"confidence" validate:"gte=0,lte=1"`

	// Rationale explains the classification. Never empty.
	Rationale string `json:"rationale" validate:"required"`

	// TopologySignal is the raw topology-analysis signal, if any.
	TopologySignal string `json:"topology_signal,omitempty"`

	// ManifestEvidence lists manifest entries cited by the classifier.
	ManifestEvidence []string `json:"manifest_evidence,omitempty"`

	// EscalationTrigger is set when the classifier itself escalated.
	EscalationTrigger EscalationTrigger `json:"escalation_trigger,omitempty"`
}

// PaperClaim is a quantitative or qualitative claim extracted from a paper.
type PaperClaim struct {
	ClaimText          string   `json:"claim_text" validate:"required"`
	MetricName         string   `json:"metric_name,omitempty"`
	MetricValue        *float64 `json:"metric_value,omitempty"`
	BaselineComparison *float64 `json:"baseline_comparison,omitempty"`
	Dataset            string   `json:"dataset,omitempty"`
}

// MathCore is the mathematical core extracted from a method section.
type MathCore struct {
	Formulation string   `json:"formulation,omitempty"`
	Complexity  string   `json:"complexity,omitempty"`
	Assumptions []string `json:"assumptions,omitempty"`
}

// ComprehensionSummary is the Stage 1 parser output: the structured
// summary of a single research paper.
type ComprehensionSummary struct {
	// Title is the paper title (may be empty for preprints).
	Title string `json:"title,omitempty"`

	// TransformationProposed is the free-text description of the change
	// the paper proposes. Never empty.
	TransformationProposed string `json:"transformation_proposed" validate:"required"`

	// InputsRequired lists the named inputs the transformation consumes.
	InputsRequired []string `json:"inputs_required,omitempty"`

	// OutputsProduced lists the named outputs the transformation yields.
	OutputsProduced []string `json:"outputs_produced,omitempty"`

	// Claims are the extracted paper claims.
	Claims []PaperClaim `json:"claims,omitempty"`

	// Limitations are the paper's self-reported limitations.
	Limitations []string `json:"limitations,omitempty"`

	// MathematicalCore is the extracted formulation, if any.
	MathematicalCore MathCore `json:"mathematical_core,omitempty"`

	// PaperTerms are domain terms extracted from the text.
	PaperTerms []string `json:"paper_terms,omitempty"`
}

// Operations returns the flat list of operation strings the feasibility
// gate checks against repository manifests: required inputs, produced
// outputs, then extracted terms, in that order.
func (s *ComprehensionSummary) Operations() []string {
	ops := make([]string, 0, len(s.InputsRequired)+len(s.OutputsProduced)+len(s.PaperTerms))
	ops = append(ops, s.InputsRequired...)
	ops = append(ops, s.OutputsProduced...)
	ops = append(ops, s.PaperTerms...)
	return ops
}

// validate is the shared validator instance. validator.Validate caches
// struct metadata, so a single instance is the intended usage.
var validate = validator.New()

// ValidateSummary checks a ComprehensionSummary against its declared
// constraints. Returns a non-nil error describing the first violation.
func ValidateSummary(s *ComprehensionSummary) error {
	return validate.Struct(s)
}

// ValidateClassification checks a ClassificationResult against its
// declared constraints, including the [0, 1] confidence bounds.
func ValidateClassification(c *ClassificationResult) error {
	return validate.Struct(c)
}
