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
	"github.com/AleutianAI/papergate/services/feasibility/coverage"
	"github.com/AleutianAI/papergate/services/feasibility/impact"
	"github.com/AleutianAI/papergate/services/feasibility/manifest"
	"github.com/AleutianAI/papergate/services/feasibility/paper"
)

// Status is the terminal outcome of one feasibility assessment. There
// are no transitions between statuses within an assessment.
type Status string

const (
	// StatusFeasible: an autonomous agent can implement the change.
	StatusFeasible Status = "FEASIBLE"

	// StatusFeasibleWithAdaptation: implementable, but the adaptation
	// notes list signals that fell short of the clean thresholds.
	StatusFeasibleWithAdaptation Status = "FEASIBLE_WITH_ADAPTATION"

	// StatusEscalate: a human must review; see EscalationTrigger.
	StatusEscalate Status = "ESCALATE"

	// StatusNotFeasible: the codebase offers nothing to build on.
	StatusNotFeasible Status = "NOT_FEASIBLE"
)

// Result is the full output of a feasibility assessment.
type Result struct {
	// Status is the verdict.
	Status Status `json:"status"`

	// InnovationType is the innovation type that was assessed.
	InnovationType paper.InnovationType `json:"innovation_type"`

	// ManifestCheck is always populated.
	ManifestCheck *manifest.CheckResult `json:"manifest_check"`

	// BlastRadius is populated for every branch except parameter_tuning.
	BlastRadius *impact.Report `json:"blast_radius,omitempty"`

	// Coverage is populated only for pipeline_restructuring and
	// architectural_innovation.
	Coverage *coverage.Assessment `json:"coverage,omitempty"`

	// Rationale explains the verdict. Non-empty is a hard invariant,
	// including for NOT_FEASIBLE and ESCALATE.
	Rationale string `json:"rationale"`

	// EscalationTrigger is set iff Status is StatusEscalate.
	EscalationTrigger paper.EscalationTrigger `json:"escalation_trigger,omitempty"`

	// AdaptationNotes list the failed signals; populated only for
	// StatusFeasibleWithAdaptation.
	AdaptationNotes []string `json:"adaptation_notes,omitempty"`
}

// verdict is the internal outcome of one gate branch.
type verdict struct {
	status    Status
	rationale string
	trigger   paper.EscalationTrigger
	notes     []string
}
