// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package paper

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInnovationType_Valid(t *testing.T) {
	tests := []struct {
		name string
		typ  InnovationType
		want bool
	}{
		{"parameter tuning", InnovationParameterTuning, true},
		{"modular swap", InnovationModularSwap, true},
		{"pipeline restructuring", InnovationPipelineRestructuring, true},
		{"architectural", InnovationArchitectural, true},
		{"unknown label", InnovationType("quantum_leap"), false},
		{"empty", InnovationType(""), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.typ.Valid())
		})
	}
}

func TestComprehensionSummary_Operations(t *testing.T) {
	s := &ComprehensionSummary{
		TransformationProposed: "swap the tokenizer",
		InputsRequired:         []string{"token stream"},
		OutputsProduced:        []string{"embedding", "vocab"},
		PaperTerms:             []string{"bpe"},
	}

	ops := s.Operations()
	require.Len(t, ops, 4)
	assert.Equal(t, []string{"token stream", "embedding", "vocab", "bpe"}, ops)
}

func TestComprehensionSummary_Operations_Empty(t *testing.T) {
	s := &ComprehensionSummary{TransformationProposed: "noop"}
	assert.Empty(t, s.Operations())
}

func TestValidateClassification(t *testing.T) {
	tests := []struct {
		name    string
		result  ClassificationResult
		wantErr bool
	}{
		{
			name: "valid",
			result: ClassificationResult{
				InnovationType: InnovationModularSwap,
				Confidence:     0.85,
				Rationale:      "component-for-component replacement",
			},
			wantErr: false,
		},
		{
			name: "confidence above one",
			result: ClassificationResult{
				InnovationType: InnovationModularSwap,
				Confidence:     1.3,
				Rationale:      "x",
			},
			wantErr: true,
		},
		{
			name: "negative confidence",
			result: ClassificationResult{
				InnovationType: InnovationModularSwap,
				Confidence:     -0.1,
				Rationale:      "x",
			},
			wantErr: true,
		},
		{
			name: "empty rationale",
			result: ClassificationResult{
				InnovationType: InnovationModularSwap,
				Confidence:     0.5,
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateClassification(&tt.result)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidateSummary_RequiresTransformation(t *testing.T) {
	err := ValidateSummary(&ComprehensionSummary{})
	require.Error(t, err)

	err = ValidateSummary(&ComprehensionSummary{TransformationProposed: "reorder stages"})
	assert.NoError(t, err)
}
