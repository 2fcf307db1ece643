package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAnalysisSteps_Scan(t *testing.T) {
	tests := []struct {
		name  string
		value interface{}
		want  AnalysisSteps
	}{
		{"nil", nil, AnalysisSteps{}},
		{"empty bytes", []byte{}, AnalysisSteps{}},
		{"unsupported type", 42, AnalysisSteps{}},
		{"bytes", []byte(`[{"name":"Chunking Document","status":"completed"}]`), AnalysisSteps{{Name: "Chunking Document", Status: StepCompleted}}},
		{"string", `[{"name":"Detecting Red Flags","status":"pending"}]`, AnalysisSteps{{Name: "Detecting Red Flags", Status: StepPending}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got AnalysisSteps
			require.NoError(t, got.Scan(tt.value))
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestAnalysisSteps_ValueOfNilIsEmptyArray(t *testing.T) {
	var steps AnalysisSteps

	v, err := steps.Value()

	require.NoError(t, err)
	assert.Equal(t, []byte("[]"), v)
}

func TestAnalysisSteps_Find(t *testing.T) {
	steps := AnalysisSteps{{Name: "a"}, {Name: "b"}}

	assert.Equal(t, 1, steps.Find("b"))
	assert.Equal(t, -1, steps.Find("c"))
}
