package validator

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidator_CheckConflicts(t *testing.T) {
	tests := []struct {
		name        string
		checkFunc   func(ctx context.Context) (bool, string, error)
		wantPassed  bool
		wantMessage string
	}{
		{
			name: "consistent environment",
			checkFunc: func(context.Context) (bool, string, error) {
				return true, "No broken requirements found.", nil
			},
			wantPassed:  true,
			wantMessage: "no dependency conflicts found",
		},
		{
			name: "conflicts detected",
			checkFunc: func(context.Context) (bool, string, error) {
				return false, "torch 1.12.0 requires numpy>=1.23.0, but you have numpy 1.22.0.", nil
			},
			wantPassed:  false,
			wantMessage: "dependency conflicts detected",
		},
		{
			name: "invocation failure",
			checkFunc: func(context.Context) (bool, string, error) {
				return false, "", errors.New(`running pip check: exec: "pip": executable file not found in $PATH`)
			},
			wantPassed:  false,
			wantMessage: "executable file not found",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := New(&fakeRunner{checkFunc: tt.checkFunc}, testConfig(t))

			result := v.CheckConflicts(context.Background())

			assert.Equal(t, StepConflicts, result.Step)
			assert.Equal(t, tt.wantPassed, result.Passed)
			assert.Contains(t, result.Message, tt.wantMessage)
			assert.Empty(t, result.Findings, "the conflict check produces no per-package findings")
		})
	}
}
