// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestReport(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		err    error
		code   int
		output string
	}{
		{"nil", nil, 0, ""},
		{"plain", errors.New("boom"), ExitFailure, "error: boom\n"},
		{"validation", Validation("bad servo %q", "x"), ExitValidation, `error: bad servo "x"`},
		{"not found", NotFound("scene 9 not found"), ExitNotFound, "scene 9 not found"},
		{"forbidden with hint", Forbidden("scene 2 is locked").WithHint("pass --config-mode"), ExitForbidden, "hint: pass --config-mode"},
		{"transient wrapped", fmt.Errorf("status: %w", Transient("connection refused")), ExitTransient, "connection refused"},
		{"internal", Internal("unexpected"), ExitFailure, "unexpected"},
		{"exit error", &ExitError{Code: 7}, 7, ""},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			t.Parallel()
			var output bytes.Buffer
			if code := Report(&output, test.err); code != test.code {
				t.Errorf("Report() = %d, want %d", code, test.code)
			}
			if test.output == "" && output.Len() != 0 {
				t.Errorf("output = %q, want none", output.String())
			}
			if !strings.Contains(output.String(), test.output) {
				t.Errorf("output = %q, want it to contain %q", output.String(), test.output)
			}
		})
	}
}

func TestToolError_Unwrap(t *testing.T) {
	t.Parallel()

	sentinel := errors.New("sentinel")
	err := &ToolError{Category: CategoryTransient, Err: fmt.Errorf("loading: %w", sentinel)}
	if !errors.Is(err, sentinel) {
		t.Error("errors.Is does not see through ToolError")
	}
}

func TestJSONOutput_EmitJSON(t *testing.T) {
	t.Parallel()

	var output bytes.Buffer
	params := JSONOutput{Output: &output}
	if done, err := params.EmitJSON([]string{"x"}); done || err != nil {
		t.Fatalf("EmitJSON without --json = (%v, %v), want (false, nil)", done, err)
	}

	params.OutputJSON = true
	var empty []int
	if done, err := params.EmitJSON(empty); !done || err != nil {
		t.Fatalf("EmitJSON = (%v, %v), want (true, nil)", done, err)
	}
	if output.String() != "[]\n" {
		t.Errorf("output = %q, want %q", output.String(), "[]\n")
	}
}
