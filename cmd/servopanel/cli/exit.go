// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"errors"
	"fmt"
	"io"
)

// ExitError ends the process with Code without printing anything; the
// command has already written its own output.
type ExitError struct {
	Code int
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("exit code %d", e.Code)
}

// ExitCode returns the exit code.
func (e *ExitError) ExitCode() int {
	return e.Code
}

// Exit codes by error category.
const (
	ExitFailure    = 1
	ExitValidation = 2
	ExitNotFound   = 3
	ExitForbidden  = 4
	ExitTransient  = 5
)

// Report writes err to w, with its hint when it has one, and returns
// the process exit code. A nil err returns 0 and an ExitError writes
// nothing.
func Report(w io.Writer, err error) int {
	if err == nil {
		return 0
	}
	var coder interface{ ExitCode() int }
	if errors.As(err, &coder) {
		return coder.ExitCode()
	}

	fmt.Fprintf(w, "error: %v\n", err)
	var toolError *ToolError
	if !errors.As(err, &toolError) {
		return ExitFailure
	}
	if toolError.Hint != "" {
		fmt.Fprintf(w, "hint: %s\n", toolError.Hint)
	}
	switch toolError.Category {
	case CategoryValidation:
		return ExitValidation
	case CategoryNotFound:
		return ExitNotFound
	case CategoryForbidden:
		return ExitForbidden
	case CategoryTransient:
		return ExitTransient
	default:
		return ExitFailure
	}
}
