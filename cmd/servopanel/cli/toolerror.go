// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package cli

import "fmt"

// ErrorCategory classifies command errors so scripts can react to the
// exit code without parsing messages.
type ErrorCategory string

const (
	// CategoryValidation means the input was wrong: bad arguments,
	// unparseable values, an invalid settings file.
	CategoryValidation ErrorCategory = "validation"

	// CategoryNotFound means a referenced servo or scene does not
	// exist.
	CategoryNotFound ErrorCategory = "not_found"

	// CategoryForbidden means policy refused the operation, such as
	// writing a locked scene outside config mode.
	CategoryForbidden ErrorCategory = "forbidden"

	// CategoryTransient means the backend could not be reached or
	// failed in a way a retry may fix.
	CategoryTransient ErrorCategory = "transient"

	// CategoryInternal means an unexpected failure.
	CategoryInternal ErrorCategory = "internal"
)

// ToolError is a categorized error. It wraps the underlying error so
// errors.Is and errors.As see through it.
type ToolError struct {
	Category ErrorCategory
	Err      error

	// Hint is an optional next step printed under the error.
	Hint string
}

func (e *ToolError) Error() string { return e.Err.Error() }

func (e *ToolError) Unwrap() error { return e.Err }

// WithHint sets the hint and returns e.
func (e *ToolError) WithHint(hint string) *ToolError {
	e.Hint = hint
	return e
}

// Validation creates a validation error.
func Validation(format string, args ...any) *ToolError {
	return &ToolError{Category: CategoryValidation, Err: fmt.Errorf(format, args...)}
}

// NotFound creates a not-found error.
func NotFound(format string, args ...any) *ToolError {
	return &ToolError{Category: CategoryNotFound, Err: fmt.Errorf(format, args...)}
}

// Forbidden creates a forbidden error.
func Forbidden(format string, args ...any) *ToolError {
	return &ToolError{Category: CategoryForbidden, Err: fmt.Errorf(format, args...)}
}

// Transient creates a transient error.
func Transient(format string, args ...any) *ToolError {
	return &ToolError{Category: CategoryTransient, Err: fmt.Errorf(format, args...)}
}

// Internal creates an internal error.
func Internal(format string, args ...any) *ToolError {
	return &ToolError{Category: CategoryInternal, Err: fmt.Errorf(format, args...)}
}
