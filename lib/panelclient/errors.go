// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package panelclient

import (
	"errors"
	"fmt"
	"net/http"
)

// APIError is a request the backend answered but did not carry out.
type APIError struct {
	// Operation names the call, e.g. "set position".
	Operation string

	// Status is the HTTP status code of the response.
	Status int

	// Message is the backend's error string, or a summary of the body
	// when it was not JSON.
	Message string
}

func (e *APIError) Error() string {
	if e.Status >= 200 && e.Status <= 299 {
		return fmt.Sprintf("%s: %s", e.Operation, e.Message)
	}
	return fmt.Sprintf("%s: HTTP %d: %s", e.Operation, e.Status, e.Message)
}

// IsNotFound reports whether err is an APIError with status 404.
func IsNotFound(err error) bool {
	var apiError *APIError
	return errors.As(err, &apiError) && apiError.Status == http.StatusNotFound
}

// Message returns the backend's message when err is an APIError and
// err.Error() otherwise. The panel log shows this text.
func Message(err error) string {
	var apiError *APIError
	if errors.As(err, &apiError) {
		return apiError.Message
	}
	return err.Error()
}
