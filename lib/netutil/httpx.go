// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package netutil holds the HTTP and socket helpers shared by the
// backend client, the push transports and the fake backend.
//
// Response helpers bound every JSON body read at [MaxResponseSize].
// They are for request/response bodies only; push streams are read
// incrementally by lib/events.
package netutil

import (
	"io"
	"strings"
)

// MaxResponseSize bounds JSON API response reads. The largest panel
// response is a scene listing of a few kilobytes.
const MaxResponseSize int64 = 4 << 20

// maxErrorSummary bounds the body text quoted in an error message.
const maxErrorSummary = 200

// ReadResponse reads a response body up to MaxResponseSize bytes.
func ReadResponse(body io.Reader) ([]byte, error) {
	return io.ReadAll(io.LimitReader(body, MaxResponseSize))
}

// ErrorSummary turns a body that could not be decoded into a single
// line for an error message. Long bodies are cut at 200 bytes.
func ErrorSummary(data []byte) string {
	text := strings.Join(strings.Fields(string(data)), " ")
	if len(text) > maxErrorSummary {
		text = text[:maxErrorSummary] + "..."
	}
	return text
}
