// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"log/slog"
	"os"

	"golang.org/x/term"
)

// NewCommandLogger creates the logger for one-shot commands. When
// stderr is a terminal it writes text; when stderr is piped it writes
// JSON so scripts and log collectors can parse it.
//
// Callers scope it with command context via With():
//
//	logger := cli.NewCommandLogger(slog.LevelInfo).With("command", "scene/save")
func NewCommandLogger(level slog.Level) *slog.Logger {
	var handler slog.Handler
	options := &slog.HandlerOptions{Level: level}
	if term.IsTerminal(int(os.Stderr.Fd())) {
		handler = slog.NewTextHandler(os.Stderr, options)
	} else {
		handler = slog.NewJSONHandler(os.Stderr, options)
	}
	return slog.New(handler)
}
