// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Servopanel is the client of a servo-actuator control panel. "servopanel
// panel" opens the interactive terminal panel; the other commands run
// single operations against the backend for scripts and quick checks.
package main

import (
	"context"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/term"

	"github.com/bureau-foundation/servopanel/cmd/servopanel/cli"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	app := &app{
		stdin:       os.Stdin,
		stdout:      os.Stdout,
		stderr:      os.Stderr,
		interactive: term.IsTerminal(int(os.Stdin.Fd())),
	}
	err := app.root().Execute(ctx, os.Args[1:], cli.NewCommandLogger(slog.LevelInfo))
	stop()
	os.Exit(cli.Report(os.Stderr, err))
}

// app carries the process streams so commands can be run against
// buffers in tests.
type app struct {
	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer

	// interactive is true when stdin is a terminal; confirmation
	// prompts need it unless --yes is given.
	interactive bool
}

func (a *app) root() *cli.Command {
	return &cli.Command{
		Name:    "servopanel",
		Summary: "Servo control panel client",
		Description: `Servopanel drives a servo-actuator control panel backend.

"servopanel panel" opens the interactive terminal panel with live
updates. The other commands perform one operation each and exit, so
they can be used from scripts.`,
		Output: a.stderr,
		Subcommands: []*cli.Command{
			a.panelCommand(),
			a.statusCommand(),
			a.setCommand(),
			a.nudgeCommand(),
			a.allOffCommand(),
			a.sceneCommand(),
			a.watchCommand(),
			a.configCommand(),
			a.versionCommand(),
		},
	}
}
