// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"errors"
	"log/slog"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/spf13/pflag"

	"github.com/bureau-foundation/servopanel/cmd/servopanel/cli"
	"github.com/bureau-foundation/servopanel/lib/config"
	"github.com/bureau-foundation/servopanel/lib/events"
	"github.com/bureau-foundation/servopanel/lib/panel"
	"github.com/bureau-foundation/servopanel/lib/panelui"
)

func (a *app) panelCommand() *cli.Command {
	var connection connectionFlags
	var noColor bool
	return &cli.Command{
		Name:    "panel",
		Summary: "Open the interactive terminal panel",
		Description: `Open the control panel: one control per servo and per scene slot,
a connection indicator and a log of the last 50 messages. Positions
follow the backend's push channel live.

Keys: j/k move between controls, h/l step a slider by 1% (H/L by
0.1%), 0 and 9 set off and full, +/- nudge, X turns everything off.
On a scene, r recalls, s saves and e edits it in config mode. c
toggles config mode, / jumps to a control by name, q quits. The mouse
works on sliders and buttons.

Log records go to the panel's log pane. --log-output copies them to
a JSON file as well.`,
		Usage: "servopanel panel [flags]",
		Examples: []cli.Example{
			{Description: "Open the panel against a local backend", Command: "servopanel panel --server http://localhost:5000"},
			{Description: "Keep a debug log while using the panel", Command: "servopanel panel --log-level debug --log-output /tmp/panel.jsonl"},
		},
		Flags: func() *pflag.FlagSet {
			flagSet := pflag.NewFlagSet("panel", pflag.ContinueOnError)
			connection.addFlags(flagSet)
			flagSet.Duration("resync", 0, "re-fetch positions at this interval (0 disables; default from settings)")
			flagSet.BoolVar(&noColor, "no-color", false, "disable colors (also set by $NO_COLOR)")
			return flagSet
		},
		Run: func(ctx context.Context, args []string, _ *slog.Logger) error {
			if len(args) > 0 {
				return cli.Validation("unexpected argument: %s", args[0])
			}
			cfg, err := connection.loadConfig()
			if err != nil {
				return err
			}
			if connection.flagSet.Changed("resync") {
				resync, _ := connection.flagSet.GetDuration("resync")
				if err := cfg.Apply(config.Overrides{ResyncInterval: &resync}); err != nil {
					return cli.Validation("%w", err)
				}
			}
			if noColor || os.Getenv("NO_COLOR") != "" {
				lipgloss.SetColorProfile(termenv.Ascii)
			}
			return a.runPanel(ctx, cfg)
		},
	}
}

// runPanel runs the terminal panel until the user quits or ctx ends.
// Logging goes to the panel log from here on: writing to the terminal
// would corrupt the alternate screen.
func (a *app) runPanel(ctx context.Context, cfg *config.Config) error {
	level, _ := config.ParseLevel(cfg.Log.Level)
	entries := panel.NewLog(panel.LogCapacity)
	logHandler := panel.NewLogHandler(entries, level)

	logger := slog.New(logHandler)
	if cfg.Log.Output != "" {
		fileHandler, closeFile, err := openFileLogHandler(cfg.Log.Output)
		if err != nil {
			return cli.Validation("cannot open log file %s: %w", cfg.Log.Output, err)
		}
		defer closeFile()
		logger = slog.New(fanoutHandler{logHandler, fileHandler})
	}

	client, err := newClient(cfg, logger)
	if err != nil {
		return err
	}
	stream, err := events.New(cfg.EventsURL(), events.Options{Logger: logger})
	if err != nil {
		return cli.Validation("%w", err)
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	panelConfig := panel.LoadConfig(ctx, client, logger)
	state := panel.NewState(panelConfig, cfg.Position, entries, logger)
	prompter := panelui.NewPrompter()
	dispatcher := panel.NewDispatcher(client, state, prompter, logger)

	go stream.Run(ctx)

	model := panelui.NewModel(ctx, state, dispatcher, panelui.Options{
		Events:         stream.Events(),
		Prompter:       prompter,
		ResyncInterval: cfg.ResyncInterval.Std(),
	})
	logHandler.SetNotify(model.LogNotifier())
	defer logHandler.SetNotify(nil)

	program := tea.NewProgram(model,
		tea.WithContext(ctx),
		tea.WithInput(a.stdin),
		tea.WithOutput(a.stdout),
		tea.WithAltScreen(),
		tea.WithMouseAllMotion(),
	)
	_, err = program.Run()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return err
}
