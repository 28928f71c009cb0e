// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/pflag"

	"github.com/bureau-foundation/servopanel/cmd/servopanel/cli"
	"github.com/bureau-foundation/servopanel/lib/panel"
	"github.com/bureau-foundation/servopanel/lib/servo"
)

// servoStatus is one row of "servopanel status --json".
type servoStatus struct {
	Servo      int     `json:"servo"`
	Name       string  `json:"name"`
	Position   int     `json:"position"`
	Percentage float64 `json:"percentage"`
}

func (a *app) statusCommand() *cli.Command {
	var connection connectionFlags
	var output cli.JSONOutput
	return &cli.Command{
		Name:    "status",
		Summary: "Print every servo's position",
		Description: `Print the name, display percentage and native position of every
servo. Percentages of positions outside the range are clamped.`,
		Usage: "servopanel status [flags]",
		Flags: func() *pflag.FlagSet {
			flagSet := pflag.NewFlagSet("status", pflag.ContinueOnError)
			connection.addFlags(flagSet)
			output.AddFlag(flagSet)
			return flagSet
		},
		Run: func(ctx context.Context, args []string, _ *slog.Logger) error {
			if len(args) > 0 {
				return cli.Validation("unexpected argument: %s", args[0])
			}
			session, err := connection.open("status")
			if err != nil {
				return err
			}
			defer session.close()

			dispatcher := session.dispatcher(ctx, nil)
			state := dispatcher.State()
			positions, err := session.client.Status(ctx)
			if err != nil {
				return session.classify(fmt.Errorf("loading status: %w", err))
			}
			state.ApplyPositions(positions)

			config := state.Config()
			rows := make([]servoStatus, 0, state.NumServos())
			for index := range state.NumServos() {
				rows = append(rows, servoStatus{
					Servo:      index,
					Name:       config.ServoName(index),
					Position:   state.Position(index),
					Percentage: state.Percentage(index),
				})
			}

			output.Output = a.stdout
			if done, err := output.EmitJSON(rows); done {
				return err
			}
			table := tabwriter.NewWriter(a.stdout, 2, 0, 3, ' ', 0)
			fmt.Fprintln(table, "SERVO\tNAME\tOPEN\tPOSITION")
			for _, row := range rows {
				fmt.Fprintf(table, "%d\t%s\t%s\t%d\n", row.Servo, row.Name, servo.FormatPercentage(row.Percentage), row.Position)
			}
			return table.Flush()
		},
	}
}

func (a *app) setCommand() *cli.Command {
	var connection connectionFlags
	var raw bool
	return &cli.Command{
		Name:    "set",
		Summary: "Move a servo to a percentage or native position",
		Description: `Move a servo. The value is a display percentage from 0 to 100,
where 0 turns the servo off. With --raw it is a native position,
which the backend clamps to its range (0 still means off).`,
		Usage: "servopanel set <servo> <value> [flags]",
		Examples: []cli.Example{
			{Description: "Open servo 2 halfway", Command: "servopanel set 2 50"},
			{Description: "Send a native position", Command: "servopanel set --raw 2 4608"},
		},
		Flags: func() *pflag.FlagSet {
			flagSet := pflag.NewFlagSet("set", pflag.ContinueOnError)
			connection.addFlags(flagSet)
			flagSet.BoolVar(&raw, "raw", false, "value is a native position")
			return flagSet
		},
		Run: func(ctx context.Context, args []string, _ *slog.Logger) error {
			if len(args) != 2 {
				return cli.Validation("usage: servopanel set <servo> <value>")
			}
			servoID, err := parseIndex("servo", args[0])
			if err != nil {
				return err
			}

			session, err := connection.open("set")
			if err != nil {
				return err
			}
			defer session.close()

			var position int
			if raw {
				position, err = strconv.Atoi(args[1])
				if err != nil {
					return cli.Validation("invalid position %q: must be an integer", args[1])
				}
			} else {
				percentage, err := strconv.ParseFloat(args[1], 64)
				if err != nil || percentage < 0 || percentage > 100 {
					return cli.Validation("invalid percentage %q: must be a number from 0 to 100", args[1])
				}
				position = session.config.Position.PercentageToPosition(percentage)
			}

			dispatcher := panel.NewDispatcher(session.client, nil, nil, session.logger)
			if err := dispatcher.SetPosition(ctx, servoID, position); err != nil {
				return session.classify(err)
			}
			fmt.Fprintf(a.stdout, "servo %d set to %d\n", servoID, position)
			return nil
		},
	}
}

func (a *app) nudgeCommand() *cli.Command {
	var connection connectionFlags
	return &cli.Command{
		Name:    "nudge",
		Summary: "Step a servo by one nudge",
		Description: `Step a servo by the backend's nudge size. The direction is "plus"
or "minus" ("+" and "-" also work). Nudging a servo that is off
starts it at the low end of its range.`,
		Usage: "servopanel nudge <servo> <plus|minus> [flags]",
		Examples: []cli.Example{
			{Description: "Open servo 0 one step", Command: "servopanel nudge 0 plus"},
		},
		Flags: func() *pflag.FlagSet {
			flagSet := pflag.NewFlagSet("nudge", pflag.ContinueOnError)
			connection.addFlags(flagSet)
			return flagSet
		},
		Run: func(ctx context.Context, args []string, _ *slog.Logger) error {
			if len(args) != 2 {
				return cli.Validation("usage: servopanel nudge <servo> <plus|minus>")
			}
			servoID, err := parseIndex("servo", args[0])
			if err != nil {
				return err
			}
			direction, err := servo.ParseDirection(args[1])
			if err != nil {
				return cli.Validation("%w", err)
			}

			session, err := connection.open("nudge")
			if err != nil {
				return err
			}
			defer session.close()

			dispatcher := panel.NewDispatcher(session.client, nil, nil, session.logger)
			if err := dispatcher.Nudge(ctx, servoID, direction); err != nil {
				return session.classify(err)
			}
			fmt.Fprintf(a.stdout, "servo %d nudged %s\n", servoID, direction)
			return nil
		},
	}
}

func (a *app) allOffCommand() *cli.Command {
	var connection connectionFlags
	return &cli.Command{
		Name:    "all-off",
		Summary: "Turn every servo off",
		Usage:   "servopanel all-off [flags]",
		Flags: func() *pflag.FlagSet {
			flagSet := pflag.NewFlagSet("all-off", pflag.ContinueOnError)
			connection.addFlags(flagSet)
			return flagSet
		},
		Run: func(ctx context.Context, args []string, _ *slog.Logger) error {
			if len(args) > 0 {
				return cli.Validation("unexpected argument: %s", args[0])
			}
			session, err := connection.open("all-off")
			if err != nil {
				return err
			}
			defer session.close()

			dispatcher := panel.NewDispatcher(session.client, nil, nil, session.logger)
			if err := dispatcher.AllOff(ctx); err != nil {
				return session.classify(err)
			}
			fmt.Fprintln(a.stdout, "all servos off")
			return nil
		},
	}
}

// parseIndex parses a non-negative servo or scene index.
func parseIndex(kind, value string) (int, error) {
	index, err := strconv.Atoi(value)
	if err != nil || index < 0 {
		return 0, cli.Validation("invalid %s %q: must be a non-negative integer", kind, value)
	}
	return index, nil
}
