// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"strings"

	"github.com/spf13/pflag"

	"github.com/bureau-foundation/servopanel/cmd/servopanel/cli"
	"github.com/bureau-foundation/servopanel/lib/events"
	"github.com/bureau-foundation/servopanel/lib/schema"
)

func (a *app) watchCommand() *cli.Command {
	var connection connectionFlags
	var outputJSON bool
	var count int
	return &cli.Command{
		Name:    "watch",
		Summary: "Print push events as they arrive",
		Description: `Subscribe to the backend's push channel and print one line per
event. The subscription reconnects with backoff until interrupted,
printing "connect" and "disconnect" as the channel comes and goes.`,
		Usage: "servopanel watch [flags]",
		Examples: []cli.Example{
			{Description: "Follow events over a Unix socket", Command: "servopanel watch --events unix:///run/servopanel/events.sock"},
			{Description: "Print the first three events as JSON", Command: "servopanel watch --json --count 3"},
		},
		Flags: func() *pflag.FlagSet {
			flagSet := pflag.NewFlagSet("watch", pflag.ContinueOnError)
			connection.addFlags(flagSet)
			flagSet.BoolVar(&outputJSON, "json", false, "print one JSON object per event")
			flagSet.IntVar(&count, "count", 0, "exit after this many events (0 = run until interrupted)")
			return flagSet
		},
		Run: func(ctx context.Context, args []string, _ *slog.Logger) error {
			if len(args) > 0 {
				return cli.Validation("unexpected argument: %s", args[0])
			}
			if count < 0 {
				return cli.Validation("--count must not be negative")
			}
			session, err := connection.open("watch")
			if err != nil {
				return err
			}
			defer session.close()

			stream, err := events.New(session.config.EventsURL(), events.Options{Logger: session.logger})
			if err != nil {
				return cli.Validation("%w", err)
			}
			ctx, cancel := context.WithCancel(ctx)
			defer cancel()
			go stream.Run(ctx)

			encoder := json.NewEncoder(a.stdout)
			received := 0
			for event := range stream.Events() {
				if outputJSON {
					if err := encoder.Encode(event); err != nil {
						return err
					}
				} else {
					writeEvent(a.stdout, event)
				}
				received++
				if count > 0 && received >= count {
					cancel()
					break
				}
			}
			for range stream.Events() {
			}
			return nil
		},
	}
}

// writeEvent prints an event as "<type> key=value ...".
func writeEvent(w io.Writer, event schema.Event) {
	fields := []string{string(event.Type)}
	switch event.Type {
	case schema.EventServoUpdate:
		fields = append(fields, fmt.Sprintf("servo=%d", event.ServoID), fmt.Sprintf("position=%d", event.Position))
	case schema.EventSceneRecalled:
		fields = append(fields, fmt.Sprintf("scene=%d", event.SceneID), "positions="+formatPositions(event.Positions))
	case schema.EventStatusUpdate:
		fields = append(fields, "positions="+formatPositions(event.Positions))
	case schema.EventError:
		fields = append(fields, fmt.Sprintf("message=%q", event.Message))
	}
	fmt.Fprintln(w, strings.Join(fields, " "))
}

// formatPositions writes positions as "servo:position" pairs in servo
// order.
func formatPositions(positions schema.Positions) string {
	servos := make([]int, 0, len(positions))
	for servoID := range positions {
		servos = append(servos, servoID)
	}
	sort.Ints(servos)
	pairs := make([]string, len(servos))
	for index, servoID := range servos {
		pairs[index] = fmt.Sprintf("%d:%d", servoID, positions[servoID])
	}
	return strings.Join(pairs, ",")
}
