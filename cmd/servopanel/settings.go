// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/spf13/pflag"
	"gopkg.in/yaml.v3"

	"github.com/bureau-foundation/servopanel/cmd/servopanel/cli"
)

func (a *app) configCommand() *cli.Command {
	var connection connectionFlags
	var output cli.JSONOutput
	var remote bool
	return &cli.Command{
		Name:    "config",
		Summary: "Print the effective settings or the backend's panel configuration",
		Description: `Print the client settings after the settings file and flags are
applied, as YAML (or JSON with --json). The output is a valid
settings file.

With --remote, fetch the panel configuration the backend serves
(servo count, names, display style, gate dimensions) and print it as
JSON.`,
		Usage: "servopanel config [flags]",
		Flags: func() *pflag.FlagSet {
			flagSet := pflag.NewFlagSet("config", pflag.ContinueOnError)
			connection.addFlags(flagSet)
			output.AddFlag(flagSet)
			flagSet.BoolVar(&remote, "remote", false, "print the backend's panel configuration")
			return flagSet
		},
		Run: func(ctx context.Context, args []string, _ *slog.Logger) error {
			if len(args) > 0 {
				return cli.Validation("unexpected argument: %s", args[0])
			}
			if !remote {
				cfg, err := connection.loadConfig()
				if err != nil {
					return err
				}
				output.Output = a.stdout
				if done, err := output.EmitJSON(cfg); done {
					return err
				}
				data, err := yaml.Marshal(cfg)
				if err != nil {
					return cli.Internal("encoding settings: %w", err)
				}
				_, err = a.stdout.Write(data)
				return err
			}

			session, err := connection.open("config")
			if err != nil {
				return err
			}
			defer session.close()

			panelConfig, err := session.client.Config(ctx)
			if err != nil {
				return session.classify(fmt.Errorf("loading panel config: %w", err))
			}
			return cli.WriteJSON(a.stdout, panelConfig)
		},
	}
}
