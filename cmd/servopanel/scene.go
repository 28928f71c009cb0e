// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"text/tabwriter"

	"github.com/spf13/pflag"

	"github.com/bureau-foundation/servopanel/cmd/servopanel/cli"
	"github.com/bureau-foundation/servopanel/lib/panel"
)

func (a *app) sceneCommand() *cli.Command {
	return &cli.Command{
		Name:    "scene",
		Summary: "List, save, recall and edit scenes",
		Description: `A scene is a saved set of servo positions in a numbered slot.
Locked scenes can only be overwritten or edited with --config-mode.`,
		Subcommands: []*cli.Command{
			a.sceneListCommand(),
			a.sceneSaveCommand(),
			a.sceneRecallCommand(),
			a.sceneEditCommand(),
		},
	}
}

// sceneRow is one slot of "servopanel scene list --json".
type sceneRow struct {
	Slot        int    `json:"slot"`
	Saved       bool   `json:"saved"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Locked      bool   `json:"locked"`
}

func (a *app) sceneListCommand() *cli.Command {
	var connection connectionFlags
	var output cli.JSONOutput
	return &cli.Command{
		Name:    "list",
		Summary: "List every scene slot",
		Usage:   "servopanel scene list [flags]",
		Flags: func() *pflag.FlagSet {
			flagSet := pflag.NewFlagSet("list", pflag.ContinueOnError)
			connection.addFlags(flagSet)
			output.AddFlag(flagSet)
			return flagSet
		},
		Run: func(ctx context.Context, args []string, _ *slog.Logger) error {
			if len(args) > 0 {
				return cli.Validation("unexpected argument: %s", args[0])
			}
			session, err := connection.open("scene/list")
			if err != nil {
				return err
			}
			defer session.close()

			dispatcher := session.dispatcher(ctx, nil)
			if err := dispatcher.ReloadScenes(ctx); err != nil {
				return session.classify(err)
			}
			state := dispatcher.State()

			var rows []sceneRow
			for slot := 1; slot <= state.Config().MaxScenes; slot++ {
				scene, saved := state.Scene(slot)
				rows = append(rows, sceneRow{
					Slot:        slot,
					Saved:       saved,
					Name:        state.SceneLabel(slot),
					Description: scene.Description,
					Locked:      scene.Locked,
				})
			}

			output.Output = a.stdout
			if done, err := output.EmitJSON(rows); done {
				return err
			}
			table := tabwriter.NewWriter(a.stdout, 2, 0, 3, ' ', 0)
			fmt.Fprintln(table, "SLOT\tNAME\tLOCKED\tDESCRIPTION")
			for _, row := range rows {
				locked := ""
				if row.Locked {
					locked = "yes"
				}
				fmt.Fprintf(table, "%d\t%s\t%s\t%s\n", row.Slot, row.Name, locked, row.Description)
			}
			return table.Flush()
		},
	}
}

func (a *app) sceneSaveCommand() *cli.Command {
	var connection connectionFlags
	var configMode, assumeYes bool
	return &cli.Command{
		Name:    "save",
		Summary: "Save the current positions into a slot",
		Description: `Save every servo's current position into a scene slot. An occupied
slot asks for confirmation before it is overwritten; --yes skips the
question. A locked slot is refused unless --config-mode is given.`,
		Usage: "servopanel scene save <slot> [flags]",
		Flags: func() *pflag.FlagSet {
			flagSet := pflag.NewFlagSet("save", pflag.ContinueOnError)
			connection.addFlags(flagSet)
			flagSet.BoolVar(&configMode, "config-mode", false, "allow writing locked scenes")
			flagSet.BoolVarP(&assumeYes, "yes", "y", false, "overwrite without asking")
			return flagSet
		},
		Run: func(ctx context.Context, args []string, _ *slog.Logger) error {
			slot, err := slotArgument("save", args)
			if err != nil {
				return err
			}
			session, err := connection.open("scene/save")
			if err != nil {
				return err
			}
			defer session.close()

			prompter := newLinePrompter(a.stdin, a.stderr, a.interactive)
			prompter.assumeYes = assumeYes
			dispatcher := session.dispatcher(ctx, prompter)
			if err := dispatcher.ReloadScenes(ctx); err != nil {
				return session.classify(err)
			}
			dispatcher.State().SetConfigMode(configMode)

			if err := dispatcher.SaveScenePrompt(ctx, slot); err != nil {
				if errors.Is(err, panel.ErrAborted) {
					fmt.Fprintln(a.stderr, "not saved")
					return &cli.ExitError{Code: cli.ExitFailure}
				}
				return session.classify(err)
			}
			fmt.Fprintf(a.stdout, "scene %d saved\n", slot)
			return nil
		},
	}
}

func (a *app) sceneRecallCommand() *cli.Command {
	var connection connectionFlags
	return &cli.Command{
		Name:    "recall",
		Summary: "Move every servo to a saved scene",
		Usage:   "servopanel scene recall <slot> [flags]",
		Flags: func() *pflag.FlagSet {
			flagSet := pflag.NewFlagSet("recall", pflag.ContinueOnError)
			connection.addFlags(flagSet)
			return flagSet
		},
		Run: func(ctx context.Context, args []string, _ *slog.Logger) error {
			slot, err := slotArgument("recall", args)
			if err != nil {
				return err
			}
			session, err := connection.open("scene/recall")
			if err != nil {
				return err
			}
			defer session.close()

			dispatcher := panel.NewDispatcher(session.client, nil, nil, session.logger)
			if err := dispatcher.RecallScene(ctx, slot); err != nil {
				return session.classify(err)
			}
			fmt.Fprintf(a.stdout, "scene %d recalled\n", slot)
			return nil
		},
	}
}

func (a *app) sceneEditCommand() *cli.Command {
	var connection connectionFlags
	var configMode, lock, unlock bool
	var name, description string
	return &cli.Command{
		Name:    "edit",
		Summary: "Change a saved scene's name, description or lock",
		Description: `Edit a saved scene's metadata. Needs --config-mode. Values not given
as flags are asked for on the terminal, with the current value as
the default.`,
		Usage: "servopanel scene edit <slot> --config-mode [flags]",
		Examples: []cli.Example{
			{
				Description: "Rename and lock scene 3",
				Command:     `servopanel scene edit 3 --config-mode --name "Full open" --description "" --lock`,
			},
		},
		Flags: func() *pflag.FlagSet {
			flagSet := pflag.NewFlagSet("edit", pflag.ContinueOnError)
			connection.addFlags(flagSet)
			flagSet.BoolVar(&configMode, "config-mode", false, "enable config mode (required)")
			flagSet.StringVar(&name, "name", "", "new scene name")
			flagSet.StringVar(&description, "description", "", "new scene description")
			flagSet.BoolVar(&lock, "lock", false, "lock the scene")
			flagSet.BoolVar(&unlock, "unlock", false, "unlock the scene")
			return flagSet
		},
		Run: func(ctx context.Context, args []string, _ *slog.Logger) error {
			slot, err := slotArgument("edit", args)
			if err != nil {
				return err
			}
			if lock && unlock {
				return cli.Validation("--lock and --unlock are mutually exclusive")
			}
			session, err := connection.open("scene/edit")
			if err != nil {
				return err
			}
			defer session.close()

			prompter := newLinePrompter(a.stdin, a.stderr, a.interactive)
			if connection.flagSet.Changed("name") {
				prompter.answers[panel.LabelSceneName] = name
			}
			if connection.flagSet.Changed("description") {
				prompter.answers[panel.LabelSceneDescription] = description
			}
			if lock || unlock {
				prompter.confirmations[panel.MessageLockQuestion] = lock
			}

			dispatcher := session.dispatcher(ctx, prompter)
			if err := dispatcher.ReloadScenes(ctx); err != nil {
				return session.classify(err)
			}
			dispatcher.State().SetConfigMode(configMode)

			if err := dispatcher.EditSceneMetadata(ctx, slot); err != nil {
				if errors.Is(err, panel.ErrAborted) {
					fmt.Fprintln(a.stderr, "not changed")
					return &cli.ExitError{Code: cli.ExitFailure}
				}
				return session.classify(err)
			}
			fmt.Fprintf(a.stdout, "scene %d updated\n", slot)
			return nil
		},
	}
}

func slotArgument(command string, args []string) (int, error) {
	if len(args) != 1 {
		return 0, cli.Validation("usage: servopanel scene %s <slot>", command)
	}
	return parseIndex("scene slot", args[0])
}
