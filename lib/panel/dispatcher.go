// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package panel

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/bureau-foundation/servopanel/lib/panelclient"
	"github.com/bureau-foundation/servopanel/lib/schema"
	"github.com/bureau-foundation/servopanel/lib/servo"
)

// Outcomes of the interactive scene flows that end without a backend
// request. The Prompter has already shown whatever message applies.
var (
	ErrSceneLocked        = errors.New("scene is locked")
	ErrSceneNotFound      = errors.New("scene not found")
	ErrConfigModeRequired = errors.New("config mode required")
	ErrAborted            = errors.New("aborted")
)

// User-facing messages of the scene flows.
const (
	MessageSceneLocked      = "This scene is locked. Enter Config Mode to modify it."
	MessageSceneNotFound    = "Scene not found. Save it first."
	MessageLockQuestion     = "Lock this scene to prevent accidental changes?"
	MessageSaveLockedReason = "Scene is locked - enter Config Mode to edit"

	LabelSceneName        = "Scene Name:"
	LabelSceneDescription = "Scene Description:"
)

// Backend is the request surface the dispatcher drives.
// *panelclient.Client implements it.
type Backend interface {
	ConfigSource
	Status(ctx context.Context) (schema.Positions, error)
	Scenes(ctx context.Context) (map[int]schema.SceneInfo, error)
	SetPosition(ctx context.Context, servoID, position int) error
	Nudge(ctx context.Context, servoID int, direction servo.Direction) error
	AllOff(ctx context.Context) error
	SaveScene(ctx context.Context, slot int, request schema.SaveSceneRequest) error
	UpdateScene(ctx context.Context, slot int, request schema.UpdateSceneRequest) error
	RecallScene(ctx context.Context, slot int) error
}

// Prompter asks the user things. Implementations block until the user
// answers or ctx ends. ok is false when the user dismissed the prompt.
type Prompter interface {
	// Alert shows a message that must be acknowledged.
	Alert(ctx context.Context, message string)

	// Confirm asks a yes/no question.
	Confirm(ctx context.Context, message string) (answer, ok bool)

	// Prompt asks for a line of text, starting from initial.
	Prompt(ctx context.Context, label, initial string) (value string, ok bool)
}

// Dispatcher translates gestures into backend requests.
type Dispatcher struct {
	backend  Backend
	state    *State
	prompter Prompter
	logger   *slog.Logger
}

// NewDispatcher creates a Dispatcher.
func NewDispatcher(backend Backend, state *State, prompter Prompter, logger *slog.Logger) *Dispatcher {
	return &Dispatcher{backend: backend, state: state, prompter: prompter, logger: logger}
}

// State returns the state the dispatcher reads scenes and config mode
// from.
func (d *Dispatcher) State() *State { return d.state }

// SetPosition moves a servo to a native position.
func (d *Dispatcher) SetPosition(ctx context.Context, servoID, position int) error {
	if err := d.backend.SetPosition(ctx, servoID, position); err != nil {
		d.logger.ErrorContext(ctx, "failed to set servo", "servo", servoID, "error", panelclient.Message(err))
		return err
	}
	return nil
}

// SetPercentage moves a servo to a display percentage. 0 turns it off.
func (d *Dispatcher) SetPercentage(ctx context.Context, servoID int, percentage float64) error {
	return d.SetPosition(ctx, servoID, d.state.Range().PercentageToPosition(percentage))
}

// Nudge moves a servo one step.
func (d *Dispatcher) Nudge(ctx context.Context, servoID int, direction servo.Direction) error {
	if err := d.backend.Nudge(ctx, servoID, direction); err != nil {
		d.logger.ErrorContext(ctx, "failed to nudge servo", "servo", servoID, "direction", direction, "error", panelclient.Message(err))
		return err
	}
	return nil
}

// AllOff turns every servo off.
func (d *Dispatcher) AllOff(ctx context.Context) error {
	if err := d.backend.AllOff(ctx); err != nil {
		d.logger.ErrorContext(ctx, "failed to turn off all servos", "error", panelclient.Message(err))
		return err
	}
	return nil
}

// SaveScenePrompt is the save gesture on a scene slot. A locked slot
// outside config mode is refused with an alert. An occupied slot asks
// for overwrite confirmation. Only then is the save requested.
func (d *Dispatcher) SaveScenePrompt(ctx context.Context, slot int) error {
	scene, exists := d.state.Scene(slot)
	if exists && scene.Locked && !d.state.ConfigMode() {
		d.prompter.Alert(ctx, MessageSceneLocked)
		return ErrSceneLocked
	}
	if exists {
		description := scene.Description
		if description == "" {
			description = "No description"
		}
		question := fmt.Sprintf("Overwrite \"%s\"?\n\n%s", scene.Name, description)
		if confirmed, ok := d.prompter.Confirm(ctx, question); !ok || !confirmed {
			return ErrAborted
		}
	}
	return d.SaveScene(ctx, slot, schema.SaveSceneRequest{})
}

// SaveScene stores the current positions in a slot and reloads the
// scene listing.
func (d *Dispatcher) SaveScene(ctx context.Context, slot int, request schema.SaveSceneRequest) error {
	if err := d.backend.SaveScene(ctx, slot, request); err != nil {
		d.logger.ErrorContext(ctx, "failed to save scene", "scene", slot, "error", panelclient.Message(err))
		return err
	}
	d.logger.Log(ctx, LevelSuccess, "scene saved", "scene", slot)
	return d.ReloadScenes(ctx)
}

// EditSceneMetadata asks for a saved scene's name, description and
// lock flag and sends them. It needs config mode. Dismissing any
// prompt ends the flow without a request; declining the lock question
// saves the scene unlocked.
func (d *Dispatcher) EditSceneMetadata(ctx context.Context, slot int) error {
	if !d.state.ConfigMode() {
		return ErrConfigModeRequired
	}
	scene, exists := d.state.Scene(slot)
	if !exists {
		d.prompter.Alert(ctx, MessageSceneNotFound)
		return ErrSceneNotFound
	}

	initialName := scene.Name
	if initialName == "" {
		initialName = fmt.Sprintf("Scene %d", slot)
	}
	name, ok := d.prompter.Prompt(ctx, LabelSceneName, initialName)
	if !ok {
		return ErrAborted
	}
	description, ok := d.prompter.Prompt(ctx, LabelSceneDescription, scene.Description)
	if !ok {
		return ErrAborted
	}
	locked, ok := d.prompter.Confirm(ctx, MessageLockQuestion)
	if !ok {
		return ErrAborted
	}

	request := schema.UpdateSceneRequest{Name: name, Description: description, Locked: locked}
	if err := d.backend.UpdateScene(ctx, slot, request); err != nil {
		d.logger.ErrorContext(ctx, "failed to update scene", "scene", slot, "error", panelclient.Message(err))
		return err
	}
	d.logger.Log(ctx, LevelSuccess, "scene metadata updated", "scene", slot)
	return d.ReloadScenes(ctx)
}

// RecallScene applies a saved scene. The positions arrive later as a
// scene_recalled event.
func (d *Dispatcher) RecallScene(ctx context.Context, slot int) error {
	if err := d.backend.RecallScene(ctx, slot); err != nil {
		d.logger.ErrorContext(ctx, "failed to recall scene", "scene", slot, "error", panelclient.Message(err))
		return err
	}
	return nil
}

// ReloadScenes refreshes the scene listing.
func (d *Dispatcher) ReloadScenes(ctx context.Context) error {
	scenes, err := d.backend.Scenes(ctx)
	if err != nil {
		d.logger.ErrorContext(ctx, "failed to reload scenes", "error", panelclient.Message(err))
		return err
	}
	d.state.SetScenes(scenes)
	return nil
}

// LoadInitialData fetches the status snapshot and the scene listing
// after the push channel is subscribed. A failed status fetch does not
// stop the scene listing from loading; both failures are returned.
func (d *Dispatcher) LoadInitialData(ctx context.Context) (Change, error) {
	var change Change
	positions, statusErr := d.backend.Status(ctx)
	if statusErr != nil {
		d.logger.ErrorContext(ctx, "failed to load initial data", "error", panelclient.Message(statusErr))
	} else {
		change = d.state.ApplyPositions(positions)
	}

	scenes, scenesErr := d.backend.Scenes(ctx)
	if scenesErr != nil {
		d.logger.ErrorContext(ctx, "failed to load initial data", "error", panelclient.Message(scenesErr))
	} else {
		d.state.SetScenes(scenes)
	}
	return change, errors.Join(statusErr, scenesErr)
}

// Resync applies a fresh status snapshot, the same way a status_update
// event would.
func (d *Dispatcher) Resync(ctx context.Context) (Change, error) {
	positions, err := d.backend.Status(ctx)
	if err != nil {
		d.logger.WarnContext(ctx, "failed to resync status", "error", panelclient.Message(err))
		return Change{}, err
	}
	return d.state.ApplyPositions(positions), nil
}

// ToggleConfigMode flips config mode and returns the new value.
func (d *Dispatcher) ToggleConfigMode(ctx context.Context) bool {
	enabled := d.state.toggleConfigMode()
	if enabled {
		d.logger.InfoContext(ctx, "config mode activated")
	} else {
		d.logger.InfoContext(ctx, "normal mode activated")
	}
	return enabled
}
