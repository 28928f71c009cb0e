// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package panelui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/bureau-foundation/servopanel/lib/schema"
	"github.com/bureau-foundation/servopanel/lib/servo"
)

// ServoControl is the control block of one servo. Its actions are
// bound to the servo's index when the registry is built.
type ServoControl struct {
	Index int
	Name  string
	Gate  schema.GateDimensions

	SetPercentage func(percentage float64) tea.Cmd
	Nudge         func(direction servo.Direction) tea.Cmd
}

// SceneControl is the control block of one scene slot.
type SceneControl struct {
	Slot int

	Recall func() tea.Cmd
	Save   func() tea.Cmd
	Edit   func() tea.Cmd
}

// Control is one focusable block: exactly one of Servo and Scene is
// set.
type Control struct {
	Servo *ServoControl
	Scene *SceneControl
}

// Bindings are the gestures a registry binds into its controls.
type Bindings struct {
	SetPercentage func(servoID int, percentage float64) tea.Cmd
	Nudge         func(servoID int, direction servo.Direction) tea.Cmd
	Recall        func(slot int) tea.Cmd
	Save          func(slot int) tea.Cmd
	Edit          func(slot int) tea.Cmd
}

// Registry holds the controls built from a configuration: servos in
// index order, then scene slots 1 through max_scenes.
type Registry struct {
	servos   []*ServoControl
	scenes   []*SceneControl
	controls []Control
}

// BuildRegistry creates one control per servo index and scene slot.
// The result depends only on config.
func BuildRegistry(config schema.PanelConfig, bindings Bindings) *Registry {
	registry := &Registry{}
	for index := range config.NumServos {
		control := &ServoControl{
			Index: index,
			Name:  config.ServoName(index),
			Gate:  config.Gate(index),
			SetPercentage: func(percentage float64) tea.Cmd {
				return bindings.SetPercentage(index, percentage)
			},
			Nudge: func(direction servo.Direction) tea.Cmd {
				return bindings.Nudge(index, direction)
			},
		}
		registry.servos = append(registry.servos, control)
		registry.controls = append(registry.controls, Control{Servo: control})
	}
	for slot := 1; slot <= config.MaxScenes; slot++ {
		control := &SceneControl{
			Slot:   slot,
			Recall: func() tea.Cmd { return bindings.Recall(slot) },
			Save:   func() tea.Cmd { return bindings.Save(slot) },
			Edit:   func() tea.Cmd { return bindings.Edit(slot) },
		}
		registry.scenes = append(registry.scenes, control)
		registry.controls = append(registry.controls, Control{Scene: control})
	}
	return registry
}

// Controls returns every control in focus order.
func (registry *Registry) Controls() []Control { return registry.controls }

// Len returns the number of controls.
func (registry *Registry) Len() int { return len(registry.controls) }

// Servo returns the control of a servo index.
func (registry *Registry) Servo(index int) (*ServoControl, bool) {
	if index < 0 || index >= len(registry.servos) {
		return nil, false
	}
	return registry.servos[index], true
}

// Scene returns the control of a scene slot.
func (registry *Registry) Scene(slot int) (*SceneControl, bool) {
	if slot < 1 || slot > len(registry.scenes) {
		return nil, false
	}
	return registry.scenes[slot-1], true
}

// ServoFocus returns the focus position of a servo's control.
func (registry *Registry) ServoFocus(index int) int { return index }

// SceneFocus returns the focus position of a scene slot's control.
func (registry *Registry) SceneFocus(slot int) int { return len(registry.servos) + slot - 1 }
