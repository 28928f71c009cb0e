// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package panel

import (
	"context"
	"fmt"
	"log/slog"
	"maps"
	"slices"
	"sync"

	"github.com/bureau-foundation/servopanel/lib/schema"
	"github.com/bureau-foundation/servopanel/lib/servo"
)

// State is the panel's view of the backend. It is safe for concurrent
// use: the event loop applies events while dispatcher goroutines read
// scenes and the config-mode flag.
type State struct {
	config        schema.PanelConfig
	positionRange servo.Range
	log           *Log
	logger        *slog.Logger

	mu         sync.RWMutex
	positions  []int
	scenes     map[int]schema.SceneInfo
	connected  bool
	configMode bool
}

// NewState creates the state for a loaded configuration. Every servo
// starts at the off position, disconnected, with no scenes and config
// mode off. Log lines from Apply go to logger; log is the panel log
// the view renders.
func NewState(config schema.PanelConfig, positionRange servo.Range, log *Log, logger *slog.Logger) *State {
	return &State{
		config:        config,
		positionRange: positionRange,
		log:           log,
		logger:        logger,
		positions:     make([]int, config.NumServos),
		scenes:        map[int]schema.SceneInfo{},
	}
}

// Config returns the configuration the panel was built from.
func (s *State) Config() schema.PanelConfig { return s.config }

// Range returns the native position range.
func (s *State) Range() servo.Range { return s.positionRange }

// Log returns the panel log.
func (s *State) Log() *Log { return s.log }

// NumServos returns the number of servo controls.
func (s *State) NumServos() int { return len(s.positions) }

// Position returns a servo's last reported position, or 0 for an
// index without a control.
func (s *State) Position(index int) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if index < 0 || index >= len(s.positions) {
		return servo.OffPosition
	}
	return s.positions[index]
}

// Percentage returns a servo's position as a display percentage.
func (s *State) Percentage(index int) float64 {
	return s.positionRange.PositionToPercentage(s.Position(index))
}

// Positions returns a copy of every servo's position by index.
func (s *State) Positions() []int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.positions)
}

// Scene returns the saved scene in a slot. ok is false for an empty
// slot.
func (s *State) Scene(slot int) (scene schema.SceneInfo, ok bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	scene, ok = s.scenes[slot]
	return scene, ok
}

// Scenes returns a copy of the scene listing.
func (s *State) Scenes() map[int]schema.SceneInfo {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return maps.Clone(s.scenes)
}

// SetScenes replaces the scene listing with a fresh one from the
// backend. Slots outside [1, max_scenes] are kept but never drawn.
func (s *State) SetScenes(scenes map[int]schema.SceneInfo) {
	cloned := maps.Clone(scenes)
	if cloned == nil {
		cloned = map[int]schema.SceneInfo{}
	}
	s.mu.Lock()
	s.scenes = cloned
	s.mu.Unlock()
}

// Connected reports the connection indicator.
func (s *State) Connected() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.connected
}

// ConfigMode reports whether config mode is on.
func (s *State) ConfigMode() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.configMode
}

// SetConfigMode sets config mode.
func (s *State) SetConfigMode(enabled bool) {
	s.mu.Lock()
	s.configMode = enabled
	s.mu.Unlock()
}

// toggleConfigMode flips config mode and returns the new value.
func (s *State) toggleConfigMode() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.configMode = !s.configMode
	return s.configMode
}

// SaveBlocked reports whether saving into slot is refused: the slot is
// locked and config mode is off.
func (s *State) SaveBlocked(slot int) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.scenes[slot].Locked && !s.configMode
}

// Change describes what an applied event touched.
type Change struct {
	// Servos lists the servo indices whose position was written, in
	// ascending order.
	Servos []int

	// Connection is true when the connection flag was written.
	Connection bool
}

// Apply applies one push event. The last event applied wins; there is
// no guard on the connection state. Updates for servo indices without
// a control are dropped. Batches (scene_recalled, status_update) are
// written under a single lock, so readers never see half a batch.
func (s *State) Apply(ctx context.Context, event schema.Event) Change {
	var change Change

	switch event.Type {
	case schema.EventConnect, schema.EventDisconnect:
		connected := event.Type == schema.EventConnect
		s.mu.Lock()
		s.connected = connected
		s.mu.Unlock()
		change.Connection = true
		if connected {
			s.logger.Log(ctx, LevelSuccess, "connected to server")
		} else {
			s.logger.ErrorContext(ctx, "disconnected from server")
		}

	case schema.EventServoUpdate:
		change.Servos = s.writePositions(schema.Positions{event.ServoID: event.Position})
		s.logger.InfoContext(ctx, "servo moved", "servo", event.ServoID, "position", event.Position)

	case schema.EventAllServosOff:
		s.mu.Lock()
		for index := range s.positions {
			s.positions[index] = servo.OffPosition
			change.Servos = append(change.Servos, index)
		}
		s.mu.Unlock()
		s.logger.InfoContext(ctx, "all servos turned off")

	case schema.EventSceneRecalled:
		change.Servos = s.writePositions(event.Positions)
		attrs := []any{"scene", event.SceneID}
		if scene, ok := s.Scene(event.SceneID); ok && scene.Name != "" {
			attrs = append(attrs, "name", scene.Name)
		}
		s.logger.Log(ctx, LevelSuccess, "scene recalled", attrs...)

	case schema.EventStatusUpdate:
		change.Servos = s.writePositions(event.Positions)

	case schema.EventError:
		s.logger.ErrorContext(ctx, "server error", "message", event.Message)

	default:
		s.logger.DebugContext(ctx, "ignoring push event", "type", event.Type)
	}
	return change
}

// ApplyPositions writes a status snapshot the same way a status_update
// event does.
func (s *State) ApplyPositions(positions schema.Positions) Change {
	return Change{Servos: s.writePositions(positions)}
}

// writePositions writes every in-range entry under one lock and
// returns the written indices in ascending order.
func (s *State) writePositions(positions schema.Positions) []int {
	s.mu.Lock()
	defer s.mu.Unlock()

	var written []int
	for index, position := range positions {
		if index < 0 || index >= len(s.positions) {
			continue
		}
		s.positions[index] = position
		written = append(written, index)
	}
	slices.Sort(written)
	return written
}

// SceneLabel returns a slot's display name: the scene's name, "Scene
// <n>" for a saved scene without one, or "Empty Slot <n>".
func (s *State) SceneLabel(slot int) string {
	scene, ok := s.Scene(slot)
	switch {
	case !ok:
		return fmt.Sprintf("Empty Slot %d", slot)
	case scene.Name == "":
		return fmt.Sprintf("Scene %d", slot)
	default:
		return scene.Name
	}
}
