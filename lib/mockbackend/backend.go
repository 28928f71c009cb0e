// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package mockbackend

import (
	"fmt"
	"log/slog"
	"maps"
	"net/http"
	"sync"

	"github.com/go-chi/chi/v5"

	"github.com/bureau-foundation/servopanel/lib/schema"
	"github.com/bureau-foundation/servopanel/lib/servo"
)

// Operation names accepted by Fail. They match the client's operation
// names.
const (
	OpConfig      = "load config"
	OpStatus      = "load status"
	OpScenes      = "load scenes"
	OpSetPosition = "set position"
	OpNudge       = "nudge"
	OpAllOff      = "all off"
	OpSaveScene   = "save scene"
	OpUpdateScene = "update scene"
	OpRecallScene = "recall scene"
)

// Options configures a Backend. The zero value serves the default
// panel configuration.
type Options struct {
	// Config is served by GET /api/config. Zero counts fall back to
	// schema.DefaultPanelConfig.
	Config schema.PanelConfig

	// Range is the native position range. Defaults to
	// servo.DefaultRange.
	Range servo.Range

	// NudgeStep is the position delta of one nudge. Defaults to
	// servo.DefaultNudgeStep.
	NudgeStep int

	// Logger receives one debug line per request.
	Logger *slog.Logger
}

// Request is one recorded HTTP request.
type Request struct {
	Method    string
	Path      string
	RequestID string
	Body      string
}

// Backend is the in-memory backend. It implements http.Handler.
type Backend struct {
	config        schema.PanelConfig
	positionRange servo.Range
	nudgeStep     int
	logger        *slog.Logger
	router        chi.Router
	hub           *hub

	mu        sync.Mutex
	positions []int
	scenes    map[int]schema.SceneInfo
	failures  map[string]failure
	requests  []Request
}

type failure struct {
	status  int
	message string
}

// New creates a Backend with every servo off and no scenes.
func New(options Options) *Backend {
	config := options.Config
	defaults := schema.DefaultPanelConfig()
	if config.NumServos <= 0 {
		config.NumServos = defaults.NumServos
	}
	if config.MaxScenes <= 0 {
		config.MaxScenes = defaults.MaxScenes
	}
	if config.VisualDisplayStyle == "" {
		config.VisualDisplayStyle = defaults.VisualDisplayStyle
	}
	positionRange := options.Range
	if positionRange == (servo.Range{}) {
		positionRange = servo.DefaultRange()
	}
	nudgeStep := options.NudgeStep
	if nudgeStep <= 0 {
		nudgeStep = servo.DefaultNudgeStep
	}
	logger := options.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	backend := &Backend{
		config:        config,
		positionRange: positionRange,
		nudgeStep:     nudgeStep,
		logger:        logger,
		hub:           newHub(logger),
		positions:     make([]int, config.NumServos),
		scenes:        map[int]schema.SceneInfo{},
		failures:      map[string]failure{},
	}
	backend.router = backend.routes()
	return backend
}

// ServeHTTP implements http.Handler.
func (b *Backend) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	b.router.ServeHTTP(w, r)
}

// Config returns the served panel configuration.
func (b *Backend) Config() schema.PanelConfig { return b.config }

// Positions returns a copy of every servo's position.
func (b *Backend) Positions() schema.Positions {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.positionsLocked()
}

func (b *Backend) positionsLocked() schema.Positions {
	positions := make(schema.Positions, len(b.positions))
	for index, position := range b.positions {
		positions[index] = position
	}
	return positions
}

// Scenes returns a copy of the stored scenes.
func (b *Backend) Scenes() map[int]schema.SceneInfo {
	b.mu.Lock()
	defer b.mu.Unlock()
	return maps.Clone(b.scenes)
}

// SetPositions seeds positions without publishing events.
func (b *Backend) SetPositions(positions schema.Positions) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for index, position := range positions {
		if index >= 0 && index < len(b.positions) {
			b.positions[index] = b.positionRange.Clamp(position)
		}
	}
}

// SetScene seeds a scene slot.
func (b *Backend) SetScene(slot int, scene schema.SceneInfo) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.scenes[slot] = scene
}

// Fail makes every later request of operation answer with status and
// {success:false, error:message}. Status 0 means 500.
func (b *Backend) Fail(operation string, status int, message string) {
	if status == 0 {
		status = http.StatusInternalServerError
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.failures[operation] = failure{status: status, message: message}
}

// Heal clears the injected failure of operation.
func (b *Backend) Heal(operation string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.failures, operation)
}

// Requests returns the recorded requests in arrival order.
func (b *Backend) Requests() []Request {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]Request(nil), b.requests...)
}

// Publish pushes event to every subscriber.
func (b *Backend) Publish(event schema.Event) {
	b.hub.publish(event)
}

// Subscribers returns the number of connected event subscribers.
func (b *Backend) Subscribers() int {
	return b.hub.count()
}

// DropSubscribers ends every event subscription. Clients see the
// stream close and reconnect.
func (b *Backend) DropSubscribers() {
	b.hub.dropAll()
}

func (b *Backend) failureFor(operation string) (failure, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	injected, ok := b.failures[operation]
	return injected, ok
}

// servoProblem returns the backend's message for an out-of-range
// servo, or "".
func (b *Backend) servoProblem(servoID int) string {
	if servoID < 0 || servoID >= b.config.NumServos {
		return fmt.Sprintf("Servo ID must be between 0 and %d", b.config.NumServos-1)
	}
	return ""
}

func (b *Backend) slotProblem(slot int) string {
	if slot < 1 || slot > b.config.MaxScenes {
		return fmt.Sprintf("Scene ID must be between 1 and %d", b.config.MaxScenes)
	}
	return ""
}

// setPosition stores a clamped position and publishes servo_update.
func (b *Backend) setPosition(servoID, position int) int {
	b.mu.Lock()
	position = b.positionRange.Clamp(position)
	b.positions[servoID] = position
	b.mu.Unlock()

	b.hub.publish(schema.Event{Type: schema.EventServoUpdate, ServoID: servoID, Position: position})
	return position
}

// nudge moves a servo one step and clamps into the range. A servo at
// the off-sentinel nudges up to Min.
func (b *Backend) nudge(servoID int, direction servo.Direction) int {
	b.mu.Lock()
	position := b.positions[servoID] + direction.Step(b.nudgeStep)
	position = min(max(position, b.positionRange.Min), b.positionRange.Max)
	b.positions[servoID] = position
	b.mu.Unlock()

	b.hub.publish(schema.Event{Type: schema.EventServoUpdate, ServoID: servoID, Position: position})
	return position
}

func (b *Backend) allOff() {
	b.mu.Lock()
	for index := range b.positions {
		b.positions[index] = servo.OffPosition
	}
	b.mu.Unlock()

	b.hub.publish(schema.Event{Type: schema.EventAllServosOff})
}

// saveScene snapshots the positions into slot. Request fields that are
// absent or empty keep the slot's existing metadata.
func (b *Backend) saveScene(slot int, request schema.SaveSceneRequest) {
	b.mu.Lock()
	defer b.mu.Unlock()

	existing, exists := b.scenes[slot]
	scene := schema.SceneInfo{
		Name:        existing.Name,
		Description: existing.Description,
		Locked:      existing.Locked,
		Positions:   b.positionsLocked(),
	}
	if !exists {
		scene.Name = fmt.Sprintf("Scene %d", slot)
	}
	if request.Name != "" {
		scene.Name = request.Name
	}
	if request.Description != nil && *request.Description != "" {
		scene.Description = *request.Description
	}
	if request.Locked != nil {
		scene.Locked = *request.Locked
	}
	b.scenes[slot] = scene
}

func (b *Backend) updateScene(slot int, request schema.UpdateSceneRequest) bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	scene, exists := b.scenes[slot]
	if !exists {
		return false
	}
	scene.Name = request.Name
	scene.Description = request.Description
	scene.Locked = request.Locked
	b.scenes[slot] = scene
	return true
}

// recallScene applies a scene's positions and publishes
// scene_recalled with the full resulting status.
func (b *Backend) recallScene(slot int) (schema.Positions, bool) {
	b.mu.Lock()
	scene, exists := b.scenes[slot]
	if !exists {
		b.mu.Unlock()
		return nil, false
	}
	for index, position := range scene.Positions {
		if index >= 0 && index < len(b.positions) {
			b.positions[index] = b.positionRange.Clamp(position)
		}
	}
	positions := b.positionsLocked()
	b.mu.Unlock()

	b.hub.publish(schema.Event{Type: schema.EventSceneRecalled, SceneID: slot, Positions: positions})
	return positions, true
}
