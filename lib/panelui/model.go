// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package panelui

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/bureau-foundation/servopanel/lib/clock"
	"github.com/bureau-foundation/servopanel/lib/panel"
	"github.com/bureau-foundation/servopanel/lib/schema"
	"github.com/bureau-foundation/servopanel/lib/servo"
	"github.com/bureau-foundation/servopanel/lib/tui"
)

// Slider steps in percent.
const (
	coarseStep = 1.0
	fineStep   = 0.1
)

// eventMsg delivers one push event to Update.
type eventMsg struct {
	event schema.Event
}

// streamClosedMsg reports that the event channel was closed.
type streamClosedMsg struct{}

// logAppendedMsg reports new panel log entries.
type logAppendedMsg struct{}

// heatTickMsg advances the change-highlight animation.
type heatTickMsg struct{}

// resyncTickMsg starts a periodic status resync.
type resyncTickMsg struct{}

// snapshotMsg carries the servos written by an initial load or a
// resync.
type snapshotMsg struct {
	change panel.Change
	resync bool
}

// actionDoneMsg reports that a dispatcher call finished. Failures are
// already in the panel log.
type actionDoneMsg struct {
	err error
}

// Options configures a Model.
type Options struct {
	// Events is the push event channel. Nil means no live updates.
	Events <-chan schema.Event

	// Prompter must be the Prompter the dispatcher was built with.
	Prompter *Prompter

	// Clock drives the change highlight. Defaults to the real clock.
	Clock clock.Clock

	// Theme defaults to tui.DefaultTheme.
	Theme *tui.Theme

	// ResyncInterval re-fetches the status snapshot periodically.
	// Zero disables it.
	ResyncInterval time.Duration
}

// Model is the bubbletea model of the panel.
type Model struct {
	ctx        context.Context
	state      *panel.State
	dispatcher *panel.Dispatcher
	registry   *Registry
	prompter   *Prompter
	events     <-chan schema.Event
	clock      clock.Clock
	theme      tui.Theme
	keys       KeyMap

	resyncInterval time.Duration

	// Terminal dimensions (set by WindowSizeMsg).
	width  int
	height int
	ready  bool

	// focus indexes registry.Controls().
	focus int

	// sliders holds each servo's slider handle in percent. It moves
	// with gestures and is overwritten when the servo's position
	// changes in state.
	sliders []float64

	body    viewport.Model
	logPane viewport.Model

	// Layout of the body content, rebuilt by refreshBody.
	controlLines []lineSpan
	bodyHits     []hitRegion
	headerHits   []hitRegion

	logSignal chan struct{}
	logSeen   uint64

	heat        *tui.HeatTracker[int]
	tickRunning bool

	modal      *tui.Modal
	modalReply chan tui.ModalResult
	modalQueue []promptRequest

	picker *tui.Picker
}

// NewModel creates the panel model. ctx bounds every backend request
// the panel issues.
func NewModel(ctx context.Context, state *panel.State, dispatcher *panel.Dispatcher, options Options) Model {
	theme := tui.DefaultTheme
	if options.Theme != nil {
		theme = *options.Theme
	}
	if options.Clock == nil {
		options.Clock = clock.Real()
	}
	if options.Prompter == nil {
		options.Prompter = NewPrompter()
	}

	model := Model{
		ctx:            ctx,
		state:          state,
		dispatcher:     dispatcher,
		prompter:       options.Prompter,
		events:         options.Events,
		clock:          options.Clock,
		theme:          theme,
		keys:           DefaultKeyMap,
		resyncInterval: options.ResyncInterval,
		sliders:        make([]float64, state.NumServos()),
		body:           viewport.New(0, 0),
		logPane:        viewport.New(0, 0),
		logSignal:      make(chan struct{}, 1),
		heat:           tui.NewHeatTracker[int](),
	}
	model.registry = BuildRegistry(state.Config(), model.bindings())
	for index := range model.sliders {
		model.sliders[index] = state.Percentage(index)
	}
	return model
}

// LogNotifier returns the function to register with
// panel.LogHandler.SetNotify. It never blocks; bursts of entries
// coalesce into one redraw.
func (model Model) LogNotifier() func(panel.Entry) {
	signal := model.logSignal
	return func(panel.Entry) {
		select {
		case signal <- struct{}{}:
		default:
		}
	}
}

// Registry returns the control registry.
func (model Model) Registry() *Registry { return model.registry }

// bindings binds control gestures to dispatcher commands. Closures
// capture the dispatcher and context, never the model value.
func (model Model) bindings() Bindings {
	ctx := model.ctx
	dispatcher := model.dispatcher
	run := func(action func() error) tea.Cmd {
		return func() tea.Msg { return actionDoneMsg{err: action()} }
	}
	return Bindings{
		SetPercentage: func(servoID int, percentage float64) tea.Cmd {
			return run(func() error { return dispatcher.SetPercentage(ctx, servoID, percentage) })
		},
		Nudge: func(servoID int, direction servo.Direction) tea.Cmd {
			return run(func() error { return dispatcher.Nudge(ctx, servoID, direction) })
		},
		Recall: func(slot int) tea.Cmd {
			return run(func() error { return dispatcher.RecallScene(ctx, slot) })
		},
		Save: func(slot int) tea.Cmd {
			return run(func() error { return dispatcher.SaveScenePrompt(ctx, slot) })
		},
		Edit: func(slot int) tea.Cmd {
			return run(func() error { return dispatcher.EditSceneMetadata(ctx, slot) })
		},
	}
}

// Init implements tea.Model: subscribe first, then load the initial
// status and scenes.
func (model Model) Init() tea.Cmd {
	commands := []tea.Cmd{
		listenForPrompt(model.prompter.requests),
		waitForLog(model.logSignal),
	}
	if model.events != nil {
		commands = append(commands, listenForEvent(model.events))
	}
	commands = append(commands, model.loadInitialData())
	if model.resyncInterval > 0 {
		commands = append(commands, scheduleResync(model.resyncInterval))
	}
	return tea.Batch(commands...)
}

// listenForEvent returns a command that blocks until the next push
// event arrives.
func listenForEvent(events <-chan schema.Event) tea.Cmd {
	return func() tea.Msg {
		event, ok := <-events
		if !ok {
			return streamClosedMsg{}
		}
		return eventMsg{event: event}
	}
}

// waitForLog returns a command that blocks until the log notifier
// fires.
func waitForLog(signal <-chan struct{}) tea.Cmd {
	return func() tea.Msg {
		<-signal
		return logAppendedMsg{}
	}
}

func (model Model) loadInitialData() tea.Cmd {
	ctx, dispatcher := model.ctx, model.dispatcher
	return func() tea.Msg {
		change, _ := dispatcher.LoadInitialData(ctx)
		return snapshotMsg{change: change}
	}
}

func (model Model) resync() tea.Cmd {
	ctx, dispatcher := model.ctx, model.dispatcher
	return func() tea.Msg {
		change, _ := dispatcher.Resync(ctx)
		return snapshotMsg{change: change, resync: true}
	}
}

func scheduleResync(interval time.Duration) tea.Cmd {
	return tea.Tick(interval, func(time.Time) tea.Msg { return resyncTickMsg{} })
}

func scheduleHeatTick() tea.Cmd {
	return tea.Tick(tui.HeatTickInterval, func(time.Time) tea.Msg { return heatTickMsg{} })
}

// Update implements tea.Model.
func (model Model) Update(message tea.Msg) (tea.Model, tea.Cmd) {
	switch message := message.(type) {
	case tea.KeyMsg:
		if model.modal != nil {
			return model.handleModalKeys(message)
		}
		if model.picker != nil {
			return model.handlePickerKeys(message)
		}
		return model.handleKeys(message)

	case tea.MouseMsg:
		return model, model.handleMouse(message)

	case tea.WindowSizeMsg:
		model.width = message.Width
		model.height = message.Height
		model.ready = true
		model.updateLayout()

	case eventMsg:
		change := model.state.Apply(model.ctx, message.event)
		model.applyChange(change, true)
		model.refreshBody()
		model.refreshLog()
		commands := []tea.Cmd{listenForEvent(model.events)}
		if len(change.Servos) > 0 && !model.tickRunning {
			model.tickRunning = true
			commands = append(commands, scheduleHeatTick())
		}
		return model, tea.Batch(commands...)

	case streamClosedMsg:
		model.events = nil

	case snapshotMsg:
		model.applyChange(message.change, false)
		model.refreshBody()
		if message.resync && model.resyncInterval > 0 {
			return model, scheduleResync(model.resyncInterval)
		}

	case resyncTickMsg:
		return model, model.resync()

	case actionDoneMsg:
		model.refreshBody()

	case logAppendedMsg:
		model.refreshLog()
		return model, waitForLog(model.logSignal)

	case heatTickMsg:
		model.refreshBody()
		if model.heat.HasHot(model.clock.Now()) {
			return model, scheduleHeatTick()
		}
		model.tickRunning = false

	case promptRequestMsg:
		model.openPrompt(message.request)
		return model, listenForPrompt(model.prompter.requests)
	}
	return model, nil
}

// applyChange syncs slider handles to state for the written servos
// and, for pushed changes, starts their highlight.
func (model *Model) applyChange(change panel.Change, highlight bool) {
	now := model.clock.Now()
	for _, index := range change.Servos {
		if index < 0 || index >= len(model.sliders) {
			continue
		}
		model.sliders[index] = model.state.Percentage(index)
		if highlight {
			model.heat.Ignite(index, now)
		}
	}
}

func (model Model) handleKeys(message tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(message, model.keys.Quit):
		return model, tea.Quit

	case key.Matches(message, model.keys.ConfigMode):
		model.dispatcher.ToggleConfigMode(model.ctx)
		model.refreshBody()
		return model, nil

	case key.Matches(message, model.keys.AllOff):
		dispatcher, ctx := model.dispatcher, model.ctx
		return model, func() tea.Msg { return actionDoneMsg{err: dispatcher.AllOff(ctx)} }

	case key.Matches(message, model.keys.Jump):
		model.openPicker()
		return model, nil

	case key.Matches(message, model.keys.Resync):
		return model, model.resync()

	case key.Matches(message, model.keys.Up):
		model.moveFocus(-1)
		return model, nil

	case key.Matches(message, model.keys.Down):
		model.moveFocus(1)
		return model, nil

	case key.Matches(message, model.keys.PageUp):
		model.moveFocus(-max(1, model.body.Height/4))
		return model, nil

	case key.Matches(message, model.keys.PageDown):
		model.moveFocus(max(1, model.body.Height/4))
		return model, nil

	case key.Matches(message, model.keys.Home):
		model.setFocus(0)
		return model, nil

	case key.Matches(message, model.keys.End):
		model.setFocus(model.registry.Len() - 1)
		return model, nil
	}

	control, ok := model.focusedControl()
	if !ok {
		return model, nil
	}
	if control.Servo != nil {
		return model, model.handleServoKeys(control.Servo, message)
	}
	return model, model.handleSceneKeys(control.Scene, message)
}

func (model *Model) handleServoKeys(control *ServoControl, message tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(message, model.keys.Increase):
		return model.moveSlider(control, model.sliders[control.Index]+coarseStep)
	case key.Matches(message, model.keys.Decrease):
		return model.moveSlider(control, model.sliders[control.Index]-coarseStep)
	case key.Matches(message, model.keys.FineIncrease):
		return model.moveSlider(control, model.sliders[control.Index]+fineStep)
	case key.Matches(message, model.keys.FineDecrease):
		return model.moveSlider(control, model.sliders[control.Index]-fineStep)
	case key.Matches(message, model.keys.Off):
		return model.moveSlider(control, 0)
	case key.Matches(message, model.keys.Full):
		return model.moveSlider(control, 100)
	case key.Matches(message, model.keys.NudgePlus):
		return control.Nudge(servo.Plus)
	case key.Matches(message, model.keys.NudgeMinus):
		return control.Nudge(servo.Minus)
	}
	return nil
}

func (model *Model) handleSceneKeys(control *SceneControl, message tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(message, model.keys.Recall):
		return control.Recall()
	case key.Matches(message, model.keys.Save):
		return control.Save()
	case key.Matches(message, model.keys.Edit):
		if !model.state.ConfigMode() {
			return nil
		}
		return control.Edit()
	}
	return nil
}

// moveSlider sets a servo's slider handle and requests the matching
// position. The readout and indicator wait for the push event.
func (model *Model) moveSlider(control *ServoControl, percentage float64) tea.Cmd {
	percentage = clampPercentage(math.Round(percentage*10) / 10)
	model.sliders[control.Index] = percentage
	model.refreshBody()
	return control.SetPercentage(percentage)
}

func (model *Model) focusedControl() (Control, bool) {
	controls := model.registry.Controls()
	if model.focus < 0 || model.focus >= len(controls) {
		return Control{}, false
	}
	return controls[model.focus], true
}

func (model *Model) moveFocus(delta int) {
	model.setFocus(model.focus + delta)
}

func (model *Model) setFocus(position int) {
	if model.registry.Len() == 0 {
		return
	}
	model.focus = min(max(position, 0), model.registry.Len()-1)
	model.refreshBody()
	model.ensureFocusVisible()
}

func (model *Model) ensureFocusVisible() {
	if model.focus >= len(model.controlLines) || model.body.Height <= 0 {
		return
	}
	span := model.controlLines[model.focus]
	switch {
	case span.start < model.body.YOffset:
		model.body.SetYOffset(span.start)
	case span.end > model.body.YOffset+model.body.Height:
		model.body.SetYOffset(span.end - model.body.Height)
	}
}

func (model Model) handleModalKeys(message tea.KeyMsg) (tea.Model, tea.Cmd) {
	result, cmd := model.modal.Update(message)
	if !result.Done {
		return model, cmd
	}
	model.modalReply <- result
	model.modal = nil
	model.modalReply = nil
	if len(model.modalQueue) > 0 {
		next := model.modalQueue[0]
		model.modalQueue = model.modalQueue[1:]
		model.openPrompt(next)
	}
	return model, cmd
}

// openPrompt shows a dialog for request, or queues it behind the one
// already open.
func (model *Model) openPrompt(request promptRequest) {
	if model.modal != nil {
		model.modalQueue = append(model.modalQueue, request)
		return
	}
	model.picker = nil
	switch request.kind {
	case tui.ModalAlert:
		model.modal = tui.NewAlert(request.message, model.theme)
	case tui.ModalConfirm:
		model.modal = tui.NewConfirm(request.message, model.theme)
	default:
		model.modal = tui.NewPrompt(request.message, request.initial, model.theme)
	}
	model.modalReply = request.reply
}

func (model *Model) openPicker() {
	var options []tui.PickerOption
	for position, control := range model.registry.Controls() {
		label := ""
		if control.Servo != nil {
			label = control.Servo.Name
		} else {
			label = fmt.Sprintf("Scene %d: %s", control.Scene.Slot, model.state.SceneLabel(control.Scene.Slot))
		}
		options = append(options, tui.PickerOption{Label: label, Key: position})
	}
	model.picker = tui.NewPicker("Jump to control", options, model.theme)
}

func (model Model) handlePickerKeys(message tea.KeyMsg) (tea.Model, tea.Cmd) {
	outcome, cmd := model.picker.Update(message)
	switch outcome {
	case tui.PickerChosen:
		option, _ := model.picker.Selected()
		model.picker = nil
		model.setFocus(option.Key)
	case tui.PickerCancelled:
		model.picker = nil
	}
	return model, cmd
}
