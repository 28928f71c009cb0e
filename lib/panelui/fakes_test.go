// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package panelui

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/bureau-foundation/servopanel/lib/clock"
	"github.com/bureau-foundation/servopanel/lib/panel"
	"github.com/bureau-foundation/servopanel/lib/schema"
	"github.com/bureau-foundation/servopanel/lib/servo"
)

var testEpoch = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

// recordingBackend implements panel.Backend by recording calls.
type recordingBackend struct {
	mu        sync.Mutex
	calls     []string
	positions schema.Positions
	scenes    map[int]schema.SceneInfo
}

func (b *recordingBackend) record(format string, args ...any) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.calls = append(b.calls, fmt.Sprintf(format, args...))
}

func (b *recordingBackend) Calls() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]string(nil), b.calls...)
}

func (b *recordingBackend) Config(context.Context) (schema.PanelConfig, error) {
	b.record("config")
	return schema.DefaultPanelConfig(), nil
}

func (b *recordingBackend) Status(context.Context) (schema.Positions, error) {
	b.record("status")
	return b.positions, nil
}

func (b *recordingBackend) Scenes(context.Context) (map[int]schema.SceneInfo, error) {
	b.record("scenes")
	return b.scenes, nil
}

func (b *recordingBackend) SetPosition(_ context.Context, servoID, position int) error {
	b.record("position %d %d", servoID, position)
	return nil
}

func (b *recordingBackend) Nudge(_ context.Context, servoID int, direction servo.Direction) error {
	b.record("nudge %d %s", servoID, direction)
	return nil
}

func (b *recordingBackend) AllOff(context.Context) error {
	b.record("all-off")
	return nil
}

func (b *recordingBackend) SaveScene(_ context.Context, slot int, _ schema.SaveSceneRequest) error {
	b.record("save %d", slot)
	return nil
}

func (b *recordingBackend) UpdateScene(_ context.Context, slot int, _ schema.UpdateSceneRequest) error {
	b.record("update %d", slot)
	return nil
}

func (b *recordingBackend) RecallScene(_ context.Context, slot int) error {
	b.record("recall %d", slot)
	return nil
}

type testPanel struct {
	model    Model
	state    *panel.State
	backend  *recordingBackend
	prompter *Prompter
	clock    *clock.FakeClock
}

// newTestPanel builds a sized model over the default configuration:
// eight servos, then eight scene slots.
func newTestPanel(t *testing.T) *testPanel {
	t.Helper()
	log := panel.NewLog(panel.LogCapacity)
	logger := slog.New(panel.NewLogHandler(log, slog.LevelInfo))
	state := panel.NewState(schema.DefaultPanelConfig(), servo.DefaultRange(), log, logger)
	backend := &recordingBackend{positions: schema.Positions{}, scenes: map[int]schema.SceneInfo{}}
	prompter := NewPrompter()
	dispatcher := panel.NewDispatcher(backend, state, prompter, logger)
	fake := clock.Fake(testEpoch)

	model := NewModel(context.Background(), state, dispatcher, Options{Prompter: prompter, Clock: fake})
	updated, _ := model.Update(tea.WindowSizeMsg{Width: 100, Height: 40})
	return &testPanel{
		model:    updated.(Model),
		state:    state,
		backend:  backend,
		prompter: prompter,
		clock:    fake,
	}
}

// send delivers message and returns the command Update produced.
func (p *testPanel) send(message tea.Msg) tea.Cmd {
	updated, cmd := p.model.Update(message)
	p.model = updated.(Model)
	return cmd
}

// press sends a key given by its tea.KeyMsg string form.
func (p *testPanel) press(keyName string) tea.Cmd {
	return p.send(keyMsg(keyName))
}

// run executes cmd and feeds its message back into the model.
func (p *testPanel) run(cmd tea.Cmd) {
	if cmd == nil {
		return
	}
	p.send(cmd())
}

func keyMsg(name string) tea.KeyMsg {
	switch name {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	case "ctrl+r":
		return tea.KeyMsg{Type: tea.KeyCtrlR}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(name)}
}
