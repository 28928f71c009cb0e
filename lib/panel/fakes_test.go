// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package panel

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"testing"

	"github.com/bureau-foundation/servopanel/lib/panelclient"
	"github.com/bureau-foundation/servopanel/lib/schema"
	"github.com/bureau-foundation/servopanel/lib/servo"
)

// fakeBackend records every call and answers from its fields.
type fakeBackend struct {
	mu sync.Mutex

	calls    []string
	failures map[string]error

	config    schema.PanelConfig
	positions schema.Positions
	scenes    map[int]schema.SceneInfo

	lastPosition int
	lastSave     schema.SaveSceneRequest
	lastUpdate   schema.UpdateSceneRequest
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{
		failures:  map[string]error{},
		config:    schema.DefaultPanelConfig(),
		positions: schema.Positions{},
		scenes:    map[int]schema.SceneInfo{},
	}
}

func (b *fakeBackend) record(call string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.calls = append(b.calls, call)
	name, _, _ := strings.Cut(call, " ")
	return b.failures[name]
}

func (b *fakeBackend) fail(name, message string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.failures[name] = &panelclient.APIError{Operation: name, Status: 400, Message: message}
}

func (b *fakeBackend) Calls() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]string(nil), b.calls...)
}

func (b *fakeBackend) Config(ctx context.Context) (schema.PanelConfig, error) {
	return b.config, b.record("config")
}

func (b *fakeBackend) Status(ctx context.Context) (schema.Positions, error) {
	return b.positions, b.record("status")
}

func (b *fakeBackend) Scenes(ctx context.Context) (map[int]schema.SceneInfo, error) {
	return b.scenes, b.record("scenes")
}

func (b *fakeBackend) SetPosition(ctx context.Context, servoID, position int) error {
	b.mu.Lock()
	b.lastPosition = position
	b.mu.Unlock()
	return b.record(fmt.Sprintf("position %d %d", servoID, position))
}

func (b *fakeBackend) Nudge(ctx context.Context, servoID int, direction servo.Direction) error {
	return b.record(fmt.Sprintf("nudge %d %s", servoID, direction))
}

func (b *fakeBackend) AllOff(ctx context.Context) error {
	return b.record("all-off")
}

func (b *fakeBackend) SaveScene(ctx context.Context, slot int, request schema.SaveSceneRequest) error {
	b.mu.Lock()
	b.lastSave = request
	b.mu.Unlock()
	return b.record(fmt.Sprintf("save %d", slot))
}

func (b *fakeBackend) UpdateScene(ctx context.Context, slot int, request schema.UpdateSceneRequest) error {
	b.mu.Lock()
	b.lastUpdate = request
	b.mu.Unlock()
	return b.record(fmt.Sprintf("update %d", slot))
}

func (b *fakeBackend) RecallScene(ctx context.Context, slot int) error {
	return b.record(fmt.Sprintf("recall %d", slot))
}

type confirmAnswer struct {
	answer, ok bool
}

type promptAnswer struct {
	value string
	ok    bool
}

// scriptedPrompter answers from queues and records what was asked.
// An exhausted queue answers as a dismissal.
type scriptedPrompter struct {
	alerts    []string
	questions []string
	labels    []string
	initials  []string

	confirmAnswers []confirmAnswer
	promptAnswers  []promptAnswer
}

func (p *scriptedPrompter) Alert(ctx context.Context, message string) {
	p.alerts = append(p.alerts, message)
}

func (p *scriptedPrompter) Confirm(ctx context.Context, message string) (bool, bool) {
	p.questions = append(p.questions, message)
	if len(p.confirmAnswers) == 0 {
		return false, false
	}
	next := p.confirmAnswers[0]
	p.confirmAnswers = p.confirmAnswers[1:]
	return next.answer, next.ok
}

func (p *scriptedPrompter) Prompt(ctx context.Context, label, initial string) (string, bool) {
	p.labels = append(p.labels, label)
	p.initials = append(p.initials, initial)
	if len(p.promptAnswers) == 0 {
		return "", false
	}
	next := p.promptAnswers[0]
	p.promptAnswers = p.promptAnswers[1:]
	return next.value, next.ok
}

type testPanel struct {
	state      *State
	log        *Log
	backend    *fakeBackend
	prompter   *scriptedPrompter
	dispatcher *Dispatcher
}

func newTestPanel(t *testing.T) *testPanel {
	t.Helper()
	log := NewLog(LogCapacity)
	logger := slog.New(NewLogHandler(log, slog.LevelInfo))
	state := NewState(schema.DefaultPanelConfig(), servo.DefaultRange(), log, logger)
	backend := newFakeBackend()
	prompter := &scriptedPrompter{}
	return &testPanel{
		state:      state,
		log:        log,
		backend:    backend,
		prompter:   prompter,
		dispatcher: NewDispatcher(backend, state, prompter, logger),
	}
}

// messages returns the panel log as "level: message" lines.
func (p *testPanel) messages() []string {
	var lines []string
	for _, entry := range p.log.Entries() {
		lines = append(lines, LevelName(entry.Level)+": "+entry.Message)
	}
	return lines
}
