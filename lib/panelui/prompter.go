// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package panelui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/bureau-foundation/servopanel/lib/tui"
)

// promptRequest is one question from a dispatcher goroutine to the
// event loop. The loop answers exactly once on reply.
type promptRequest struct {
	kind    tui.ModalKind
	message string
	initial string
	reply   chan tui.ModalResult
}

// promptRequestMsg delivers a promptRequest to Update.
type promptRequestMsg struct {
	request promptRequest
}

// Prompter implements panel.Prompter with modal overlays. Calls block
// until the Model shows the dialog and the user answers, or until ctx
// ends, which counts as a dismissal.
type Prompter struct {
	requests chan promptRequest
}

// NewPrompter creates a Prompter. Pass the same Prompter to the
// dispatcher and to the Model through Options.
func NewPrompter() *Prompter {
	return &Prompter{requests: make(chan promptRequest)}
}

// Alert implements panel.Prompter.
func (prompter *Prompter) Alert(ctx context.Context, message string) {
	prompter.ask(ctx, tui.ModalAlert, message, "")
}

// Confirm implements panel.Prompter.
func (prompter *Prompter) Confirm(ctx context.Context, message string) (answer, ok bool) {
	result := prompter.ask(ctx, tui.ModalConfirm, message, "")
	if !result.OK {
		return false, false
	}
	return result.Answer, true
}

// Prompt implements panel.Prompter.
func (prompter *Prompter) Prompt(ctx context.Context, label, initial string) (value string, ok bool) {
	result := prompter.ask(ctx, tui.ModalPrompt, label, initial)
	if !result.OK {
		return "", false
	}
	return result.Value, true
}

func (prompter *Prompter) ask(ctx context.Context, kind tui.ModalKind, message, initial string) tui.ModalResult {
	request := promptRequest{
		kind:    kind,
		message: message,
		initial: initial,
		reply:   make(chan tui.ModalResult, 1),
	}
	select {
	case prompter.requests <- request:
	case <-ctx.Done():
		return tui.ModalResult{Done: true}
	}
	select {
	case result := <-request.reply:
		return result
	case <-ctx.Done():
		return tui.ModalResult{Done: true}
	}
}

// listenForPrompt returns a command that waits for the next question.
func listenForPrompt(requests <-chan promptRequest) tea.Cmd {
	return func() tea.Msg {
		return promptRequestMsg{request: <-requests}
	}
}
