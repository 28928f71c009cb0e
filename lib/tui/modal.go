// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
)

// ModalKind selects what a Modal asks for.
type ModalKind int

const (
	// ModalAlert shows a message until acknowledged.
	ModalAlert ModalKind = iota
	// ModalConfirm asks a yes/no question.
	ModalConfirm
	// ModalPrompt asks for one line of text.
	ModalPrompt
)

// ModalResult is the outcome of a key press in a Modal. Done is false
// while the modal stays open. OK is false when the user dismissed it.
type ModalResult struct {
	Done   bool
	OK     bool
	Answer bool
	Value  string
}

// Modal chrome: rounded border plus one column of padding per side.
const (
	modalChromeWidth = 4
	modalMinWidth    = 24
	modalMaxWidth    = 64
)

// Modal is a centered dialog overlay.
type Modal struct {
	kind    ModalKind
	message string
	input   textinput.Model
	theme   Theme
}

// NewAlert creates an alert dialog.
func NewAlert(message string, theme Theme) *Modal {
	return &Modal{kind: ModalAlert, message: message, theme: theme}
}

// NewConfirm creates a yes/no dialog.
func NewConfirm(message string, theme Theme) *Modal {
	return &Modal{kind: ModalConfirm, message: message, theme: theme}
}

// NewPrompt creates a text dialog prefilled with initial.
func NewPrompt(label, initial string, theme Theme) *Modal {
	input := textinput.New()
	input.Prompt = "> "
	input.CharLimit = 200
	input.SetValue(initial)
	input.CursorEnd()
	input.Focus()
	return &Modal{kind: ModalPrompt, message: label, input: input, theme: theme}
}

// Kind returns the dialog kind.
func (modal *Modal) Kind() ModalKind { return modal.kind }

// Message returns the alert text, question or prompt label.
func (modal *Modal) Message() string { return modal.message }

// Update handles one key press.
func (modal *Modal) Update(message tea.KeyMsg) (ModalResult, tea.Cmd) {
	if message.Type == tea.KeyEsc || message.Type == tea.KeyCtrlC {
		if modal.kind == ModalAlert {
			return ModalResult{Done: true, OK: true}, nil
		}
		return ModalResult{Done: true}, nil
	}

	switch modal.kind {
	case ModalAlert:
		if message.Type == tea.KeyEnter || message.Type == tea.KeySpace {
			return ModalResult{Done: true, OK: true}, nil
		}
	case ModalConfirm:
		switch {
		case message.Type == tea.KeyEnter:
			return ModalResult{Done: true, OK: true, Answer: true}, nil
		case message.Type == tea.KeyRunes && len(message.Runes) == 1:
			switch message.Runes[0] {
			case 'y', 'Y':
				return ModalResult{Done: true, OK: true, Answer: true}, nil
			case 'n', 'N':
				return ModalResult{Done: true, OK: true, Answer: false}, nil
			}
		}
	case ModalPrompt:
		if message.Type == tea.KeyEnter {
			return ModalResult{Done: true, OK: true, Value: modal.input.Value()}, nil
		}
		var cmd tea.Cmd
		modal.input, cmd = modal.input.Update(message)
		return ModalResult{}, cmd
	}
	return ModalResult{}, nil
}

// Render returns the dialog lines and the top-left anchor that centers
// them on a width×height screen.
func (modal *Modal) Render(width, height int) ([]string, int, int) {
	innerWidth := min(max(width-modalChromeWidth-4, modalMinWidth), modalMaxWidth)

	background := lipgloss.NewStyle().Background(modal.theme.ModalBackground)
	text := background.Foreground(modal.theme.ModalForeground)
	footer := background.Foreground(modal.theme.FaintText)

	var lines []string
	for _, paragraph := range strings.Split(modal.message, "\n") {
		wrapped := ansi.Wordwrap(paragraph, innerWidth, "")
		for _, line := range strings.Split(wrapped, "\n") {
			lines = append(lines, PadLine(text.Render(line), innerWidth, background))
		}
	}

	switch modal.kind {
	case ModalAlert:
		lines = append(lines, PadLine("", innerWidth, background),
			PadLine(footer.Render("enter ok"), innerWidth, background))
	case ModalConfirm:
		lines = append(lines, PadLine("", innerWidth, background),
			PadLine(footer.Render("y yes  n no  esc cancel"), innerWidth, background))
	case ModalPrompt:
		modal.input.Width = innerWidth - ansi.StringWidth(modal.input.Prompt) - 1
		lines = append(lines, PadLine(modal.input.View(), innerWidth, background),
			PadLine(footer.Render("enter ok  esc cancel"), innerWidth, background))
	}

	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(modal.theme.BorderColor).
		Background(modal.theme.ModalBackground).
		Padding(0, 1)
	rendered := strings.Split(box.Render(strings.Join(lines, "\n")), "\n")
	x, y := CenterAnchor(rendered, width, height)
	return rendered, x, y
}
