// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package tui

import (
	"cmp"
	"slices"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/junegunn/fzf/src/util"
)

// PickerOption is one entry of a Picker. Key is opaque to the picker;
// the owner uses it to find what was chosen.
type PickerOption struct {
	Label string
	Key   int
}

// PickerOutcome reports what a key press did to a Picker.
type PickerOutcome int

const (
	// PickerPending means the picker is still open.
	PickerPending PickerOutcome = iota
	// PickerChosen means enter was pressed on a match.
	PickerChosen
	// PickerCancelled means the picker was dismissed.
	PickerCancelled
)

// pickerRows is how many matches are shown at once.
const pickerRows = 8

type pickerMatch struct {
	option PickerOption
	result FuzzyResult
}

// Picker is a fuzzy "jump to" overlay: a query line over a ranked list
// of matching options. Options keep their given order among equal
// scores.
type Picker struct {
	title   string
	input   textinput.Model
	options []PickerOption
	matches []pickerMatch
	cursor  int
	slab    *util.Slab
	theme   Theme
}

// NewPicker creates a focused picker over options.
func NewPicker(title string, options []PickerOption, theme Theme) *Picker {
	input := textinput.New()
	input.Prompt = "/ "
	input.Placeholder = "type to filter"
	input.Focus()

	picker := &Picker{
		title:   title,
		input:   input,
		options: options,
		slab:    NewSlab(),
		theme:   theme,
	}
	picker.filter()
	return picker
}

// Query returns the typed query.
func (picker *Picker) Query() string { return picker.input.Value() }

// Matches returns the matching options, best first.
func (picker *Picker) Matches() []PickerOption {
	options := make([]PickerOption, len(picker.matches))
	for index, match := range picker.matches {
		options[index] = match.option
	}
	return options
}

// Selected returns the highlighted match. ok is false when nothing
// matches.
func (picker *Picker) Selected() (option PickerOption, ok bool) {
	if len(picker.matches) == 0 {
		return PickerOption{}, false
	}
	return picker.matches[picker.cursor].option, true
}

// Update handles one key press.
func (picker *Picker) Update(message tea.KeyMsg) (PickerOutcome, tea.Cmd) {
	switch message.Type {
	case tea.KeyEsc, tea.KeyCtrlC:
		return PickerCancelled, nil
	case tea.KeyEnter:
		if _, ok := picker.Selected(); ok {
			return PickerChosen, nil
		}
		return PickerPending, nil
	case tea.KeyUp, tea.KeyCtrlP, tea.KeyShiftTab:
		picker.move(-1)
		return PickerPending, nil
	case tea.KeyDown, tea.KeyCtrlN, tea.KeyTab:
		picker.move(1)
		return PickerPending, nil
	}

	before := picker.input.Value()
	var cmd tea.Cmd
	picker.input, cmd = picker.input.Update(message)
	if picker.input.Value() != before {
		picker.filter()
	}
	return PickerPending, cmd
}

func (picker *Picker) move(delta int) {
	if len(picker.matches) == 0 {
		return
	}
	picker.cursor = (picker.cursor + delta + len(picker.matches)) % len(picker.matches)
}

func (picker *Picker) filter() {
	pattern := FuzzyPattern(picker.input.Value())
	picker.matches = picker.matches[:0]
	for _, option := range picker.options {
		result := FuzzyMatch(option.Label, pattern, picker.slab)
		if result.Matched {
			picker.matches = append(picker.matches, pickerMatch{option: option, result: result})
		}
	}
	slices.SortStableFunc(picker.matches, func(a, b pickerMatch) int {
		return cmp.Compare(b.result.Score, a.result.Score)
	})
	picker.cursor = 0
}

// Render produces the overlay lines, width columns wide.
func (picker *Picker) Render(width int) []string {
	innerWidth := max(width-4, 10)

	background := lipgloss.NewStyle().Background(picker.theme.ModalBackground)
	text := background.Foreground(picker.theme.ModalForeground)
	faint := background.Foreground(picker.theme.FaintText)
	title := background.Bold(true).Foreground(picker.theme.HeaderForeground)
	selected := lipgloss.NewStyle().
		Background(picker.theme.SelectedBackground).
		Foreground(picker.theme.SelectedForeground)

	lines := []string{
		PadLine(title.Render(picker.title), innerWidth, background),
		PadLine(picker.input.View(), innerWidth, background),
	}

	start := max(0, picker.cursor-pickerRows+1)
	end := min(len(picker.matches), start+pickerRows)
	for index := start; index < end; index++ {
		match := picker.matches[index]
		style := text
		marker := "  "
		if index == picker.cursor {
			style = selected
			marker = "> "
		}
		label := highlightMatches(match.option.Label, match.result.Positions, style, style.Foreground(picker.theme.MatchForeground))
		lines = append(lines, PadLine(style.Render(marker)+label, innerWidth, style))
	}
	if len(picker.matches) == 0 {
		lines = append(lines, PadLine(faint.Render("no matches"), innerWidth, background))
	}
	lines = append(lines, PadLine(faint.Render("enter jump  esc cancel"), innerWidth, background))

	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(picker.theme.BorderColor).
		Background(picker.theme.ModalBackground).
		Padding(0, 1)
	return strings.Split(box.Render(strings.Join(lines, "\n")), "\n")
}

func highlightMatches(label string, positions []int, normal, matched lipgloss.Style) string {
	if len(positions) == 0 {
		return normal.Render(label)
	}
	var builder strings.Builder
	next := 0
	for index, character := range []rune(label) {
		if next < len(positions) && positions[next] == index {
			builder.WriteString(matched.Render(string(character)))
			next++
			continue
		}
		builder.WriteString(normal.Render(string(character)))
	}
	return builder.String()
}
