// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package panelui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/bureau-foundation/servopanel/lib/panel"
	"github.com/bureau-foundation/servopanel/lib/servo"
	"github.com/bureau-foundation/servopanel/lib/tui"
)

// Layout constants.
const (
	// chromeRows are the header, the separator above the log and the
	// help line.
	chromeRows       = 3
	scrollbarColumns = 1
	logRows          = 6
	logRowsMin       = 2
	indent           = "    "
	nameColumns      = 28
)

// lineBuilder assembles one rendered line and records the columns of
// its clickable parts.
type lineBuilder struct {
	builder strings.Builder
	width   int
	line    int
	hits    []hitRegion
}

func (line *lineBuilder) text(styled string) {
	line.builder.WriteString(styled)
	line.width += ansi.StringWidth(styled)
}

func (line *lineBuilder) button(styled string, control int, action hitAction) {
	start := line.width
	line.text(styled)
	line.hits = append(line.hits, hitRegion{line: line.line, x0: start, x1: line.width, control: control, action: action})
}

func (line *lineBuilder) padTo(column int) {
	if line.width < column {
		line.text(strings.Repeat(" ", column-line.width))
	}
}

func (line *lineBuilder) String() string { return line.builder.String() }

// updateLayout sizes the panes after a resize.
func (model *Model) updateLayout() {
	rows := logRows
	if model.height < 20 {
		rows = max(logRowsMin, model.height/5)
	}
	model.body.Width = max(1, model.width-scrollbarColumns)
	model.body.Height = max(1, model.height-chromeRows-rows)
	model.logPane.Width = model.width
	model.logPane.Height = rows
	model.refreshBody()
	model.refreshLog()
	model.ensureFocusVisible()
}

// refreshBody re-renders the control blocks and their hit regions
// from state. Call it after anything the blocks show changes.
func (model *Model) refreshBody() {
	var lines []string
	var hits []hitRegion
	spans := make([]lineSpan, 0, model.registry.Len())

	for position, control := range model.registry.Controls() {
		start := len(lines)
		var block []string
		var blockHits []hitRegion
		if control.Servo != nil {
			block, blockHits = model.renderServo(position, control.Servo)
		} else {
			block, blockHits = model.renderScene(position, control.Scene)
		}
		for _, hit := range blockHits {
			hit.line += start
			hits = append(hits, hit)
		}
		lines = append(lines, block...)
		spans = append(spans, lineSpan{start: start, end: len(lines)})
		lines = append(lines, "")
	}

	model.controlLines = spans
	model.bodyHits = hits
	model.body.SetContent(strings.Join(lines, "\n"))
	model.computeHeaderHits()
}

func (model *Model) renderServo(position int, control *ServoControl) ([]string, []hitRegion) {
	theme := model.theme
	focused := position == model.focus
	percentage := model.state.Percentage(control.Index)
	config := model.state.Config()

	nameStyle := lipgloss.NewStyle().Bold(true).Foreground(theme.NormalText)
	if model.heat.Heat(control.Index, model.clock.Now()) > 0 {
		nameStyle = nameStyle.Background(theme.HotAccent)
	}
	if focused {
		nameStyle = nameStyle.Foreground(theme.SelectedForeground)
	}

	title := &lineBuilder{line: 0}
	title.text(focusMarker(theme, focused))
	title.text(nameStyle.Render(tui.Truncate(control.Name, nameColumns-2)))
	title.padTo(nameColumns)
	readout := servo.FormatPercentage(percentage)
	if config.ShowRawValues {
		readout += fmt.Sprintf(" (%d)", model.state.Position(control.Index))
	}
	title.text(lipgloss.NewStyle().Foreground(theme.HeaderForeground).Render(readout))

	button := lipgloss.NewStyle().Foreground(theme.HelpText)
	width := sliderWidth(model.width)
	slider := &lineBuilder{line: 1}
	slider.text(indent)
	slider.button(button.Render("[-]"), position, hitNudgeMinus)
	slider.text(" ")
	slider.button(renderSlider(theme, model.sliders[control.Index], width, focused), position, hitSlider)
	slider.text(" ")
	slider.button(button.Render("[+]"), position, hitNudgePlus)
	slider.text("  " + lipgloss.NewStyle().Foreground(theme.FaintText).Render(servo.FormatPercentage(model.sliders[control.Index])))

	lines := []string{title.String(), slider.String()}
	for _, indicator := range indicatorLines(theme, config.VisualDisplayStyle, percentage, control.Gate) {
		lines = append(lines, indent+indicator)
	}

	hits := append(title.hits, slider.hits...)
	return lines, hits
}

func (model *Model) renderScene(position int, control *SceneControl) ([]string, []hitRegion) {
	theme := model.theme
	focused := position == model.focus
	scene, exists := model.state.Scene(control.Slot)
	configMode := model.state.ConfigMode()
	blocked := model.state.SaveBlocked(control.Slot)

	nameStyle := lipgloss.NewStyle().Bold(true).Foreground(theme.NormalText)
	if !exists {
		nameStyle = lipgloss.NewStyle().Foreground(theme.FaintText)
	}
	if focused {
		nameStyle = nameStyle.Foreground(theme.SelectedForeground)
	}
	faint := lipgloss.NewStyle().Foreground(theme.FaintText)
	button := lipgloss.NewStyle().Foreground(theme.HelpText)

	title := &lineBuilder{line: 0}
	title.text(focusMarker(theme, focused))
	title.text(faint.Render(fmt.Sprintf("%d ", control.Slot)))
	title.text(nameStyle.Render(tui.Truncate(model.state.SceneLabel(control.Slot), nameColumns-4)))
	if scene.Locked {
		title.text(" " + lipgloss.NewStyle().Foreground(theme.Locked).Render("[locked]"))
	}
	title.padTo(nameColumns + 9)
	title.button(button.Render("[Recall]"), position, hitRecall)
	title.text(" ")
	if blocked {
		title.button(faint.Strikethrough(true).Render("[Save]"), position, hitSave)
	} else {
		title.button(button.Render("[Save]"), position, hitSave)
	}
	if configMode {
		title.text(" ")
		title.button(button.Render("[Edit]"), position, hitEdit)
	}

	lines := []string{title.String()}
	var detail []string
	if exists {
		description := scene.Description
		if description == "" {
			description = "No description"
		}
		detail = append(detail, description)
	}
	if blocked {
		detail = append(detail, panel.MessageSaveLockedReason)
	}
	if len(detail) > 0 {
		text := tui.Truncate(strings.Join(detail, " · "), max(10, model.body.Width-len(indent)))
		lines = append(lines, indent+faint.Render(text))
	}
	return lines, title.hits
}

func focusMarker(theme tui.Theme, focused bool) string {
	if !focused {
		return "  "
	}
	return lipgloss.NewStyle().Foreground(theme.LevelInfo).Render("▌ ")
}

// renderHeader draws the title, connection indicator, config-mode
// toggle and All Off action. Hits are reported with line 0.
func (model Model) renderHeader() (string, []hitRegion) {
	theme := model.theme
	header := &lineBuilder{}
	header.text(lipgloss.NewStyle().Bold(true).Foreground(theme.HeaderForeground).Render(" Servo Panel "))

	if model.state.Connected() {
		header.text(lipgloss.NewStyle().Foreground(theme.Connected).Render(" ● Connected "))
	} else {
		header.text(lipgloss.NewStyle().Foreground(theme.Disconnected).Render(" ○ Disconnected "))
	}

	toggle := lipgloss.NewStyle().Foreground(theme.HelpText)
	label := "[Config Mode]"
	if model.state.ConfigMode() {
		toggle = toggle.Foreground(theme.ConfigMode).Bold(true)
		label = "[Exit Config Mode]"
	}
	header.text(" ")
	header.button(toggle.Render(label), -1, hitConfigMode)
	header.text(" ")
	header.button(lipgloss.NewStyle().Foreground(theme.LevelError).Render("[All Off]"), -1, hitAllOff)

	if model.state.ConfigMode() {
		header.text("  " + lipgloss.NewStyle().Foreground(theme.ConfigMode).Render("CONFIG MODE"))
	}
	return header.String(), header.hits
}

func (model *Model) computeHeaderHits() {
	_, model.headerHits = model.renderHeader()
}

// refreshLog re-renders the log pane, following the newest entry
// when entries were appended.
func (model *Model) refreshLog() {
	log := model.state.Log()
	appended := log.Appended()

	var lines []string
	timeStyle := lipgloss.NewStyle().Foreground(model.theme.FaintText)
	for _, entry := range log.Entries() {
		level := panel.LevelName(entry.Level)
		levelStyle := lipgloss.NewStyle().Foreground(model.theme.LevelColor(level))
		line := timeStyle.Render(entry.Time.Format("15:04:05")) + " " +
			levelStyle.Render(fmt.Sprintf("%-7s", level)) + " " +
			lipgloss.NewStyle().Foreground(model.theme.NormalText).Render(entry.Message)
		lines = append(lines, tui.Truncate(line, max(1, model.width)))
	}
	model.logPane.SetContent(strings.Join(lines, "\n"))
	if appended != model.logSeen {
		model.logSeen = appended
		model.logPane.GotoBottom()
	}
}

func (model Model) renderHelp() string {
	style := lipgloss.NewStyle().Foreground(model.theme.HelpText)
	help := " j/k move"
	if control, ok := model.focusedControl(); ok {
		if control.Servo != nil {
			help += "  ←/→ 1%  S-←/→ 0.1%  0/9 off/full  -/+ nudge"
		} else {
			help += "  r recall  s save"
			if model.state.ConfigMode() {
				help += "  e edit"
			}
		}
	}
	help += "  c config  X all off  / jump  q quit"
	return style.Render(tui.Truncate(help, max(1, model.width)))
}

// View implements tea.Model.
func (model Model) View() string {
	if !model.ready {
		return "Loading..."
	}

	header, _ := model.renderHeader()
	separator := lipgloss.NewStyle().
		Foreground(model.theme.BorderColor).
		Render(strings.Repeat("─", model.width))

	scrollbar := tui.RenderScrollbar(model.theme, model.body.Height,
		model.body.TotalLineCount(), model.body.Height, model.body.YOffset, false)
	body := lipgloss.JoinHorizontal(lipgloss.Top, model.body.View(), scrollbar)

	output := strings.Join([]string{
		header,
		body,
		separator,
		model.logPane.View(),
		model.renderHelp(),
	}, "\n")

	if model.picker != nil {
		lines := model.picker.Render(min(60, model.width))
		x, y := tui.CenterAnchor(lines, model.width, model.height)
		output = tui.SpliceOverlay(output, lines, x, y)
	}
	if model.modal != nil {
		lines, x, y := model.modal.Render(model.width, model.height)
		output = tui.SpliceOverlay(output, lines, x, y)
	}
	return output
}
