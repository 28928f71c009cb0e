// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package panelui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/bureau-foundation/servopanel/lib/servo"
)

// wheelLines is how far one wheel notch scrolls a pane.
const wheelLines = 3

// lineSpan is the half-open range of body lines a control occupies.
type lineSpan struct {
	start int
	end   int
}

type hitAction int

const (
	hitNudgeMinus hitAction = iota + 1
	hitNudgePlus
	hitSlider
	hitRecall
	hitSave
	hitEdit
	hitConfigMode
	hitAllOff
)

// hitRegion is a clickable run of columns [x0, x1) on one line.
// control is a focus position, or -1 for header actions.
type hitRegion struct {
	line    int
	x0      int
	x1      int
	control int
	action  hitAction
}

func findHit(regions []hitRegion, line, x int) (hitRegion, bool) {
	for _, region := range regions {
		if region.line == line && x >= region.x0 && x < region.x1 {
			return region, true
		}
	}
	return hitRegion{}, false
}

// handleMouse scrolls the pane under the wheel and activates what a
// left click lands on. Mouse input is ignored while a dialog or the
// picker is open.
func (model *Model) handleMouse(message tea.MouseMsg) tea.Cmd {
	if model.modal != nil || model.picker != nil {
		return nil
	}

	bodyTop := 1
	bodyBottom := bodyTop + model.body.Height
	logTop := bodyBottom + 1
	logBottom := logTop + model.logPane.Height
	inBody := message.Y >= bodyTop && message.Y < bodyBottom
	inLog := message.Y >= logTop && message.Y < logBottom

	switch message.Button {
	case tea.MouseButtonWheelUp:
		if inBody {
			model.body.LineUp(wheelLines)
		} else if inLog {
			model.logPane.LineUp(wheelLines)
		}
		return nil

	case tea.MouseButtonWheelDown:
		if inBody {
			model.body.LineDown(wheelLines)
		} else if inLog {
			model.logPane.LineDown(wheelLines)
		}
		return nil

	case tea.MouseButtonLeft:
		if message.Action != tea.MouseActionPress {
			return nil
		}
		if message.Y == 0 {
			if region, ok := findHit(model.headerHits, 0, message.X); ok {
				return model.activate(region, message.X)
			}
			return nil
		}
		if !inBody {
			return nil
		}
		line := message.Y - bodyTop + model.body.YOffset
		if region, ok := findHit(model.bodyHits, line, message.X); ok {
			return model.activate(region, message.X)
		}
		for position, span := range model.controlLines {
			if line >= span.start && line < span.end {
				model.setFocus(position)
				break
			}
		}
	}
	return nil
}

// activate performs the action of a clicked region. Clicking a
// control's button also focuses the control.
func (model *Model) activate(region hitRegion, x int) tea.Cmd {
	switch region.action {
	case hitConfigMode:
		model.dispatcher.ToggleConfigMode(model.ctx)
		model.refreshBody()
		return nil
	case hitAllOff:
		dispatcher, ctx := model.dispatcher, model.ctx
		return func() tea.Msg { return actionDoneMsg{err: dispatcher.AllOff(ctx)} }
	}

	controls := model.registry.Controls()
	if region.control < 0 || region.control >= len(controls) {
		return nil
	}
	model.setFocus(region.control)
	control := controls[region.control]

	switch region.action {
	case hitNudgeMinus:
		return control.Servo.Nudge(servo.Minus)
	case hitNudgePlus:
		return control.Servo.Nudge(servo.Plus)
	case hitSlider:
		return model.moveSlider(control.Servo, sliderPercentage(x-region.x0, region.x1-region.x0))
	case hitRecall:
		return control.Scene.Recall()
	case hitSave:
		return control.Scene.Save()
	case hitEdit:
		if !model.state.ConfigMode() {
			return nil
		}
		return control.Scene.Edit()
	}
	return nil
}
