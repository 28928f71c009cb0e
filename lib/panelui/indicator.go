// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package panelui

import (
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/bureau-foundation/servopanel/lib/schema"
	"github.com/bureau-foundation/servopanel/lib/servo"
	"github.com/bureau-foundation/servopanel/lib/tui"
)

// Indicator sizes, in cells.
const (
	barWidth      = 32
	gateLongSide  = 16
	gateShortMin  = 2
	gateMaxRows   = 6
	sliderMinSize = 10
	sliderMaxSize = 48
)

// partialBlocks are the left-aligned eighth blocks, index = eighths.
var partialBlocks = []string{"", "▏", "▎", "▍", "▌", "▋", "▊", "▉"}

// renderBar draws a horizontal fill proportional to percentage, with
// eighth-cell resolution.
func renderBar(theme tui.Theme, percentage float64, width int) string {
	eighths := int(math.Round(clampPercentage(percentage) / 100 * float64(width*8)))
	full, remainder := eighths/8, eighths%8

	filled := strings.Repeat("█", full) + partialBlocks[remainder]
	empty := width - full
	if remainder > 0 {
		empty--
	}
	fill := lipgloss.NewStyle().Foreground(theme.IndicatorFill)
	track := lipgloss.NewStyle().Foreground(theme.IndicatorTrack)
	return fill.Render(filled) + track.Render(strings.Repeat("░", max(0, empty)))
}

// gateSize returns the box interior for a gate, keeping its aspect
// ratio with terminal cells counted as twice as tall as wide.
func gateSize(gate schema.GateDimensions) (columns, rows int) {
	aspect := gate.AspectRatio()
	if aspect >= 1 {
		columns = gateLongSide
		rows = int(math.Round(float64(columns) / aspect / 2))
		return columns, min(max(rows, 1), gateMaxRows)
	}
	rows = gateMaxRows
	columns = int(math.Round(float64(rows) * 2 * aspect))
	return min(max(columns, gateShortMin), gateLongSide), rows
}

// renderGate draws the gate as a box whose open portion is
// proportional to percentage. Wide gates open left to right, tall
// gates bottom to top. The last line is the dimensions label.
func renderGate(theme tui.Theme, percentage float64, gate schema.GateDimensions) []string {
	columns, rows := gateSize(gate)
	fraction := clampPercentage(percentage) / 100

	open := lipgloss.NewStyle().Foreground(theme.IndicatorFill)
	closed := lipgloss.NewStyle().Foreground(theme.IndicatorTrack)
	border := lipgloss.NewStyle().Foreground(theme.BorderColor)

	lines := []string{border.Render("┌" + strings.Repeat("─", columns) + "┐")}
	if columns >= rows*2 {
		openColumns := int(math.Round(fraction * float64(columns)))
		row := open.Render(strings.Repeat("█", openColumns)) +
			closed.Render(strings.Repeat("▒", columns-openColumns))
		for range rows {
			lines = append(lines, border.Render("│")+row+border.Render("│"))
		}
	} else {
		openRows := int(math.Round(fraction * float64(rows)))
		for row := range rows {
			cells := closed.Render(strings.Repeat("▒", columns))
			if row >= rows-openRows {
				cells = open.Render(strings.Repeat("█", columns))
			}
			lines = append(lines, border.Render("│")+cells+border.Render("│"))
		}
	}
	lines = append(lines,
		border.Render("└"+strings.Repeat("─", columns)+"┘"),
		lipgloss.NewStyle().Foreground(theme.FaintText).Render(gate.Label()),
	)
	return lines
}

// renderLargePercentage draws the percentage readout of the
// "percentage" style.
func renderLargePercentage(theme tui.Theme, percentage float64) string {
	return lipgloss.NewStyle().
		Bold(true).
		Foreground(theme.HeaderForeground).
		Background(theme.SelectedBackground).
		Padding(0, 2).
		Render(servo.FormatPercentage(percentage))
}

// indicatorLines returns the indicator lines of one servo for style.
func indicatorLines(theme tui.Theme, style schema.DisplayStyle, percentage float64, gate schema.GateDimensions) []string {
	var lines []string
	if style.Shows(schema.DisplayBar) {
		lines = append(lines, renderBar(theme, percentage, barWidth))
	}
	if style.Shows(schema.DisplayRectangle) {
		lines = append(lines, renderGate(theme, percentage, gate)...)
	}
	if style.Shows(schema.DisplayPercentage) {
		lines = append(lines, renderLargePercentage(theme, percentage))
	}
	return lines
}

// renderSlider draws a slider track of width cells with the handle at
// percentage.
func renderSlider(theme tui.Theme, percentage float64, width int, focused bool) string {
	handle := sliderHandle(percentage, width)
	filled := lipgloss.NewStyle().Foreground(theme.IndicatorFill)
	rest := lipgloss.NewStyle().Foreground(theme.IndicatorTrack)
	knob := lipgloss.NewStyle().Foreground(theme.NormalText)
	if focused {
		knob = knob.Foreground(theme.SelectedForeground).Bold(true)
	}
	return filled.Render(strings.Repeat("━", handle)) +
		knob.Render("●") +
		rest.Render(strings.Repeat("─", width-handle-1))
}

// sliderHandle returns the handle cell for percentage on a track of
// width cells.
func sliderHandle(percentage float64, width int) int {
	if width <= 1 {
		return 0
	}
	return int(math.Round(clampPercentage(percentage) / 100 * float64(width-1)))
}

// sliderPercentage is the inverse of sliderHandle for a click at cell,
// rounded to 0.1.
func sliderPercentage(cell, width int) float64 {
	if width <= 1 {
		return 0
	}
	percentage := float64(min(max(cell, 0), width-1)) / float64(width-1) * 100
	return math.Round(percentage*10) / 10
}

// sliderWidth sizes the slider track for a terminal width.
func sliderWidth(screenWidth int) int {
	return min(max(screenWidth-36, sliderMinSize), sliderMaxSize)
}

func clampPercentage(percentage float64) float64 {
	if math.IsNaN(percentage) {
		return 0
	}
	return math.Max(0, math.Min(100, percentage))
}
