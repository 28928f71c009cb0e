// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// RenderScrollbar produces a one-column scrollbar of height rows for
// content of total lines of which visible are shown starting at
// offset. When everything fits the thumb fills the track. The thumb
// is drawn in the accent color when focused.
func RenderScrollbar(theme Theme, height, total, visible, offset int, focused bool) string {
	if height <= 0 {
		return ""
	}

	thumbColor := theme.BorderColor
	if focused {
		thumbColor = theme.LevelInfo
	}
	track := lipgloss.NewStyle().Foreground(theme.BorderColor).Render("│")
	thumb := lipgloss.NewStyle().Foreground(thumbColor).Render("┃")

	thumbStart, thumbSize := 0, height
	if total > visible && total > 0 {
		thumbSize = max(1, height*visible/total)
		if scrollable, travel := total-visible, height-thumbSize; travel > 0 {
			thumbStart = min(offset*travel/scrollable, travel)
		}
	}

	rows := make([]string, height)
	for row := range rows {
		if row >= thumbStart && row < thumbStart+thumbSize {
			rows[row] = thumb
		} else {
			rows[row] = track
		}
	}
	return strings.Join(rows, "\n")
}
