// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
)

// SpliceOverlay draws overlay lines over view with the top-left corner
// at column x, row y. Escape sequences in the covered view text are
// kept intact on both sides of the overlay. Overlay rows that fall
// outside the view are dropped.
func SpliceOverlay(view string, overlay []string, x, y int) string {
	if len(overlay) == 0 {
		return view
	}

	rows := strings.Split(view, "\n")
	for offset, overlayRow := range overlay {
		row := y + offset
		if row < 0 || row >= len(rows) {
			continue
		}

		underlying := rows[row]
		underlyingWidth := ansi.StringWidth(underlying)

		var builder strings.Builder
		if x > 0 {
			left := ansi.Truncate(underlying, x, "")
			builder.WriteString(left)
			if pad := x - ansi.StringWidth(left); pad > 0 {
				builder.WriteString(strings.Repeat(" ", pad))
			}
		}
		builder.WriteString("\x1b[0m")
		builder.WriteString(overlayRow)
		builder.WriteString("\x1b[0m")

		if right := x + ansi.StringWidth(overlayRow); right < underlyingWidth {
			builder.WriteString(ansi.TruncateLeft(underlying, right, ""))
		}
		rows[row] = builder.String()
	}
	return strings.Join(rows, "\n")
}

// CenterAnchor returns the top-left corner that centers a block of
// lines on a width×height screen, never negative.
func CenterAnchor(lines []string, width, height int) (x, y int) {
	blockWidth := 0
	if len(lines) > 0 {
		blockWidth = ansi.StringWidth(lines[0])
	}
	return max(0, (width-blockWidth)/2), max(0, (height-len(lines))/2)
}

// PadLine pads styled content with background-styled spaces to width
// columns, truncating with an ellipsis when it is wider.
func PadLine(content string, width int, background lipgloss.Style) string {
	if width <= 0 {
		return ""
	}
	contentWidth := ansi.StringWidth(content)
	if contentWidth > width {
		return ansi.Truncate(content, width, "…")
	}
	return content + background.Render(strings.Repeat(" ", width-contentWidth))
}

// Truncate shortens plain or styled text to width columns, ending with
// an ellipsis when anything was cut.
func Truncate(text string, width int) string {
	if width <= 0 {
		return ""
	}
	if ansi.StringWidth(text) <= width {
		return text
	}
	return ansi.Truncate(text, width, "…")
}
