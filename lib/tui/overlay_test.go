// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package tui

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
)

func TestSpliceOverlay(t *testing.T) {
	t.Parallel()

	view := strings.Join([]string{
		"0123456789",
		"abcdefghij",
		"ABCDEFGHIJ",
	}, "\n")

	result := SpliceOverlay(view, []string{"XX", "YY"}, 3, 1)
	lines := strings.Split(result, "\n")
	want := []string{"0123456789", "abcXXfghij", "ABCYYFGHIJ"}
	for index, line := range lines {
		if got := ansi.Strip(line); got != want[index] {
			t.Errorf("line %d = %q, want %q", index, got, want[index])
		}
	}
}

func TestSpliceOverlayClipsAndPads(t *testing.T) {
	t.Parallel()

	result := SpliceOverlay("ab\ncd", []string{"ZZ", "ZZ", "ZZ"}, 4, 1)
	lines := strings.Split(result, "\n")
	if len(lines) != 2 {
		t.Fatalf("overlay added rows: %q", lines)
	}
	if got := ansi.Strip(lines[1]); got != "cd  ZZ" {
		t.Errorf("line 1 = %q, want %q", got, "cd  ZZ")
	}
}

func TestSpliceOverlayKeepsStyles(t *testing.T) {
	t.Parallel()

	red := lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	view := red.Render("left") + " middle " + red.Render("right")
	result := SpliceOverlay(view, []string{"##"}, 5, 0)
	if got := ansi.Strip(result); got != "left ##ddle right" {
		t.Errorf("stripped = %q", got)
	}
}

func TestCenterAnchor(t *testing.T) {
	t.Parallel()

	x, y := CenterAnchor([]string{"1234", "1234"}, 10, 6)
	if x != 3 || y != 2 {
		t.Errorf("anchor = (%d, %d), want (3, 2)", x, y)
	}
	x, y = CenterAnchor([]string{"123456789012"}, 10, 0)
	if x != 0 || y != 0 {
		t.Errorf("oversized anchor = (%d, %d), want (0, 0)", x, y)
	}
}

func TestTruncate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		text  string
		width int
		want  string
	}{
		{"Living Room", 20, "Living Room"},
		{"Living Room", 6, "Livin…"},
		{"Living Room", 0, ""},
	}
	for _, test := range tests {
		if got := Truncate(test.text, test.width); got != test.want {
			t.Errorf("Truncate(%q, %d) = %q, want %q", test.text, test.width, got, test.want)
		}
	}
}

func TestPadLine(t *testing.T) {
	t.Parallel()

	line := PadLine("abc", 6, lipgloss.NewStyle())
	if ansi.StringWidth(line) != 6 {
		t.Errorf("width = %d, want 6", ansi.StringWidth(line))
	}
	if got := ansi.Strip(PadLine("abcdefgh", 4, lipgloss.NewStyle())); got != "abc…" {
		t.Errorf("overlong = %q", got)
	}
}

func TestRenderScrollbar(t *testing.T) {
	t.Parallel()

	rows := strings.Split(ansi.Strip(RenderScrollbar(DefaultTheme, 4, 8, 4, 4, false)), "\n")
	want := []string{"│", "│", "┃", "┃"}
	for index, row := range rows {
		if row != want[index] {
			t.Errorf("row %d = %q, want %q", index, row, want[index])
		}
	}
	if got := RenderScrollbar(DefaultTheme, 0, 8, 4, 0, false); got != "" {
		t.Errorf("zero height = %q", got)
	}
	full := ansi.Strip(RenderScrollbar(DefaultTheme, 3, 2, 4, 0, true))
	if full != "┃\n┃\n┃" {
		t.Errorf("fitting content = %q", full)
	}
}
