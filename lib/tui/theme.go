// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package tui

import (
	"github.com/charmbracelet/lipgloss"
)

// Theme defines the color palette of the panel. All colors are ANSI
// 256-color codes; lipgloss degrades them on terminals with fewer
// colors and drops them entirely under NO_COLOR.
type Theme struct {
	// Text colors.
	NormalText lipgloss.Color
	FaintText  lipgloss.Color

	// Focused control row.
	SelectedBackground lipgloss.Color
	SelectedForeground lipgloss.Color

	// UI chrome.
	HeaderForeground lipgloss.Color
	BorderColor      lipgloss.Color
	HelpText         lipgloss.Color

	// Log levels.
	LevelInfo    lipgloss.Color
	LevelSuccess lipgloss.Color
	LevelWarn    lipgloss.Color
	LevelError   lipgloss.Color

	// Connection indicator and config-mode banner.
	Connected    lipgloss.Color
	Disconnected lipgloss.Color
	ConfigMode   lipgloss.Color

	// Scene lock marker.
	Locked lipgloss.Color

	// Indicators: the filled and empty parts of bars and gates.
	IndicatorFill  lipgloss.Color
	IndicatorTrack lipgloss.Color

	// HotAccent tints servos recently moved by the backend.
	HotAccent lipgloss.Color

	// Fuzzy match highlighting in the jump picker.
	MatchForeground lipgloss.Color

	// Modal dialogs and the jump picker.
	ModalForeground lipgloss.Color
	ModalBackground lipgloss.Color
}

// LevelColor returns the color for a panel log level name ("info",
// "success", "warn", "error"). Unknown names return FaintText.
func (theme Theme) LevelColor(level string) lipgloss.Color {
	switch level {
	case "info":
		return theme.LevelInfo
	case "success":
		return theme.LevelSuccess
	case "warn":
		return theme.LevelWarn
	case "error":
		return theme.LevelError
	default:
		return theme.FaintText
	}
}

// DefaultTheme is the built-in scheme for dark 256-color terminals.
var DefaultTheme = Theme{
	NormalText: lipgloss.Color("252"),
	FaintText:  lipgloss.Color("245"),

	SelectedBackground: lipgloss.Color("236"),
	SelectedForeground: lipgloss.Color("255"),

	HeaderForeground: lipgloss.Color("255"),
	BorderColor:      lipgloss.Color("240"),
	HelpText:         lipgloss.Color("241"),

	LevelInfo:    lipgloss.Color("75"),  // blue
	LevelSuccess: lipgloss.Color("114"), // green
	LevelWarn:    lipgloss.Color("220"), // amber
	LevelError:   lipgloss.Color("196"), // red

	Connected:    lipgloss.Color("114"),
	Disconnected: lipgloss.Color("196"),
	ConfigMode:   lipgloss.Color("208"), // orange

	Locked: lipgloss.Color("220"),

	IndicatorFill:  lipgloss.Color("75"),
	IndicatorTrack: lipgloss.Color("238"),

	HotAccent: lipgloss.Color("58"), // dark amber background tint

	MatchForeground: lipgloss.Color("220"),

	ModalForeground: lipgloss.Color("252"),
	ModalBackground: lipgloss.Color("237"),
}
