// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package panelui

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines the panel's key bindings.
type KeyMap struct {
	// Focus movement between controls.
	Up       key.Binding
	Down     key.Binding
	PageUp   key.Binding
	PageDown key.Binding
	Home     key.Binding
	End      key.Binding

	// Slider (focused servo).
	Increase     key.Binding // +1%
	Decrease     key.Binding // -1%
	FineIncrease key.Binding // +0.1%
	FineDecrease key.Binding // -0.1%
	Off          key.Binding // Slider to 0%.
	Full         key.Binding // Slider to 100%.

	// Nudge (focused servo).
	NudgePlus  key.Binding
	NudgeMinus key.Binding

	// Scene actions (focused scene).
	Recall key.Binding
	Save   key.Binding
	Edit   key.Binding

	// Global.
	ConfigMode key.Binding
	AllOff     key.Binding
	Jump       key.Binding
	Resync     key.Binding
	Quit       key.Binding
}

// DefaultKeyMap is the built-in key binding set: vim-style j/k next
// to arrows, and shifted arrows for fine slider steps.
var DefaultKeyMap = KeyMap{
	Up: key.NewBinding(
		key.WithKeys("k", "up"),
		key.WithHelp("k/↑", "up"),
	),
	Down: key.NewBinding(
		key.WithKeys("j", "down"),
		key.WithHelp("j/↓", "down"),
	),
	PageUp: key.NewBinding(
		key.WithKeys("ctrl+u", "pgup"),
		key.WithHelp("C-u", "page up"),
	),
	PageDown: key.NewBinding(
		key.WithKeys("ctrl+d", "pgdown"),
		key.WithHelp("C-d", "page down"),
	),
	Home: key.NewBinding(
		key.WithKeys("g"),
		key.WithHelp("g", "first"),
	),
	End: key.NewBinding(
		key.WithKeys("G"),
		key.WithHelp("G", "last"),
	),
	Increase: key.NewBinding(
		key.WithKeys("l", "right"),
		key.WithHelp("→", "+1%"),
	),
	Decrease: key.NewBinding(
		key.WithKeys("h", "left"),
		key.WithHelp("←", "-1%"),
	),
	FineIncrease: key.NewBinding(
		key.WithKeys("L", "shift+right"),
		key.WithHelp("S-→", "+0.1%"),
	),
	FineDecrease: key.NewBinding(
		key.WithKeys("H", "shift+left"),
		key.WithHelp("S-←", "-0.1%"),
	),
	Off: key.NewBinding(
		key.WithKeys("0", "home"),
		key.WithHelp("0", "off"),
	),
	Full: key.NewBinding(
		key.WithKeys("9", "end"),
		key.WithHelp("9", "100%"),
	),
	NudgePlus: key.NewBinding(
		key.WithKeys("+", "="),
		key.WithHelp("+", "nudge up"),
	),
	NudgeMinus: key.NewBinding(
		key.WithKeys("-", "_"),
		key.WithHelp("-", "nudge down"),
	),
	Recall: key.NewBinding(
		key.WithKeys("enter", "r"),
		key.WithHelp("r", "recall"),
	),
	Save: key.NewBinding(
		key.WithKeys("s"),
		key.WithHelp("s", "save"),
	),
	Edit: key.NewBinding(
		key.WithKeys("e"),
		key.WithHelp("e", "edit"),
	),
	ConfigMode: key.NewBinding(
		key.WithKeys("c"),
		key.WithHelp("c", "config mode"),
	),
	AllOff: key.NewBinding(
		key.WithKeys("X"),
		key.WithHelp("X", "all off"),
	),
	Jump: key.NewBinding(
		key.WithKeys("/"),
		key.WithHelp("/", "jump"),
	),
	Resync: key.NewBinding(
		key.WithKeys("ctrl+r"),
		key.WithHelp("C-r", "resync"),
	),
	Quit: key.NewBinding(
		key.WithKeys("q", "ctrl+c"),
		key.WithHelp("q", "quit"),
	),
}
