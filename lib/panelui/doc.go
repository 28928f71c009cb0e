// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package panelui is the terminal rendition of the servo control
// panel, built on bubbletea.
//
// The Model renders one control block per servo and per scene slot,
// built once from the panel configuration. Push events arrive on a
// channel and are applied to the shared panel.State on the bubbletea
// event loop, one at a time. Gestures run through panel.Dispatcher as
// commands off the loop, so a slow backend never blocks input. The
// dispatcher's interactive questions come back to the loop through a
// Prompter and are shown as modal overlays.
//
// Keyboard: j/k or arrows move focus between controls; on a servo,
// left/right move the slider by 1% (shift for 0.1%) and -/+ nudge; on
// a scene, enter or r recalls, s saves and e edits (config mode
// only). c toggles config mode, X turns every servo off, / opens the
// jump picker and q quits. Every control is also clickable.
package panelui
