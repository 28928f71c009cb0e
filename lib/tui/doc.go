// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package tui provides terminal components shared by the servopanel
// views: the color theme, modal dialogs, the jump picker with fuzzy
// matching, change-highlight animation, scrollbars and ANSI-aware
// overlay splicing.
//
// Components are plain values updated by the owning bubbletea model.
// They never issue commands themselves; the model decides what a
// submitted dialog or picked option means.
package tui
