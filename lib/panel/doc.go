// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package panel is the controller behind the servo control panel,
// independent of how it is drawn.
//
// [State] holds what the panel shows: the static configuration, every
// servo's last reported position, the scene listing, the connection
// flag and the config-mode toggle. Push events reach it through
// [State.Apply], which is the only path by which servo positions
// change; commands never update positions optimistically.
//
// [Dispatcher] turns user gestures into backend requests. Each gesture
// issues at most one state-changing request. Failures are logged and
// returned, never retried. The interactive scene flows (save with
// overwrite confirmation, metadata edit) ask the user through a
// [Prompter] and stop without a request when the user backs out or
// when a locked scene is written outside config mode.
//
// The panel log is a [Log] capped at [LogCapacity] entries. Everything
// logged through a [LogHandler] lands there, including the extra
// [LevelSuccess] level used for confirmations.
package panel
