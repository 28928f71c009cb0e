// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package cli is the command framework of the servopanel binaries: a
// tree of [Command]s with pflag flag sets, structured help, typo
// suggestions for commands and flags, categorized errors
// ([ToolError]) and exit codes ([ExitError]).
package cli
