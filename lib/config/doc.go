// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package config loads the client settings for servopanel commands.
//
// Settings come from at most one file, named by the --config flag or
// the SERVOPANEL_CONFIG environment variable. There is no discovery and
// no merging of several files: what the file says, plus explicit flag
// overrides, is the whole configuration. Without a file the built-in
// defaults apply.
//
// Files ending in .yaml or .yml are parsed as YAML. Files ending in
// .json or .jsonc are parsed as JSON with comments and trailing commas
// allowed. The same field names are used in both.
package config
