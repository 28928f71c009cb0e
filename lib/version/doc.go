// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package version reports the build of the servopanel binaries.
//
// [GitCommit], [GitDirty], [BuildTime] and [Version] are injected with
// -ldflags -X and default to "unknown" / "0.1.0-dev" in development
// builds and tests:
//
//	go build -ldflags "-X github.com/bureau-foundation/servopanel/lib/version.GitCommit=$(git rev-parse --short HEAD)"
//
// [Info] is the --version line, [Full] adds the Go toolchain and
// platform, and [UserAgent] is sent on every backend request.
package version
