// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package servo defines the servo coordinate system shared by the
// panel and the backend contract.
//
// Backends address servos in native integer units inside an inclusive
// [Range]. The panel shows the same position as a percentage in
// [0, 100]. Position 0 is the off-sentinel: it means the actuator is
// de-energized, sits outside the linear range, and maps to and from 0%
// directly rather than through interpolation. A valid Range therefore
// always has 0 < Min.
//
// The mapping rounds in both directions (one decimal place for
// percentages, nearest integer for positions), so a round trip may
// drift by at most 0.1 percent or 1 position unit, and never leaves
// the domain.
package servo
