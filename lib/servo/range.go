// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package servo

import (
	"fmt"
	"math"
	"strconv"
)

// OffPosition is the position a backend reports for a de-energized
// servo and the position sent by "all off".
const OffPosition = 0

// Default bounds of the backend's native position range, in quarter
// microseconds (1984 = 496µs, 7232 = 1808µs).
const (
	DefaultMinPosition = 1984
	DefaultMaxPosition = 7232
)

// DefaultNudgeStep is how far one nudge moves a servo, in position
// units (128 = 32µs).
const DefaultNudgeStep = 128

// Range is the inclusive native position range a servo moves through.
// The zero Range is not valid; use [DefaultRange] or construct one and
// call [Range.Validate].
type Range struct {
	Min int `yaml:"min" json:"min"`
	Max int `yaml:"max" json:"max"`
}

// DefaultRange returns the range observed on the reference hardware.
func DefaultRange() Range {
	return Range{Min: DefaultMinPosition, Max: DefaultMaxPosition}
}

// Validate checks 0 < Min < Max. Min must stay above the off-sentinel
// so that position 0 is never inside the linear range.
func (r Range) Validate() error {
	if r.Min <= OffPosition {
		return fmt.Errorf("position range min %d must be greater than %d", r.Min, OffPosition)
	}
	if r.Max <= r.Min {
		return fmt.Errorf("position range max %d must be greater than min %d", r.Max, r.Min)
	}
	return nil
}

// Span returns Max - Min.
func (r Range) Span() int {
	return r.Max - r.Min
}

// Contains reports whether position lies inside [Min, Max].
func (r Range) Contains(position int) bool {
	return position >= r.Min && position <= r.Max
}

// Clamp limits a non-off position to [Min, Max]. The off-sentinel is
// returned unchanged.
func (r Range) Clamp(position int) int {
	if position == OffPosition {
		return OffPosition
	}
	return min(max(position, r.Min), r.Max)
}

// PositionToPercentage converts a native position to a percentage in
// [0, 100] rounded to one decimal place. Position 0 returns exactly 0;
// positions below Min or above Max clamp to 0 and 100.
func (r Range) PositionToPercentage(position int) float64 {
	if position == OffPosition {
		return 0
	}
	percentage := float64(position-r.Min) / float64(r.Span()) * 100
	percentage = math.Round(percentage*10) / 10
	return math.Max(0, math.Min(100, percentage))
}

// PercentageToPosition converts a percentage to a native position
// rounded to the nearest integer. Percentages at or below 0 (and NaN)
// return the off-sentinel; anything above 100 clamps to Max.
func (r Range) PercentageToPosition(percentage float64) int {
	if math.IsNaN(percentage) || percentage <= 0 {
		return OffPosition
	}
	position := float64(r.Min) + percentage/100*float64(r.Span())
	position = math.Max(float64(r.Min), math.Min(float64(r.Max), position))
	return int(math.Round(position))
}

// FormatPercentage renders a percentage the way the panel shows it:
// no trailing zeros, so 50 prints as "50" and 12.5 as "12.5".
func FormatPercentage(percentage float64) string {
	return strconv.FormatFloat(math.Round(percentage*10)/10, 'f', -1, 64) + "%"
}
