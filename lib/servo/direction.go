// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package servo

import "fmt"

// Direction is the sense of a nudge. The string values are the wire
// values of the nudge request.
type Direction string

const (
	// Plus moves the servo one step toward Max.
	Plus Direction = "plus"
	// Minus moves the servo one step toward Min.
	Minus Direction = "minus"
)

// ParseDirection accepts "plus"/"minus" and the "+"/"-" shorthands.
func ParseDirection(value string) (Direction, error) {
	switch value {
	case "plus", "+":
		return Plus, nil
	case "minus", "-":
		return Minus, nil
	default:
		return "", fmt.Errorf("invalid nudge direction %q (want plus or minus)", value)
	}
}

// Step returns the signed position delta of one nudge in this
// direction.
func (d Direction) Step(size int) int {
	if d == Minus {
		return -size
	}
	return size
}
