// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package tui

import (
	"slices"
	"strings"

	"github.com/junegunn/fzf/src/algo"
	"github.com/junegunn/fzf/src/util"
)

// FuzzyResult is the outcome of matching one label against a pattern.
type FuzzyResult struct {
	Matched bool
	Score   int

	// Positions are the matched rune indices in ascending order.
	Positions []int
}

// NewSlab allocates the scratch memory FuzzyMatch reuses between
// calls. A slab must not be shared between goroutines.
func NewSlab() *util.Slab {
	return util.MakeSlab(100*1024, 2048)
}

// FuzzyMatch matches text against pattern with fzf's scoring, case
// insensitively. An empty pattern matches everything with score 0.
func FuzzyMatch(text string, pattern []rune, slab *util.Slab) FuzzyResult {
	if len(pattern) == 0 {
		return FuzzyResult{Matched: true}
	}
	chars := util.ToChars([]byte(text))
	result, positions := algo.FuzzyMatchV2(false, true, true, &chars, pattern, true, slab)
	if result.Start < 0 {
		return FuzzyResult{}
	}
	match := FuzzyResult{Matched: true, Score: result.Score}
	if positions != nil {
		match.Positions = slices.Clone(*positions)
		slices.Sort(match.Positions)
	}
	return match
}

// FuzzyPattern prepares a typed query for FuzzyMatch.
func FuzzyPattern(query string) []rune {
	return []rune(strings.ToLower(strings.TrimSpace(query)))
}
