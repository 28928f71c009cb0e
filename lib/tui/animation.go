// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package tui

import (
	"time"
)

// HeatDecayDuration is how long a control glows after a change.
// Heat starts at 1.0 and decays linearly to 0.0 over this duration.
const HeatDecayDuration = 2 * time.Second

// HeatTickInterval is the re-render interval while anything is hot.
const HeatTickInterval = 100 * time.Millisecond

// HeatTracker maps keys to ignition times for change highlighting.
// Each change "ignites" a key, which then decays from full intensity
// to zero over HeatDecayDuration. Times are passed in so the owner can
// drive the tracker from an injected clock.
type HeatTracker[K comparable] struct {
	ignitions map[K]time.Time
}

// NewHeatTracker creates an empty tracker.
func NewHeatTracker[K comparable]() *HeatTracker[K] {
	return &HeatTracker[K]{ignitions: make(map[K]time.Time)}
}

// Ignite records a change at now, restarting the decay if the key was
// already hot.
func (tracker *HeatTracker[K]) Ignite(key K, now time.Time) {
	tracker.ignitions[key] = now
}

// Heat returns the intensity for key at now: 1.0 at ignition, 0.0 once
// decayed or for keys never ignited.
func (tracker *HeatTracker[K]) Heat(key K, now time.Time) float64 {
	ignition, exists := tracker.ignitions[key]
	if !exists {
		return 0
	}
	elapsed := now.Sub(ignition)
	if elapsed >= HeatDecayDuration || elapsed < 0 {
		return 0
	}
	return 1 - float64(elapsed)/float64(HeatDecayDuration)
}

// HasHot reports whether any key still has heat at now, which means
// the tick timer should keep running. Decayed keys are dropped.
func (tracker *HeatTracker[K]) HasHot(now time.Time) bool {
	hot := false
	for key, ignition := range tracker.ignitions {
		if now.Sub(ignition) < HeatDecayDuration {
			hot = true
			continue
		}
		delete(tracker.ignitions, key)
	}
	return hot
}
