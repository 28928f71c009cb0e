// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package tui

import (
	"testing"
	"time"

	"github.com/bureau-foundation/servopanel/lib/clock"
)

func TestHeatDecay(t *testing.T) {
	t.Parallel()

	fake := clock.Fake(time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC))
	tracker := NewHeatTracker[int]()

	if heat := tracker.Heat(3, fake.Now()); heat != 0 {
		t.Fatalf("heat before ignition = %v", heat)
	}
	tracker.Ignite(3, fake.Now())
	if heat := tracker.Heat(3, fake.Now()); heat != 1 {
		t.Fatalf("heat at ignition = %v, want 1", heat)
	}

	fake.Advance(HeatDecayDuration / 2)
	if heat := tracker.Heat(3, fake.Now()); heat < 0.49 || heat > 0.51 {
		t.Errorf("heat at half decay = %v, want 0.5", heat)
	}
	if !tracker.HasHot(fake.Now()) {
		t.Error("HasHot() = false while decaying")
	}

	fake.Advance(HeatDecayDuration / 2)
	if heat := tracker.Heat(3, fake.Now()); heat != 0 {
		t.Errorf("heat after decay = %v", heat)
	}
	if tracker.HasHot(fake.Now()) {
		t.Error("HasHot() = true after decay")
	}
}

func TestHeatReignite(t *testing.T) {
	t.Parallel()

	start := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	tracker := NewHeatTracker[int]()
	tracker.Ignite(1, start)
	tracker.Ignite(1, start.Add(HeatDecayDuration-time.Millisecond))

	if heat := tracker.Heat(1, start.Add(HeatDecayDuration)); heat < 0.99 {
		t.Errorf("reignited heat = %v, want near 1", heat)
	}
}
