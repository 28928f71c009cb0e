// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package clock provides the time source used by the panel's
// reconnect loop and highlight animation.
//
// Code that waits takes a [Clock] instead of calling time.Now or
// time.After directly. Production passes [Real]; tests pass [Fake] and
// move time with [FakeClock.Advance]:
//
//	c := clock.Fake(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))
//	go stream.Run(ctx) // waits on c.After between reconnects
//	c.WaitForWaiters(1)
//	c.Advance(time.Second)
//
// WaitForWaiters closes the race between a goroutine registering its
// wait and the test advancing past it.
package clock
