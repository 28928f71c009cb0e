// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package testutil

import (
	"fmt"
	"strings"
	"testing"
	"time"
)

// recordingTB captures Fatalf instead of stopping the test.
type recordingTB struct {
	message string
}

func (r *recordingTB) Helper() {}

func (r *recordingTB) Fatalf(format string, args ...any) {
	r.message = fmt.Sprintf(format, args...)
	panic(r)
}

func capture(fn func(t TB)) (message string) {
	recorder := &recordingTB{}
	defer func() {
		if recovered := recover(); recovered != nil && recovered != recorder {
			panic(recovered)
		}
		message = recorder.message
	}()
	fn(recorder)
	return ""
}

func TestRequireReceive(t *testing.T) {
	t.Parallel()

	ch := make(chan int, 1)
	ch <- 7
	if got := RequireReceive(t, (<-chan int)(ch), time.Second, "value"); got != 7 {
		t.Errorf("RequireReceive = %d, want 7", got)
	}

	message := capture(func(tb TB) {
		RequireReceive(tb, (<-chan int)(make(chan int)), 10*time.Millisecond, "waiting for %s", "nothing")
	})
	if !strings.Contains(message, "timed out") || !strings.Contains(message, "waiting for nothing") {
		t.Errorf("timeout message = %q", message)
	}

	closed := make(chan int)
	close(closed)
	message = capture(func(tb TB) {
		RequireReceive(tb, (<-chan int)(closed), time.Second)
	})
	if !strings.Contains(message, "channel closed") {
		t.Errorf("closed-channel message = %q", message)
	}
}

func TestRequireClosed(t *testing.T) {
	t.Parallel()

	done := make(chan struct{})
	close(done)
	RequireClosed(t, done, time.Second, "done")

	message := capture(func(tb TB) {
		RequireClosed(tb, make(chan struct{}), 10*time.Millisecond)
	})
	if !strings.Contains(message, "(no message)") {
		t.Errorf("message = %q", message)
	}
}
