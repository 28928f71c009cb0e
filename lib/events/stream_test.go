// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package events

import (
	"context"
	"net"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/bureau-foundation/servopanel/lib/clock"
	"github.com/bureau-foundation/servopanel/lib/codec"
	"github.com/bureau-foundation/servopanel/lib/schema"
	"github.com/bureau-foundation/servopanel/lib/testutil"
)

const testTimeout = 5 * time.Second

var epoch = time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

// startStream runs stream until the test ends.
func startStream(t *testing.T, stream *Stream) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		stream.Run(ctx)
		close(done)
	}()
	t.Cleanup(func() {
		cancel()
		testutil.RequireClosed(t, done, testTimeout, "stream shutdown")
	})
}

func expectEvent(t *testing.T, stream *Stream, want schema.EventType) schema.Event {
	t.Helper()
	event := testutil.RequireReceive(t, stream.Events(), testTimeout, "waiting for %s", want)
	if event.Type != want {
		t.Fatalf("got event %q, want %q (%+v)", event.Type, want, event)
	}
	return event
}

func TestNewValidatesEndpoint(t *testing.T) {
	t.Parallel()

	for _, endpoint := range []string{"ws://host/events", "http:///api/events", "unix://", "::bad"} {
		if _, err := New(endpoint, Options{}); err == nil {
			t.Errorf("New(%q) succeeded, want error", endpoint)
		}
	}
	for _, endpoint := range []string{"http://localhost:5000/api/events", "unix:///run/servo.sock", "unix:servo.sock"} {
		if _, err := New(endpoint, Options{}); err != nil {
			t.Errorf("New(%q): %v", endpoint, err)
		}
	}
}

func TestSSEStreamDeliversEvents(t *testing.T) {
	t.Parallel()

	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/events", func(w http.ResponseWriter, r *http.Request) {
		if accept := r.Header.Get("Accept"); accept != "text/event-stream" {
			t.Errorf("Accept = %q", accept)
		}
		w.Header().Set("Content-Type", "text/event-stream")
		WriteSSE(w, "status_update", []byte(`{"0": 1984, "1": 0}`))
		WriteSSE(w, "servo_update", []byte(`{"servo_id": 1, "position": 7232}`))
		WriteSSE(w, "firmware_progress", []byte(`{}`))
		WriteSSE(w, "connect", []byte(`{}`))
		WriteSSE(w, "servo_update", []byte(`not json`))
		WriteSSE(w, "all_servos_off", []byte(`{}`))
		WriteSSE(w, "scene_recalled", []byte(`{"scene_id": 3, "positions": {"0": 1984, "1": 7232}}`))
		WriteSSE(w, "error", []byte(`{"message": "controller offline"}`))
	})
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	stream, err := New(server.URL+"/api/events", Options{Clock: clock.Fake(epoch)})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	startStream(t, stream)

	expectEvent(t, stream, schema.EventConnect)
	status := expectEvent(t, stream, schema.EventStatusUpdate)
	if len(status.Positions) != 2 || status.Positions[0] != 1984 {
		t.Errorf("status positions = %v", status.Positions)
	}
	update := expectEvent(t, stream, schema.EventServoUpdate)
	if update.ServoID != 1 || update.Position != 7232 {
		t.Errorf("servo_update = %+v", update)
	}
	expectEvent(t, stream, schema.EventAllServosOff)
	recalled := expectEvent(t, stream, schema.EventSceneRecalled)
	if recalled.SceneID != 3 || recalled.Positions[1] != 7232 {
		t.Errorf("scene_recalled = %+v", recalled)
	}
	serverError := expectEvent(t, stream, schema.EventError)
	if serverError.Message != "controller offline" {
		t.Errorf("error message = %q", serverError.Message)
	}
	expectEvent(t, stream, schema.EventDisconnect)
	if stream.Connected() {
		t.Error("Connected() = true after disconnect")
	}
}

func TestSSEStreamReconnectsWithBackoff(t *testing.T) {
	t.Parallel()

	var attempts atomic.Int32
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/events", func(w http.ResponseWriter, r *http.Request) {
		if attempts.Add(1) <= 2 {
			http.Error(w, "warming up", http.StatusServiceUnavailable)
			return
		}
		w.Header().Set("Content-Type", "text/event-stream")
		w.WriteHeader(http.StatusOK)
		http.NewResponseController(w).Flush()
		<-r.Context().Done()
	})
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	fake := clock.Fake(epoch)
	stream, err := New(server.URL+"/api/events", Options{Clock: fake})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	startStream(t, stream)

	// First failure waits 1s.
	fake.WaitForWaiters(1)
	fake.Advance(time.Second)

	// Second failure waits 2s.
	fake.WaitForWaiters(1)
	fake.Advance(time.Second)
	if fake.Pending() != 1 {
		t.Fatalf("backoff fired after 1s on the second attempt")
	}
	select {
	case event := <-stream.Events():
		t.Fatalf("event %q delivered before any connection succeeded", event.Type)
	default:
	}
	fake.Advance(time.Second)

	expectEvent(t, stream, schema.EventConnect)
	if !stream.Connected() {
		t.Error("Connected() = false after connect")
	}
	if got := attempts.Load(); got != 3 {
		t.Errorf("attempts = %d, want 3", got)
	}
}

func TestStreamClosesEventsOnCancel(t *testing.T) {
	t.Parallel()

	stream, err := New("unix:///nonexistent/servopanel.sock", Options{Clock: clock.Fake(epoch)})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	go stream.Run(ctx)
	cancel()

	for {
		select {
		case _, ok := <-stream.Events():
			if !ok {
				return
			}
		case <-time.After(testTimeout):
			t.Fatal("Events() not closed after cancel")
		}
	}
}

func TestSocketStreamDecodesFrames(t *testing.T) {
	t.Parallel()

	socketPath := filepath.Join(testutil.SocketDir(t), "events.sock")
	listener, err := net.Listen("unix", socketPath)
	if err != nil {
		t.Fatalf("Listen: %v", err)
	}
	t.Cleanup(func() { listener.Close() })

	go func() {
		conn, err := listener.Accept()
		if err != nil {
			return
		}
		defer conn.Close()
		encoder := codec.NewEncoder(conn)
		frames := []schema.Event{
			{Type: schema.EventServoUpdate, ServoID: 0, Position: 1984},
			{Type: "calibration_started"},
			{Type: schema.EventSceneRecalled, SceneID: 2, Positions: schema.Positions{0: 1984, 1: 7232}},
			{Type: schema.EventStatusUpdate, Positions: schema.Positions{4: 4608}},
		}
		for _, frame := range frames {
			if err := encoder.Encode(frame); err != nil {
				t.Errorf("Encode: %v", err)
				return
			}
		}
	}()

	stream, err := New("unix://"+socketPath, Options{Clock: clock.Fake(epoch)})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	startStream(t, stream)

	expectEvent(t, stream, schema.EventConnect)
	update := expectEvent(t, stream, schema.EventServoUpdate)
	if update.ServoID != 0 || update.Position != 1984 {
		t.Errorf("servo_update = %+v", update)
	}
	recalled := expectEvent(t, stream, schema.EventSceneRecalled)
	if recalled.SceneID != 2 || recalled.Positions[0] != 1984 || recalled.Positions[1] != 7232 {
		t.Errorf("scene_recalled = %+v", recalled)
	}
	status := expectEvent(t, stream, schema.EventStatusUpdate)
	if status.Positions[4] != 4608 {
		t.Errorf("status_update = %+v", status)
	}
	expectEvent(t, stream, schema.EventDisconnect)
}

func TestSocketStreamDropsConnectionOnMistypedFrame(t *testing.T) {
	t.Parallel()

	socketPath := filepath.Join(testutil.SocketDir(t), "events.sock")
	listener, err := net.Listen("unix", socketPath)
	if err != nil {
		t.Fatalf("Listen: %v", err)
	}
	t.Cleanup(func() { listener.Close() })

	accepted := make(chan net.Conn, 1)
	go func() {
		conn, err := listener.Accept()
		if err != nil {
			return
		}
		accepted <- conn
		encoder := codec.NewEncoder(conn)
		if err := encoder.Encode(map[string]any{"type": "servo_update", "servo_id": "two"}); err != nil {
			t.Errorf("Encode: %v", err)
		}
	}()

	stream, err := New("unix://"+socketPath, Options{Clock: clock.Fake(epoch)})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	startStream(t, stream)

	expectEvent(t, stream, schema.EventConnect)
	expectEvent(t, stream, schema.EventDisconnect)
	conn := testutil.RequireReceive(t, accepted, testTimeout, "accepted connection")
	conn.Close()
}
