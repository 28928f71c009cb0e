// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package events

import (
	"bytes"
	"errors"
	"io"
	"strings"
	"testing"
)

func scanAll(t *testing.T, input string) []SSEEvent {
	t.Helper()
	scanner := NewSSEScanner(strings.NewReader(input))
	var events []SSEEvent
	for scanner.Next() {
		events = append(events, scanner.Event())
	}
	if err := scanner.Err(); err != nil {
		t.Fatalf("Err() = %v", err)
	}
	return events
}

func TestSSEScannerEvents(t *testing.T) {
	t.Parallel()

	input := "event: servo_update\ndata: {\"servo_id\":1,\"position\":2000}\n\n" +
		": keepalive\n\n" +
		"event: all_servos_off\ndata: {}\n\n"
	events := scanAll(t, input)
	if len(events) != 2 {
		t.Fatalf("got %d events, want 2: %+v", len(events), events)
	}
	if events[0].Name != "servo_update" || events[0].Data != `{"servo_id":1,"position":2000}` {
		t.Errorf("events[0] = %+v", events[0])
	}
	if events[1].Name != "all_servos_off" || events[1].Data != "{}" {
		t.Errorf("events[1] = %+v", events[1])
	}
}

func TestSSEScannerMultipleDataLines(t *testing.T) {
	t.Parallel()

	events := scanAll(t, "data: one\ndata:two\ndata:  three\n\n")
	if len(events) != 1 {
		t.Fatalf("got %d events, want 1", len(events))
	}
	if events[0].Data != "one\ntwo\n three" {
		t.Errorf("Data = %q", events[0].Data)
	}
	if events[0].Name != "" {
		t.Errorf("Name = %q, want default event", events[0].Name)
	}
}

func TestSSEScannerEventWithoutDataIsNotDispatched(t *testing.T) {
	t.Parallel()

	events := scanAll(t, "event: orphan\n\nevent: real\ndata: x\n\n")
	if len(events) != 1 || events[0].Name != "real" {
		t.Errorf("events = %+v, want only the event with data", events)
	}
}

func TestSSEScannerCRLFAndIgnoredFields(t *testing.T) {
	t.Parallel()

	events := scanAll(t, "id: 7\r\nretry: 3000\r\nevent: error\r\ndata: {\"message\":\"m\"}\r\n\r\n")
	if len(events) != 1 || events[0].Name != "error" || events[0].Data != `{"message":"m"}` {
		t.Errorf("events = %+v", events)
	}
}

func TestSSEScannerTrailingBlockAtEOF(t *testing.T) {
	t.Parallel()

	events := scanAll(t, "event: a\ndata: 1\n\nevent: b\ndata: 2")
	if len(events) != 2 || events[1].Name != "b" || events[1].Data != "2" {
		t.Errorf("events = %+v", events)
	}

	events = scanAll(t, "event: a\ndata: 1\n")
	if len(events) != 1 {
		t.Errorf("block ended by EOF after newline: events = %+v", events)
	}
}

func TestSSEScannerReadError(t *testing.T) {
	t.Parallel()

	failing := io.MultiReader(strings.NewReader("event: a\ndata: 1\n\n"), errorReader{})
	scanner := NewSSEScanner(failing)
	if !scanner.Next() {
		t.Fatal("expected the event before the error")
	}
	if scanner.Next() {
		t.Fatal("Next() = true after read error")
	}
	if !errors.Is(scanner.Err(), errBoom) {
		t.Errorf("Err() = %v, want errBoom", scanner.Err())
	}
}

func TestWriteSSE(t *testing.T) {
	t.Parallel()

	var buffer bytes.Buffer
	if err := WriteSSE(&buffer, "status_update", []byte("{\"0\":1984}")); err != nil {
		t.Fatalf("WriteSSE: %v", err)
	}
	if err := WriteSSE(&buffer, "", []byte("line one\nline two")); err != nil {
		t.Fatalf("WriteSSE: %v", err)
	}
	want := "event: status_update\ndata: {\"0\":1984}\n\ndata: line one\ndata: line two\n\n"
	if buffer.String() != want {
		t.Errorf("written = %q, want %q", buffer.String(), want)
	}

	events := scanAll(t, buffer.String())
	if len(events) != 2 || events[1].Data != "line one\nline two" {
		t.Errorf("scanned back %+v", events)
	}
}

var errBoom = errors.New("boom")

type errorReader struct{}

func (errorReader) Read([]byte) (int, error) { return 0, errBoom }
