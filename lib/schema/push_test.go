// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package schema

import (
	"encoding/json"
	"testing"
)

func TestDecodeEventData(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		eventType EventType
		data      string
		check     func(t *testing.T, event Event)
	}{
		{
			name:      "servo_update",
			eventType: EventServoUpdate,
			data:      `{"servo_id": 2, "position": 4608}`,
			check: func(t *testing.T, event Event) {
				if event.ServoID != 2 || event.Position != 4608 {
					t.Errorf("event = %+v", event)
				}
			},
		},
		{
			name:      "scene_recalled",
			eventType: EventSceneRecalled,
			data:      `{"scene_id": 3, "positions": {"0": 1984, "1": 7232}}`,
			check: func(t *testing.T, event Event) {
				if event.SceneID != 3 || event.Positions[0] != 1984 || event.Positions[1] != 7232 {
					t.Errorf("event = %+v", event)
				}
			},
		},
		{
			name:      "status_update is a bare map",
			eventType: EventStatusUpdate,
			data:      `{"0": 0, "5": 5000}`,
			check: func(t *testing.T, event Event) {
				if len(event.Positions) != 2 || event.Positions[5] != 5000 {
					t.Errorf("positions = %v", event.Positions)
				}
			},
		},
		{
			name:      "error",
			eventType: EventError,
			data:      `{"message": "USB disconnected"}`,
			check: func(t *testing.T, event Event) {
				if event.Message != "USB disconnected" {
					t.Errorf("message = %q", event.Message)
				}
			},
		},
		{
			name:      "all_servos_off without data",
			eventType: EventAllServosOff,
			data:      "",
			check:     func(t *testing.T, event Event) {},
		},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			t.Parallel()
			event, err := DecodeEventData(test.eventType, []byte(test.data))
			if err != nil {
				t.Fatalf("DecodeEventData: %v", err)
			}
			if event.Type != test.eventType {
				t.Errorf("Type = %q, want %q", event.Type, test.eventType)
			}
			test.check(t, event)
		})
	}
}

func TestDecodeEventDataErrors(t *testing.T) {
	t.Parallel()

	if _, err := DecodeEventData("servo_exploded", []byte("{}")); err == nil {
		t.Error("unknown event type accepted")
	}
	if _, err := DecodeEventData(EventServoUpdate, nil); err == nil {
		t.Error("servo_update without data accepted")
	}
	if _, err := DecodeEventData(EventServoUpdate, []byte(`{"servo_id": "two"}`)); err == nil {
		t.Error("malformed servo_update accepted")
	}
}

func TestEncodeEventDataShapes(t *testing.T) {
	t.Parallel()

	tests := []struct {
		event Event
		want  string
	}{
		{Event{Type: EventServoUpdate, ServoID: 0, Position: 1984}, `{"servo_id":0,"position":1984}`},
		{Event{Type: EventStatusUpdate, Positions: Positions{1: 2000}}, `{"1":2000}`},
		{Event{Type: EventStatusUpdate}, `{}`},
		{Event{Type: EventAllServosOff}, `{}`},
		{Event{Type: EventError, Message: "boom"}, `{"message":"boom"}`},
		{Event{Type: EventSceneRecalled, SceneID: 2, Positions: Positions{0: 0}}, `{"scene_id":2,"positions":{"0":0}}`},
	}
	for _, test := range tests {
		data, err := EncodeEventData(test.event)
		if err != nil {
			t.Fatalf("EncodeEventData(%s): %v", test.event.Type, err)
		}
		if string(data) != test.want {
			t.Errorf("EncodeEventData(%s) = %s, want %s", test.event.Type, data, test.want)
		}

		decoded, err := DecodeEventData(test.event.Type, data)
		if err != nil {
			t.Fatalf("DecodeEventData(%s): %v", test.event.Type, err)
		}
		encodedAgain, _ := json.Marshal(decoded)
		original, _ := json.Marshal(normalizeEvent(test.event))
		if string(encodedAgain) != string(original) {
			t.Errorf("%s did not survive the SSE payload: %s vs %s", test.event.Type, encodedAgain, original)
		}
	}

	if _, err := EncodeEventData(Event{Type: "bogus"}); err == nil {
		t.Error("EncodeEventData accepted an unknown type")
	}
}

// normalizeEvent mirrors what DecodeEventData produces for an empty
// status_update payload.
func normalizeEvent(event Event) Event {
	if event.Type == EventStatusUpdate && event.Positions == nil {
		event.Positions = Positions{}
	}
	return event
}
