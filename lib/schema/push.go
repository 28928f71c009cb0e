// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package schema

import (
	"encoding/json"
	"fmt"
)

// EventType names a push event.
type EventType string

const (
	// EventConnect and EventDisconnect are synthesized by the
	// transport when a stream is established and when it ends.
	EventConnect    EventType = "connect"
	EventDisconnect EventType = "disconnect"

	EventServoUpdate   EventType = "servo_update"
	EventAllServosOff  EventType = "all_servos_off"
	EventSceneRecalled EventType = "scene_recalled"
	EventStatusUpdate  EventType = "status_update"
	EventError         EventType = "error"
)

// Known reports whether the panel understands this event type.
func (t EventType) Known() bool {
	switch t {
	case EventConnect, EventDisconnect, EventServoUpdate, EventAllServosOff,
		EventSceneRecalled, EventStatusUpdate, EventError:
		return true
	}
	return false
}

// Event is one push event. Which fields are meaningful depends on
// Type:
//
//   - servo_update: ServoID, Position
//   - scene_recalled: SceneID, Positions
//   - status_update: Positions
//   - error: Message
//
// As a CBOR frame the whole struct is sent.
type Event struct {
	Type      EventType `json:"type"`
	ServoID   int       `json:"servo_id"`
	Position  int       `json:"position"`
	SceneID   int       `json:"scene_id"`
	Positions Positions `json:"positions,omitempty"`
	Message   string    `json:"message,omitempty"`
}

type servoUpdateData struct {
	ServoID  int `json:"servo_id"`
	Position int `json:"position"`
}

type sceneRecalledData struct {
	SceneID   int       `json:"scene_id"`
	Positions Positions `json:"positions"`
}

type errorData struct {
	Message string `json:"message"`
}

// EncodeEventData returns the JSON data payload of an SSE event. The
// shapes match the reference backend: status_update is the bare
// position map and all_servos_off is an empty object.
func EncodeEventData(event Event) ([]byte, error) {
	switch event.Type {
	case EventServoUpdate:
		return json.Marshal(servoUpdateData{ServoID: event.ServoID, Position: event.Position})
	case EventSceneRecalled:
		return json.Marshal(sceneRecalledData{SceneID: event.SceneID, Positions: event.Positions})
	case EventStatusUpdate:
		positions := event.Positions
		if positions == nil {
			positions = Positions{}
		}
		return json.Marshal(positions)
	case EventError:
		return json.Marshal(errorData{Message: event.Message})
	case EventAllServosOff, EventConnect, EventDisconnect:
		return []byte("{}"), nil
	default:
		return nil, fmt.Errorf("unknown event type %q", event.Type)
	}
}

// DecodeEventData builds an Event from an SSE event name and its JSON
// data. Empty data is accepted for events without a payload.
func DecodeEventData(eventType EventType, data []byte) (Event, error) {
	event := Event{Type: eventType}
	if !eventType.Known() {
		return event, fmt.Errorf("unknown event type %q", eventType)
	}
	if len(data) == 0 {
		switch eventType {
		case EventAllServosOff, EventConnect, EventDisconnect:
			return event, nil
		}
		return event, fmt.Errorf("%s: empty data", eventType)
	}

	var err error
	switch eventType {
	case EventServoUpdate:
		var payload servoUpdateData
		err = json.Unmarshal(data, &payload)
		event.ServoID, event.Position = payload.ServoID, payload.Position
	case EventSceneRecalled:
		var payload sceneRecalledData
		err = json.Unmarshal(data, &payload)
		event.SceneID, event.Positions = payload.SceneID, payload.Positions
	case EventStatusUpdate:
		err = json.Unmarshal(data, &event.Positions)
	case EventError:
		var payload errorData
		err = json.Unmarshal(data, &payload)
		event.Message = payload.Message
	}
	if err != nil {
		return event, fmt.Errorf("decoding %s data: %w", eventType, err)
	}
	return event, nil
}
