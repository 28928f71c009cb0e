// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package schema

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/bureau-foundation/servopanel/lib/servo"
)

// Response is the envelope every backend response carries.
type Response struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
	Message string `json:"message,omitempty"`
}

// Positions maps servo index to native position.
type Positions map[int]int

// DisplayStyle selects how a servo's indicator is drawn.
type DisplayStyle string

const (
	DisplayBar        DisplayStyle = "bar"
	DisplayRectangle  DisplayStyle = "rectangle"
	DisplayPercentage DisplayStyle = "percentage"
	DisplayAll        DisplayStyle = "all"
)

// Normalize returns the style, or DisplayBar for anything the panel
// does not know how to draw.
func (s DisplayStyle) Normalize() DisplayStyle {
	switch s {
	case DisplayBar, DisplayRectangle, DisplayPercentage, DisplayAll:
		return s
	default:
		return DisplayBar
	}
}

// Shows reports whether an indicator of kind want is drawn under this
// style.
func (s DisplayStyle) Shows(want DisplayStyle) bool {
	normalized := s.Normalize()
	return normalized == DisplayAll || normalized == want
}

// GateDimensions is the physical opening of the gate a servo drives,
// in inches.
type GateDimensions struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// DefaultGate is used for servos with no configured dimensions.
var DefaultGate = GateDimensions{Width: 1, Height: 5}

// Label renders the dimensions as `<w>"×<h>"`.
func (g GateDimensions) Label() string {
	return fmt.Sprintf("%s\"×%s\"",
		strconv.FormatFloat(g.Width, 'f', -1, 64),
		strconv.FormatFloat(g.Height, 'f', -1, 64))
}

// AspectRatio returns width/height, falling back to the default gate
// when either dimension is not positive.
func (g GateDimensions) AspectRatio() float64 {
	if g.Width <= 0 || g.Height <= 0 {
		return DefaultGate.Width / DefaultGate.Height
	}
	return g.Width / g.Height
}

// PanelConfig is the static configuration served by GET /api/config.
type PanelConfig struct {
	NumServos          int          `json:"num_servos"`
	MaxScenes          int          `json:"max_scenes"`
	ServoNames         ServoNames   `json:"servo_names,omitempty"`
	ShowRawValues      bool         `json:"show_raw_values"`
	VisualDisplayStyle DisplayStyle `json:"visual_display_style"`
	GateDimensions     GateTable    `json:"gate_dimensions,omitempty"`
}

// DefaultPanelConfig is the configuration used when the backend's
// configuration cannot be fetched: 8 servos, 8 scene slots, bar indicators.
func DefaultPanelConfig() PanelConfig {
	return PanelConfig{
		NumServos:          8,
		MaxScenes:          8,
		VisualDisplayStyle: DisplayBar,
	}
}

// ServoName returns the configured name of a servo or "Servo <i>".
func (c PanelConfig) ServoName(index int) string {
	if name := c.ServoNames[index]; name != "" {
		return name
	}
	return fmt.Sprintf("Servo %d", index)
}

// Gate returns the configured gate of a servo or DefaultGate.
func (c PanelConfig) Gate(index int) GateDimensions {
	if gate, ok := c.GateDimensions[index]; ok {
		return gate
	}
	return DefaultGate
}

// ServoNames maps servo index to display name. It decodes from a JSON
// array or from an object keyed by decimal index.
type ServoNames map[int]string

// UnmarshalJSON implements json.Unmarshaler.
func (n *ServoNames) UnmarshalJSON(data []byte) error {
	var list []string
	decoded := map[int]string{}
	if err := decodeIndexed(data, &list, &decoded); err != nil {
		return fmt.Errorf("servo_names: %w", err)
	}
	for index, name := range list {
		decoded[index] = name
	}
	*n = decoded
	return nil
}

// GateTable maps servo index to gate dimensions. It decodes from a
// JSON array or from an object keyed by decimal index.
type GateTable map[int]GateDimensions

// UnmarshalJSON implements json.Unmarshaler.
func (g *GateTable) UnmarshalJSON(data []byte) error {
	var list []GateDimensions
	decoded := map[int]GateDimensions{}
	if err := decodeIndexed(data, &list, &decoded); err != nil {
		return fmt.Errorf("gate_dimensions: %w", err)
	}
	for index, gate := range list {
		decoded[index] = gate
	}
	*g = decoded
	return nil
}

// decodeIndexed decodes data into list when it is a JSON array and
// into object otherwise. null leaves both empty.
func decodeIndexed(data []byte, list, object any) error {
	trimmed := bytes.TrimSpace(data)
	switch {
	case bytes.Equal(trimmed, []byte("null")):
		return nil
	case len(trimmed) > 0 && trimmed[0] == '[':
		return json.Unmarshal(trimmed, list)
	default:
		return json.Unmarshal(trimmed, object)
	}
}

// SceneInfo is one entry of the scene listing.
type SceneInfo struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Locked      bool   `json:"locked"`
	// Positions is served by backends for completeness; the panel
	// never reads it.
	Positions Positions `json:"positions,omitempty"`
}

// ConfigResponse is the body of GET /api/config.
type ConfigResponse struct {
	Response
	Config PanelConfig `json:"config"`
}

// StatusResponse is the body of GET /api/status.
type StatusResponse struct {
	Response
	Positions Positions `json:"positions"`
}

// ScenesResponse is the body of GET /api/scenes.
type ScenesResponse struct {
	Response
	Scenes map[int]SceneInfo `json:"scenes"`
}

// PositionRequest is the body of POST /api/servo/{id}/position.
type PositionRequest struct {
	Position int `json:"position"`
}

// NudgeRequest is the body of POST /api/servo/{id}/nudge.
type NudgeRequest struct {
	Direction servo.Direction `json:"direction"`
}

// SaveSceneRequest is the body of POST /api/scenes/{id}/save. Absent
// fields keep the slot's existing metadata.
type SaveSceneRequest struct {
	Name        string  `json:"name,omitempty"`
	Description *string `json:"description,omitempty"`
	Locked      *bool   `json:"locked,omitempty"`
}

// UpdateSceneRequest is the body of POST /api/scenes/{id}/update.
type UpdateSceneRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Locked      bool   `json:"locked"`
}
