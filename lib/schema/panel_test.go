// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package schema

import (
	"encoding/json"
	"testing"
)

// referenceConfig is the body the reference backend serves: Python
// dicts keyed by int become JSON objects with string keys.
const referenceConfig = `{
	"success": true,
	"config": {
		"num_servos": 3,
		"max_scenes": 4,
		"servo_names": {"0": "Bath", "2": "Laundry Room"},
		"show_raw_values": true,
		"visual_display_style": "rectangle",
		"gate_dimensions": {"0": {"width": 1, "height": 5}, "1": {"width": 2.5, "height": 4}}
	}
}`

func TestConfigResponseObjectForm(t *testing.T) {
	t.Parallel()

	var response ConfigResponse
	if err := json.Unmarshal([]byte(referenceConfig), &response); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if !response.Success {
		t.Fatal("Success = false")
	}
	config := response.Config
	if config.NumServos != 3 || config.MaxScenes != 4 {
		t.Errorf("counts = %d/%d, want 3/4", config.NumServos, config.MaxScenes)
	}
	if got := config.ServoName(0); got != "Bath" {
		t.Errorf("ServoName(0) = %q, want Bath", got)
	}
	if got := config.ServoName(1); got != "Servo 1" {
		t.Errorf("ServoName(1) = %q, want fallback", got)
	}
	if got := config.Gate(1); got != (GateDimensions{Width: 2.5, Height: 4}) {
		t.Errorf("Gate(1) = %+v", got)
	}
	if got := config.Gate(2); got != DefaultGate {
		t.Errorf("Gate(2) = %+v, want default", got)
	}
	if config.VisualDisplayStyle != DisplayRectangle || !config.ShowRawValues {
		t.Errorf("style/raw = %q/%v", config.VisualDisplayStyle, config.ShowRawValues)
	}
}

func TestConfigArrayForm(t *testing.T) {
	t.Parallel()

	body := `{"num_servos": 2, "max_scenes": 2,
		"servo_names": ["Left", "Right"],
		"gate_dimensions": [{"width": 3, "height": 3}, {"width": 1, "height": 2}],
		"visual_display_style": "bar"}`
	var config PanelConfig
	if err := json.Unmarshal([]byte(body), &config); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if config.ServoName(1) != "Right" {
		t.Errorf("ServoName(1) = %q, want Right", config.ServoName(1))
	}
	if config.Gate(0).Width != 3 {
		t.Errorf("Gate(0) = %+v", config.Gate(0))
	}
}

func TestConfigNullTables(t *testing.T) {
	t.Parallel()

	var config PanelConfig
	if err := json.Unmarshal([]byte(`{"num_servos": 1, "servo_names": null, "gate_dimensions": null}`), &config); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if config.ServoName(0) != "Servo 0" {
		t.Errorf("ServoName(0) = %q", config.ServoName(0))
	}
}

func TestConfigRejectsMalformedNames(t *testing.T) {
	t.Parallel()

	var config PanelConfig
	if err := json.Unmarshal([]byte(`{"servo_names": {"zero": "Bath"}}`), &config); err == nil {
		t.Error("Unmarshal accepted a non-numeric servo index")
	}
}

func TestDisplayStyle(t *testing.T) {
	t.Parallel()

	tests := []struct {
		style      DisplayStyle
		normalized DisplayStyle
		bar, rect  bool
	}{
		{DisplayBar, DisplayBar, true, false},
		{DisplayRectangle, DisplayRectangle, false, true},
		{DisplayPercentage, DisplayPercentage, false, false},
		{DisplayAll, DisplayAll, true, true},
		{"sparkles", DisplayBar, true, false},
		{"", DisplayBar, true, false},
	}
	for _, test := range tests {
		if got := test.style.Normalize(); got != test.normalized {
			t.Errorf("%q.Normalize() = %q, want %q", test.style, got, test.normalized)
		}
		if got := test.style.Shows(DisplayBar); got != test.bar {
			t.Errorf("%q.Shows(bar) = %v, want %v", test.style, got, test.bar)
		}
		if got := test.style.Shows(DisplayRectangle); got != test.rect {
			t.Errorf("%q.Shows(rectangle) = %v, want %v", test.style, got, test.rect)
		}
	}
}

func TestGateDimensions(t *testing.T) {
	t.Parallel()

	if got := (GateDimensions{Width: 1, Height: 5}).Label(); got != `1"×5"` {
		t.Errorf("Label() = %q", got)
	}
	if got := (GateDimensions{Width: 2.5, Height: 4}).Label(); got != `2.5"×4"` {
		t.Errorf("Label() = %q", got)
	}
	if got := (GateDimensions{Width: 4, Height: 2}).AspectRatio(); got != 2 {
		t.Errorf("AspectRatio() = %v, want 2", got)
	}
	if got := (GateDimensions{}).AspectRatio(); got != 0.2 {
		t.Errorf("AspectRatio() of zero gate = %v, want default 0.2", got)
	}
}

func TestScenesResponse(t *testing.T) {
	t.Parallel()

	body := `{"success": true, "scenes": {
		"1": {"name": "Morning", "description": "", "locked": false, "positions": {"0": 1984}},
		"3": {"name": "Night", "description": "all closed", "locked": true, "positions": {}}
	}}`
	var response ScenesResponse
	if err := json.Unmarshal([]byte(body), &response); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if len(response.Scenes) != 2 {
		t.Fatalf("got %d scenes, want 2", len(response.Scenes))
	}
	if scene := response.Scenes[3]; scene.Name != "Night" || !scene.Locked {
		t.Errorf("scene 3 = %+v", scene)
	}
}

func TestFailureResponse(t *testing.T) {
	t.Parallel()

	var response StatusResponse
	if err := json.Unmarshal([]byte(`{"success": false, "error": "Maestro not connected"}`), &response); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if response.Success || response.Error != "Maestro not connected" {
		t.Errorf("response = %+v", response)
	}
}

func TestSaveSceneRequestOmitsAbsentFields(t *testing.T) {
	t.Parallel()

	data, err := json.Marshal(SaveSceneRequest{})
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	if string(data) != "{}" {
		t.Errorf("empty save request = %s, want {}", data)
	}

	description := ""
	locked := false
	data, err = json.Marshal(SaveSceneRequest{Name: "Morning", Description: &description, Locked: &locked})
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	if string(data) != `{"name":"Morning","description":"","locked":false}` {
		t.Errorf("save request = %s", data)
	}
}
