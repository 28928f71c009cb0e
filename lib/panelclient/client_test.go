// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package panelclient

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/bureau-foundation/servopanel/lib/schema"
	"github.com/bureau-foundation/servopanel/lib/servo"
)

func newTestClient(t *testing.T, mux *http.ServeMux) *Client {
	t.Helper()
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	client, err := New(server.URL, WithHTTPClient(server.Client()))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return client
}

func writeJSON(t *testing.T, w http.ResponseWriter, status int, body any) {
	t.Helper()
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		t.Errorf("encoding response: %v", err)
	}
}

func TestNewRejectsBadURLs(t *testing.T) {
	t.Parallel()

	for _, raw := range []string{"localhost:5000", "ftp://example.com", "http://", "://"} {
		if _, err := New(raw); err == nil {
			t.Errorf("New(%q) succeeded, want error", raw)
		}
	}

	client, err := New("http://panel.local:5000/prefix/")
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if got := client.EventsURL(); got != "http://panel.local:5000/prefix/api/events" {
		t.Errorf("EventsURL() = %q", got)
	}
}

func TestConfig(t *testing.T) {
	t.Parallel()

	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/config", func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{"success": true, "config": {"num_servos": 4, "max_scenes": 6,
			"servo_names": {"1": "Bedroom Return"}, "visual_display_style": "all"}}`)
	})
	client := newTestClient(t, mux)

	config, err := client.Config(context.Background())
	if err != nil {
		t.Fatalf("Config: %v", err)
	}
	if config.NumServos != 4 || config.MaxScenes != 6 {
		t.Errorf("counts = %d/%d", config.NumServos, config.MaxScenes)
	}
	if config.ServoName(1) != "Bedroom Return" {
		t.Errorf("ServoName(1) = %q", config.ServoName(1))
	}
	if config.VisualDisplayStyle != schema.DisplayAll {
		t.Errorf("VisualDisplayStyle = %q", config.VisualDisplayStyle)
	}
}

func TestStatusAndScenes(t *testing.T) {
	t.Parallel()

	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/status", func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{"success": true, "positions": {"0": 0, "1": 4608}}`)
	})
	mux.HandleFunc("GET /api/scenes", func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{"success": true, "scenes": {"2": {"name": "Evening", "description": "", "locked": true}}}`)
	})
	client := newTestClient(t, mux)

	positions, err := client.Status(context.Background())
	if err != nil {
		t.Fatalf("Status: %v", err)
	}
	if positions[1] != 4608 || len(positions) != 2 {
		t.Errorf("positions = %v", positions)
	}

	scenes, err := client.Scenes(context.Background())
	if err != nil {
		t.Fatalf("Scenes: %v", err)
	}
	if scene, ok := scenes[2]; !ok || scene.Name != "Evening" || !scene.Locked {
		t.Errorf("scenes = %+v", scenes)
	}
}

func TestCommandsSendExpectedRequests(t *testing.T) {
	t.Parallel()

	type captured struct {
		method, path, contentType, requestID string
		body                                 map[string]any
	}
	requests := make(chan captured, 16)

	handler := func(w http.ResponseWriter, r *http.Request) {
		request := captured{
			method:      r.Method,
			path:        r.URL.Path,
			contentType: r.Header.Get("Content-Type"),
			requestID:   r.Header.Get(RequestIDHeader),
		}
		data, _ := io.ReadAll(r.Body)
		if len(data) > 0 {
			if err := json.Unmarshal(data, &request.body); err != nil {
				t.Errorf("%s: body %q is not JSON: %v", r.URL.Path, data, err)
			}
		}
		requests <- request
		io.WriteString(w, `{"success": true}`)
	}
	mux := http.NewServeMux()
	mux.HandleFunc("/", handler)
	client := newTestClient(t, mux)
	ctx := context.Background()

	description := "after dinner"
	locked := true
	calls := []struct {
		name     string
		call     func() error
		wantPath string
		wantBody map[string]any
	}{
		{"set position", func() error { return client.SetPosition(ctx, 3, 5000) }, "/api/servo/3/position", map[string]any{"position": 5000.0}},
		{"nudge", func() error { return client.Nudge(ctx, 0, servo.Minus) }, "/api/servo/0/nudge", map[string]any{"direction": "minus"}},
		{"all off", func() error { return client.AllOff(ctx) }, "/api/all-off", nil},
		{"save", func() error {
			return client.SaveScene(ctx, 4, schema.SaveSceneRequest{Name: "Night", Description: &description, Locked: &locked})
		}, "/api/scenes/4/save", map[string]any{"name": "Night", "description": "after dinner", "locked": true}},
		{"update", func() error {
			return client.UpdateScene(ctx, 4, schema.UpdateSceneRequest{Name: "Night", Description: "", Locked: false})
		}, "/api/scenes/4/update", map[string]any{"name": "Night", "description": "", "locked": false}},
		{"recall", func() error { return client.RecallScene(ctx, 7) }, "/api/scenes/7/recall", nil},
	}
	for _, call := range calls {
		if err := call.call(); err != nil {
			t.Fatalf("%s: %v", call.name, err)
		}
		request := <-requests
		if request.method != http.MethodPost {
			t.Errorf("%s: method = %s, want POST", call.name, request.method)
		}
		if request.path != call.wantPath {
			t.Errorf("%s: path = %s, want %s", call.name, request.path, call.wantPath)
		}
		if _, err := uuid.Parse(request.requestID); err != nil {
			t.Errorf("%s: request ID %q is not a UUID", call.name, request.requestID)
		}
		if call.wantBody == nil {
			if request.body != nil {
				t.Errorf("%s: unexpected body %v", call.name, request.body)
			}
			continue
		}
		if request.contentType != "application/json" {
			t.Errorf("%s: Content-Type = %q", call.name, request.contentType)
		}
		for key, want := range call.wantBody {
			if got := request.body[key]; got != want {
				t.Errorf("%s: body[%s] = %v, want %v", call.name, key, got, want)
			}
		}
		if len(request.body) != len(call.wantBody) {
			t.Errorf("%s: body = %v, want %v", call.name, request.body, call.wantBody)
		}
	}
}

func TestRequestIDsAreUnique(t *testing.T) {
	t.Parallel()

	seen := make(chan string, 2)
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/all-off", func(w http.ResponseWriter, r *http.Request) {
		seen <- r.Header.Get(RequestIDHeader)
		io.WriteString(w, `{"success": true}`)
	})
	client := newTestClient(t, mux)
	for range 2 {
		if err := client.AllOff(context.Background()); err != nil {
			t.Fatalf("AllOff: %v", err)
		}
	}
	if first, second := <-seen, <-seen; first == second {
		t.Errorf("two requests shared request ID %q", first)
	}
}

func TestFailureResponses(t *testing.T) {
	t.Parallel()

	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/servo/9/position", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, http.StatusBadRequest, map[string]any{"success": false, "error": "Servo ID must be between 0 and 7"})
	})
	mux.HandleFunc("POST /api/all-off", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, http.StatusOK, map[string]any{"success": false})
	})
	mux.HandleFunc("POST /api/scenes/1/recall", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		io.WriteString(w, "<html>upstream down</html>")
	})
	mux.HandleFunc("GET /api/status", func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, "not json")
	})
	client := newTestClient(t, mux)
	ctx := context.Background()

	err := client.SetPosition(ctx, 9, 2000)
	var apiError *APIError
	if !errors.As(err, &apiError) {
		t.Fatalf("SetPosition error = %v, want *APIError", err)
	}
	if apiError.Status != http.StatusBadRequest || apiError.Message != "Servo ID must be between 0 and 7" {
		t.Errorf("APIError = %+v", apiError)
	}
	if got := err.Error(); got != "set position: HTTP 400: Servo ID must be between 0 and 7" {
		t.Errorf("Error() = %q", got)
	}
	if Message(err) != "Servo ID must be between 0 and 7" {
		t.Errorf("Message() = %q", Message(err))
	}

	err = client.AllOff(ctx)
	if !errors.As(err, &apiError) || apiError.Message != "request failed" {
		t.Errorf("AllOff error = %v, want success:false APIError", err)
	}
	if got := err.Error(); got != "all off: request failed" {
		t.Errorf("Error() = %q", got)
	}

	err = client.RecallScene(ctx, 1)
	if !errors.As(err, &apiError) || apiError.Status != http.StatusBadGateway {
		t.Fatalf("RecallScene error = %v, want HTTP 502 APIError", err)
	}
	if !strings.Contains(apiError.Message, "upstream down") {
		t.Errorf("Message = %q, want body summary", apiError.Message)
	}

	_, err = client.Status(ctx)
	if err == nil || errors.As(err, &apiError) {
		t.Errorf("Status error = %v, want a decoding error", err)
	}
}

func TestNotFound(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, http.NewServeMux())
	err := client.RecallScene(context.Background(), 1)
	if !IsNotFound(err) {
		t.Errorf("RecallScene on unknown route = %v, want not found", err)
	}
}

func TestTransportError(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.NewServeMux())
	url := server.URL
	server.Close()

	client, err := New(url)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	err = client.AllOff(context.Background())
	if err == nil {
		t.Fatal("AllOff against a closed server succeeded")
	}
	if !strings.HasPrefix(err.Error(), "all off: ") {
		t.Errorf("error = %q, want operation prefix", err)
	}
	var apiError *APIError
	if errors.As(err, &apiError) {
		t.Errorf("transport error reported as APIError")
	}
}

func TestTimeoutLeavesSharedHTTPClientAlone(t *testing.T) {
	t.Parallel()

	shared := &http.Client{Timeout: time.Minute}
	for _, options := range [][]Option{
		{WithHTTPClient(shared), WithTimeout(250 * time.Millisecond)},
		{WithTimeout(250 * time.Millisecond), WithHTTPClient(shared)},
	} {
		client, err := New("http://panel.local:5000", options...)
		if err != nil {
			t.Fatalf("New: %v", err)
		}
		if client.httpClient == shared {
			t.Error("client uses the shared HTTP client directly")
		}
		if client.httpClient.Timeout != 250*time.Millisecond {
			t.Errorf("request timeout = %v, want 250ms", client.httpClient.Timeout)
		}
	}
	if shared.Timeout != time.Minute {
		t.Errorf("shared client timeout changed to %v", shared.Timeout)
	}

	client, err := New("http://panel.local:5000", WithHTTPClient(shared))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if client.httpClient != shared {
		t.Error("WithHTTPClient without a timeout did not use the given client")
	}
}
