// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package panelclient is a typed HTTP client for a servo backend's
// /api endpoints.
//
// Every call issues exactly one request and reports the backend's
// verdict as an error: a transport failure is wrapped with the
// operation name, and a response whose success flag is false (or a
// non-2xx response without a JSON body) becomes an [*APIError]. The
// client never retries.
//
// Each request carries a fresh X-Request-Id so backend logs can be
// matched with panel log lines; the ID is logged at debug level.
package panelclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/bureau-foundation/servopanel/lib/netutil"
	"github.com/bureau-foundation/servopanel/lib/schema"
	"github.com/bureau-foundation/servopanel/lib/servo"
	"github.com/bureau-foundation/servopanel/lib/version"
)

// RequestIDHeader carries the per-request correlation ID.
const RequestIDHeader = "X-Request-Id"

// DefaultTimeout bounds a single request when no timeout is configured.
const DefaultTimeout = 5 * time.Second

// Client talks to one backend.
type Client struct {
	baseURL    *url.URL
	httpClient *http.Client
	logger     *slog.Logger

	timeout    time.Duration
	hasTimeout bool
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the HTTP client. Tests use it to point at an
// httptest server's client.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(client *Client) { client.httpClient = httpClient }
}

// WithTimeout sets the per-request timeout. It applies to a copy of
// the HTTP client, so a client passed to WithHTTPClient is left as is.
func WithTimeout(timeout time.Duration) Option {
	return func(client *Client) {
		client.timeout = timeout
		client.hasTimeout = true
	}
}

// WithLogger sets the logger for request tracing.
func WithLogger(logger *slog.Logger) Option {
	return func(client *Client) { client.logger = logger }
}

// New creates a Client for the backend at baseURL, an absolute http or
// https URL. A path prefix on baseURL is kept.
func New(baseURL string, options ...Option) (*Client, error) {
	parsed, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parsing backend URL: %w", err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return nil, fmt.Errorf("backend URL %q: scheme must be http or https", baseURL)
	}
	if parsed.Host == "" {
		return nil, fmt.Errorf("backend URL %q has no host", baseURL)
	}
	parsed.Path = strings.TrimSuffix(parsed.Path, "/")

	client := &Client{
		baseURL:    parsed,
		httpClient: &http.Client{Timeout: DefaultTimeout},
		logger:     slog.New(slog.DiscardHandler),
	}
	for _, option := range options {
		option(client)
	}
	if client.hasTimeout {
		copied := *client.httpClient
		copied.Timeout = client.timeout
		client.httpClient = &copied
	}
	return client, nil
}

// BaseURL returns the backend base URL without a trailing slash.
func (client *Client) BaseURL() string {
	return client.baseURL.String()
}

// EventsURL returns the default Server-Sent Events endpoint.
func (client *Client) EventsURL() string {
	return client.endpoint("/api/events")
}

// Config fetches the panel configuration.
func (client *Client) Config(ctx context.Context) (schema.PanelConfig, error) {
	var response schema.ConfigResponse
	if err := client.do(ctx, "load config", http.MethodGet, "/api/config", nil, &response); err != nil {
		return schema.PanelConfig{}, err
	}
	return response.Config, nil
}

// Status fetches the current position of every servo.
func (client *Client) Status(ctx context.Context) (schema.Positions, error) {
	var response schema.StatusResponse
	if err := client.do(ctx, "load status", http.MethodGet, "/api/status", nil, &response); err != nil {
		return nil, err
	}
	return response.Positions, nil
}

// Scenes fetches the scene listing. Slots with no saved scene are
// absent from the map.
func (client *Client) Scenes(ctx context.Context) (map[int]schema.SceneInfo, error) {
	var response schema.ScenesResponse
	if err := client.do(ctx, "load scenes", http.MethodGet, "/api/scenes", nil, &response); err != nil {
		return nil, err
	}
	if response.Scenes == nil {
		return map[int]schema.SceneInfo{}, nil
	}
	return response.Scenes, nil
}

// SetPosition moves a servo to a native position. 0 turns it off.
func (client *Client) SetPosition(ctx context.Context, servoID, position int) error {
	path := "/api/servo/" + strconv.Itoa(servoID) + "/position"
	return client.do(ctx, "set position", http.MethodPost, path, schema.PositionRequest{Position: position}, nil)
}

// Nudge moves a servo one backend-defined step.
func (client *Client) Nudge(ctx context.Context, servoID int, direction servo.Direction) error {
	path := "/api/servo/" + strconv.Itoa(servoID) + "/nudge"
	return client.do(ctx, "nudge", http.MethodPost, path, schema.NudgeRequest{Direction: direction}, nil)
}

// AllOff turns every servo off.
func (client *Client) AllOff(ctx context.Context) error {
	return client.do(ctx, "all off", http.MethodPost, "/api/all-off", nil, nil)
}

// SaveScene stores the backend's current positions in a slot.
func (client *Client) SaveScene(ctx context.Context, slot int, request schema.SaveSceneRequest) error {
	path := "/api/scenes/" + strconv.Itoa(slot) + "/save"
	return client.do(ctx, "save scene", http.MethodPost, path, request, nil)
}

// UpdateScene replaces a saved scene's metadata without touching its
// positions.
func (client *Client) UpdateScene(ctx context.Context, slot int, request schema.UpdateSceneRequest) error {
	path := "/api/scenes/" + strconv.Itoa(slot) + "/update"
	return client.do(ctx, "update scene", http.MethodPost, path, request, nil)
}

// RecallScene applies a saved scene. The resulting positions arrive as
// a scene_recalled push event.
func (client *Client) RecallScene(ctx context.Context, slot int) error {
	path := "/api/scenes/" + strconv.Itoa(slot) + "/recall"
	return client.do(ctx, "recall scene", http.MethodPost, path, nil, nil)
}

func (client *Client) endpoint(path string) string {
	return client.baseURL.String() + path
}

// do performs one request. body, when non-nil, is sent as JSON. result,
// when non-nil, receives the decoded response; the success envelope is
// checked either way.
func (client *Client) do(ctx context.Context, operation, method, path string, body, result any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("%s: encoding request: %w", operation, err)
		}
		reader = bytes.NewReader(data)
	}

	request, err := http.NewRequestWithContext(ctx, method, client.endpoint(path), reader)
	if err != nil {
		return fmt.Errorf("%s: %w", operation, err)
	}
	requestID := uuid.NewString()
	request.Header.Set(RequestIDHeader, requestID)
	request.Header.Set("Accept", "application/json")
	request.Header.Set("User-Agent", version.UserAgent())
	if body != nil {
		request.Header.Set("Content-Type", "application/json")
	}

	started := time.Now()
	response, err := client.httpClient.Do(request)
	if err != nil {
		client.logger.Debug("backend request failed",
			"method", method, "path", path, "request_id", requestID, "error", err)
		return fmt.Errorf("%s: %w", operation, err)
	}
	defer response.Body.Close()

	client.logger.Debug("backend request",
		"method", method,
		"path", path,
		"status", response.StatusCode,
		"request_id", requestID,
		"duration", time.Since(started),
	)

	data, err := netutil.ReadResponse(response.Body)
	if err != nil {
		return fmt.Errorf("%s: reading response: %w", operation, err)
	}
	return decodeEnvelope(operation, response.StatusCode, data, result)
}

// decodeEnvelope applies the success contract to a response body.
func decodeEnvelope(operation string, status int, data []byte, result any) error {
	var envelope schema.Response
	if err := json.Unmarshal(data, &envelope); err != nil {
		if status < 200 || status > 299 {
			return &APIError{Operation: operation, Status: status, Message: netutil.ErrorSummary(data)}
		}
		return fmt.Errorf("%s: decoding response: %w", operation, err)
	}
	if !envelope.Success {
		message := envelope.Error
		if message == "" {
			message = "request failed"
		}
		return &APIError{Operation: operation, Status: status, Message: message}
	}
	if status < 200 || status > 299 {
		return &APIError{Operation: operation, Status: status, Message: http.StatusText(status)}
	}
	if result != nil {
		if err := json.Unmarshal(data, result); err != nil {
			return fmt.Errorf("%s: decoding response: %w", operation, err)
		}
	}
	return nil
}
