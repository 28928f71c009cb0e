// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package events

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/bureau-foundation/servopanel/lib/netutil"
	"github.com/bureau-foundation/servopanel/lib/schema"
	"github.com/bureau-foundation/servopanel/lib/version"
)

// errStreamStatus is wrapped by errors for non-200 SSE responses.
var errStreamStatus = errors.New("unexpected status")

type sseTransport struct {
	url    string
	client *http.Client
	logger *slog.Logger
}

func (transport *sseTransport) open(ctx context.Context) (connection, error) {
	request, err := http.NewRequestWithContext(ctx, http.MethodGet, transport.url, nil)
	if err != nil {
		return nil, err
	}
	request.Header.Set("Accept", "text/event-stream")
	request.Header.Set("Cache-Control", "no-cache")
	request.Header.Set("User-Agent", version.UserAgent())

	response, err := transport.client.Do(request)
	if err != nil {
		return nil, fmt.Errorf("connecting: %w", err)
	}
	if response.StatusCode != http.StatusOK {
		data, _ := netutil.ReadResponse(io.LimitReader(response.Body, 1024))
		response.Body.Close()
		return nil, fmt.Errorf("connecting: %w: HTTP %d: %s", errStreamStatus, response.StatusCode, netutil.ErrorSummary(data))
	}
	return &sseConnection{
		body:    response.Body,
		scanner: NewSSEScanner(response.Body),
		logger:  transport.logger,
	}, nil
}

type sseConnection struct {
	body    io.ReadCloser
	scanner *SSEScanner
	logger  *slog.Logger
}

func (connection *sseConnection) next() (schema.Event, error) {
	for connection.scanner.Next() {
		raw := connection.scanner.Event()
		eventType := schema.EventType(raw.Name)
		if !eventType.Known() {
			return schema.Event{Type: eventType}, nil
		}
		event, err := schema.DecodeEventData(eventType, []byte(raw.Data))
		if err != nil {
			// One bad payload does not end the stream.
			connection.logger.Debug("dropping malformed push event", "type", eventType, "error", err)
			continue
		}
		return event, nil
	}
	if err := connection.scanner.Err(); err != nil {
		return schema.Event{}, fmt.Errorf("reading event stream: %w", err)
	}
	return schema.Event{}, io.EOF
}

func (connection *sseConnection) close() error {
	return connection.body.Close()
}
