// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package events

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"sync/atomic"
	"time"

	"github.com/bureau-foundation/servopanel/lib/clock"
	"github.com/bureau-foundation/servopanel/lib/netutil"
	"github.com/bureau-foundation/servopanel/lib/schema"
)

// Backoff between reconnection attempts.
const (
	initialBackoff = 1 * time.Second
	maxBackoff     = 30 * time.Second
)

// DefaultBuffer is the capacity of the Events channel.
const DefaultBuffer = 64

// Options configures a Stream. The zero value is usable.
type Options struct {
	// Clock drives reconnect backoff. Defaults to clock.Real().
	Clock clock.Clock

	// Logger receives transport diagnostics at debug level.
	Logger *slog.Logger

	// HTTPClient is used for SSE endpoints. It must not have a
	// Timeout, which would cut the stream. Defaults to a client with
	// no timeout.
	HTTPClient *http.Client

	// Buffer is the Events channel capacity. Defaults to DefaultBuffer.
	Buffer int
}

// Stream is a reconnecting push-event subscription.
type Stream struct {
	endpoint  string
	transport transport
	clock     clock.Clock
	logger    *slog.Logger
	events    chan schema.Event
	connected atomic.Bool
	running   atomic.Bool
}

// transport opens one connection to the push channel.
type transport interface {
	open(ctx context.Context) (connection, error)
}

// connection yields events until the underlying stream ends.
type connection interface {
	// next returns the next event. Event types outside the known set
	// are returned as-is; the stream filters them.
	next() (schema.Event, error)
	close() error
}

// New creates a Stream for endpoint. It does not connect until Run.
func New(endpoint string, options Options) (*Stream, error) {
	parsed, err := url.Parse(endpoint)
	if err != nil {
		return nil, fmt.Errorf("parsing event endpoint: %w", err)
	}

	httpClient := options.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	logger := options.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	var opener transport
	switch parsed.Scheme {
	case "http", "https":
		if parsed.Host == "" {
			return nil, fmt.Errorf("event endpoint %q has no host", endpoint)
		}
		opener = &sseTransport{url: parsed.String(), client: httpClient, logger: logger}
	case "unix":
		path := parsed.Path
		if path == "" {
			path = parsed.Opaque
		}
		if path == "" {
			return nil, fmt.Errorf("event endpoint %q has no socket path", endpoint)
		}
		opener = &socketTransport{path: path}
	default:
		return nil, fmt.Errorf("event endpoint %q: scheme must be http, https or unix", endpoint)
	}

	stream := &Stream{
		endpoint:  endpoint,
		transport: opener,
		clock:     options.Clock,
		logger:    logger,
	}
	if stream.clock == nil {
		stream.clock = clock.Real()
	}
	buffer := options.Buffer
	if buffer <= 0 {
		buffer = DefaultBuffer
	}
	stream.events = make(chan schema.Event, buffer)
	return stream, nil
}

// Endpoint returns the URL the stream connects to.
func (stream *Stream) Endpoint() string {
	return stream.endpoint
}

// Events returns the channel events are delivered on. It is closed
// when Run returns.
func (stream *Stream) Events() <-chan schema.Event {
	return stream.events
}

// Connected reports whether a connection is currently established.
func (stream *Stream) Connected() bool {
	return stream.connected.Load()
}

// Run connects and reconnects until ctx is cancelled. It may be called
// once.
func (stream *Stream) Run(ctx context.Context) {
	if !stream.running.CompareAndSwap(false, true) {
		panic("events: Stream.Run called twice")
	}
	defer close(stream.events)

	backoff := initialBackoff
	for {
		established, err := stream.runOnce(ctx)
		if ctx.Err() != nil {
			return
		}
		if established {
			backoff = initialBackoff
		}
		stream.logger.Debug("event stream ended",
			"endpoint", stream.endpoint,
			"error", err,
			"backoff", backoff,
		)

		select {
		case <-ctx.Done():
			return
		case <-stream.clock.After(backoff):
		}
		backoff = min(backoff*2, maxBackoff)
	}
}

// runOnce opens a single connection and forwards its events until it
// ends. established reports whether connect was delivered.
func (stream *Stream) runOnce(ctx context.Context) (established bool, err error) {
	conn, err := stream.transport.open(ctx)
	if err != nil {
		return false, err
	}
	defer conn.close()

	// Unblock a pending read on cancellation.
	stop := context.AfterFunc(ctx, func() { conn.close() })
	defer stop()

	stream.connected.Store(true)
	if !stream.deliver(ctx, schema.Event{Type: schema.EventConnect}) {
		stream.connected.Store(false)
		return true, ctx.Err()
	}
	stream.logger.Debug("event stream connected", "endpoint", stream.endpoint)

	for {
		event, err := conn.next()
		if err != nil {
			stream.connected.Store(false)
			if ctx.Err() == nil {
				stream.deliver(ctx, schema.Event{Type: schema.EventDisconnect})
			}
			if netutil.IsExpectedCloseError(err) {
				return true, nil
			}
			return true, err
		}

		switch event.Type {
		case schema.EventConnect, schema.EventDisconnect:
			// Connection state comes from the transport, not the peer.
			continue
		}
		if !event.Type.Known() {
			stream.logger.Debug("ignoring unknown push event", "type", event.Type)
			continue
		}
		if !stream.deliver(ctx, event) {
			stream.connected.Store(false)
			return true, ctx.Err()
		}
	}
}

func (stream *Stream) deliver(ctx context.Context, event schema.Event) bool {
	select {
	case stream.events <- event:
		return true
	case <-ctx.Done():
		return false
	}
}
