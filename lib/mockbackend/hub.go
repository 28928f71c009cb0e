// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package mockbackend

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/bureau-foundation/servopanel/lib/codec"
	"github.com/bureau-foundation/servopanel/lib/events"
	"github.com/bureau-foundation/servopanel/lib/schema"
)

// subscriberBuffer is how many events a subscriber may fall behind
// before it is dropped.
const subscriberBuffer = 64

// writeTimeout bounds one frame write on the socket transport.
const writeTimeout = 10 * time.Second

// hub fans published events out to subscribers. A subscriber that
// falls subscriberBuffer events behind is dropped; its client
// reconnects and receives a fresh status_update.
type hub struct {
	logger *slog.Logger

	mu          sync.Mutex
	nextID      int
	subscribers map[int]chan schema.Event
}

func newHub(logger *slog.Logger) *hub {
	return &hub{logger: logger, subscribers: map[int]chan schema.Event{}}
}

// subscribe registers a subscriber. The channel closes when the
// subscriber is dropped; cancel unregisters it.
func (h *hub) subscribe() (events <-chan schema.Event, cancel func()) {
	h.mu.Lock()
	defer h.mu.Unlock()
	id := h.nextID
	h.nextID++
	channel := make(chan schema.Event, subscriberBuffer)
	h.subscribers[id] = channel
	return channel, func() { h.remove(id) }
}

func (h *hub) remove(id int) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if channel, ok := h.subscribers[id]; ok {
		delete(h.subscribers, id)
		close(channel)
	}
}

func (h *hub) publish(event schema.Event) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for id, channel := range h.subscribers {
		select {
		case channel <- event:
		default:
			h.logger.Warn("dropping slow event subscriber", "subscriber", id)
			delete(h.subscribers, id)
			close(channel)
		}
	}
}

func (h *hub) count() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subscribers)
}

func (h *hub) dropAll() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for id, channel := range h.subscribers {
		delete(h.subscribers, id)
		close(channel)
	}
}

// greeting is the first event of every subscription.
func (b *Backend) greeting() schema.Event {
	return schema.Event{Type: schema.EventStatusUpdate, Positions: b.Positions()}
}

// handleEvents streams events as Server-Sent Events, starting with a
// status_update of the current positions.
func (b *Backend) handleEvents(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		writeFailure(w, http.StatusInternalServerError, "streaming not supported")
		return
	}
	subscription, cancel := b.hub.subscribe()
	defer cancel()

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)

	send := func(event schema.Event) bool {
		data, err := schema.EncodeEventData(event)
		if err != nil {
			b.logger.Error("encoding event", "type", event.Type, "error", err)
			return true
		}
		if err := events.WriteSSE(w, string(event.Type), data); err != nil {
			return false
		}
		flusher.Flush()
		return true
	}

	if !send(b.greeting()) {
		return
	}
	for {
		select {
		case <-r.Context().Done():
			return
		case event, open := <-subscription:
			if !open || !send(event) {
				return
			}
		}
	}
}

// ServeEvents accepts subscribers on listener and writes each one CBOR
// event frames, starting with a status_update. It blocks until ctx is
// cancelled, then closes listener and waits for subscribers to end.
func (b *Backend) ServeEvents(ctx context.Context, listener net.Listener) error {
	go func() {
		<-ctx.Done()
		listener.Close()
	}()

	var active sync.WaitGroup
	defer active.Wait()
	for {
		conn, err := listener.Accept()
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, net.ErrClosed) {
				return nil
			}
			return fmt.Errorf("accepting event subscriber: %w", err)
		}
		active.Add(1)
		go func() {
			defer active.Done()
			b.serveSocketSubscriber(ctx, conn)
		}()
	}
}

func (b *Backend) serveSocketSubscriber(ctx context.Context, conn net.Conn) {
	defer conn.Close()
	subscription, cancel := b.hub.subscribe()
	defer cancel()

	encoder := codec.NewEncoder(conn)
	send := func(event schema.Event) bool {
		conn.SetWriteDeadline(time.Now().Add(writeTimeout))
		if err := encoder.Encode(event); err != nil {
			b.logger.Debug("event subscriber gone", "error", err)
			return false
		}
		return true
	}

	if !send(b.greeting()) {
		return
	}
	for {
		select {
		case <-ctx.Done():
			return
		case event, open := <-subscription:
			if !open || !send(event) {
				return
			}
		}
	}
}
