// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package events

import (
	"context"
	"fmt"
	"net"
	"time"

	"github.com/bureau-foundation/servopanel/lib/codec"
	"github.com/bureau-foundation/servopanel/lib/schema"
)

const dialTimeout = 5 * time.Second

type socketTransport struct {
	path string
}

func (transport *socketTransport) open(ctx context.Context) (connection, error) {
	dialer := net.Dialer{Timeout: dialTimeout}
	conn, err := dialer.DialContext(ctx, "unix", transport.path)
	if err != nil {
		return nil, fmt.Errorf("connecting: %w", err)
	}
	return &socketConnection{conn: conn, decoder: codec.NewDecoder(conn)}, nil
}

type socketConnection struct {
	conn    net.Conn
	decoder *codec.Decoder
}

func (connection *socketConnection) next() (schema.Event, error) {
	var frame codec.RawMessage
	if err := connection.decoder.Decode(&frame); err != nil {
		// A malformed CBOR item leaves the decoder at an unknown
		// offset, so the connection is abandoned.
		return schema.Event{}, fmt.Errorf("reading frame: %w", err)
	}
	var event schema.Event
	if err := codec.Unmarshal(frame, &event); err != nil {
		notation, _ := codec.Diagnose(frame)
		return schema.Event{}, fmt.Errorf("decoding frame %s: %w", notation, err)
	}
	return event, nil
}

func (connection *socketConnection) close() error {
	return connection.conn.Close()
}
