// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package events consumes a backend's push channel.
//
// A [Stream] connects to one endpoint and delivers [schema.Event]
// values on a buffered channel. Two transports are supported, chosen
// by the endpoint URL:
//
//   - http:// or https:// -- Server-Sent Events. The SSE event name is
//     the event type and the data field is its JSON payload.
//   - unix:///path -- a CBOR sequence over a Unix socket, one
//     [schema.Event] map per frame, decoded with lib/codec.
//
// The stream synthesizes [schema.EventConnect] once a connection is
// established and [schema.EventDisconnect] when an established
// connection ends. It then reconnects with exponential backoff, 1s
// doubling to 30s, reset after every successful connection. Backend
// commands are never retried here; reconnecting is what a browser
// push client does on its own.
//
// Event types the panel does not know are dropped at debug level so
// a newer backend can add events without breaking older panels.
package events
