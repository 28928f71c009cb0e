// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package schema defines the wire contract between the panel and a
// servo backend: HTTP request and response bodies and push events.
//
// HTTP bodies are JSON. Every response embeds [Response], whose
// Success flag is authoritative; Error carries the backend's message
// when Success is false.
//
// Push events arrive either as Server-Sent Events, where the event
// name is the [EventType] and the data is the JSON payload produced by
// [EncodeEventData], or as CBOR frames over a Unix socket, where each
// frame is a whole [Event]. The struct tags are `json` only; the CBOR
// codec reads them as well.
//
// Positions are keyed by servo index. The reference backend encodes
// index-keyed dictionaries as JSON objects with decimal string keys,
// which encoding/json maps onto map[int]int directly. [ServoNames] and
// [GateTable] additionally accept plain JSON arrays.
//
// This package depends on no other servopanel packages except
// lib/servo for the nudge direction.
package schema
