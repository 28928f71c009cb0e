// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package codec holds the CBOR configuration for push frames carried
// over a Unix socket.
//
// The HTTP API and the Server-Sent Events stream are JSON. The socket
// transport carries the same payloads as a CBOR sequence, one map per
// event, encoded with Core Deterministic Encoding (RFC 8949 §4.2):
// sorted map keys, smallest integer encoding, no indefinite-length
// items.
//
// Push payload types carry only `json` struct tags. fxamacker/cbor
// reads `json` tags when `cbor` tags are absent, so one tag set names
// the fields in both encodings:
//
//	encoder := codec.NewEncoder(conn)
//	err := encoder.Encode(frame)
//
//	decoder := codec.NewDecoder(conn)
//	err = decoder.Decode(&frame)
package codec
