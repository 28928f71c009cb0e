// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package mockbackend is an in-memory servo panel backend for demos
// and tests. It serves the panel's HTTP API and pushes events over SSE
// at /api/events or as CBOR frames on a Unix socket.
//
// Servo positions and scenes live in memory and follow the reference
// backend's rules: positions are clamped to the configured range
// except the off-sentinel 0, nudges clamp to the range, saving keeps a
// slot's metadata unless the request replaces it, and lock flags are
// stored but never enforced (the lock policy belongs to the client).
//
// Tests can inject failures per operation with [Backend.Fail], read the
// recorded requests with [Backend.Requests], and push arbitrary events
// with [Backend.Publish].
package mockbackend
