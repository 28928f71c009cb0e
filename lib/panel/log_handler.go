// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package panel

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync/atomic"
)

// LogHandler is a slog.Handler that appends records to a panel Log as
// one-line summaries: "message (key=value, ...)".
//
// After each append it calls the function registered with SetNotify,
// which the terminal view uses to schedule a redraw. Handlers derived
// with WithAttrs or WithGroup share the Log and the notify function.
type LogHandler struct {
	log    *Log
	level  slog.Leveler
	notify *atomic.Pointer[func(Entry)]
	attrs  []slog.Attr
	prefix string
}

// NewLogHandler returns a handler writing records at or above level
// into log.
func NewLogHandler(log *Log, level slog.Leveler) *LogHandler {
	return &LogHandler{
		log:    log,
		level:  level,
		notify: &atomic.Pointer[func(Entry)]{},
	}
}

// SetNotify registers fn to run after every append. It is called on
// the logging goroutine and must not block. Pass nil to stop
// notifications.
func (handler *LogHandler) SetNotify(fn func(Entry)) {
	if fn == nil {
		handler.notify.Store(nil)
		return
	}
	handler.notify.Store(&fn)
}

// Enabled implements slog.Handler.
func (handler *LogHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= handler.level.Level()
}

// Handle implements slog.Handler.
func (handler *LogHandler) Handle(_ context.Context, record slog.Record) error {
	var parts []string
	for _, attr := range handler.attrs {
		parts = appendAttr(parts, "", attr)
	}
	record.Attrs(func(attr slog.Attr) bool {
		parts = appendAttr(parts, handler.prefix, attr)
		return true
	})

	message := record.Message
	if len(parts) > 0 {
		message += " (" + strings.Join(parts, ", ") + ")"
	}
	entry := Entry{Time: record.Time, Level: record.Level, Message: message}
	handler.log.Append(entry)

	if fn := handler.notify.Load(); fn != nil {
		(*fn)(entry)
	}
	return nil
}

// WithAttrs implements slog.Handler.
func (handler *LogHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	derived := *handler
	derived.attrs = make([]slog.Attr, 0, len(handler.attrs)+len(attrs))
	derived.attrs = append(derived.attrs, handler.attrs...)
	for _, attr := range attrs {
		derived.attrs = append(derived.attrs, slog.Attr{Key: handler.prefix + attr.Key, Value: attr.Value})
	}
	return &derived
}

// WithGroup implements slog.Handler. Group names prefix attribute keys
// with "group.".
func (handler *LogHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return handler
	}
	derived := *handler
	derived.prefix = handler.prefix + name + "."
	return &derived
}

func appendAttr(parts []string, prefix string, attr slog.Attr) []string {
	attr.Value = attr.Value.Resolve()
	if attr.Equal(slog.Attr{}) {
		return parts
	}
	if attr.Value.Kind() == slog.KindGroup {
		groupPrefix := prefix
		if attr.Key != "" {
			groupPrefix += attr.Key + "."
		}
		for _, member := range attr.Value.Group() {
			parts = appendAttr(parts, groupPrefix, member)
		}
		return parts
	}
	return append(parts, fmt.Sprintf("%s%s=%s", prefix, attr.Key, attr.Value))
}
