// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package panel

import (
	"log/slog"
	"sync"
	"time"
)

// LogCapacity is the number of entries the panel log keeps.
const LogCapacity = 50

// LevelSuccess marks confirmations such as a completed save. It sorts
// between Info and Warn, so a handler at Info level shows it.
const LevelSuccess = slog.Level(2)

// LevelName returns the panel's name for a level: "debug", "info",
// "success", "warn" or "error".
func LevelName(level slog.Level) string {
	switch {
	case level < slog.LevelInfo:
		return "debug"
	case level < LevelSuccess:
		return "info"
	case level < slog.LevelWarn:
		return "success"
	case level < slog.LevelError:
		return "warn"
	default:
		return "error"
	}
}

// ReplaceLevelAttr is a slog.HandlerOptions.ReplaceAttr that writes
// levels with LevelName, so success records read "success" rather
// than "INFO+2" in file logs.
func ReplaceLevelAttr(groups []string, attr slog.Attr) slog.Attr {
	if len(groups) == 0 && attr.Key == slog.LevelKey {
		if level, ok := attr.Value.Any().(slog.Level); ok {
			return slog.String(slog.LevelKey, LevelName(level))
		}
	}
	return attr
}

// Entry is one line of the panel log.
type Entry struct {
	Time    time.Time
	Level   slog.Level
	Message string
}

// Log is a fixed-capacity FIFO of entries. When full, appending
// evicts the oldest entry. It is safe for concurrent use.
type Log struct {
	mu       sync.Mutex
	entries  []Entry
	start    int
	capacity int
	appended uint64
}

// NewLog returns a Log holding at most capacity entries. A
// non-positive capacity means LogCapacity.
func NewLog(capacity int) *Log {
	if capacity <= 0 {
		capacity = LogCapacity
	}
	return &Log{capacity: capacity, entries: make([]Entry, 0, capacity)}
}

// Append adds an entry, evicting the oldest when full.
func (l *Log) Append(entry Entry) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.appended++
	if len(l.entries) < l.capacity {
		l.entries = append(l.entries, entry)
		return
	}
	l.entries[l.start] = entry
	l.start = (l.start + 1) % l.capacity
}

// Entries returns the retained entries, oldest first.
func (l *Log) Entries() []Entry {
	l.mu.Lock()
	defer l.mu.Unlock()

	result := make([]Entry, 0, len(l.entries))
	result = append(result, l.entries[l.start:]...)
	result = append(result, l.entries[:l.start]...)
	return result
}

// Len returns the number of retained entries.
func (l *Log) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.entries)
}

// Appended returns how many entries were ever appended. The view
// compares it between frames to notice new lines.
func (l *Log) Appended() uint64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.appended
}
