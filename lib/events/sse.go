// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package events

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// SSEEvent is one dispatched Server-Sent Event.
type SSEEvent struct {
	// Name is the "event:" field, empty for the default event.
	Name string

	// Data is the "data:" lines joined with newlines.
	Data string
}

// SSEScanner reads Server-Sent Events from a stream.
//
// Blocks are separated by blank lines. A block is dispatched only when
// it carried at least one data line; comment lines (leading ":") and
// unknown fields are skipped.
//
//	scanner := NewSSEScanner(body)
//	for scanner.Next() {
//	    event := scanner.Event()
//	}
//	err := scanner.Err()
type SSEScanner struct {
	reader  *bufio.Reader
	current SSEEvent
	err     error
}

// NewSSEScanner returns a scanner reading from reader.
func NewSSEScanner(reader io.Reader) *SSEScanner {
	return &SSEScanner{reader: bufio.NewReaderSize(reader, 16*1024)}
}

// Next advances to the next event. It returns false at the end of the
// stream or on a read error; Err tells them apart.
func (scanner *SSEScanner) Next() bool {
	if scanner.err != nil {
		return false
	}

	var name string
	var data []string
	dispatch := func() bool {
		scanner.current = SSEEvent{Name: name, Data: strings.Join(data, "\n")}
		return true
	}

	for {
		line, err := scanner.reader.ReadString('\n')
		if err != nil {
			scanner.err = err
			// A final block without its trailing blank line still
			// counts.
			if line == "" {
				if data != nil {
					return dispatch()
				}
				return false
			}
		}
		line = strings.TrimRight(line, "\r\n")

		if line == "" {
			if data != nil {
				return dispatch()
			}
			name = ""
			if scanner.err != nil {
				return false
			}
			continue
		}
		if strings.HasPrefix(line, ":") {
			continue
		}

		field, value, _ := strings.Cut(line, ":")
		value = strings.TrimPrefix(value, " ")
		switch field {
		case "event":
			name = value
		case "data":
			data = append(data, value)
		}

		if scanner.err != nil {
			if data != nil {
				return dispatch()
			}
			return false
		}
	}
}

// Event returns the event read by the last successful Next.
func (scanner *SSEScanner) Event() SSEEvent {
	return scanner.current
}

// Err returns the error that stopped the scanner, or nil at a clean
// end of stream.
func (scanner *SSEScanner) Err() error {
	if scanner.err == io.EOF {
		return nil
	}
	return scanner.err
}

// WriteSSE writes one event in Server-Sent Events framing. Data
// containing newlines is split across data lines.
func WriteSSE(w io.Writer, name string, data []byte) error {
	var builder strings.Builder
	if name != "" {
		fmt.Fprintf(&builder, "event: %s\n", name)
	}
	for line := range strings.SplitSeq(string(data), "\n") {
		fmt.Fprintf(&builder, "data: %s\n", line)
	}
	builder.WriteString("\n")
	_, err := io.WriteString(w, builder.String())
	return err
}
