package sse

import (
	"bytes"
	"strings"
)

// delimiter terminates a frame. Splitting happens on raw bytes: neither '\n'
// byte can occur inside a multi-byte UTF-8 sequence, so a rune split across
// two chunks is always reassembled before the frame is converted to text.
var delimiter = []byte("\n\n")

// Field prefixes. The space after the colon is part of the prefix.
const (
	eventPrefix = "event: "
	dataPrefix  = "data: "
	idPrefix    = "id: "
)

// Decoder reassembles SSE frames from a sequence of byte chunks of any size.
//
// ┌──────────────┐   ┌──────────────────┐   ┌──────────────┐
// │ chunk []byte │──▶│ Decoder.Feed()   │──▶│ []Event      │
// └──────────────┘   │ (buffer + split) │   └──────────────┘
//                    └──────────────────┘
//
// The internal buffer only ever holds bytes that have not yet been terminated
// by a blank line. A Decoder is owned by a single read loop and is not safe
// for concurrent use.
type Decoder struct {
	buf []byte
}

// NewDecoder returns an empty Decoder.
func NewDecoder() *Decoder {
	return &Decoder{}
}

// Feed appends chunk to the buffer and returns every frame that is now
// complete, in stream order. The trailing, possibly partial, segment stays
// buffered until a later chunk terminates it.
//
// Segments that contain nothing but blank lines or comments (keep-alives)
// produce no Event.
func (d *Decoder) Feed(chunk []byte) []Event {
	// Bytes already scanned hold no delimiter, except possibly one split
	// across the old tail and the new chunk.
	from := max(0, len(d.buf)-len(delimiter)+1)
	d.buf = append(d.buf, chunk...)

	var events []Event
	for {
		idx := bytes.Index(d.buf[from:], delimiter)
		if idx < 0 {
			break
		}
		idx += from
		from = 0

		raw := string(d.buf[:idx])
		d.buf = d.buf[idx+len(delimiter):]

		if ev, ok := parseFrame(raw); ok {
			events = append(events, ev)
		}
	}

	// Release the backing array once it has been fully drained so a long
	// stream does not pin the largest chunk it ever saw.
	if len(d.buf) == 0 {
		d.buf = nil
	}

	return events
}

// Buffered returns the number of bytes held for a frame that has not been
// terminated yet.
func (d *Decoder) Buffered() int {
	return len(d.buf)
}

// Reset discards any unterminated trailing frame.
func (d *Decoder) Reset() {
	d.buf = nil
}

// ParseFrame parses a single raw frame (without its terminating blank line).
func ParseFrame(raw string) Event {
	ev, _ := parseFrame(raw)
	return ev
}

// parseFrame returns the parsed event and whether any field was seen.
func parseFrame(raw string) (Event, bool) {
	raw = strings.ToValidUTF8(raw, "�")

	var (
		ev      Event
		seen    bool
		hasType bool
	)

	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimSuffix(line, "\r")
		if line == "" {
			continue
		}

		switch {
		case strings.HasPrefix(line, eventPrefix):
			seen = true
			if !hasType {
				ev.Type = line[len(eventPrefix):]
				hasType = true
			}
		case strings.HasPrefix(line, dataPrefix):
			seen = true
			if !ev.HasData {
				ev.Data = line[len(dataPrefix):]
				ev.HasData = true
			}
		case strings.HasPrefix(line, idPrefix):
			seen = true
			ev.ID = line[len(idPrefix):]
		default:
			// Comments, "retry", unknown fields and fields written without
			// the space after the colon are ignored.
		}
	}

	return ev, seen
}
