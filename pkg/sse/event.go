// Package sse provides a minimal, purpose-built decoder for the text/event-stream
// responses produced by the llms.txt generation service.
//
// The decoder is push-based: the caller owns the read loop and hands every raw
// chunk it receives to Decoder.Feed. This keeps cancellation checks and body
// lifetime in the hands of the caller while the decoder only deals with
// reassembling frames across arbitrary chunk boundaries.
//
// This package intentionally does NOT provide SSE writer or server
// capabilities.
//
// See the SSE specification:
// https://html.spec.whatwg.org/multipage/server-sent-events.html
package sse

// Event represents a single parsed SSE frame, delimited by a blank line
// in the upstream byte stream.
type Event struct {
	// Type is the SSE event type from the first "event: " line.
	// An empty string means no event field was present.
	Type string

	// Data is the contents of the first "data: " line of the frame.
	Data string

	// ID is the last event ID from the "id: " line, if present.
	ID string

	// HasData reports whether a "data: " line was present at all. A frame
	// carrying "data: " with an empty value still has data.
	HasData bool
}

// Complete reports whether the frame carries both an event type and a data
// line, the minimum the generation protocol needs to dispatch it.
func (e Event) Complete() bool {
	return e.Type != "" && e.HasData
}
