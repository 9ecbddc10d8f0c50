package client

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/papercomputeco/llmstxt/pkg/sse"
	"github.com/papercomputeco/llmstxt/pkg/utils"
)

// Event type tags carried on the "event:" line.
const (
	EventDiscovered = "discovered"
	EventProgress   = "progress"
	EventDone       = "done"
	EventError      = "error"
)

// Event is one application event decoded from a stream frame. The set of
// implementations is closed: DiscoveredEvent, ProgressEvent, DoneEvent and
// ErrorEvent.
type Event interface {
	// Type returns the event tag as it appears on the wire.
	Type() string

	sealed()
}

// DiscoveredEvent lists the pages the service is about to process.
type DiscoveredEvent struct {
	URLs  []string `json:"URLs"`
	Total int      `json:"Total"`
}

// ProgressEvent reports that one more page has been processed.
type ProgressEvent struct {
	CurrentURL string `json:"CurrentURL"`
	Done       int    `json:"Done"`
	Total      int    `json:"Total"`
}

// DoneEvent carries the final result. The service sends the llms.txt
// document as a JSON string but the payload is kept opaque.
type DoneEvent struct {
	Result json.RawMessage `json:"Result"`
}

// ErrorEvent reports a failure. Error is the message passed to OnError.
// Cause is set when the failure happened on the client side (a *StreamError)
// and nil when the service sent an error frame.
type ErrorEvent struct {
	Error string `json:"Error"`
	Cause error  `json:"-"`
}

func (DiscoveredEvent) Type() string { return EventDiscovered }
func (ProgressEvent) Type() string   { return EventProgress }
func (DoneEvent) Type() string       { return EventDone }
func (ErrorEvent) Type() string      { return EventError }

func (DiscoveredEvent) sealed() {}
func (ProgressEvent) sealed()   {}
func (DoneEvent) sealed()       {}
func (ErrorEvent) sealed()      {}

// Text returns the result as a string when the service sent a JSON string,
// otherwise the raw JSON text.
func (e DoneEvent) Text() string {
	var s string
	if err := json.Unmarshal(e.Result, &s); err == nil {
		return s
	}
	return string(e.Result)
}

// DecodeEvent turns a frame into an application event.
//
// Frames missing the event or data line, and frames with an unknown event
// type, return a nil Event and a nil error: they are noise or a newer
// protocol revision, not failures. A frame whose data is not valid JSON, is
// not a JSON object, or does not fit its event type, returns an error
// wrapping ErrMalformedFrame.
func DecodeEvent(frame sse.Event) (Event, error) {
	if !frame.Complete() {
		return nil, nil
	}

	data := []byte(frame.Data)
	if !json.Valid(data) {
		return nil, malformed(frame.Type, fmt.Errorf("invalid JSON %q", utils.Truncate(frame.Data, 64)))
	}

	switch frame.Type {
	case EventDiscovered, EventProgress, EventDone, EventError:
		if !isObject(data) {
			return nil, malformed(frame.Type, fmt.Errorf("payload %q is not an object", utils.Truncate(frame.Data, 64)))
		}
	default:
		return nil, nil
	}

	switch frame.Type {
	case EventDiscovered:
		var ev DiscoveredEvent
		if err := json.Unmarshal(data, &ev); err != nil {
			return nil, malformed(frame.Type, err)
		}
		return ev, nil

	case EventProgress:
		var ev ProgressEvent
		if err := json.Unmarshal(data, &ev); err != nil {
			return nil, malformed(frame.Type, err)
		}
		return ev, nil

	case EventDone:
		var ev DoneEvent
		if err := json.Unmarshal(data, &ev); err != nil {
			return nil, malformed(frame.Type, err)
		}
		return ev, nil

	case EventError:
		var ev ErrorEvent
		if err := json.Unmarshal(data, &ev); err != nil {
			return nil, malformed(frame.Type, err)
		}
		return ev, nil
	}
	return nil, nil
}

// isObject reports whether valid JSON data is an object. null, arrays and
// scalars carry none of the fields an event needs.
func isObject(data []byte) bool {
	trimmed := bytes.TrimLeft(data, " \t\r\n")
	return len(trimmed) > 0 && trimmed[0] == '{'
}
