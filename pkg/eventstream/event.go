// Package eventstream mirrors streaming generation events to an event
// stream backend so other systems can follow generations as they happen.
package eventstream

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/papercomputeco/llmstxt/pkg/client"
)

const (
	// SchemaVersionV1 is the first version of the event payload schema.
	SchemaVersionV1 = 1

	eventTypePrefix = "llmstxt.generation."
)

// Event types, one per stream event variant.
const (
	EventTypeDiscovered = eventTypePrefix + client.EventDiscovered
	EventTypeProgress   = eventTypePrefix + client.EventProgress
	EventTypeDone       = eventTypePrefix + client.EventDone
	EventTypeError      = eventTypePrefix + client.EventError
)

// GenerationEvent is a transport-neutral envelope around one stream event.
type GenerationEvent struct {
	SchemaVersion int             `json:"schema_version"`
	EventType     string          `json:"event_type"`
	EventID       string          `json:"event_id"`
	EmittedAt     time.Time       `json:"emitted_at"`
	Source        EventSource     `json:"source"`
	Payload       json.RawMessage `json:"payload"`
}

// EventSource identifies the generation the event belongs to.
type EventSource struct {
	URL string `json:"url"`
}

// NewGenerationEvent wraps ev for publishing. The payload uses the same
// field names as the stream's data lines.
func NewGenerationEvent(source EventSource, ev client.Event) (*GenerationEvent, error) {
	if ev == nil {
		return nil, ErrNilEvent
	}

	payload, err := json.Marshal(ev)
	if err != nil {
		return nil, fmt.Errorf("encoding %s payload: %w", ev.Type(), err)
	}

	return &GenerationEvent{
		SchemaVersion: SchemaVersionV1,
		EventType:     eventTypePrefix + ev.Type(),
		EventID:       uuid.NewString(),
		EmittedAt:     time.Now().UTC(),
		Source:        source,
		Payload:       payload,
	}, nil
}
