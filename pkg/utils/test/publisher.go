package testutils

import (
	"context"
	"errors"
	"sync"

	"github.com/papercomputeco/llmstxt/pkg/eventstream"
)

// MockPublisher is a test eventstream publisher that records published events.
type MockPublisher struct {
	mu     sync.Mutex
	events []*eventstream.GenerationEvent
	closed bool

	// FailPublish causes Publish to return an error.
	FailPublish bool
}

// NewMockPublisher creates a new mock publisher.
func NewMockPublisher() *MockPublisher {
	return &MockPublisher{}
}

func (m *MockPublisher) Publish(_ context.Context, event *eventstream.GenerationEvent) error {
	if event == nil {
		return eventstream.ErrNilEvent
	}
	if m.FailPublish {
		return errors.New("mock publish failure")
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, event)
	return nil
}

// Events returns the published events in order.
func (m *MockPublisher) Events() []*eventstream.GenerationEvent {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*eventstream.GenerationEvent, len(m.events))
	copy(out, m.events)
	return out
}

// EventTypes returns the event type of every published event.
func (m *MockPublisher) EventTypes() []string {
	var out []string
	for _, ev := range m.Events() {
		out = append(out, ev.EventType)
	}
	return out
}

func (m *MockPublisher) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}

// Closed reports whether Close was called.
func (m *MockPublisher) Closed() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.closed
}
