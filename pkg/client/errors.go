package client

import (
	"errors"
	"fmt"
	"strings"
)

const (
	// defaultGenerateError is used when a failed one-shot response carries
	// neither a detail nor a title.
	defaultGenerateError = "Generation failed"

	// defaultStreamError is used when a failed stream response has an empty body.
	defaultStreamError = "Stream request failed"
)

var (
	// ErrEmptyURL is returned when no source URL was given.
	ErrEmptyURL = errors.New("url is required")

	// ErrMissingHandler is returned by GenerateStream when a handler is nil.
	ErrMissingHandler = errors.New("all stream handlers are required")

	// ErrStreamCancelled is the cancellation cause set by Stream.Cancel.
	ErrStreamCancelled = errors.New("stream cancelled")

	// ErrRequestFailed classifies failures before any frame was read:
	// the request could not be sent or the service answered non-2xx.
	ErrRequestFailed = errors.New("request failed")

	// ErrTransportFault classifies failures while reading the stream.
	ErrTransportFault = errors.New("transport fault")

	// ErrMalformedFrame marks a frame whose data line is not valid JSON for
	// its event type.
	ErrMalformedFrame = errors.New("malformed frame")
)

// GenerationError is returned by Generate when the service answers with a
// non-success status.
type GenerationError struct {
	StatusCode int
	Message    string
}

func (e *GenerationError) Error() string {
	return e.Message
}

// errorBody is the problem document the service returns on failure.
type errorBody struct {
	Detail string `json:"detail"`
	Title  string `json:"title"`
}

func newGenerationError(status int, body errorBody) *GenerationError {
	msg := body.Detail
	if msg == "" {
		msg = body.Title
	}
	if msg == "" {
		msg = defaultGenerateError
	}
	return &GenerationError{StatusCode: status, Message: msg}
}

// StreamError describes why a stream ended with an error callback. Kind is
// ErrRequestFailed or ErrTransportFault.
type StreamError struct {
	Kind       error
	StatusCode int
	Message    string
	Err        error
}

func (e *StreamError) Error() string {
	return e.Message
}

func (e *StreamError) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

// requestFailed keeps the response text as sent. Only a body that is empty
// or all whitespace falls back to the default message.
func requestFailed(status int, message string) *StreamError {
	if strings.TrimSpace(message) == "" {
		message = defaultStreamError
	}
	return &StreamError{Kind: ErrRequestFailed, StatusCode: status, Message: message}
}

func sendFailed(err error) *StreamError {
	return &StreamError{Kind: ErrRequestFailed, Message: err.Error(), Err: err}
}

func transportFault(err error) *StreamError {
	return &StreamError{Kind: ErrTransportFault, Message: err.Error(), Err: err}
}

func malformed(eventType string, err error) error {
	return fmt.Errorf("%w: %s event: %w", ErrMalformedFrame, eventType, err)
}
