package client

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"

	"github.com/papercomputeco/llmstxt/pkg/sse"
)

// Stream is the handle for one in-flight streaming generation.
type Stream struct {
	id     string
	ctx    context.Context
	cancel context.CancelCauseFunc
	done   chan struct{}

	// mu is held while the read loop checks for cancellation and invokes a
	// handler, so that no handler starts once Cancel has returned.
	mu        sync.Mutex
	inHandler atomic.Bool
}

// ID returns the request id sent in the X-Request-Id header.
func (s *Stream) ID() string {
	return s.id
}

// Cancel aborts the exchange. No handler invocation starts after Cancel
// returns and the abort is not reported through OnError. Calling Cancel more
// than once, or after the stream finished, has no further effect. Cancel may
// be called from inside a handler.
func (s *Stream) Cancel() {
	s.cancel(ErrStreamCancelled)

	// Wait for a dispatch that passed its cancellation check but has not
	// entered the handler yet. Skipped when a handler is already running,
	// which also covers Cancel being called from that handler.
	if !s.inHandler.Load() {
		s.mu.Lock()
		s.mu.Unlock() //nolint:staticcheck // empty critical section is the barrier
	}
}

// deliver runs fn unless the stream has been cancelled.
func (s *Stream) deliver(fn func()) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if aborted(s.ctx) {
		return false
	}

	s.inHandler.Store(true)
	defer s.inHandler.Store(false)
	fn()
	return true
}

// Done is closed once the read loop has exited and the response body has
// been closed.
func (s *Stream) Done() <-chan struct{} {
	return s.done
}

// Wait blocks until the stream has finished.
func (s *Stream) Wait() {
	<-s.done
}

// GenerateStream starts a streaming generation for siteURL and returns
// immediately. Frames are decoded and dispatched to h on a separate
// goroutine, strictly in the order they appear in the response body.
//
// A non-success status, a failure to send the request, a read fault or a
// malformed frame each produce exactly one OnError call, after which the
// stream stops. Cancelling ctx or calling Stream.Cancel stops the stream
// silently. An unterminated frame left when the body ends is dropped.
func (c *Client) GenerateStream(ctx context.Context, siteURL string, h Handlers) (*Stream, error) {
	if err := h.validate(); err != nil {
		return nil, err
	}

	onError := h.OnError
	return c.start(ctx, siteURL, h, func(msg string, _ error) {
		onError(msg)
	})
}

// Events is GenerateStream for range-loop consumers. The returned channel
// yields the same events the handlers would see, in order, and is closed
// when the stream finishes. Client side failures arrive as an ErrorEvent
// whose Cause is a *StreamError.
//
// The consumer must keep draining the channel or cancel the stream.
func (c *Client) Events(ctx context.Context, siteURL string) (<-chan Event, *Stream, error) {
	ch := make(chan Event, 16)

	var s *Stream
	started := make(chan struct{})
	send := func(ev Event) {
		<-started
		select {
		case ch <- ev:
		case <-s.ctx.Done():
		}
	}

	var err error
	s, err = c.start(ctx, siteURL, FuncHandlers(send), func(msg string, cause error) {
		send(ErrorEvent{Error: msg, Cause: cause})
	})
	if err != nil {
		return nil, nil, err
	}
	close(started)

	go func() {
		<-s.done
		close(ch)
	}()

	return ch, s, nil
}

// start launches the read loop. fail receives client side failures together
// with their *StreamError; service sent error frames go through h.OnError.
func (c *Client) start(ctx context.Context, siteURL string, h Handlers, fail func(string, error)) (*Stream, error) {
	if siteURL == "" {
		return nil, ErrEmptyURL
	}

	streamCtx, cancel := context.WithCancelCause(ctx)
	s := &Stream{
		id:     uuid.NewString(),
		ctx:    streamCtx,
		cancel: cancel,
		done:   make(chan struct{}),
	}

	go func() {
		defer close(s.done)
		defer cancel(nil)
		c.run(s, siteURL, h, fail)
	}()

	return s, nil
}

// run performs the exchange and owns the response body for its lifetime.
func (c *Client) run(s *Stream, siteURL string, h Handlers, fail func(string, error)) {
	ctx := s.ctx
	log := c.logger.With(slog.String("request_id", s.id), slog.String("url", siteURL))

	report := func(err *StreamError) {
		if aborted(ctx) {
			log.Debug("stream cancelled", slog.String("during", err.Kind.Error()))
			return
		}
		log.Debug("stream failed",
			slog.String("kind", err.Kind.Error()),
			slog.Int("status", err.StatusCode),
			slog.String("error", err.Message),
		)
		s.deliver(func() { fail(err.Message, err) })
	}

	req, err := c.newRequest(ctx, c.streamPath, siteURL, s.id, "text/event-stream")
	if err != nil {
		report(sendFailed(err))
		return
	}

	log.Debug("opening stream", slog.String("endpoint", req.URL.String()))

	resp, err := c.httpClient.Do(req)
	if err != nil {
		report(sendFailed(err))
		return
	}
	defer resp.Body.Close()

	if !isSuccess(resp.StatusCode) {
		text, err := io.ReadAll(resp.Body)
		if err != nil && aborted(ctx) {
			log.Debug("stream cancelled while reading error body")
			return
		}
		report(requestFailed(resp.StatusCode, string(text)))
		return
	}

	var (
		dec    = sse.NewDecoder()
		buf    = make([]byte, c.readBufferSize)
		frames int
	)

	for {
		n, readErr := resp.Body.Read(buf)

		if n > 0 {
			for _, frame := range dec.Feed(buf[:n]) {
				// Frames already buffered are not delivered once the stream
				// has been cancelled.
				if ctx.Err() != nil {
					report(transportFault(context.Cause(ctx)))
					return
				}

				ev, err := DecodeEvent(frame)
				if err != nil {
					report(transportFault(err))
					return
				}
				if ev == nil {
					log.Debug("skipping frame",
						slog.String("event", frame.Type),
						slog.Bool("has_data", frame.HasData),
					)
					continue
				}

				if !s.deliver(func() { h.Dispatch(ev) }) {
					report(transportFault(context.Cause(ctx)))
					return
				}
				frames++
			}
		}

		if errors.Is(readErr, io.EOF) {
			if pending := dec.Buffered(); pending > 0 {
				log.Debug("dropping unterminated trailing frame", slog.Int("bytes", pending))
			}
			dec.Reset()
			log.Debug("stream finished", slog.Int("events", frames))
			return
		}

		if readErr != nil {
			if ctx.Err() != nil {
				readErr = context.Cause(ctx)
			}
			report(transportFault(readErr))
			return
		}
	}
}

// aborted reports whether ctx ended because the stream was cancelled,
// either through Stream.Cancel or by the caller cancelling the parent
// context. Deadlines are not aborts and still reach OnError.
func aborted(ctx context.Context) bool {
	if errors.Is(context.Cause(ctx), ErrStreamCancelled) {
		return true
	}
	return errors.Is(ctx.Err(), context.Canceled)
}
