package client

import "encoding/json"

// Handlers receive stream events. All four are required. They are called
// sequentially from the stream's goroutine, in frame order, and never after
// Stream.Cancel has returned.
type Handlers struct {
	OnDiscovered func(urls []string, total int)
	OnProgress   func(currentURL string, done, total int)
	OnDone       func(result json.RawMessage)
	OnError      func(message string)
}

func (h Handlers) validate() error {
	if h.OnDiscovered == nil || h.OnProgress == nil || h.OnDone == nil || h.OnError == nil {
		return ErrMissingHandler
	}
	return nil
}

// Dispatch calls the handler matching ev.
func (h Handlers) Dispatch(ev Event) {
	switch e := ev.(type) {
	case DiscoveredEvent:
		h.OnDiscovered(e.URLs, e.Total)
	case ProgressEvent:
		h.OnProgress(e.CurrentURL, e.Done, e.Total)
	case DoneEvent:
		h.OnDone(e.Result)
	case ErrorEvent:
		h.OnError(e.Error)
	}
}

// FuncHandlers adapts a single callback into Handlers, rebuilding the typed
// event for each call. Useful for consumers that switch on Event.
func FuncHandlers(fn func(Event)) Handlers {
	return Handlers{
		OnDiscovered: func(urls []string, total int) {
			fn(DiscoveredEvent{URLs: urls, Total: total})
		},
		OnProgress: func(currentURL string, done, total int) {
			fn(ProgressEvent{CurrentURL: currentURL, Done: done, Total: total})
		},
		OnDone: func(result json.RawMessage) {
			fn(DoneEvent{Result: result})
		},
		OnError: func(message string) {
			fn(ErrorEvent{Error: message})
		},
	}
}
