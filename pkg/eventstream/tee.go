package eventstream

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/papercomputeco/llmstxt/pkg/client"
)

// Tee returns handlers that publish every event to p before passing it on
// to h. A publish failure is logged and never interrupts the stream.
func Tee(ctx context.Context, source EventSource, h client.Handlers, p Publisher, logger *slog.Logger) client.Handlers {
	publish := func(ev client.Event) {
		gev, err := NewGenerationEvent(source, ev)
		if err == nil {
			err = p.Publish(ctx, gev)
		}
		if err != nil {
			logger.Warn("failed to publish generation event",
				slog.String("event_type", ev.Type()),
				slog.String("url", source.URL),
				slog.String("error", err.Error()),
			)
		}
	}

	return client.Handlers{
		OnDiscovered: func(urls []string, total int) {
			publish(client.DiscoveredEvent{URLs: urls, Total: total})
			h.OnDiscovered(urls, total)
		},
		OnProgress: func(currentURL string, done, total int) {
			publish(client.ProgressEvent{CurrentURL: currentURL, Done: done, Total: total})
			h.OnProgress(currentURL, done, total)
		},
		OnDone: func(result json.RawMessage) {
			publish(client.DoneEvent{Result: result})
			h.OnDone(result)
		},
		OnError: func(message string) {
			publish(client.ErrorEvent{Error: message})
			h.OnError(message)
		},
	}
}
