package generatecmder

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/papercomputeco/llmstxt/cmd/llmstxt/setup"
	"github.com/papercomputeco/llmstxt/pkg/archive"
	"github.com/papercomputeco/llmstxt/pkg/client"
	"github.com/papercomputeco/llmstxt/pkg/cliui"
	"github.com/papercomputeco/llmstxt/pkg/eventstream"
)

// streamOutcome is what a streaming run ended with.
type streamOutcome struct {
	result    string
	hasResult bool
	errMsg    string
	total     int
	cancelled bool
}

func (o streamOutcome) err() error {
	switch {
	case o.cancelled:
		return ErrCancelled
	case o.errMsg != "":
		return fmt.Errorf("generation failed: %s", o.errMsg)
	case !o.hasResult:
		return fmt.Errorf("generation failed: stream ended without a result")
	}
	return nil
}

// runStream performs a streaming generation, showing progress either in the
// live view or as plain lines on stderr.
func (c *generateCommander) runStream(ctx context.Context, siteURL string, timeout time.Duration) error {
	ctx, cancel := withTimeout(ctx, timeout)
	defer cancel()

	publisher, err := setup.NewPublisher(c.cfg, c.logger)
	if err != nil {
		return err
	}
	defer publisher.Close()

	var outcome streamOutcome
	if c.interactive {
		outcome, err = c.streamLive(ctx, siteURL, publisher)
	} else {
		outcome, err = c.streamPlain(ctx, siteURL, publisher)
	}
	if err != nil {
		return err
	}
	if err := outcome.err(); err != nil {
		return err
	}

	c.saveRecord(ctx, archive.NewRecord(siteURL, outcome.result, archive.ModeStream, outcome.total))
	return c.printDocument(outcome.result)
}

// streamPlain prints one line per event and cancels the stream on SIGINT.
func (c *generateCommander) streamPlain(ctx context.Context, siteURL string, publisher eventstream.Publisher) (streamOutcome, error) {
	var outcome streamOutcome

	handlers := client.Handlers{
		OnDiscovered: func(urls []string, total int) {
			outcome.total = total
			fmt.Fprintf(c.stderr, "%s Discovered %d pages\n", cliui.SuccessMark, total)
		},
		OnProgress: func(currentURL string, done, total int) {
			outcome.total = total
			fmt.Fprintln(c.stderr, cliui.ProgressLine(done, total, currentURL))
		},
		OnDone: func(result json.RawMessage) {
			outcome.result = client.DoneEvent{Result: result}.Text()
			outcome.hasResult = true
		},
		OnError: func(message string) {
			outcome.errMsg = message
		},
	}
	handlers = eventstream.Tee(ctx, eventstream.EventSource{URL: siteURL}, handlers, publisher, c.logger)

	stream, err := c.client.GenerateStream(ctx, siteURL, handlers)
	if err != nil {
		return outcome, err
	}
	c.logger.Debug("stream started", slog.String("request_id", stream.ID()))

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	interrupted := false
	select {
	case <-stream.Done():
	case sig := <-sigCh:
		c.logger.Debug("received signal, cancelling stream", slog.String("signal", sig.String()))
		stream.Cancel()
		stream.Wait()
		interrupted = true
	}

	// Handlers ran on the stream goroutine; Done orders their writes
	// before these reads.
	outcome.cancelled = interrupted
	return outcome, nil
}

// streamLive drives the bubbletea progress view. The view owns the terminal
// in raw mode, so Ctrl+C arrives as a key press and cancels the stream.
func (c *generateCommander) streamLive(ctx context.Context, siteURL string, publisher eventstream.Publisher) (streamOutcome, error) {
	var stream *client.Stream
	model := newStreamModel(siteURL, func() {
		if stream != nil {
			stream.Cancel()
		}
	})

	p := tea.NewProgram(model, tea.WithOutput(c.stderr), tea.WithContext(ctx))

	handlers := client.Handlers{
		OnDiscovered: func(urls []string, total int) {
			p.Send(discoveredMsg{total: total})
		},
		OnProgress: func(currentURL string, done, total int) {
			p.Send(progressMsg{url: currentURL, done: done, total: total})
		},
		OnDone: func(result json.RawMessage) {
			p.Send(resultMsg{text: client.DoneEvent{Result: result}.Text()})
		},
		OnError: func(message string) {
			p.Send(failedMsg{message: message})
		},
	}
	handlers = eventstream.Tee(ctx, eventstream.EventSource{URL: siteURL}, handlers, publisher, c.logger)

	var err error
	stream, err = c.client.GenerateStream(ctx, siteURL, handlers)
	if err != nil {
		return streamOutcome{}, err
	}

	go func() {
		<-stream.Done()
		p.Send(streamEndedMsg{})
	}()

	final, runErr := p.Run()
	stream.Cancel()
	stream.Wait()

	m, ok := final.(streamModel)
	if !ok {
		return streamOutcome{}, fmt.Errorf("progress view: %w", runErr)
	}
	if runErr != nil && !m.cancelled {
		// tea.WithContext ends the program when the timeout fires.
		if ctx.Err() != nil {
			return streamOutcome{errMsg: context.Cause(ctx).Error()}, nil
		}
		return streamOutcome{}, fmt.Errorf("progress view: %w", runErr)
	}

	return m.outcome(), nil
}
