package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"sync"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/papercomputeco/llmstxt/pkg/archive"
	"github.com/papercomputeco/llmstxt/pkg/client"
	"github.com/papercomputeco/llmstxt/pkg/eventstream"
	"github.com/papercomputeco/llmstxt/pkg/utils"
)

var (
	generateToolName    = "generate_llms_txt"
	generateDescription = "Generate an llms.txt document for a website. Crawls the site through the generation service and returns the llms.txt markdown. Sends progress notifications per processed page when the request carries a progress token."

	errNoResult = errors.New("stream ended without a result")
)

// GenerateInput represents the input arguments for the generate tool.
type GenerateInput struct {
	URL string `json:"url" jsonschema:"the http or https URL of the site to generate llms.txt for"`
}

// GenerateOutput represents the output of the generate tool.
type GenerateOutput struct {
	URL        string `json:"url"`
	LlmsTxt    string `json:"llms_txt"`
	PagesTotal int    `json:"pages_total"`
	RecordID   string `json:"record_id,omitempty"`
}

// generation collects the outcome of one stream.
type generation struct {
	mu      sync.Mutex
	total   int
	result  *client.DoneEvent
	failure string
}

func (g *generation) handlers(notify func(done, total int, msg string)) client.Handlers {
	return client.Handlers{
		OnDiscovered: func(_ []string, total int) {
			g.mu.Lock()
			g.total = total
			g.mu.Unlock()
			notify(0, total, "discovered pages")
		},
		OnProgress: func(currentURL string, done, total int) {
			notify(done, total, currentURL)
		},
		OnDone: func(result json.RawMessage) {
			g.mu.Lock()
			defer g.mu.Unlock()
			g.result = &client.DoneEvent{Result: result}
		},
		OnError: func(message string) {
			g.mu.Lock()
			defer g.mu.Unlock()
			if g.failure == "" {
				g.failure = message
			}
		},
	}
}

// handleGenerate runs one streaming generation for the requested URL.
func (s *Server) handleGenerate(ctx context.Context, req *mcp.CallToolRequest, input GenerateInput) (*mcp.CallToolResult, GenerateOutput, error) {
	logger := s.config.Logger

	siteURL, err := utils.ValidateSiteURL(input.URL)
	if err != nil {
		return errorResult(err.Error()), GenerateOutput{}, nil
	}

	logger.Debug("MCP generate request", slog.String("url", siteURL))

	g := &generation{}
	h := g.handlers(s.progressNotifier(ctx, req))
	if s.config.Publisher != nil {
		h = eventstream.Tee(ctx, eventstream.EventSource{URL: siteURL}, h, s.config.Publisher, logger)
	}

	stream, err := s.config.Generator.GenerateStream(ctx, siteURL, h)
	if err != nil {
		logger.Error("failed to start generation", slog.String("error", err.Error()))
		return errorResult(err.Error()), GenerateOutput{}, nil
	}

	select {
	case <-stream.Done():
	case <-ctx.Done():
		stream.Cancel()
		return nil, GenerateOutput{}, ctx.Err()
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	if g.failure != "" {
		logger.Warn("generation failed", slog.String("url", siteURL), slog.String("error", g.failure))
		return errorResult(g.failure), GenerateOutput{}, nil
	}
	if g.result == nil {
		return errorResult(errNoResult.Error()), GenerateOutput{}, nil
	}

	out := GenerateOutput{
		URL:        siteURL,
		LlmsTxt:    g.result.Text(),
		PagesTotal: g.total,
	}

	if s.config.Archive != nil {
		rec := archive.NewRecord(siteURL, out.LlmsTxt, archive.ModeStream, out.PagesTotal)
		if err := s.config.Archive.Put(ctx, rec); err != nil {
			logger.Warn("failed to archive generation", slog.String("url", siteURL), slog.String("error", err.Error()))
		} else {
			out.RecordID = rec.ID
		}
	}

	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: out.LlmsTxt},
		},
	}, out, nil
}

// progressNotifier forwards progress to the caller when it asked for it.
func (s *Server) progressNotifier(ctx context.Context, req *mcp.CallToolRequest) func(done, total int, msg string) {
	if req == nil || req.Session == nil || req.Params == nil {
		return func(int, int, string) {}
	}

	token := req.Params.GetProgressToken()
	if token == nil {
		return func(int, int, string) {}
	}

	return func(done, total int, msg string) {
		err := req.Session.NotifyProgress(ctx, &mcp.ProgressNotificationParams{
			ProgressToken: token,
			Progress:      float64(done),
			Total:         float64(total),
			Message:       msg,
		})
		if err != nil {
			s.config.Logger.Debug("failed to send progress notification", slog.String("error", err.Error()))
		}
	}
}
