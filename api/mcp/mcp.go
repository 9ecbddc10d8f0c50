// Package mcp provides an MCP (Model Context Protocol) server that lets MCP
// clients generate llms.txt documents through the generation service.
package mcp

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/papercomputeco/llmstxt/pkg/archive"
	"github.com/papercomputeco/llmstxt/pkg/client"
	"github.com/papercomputeco/llmstxt/pkg/eventstream"
	"github.com/papercomputeco/llmstxt/pkg/utils"
)

// StreamGenerator starts streaming generations. *client.Client satisfies it.
type StreamGenerator interface {
	GenerateStream(ctx context.Context, siteURL string, h client.Handlers) (*client.Stream, error)
}

type Config struct {
	// Generator runs the generations behind the generate tool
	Generator StreamGenerator

	// Archive optionally stores finished generations and enables the
	// archive lookup tool
	Archive archive.Driver

	// Publisher optionally mirrors stream events
	Publisher eventstream.Publisher

	// Noop for empty MCP server
	Noop bool

	Logger *slog.Logger
}

type Server struct {
	config    Config
	mcpServer *mcp.Server
	handler   *mcp.StreamableHTTPHandler
}

// NewServer creates a new MCP server with the generate tool.
func NewServer(c Config) (*Server, error) {
	s := &Server{
		config: c,
	}

	mcpServer := mcp.NewServer(
		&mcp.Implementation{
			Name:    "llmstxt",
			Version: utils.Version,
		},
		&mcp.ServerOptions{},
	)

	if !c.Noop {
		if c.Generator == nil {
			return nil, errors.New("generator is required")
		}
		if c.Logger == nil {
			return nil, errors.New("logger is required")
		}

		mcp.AddTool(mcpServer, &mcp.Tool{
			Name:        generateToolName,
			Description: generateDescription,
		}, s.handleGenerate)

		if c.Archive != nil {
			mcp.AddTool(mcpServer, &mcp.Tool{
				Name:        archivedToolName,
				Description: archivedDescription,
			}, s.handleArchived)
		}
	}

	s.mcpServer = mcpServer

	// Create a streamable HTTP net/http handler for stateless operations
	s.handler = mcp.NewStreamableHTTPHandler(
		func(_ *http.Request) *mcp.Server {
			return mcpServer
		},
		&mcp.StreamableHTTPOptions{
			Stateless: true,
		},
	)

	return s, nil
}

// Handler returns the HTTP handler for the MCP server.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// MCPServer returns the underlying server, e.g. to connect it to a stdio
// or in-memory transport.
func (s *Server) MCPServer() *mcp.Server {
	return s.mcpServer
}

func errorResult(msg string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		IsError: true,
		Content: []mcp.Content{
			&mcp.TextContent{Text: msg},
		},
	}
}
