package api

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gofiber/adaptor/v2"
	"github.com/gofiber/fiber/v2"

	"github.com/papercomputeco/llmstxt/pkg/archive"
)

// MCPPath is where the MCP streamable HTTP endpoint is mounted.
const MCPPath = "/mcp"

// Server is the HTTP server for the MCP endpoint and the archive.
type Server struct {
	config  Config
	archive archive.Driver
	logger  *slog.Logger
	app     *fiber.App
}

// NewServer creates a new API server. mcpHandler is mounted at MCPPath
// when non-nil; the archive routes answer 503 when archive is nil.
func NewServer(config Config, archive archive.Driver, mcpHandler http.Handler, logger *slog.Logger) (*Server, error) {
	if logger == nil {
		return nil, errors.New("logger is required")
	}

	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
	})

	s := &Server{
		config:  config,
		archive: archive,
		logger:  logger,
		app:     app,
	}

	app.Get("/ping", s.handlePing)
	app.Get("/v1/generations", s.handleListGenerations)
	app.Get("/v1/generations/latest", s.handleLatestGeneration)
	app.Get("/v1/generations/:id", s.handleGetGeneration)
	app.Get("/v1/generations/:id/llms.txt", s.handleGetLlmsTxt)

	if mcpHandler != nil {
		app.All(MCPPath, adaptor.HTTPHandler(mcpHandler))
	}

	return s, nil
}

// Run starts the API server on the configured address.
func (s *Server) Run() error {
	s.logger.Info("starting API server",
		slog.String("listen", s.config.ListenAddr),
	)
	return s.app.Listen(s.config.ListenAddr)
}

// Shutdown gracefully shuts down the API server.
func (s *Server) Shutdown() error {
	return s.app.Shutdown()
}
