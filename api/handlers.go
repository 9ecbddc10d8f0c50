package api

import (
	"errors"
	"log/slog"

	"github.com/gofiber/fiber/v2"

	"github.com/papercomputeco/llmstxt/pkg/archive"
)

const defaultListLimit = 50

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Error string `json:"error"`
}

// GenerationList is the body of GET /v1/generations.
type GenerationList struct {
	Generations []*archive.Record `json:"generations"`
	Count       int               `json:"count"`
}

// handlePing returns a simple health check response.
func (s *Server) handlePing(c *fiber.Ctx) error {
	return c.JSON("pong")
}

func (s *Server) requireArchive(c *fiber.Ctx) bool {
	if s.archive != nil {
		return true
	}
	_ = c.Status(fiber.StatusServiceUnavailable).JSON(ErrorResponse{Error: "archive is disabled"})
	return false
}

// handleListGenerations lists archived generations, newest first.
func (s *Server) handleListGenerations(c *fiber.Ctx) error {
	if !s.requireArchive(c) {
		return nil
	}

	limit := c.QueryInt("limit", defaultListLimit)
	if limit < 0 {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: "limit must not be negative"})
	}

	recs, err := s.archive.List(c.Context(), limit)
	if err != nil {
		s.logger.Error("failed to list generations", slog.String("error", err.Error()))
		return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{Error: "failed to list generations"})
	}
	if recs == nil {
		recs = []*archive.Record{}
	}

	return c.JSON(GenerationList{Generations: recs, Count: len(recs)})
}

// handleLatestGeneration returns the newest generation for ?url=.
func (s *Server) handleLatestGeneration(c *fiber.Ctx) error {
	if !s.requireArchive(c) {
		return nil
	}

	url := c.Query("url")
	if url == "" {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: "url query parameter required"})
	}

	rec, err := s.archive.Latest(c.Context(), url)
	return s.writeRecord(c, rec, err)
}

// handleGetGeneration returns a single generation by id.
func (s *Server) handleGetGeneration(c *fiber.Ctx) error {
	if !s.requireArchive(c) {
		return nil
	}

	rec, err := s.archive.Get(c.Context(), c.Params("id"))
	return s.writeRecord(c, rec, err)
}

// handleGetLlmsTxt returns the stored document as plain markdown.
func (s *Server) handleGetLlmsTxt(c *fiber.Ctx) error {
	if !s.requireArchive(c) {
		return nil
	}

	rec, err := s.archive.Get(c.Context(), c.Params("id"))
	if err != nil {
		return s.writeRecord(c, nil, err)
	}

	c.Set(fiber.HeaderContentType, "text/markdown; charset=utf-8")
	return c.SendString(rec.LlmsTxt)
}

func (s *Server) writeRecord(c *fiber.Ctx, rec *archive.Record, err error) error {
	var nf archive.NotFoundError
	switch {
	case errors.As(err, &nf):
		return c.Status(fiber.StatusNotFound).JSON(ErrorResponse{Error: "generation not found"})
	case err != nil:
		s.logger.Error("failed to read generation", slog.String("error", err.Error()))
		return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{Error: "failed to read generation"})
	}
	return c.JSON(rec)
}
