package mcp

import (
	"context"
	"errors"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/papercomputeco/llmstxt/pkg/archive"
)

var (
	archivedToolName    = "archived_llms_txt"
	archivedDescription = "Return the most recently archived llms.txt document for a website without generating it again."
)

// ArchivedInput represents the input arguments for the archive lookup tool.
type ArchivedInput struct {
	URL string `json:"url" jsonschema:"the site URL a document was generated for"`
}

// handleArchived looks up the newest archived generation for a URL.
func (s *Server) handleArchived(ctx context.Context, _ *mcp.CallToolRequest, input ArchivedInput) (*mcp.CallToolResult, GenerateOutput, error) {
	if input.URL == "" {
		return errorResult("url is required"), GenerateOutput{}, nil
	}

	rec, err := s.config.Archive.Latest(ctx, input.URL)
	if err != nil {
		var nf archive.NotFoundError
		if errors.As(err, &nf) {
			return errorResult("no archived llms.txt for " + input.URL), GenerateOutput{}, nil
		}
		return nil, GenerateOutput{}, err
	}

	out := GenerateOutput{
		URL:        rec.URL,
		LlmsTxt:    rec.LlmsTxt,
		PagesTotal: rec.PagesTotal,
		RecordID:   rec.ID,
	}

	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: rec.LlmsTxt},
		},
	}, out, nil
}
