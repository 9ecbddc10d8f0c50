package client

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
)

type generateResponse struct {
	LlmsTxt string `json:"llms_txt"`
	errorBody
}

// Generate asks the service for the llms.txt of siteURL in a single exchange.
//
// The response body is always decoded as JSON. On a non-success status the
// returned error is a *GenerationError whose message comes from the "detail"
// field, then "title", then a generic fallback. There are no retries.
func (c *Client) Generate(ctx context.Context, siteURL string) (string, error) {
	if siteURL == "" {
		return "", ErrEmptyURL
	}

	requestID := uuid.NewString()
	log := c.logger.With(slog.String("request_id", requestID), slog.String("url", siteURL))

	req, err := c.newRequest(ctx, c.generatePath, siteURL, requestID, "application/json")
	if err != nil {
		return "", err
	}

	log.Debug("sending generate request", slog.String("endpoint", req.URL.String()))

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("sending generate request: %w", err)
	}
	defer resp.Body.Close()

	var body generateResponse
	decodeErr := json.NewDecoder(resp.Body).Decode(&body)

	if !isSuccess(resp.StatusCode) {
		genErr := newGenerationError(resp.StatusCode, body.errorBody)
		log.Debug("generate request failed",
			slog.Int("status", resp.StatusCode),
			slog.String("message", genErr.Message),
		)
		return "", genErr
	}

	if decodeErr != nil {
		return "", fmt.Errorf("decoding generate response: %w", decodeErr)
	}

	log.Debug("generate request succeeded", slog.Int("bytes", len(body.LlmsTxt)))
	return body.LlmsTxt, nil
}
