// Package claude implements port.DocumentModel against the Anthropic Messages
// API.
package claude

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"dealdesk/internal/config"
	"dealdesk/internal/domain"
	"dealdesk/internal/parser"
	"dealdesk/internal/port"
)

const (
	apiURL     = "https://api.anthropic.com/v1/messages"
	apiVersion = "2023-06-01"
)

// Client calls the Anthropic Messages API with ordered content blocks.
type Client struct {
	apiKey    string
	model     string
	endpoint  string
	maxTokens int
	client    *http.Client
}

// NewClient creates a Claude-backed document model from config.
func NewClient(cfg *config.ModelConfig) *Client {
	return newClient(cfg, apiURL)
}

// NewClientWithEndpoint creates a client pointing at a custom API endpoint (for testing).
func NewClientWithEndpoint(cfg *config.ModelConfig, endpoint string) *Client {
	return newClient(cfg, endpoint)
}

func newClient(cfg *config.ModelConfig, endpoint string) *Client {
	model := cfg.DefaultModel
	if model == "" {
		model = "claude-sonnet-4-20250514"
	}
	maxTokens := cfg.MaxTokens
	if maxTokens == 0 {
		maxTokens = 16384
	}
	timeout := time.Duration(cfg.TimeoutSecs) * time.Second
	if timeout == 0 {
		timeout = 300 * time.Second
	}
	return &Client{
		apiKey:    cfg.APIKey,
		model:     model,
		endpoint:  endpoint,
		maxTokens: maxTokens,
		client:    &http.Client{Timeout: timeout},
	}
}

// Complete sends the ordered content blocks and returns the model's free-text
// reply. No schema guarantee is assumed from the response.
func (c *Client) Complete(ctx context.Context, req port.ModelRequest) (string, error) {
	maxTokens := req.MaxTokens
	if maxTokens == 0 {
		maxTokens = c.maxTokens
	}

	reqBody := map[string]interface{}{
		"model":      c.model,
		"max_tokens": maxTokens,
		"messages": []map[string]interface{}{
			{
				"role":    "user",
				"content": buildContentBlocks(req.Blocks),
			},
		},
	}

	bodyBytes, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("marshaling request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(bodyBytes))
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("x-api-key", c.apiKey)
	httpReq.Header.Set("anthropic-version", apiVersion)

	resp, err := c.client.Do(httpReq)
	if err != nil {
		timeout := errors.Is(err, context.DeadlineExceeded) || ctx.Err() == context.DeadlineExceeded
		return "", domain.NewModelCallError(err, timeout)
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", domain.NewModelCallError(fmt.Errorf("reading response: %w", err), false)
	}

	if resp.StatusCode != http.StatusOK {
		baseErr := fmt.Errorf("anthropic API error (status %d): %s", resp.StatusCode, string(respBody))
		if resp.StatusCode == http.StatusTooManyRequests {
			retryAfter := parser.ParseRetryAfterHeader(resp.Header.Get("Retry-After"))
			return "", parser.NewRateLimitError("claude", baseErr, retryAfter)
		}
		return "", domain.NewModelCallError(baseErr, false)
	}

	return extractText(respBody)
}

// buildContentBlocks converts port blocks to Messages API content blocks,
// preserving order.
func buildContentBlocks(blocks []port.ContentBlock) []map[string]interface{} {
	out := make([]map[string]interface{}, 0, len(blocks))
	for _, b := range blocks {
		switch b.Type {
		case "image":
			out = append(out, map[string]interface{}{
				"type": "image",
				"source": map[string]interface{}{
					"type":       "base64",
					"media_type": b.MediaType,
					"data":       base64.StdEncoding.EncodeToString(b.ImageData),
				},
			})
		default:
			out = append(out, map[string]interface{}{
				"type": "text",
				"text": b.Text,
			})
		}
	}
	return out
}

// apiResponse models the Anthropic Messages API response.
type apiResponse struct {
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
	StopReason string `json:"stop_reason"`
}

func extractText(body []byte) (string, error) {
	var resp apiResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return "", domain.NewModelCallError(fmt.Errorf("unmarshaling response: %w", err), false)
	}
	if len(resp.Content) == 0 {
		return "", domain.NewModelCallError(fmt.Errorf("empty response from API"), false)
	}
	if resp.StopReason == "max_tokens" {
		return "", domain.NewModelCallError(fmt.Errorf("output truncated (stop_reason: max_tokens)"), false)
	}

	var text string
	for _, c := range resp.Content {
		if c.Type == "text" {
			text += c.Text
		}
	}
	return text, nil
}
