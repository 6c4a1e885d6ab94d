package claude_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dealdesk/internal/config"
	"dealdesk/internal/domain"
	"dealdesk/internal/parser"
	"dealdesk/internal/parser/claude"
	"dealdesk/internal/port"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *claude.Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	cfg := &config.ModelConfig{APIKey: "test-key", DefaultModel: "claude-sonnet-4-20250514", MaxTokens: 1024}
	return claude.NewClientWithEndpoint(cfg, srv.URL)
}

func TestComplete_Success(t *testing.T) {
	var captured map[string]any
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "test-key", r.Header.Get("x-api-key"))
		assert.Equal(t, "2023-06-01", r.Header.Get("anthropic-version"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&captured))
		_, _ = w.Write([]byte(`{"content":[{"type":"text","text":"{\"beds\": 120}"}],"stop_reason":"end_turn"}`))
	})

	blocks := []port.ContentBlock{
		port.TextBlock("prompt"),
		port.ImageBlock([]byte("img"), "image/png"),
	}
	out, err := client.Complete(context.Background(), port.ModelRequest{Blocks: blocks})

	require.NoError(t, err)
	assert.Equal(t, `{"beds": 120}`, out)

	messages := captured["messages"].([]any)
	content := messages[0].(map[string]any)["content"].([]any)
	require.Len(t, content, 2)
	assert.Equal(t, "text", content[0].(map[string]any)["type"])
	img := content[1].(map[string]any)
	assert.Equal(t, "image", img["type"])
	source := img["source"].(map[string]any)
	assert.Equal(t, "base64", source["type"])
	assert.Equal(t, "image/png", source["media_type"])
}

func TestComplete_RateLimited(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Retry-After", "30")
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"error":{"type":"rate_limit_error"}}`))
	})

	_, err := client.Complete(context.Background(), port.ModelRequest{Blocks: []port.ContentBlock{port.TextBlock("p")}})

	var rateErr *parser.RateLimitError
	require.ErrorAs(t, err, &rateErr)
	assert.Equal(t, 30*time.Second, rateErr.RetryAfter)
}

func TestComplete_ServerErrorIsModelCallError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":{"type":"overloaded_error"}}`))
	})

	_, err := client.Complete(context.Background(), port.ModelRequest{Blocks: []port.ContentBlock{port.TextBlock("p")}})

	var callErr *domain.ModelCallError
	require.ErrorAs(t, err, &callErr)
	assert.False(t, callErr.Timeout)
}

func TestComplete_TruncatedOutputFails(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"content":[{"type":"text","text":"{\"beds\":"}],"stop_reason":"max_tokens"}`))
	})

	_, err := client.Complete(context.Background(), port.ModelRequest{Blocks: []port.ContentBlock{port.TextBlock("p")}})

	var callErr *domain.ModelCallError
	require.ErrorAs(t, err, &callErr)
	assert.Contains(t, callErr.Error(), "max_tokens")
}

func TestComplete_ConcatenatesTextBlocks(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"content":[{"type":"text","text":"{\"a\":"},{"type":"text","text":" 1}"}],"stop_reason":"end_turn"}`))
	})

	out, err := client.Complete(context.Background(), port.ModelRequest{Blocks: []port.ContentBlock{port.TextBlock("p")}})

	require.NoError(t, err)
	assert.Equal(t, `{"a": 1}`, out)
}
