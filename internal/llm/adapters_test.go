package llm

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"
)

// vendorServer answers every request with status and body, and keeps the
// last request body it saw.
func vendorServer(t *testing.T, status int, body any) (url string, lastBody *map[string]any) {
	t.Helper()
	var seen map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(raw, &seen)
		w.Header().Set("Content-Type", "application/json")
		if status == http.StatusTooManyRequests {
			w.Header().Set("Retry-After", "7")
		}
		w.WriteHeader(status)
		_ = json.NewEncoder(w).Encode(body)
	}))
	t.Cleanup(srv.Close)
	return srv.URL, &seen
}

func anthropicAt(t *testing.T, url string) *AnthropicProvider {
	t.Helper()
	p, err := NewAnthropicProvider(AnthropicConfig{APIKey: "test-key", Model: "claude-haiku"}, option.WithBaseURL(url))
	require.NoError(t, err)
	return p
}

func TestAnthropicProvider_Generate(t *testing.T) {
	url, seen := vendorServer(t, http.StatusOK, map[string]any{
		"id":          "msg_1",
		"type":        "message",
		"role":        "assistant",
		"model":       "claude-haiku-4-5-20251001",
		"stop_reason": "end_turn",
		"content":     []map[string]any{{"type": "text", "text": marsBatch}},
		"usage":       map[string]any{"input_tokens": 50, "output_tokens": 30},
	})
	p := anthropicAt(t, url)
	assert.Equal(t, "claude-haiku-4-5-20251001", p.ModelID())

	req := askMars()
	req.Schema = planetSchema()
	resp, err := p.Generate(context.Background(), req)
	require.NoError(t, err)

	assert.JSONEq(t, marsBatch, string(resp.Content))
	assert.Equal(t, Usage{InputTokens: 50, OutputTokens: 30, TotalTokens: 80}, resp.Usage)
	assert.Equal(t, StopEnd, resp.StopReason)
	assert.Equal(t, "claude-haiku-4-5-20251001", (*seen)["model"])
}

func TestAnthropicProvider_Errors(t *testing.T) {
	errBody := map[string]any{"type": "error", "error": map[string]any{"type": "x", "message": "nope"}}

	t.Run("rate limit", func(t *testing.T) {
		url, _ := vendorServer(t, http.StatusTooManyRequests, errBody)
		_, err := anthropicAt(t, url).Generate(context.Background(), askMars())
		var rl *ErrRateLimit
		require.ErrorAs(t, err, &rl)
		assert.Equal(t, "7s", rl.RetryAfter.String())
	})

	t.Run("server error", func(t *testing.T) {
		url, _ := vendorServer(t, http.StatusInternalServerError, errBody)
		_, err := anthropicAt(t, url).Generate(context.Background(), askMars())
		var unavail *ErrProviderUnavailable
		assert.ErrorAs(t, err, &unavail)
	})

	t.Run("bad key", func(t *testing.T) {
		url, _ := vendorServer(t, http.StatusUnauthorized, errBody)
		_, err := anthropicAt(t, url).Generate(context.Background(), askMars())
		var rejected *ErrRequestRejected
		require.ErrorAs(t, err, &rejected)
		assert.Equal(t, http.StatusUnauthorized, rejected.Status)
	})
}

func chatCompletion(content, finish string) map[string]any {
	return map[string]any{
		"id":      "chatcmpl-1",
		"object":  "chat.completion",
		"created": 1760000000,
		"model":   "gpt-4o-mini-2024-07-18",
		"choices": []map[string]any{{
			"index":         0,
			"message":       map[string]any{"role": "assistant", "content": content},
			"finish_reason": finish,
		}},
		"usage": map[string]any{"prompt_tokens": 40, "completion_tokens": 25, "total_tokens": 65},
	}
}

func TestOpenAIProvider_Generate(t *testing.T) {
	url, seen := vendorServer(t, http.StatusOK, chatCompletion(marsBatch, "stop"))
	p, err := NewOpenAIProvider(OpenAIConfig{APIKey: "test-key", Model: "gpt-mini", BaseURL: url + "/v1"})
	require.NoError(t, err)
	assert.Equal(t, "gpt-4o-mini", p.ModelID())

	req := askMars()
	req.Schema = planetSchema()
	resp, err := p.Generate(context.Background(), req)
	require.NoError(t, err)

	assert.Equal(t, "gpt-4o-mini-2024-07-18", resp.Model)
	assert.Equal(t, 65, resp.Usage.TotalTokens)

	msgs, ok := (*seen)["messages"].([]any)
	require.True(t, ok)
	require.Len(t, msgs, 2)
	assert.Equal(t, "system", msgs[0].(map[string]any)["role"])
	format := (*seen)["response_format"].(map[string]any)
	assert.Equal(t, "json_schema", format["type"])
}

func TestOpenAIProvider_Truncated(t *testing.T) {
	url, _ := vendorServer(t, http.StatusOK, chatCompletion(`{"questions":[`, "length"))
	p, err := NewOpenAIProvider(OpenAIConfig{APIKey: "test-key", BaseURL: url + "/v1"})
	require.NoError(t, err)

	req := askMars()
	req.Schema = planetSchema()
	_, err = p.Generate(context.Background(), req)
	var maxTok *ErrMaxTokensExceeded
	assert.ErrorAs(t, err, &maxTok)
}

func TestOpenAIProvider_RateLimit(t *testing.T) {
	url, _ := vendorServer(t, http.StatusTooManyRequests, map[string]any{
		"error": map[string]any{"type": "tokens", "message": "slow down", "code": "rate_limit_exceeded"},
	})
	p, err := NewOpenAIProvider(OpenAIConfig{APIKey: "test-key", BaseURL: url + "/v1"})
	require.NoError(t, err)

	_, err = p.Generate(context.Background(), askMars())
	var rl *ErrRateLimit
	assert.ErrorAs(t, err, &rl)
}

func TestNewOpenRouterProvider(t *testing.T) {
	_, err := NewOpenRouterProvider(OpenRouterConfig{Model: "google/gemini-2.5-flash"})
	assert.Error(t, err)

	p, err := NewOpenRouterProvider(OpenRouterConfig{APIKey: "sk-or", Model: "gemini-flash"})
	require.NoError(t, err)
	// No alias expansion: OpenRouter IDs are vendor-qualified.
	assert.Equal(t, "gemini-flash", p.ModelID())
}

func TestOpenRouterProvider_Generate(t *testing.T) {
	url, seen := vendorServer(t, http.StatusOK, chatCompletion(marsBatch, "stop"))
	p, err := NewOpenRouterProvider(OpenRouterConfig{APIKey: "sk-or", Model: "anthropic/claude-haiku-4.5", BaseURL: url})
	require.NoError(t, err)

	_, err = p.Generate(context.Background(), askMars())
	require.NoError(t, err)
	assert.Equal(t, "anthropic/claude-haiku-4.5", (*seen)["model"])
}

func TestGeminiProvider_Generate(t *testing.T) {
	url, _ := vendorServer(t, http.StatusOK, map[string]any{
		"candidates": []map[string]any{{
			"content":      map[string]any{"role": "model", "parts": []map[string]any{{"text": marsBatch}}},
			"finishReason": "STOP",
		}},
		"usageMetadata": map[string]any{"promptTokenCount": 20, "candidatesTokenCount": 10, "totalTokenCount": 30},
		"modelVersion":  "gemini-2.5-flash",
	})
	p, err := NewGeminiProvider(context.Background(), GeminiConfig{APIKey: "test-key", Model: "gemini-flash"}, &genai.HTTPOptions{BaseURL: url})
	require.NoError(t, err)

	req := askMars()
	req.Schema = planetSchema()
	resp, err := p.Generate(context.Background(), req)
	require.NoError(t, err)
	assert.JSONEq(t, marsBatch, string(resp.Content))
	assert.Equal(t, 30, resp.Usage.TotalTokens)
	assert.Equal(t, "gemini-2.5-flash", resp.Model)
}

func TestGeminiSchema(t *testing.T) {
	s := geminiSchema(planetSchema().Definition)

	assert.Equal(t, genai.TypeObject, s.Type)
	assert.Equal(t, []string{"questions"}, s.Required)
	assert.Len(t, s.Properties["planet"].Enum, 4)

	item := s.Properties["questions"].Items
	require.NotNil(t, item)
	assert.Equal(t, genai.TypeObject, item.Type)
	assert.Equal(t, genai.TypeInteger, item.Properties["correct_option"].Type)
	assert.Equal(t, genai.TypeString, item.Properties["options"].Items.Type)
	assert.ElementsMatch(t, []string{"prompt", "options", "correct_option"}, item.Required)
}
