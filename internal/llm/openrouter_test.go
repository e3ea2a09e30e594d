package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewOpenRouterProvider_RequiresKey(t *testing.T) {
	_, err := NewOpenRouterProvider(OpenRouterConfig{Model: "google/gemini-2.0-flash-exp"})
	require.Error(t, err)
}

func TestOpenRouterProvider_JSONObjectRequest(t *testing.T) {
	var (
		hits     atomic.Int32
		gotPath  string
		gotAuth  string
		gotModel string
		gotType  string
	)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")

		var body struct {
			Model          string `json:"model"`
			ResponseFormat *struct {
				Type string `json:"type"`
			} `json:"response_format"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		gotModel = body.Model
		if body.ResponseFormat != nil {
			gotType = body.ResponseFormat.Type
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"id":     "gen-test",
			"object": "chat.completion",
			"model":  "anthropic/claude-3-haiku",
			"choices": []map[string]any{{
				"index":         0,
				"message":       map[string]any{"role": "assistant", "content": `{"ok":true}`},
				"finish_reason": "stop",
			}},
			"usage": map[string]any{"prompt_tokens": 12, "completion_tokens": 4, "total_tokens": 16},
		})
	}))
	t.Cleanup(server.Close)

	p, err := NewOpenRouterProvider(OpenRouterConfig{
		APIKey:  "sk-or-test",
		Model:   "anthropic/claude-3-haiku",
		BaseURL: server.URL + "/v1",
	})
	require.NoError(t, err)
	assert.Equal(t, "anthropic/claude-3-haiku", p.ModelID())

	resp, err := p.Generate(context.Background(), Request{
		System:   "Reply in JSON.",
		Messages: []Message{{Role: RoleUser, Content: "Say ok."}},
		Format:   FormatJSON,
	})
	require.NoError(t, err)

	assert.Equal(t, int32(1), hits.Load(), "one Generate sends one request")
	assert.Equal(t, "/v1/chat/completions", gotPath)
	assert.Equal(t, "Bearer sk-or-test", gotAuth)
	assert.Equal(t, "anthropic/claude-3-haiku", gotModel, "model ID passes through untouched")
	assert.Equal(t, "json_object", gotType)

	assert.Equal(t, `{"ok":true}`, resp.Text)
	assert.Equal(t, 12, resp.Usage.InputTokens)
	assert.Equal(t, 4, resp.Usage.OutputTokens)
}
