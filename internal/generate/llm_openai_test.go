// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package generate

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/autopost/pkg/types"
)

const completionBody = `{
  "id": "chatcmpl-1",
  "object": "chat.completion",
  "created": 1700000000,
  "model": "google/gemma-2-2b-it",
  "choices": [
    {"index": 0, "finish_reason": "stop", "message": {"role": "assistant", "content": "generated text"}}
  ]
}`

func testInferenceConfig(baseURL string) types.InferenceConfig {
	return types.InferenceConfig{
		BaseURL:           baseURL,
		Model:             "google/gemma-2-2b-it",
		Token:             "hf_test",
		MaxTokens:         1400,
		Temperature:       0.7,
		TopP:              0.9,
		RepetitionPenalty: 1.1,
	}
}

func TestNewOpenAIBackend_ConfigErrors(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*types.InferenceConfig)
		wantMsg string
	}{
		{"missing token", func(c *types.InferenceConfig) { c.Token = "" }, TokenEnv + " is missing"},
		{"blank token", func(c *types.InferenceConfig) { c.Token = "   " }, TokenEnv + " is missing"},
		{"missing model", func(c *types.InferenceConfig) { c.Model = "" }, "model is required"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := testInferenceConfig("http://127.0.0.1:1/v1/")
			tt.mutate(&cfg)
			_, err := NewOpenAIBackend(cfg)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrConfig)
			assert.Contains(t, err.Error(), tt.wantMsg)
		})
	}
}

func TestOpenAIBackend_Complete(t *testing.T) {
	var got map[string]any
	var auth, path string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth = r.Header.Get("Authorization")
		path = r.URL.Path
		body, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(body, &got)
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, completionBody)
	}))
	defer ts.Close()

	b, err := NewOpenAIBackend(testInferenceConfig(ts.URL + "/v1/"))
	require.NoError(t, err)

	text, err := b.Complete(context.Background(), Prompt{System: "sys", User: "write"})
	require.NoError(t, err)
	assert.Equal(t, "generated text", text)

	assert.Equal(t, "Bearer hf_test", auth)
	assert.Equal(t, "/v1/chat/completions", path)
	assert.Equal(t, "google/gemma-2-2b-it", got["model"])
	assert.EqualValues(t, 1400, got["max_tokens"])
	assert.InDelta(t, 0.7, got["temperature"], 1e-9)
	assert.InDelta(t, 0.9, got["top_p"], 1e-9)
	assert.InDelta(t, 1.1, got["repetition_penalty"], 1e-9)

	msgs, ok := got["messages"].([]any)
	require.True(t, ok)
	require.Len(t, msgs, 2)
	assert.Equal(t, "system", msgs[0].(map[string]any)["role"])
	assert.Equal(t, "user", msgs[1].(map[string]any)["role"])
}

func TestOpenAIBackend_UpstreamErrorIsSingleAttempt(t *testing.T) {
	var calls int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusServiceUnavailable)
		io.WriteString(w, `{"error":{"message":"model is loading"}}`)
	}))
	defer ts.Close()

	b, err := NewOpenAIBackend(testInferenceConfig(ts.URL + "/v1/"))
	require.NoError(t, err)

	_, err = b.Complete(context.Background(), Prompt{User: "x"})
	require.Error(t, err)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestOpenAIBackend_EmptyChoices(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{"id":"x","object":"chat.completion","created":1,"model":"m","choices":[]}`)
	}))
	defer ts.Close()

	b, err := NewOpenAIBackend(testInferenceConfig(ts.URL + "/v1/"))
	require.NoError(t, err)

	_, err = b.Complete(context.Background(), Prompt{User: "x"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "empty choices")
}
