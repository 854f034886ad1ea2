// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package generate

import (
	"context"
	"errors"
	"fmt"
	"strings"

	openai "github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"github.com/pdiddy/autopost/pkg/types"
)

// TokenEnv is the environment variable holding the endpoint credential.
const TokenEnv = "HF_TOKEN"

// OpenAIBackend implements Completer against any OpenAI-compatible chat
// completions endpoint, such as the Hugging Face inference router.
type OpenAIBackend struct {
	client openai.Client
	cfg    types.InferenceConfig
}

// NewOpenAIBackend validates cfg and builds a client. A missing token or
// model is an ErrConfig. The SDK's own retries are disabled; attempts are
// governed by the Caller's policy.
func NewOpenAIBackend(cfg types.InferenceConfig) (*OpenAIBackend, error) {
	if strings.TrimSpace(cfg.Token) == "" {
		return nil, fmt.Errorf("%w: %s is missing; export it or store it in .secrets/hf-token", ErrConfig, TokenEnv)
	}
	if cfg.Model == "" {
		return nil, fmt.Errorf("%w: inference model is required", ErrConfig)
	}

	opts := []option.RequestOption{
		option.WithAPIKey(strings.TrimSpace(cfg.Token)),
		option.WithMaxRetries(0),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}
	if cfg.Timeout > 0 {
		opts = append(opts, option.WithRequestTimeout(cfg.Timeout))
	}

	return &OpenAIBackend{client: openai.NewClient(opts...), cfg: cfg}, nil
}

// Complete sends one chat completion request and returns the first choice.
func (b *OpenAIBackend) Complete(ctx context.Context, prompt Prompt) (string, error) {
	params := openai.ChatCompletionNewParams{
		Model: openai.ChatModel(b.cfg.Model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(prompt.System),
			openai.UserMessage(prompt.User),
		},
	}
	if b.cfg.MaxTokens > 0 {
		params.MaxTokens = openai.Int(int64(b.cfg.MaxTokens))
	}
	if b.cfg.Temperature > 0 {
		params.Temperature = openai.Float(b.cfg.Temperature)
	}
	if b.cfg.TopP > 0 {
		params.TopP = openai.Float(b.cfg.TopP)
	}

	// repetition_penalty is not part of the OpenAI schema; text-generation
	// servers read it as an extra body field.
	var reqOpts []option.RequestOption
	if b.cfg.RepetitionPenalty > 0 {
		reqOpts = append(reqOpts, option.WithJSONSet("repetition_penalty", b.cfg.RepetitionPenalty))
	}

	resp, err := b.client.Chat.Completions.New(ctx, params, reqOpts...)
	if err != nil {
		return "", fmt.Errorf("chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("chat completion: empty choices")
	}
	return resp.Choices[0].Message.Content, nil
}
