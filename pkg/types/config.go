// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// InferenceConfig holds settings for calls to the hosted text-generation endpoint.
type InferenceConfig struct {
	// BaseURL is the OpenAI-compatible endpoint (e.g. "https://router.huggingface.co/v1").
	BaseURL string `json:"base_url" yaml:"base_url"`

	// Model is the model identifier (e.g. "google/gemma-2-2b-it").
	Model string `json:"model" yaml:"model"`

	// Token is the API credential. It is resolved once at startup and never
	// serialized.
	Token string `json:"-" yaml:"-"`

	// MaxTokens caps the length of the completion.
	MaxTokens int `json:"max_tokens" yaml:"max_tokens"`

	// Temperature and TopP are the sampling parameters.
	Temperature float64 `json:"temperature" yaml:"temperature"`
	TopP        float64 `json:"top_p" yaml:"top_p"`

	// RepetitionPenalty is sent only when positive.
	RepetitionPenalty float64 `json:"repetition_penalty,omitempty" yaml:"repetition_penalty,omitempty"`

	// MaxRetries is the number of attempts made against the endpoint (default 6).
	MaxRetries int `json:"max_retries" yaml:"max_retries"`

	// Timeout bounds a single attempt. Zero leaves the transport default.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`
}

// PostConfig controls where and how post files are written.
type PostConfig struct {
	// PostsDir is the directory holding dated post files (default "_posts").
	PostsDir string `json:"posts_dir" yaml:"posts_dir"`

	// Extension is the post file extension without the dot (default "md").
	Extension string `json:"extension" yaml:"extension"`

	// Layout is the front matter layout value (default "post").
	Layout string `json:"layout" yaml:"layout"`
}

// GenerationConfig groups everything one generate run needs.
type GenerationConfig struct {
	Inference InferenceConfig `json:"inference" yaml:"inference"`
	Post      PostConfig      `json:"post" yaml:"post"`

	// TopicsFile is the line-oriented list of candidate topics (default "topics.txt").
	TopicsFile string `json:"topics_file" yaml:"topics_file"`

	// ParseAttempts is how many generate+parse cycles are tried before the
	// run fails (default 2).
	ParseAttempts int `json:"parse_attempts" yaml:"parse_attempts"`

	// ParseRetryDelay is the fixed wait between generate+parse cycles (default 5s).
	ParseRetryDelay time.Duration `json:"parse_retry_delay" yaml:"parse_retry_delay"`

	// LedgerPath is the SQLite run history file. Empty disables the ledger.
	LedgerPath string `json:"ledger_path" yaml:"ledger_path"`
}
