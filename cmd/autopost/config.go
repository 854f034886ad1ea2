// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/pdiddy/autopost/internal/generate"
	"github.com/pdiddy/autopost/internal/secrets"
	"github.com/pdiddy/autopost/pkg/types"
)

const (
	defaultTopicsFile  = "topics.txt"
	defaultPostsDir    = "_posts"
	defaultExtension   = "md"
	defaultLayout      = "post"
	defaultBaseURL     = "https://router.huggingface.co/v1"
	defaultModel       = "google/gemma-2-2b-it"
	defaultMaxTokens   = 1400
	defaultTemperature = 0.7
	defaultTopP        = 0.9

	// tokenEnv is read directly, without the AUTOPOST_ prefix, so existing
	// Hugging Face setups work unchanged.
	tokenEnv     = generate.TokenEnv
	tokenKeyFile = "hf-token"
	keyToken     = "token"
)

var defaultLedgerPath = filepath.Join(".autopost", "history.db")

// bindFlag ties a flag to the viper key of the same name so that flags
// override config file and environment values.
func bindFlag(key string, f *pflag.Flag) {
	if err := viper.BindPFlag(key, f); err != nil {
		panic(fmt.Sprintf("binding flag %s: %v", key, err))
	}
}

// generationConfig resolves the run configuration from flags, environment
// and config file. The credential is left empty; see resolveToken.
func generationConfig() types.GenerationConfig {
	return types.GenerationConfig{
		Inference: types.InferenceConfig{
			BaseURL:           stringOr("base-url", defaultBaseURL),
			Model:             stringOr("model", defaultModel),
			MaxTokens:         intOr("max-tokens", defaultMaxTokens),
			Temperature:       floatOr("temperature", defaultTemperature),
			TopP:              floatOr("top-p", defaultTopP),
			RepetitionPenalty: viper.GetFloat64("repetition-penalty"),
			MaxRetries:        intOr("max-retries", generate.DefaultMaxRetries),
			Timeout:           viper.GetDuration("timeout"),
		},
		Post: types.PostConfig{
			PostsDir:  stringOr("posts-dir", defaultPostsDir),
			Extension: stringOr("ext", defaultExtension),
			Layout:    stringOr("layout", defaultLayout),
		},
		TopicsFile:      stringOr("topics", defaultTopicsFile),
		ParseAttempts:   intOr("parse-attempts", generate.DefaultParseAttempts),
		ParseRetryDelay: durationOr("parse-retry-delay", generate.DefaultParseRetryDelay),
		LedgerPath:      viper.GetString("ledger"),
	}
}

// resolveToken returns the endpoint credential from HF_TOKEN, falling back
// to .secrets/hf-token.
func resolveToken() (string, error) {
	token, src, err := secrets.Resolve(viper.GetString(keyToken), secrets.DefaultDir, tokenKeyFile)
	if err != nil {
		return "", fmt.Errorf("%w: %w", generate.ErrConfig, err)
	}
	if src == secrets.SourceFile {
		fmt.Fprintf(os.Stderr, "Loaded secrets: [%s]\n", tokenKeyFile)
	}
	return token, nil
}

func stringOr(key, fallback string) string {
	if v := viper.GetString(key); v != "" {
		return v
	}
	return fallback
}

func intOr(key string, fallback int) int {
	if !viper.IsSet(key) {
		return fallback
	}
	return viper.GetInt(key)
}

func floatOr(key string, fallback float64) float64 {
	if !viper.IsSet(key) {
		return fallback
	}
	return viper.GetFloat64(key)
}

func durationOr(key string, fallback time.Duration) time.Duration {
	if !viper.IsSet(key) {
		return fallback
	}
	return viper.GetDuration(key)
}
