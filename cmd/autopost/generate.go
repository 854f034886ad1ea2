// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/autopost/internal/generate"
	"github.com/pdiddy/autopost/internal/ledger"
	"github.com/pdiddy/autopost/internal/run"
	"github.com/pdiddy/autopost/pkg/types"
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Write one post for the next unused topic",
	Long: `Generate selects the first topic in the topics file that has no post yet,
drafts a post for it with the configured model, and writes
{posts-dir}/{YYYY-MM-DD}-{slug}.{ext}.

When the topics file is empty or every topic already has a post, generate
prints a message and exits successfully without writing anything.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := generationConfig()
		dryRun, _ := cmd.Flags().GetBool("dry-run")

		var recorder run.Recorder
		if cfg.LedgerPath != "" && !dryRun {
			l, err := ledger.Open(cfg.LedgerPath)
			if err != nil {
				fmt.Fprintf(os.Stderr, "warning: run history disabled: %v\n", err)
			} else {
				defer l.Close()
				recorder = l
			}
		}

		_, err := run.Once(cmd.Context(), cfg, newDrafter(cfg), run.Options{
			DryRun:   dryRun,
			Out:      cmd.OutOrStdout(),
			Log:      os.Stderr,
			Recorder: recorder,
		})
		return err
	},
}

// newDrafter defers credential resolution until a topic has been selected.
func newDrafter(cfg types.GenerationConfig) run.DrafterFunc {
	return func() (run.Drafter, error) {
		token, err := resolveToken()
		if err != nil {
			return nil, err
		}
		cfg.Inference.Token = token

		backend, err := generate.NewOpenAIBackend(cfg.Inference)
		if err != nil {
			return nil, err
		}
		caller, err := generate.NewCaller(backend, generate.InferencePolicy(cfg.Inference.MaxRetries), os.Stderr)
		if err != nil {
			return nil, err
		}
		gen, err := generate.NewGenerator(caller, generate.ParsePolicy(cfg.ParseAttempts, cfg.ParseRetryDelay), os.Stderr)
		if err != nil {
			return nil, err
		}
		return gen, nil
	}
}

func init() {
	f := generateCmd.Flags()
	f.String("model", defaultModel, "model identifier on the inference endpoint")
	f.String("base-url", defaultBaseURL, "OpenAI-compatible inference endpoint")
	f.Int("max-tokens", defaultMaxTokens, "maximum tokens in the completion")
	f.Float64("temperature", defaultTemperature, "sampling temperature")
	f.Float64("top-p", defaultTopP, "nucleus sampling threshold")
	f.Float64("repetition-penalty", 0, "repetition penalty (0 leaves it unset)")
	f.Duration("timeout", 0, "per-attempt request timeout (0 uses the transport default)")
	f.Int("max-retries", generate.DefaultMaxRetries, "attempts made against the inference endpoint")
	f.Int("parse-attempts", generate.DefaultParseAttempts, "generate+parse cycles before giving up")
	f.Duration("parse-retry-delay", generate.DefaultParseRetryDelay, "wait between generate+parse cycles")
	f.Bool("dry-run", false, "print the post to stdout instead of writing it")

	for _, name := range []string{
		"model", "base-url", "max-tokens", "temperature", "top-p", "repetition-penalty",
		"timeout", "max-retries", "parse-attempts", "parse-retry-delay",
	} {
		bindFlag(name, f.Lookup(name))
	}

	rootCmd.AddCommand(generateCmd)
}
