// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package generate drafts a blog post for a topic: it builds the prompt,
// calls the text-generation endpoint, and parses the response into a
// validated record.
package generate

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/pdiddy/autopost/internal/retry"
	"github.com/pdiddy/autopost/pkg/types"
)

// Defaults for the outer generate+parse cycle.
const (
	DefaultParseAttempts   = 2
	DefaultParseRetryDelay = 5 * time.Second

	// rawEchoLimit caps how much of a rejected response is echoed.
	rawEchoLimit = 1000
)

// Result is a successful generation.
type Result struct {
	Record types.PostRecord

	// Attempts is the number of generate+parse cycles used.
	Attempts int

	// Raw is the accepted response text.
	Raw string
}

// Generator runs generate+parse cycles until a response validates.
type Generator struct {
	caller *Caller
	policy retry.Policy
	w      io.Writer
}

// ParsePolicy returns the retry policy for the generate+parse cycle.
func ParsePolicy(attempts int, delay time.Duration) retry.Policy {
	if attempts <= 0 {
		attempts = DefaultParseAttempts
	}
	if delay < 0 {
		delay = 0
	}
	return retry.Policy{MaxAttempts: attempts, Delay: retry.Fixed(delay)}
}

// NewGenerator returns a Generator that retries rejected responses under
// policy. Progress and diagnostics are written to w.
func NewGenerator(caller *Caller, policy retry.Policy, w io.Writer) (*Generator, error) {
	if caller == nil {
		return nil, errors.New("caller is required")
	}
	if w == nil {
		w = io.Discard
	}
	return &Generator{caller: caller, policy: policy, w: w}, nil
}

// Generate drafts a post about topic. Parse and validation failures trigger
// a fresh request; inference and configuration failures end the run at
// once. When every cycle is rejected the last raw response is echoed,
// truncated, for diagnosis.
func (g *Generator) Generate(ctx context.Context, topic string) (Result, error) {
	prompt, err := BuildPrompt(topic)
	if err != nil {
		return Result{}, err
	}

	policy := g.policy
	attempts := max(policy.MaxAttempts, 1)
	policy.OnRetry = func(attempt int, err error, wait time.Duration) {
		fmt.Fprintf(g.w, "response rejected (attempt %d/%d): %v; retrying in %v\n", attempt, attempts, err, wait)
	}

	var result Result
	var lastRaw string
	err = policy.Do(ctx, func(ctx context.Context, attempt int) error {
		result.Attempts = attempt
		raw, err := g.caller.Call(ctx, prompt)
		if err != nil {
			return retry.Permanent(err)
		}
		lastRaw = raw

		rec, err := Parse(raw)
		if err != nil {
			if errors.Is(err, ErrParse) || errors.Is(err, ErrValidation) {
				return err
			}
			return retry.Permanent(err)
		}
		result.Record = rec
		result.Raw = raw
		return nil
	})
	if err != nil {
		if lastRaw != "" && (errors.Is(err, ErrParse) || errors.Is(err, ErrValidation)) {
			fmt.Fprintf(g.w, "raw model output (truncated):\n%s\n", truncate(lastRaw, rawEchoLimit))
		}
		return Result{Attempts: result.Attempts}, fmt.Errorf("generating post for %q (%d attempt(s)): %w", topic, result.Attempts, err)
	}
	return result, nil
}
