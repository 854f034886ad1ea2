// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package generate

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/pdiddy/autopost/internal/retry"
)

// Completer abstracts the hosted text-generation service so tests can
// supply a fake. One call is one attempt: it returns the response text or
// fails.
type Completer interface {
	Complete(ctx context.Context, prompt Prompt) (string, error)
}

// DefaultMaxRetries is the number of attempts made against the endpoint
// when none is configured.
const DefaultMaxRetries = 6

// Backoff between inference attempts is linear: backoffStep per attempt,
// never more than backoffMax. Tests override these to avoid real sleeps.
var (
	backoffStep = 10 * time.Second
	backoffMax  = 45 * time.Second
)

// InferencePolicy returns the retry policy for endpoint calls.
func InferencePolicy(maxAttempts int) retry.Policy {
	if maxAttempts <= 0 {
		maxAttempts = DefaultMaxRetries
	}
	return retry.Policy{
		MaxAttempts: maxAttempts,
		Delay:       retry.Linear(backoffStep, backoffMax),
	}
}

// Caller sends prompts to a Completer under a retry policy.
type Caller struct {
	backend Completer
	policy  retry.Policy
	w       io.Writer
}

// NewCaller wraps backend with policy. Retry notices are written to w.
func NewCaller(backend Completer, policy retry.Policy, w io.Writer) (*Caller, error) {
	if backend == nil {
		return nil, errors.New("completer is required")
	}
	if w == nil {
		w = io.Discard
	}
	return &Caller{backend: backend, policy: policy, w: w}, nil
}

// Call returns the raw response text. An empty response counts as a failed
// attempt. When every attempt fails the error wraps ErrInference and the
// last underlying failure.
func (c *Caller) Call(ctx context.Context, prompt Prompt) (string, error) {
	policy := c.policy
	attempts := max(policy.MaxAttempts, 1)
	policy.OnRetry = func(attempt int, err error, wait time.Duration) {
		fmt.Fprintf(c.w, "inference attempt %d/%d failed: %v; retrying in %v\n", attempt, attempts, err, wait)
	}

	var text string
	made := 0
	err := policy.Do(ctx, func(ctx context.Context, attempt int) error {
		made = attempt
		out, err := c.backend.Complete(ctx, prompt)
		if err != nil {
			return err
		}
		if strings.TrimSpace(out) == "" {
			return errors.New("empty completion")
		}
		text = out
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("%w after %d attempt(s): %w", ErrInference, made, err)
	}
	return text, nil
}
