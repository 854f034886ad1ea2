// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package generate

import (
	"bytes"
	"context"
	"errors"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/autopost/internal/retry"
)

func TestMain(m *testing.M) {
	// Override backoff to avoid real sleeps in retry tests.
	backoffStep = time.Millisecond
	backoffMax = 2 * time.Millisecond
	os.Exit(m.Run())
}

type reply struct {
	text string
	err  error
}

// scriptedCompleter returns replies in order, repeating the last one.
type scriptedCompleter struct {
	replies []reply
	prompts []Prompt
}

func (s *scriptedCompleter) Complete(_ context.Context, p Prompt) (string, error) {
	s.prompts = append(s.prompts, p)
	i := len(s.prompts) - 1
	if i >= len(s.replies) {
		i = len(s.replies) - 1
	}
	return s.replies[i].text, s.replies[i].err
}

func (s *scriptedCompleter) calls() int { return len(s.prompts) }

func validResponse() string {
	return delimited(metaLine, "## Intro\n\n"+words(520)+"\n\n## FAQ\n\nQ?")
}

func newTestCaller(t *testing.T, backend Completer, attempts int, w *bytes.Buffer) *Caller {
	t.Helper()
	c, err := NewCaller(backend, InferencePolicy(attempts), w)
	require.NoError(t, err)
	return c
}

func TestInferencePolicyDefaults(t *testing.T) {
	p := InferencePolicy(0)
	assert.Equal(t, DefaultMaxRetries, p.MaxAttempts)
	assert.Equal(t, backoffStep, p.Delay(1))
	assert.Equal(t, backoffMax, p.Delay(10))
}

func TestParsePolicyDefaults(t *testing.T) {
	p := ParsePolicy(0, -time.Second)
	assert.Equal(t, DefaultParseAttempts, p.MaxAttempts)
	assert.Equal(t, time.Duration(0), p.Delay(1))
}

func TestCaller_RetriesTransientFailures(t *testing.T) {
	backend := &scriptedCompleter{replies: []reply{
		{err: errors.New("503 model loading")},
		{err: errors.New("503 model loading")},
		{text: "ok"},
	}}
	var out bytes.Buffer
	c := newTestCaller(t, backend, 6, &out)

	text, err := c.Call(context.Background(), Prompt{User: "hi"})
	require.NoError(t, err)
	assert.Equal(t, "ok", text)
	assert.Equal(t, 3, backend.calls())
	assert.Contains(t, out.String(), "inference attempt 1/6 failed: 503 model loading")
}

func TestCaller_ExhaustsRetries(t *testing.T) {
	cause := errors.New("connection refused")
	backend := &scriptedCompleter{replies: []reply{{err: cause}}}
	c := newTestCaller(t, backend, 3, &bytes.Buffer{})

	_, err := c.Call(context.Background(), Prompt{})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInference)
	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "after 3 attempt(s)")
	assert.Equal(t, 3, backend.calls())
}

func TestCaller_EmptyCompletionIsAFailure(t *testing.T) {
	backend := &scriptedCompleter{replies: []reply{{text: "  \n"}, {text: "done"}}}
	c := newTestCaller(t, backend, 2, &bytes.Buffer{})

	text, err := c.Call(context.Background(), Prompt{})
	require.NoError(t, err)
	assert.Equal(t, "done", text)
	assert.Equal(t, 2, backend.calls())
}

func TestNewCallerRequiresBackend(t *testing.T) {
	_, err := NewCaller(nil, retry.Policy{}, nil)
	assert.Error(t, err)
}

func newTestGenerator(t *testing.T, backend Completer, inferenceAttempts int, out *bytes.Buffer) *Generator {
	t.Helper()
	g, err := NewGenerator(newTestCaller(t, backend, inferenceAttempts, out), ParsePolicy(2, 0), out)
	require.NoError(t, err)
	return g
}

func TestGenerate_FirstResponseAccepted(t *testing.T) {
	backend := &scriptedCompleter{replies: []reply{{text: validResponse()}}}
	var out bytes.Buffer
	g := newTestGenerator(t, backend, 6, &out)

	res, err := g.Generate(context.Background(), "Go testing")
	require.NoError(t, err)
	assert.Equal(t, 1, res.Attempts)
	assert.Equal(t, "T", res.Record.Title)
	assert.Equal(t, validResponse(), res.Raw)

	require.Len(t, backend.prompts, 1)
	assert.Equal(t, systemInstructions, backend.prompts[0].System)
	assert.Contains(t, backend.prompts[0].User, `"Go testing"`)
}

func TestGenerate_RetriesRejectedResponse(t *testing.T) {
	backend := &scriptedCompleter{replies: []reply{
		{text: "no json here"},
		{text: validResponse()},
	}}
	var out bytes.Buffer
	g := newTestGenerator(t, backend, 6, &out)

	res, err := g.Generate(context.Background(), "Go testing")
	require.NoError(t, err)
	assert.Equal(t, 2, res.Attempts)
	assert.Equal(t, 2, backend.calls())
	assert.Contains(t, out.String(), "response rejected (attempt 1/2)")
}

func TestGenerate_GivesUpAndEchoesRawOutput(t *testing.T) {
	short := delimited(metaLine, words(400))
	backend := &scriptedCompleter{replies: []reply{{text: short}}}
	var out bytes.Buffer
	g := newTestGenerator(t, backend, 6, &out)

	res, err := g.Generate(context.Background(), "Go testing")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrValidation)
	assert.Contains(t, err.Error(), "content too short")
	assert.Equal(t, 2, res.Attempts)
	assert.Equal(t, 2, backend.calls())

	assert.Contains(t, out.String(), "raw model output (truncated):")
	assert.Contains(t, out.String(), metaLine)
}

func TestGenerate_EchoIsTruncated(t *testing.T) {
	long := "no json " + strings.Repeat("x", 5000)
	backend := &scriptedCompleter{replies: []reply{{text: long}}}
	var out bytes.Buffer
	g := newTestGenerator(t, backend, 1, &out)

	_, err := g.Generate(context.Background(), "topic")
	assert.ErrorIs(t, err, ErrParse)
	assert.NotContains(t, out.String(), long)
	assert.Contains(t, out.String(), long[:rawEchoLimit])
}

func TestGenerate_InferenceFailureIsNotRetriedAsParseFailure(t *testing.T) {
	backend := &scriptedCompleter{replies: []reply{{err: errors.New("401 unauthorized")}}}
	var out bytes.Buffer
	g := newTestGenerator(t, backend, 2, &out)

	res, err := g.Generate(context.Background(), "topic")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInference)
	assert.Equal(t, 1, res.Attempts)
	// Only the inference policy retried: 2 calls, not 2x2.
	assert.Equal(t, 2, backend.calls())
	assert.NotContains(t, out.String(), "raw model output")
}
