// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package run executes one scheduled generation: pick the next unused
// topic, draft a post for it, and write the post file. At most one file is
// written per run, and only after the draft has been fully validated.
package run

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/pdiddy/autopost/internal/generate"
	"github.com/pdiddy/autopost/internal/ledger"
	"github.com/pdiddy/autopost/internal/post"
	"github.com/pdiddy/autopost/internal/topic"
	"github.com/pdiddy/autopost/pkg/types"
)

// Drafter produces a validated post for a topic.
type Drafter interface {
	Generate(ctx context.Context, topic string) (generate.Result, error)
}

// DrafterFunc builds the Drafter on demand, so credentials are only
// required when there is a topic to write about.
type DrafterFunc func() (Drafter, error)

// Recorder stores run outcomes. *ledger.Ledger implements it.
type Recorder interface {
	Record(ctx context.Context, run ledger.Run) (ledger.Run, error)
}

// Options controls side effects of Once.
type Options struct {
	// DryRun prints the rendered post to Out instead of writing it.
	DryRun bool

	// Now returns the run time. Defaults to time.Now.
	Now func() time.Time

	// Out receives user-facing messages and dry-run output.
	Out io.Writer

	// Log receives progress lines and warnings.
	Log io.Writer

	// Recorder, when set, receives the outcome of every non-dry run.
	Recorder Recorder
}

// Outcome describes what a run did.
type Outcome struct {
	Status    types.RunStatus
	Selection types.Selection
	Title     string
	Path      string
	Attempts  int
	Message   string
}

// Plan reads the topics file and posts directory and returns the next topic
// to write about. When nothing is left to do ok is false and reason says why.
func Plan(cfg types.GenerationConfig) (sel types.Selection, ok bool, reason string, err error) {
	topics, err := topic.ReadFile(cfg.TopicsFile)
	if err != nil {
		return types.Selection{}, false, "", err
	}
	if len(topics) == 0 {
		return types.Selection{}, false, fmt.Sprintf("No topics in %s", cfg.TopicsFile), nil
	}

	existing, err := post.ExistingSlugs(cfg.Post.PostsDir)
	if err != nil {
		return types.Selection{}, false, "", err
	}

	sel, ok = topic.Select(topics, existing)
	if !ok {
		return types.Selection{}, false, fmt.Sprintf("All topics already used. Add more topics to %s", cfg.TopicsFile), nil
	}
	return sel, true, "", nil
}

// Once performs a single run. Having nothing to do is not an error.
func Once(ctx context.Context, cfg types.GenerationConfig, newDrafter DrafterFunc, opts Options) (Outcome, error) {
	opts = withDefaults(opts)
	started := opts.Now()

	sel, ok, reason, err := Plan(cfg)
	if err != nil {
		out := Outcome{Status: types.RunFailed}
		record(ctx, opts, started, out, err)
		return out, err
	}
	if !ok {
		fmt.Fprintln(opts.Out, reason)
		out := Outcome{Status: types.RunSkipped, Message: reason}
		record(ctx, opts, started, out, nil)
		return out, nil
	}
	fmt.Fprintf(opts.Log, "selected topic %q (slug %s)\n", sel.Topic, sel.Slug)

	out, err := draftAndWrite(ctx, cfg, sel, newDrafter, opts)
	if err != nil {
		out.Status = types.RunFailed
		out.Selection = sel
	}
	record(ctx, opts, started, out, err)
	return out, err
}

func draftAndWrite(ctx context.Context, cfg types.GenerationConfig, sel types.Selection, newDrafter DrafterFunc, opts Options) (Outcome, error) {
	if newDrafter == nil {
		return Outcome{}, errors.New("no drafter configured")
	}
	drafter, err := newDrafter()
	if err != nil {
		return Outcome{}, err
	}

	res, err := drafter.Generate(ctx, sel.Topic)
	if err != nil {
		return Outcome{Attempts: res.Attempts}, err
	}
	rec := res.Record

	for _, w := range post.StructureWarnings(rec.ArticleMarkdown) {
		fmt.Fprintf(opts.Log, "warning: %s\n", w)
	}

	out := Outcome{
		Status:    types.RunCreated,
		Selection: sel,
		Title:     rec.Title,
		Attempts:  res.Attempts,
	}

	if opts.DryRun {
		content, err := post.Render(cfg.Post, rec)
		if err != nil {
			return out, err
		}
		ext := cfg.Post.Extension
		if ext == "" {
			ext = "md"
		}
		fmt.Fprintf(opts.Log, "dry run: would write %s\n", post.Filename(sel.Slug, ext, opts.Now()))
		_, err = opts.Out.Write(content)
		return out, err
	}

	path, err := post.Write(cfg.Post, rec, sel.Slug, opts.Now())
	if err != nil {
		return out, err
	}
	out.Path = path
	fmt.Fprintf(opts.Out, "Created: %s\n", path)
	return out, nil
}

// record stores the outcome. Ledger failures are reported but never change
// the result of the run.
func record(ctx context.Context, opts Options, started time.Time, out Outcome, runErr error) {
	if opts.Recorder == nil || opts.DryRun {
		return
	}
	entry := ledger.Run{
		StartedAt: started,
		Topic:     out.Selection.Topic,
		Slug:      out.Selection.Slug,
		Status:    out.Status,
		Attempts:  out.Attempts,
		Title:     out.Title,
		Path:      out.Path,
		Note:      out.Message,
	}
	if runErr != nil {
		entry.Error = runErr.Error()
	}
	if _, err := opts.Recorder.Record(ctx, entry); err != nil {
		fmt.Fprintf(opts.Log, "warning: %v\n", err)
	}
}

func withDefaults(opts Options) Options {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Out == nil {
		opts.Out = io.Discard
	}
	if opts.Log == nil {
		opts.Log = io.Discard
	}
	return opts
}
