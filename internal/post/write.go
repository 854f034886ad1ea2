// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package post

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"text/template"
	"time"

	"github.com/pdiddy/autopost/internal/slug"
	"github.com/pdiddy/autopost/pkg/types"
)

const (
	defaultExtension = "md"
	defaultLayout    = "post"
)

// postTmpl renders the front matter block followed by the body. Title and
// description are placed inside double quotes, so callers must not pass
// values containing '"'.
var postTmpl = template.Must(template.New("post").Parse(`---
layout: {{.Layout}}
title: "{{.Title}}"
description: "{{.Description}}"
tags: [{{.Tags}}]
keywords: {{.Keywords}}
---

> **SEO Keywords:** {{.KeywordLine}}

{{.Article}}
`))

type postView struct {
	Layout      string
	Title       string
	Description string
	Tags        string
	Keywords    string
	KeywordLine string
	Article     string
}

// Render produces the full post file content for rec.
func Render(cfg types.PostConfig, rec types.PostRecord) ([]byte, error) {
	layout := cfg.Layout
	if layout == "" {
		layout = defaultLayout
	}

	tags := make([]string, len(rec.Keywords))
	for i, k := range rec.Keywords {
		tags[i] = slug.Tag(k)
	}

	keywords, err := keywordList(rec.Keywords)
	if err != nil {
		return nil, err
	}

	view := postView{
		Layout:      layout,
		Title:       unquote(rec.Title),
		Description: unquote(rec.MetaDescription),
		Tags:        strings.Join(tags, ", "),
		Keywords:    keywords,
		KeywordLine: strings.Join(rec.Keywords, ", "),
		Article:     strings.TrimSpace(rec.ArticleMarkdown),
	}

	var buf bytes.Buffer
	if err := postTmpl.Execute(&buf, view); err != nil {
		return nil, fmt.Errorf("rendering post: %w", err)
	}
	return buf.Bytes(), nil
}

// Write renders rec and stores it as cfg.PostsDir/{date}-{slug}.{ext},
// creating the directory when needed. An existing file with the same name is
// replaced. It returns the path written.
func Write(cfg types.PostConfig, rec types.PostRecord, postSlug string, now time.Time) (string, error) {
	content, err := Render(cfg, rec)
	if err != nil {
		return "", err
	}

	ext := strings.TrimPrefix(cfg.Extension, ".")
	if ext == "" {
		ext = defaultExtension
	}

	if err := os.MkdirAll(cfg.PostsDir, 0o755); err != nil {
		return "", fmt.Errorf("creating posts directory: %w", err)
	}
	path := filepath.Join(cfg.PostsDir, Filename(postSlug, ext, now))

	// Write to a temp file first so a failed write never leaves a partial
	// post behind for the scanner to pick up.
	tmpFile, err := os.CreateTemp(cfg.PostsDir, ".autopost-*.tmp")
	if err != nil {
		return "", fmt.Errorf("creating temp file: %w", err)
	}
	tmpPath := tmpFile.Name()

	_, writeErr := tmpFile.Write(content)
	closeErr := tmpFile.Close()
	if writeErr != nil {
		os.Remove(tmpPath)
		return "", fmt.Errorf("writing post: %w", writeErr)
	}
	if closeErr != nil {
		os.Remove(tmpPath)
		return "", fmt.Errorf("closing temp file: %w", closeErr)
	}
	if err := os.Chmod(tmpPath, 0o644); err != nil {
		os.Remove(tmpPath)
		return "", fmt.Errorf("setting post permissions: %w", err)
	}

	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return "", fmt.Errorf("renaming temp file: %w", err)
	}
	return path, nil
}

// unquote swaps double quotes for single quotes so the value stays inside
// its double-quoted front matter field.
func unquote(s string) string {
	return strings.ReplaceAll(s, `"`, "'")
}

// keywordList renders keywords as a JSON array, which YAML reads as a flow
// sequence.
func keywordList(keywords []string) (string, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(keywords); err != nil {
		return "", fmt.Errorf("encoding keywords: %w", err)
	}
	return strings.TrimSpace(buf.String()), nil
}
