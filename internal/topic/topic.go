// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package topic reads candidate topics and picks the next unused one.
package topic

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/pdiddy/autopost/internal/slug"
	"github.com/pdiddy/autopost/pkg/types"
)

// ReadFile loads topics from a line-oriented text file. See Read.
func ReadFile(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening topics file: %w", err)
	}
	defer f.Close()

	topics, err := Read(f)
	if err != nil {
		return nil, fmt.Errorf("reading topics file %s: %w", path, err)
	}
	return topics, nil
}

// Read returns one topic per line in source order. Lines are trimmed; blank
// lines and lines starting with '#' are skipped.
func Read(r io.Reader) ([]string, error) {
	var topics []string
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		topics = append(topics, line)
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return topics, nil
}

// Select returns the first topic whose slug is not in existing. The scan is
// linear and ordered, so re-running without new topics selects nothing.
func Select(topics []string, existing map[string]bool) (types.Selection, bool) {
	for _, t := range topics {
		s := slug.Make(t)
		if !existing[s] {
			return types.Selection{Topic: t, Slug: s}, true
		}
	}
	return types.Selection{}, false
}
