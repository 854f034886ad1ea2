// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package slug derives filesystem and URL safe identifiers from free text.
// A slug is both the uniqueness key for topics and the variable part of a
// post filename, so the mapping must stay stable across releases.
package slug

import (
	"regexp"
	"strings"
	"unicode"
)

const (
	// MaxLen is the longest slug Make returns.
	MaxLen = 80

	// Fallback is returned when nothing usable survives normalization.
	Fallback = "post"
)

var (
	spaceRun  = regexp.MustCompile(`\s+`)
	hyphenRun = regexp.MustCompile(`-+`)
)

// Make lowercases text, drops everything outside [a-z0-9], whitespace and
// hyphens, turns whitespace runs into single hyphens, collapses repeated
// hyphens, truncates to MaxLen and trims hyphens from both ends. It never
// returns an empty string.
func Make(text string) string {
	text = strings.TrimSpace(strings.ToLower(text))

	var b strings.Builder
	b.Grow(len(text))
	for _, r := range text {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '-':
			b.WriteRune(r)
		case unicode.IsSpace(r):
			b.WriteByte(' ')
		}
	}

	s := spaceRun.ReplaceAllString(b.String(), "-")
	s = hyphenRun.ReplaceAllString(s, "-")
	if len(s) > MaxLen {
		s = s[:MaxLen]
	}
	s = strings.Trim(s, "-")
	if s == "" {
		return Fallback
	}
	return s
}

// Tag converts a keyword into a front matter tag: its slug with hyphens
// replaced by underscores.
func Tag(keyword string) string {
	return strings.ReplaceAll(Make(keyword), "-", "_")
}
