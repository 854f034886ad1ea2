// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package topic

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/autopost/internal/slug"
	"github.com/pdiddy/autopost/pkg/types"
)

func TestRead(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{
			name:  "skips blanks and comments",
			input: "# seed list\nFirst Topic\n\n   \n  # indented comment\nSecond Topic\n",
			want:  []string{"First Topic", "Second Topic"},
		},
		{
			name:  "trims surrounding whitespace",
			input: "  padded topic \t\r\n",
			want:  []string{"padded topic"},
		},
		{
			name:  "keeps duplicates in order",
			input: "A\nB\nA\n",
			want:  []string{"A", "B", "A"},
		},
		{
			name:  "empty input",
			input: "",
			want:  nil,
		},
		{
			name:  "hash inside a topic is kept",
			input: "Why C# still matters\n",
			want:  []string{"Why C# still matters"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Read(strings.NewReader(tt.input))
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestReadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "topics.txt")
	require.NoError(t, os.WriteFile(path, []byte("One\n#two\nThree\n"), 0o644))

	got, err := ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"One", "Three"}, got)
}

func TestReadFileMissing(t *testing.T) {
	_, err := ReadFile(filepath.Join(t.TempDir(), "nope.txt"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "opening topics file")
}

func TestSelect(t *testing.T) {
	tests := []struct {
		name     string
		topics   []string
		existing map[string]bool
		want     types.Selection
		wantOK   bool
	}{
		{
			name:     "selection is by slug so a repeated used topic is skipped",
			topics:   []string{"A", "A", "B"},
			existing: map[string]bool{slug.Make("A"): true},
			want:     types.Selection{Topic: "B", Slug: slug.Make("B")},
			wantOK:   true,
		},
		{
			name:     "first unused topic wins",
			topics:   []string{"Go Generics", "Rust Traits"},
			existing: map[string]bool{},
			want:     types.Selection{Topic: "Go Generics", Slug: "go-generics"},
			wantOK:   true,
		},
		{
			name:     "topics differing only in punctuation share a slug",
			topics:   []string{"Go, Generics!", "go generics", "Other"},
			existing: map[string]bool{"go-generics": true},
			want:     types.Selection{Topic: "Other", Slug: "other"},
			wantOK:   true,
		},
		{
			name:     "all used",
			topics:   []string{"A", "B"},
			existing: map[string]bool{"a": true, "b": true},
			wantOK:   false,
		},
		{
			name:     "no topics",
			topics:   nil,
			existing: nil,
			wantOK:   false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Select(tt.topics, tt.existing)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}
