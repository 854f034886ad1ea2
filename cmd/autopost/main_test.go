// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/autopost/pkg/types"
)

func execute(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&bytes.Buffer{})
	rootCmd.SetIn(strings.NewReader(stdin))
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func TestSlugCommand(t *testing.T) {
	out, err := execute(t, "", "slug", "Top", "10", "AI", "Tools,", "2024!")
	require.NoError(t, err)
	assert.Equal(t, "top-10-ai-tools-2024\n", out)
}

func TestNextCommand(t *testing.T) {
	dir := t.TempDir()
	topics := filepath.Join(dir, "topics.txt")
	posts := filepath.Join(dir, "_posts")
	require.NoError(t, os.WriteFile(topics, []byte("Alpha\nBeta Gamma\n"), 0o644))
	require.NoError(t, os.MkdirAll(posts, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(posts, "2024-01-01-alpha.md"), nil, 0o644))

	out, err := execute(t, "", "next", "--topics", topics, "--posts-dir", posts)
	require.NoError(t, err)
	assert.Equal(t, "beta-gamma\tBeta Gamma\n", out)

	require.NoError(t, os.WriteFile(filepath.Join(posts, "2024-01-02-beta-gamma.md"), nil, 0o644))
	out, err = execute(t, "", "next", "--topics", topics, "--posts-dir", posts)
	require.NoError(t, err)
	assert.Contains(t, out, "All topics already used")
}

func TestParseCommand(t *testing.T) {
	article := "## Intro\n\n" + strings.Repeat("word ", 510) + "\n\n## FAQ\n\nQ?"
	raw := `{"title":"T","meta_description":"D","keywords":["a","b","c","d","e"]}` +
		"\n---ARTICLE---\n" + article + "\n---END---\n"

	out, err := execute(t, raw, "parse", "-")
	require.NoError(t, err)

	var rec types.PostRecord
	require.NoError(t, yaml.Unmarshal([]byte(out), &rec))
	assert.Equal(t, "T", rec.Title)
	assert.Equal(t, []string{"a", "b", "c", "d", "e"}, rec.Keywords)

	out, err = execute(t, raw, "parse", "--outline", "-")
	require.NoError(t, err)
	assert.Equal(t, "  Intro\n  FAQ\n", out)
}

func TestParseCommandRejectsBadResponse(t *testing.T) {
	_, err := execute(t, "no json here", "parse", "--outline=false", "-")
	assert.Error(t, err)
}
