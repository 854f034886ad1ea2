// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/autopost/internal/generate"
	"github.com/pdiddy/autopost/internal/post"
)

var parseCmd = &cobra.Command{
	Use:   "parse [file|-]",
	Short: "Parse and validate a saved model response",
	Long: `Parse runs the response parser and validator over a raw model response read
from a file, or from stdin when the argument is "-" or omitted. A valid
response is printed as YAML; otherwise every problem found is reported.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		raw, err := readInput(cmd.InOrStdin(), args)
		if err != nil {
			return err
		}

		rec, err := generate.Parse(raw)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if outline, _ := cmd.Flags().GetBool("outline"); outline {
			for _, h := range post.Outline(rec.ArticleMarkdown) {
				fmt.Fprintf(out, "%s%s\n", strings.Repeat("  ", max(h.Level-1, 0)), h.Text)
			}
			return nil
		}

		for _, w := range post.StructureWarnings(rec.ArticleMarkdown) {
			fmt.Fprintf(os.Stderr, "warning: %s\n", w)
		}
		enc := yaml.NewEncoder(out)
		enc.SetIndent(2)
		if err := enc.Encode(rec); err != nil {
			return fmt.Errorf("encoding record: %w", err)
		}
		return enc.Close()
	},
}

func readInput(stdin io.Reader, args []string) (string, error) {
	if len(args) == 0 || args[0] == "-" {
		data, err := io.ReadAll(stdin)
		if err != nil {
			return "", fmt.Errorf("reading stdin: %w", err)
		}
		return string(data), nil
	}
	data, err := os.ReadFile(args[0])
	if err != nil {
		return "", fmt.Errorf("reading response: %w", err)
	}
	return string(data), nil
}

func init() {
	parseCmd.Flags().Bool("outline", false, "print the article heading outline instead of the record")

	rootCmd.AddCommand(parseCmd)
}
