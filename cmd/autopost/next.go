// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pdiddy/autopost/internal/run"
)

var nextCmd = &cobra.Command{
	Use:   "next",
	Short: "Show the topic the next generate run would pick",
	Long: `Next reads the topics file and the posts directory and prints the topic and
slug that generate would use, without contacting the inference endpoint.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		sel, ok, reason, err := run.Plan(generationConfig())
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		if !ok {
			fmt.Fprintln(out, reason)
			return nil
		}
		fmt.Fprintf(out, "%s\t%s\n", sel.Slug, sel.Topic)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(nextCmd)
}
