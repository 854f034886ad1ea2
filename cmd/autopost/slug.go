// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/autopost/internal/slug"
)

var slugCmd = &cobra.Command{
	Use:   "slug [text...]",
	Short: "Print the slug for a topic",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		text := strings.Join(args, " ")
		if tag, _ := cmd.Flags().GetBool("tag"); tag {
			fmt.Fprintln(cmd.OutOrStdout(), slug.Tag(text))
			return nil
		}
		fmt.Fprintln(cmd.OutOrStdout(), slug.Make(text))
		return nil
	},
}

func init() {
	slugCmd.Flags().Bool("tag", false, "print the front matter tag form instead")

	rootCmd.AddCommand(slugCmd)
}
