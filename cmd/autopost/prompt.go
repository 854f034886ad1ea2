// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/autopost/internal/generate"
	"github.com/pdiddy/autopost/internal/run"
)

var promptCmd = &cobra.Command{
	Use:   "prompt [topic]",
	Short: "Print the prompt sent to the model",
	Long: `Prompt prints the system and user messages generate would send for the
given topic. Without an argument the next unused topic is used.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		topic := strings.Join(args, " ")
		if topic == "" {
			sel, ok, reason, err := run.Plan(generationConfig())
			if err != nil {
				return err
			}
			if !ok {
				fmt.Fprintln(cmd.OutOrStdout(), reason)
				return nil
			}
			topic = sel.Topic
		}

		p, err := generate.BuildPrompt(topic)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "# system\n%s\n\n# user\n%s\n", p.System, p.User)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(promptCmd)
}
