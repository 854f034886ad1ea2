// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/autopost/internal/ledger"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List recorded generate runs",
	Long: `History prints the most recent runs stored in the run ledger, newest first.
Dry runs are not recorded.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		path := viper.GetString("ledger")
		if path == "" {
			return fmt.Errorf("run history is disabled (empty --ledger)")
		}
		if _, err := os.Stat(path); os.IsNotExist(err) {
			fmt.Fprintln(cmd.OutOrStdout(), "No runs recorded yet.")
			return nil
		}

		l, err := ledger.Open(path)
		if err != nil {
			return err
		}
		defer l.Close()

		limit, _ := cmd.Flags().GetInt("limit")
		runs, err := l.List(cmd.Context(), limit)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
			return ledger.WriteJSON(out, runs)
		}
		if asYAML, _ := cmd.Flags().GetBool("yaml"); asYAML {
			return ledger.WriteYAML(out, runs)
		}

		for _, r := range runs {
			detail := r.Path
			switch {
			case r.Error != "":
				detail = r.Error
			case r.Note != "":
				detail = r.Note
			}
			fmt.Fprintf(out, "%s  %-7s  %-40s  %s\n",
				r.StartedAt.Local().Format("2006-01-02 15:04"), r.Status, r.Slug, detail)
		}
		return nil
	},
}

func init() {
	historyCmd.Flags().Int("limit", 20, "maximum number of runs to show")
	historyCmd.Flags().Bool("json", false, "output runs as JSON")
	historyCmd.Flags().Bool("yaml", false, "output runs as YAML")
	historyCmd.MarkFlagsMutuallyExclusive("json", "yaml")

	rootCmd.AddCommand(historyCmd)
}
