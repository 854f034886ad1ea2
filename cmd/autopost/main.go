// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the autopost CLI. Each invocation of
// generate writes at most one SEO blog post from the next unused topic.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// version is set at build time via ldflags.
var version = "dev"

// rootCmd is the base command for the autopost CLI.
var rootCmd = &cobra.Command{
	Use:   "autopost",
	Short: "Generate one SEO blog post per run from a topic list",
	Long: `autopost turns a plain-text list of topics into dated Markdown posts with
YAML front matter. Each generate run picks the first topic that has no post
yet, asks a hosted language model for a title, description, keywords and
article, validates the response, and writes a single file.

Schedule "autopost generate" (cron, CI) to publish one post per day.`,
	SilenceUsage: true,
}

func init() {
	cobra.OnInitialize(initConfig)

	pf := rootCmd.PersistentFlags()
	pf.String("config", "", "config file (default: ./autopost.yaml or ~/.config/autopost/autopost.yaml)")
	pf.String("topics", defaultTopicsFile, "topics file, one topic per line")
	pf.String("posts-dir", defaultPostsDir, "directory holding dated post files")
	pf.String("ext", defaultExtension, "post file extension")
	pf.String("layout", defaultLayout, "front matter layout value")
	pf.String("ledger", defaultLedgerPath, "SQLite run history file (empty disables it)")

	for _, name := range []string{"topics", "posts-dir", "ext", "layout", "ledger"} {
		bindFlag(name, pf.Lookup(name))
	}
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("autopost")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "autopost"))
		}
	}

	viper.SetEnvPrefix("AUTOPOST")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	viper.AutomaticEnv()
	_ = viper.BindEnv(keyToken, tokenEnv)

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}
