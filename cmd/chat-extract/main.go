// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the chat-extract CLI, which turns an
// exported conversations.json archive into one Markdown file per chat.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// version is set at build time via ldflags.
var version = "dev"

// rootCmd is the base command for the chat-extract CLI.
var rootCmd = &cobra.Command{
	Use:   "chat-extract",
	Short: "Convert an exported chat archive into Markdown files",
	Long: `chat-extract reads a conversations.json export and writes one Markdown
transcript per chat. System messages and messages addressed to tools are left
out. File times are set so that sorting by modification time reproduces the
order of the archive.`,
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./chat-extract.yaml or ~/.config/chat-extract/config.yaml)")
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("chat-extract")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "chat-extract"))
		}
	}

	viper.SetEnvPrefix("CHAT_EXTRACT")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}
