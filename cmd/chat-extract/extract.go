// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/chat-extract/internal/archive"
	"github.com/pdiddy/chat-extract/internal/export"
	"github.com/pdiddy/chat-extract/internal/logging"
	"github.com/pdiddy/chat-extract/internal/render"
	"github.com/pdiddy/chat-extract/pkg/types"
)

var extractCmd = &cobra.Command{
	Use:   "extract",
	Short: "Write every titled chat in the archive as a Markdown file",
	Long: `Extract reads the archive given by --path and writes one Markdown file per
titled chat into --output, creating the directory if needed. Each visible
message becomes a heading naming the speaker followed by its text.

With --include-index, file names are prefixed with the chat number.
Untitled chats are skipped and do not take a number.`,
	RunE: runExtract,
}

func init() {
	extractCmd.Flags().StringP("path", "p", "", "path to conversations.json (required)")
	extractCmd.Flags().StringP("output", "o", "", "destination folder (required)")
	extractCmd.Flags().StringP("user", "n", types.DefaultUserName, "heading used for your own messages")
	extractCmd.Flags().BoolP("include-index", "i", false, "include the chat number in file names")
	extractCmd.Flags().BoolP("verbose", "v", false, "print progress messages")
	extractCmd.Flags().String("report", "", "write a run report to this file (.json for JSON, otherwise YAML)")
	extractCmd.Flags().String("log-file", "", "also append JSON log records to this file")

	for _, name := range []string{"path", "output", "user", "include-index", "verbose", "report", "log-file"} {
		cobra.CheckErr(viper.BindPFlag(name, extractCmd.Flags().Lookup(name)))
	}

	rootCmd.AddCommand(extractCmd)
}

// extractConfig resolves settings from flags, environment and config file.
func extractConfig() types.ExtractConfig {
	return types.ExtractConfig{
		LogConfig: types.LogConfig{
			Verbose: viper.GetBool("verbose"),
			LogFile: viper.GetString("log-file"),
		},
		Path:         viper.GetString("path"),
		OutputDir:    viper.GetString("output"),
		UserName:     viper.GetString("user"),
		IncludeIndex: viper.GetBool("include-index"),
		ReportPath:   viper.GetString("report"),
	}
}

func runExtract(cmd *cobra.Command, args []string) error {
	cmd.SilenceUsage = true
	cfg := extractConfig()
	if err := validateExtractConfig(cfg); err != nil {
		return err
	}

	logger, cleanup := logging.Setup(cfg.LogConfig, cmd.ErrOrStderr())
	defer cleanup()

	if _, err := extract(cmd.Context(), cfg, logger); err != nil {
		// The message below is the whole report; keep cobra from repeating it.
		cmd.SilenceErrors = true
		fmt.Fprintln(cmd.ErrOrStderr(), describeError(err))
		return err
	}
	return nil
}

// validateExtractConfig checks the settings that have no usable default.
// They may come from flags, the environment or the config file.
func validateExtractConfig(cfg types.ExtractConfig) error {
	var missing []string
	if cfg.Path == "" {
		missing = append(missing, "--path")
	}
	if cfg.OutputDir == "" {
		missing = append(missing, "--output")
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required setting: %s", strings.Join(missing, ", "))
	}
	return nil
}

// extract runs one conversion: read, ensure the output directory, render and
// write each chat, then write the optional report.
func extract(ctx context.Context, cfg types.ExtractConfig, logger *slog.Logger) (export.Result, error) {
	data, err := archive.ReadFile(cfg.Path)
	if err != nil {
		return export.Result{}, err
	}

	created, err := export.EnsureDir(cfg.OutputDir)
	if err != nil {
		return export.Result{}, err
	}
	if created {
		logger.Info("created output directory", "path", cfg.OutputDir)
	}

	a, err := archive.Parse(data)
	if err != nil {
		return export.Result{}, err
	}

	result, err := export.Run(ctx, a.Chats(), export.Options{
		OutputDir:    cfg.OutputDir,
		IncludeIndex: cfg.IncludeIndex,
		Renderer:     render.New(cfg.UserName),
		Logger:       logger,
	})
	if err != nil {
		return result, err
	}

	if cfg.ReportPath != "" {
		rep := export.NewReport(cfg.Path, cfg.OutputDir, result, time.Now())
		if err := export.WriteReport(cfg.ReportPath, rep); err != nil {
			return result, err
		}
		logger.Info("wrote report", "path", cfg.ReportPath)
	}
	return result, nil
}

// describeError turns a run failure into the single line shown to the user.
func describeError(err error) string {
	var (
		parseErr     *types.ParseError
		structureErr *types.StructureError
		storageErr   *types.StorageError
	)
	switch {
	case errors.Is(err, archive.ErrInputNotFound):
		return "Error: The specified conversations.json file could not be found."
	case errors.As(err, &parseErr):
		return fmt.Sprintf("Parsing Error: %v", parseErr)
	case errors.As(err, &structureErr):
		return fmt.Sprintf("Structure Error: %v", structureErr)
	case errors.As(err, &storageErr):
		return fmt.Sprintf("IO Error: %v (Check file permissions or paths).", storageErr)
	default:
		return fmt.Sprintf("Unexpected Error: %v", err)
	}
}
