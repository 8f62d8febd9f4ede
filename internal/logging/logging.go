// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package logging builds the slog logger used by the CLI: readable text on
// the console and, optionally, JSON records appended to a log file.
package logging

import (
	"io"
	"log/slog"
	"os"

	slogmulti "github.com/samber/slog-multi"

	"github.com/pdiddy/chat-extract/pkg/types"
)

// ConsoleLevel returns the console threshold. Progress messages are Info,
// so they only show in verbose mode.
func ConsoleLevel(verbose bool) slog.Level {
	if verbose {
		return slog.LevelInfo
	}
	return slog.LevelWarn
}

// Setup creates the logger described by cfg, writing console output to
// console. The returned cleanup closes the log file, if one was opened.
// A log file that cannot be opened is reported on the console and ignored.
func Setup(cfg types.LogConfig, console io.Writer) (*slog.Logger, func() error) {
	consoleHandler := newConsoleHandler(console, ConsoleLevel(cfg.Verbose))
	if cfg.LogFile == "" {
		return slog.New(consoleHandler), func() error { return nil }
	}

	file, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		logger := slog.New(consoleHandler)
		logger.Warn("could not open log file, logging to console only", "file", cfg.LogFile, "error", err)
		return logger, func() error { return nil }
	}

	return SetupWithWriters(console, file, cfg.Verbose), file.Close
}

// SetupWithWriters fans out to a console text handler and a JSON handler on
// file. The file handler records everything from Debug up.
func SetupWithWriters(console, file io.Writer, verbose bool) *slog.Logger {
	fileHandler := slog.NewJSONHandler(file, &slog.HandlerOptions{Level: slog.LevelDebug})
	return slog.New(slogmulti.Fanout(newConsoleHandler(console, ConsoleLevel(verbose)), fileHandler))
}

// newConsoleHandler drops the time attribute; console lines are read by a
// person watching the run.
func newConsoleHandler(w io.Writer, level slog.Level) slog.Handler {
	return slog.NewTextHandler(w, &slog.HandlerOptions{
		Level: level,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if len(groups) == 0 && a.Key == slog.TimeKey {
				return slog.Attr{}
			}
			return a
		},
	})
}
