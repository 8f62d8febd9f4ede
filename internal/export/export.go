// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package export writes rendered chats to disk, one Markdown file per chat,
// numbering them and stamping file times so that a listing sorted by
// modification time follows archive order.
package export

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"iter"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/pdiddy/chat-extract/internal/render"
	"github.com/pdiddy/chat-extract/pkg/types"
)

const (
	// markdownExt is appended to every output file name.
	markdownExt = ".md"
	// timeStep separates the synthetic times of consecutive chats.
	timeStep = time.Second
)

// Options controls a single extraction run.
type Options struct {
	// OutputDir receives the Markdown files. It must exist; see EnsureDir.
	OutputDir string

	// IncludeIndex prefixes each file name with "<n>. ".
	IncludeIndex bool

	// Renderer converts chats. Defaults to render.New("").
	Renderer *render.Renderer

	// Logger receives progress records. Defaults to slog.Default().
	Logger *slog.Logger

	// Now returns the time assigned to the first emitted chat. Defaults to time.Now.
	Now func() time.Time
}

// Entry describes one written file.
type Entry struct {
	Index    int       `json:"index" yaml:"index"`
	Title    string    `json:"title" yaml:"title"`
	File     string    `json:"file" yaml:"file"`
	Messages int       `json:"messages" yaml:"messages"`
	ModTime  time.Time `json:"mod_time" yaml:"mod_time"`
}

// Result holds the outcome of an extraction run.
type Result struct {
	Entries []Entry
	Skipped int
}

// Emitted returns the number of files written.
func (r Result) Emitted() int {
	return len(r.Entries)
}

// Total returns the number of chats examined.
func (r Result) Total() int {
	return r.Emitted() + r.Skipped
}

// FileName returns the output file name for a chat. n is the 1-based
// position among emitted chats and is used only when includeIndex is set.
func FileName(safeName string, n int, includeIndex bool) string {
	if includeIndex {
		return fmt.Sprintf("%d. %s%s", n, safeName, markdownExt)
	}
	return safeName + markdownExt
}

// StampFor returns the synthetic time of the n-th emitted chat: the first
// chat gets base and each later chat one step earlier.
func StampFor(base time.Time, n int) time.Time {
	return base.Add(-time.Duration(n-1) * timeStep)
}

// EnsureDir creates dir if it does not exist and reports whether it did.
func EnsureDir(dir string) (bool, error) {
	info, err := os.Stat(dir)
	if err == nil {
		if !info.IsDir() {
			return false, &types.StorageError{Op: "using output directory", Path: dir, Err: errors.New("not a directory")}
		}
		return false, nil
	}
	if !errors.Is(err, fs.ErrNotExist) {
		return false, &types.StorageError{Op: "checking output directory", Path: dir, Err: err}
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return false, &types.StorageError{Op: "creating output directory", Path: dir, Err: err}
	}
	return true, nil
}

// Run renders every chat from chats and writes it to opts.OutputDir. Chats
// are handled one at a time; the first error stops the run and files already
// written stay on disk. Untitled chats are counted as skipped and do not
// consume an index or a time step.
func Run(ctx context.Context, chats iter.Seq2[types.Chat, error], opts Options) (Result, error) {
	opts = withDefaults(opts)
	log := opts.Logger
	base := opts.Now()

	var result Result
	written := make(map[string]int)
	for chat, err := range chats {
		if err != nil {
			return result, err
		}
		if err := ctx.Err(); err != nil {
			return result, err
		}

		rendered, ok, err := opts.Renderer.Render(chat)
		if err != nil {
			return result, err
		}
		if !ok {
			result.Skipped++
			log.Debug("skipped chat", "position", chat.Index, "reason", "no title")
			continue
		}

		n := result.Emitted() + 1
		log.Info("extracting chat", "title", rendered.Title)
		entry, err := writeChat(rendered, n, StampFor(base, n), opts)
		if err != nil {
			return result, err
		}
		if prev, dup := written[entry.File]; dup {
			log.Warn("file name reused, earlier chat overwritten", "file", entry.File, "previous", prev, "current", n)
		}
		written[entry.File] = n
		result.Entries = append(result.Entries, entry)
		log.Info("extracted chat", "path", filepath.Join(opts.OutputDir, entry.File), "messages", entry.Messages)
	}

	log.Info("all chats extracted", "emitted", result.Emitted(), "skipped", result.Skipped)
	return result, nil
}

// writeChat persists one rendered chat as the n-th emitted file and sets its
// access and modification times to stamp.
func writeChat(r render.Rendered, n int, stamp time.Time, opts Options) (Entry, error) {
	name := FileName(r.Name, n, opts.IncludeIndex)
	path := filepath.Join(opts.OutputDir, name)

	if err := os.WriteFile(path, []byte(r.Markdown), 0o644); err != nil {
		return Entry{}, &types.StorageError{Op: "writing", Path: path, Err: err}
	}
	if err := os.Chtimes(path, stamp, stamp); err != nil {
		return Entry{}, &types.StorageError{Op: "setting times on", Path: path, Err: err}
	}

	return Entry{
		Index:    n,
		Title:    r.Title,
		File:     name,
		Messages: r.Messages,
		ModTime:  stamp.UTC(),
	}, nil
}

func withDefaults(opts Options) Options {
	if opts.Renderer == nil {
		opts.Renderer = render.New("")
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return opts
}
