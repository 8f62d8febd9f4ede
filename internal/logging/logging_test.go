// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package logging

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/chat-extract/pkg/types"
)

func TestConsoleLevel(t *testing.T) {
	assert.Equal(t, "INFO", ConsoleLevel(true).String())
	assert.Equal(t, "WARN", ConsoleLevel(false).String())
}

func TestSetupConsoleOnly(t *testing.T) {
	tests := []struct {
		name     string
		verbose  bool
		wantInfo bool
	}{
		{name: "quiet hides progress", verbose: false, wantInfo: false},
		{name: "verbose shows progress", verbose: true, wantInfo: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var console bytes.Buffer
			logger, cleanup := Setup(types.LogConfig{Verbose: tt.verbose}, &console)
			defer cleanup()

			logger.Info("extracting chat", "title", "Intro")
			logger.Warn("file name reused")

			out := console.String()
			assert.Equal(t, tt.wantInfo, strings.Contains(out, "extracting chat"))
			assert.Contains(t, out, "file name reused")
			assert.NotContains(t, out, "time=")
		})
	}
}

func TestSetupWithWriters(t *testing.T) {
	var console, file bytes.Buffer
	logger := SetupWithWriters(&console, &file, false)

	logger.Debug("skipped chat", "position", 3)
	logger.Info("extracted chat", "path", "out/Intro.md")

	assert.Empty(t, console.String())

	lines := strings.Split(strings.TrimSpace(file.String()), "\n")
	require.Len(t, lines, 2)

	var rec map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[1]), &rec))
	assert.Equal(t, "extracted chat", rec["msg"])
	assert.Equal(t, "out/Intro.md", rec["path"])
}

func TestSetupLogFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "extract.log")
	var console bytes.Buffer

	logger, cleanup := Setup(types.LogConfig{Verbose: true, LogFile: path}, &console)
	logger.Info("all chats extracted", "emitted", 2)
	require.NoError(t, cleanup())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"msg":"all chats extracted"`)
	assert.Contains(t, console.String(), "all chats extracted")
}

func TestSetupLogFileUnavailable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "no-such-dir", "extract.log")
	var console bytes.Buffer

	logger, cleanup := Setup(types.LogConfig{LogFile: path}, &console)
	require.NoError(t, cleanup())
	require.NotNil(t, logger)
	assert.Contains(t, console.String(), "could not open log file")
}
