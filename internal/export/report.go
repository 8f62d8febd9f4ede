// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package export

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/chat-extract/pkg/types"
)

// Report is the on-disk summary of one extraction run.
type Report struct {
	Source      string    `json:"source" yaml:"source"`
	OutputDir   string    `json:"output_dir" yaml:"output_dir"`
	GeneratedAt time.Time `json:"generated_at" yaml:"generated_at"`
	Emitted     int       `json:"emitted" yaml:"emitted"`
	Skipped     int       `json:"skipped" yaml:"skipped"`
	Chats       []Entry   `json:"chats" yaml:"chats"`
}

// NewReport builds a Report for result.
func NewReport(source, outputDir string, result Result, at time.Time) Report {
	chats := result.Entries
	if chats == nil {
		chats = []Entry{}
	}
	return Report{
		Source:      source,
		OutputDir:   outputDir,
		GeneratedAt: at.UTC(),
		Emitted:     result.Emitted(),
		Skipped:     result.Skipped,
		Chats:       chats,
	}
}

// ReportFormatFor picks the encoding from the file extension.
func ReportFormatFor(path string) types.ReportFormat {
	if strings.EqualFold(filepath.Ext(path), ".json") {
		return types.ReportJSON
	}
	return types.ReportYAML
}

// WriteReport writes rep to path as YAML or JSON, depending on the extension.
func WriteReport(path string, rep Report) error {
	var (
		data []byte
		err  error
	)
	switch ReportFormatFor(path) {
	case types.ReportJSON:
		data, err = json.MarshalIndent(rep, "", "  ")
	default:
		data, err = yaml.Marshal(&rep)
	}
	if err != nil {
		return fmt.Errorf("marshaling report: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return &types.StorageError{Op: "writing report", Path: path, Err: err}
	}
	return nil
}

// ReadReport loads a report written by WriteReport.
func ReadReport(path string) (*Report, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &types.StorageError{Op: "reading report", Path: path, Err: err}
	}
	var rep Report
	switch ReportFormatFor(path) {
	case types.ReportJSON:
		err = json.Unmarshal(data, &rep)
	default:
		err = yaml.Unmarshal(data, &rep)
	}
	if err != nil {
		return nil, fmt.Errorf("parsing report: %w", err)
	}
	return &rep, nil
}
