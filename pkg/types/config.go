// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// DefaultUserName is the heading used for non-assistant messages when no
// name is configured.
const DefaultUserName = "User"

// ReportFormat selects the run report encoding.
type ReportFormat string

const (
	ReportYAML ReportFormat = "yaml"
	ReportJSON ReportFormat = "json"
)

// LogConfig holds logging settings shared by commands.
type LogConfig struct {
	// Verbose enables progress messages on the console.
	Verbose bool `json:"verbose" yaml:"verbose"`

	// LogFile, when set, receives JSON log records in addition to the console.
	LogFile string `json:"log_file,omitempty" yaml:"log_file,omitempty"`
}

// ExtractConfig holds settings for the extract command.
type ExtractConfig struct {
	LogConfig `yaml:",inline"`

	// Path is the archive to read (conversations.json).
	Path string `json:"path" yaml:"path"`

	// OutputDir receives one Markdown file per chat. Created if absent.
	OutputDir string `json:"output_dir" yaml:"output_dir"`

	// UserName is the heading for messages not written by the assistant
	// (default "User").
	UserName string `json:"user_name" yaml:"user_name"`

	// IncludeIndex prefixes file names with the 1-based chat number.
	IncludeIndex bool `json:"include_index" yaml:"include_index"`

	// ReportPath, when set, receives a summary of the run. A .json extension
	// selects JSON; anything else is written as YAML.
	ReportPath string `json:"report_path,omitempty" yaml:"report_path,omitempty"`
}
