//go:build mage

// Package main contains Mage build targets for chat-extract developer tooling.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

const (
	binDir    = "bin"
	binName   = "chat-extract"
	cmdPkg    = "./cmd/chat-extract"
	sampleIn  = "testdata/conversations.json"
	sampleOut = "output/sample"
)

// Build compiles the CLI binary into bin/.
func Build() error {
	if err := os.MkdirAll(binDir, 0o755); err != nil {
		return fmt.Errorf("creating %s: %w", binDir, err)
	}
	out := filepath.Join(binDir, binName)
	if err := sh.RunV("go", "build", "-o", out, cmdPkg); err != nil {
		return fmt.Errorf("go build: %w", err)
	}
	fmt.Printf("Built %s\n", out)
	return nil
}

// Test runs the unit tests for every package.
func Test() error {
	return sh.RunV("go", "test", "./...")
}

// Sample converts the bundled sample archive into output/sample/ with
// indexed names and verbose progress.
func Sample() error {
	mg.Deps(Build)
	if err := os.MkdirAll(sampleOut, 0o755); err != nil {
		return fmt.Errorf("creating %s: %w", sampleOut, err)
	}
	return sh.RunV(filepath.Join(binDir, binName), "extract",
		"-p", sampleIn, "-o", sampleOut, "-i", "-v",
		"--report", filepath.Join(sampleOut, "report.yaml"))
}

// Stats prints project metrics: Go production and test lines.
func Stats() error {
	prodLines, err := countGoLines(".", false)
	if err != nil {
		return err
	}
	testLines, err := countGoLines(".", true)
	if err != nil {
		return err
	}

	fmt.Printf("Lines of code (Go, production): %d\n", prodLines)
	fmt.Printf("Lines of code (Go, tests):      %d\n", testLines)
	return nil
}

// countGoLines walks the directory tree and counts non-blank lines in Go files.
// If testOnly is true, count only _test.go files; otherwise count non-test .go files.
// Directories starting with "_" or "." are ignored, as the go tool does.
func countGoLines(root string, testOnly bool) (int, error) {
	total := 0
	err := filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			name := info.Name()
			if path != root && (name[0] == '_' || name[0] == '.') {
				return filepath.SkipDir
			}
			return nil
		}
		if filepath.Ext(path) != ".go" {
			return nil
		}
		isTest := len(path) > 8 && path[len(path)-8:] == "_test.go"
		if testOnly != isTest {
			return nil
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("reading %s: %w", path, err)
		}
		total += countNonBlank(data)
		return nil
	})
	return total, err
}

// countNonBlank counts lines that contain something other than whitespace.
func countNonBlank(data []byte) int {
	count := 0
	blank := true
	for _, b := range data {
		switch b {
		case '\n':
			if !blank {
				count++
			}
			blank = true
		case ' ', '\t', '\r':
		default:
			blank = false
		}
	}
	if !blank {
		count++
	}
	return count
}
