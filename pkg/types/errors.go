// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "fmt"

// ParseError reports an archive that is not a well-formed JSON array.
type ParseError struct {
	Msg string
	Err error
}

func (e *ParseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Msg, e.Err)
	}
	return e.Msg
}

func (e *ParseError) Unwrap() error { return e.Err }

// StructureError reports a chat or message whose shape is not usable, such
// as an author without a role. It aborts the whole run.
type StructureError struct {
	// Chat is the 0-based position of the chat in the archive.
	Chat int
	// Node is the mapping key of the offending node, if any.
	Node string
	Msg  string
	Err  error
}

func (e *StructureError) Error() string {
	where := fmt.Sprintf("chat %d", e.Chat)
	if e.Node != "" {
		where += fmt.Sprintf(" node %q", e.Node)
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", where, e.Msg, e.Err)
	}
	return fmt.Sprintf("%s: %s", where, e.Msg)
}

func (e *StructureError) Unwrap() error { return e.Err }

// StorageError reports a failure reading the archive or writing output.
type StorageError struct {
	Op   string
	Path string
	Err  error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }
