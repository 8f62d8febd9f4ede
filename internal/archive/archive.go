// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package archive reads an exported conversation archive: a JSON array of
// chats, each holding a mapping of message nodes.
package archive

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"iter"
	"os"

	"github.com/pdiddy/chat-extract/pkg/types"
)

// ErrInputNotFound is returned by ReadFile when the archive does not exist.
var ErrInputNotFound = errors.New("archive file not found")

// Archive is a parsed export. Chats are decoded on demand, in array order.
type Archive struct {
	raw []json.RawMessage
}

// ReadFile reads the whole archive file into memory.
func ReadFile(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%s: %w", path, ErrInputNotFound)
		}
		return nil, &types.StorageError{Op: "reading", Path: path, Err: err}
	}
	return data, nil
}

// Parse validates content and splits the top-level array into chat records.
// Malformed JSON, or a root value that is not an array, yields a
// *types.ParseError.
func Parse(content []byte) (*Archive, error) {
	if !json.Valid(content) {
		var v any
		err := json.Unmarshal(content, &v)
		if err == nil {
			err = errors.New("invalid JSON")
		}
		return nil, &types.ParseError{Msg: "archive is not valid JSON", Err: err}
	}

	trimmed := bytes.TrimSpace(content)
	if len(trimmed) == 0 || trimmed[0] != '[' {
		return nil, &types.ParseError{Msg: "archive root must be a JSON array"}
	}

	var raw []json.RawMessage
	if err := json.Unmarshal(trimmed, &raw); err != nil {
		return nil, &types.ParseError{Msg: "reading archive array", Err: err}
	}
	return &Archive{raw: raw}, nil
}

// Len returns the number of chat records in the archive, titled or not.
func (a *Archive) Len() int {
	return len(a.raw)
}

// Chats yields each chat record with its 0-based position. A record that
// cannot be decoded into a chat yields a *types.StructureError and ends the
// sequence.
func (a *Archive) Chats() iter.Seq2[types.Chat, error] {
	return func(yield func(types.Chat, error) bool) {
		for i, raw := range a.raw {
			chat, err := decodeChat(i, raw)
			if !yield(chat, err) || err != nil {
				return
			}
		}
	}
}

func decodeChat(index int, raw json.RawMessage) (types.Chat, error) {
	if bytes.Equal(bytes.TrimSpace(raw), []byte("null")) {
		return types.Chat{}, &types.StructureError{Chat: index, Msg: "chat is null"}
	}
	var chat types.Chat
	if err := json.Unmarshal(raw, &chat); err != nil {
		return types.Chat{}, &types.StructureError{Chat: index, Msg: "decoding chat", Err: err}
	}
	chat.Index = index
	return chat, nil
}
