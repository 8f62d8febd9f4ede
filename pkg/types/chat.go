// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types holds the records shared by the archive reader, the renderer
// and the exporter, along with the configuration and error types of the CLI.
package types

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Role values that the renderer treats specially.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
	RoleTool      = "tool"
)

// RecipientAll is the only recipient whose messages are rendered.
const RecipientAll = "all"

// Chat is one conversation from an exported archive. Only the title is
// decoded up front; the mapping stays raw until Nodes is called, so a chat
// that is skipped never has its messages inspected.
type Chat struct {
	// Index is the 0-based position of the chat in the archive array.
	Index int `json:"-"`

	// Title is the conversation title. Chats without a title are not exported.
	Title Field[string] `json:"title"`

	// RawMapping is the undecoded mapping object.
	RawMapping Field[json.RawMessage] `json:"mapping"`
}

// Nodes decodes the mapping in document order.
func (c Chat) Nodes() (Field[Mapping], error) {
	return DecodeField[Mapping](c.RawMapping)
}

// Node is one entry of a chat's mapping.
type Node struct {
	// ID is the mapping key.
	ID string `json:"-"`

	// RawMessage is absent or null when the node carries no message (for
	// example the root node).
	RawMessage Field[json.RawMessage] `json:"message"`
}

// Message decodes the node's message. It returns nil when there is none.
func (n Node) Message() (*Message, error) {
	msg, err := DecodeField[Message](n.RawMessage)
	if err != nil || !msg.Present() {
		return nil, err
	}
	return &msg.Value, nil
}

// Message is a single turn within a chat. Its members are decoded one at a
// time so that a filtered message is never checked past the filter.
type Message struct {
	RawAuthor    Field[json.RawMessage] `json:"author"`
	RawRecipient Field[json.RawMessage] `json:"recipient"`
	RawContent   Field[json.RawMessage] `json:"content"`
}

// Author decodes the author. It returns nil when the author is absent or null.
func (m Message) Author() (*Author, error) {
	author, err := DecodeField[Author](m.RawAuthor)
	if err != nil || !author.Present() {
		return nil, err
	}
	return &author.Value, nil
}

// Recipient decodes the recipient.
func (m Message) Recipient() (Field[string], error) {
	return DecodeField[string](m.RawRecipient)
}

// Content decodes the content.
func (m Message) Content() (Field[Content], error) {
	return DecodeField[Content](m.RawContent)
}

// Author identifies who produced a message.
type Author struct {
	Role Field[string] `json:"role"`
}

// Content is the body of a message.
type Content struct {
	Parts Field[[]Part] `json:"parts"`
}

// PartKind tags the variant held by a Part.
type PartKind string

const (
	PartText  PartKind = "text"
	PartOther PartKind = "other"
)

// Part is one fragment of message content. Text parts carry a JSON string;
// every other JSON value (asset pointers, numbers, null) is kept raw.
type Part struct {
	Kind PartKind
	Text string
	Raw  json.RawMessage
}

// TextPart returns a text Part.
func TextPart(s string) Part {
	return Part{Kind: PartText, Text: s}
}

// UnmarshalJSON selects the variant from the first byte of the value.
func (p *Part) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*p = TextPart(s)
		return nil
	}
	*p = Part{Kind: PartOther, Raw: append(json.RawMessage(nil), data...)}
	return nil
}

// MarshalJSON writes the part back in its source form.
func (p Part) MarshalJSON() ([]byte, error) {
	if p.Kind == PartText {
		return json.Marshal(p.Text)
	}
	if len(p.Raw) == 0 {
		return []byte("null"), nil
	}
	return p.Raw, nil
}

// Mapping is the ordered list of nodes of a chat. JSON objects are unordered
// in Go maps, so decoding walks the object token by token to keep the order
// in which entries appear in the document.
type Mapping []Node

// UnmarshalJSON decodes a JSON object of id to node, preserving key order.
func (m *Mapping) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("mapping must be an object, got %s", describeToken(tok))
	}

	nodes := Mapping{}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := tok.(string)
		if !ok {
			return fmt.Errorf("mapping key must be a string, got %s", describeToken(tok))
		}

		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return fmt.Errorf("mapping entry %q: %w", key, err)
		}
		node := Node{ID: key}
		if err := json.Unmarshal(raw, &node); err != nil {
			return fmt.Errorf("mapping entry %q: %w", key, err)
		}
		nodes = append(nodes, node)
	}
	if _, err := dec.Token(); err != nil {
		return err
	}
	*m = nodes
	return nil
}

func describeToken(tok json.Token) string {
	switch v := tok.(type) {
	case json.Delim:
		return fmt.Sprintf("%q", v.String())
	case nil:
		return "null"
	default:
		return fmt.Sprintf("%T", v)
	}
}
