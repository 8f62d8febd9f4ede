// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package render turns one chat into a Markdown transcript and a file name
// that is legal on every common file system.
package render

import (
	"errors"
	"strings"

	"github.com/pdiddy/chat-extract/pkg/types"
)

// AssistantName is the heading used for assistant messages.
const AssistantName = "ChatGPT"

// Rendered is the Markdown form of one chat.
type Rendered struct {
	// Title is the chat title as it appears in the archive.
	Title string

	// Name is the safe base file name, without extension or index.
	Name string

	// Markdown is the transcript. It is empty when no message qualified.
	Markdown string

	// Messages counts the messages that contributed a paragraph.
	Messages int
}

// Renderer renders chats for one human participant.
type Renderer struct {
	// UserName is the heading for every non-assistant message.
	UserName string
}

// New returns a Renderer. An empty name falls back to types.DefaultUserName.
func New(userName string) *Renderer {
	if userName == "" {
		userName = types.DefaultUserName
	}
	return &Renderer{UserName: userName}
}

// Render builds the transcript for chat. It reports false when the chat has
// no title and must be skipped. Mapping entries are taken in document order.
// A message whose shape cannot be rendered returns a *types.StructureError.
func (r *Renderer) Render(chat types.Chat) (Rendered, bool, error) {
	title, ok := chat.Title.Get()
	if !ok || title == "" {
		return Rendered{}, false, nil
	}

	nodes, err := chat.Nodes()
	if err != nil {
		return Rendered{}, false, &types.StructureError{Chat: chat.Index, Msg: "decoding mapping", Err: err}
	}
	mapping, ok := nodes.Get()
	if !ok {
		return Rendered{}, false, &types.StructureError{Chat: chat.Index, Msg: "chat has no mapping"}
	}

	out := Rendered{Title: title, Name: SafeName(title)}
	var b strings.Builder
	for _, node := range mapping {
		text, speaker, err := r.paragraph(node)
		if err != nil {
			var se *types.StructureError
			if errors.As(err, &se) {
				se.Chat = chat.Index
			}
			return Rendered{}, false, err
		}
		if text == "" {
			continue
		}
		b.WriteString("## ")
		b.WriteString(speaker)
		b.WriteString("\n")
		b.WriteString(text)
		b.WriteString("\n\n")
		out.Messages++
	}
	out.Markdown = b.String()
	return out, true, nil
}

// paragraph returns the text and speaker a node contributes, or an empty
// text when the node is not part of the visible conversation. Members are
// decoded in filter order: a message dropped for its author, role or
// recipient is never checked any further.
func (r *Renderer) paragraph(node types.Node) (string, string, error) {
	shapeErr := func(msg string, err error) error {
		return &types.StructureError{Node: node.ID, Msg: msg, Err: err}
	}

	msg, err := node.Message()
	if err != nil {
		return "", "", shapeErr("decoding message", err)
	}
	if msg == nil {
		return "", "", nil
	}

	author, err := msg.Author()
	if err != nil {
		return "", "", shapeErr("decoding author", err)
	}
	if author == nil {
		return "", "", nil
	}
	if !author.Role.Set {
		return "", "", shapeErr("author has no role", nil)
	}
	role := author.Role.Value
	if author.Role.Null || role == "" || role == types.RoleSystem {
		return "", "", nil
	}

	recipient, err := msg.Recipient()
	if err != nil {
		return "", "", shapeErr("decoding recipient", err)
	}
	if to, ok := recipient.Get(); !ok || to != types.RecipientAll {
		return "", "", nil
	}

	field, err := msg.Content()
	if err != nil {
		return "", "", shapeErr("decoding content", err)
	}
	content, ok := field.Get()
	if !ok {
		return "", "", shapeErr("message has no content", nil)
	}
	if !content.Parts.Set {
		return "", "", nil
	}
	if content.Parts.Null {
		return "", "", shapeErr("content parts is null", nil)
	}

	text := firstText(content.Parts.Value)
	if text == "" {
		return "", "", nil
	}
	return text, r.speaker(role), nil
}

func (r *Renderer) speaker(role string) string {
	if role == types.RoleAssistant {
		return AssistantName
	}
	return r.UserName
}

// firstText returns the first text part. Later parts are never consulted,
// even when the first text part is empty.
func firstText(parts []types.Part) string {
	for _, p := range parts {
		if p.Kind == types.PartText {
			return p.Text
		}
	}
	return ""
}
