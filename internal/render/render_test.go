// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package render

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/chat-extract/pkg/types"
)

// decodeChat builds a chat from JSON so tests exercise the same presence
// rules the archive reader produces.
func decodeChat(t *testing.T, input string) types.Chat {
	t.Helper()
	var chat types.Chat
	require.NoError(t, json.Unmarshal([]byte(input), &chat))
	return chat
}

func TestRenderSkipsUntitled(t *testing.T) {
	for _, input := range []string{
		`{"mapping": {}}`,
		`{"title": null, "mapping": {}}`,
		`{"title": "", "mapping": {}}`,
		`{"title": ""}`,
	} {
		r := New("")
		_, ok, err := r.Render(decodeChat(t, input))
		require.NoError(t, err, input)
		assert.False(t, ok, input)
	}
}

func TestRenderMessages(t *testing.T) {
	tests := []struct {
		name    string
		mapping string
		want    string
		count   int
	}{
		{
			name: "user and assistant",
			mapping: `{
				"root": {"message": null},
				"u1": {"message": {"author": {"role": "user"}, "recipient": "all", "content": {"parts": ["Hi"]}}},
				"a1": {"message": {"author": {"role": "assistant"}, "recipient": "all", "content": {"parts": ["Hello!"]}}}
			}`,
			want:  "## Ada\nHi\n\n## ChatGPT\nHello!\n\n",
			count: 2,
		},
		{
			name: "system message is never rendered",
			mapping: `{
				"s": {"message": {"author": {"role": "system"}, "recipient": "all", "content": {"parts": ["You are helpful."]}}}
			}`,
		},
		{
			name: "empty or null role is skipped",
			mapping: `{
				"e": {"message": {"author": {"role": ""}, "recipient": "all", "content": {"parts": ["x"]}}},
				"n": {"message": {"author": {"role": null}, "recipient": "all", "content": {"parts": ["y"]}}}
			}`,
		},
		{
			name: "recipient other than all is skipped",
			mapping: `{
				"t": {"message": {"author": {"role": "assistant"}, "recipient": "browser", "content": {"parts": ["search(q)"]}}},
				"m": {"message": {"author": {"role": "assistant"}, "content": {"parts": ["no recipient"]}}},
				"n": {"message": {"author": {"role": "assistant"}, "recipient": null, "content": {"parts": ["null recipient"]}}},
				"c": {"message": {"author": {"role": "assistant"}, "recipient": "All", "content": {"parts": ["wrong case"]}}}
			}`,
		},
		{
			name: "message without author is skipped",
			mapping: `{
				"a": {"message": {"recipient": "all", "content": {"parts": ["orphan"]}}},
				"b": {"message": {"author": null, "recipient": "all", "content": {"parts": ["null author"]}}}
			}`,
		},
		{
			name: "only the first text part is used",
			mapping: `{
				"u": {"message": {"author": {"role": "user"}, "recipient": "all", "content": {"parts": [{"asset_pointer": "file-1"}, "look at this", "and this"]}}}
			}`,
			want:  "## Ada\nlook at this\n\n",
			count: 1,
		},
		{
			name: "empty first text part suppresses later parts",
			mapping: `{
				"u": {"message": {"author": {"role": "user"}, "recipient": "all", "content": {"parts": ["", "later"]}}}
			}`,
		},
		{
			name: "no text part or no parts",
			mapping: `{
				"i": {"message": {"author": {"role": "user"}, "recipient": "all", "content": {"parts": [{"asset_pointer": "file-2"}]}}},
				"p": {"message": {"author": {"role": "user"}, "recipient": "all", "content": {"content_type": "code"}}},
				"e": {"message": {"author": {"role": "user"}, "recipient": "all", "content": {"parts": []}}}
			}`,
		},
		{
			name: "tool role uses the user heading",
			mapping: `{
				"t": {"message": {"author": {"role": "tool"}, "recipient": "all", "content": {"parts": ["result"]}}}
			}`,
			want:  "## Ada\nresult\n\n",
			count: 1,
		},
		{
			name: "text is written verbatim",
			mapping: `{
				"a": {"message": {"author": {"role": "assistant"}, "recipient": "all", "content": {"parts": ["line one\n\n  line two\n"]}}}
			}`,
			want:  "## ChatGPT\nline one\n\n  line two\n\n\n",
			count: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			chat := decodeChat(t, `{"title": "Chat", "mapping": `+tt.mapping+`}`)
			got, ok, err := New("Ada").Render(chat)
			require.NoError(t, err)
			require.True(t, ok)
			assert.Equal(t, tt.want, got.Markdown)
			assert.Equal(t, tt.count, got.Messages)
			assert.Equal(t, "Chat", got.Title)
			assert.Equal(t, "Chat", got.Name)
		})
	}
}

func TestRenderKeepsMappingOrder(t *testing.T) {
	chat := decodeChat(t, `{"title": "Order", "mapping": {
		"z": {"message": {"author": {"role": "assistant"}, "recipient": "all", "content": {"parts": ["first"]}}},
		"a": {"message": {"author": {"role": "user"}, "recipient": "all", "content": {"parts": ["second"]}}}
	}}`)

	got, ok, err := New("").Render(chat)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "## ChatGPT\nfirst\n\n## User\nsecond\n\n", got.Markdown)
}

func TestRenderStructureErrors(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		node    string
		wantMsg string
	}{
		{
			name:    "missing mapping",
			input:   `{"title": "T"}`,
			wantMsg: "chat has no mapping",
		},
		{
			name:    "null mapping",
			input:   `{"title": "T", "mapping": null}`,
			wantMsg: "chat has no mapping",
		},
		{
			name:    "author without role",
			input:   `{"title": "T", "mapping": {"n1": {"message": {"author": {"name": "x"}, "recipient": "all"}}}}`,
			node:    "n1",
			wantMsg: "author has no role",
		},
		{
			name:    "missing content",
			input:   `{"title": "T", "mapping": {"n2": {"message": {"author": {"role": "user"}, "recipient": "all"}}}}`,
			node:    "n2",
			wantMsg: "message has no content",
		},
		{
			name:    "null parts",
			input:   `{"title": "T", "mapping": {"n3": {"message": {"author": {"role": "user"}, "recipient": "all", "content": {"parts": null}}}}}`,
			node:    "n3",
			wantMsg: "content parts is null",
		},
		{
			name:    "array mapping",
			input:   `{"title": "T", "mapping": []}`,
			wantMsg: "decoding mapping",
		},
		{
			name:    "number node",
			input:   `{"title": "T", "mapping": {"n": 1}}`,
			wantMsg: "decoding mapping",
		},
		{
			name:    "string message",
			input:   `{"title": "T", "mapping": {"n4": {"message": "hi"}}}`,
			node:    "n4",
			wantMsg: "decoding message",
		},
		{
			name:    "string author",
			input:   `{"title": "T", "mapping": {"n5": {"message": {"author": "bot"}}}}`,
			node:    "n5",
			wantMsg: "decoding author",
		},
		{
			name:    "numeric role",
			input:   `{"title": "T", "mapping": {"n6": {"message": {"author": {"role": 1}, "recipient": "all"}}}}`,
			node:    "n6",
			wantMsg: "decoding author",
		},
		{
			name:    "numeric recipient",
			input:   `{"title": "T", "mapping": {"n7": {"message": {"author": {"role": "user"}, "recipient": 3}}}}`,
			node:    "n7",
			wantMsg: "decoding recipient",
		},
		{
			name:    "string content",
			input:   `{"title": "T", "mapping": {"n8": {"message": {"author": {"role": "user"}, "recipient": "all", "content": "text"}}}}`,
			node:    "n8",
			wantMsg: "decoding content",
		},
		{
			name:    "object parts",
			input:   `{"title": "T", "mapping": {"n9": {"message": {"author": {"role": "user"}, "recipient": "all", "content": {"parts": {}}}}}}`,
			node:    "n9",
			wantMsg: "decoding content",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			chat := decodeChat(t, tt.input)
			chat.Index = 4

			_, ok, err := New("").Render(chat)
			require.Error(t, err)
			assert.False(t, ok)

			var se *types.StructureError
			require.True(t, errors.As(err, &se))
			assert.Equal(t, 4, se.Chat)
			assert.Equal(t, tt.node, se.Node)
			assert.Equal(t, tt.wantMsg, se.Msg)
		})
	}
}

func TestRenderSkipsBeforeShapeChecks(t *testing.T) {
	// Author, role and recipient filters run before anything later in the
	// message is decoded, so a filtered message may be malformed past the
	// point that dropped it without failing the chat.
	chat := decodeChat(t, `{"title": "T", "mapping": {
		"s": {"message": {"author": {"role": "system"}, "recipient": "all"}},
		"t": {"message": {"author": {"role": "assistant"}, "recipient": "python"}},
		"c": {"message": {"author": {"role": "system"}, "recipient": "all", "content": "text"}},
		"p": {"message": {"author": {"role": "tool"}, "recipient": "browser", "content": {"parts": {}}}},
		"r": {"message": {"author": {"role": "system"}, "recipient": 42}},
		"a": {"message": {"recipient": ["all"], "content": 7}},
		"n": {"message": {"author": null, "content": "text"}},
		"u": {"message": {"author": {"role": "user"}, "recipient": "all", "content": {"parts": ["kept"]}}}
	}}`)

	got, ok, err := New("").Render(chat)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "## User\nkept\n\n", got.Markdown)
	assert.Equal(t, 1, got.Messages)
}

func TestRenderUntitledIgnoresMapping(t *testing.T) {
	for _, mapping := range []string{
		`[]`,
		`{"n": 1}`,
		`{"n": {"message": "hi"}}`,
		`{"n": {"message": {"author": "bot"}}}`,
		`{"n": {"message": {"author": {}, "recipient": "all"}}}`,
	} {
		chat := decodeChat(t, `{"title": "", "mapping": `+mapping+`}`)
		_, ok, err := New("").Render(chat)
		require.NoError(t, err, mapping)
		assert.False(t, ok, mapping)
	}
}

func TestNewDefaultsUserName(t *testing.T) {
	assert.Equal(t, types.DefaultUserName, New("").UserName)
	assert.Equal(t, "Ada", New("Ada").UserName)
}

func TestSafeName(t *testing.T) {
	tests := []struct {
		title string
		want  string
	}{
		{title: "Intro", want: "Intro"},
		{title: "C#: Tips", want: "CSharp- Tips"},
		{title: "C# Is Great: A/B", want: "CSharp Is Great- A-B"},
		{title: `a<b>c"d\e|f?g*h`, want: "a-b-c-d-e-f-g-h"},
		{title: "tab\there\nnl", want: "tab-here-nl"},
		{title: "F# and C# and c#", want: "F# and CSharp and c#"},
		{title: "Café: naïve", want: "Café- naïve"},
	}

	for _, tt := range tests {
		t.Run(tt.title, func(t *testing.T) {
			got := SafeName(tt.title)
			assert.Equal(t, tt.want, got)
			assert.NotContains(t, got, "C#")
			assert.NotContains(t, got, "/")
			assert.NotContains(t, got, ":")
		})
	}
}
