package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// BlockType tags a ContentBlock variant.
type BlockType string

const (
	BlockText       BlockType = "text"
	BlockImage      BlockType = "image"
	BlockToolUse    BlockType = "tool_use"
	BlockToolResult BlockType = "tool_result"
)

// ClaudeRequest models the Anthropic /v1/messages payload. It doubles as the
// pivot representation every translation goes through.
type ClaudeRequest struct {
	Model       string          `json:"model"`
	Messages    []ClaudeMessage `json:"messages"`
	MaxTokens   int32           `json:"max_tokens"`
	System      string          `json:"system,omitempty"`
	Temperature *float32        `json:"temperature,omitempty"`
	TopP        *float32        `json:"top_p,omitempty"`
	Stream      *bool           `json:"stream,omitempty"`
	Tools       []ClaudeTool    `json:"tools,omitempty"`
}

// ClaudeMessage carries an ordered, non-empty sequence of content blocks.
type ClaudeMessage struct {
	Role    string         `json:"role"`
	Content []ContentBlock `json:"content"`
}

// UnmarshalJSON accepts system as a string or an array of text blocks.
func (r *ClaudeRequest) UnmarshalJSON(data []byte) error {
	type plain ClaudeRequest
	aux := struct {
		*plain
		System json.RawMessage `json:"system"`
	}{plain: (*plain)(r)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	system, err := decodeTextContent(aux.System)
	if err != nil {
		return fmt.Errorf("decode system: %w", err)
	}
	r.System = system
	return nil
}

// UnmarshalJSON also accepts the string shorthand for a single text block.
func (m *ClaudeMessage) UnmarshalJSON(data []byte) error {
	var raw struct {
		Role    string          `json:"role"`
		Content json.RawMessage `json:"content"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	m.Role = raw.Role
	m.Content = nil

	trimmed := bytes.TrimSpace(raw.Content)
	switch {
	case len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")):
		return nil
	case trimmed[0] == '"':
		var text string
		if err := json.Unmarshal(trimmed, &text); err != nil {
			return fmt.Errorf("decode message content: %w", err)
		}
		m.Content = []ContentBlock{TextBlock(text)}
		return nil
	default:
		if err := json.Unmarshal(trimmed, &m.Content); err != nil {
			return fmt.Errorf("decode message content: %w", err)
		}
		return nil
	}
}

// ClaudeTool is a tool definition in the pivot schema.
type ClaudeTool struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	InputSchema json.RawMessage `json:"input_schema"`
}

// ImageSource holds base64 image data.
type ImageSource struct {
	Type      string `json:"type"`
	MediaType string `json:"media_type"`
	Data      string `json:"data"`
}

// ContentBlock is one typed unit of pivot content. Only the fields of the
// variant named by Type are meaningful.
type ContentBlock struct {
	Type BlockType

	// text
	Text string

	// image
	Source *ImageSource

	// tool_use
	ID    string
	Name  string
	Input json.RawMessage

	// tool_result
	ToolUseID string
	Content   string

	// raw preserves blocks of a type this package does not model.
	raw json.RawMessage
}

// TextBlock builds a text block.
func TextBlock(text string) ContentBlock {
	return ContentBlock{Type: BlockText, Text: text}
}

// ImageBlock builds a base64 image block.
func ImageBlock(mediaType, data string) ContentBlock {
	return ContentBlock{Type: BlockImage, Source: &ImageSource{Type: "base64", MediaType: mediaType, Data: data}}
}

// ToolUseBlock builds a tool invocation block.
func ToolUseBlock(id, name string, input json.RawMessage) ContentBlock {
	return ContentBlock{Type: BlockToolUse, ID: id, Name: name, Input: input}
}

// ToolResultBlock builds a tool result block.
func ToolResultBlock(toolUseID, content string) ContentBlock {
	return ContentBlock{Type: BlockToolResult, ToolUseID: toolUseID, Content: content}
}

type textBlockJSON struct {
	Type BlockType `json:"type"`
	Text string    `json:"text"`
}

type imageBlockJSON struct {
	Type   BlockType    `json:"type"`
	Source *ImageSource `json:"source"`
}

type toolUseBlockJSON struct {
	Type  BlockType       `json:"type"`
	ID    string          `json:"id"`
	Name  string          `json:"name"`
	Input json.RawMessage `json:"input"`
}

type toolResultBlockJSON struct {
	Type      BlockType `json:"type"`
	ToolUseID string    `json:"tool_use_id"`
	Content   string    `json:"content"`
}

// MarshalJSON writes only the fields of the block's variant.
func (b ContentBlock) MarshalJSON() ([]byte, error) {
	switch b.Type {
	case BlockText:
		return json.Marshal(textBlockJSON{Type: b.Type, Text: b.Text})
	case BlockImage:
		return json.Marshal(imageBlockJSON{Type: b.Type, Source: b.Source})
	case BlockToolUse:
		input := b.Input
		if len(input) == 0 {
			input = json.RawMessage("{}")
		}
		return json.Marshal(toolUseBlockJSON{Type: b.Type, ID: b.ID, Name: b.Name, Input: input})
	case BlockToolResult:
		return json.Marshal(toolResultBlockJSON{Type: b.Type, ToolUseID: b.ToolUseID, Content: b.Content})
	default:
		if len(b.raw) > 0 {
			return b.raw, nil
		}
		return nil, fmt.Errorf("unsupported content block type %q", b.Type)
	}
}

// UnmarshalJSON decodes any block variant. Unknown types keep their tag and
// original encoding so they survive a passthrough.
func (b *ContentBlock) UnmarshalJSON(data []byte) error {
	var raw struct {
		Type      BlockType       `json:"type"`
		Text      string          `json:"text"`
		Source    *ImageSource    `json:"source"`
		ID        string          `json:"id"`
		Name      string          `json:"name"`
		Input     json.RawMessage `json:"input"`
		ToolUseID string          `json:"tool_use_id"`
		Content   json.RawMessage `json:"content"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("decode content block: %w", err)
	}

	*b = ContentBlock{Type: raw.Type}
	switch raw.Type {
	case BlockText:
		b.Text = raw.Text
	case BlockImage:
		b.Source = raw.Source
	case BlockToolUse:
		b.ID = raw.ID
		b.Name = raw.Name
		b.Input = raw.Input
	case BlockToolResult:
		content, err := decodeTextContent(raw.Content)
		if err != nil {
			return err
		}
		b.ToolUseID = raw.ToolUseID
		b.Content = content
	default:
		b.raw = append(json.RawMessage(nil), data...)
	}
	return nil
}

// decodeTextContent accepts either a string or an array of text blocks, as
// used by tool_result content and the system prompt.
func decodeTextContent(raw json.RawMessage) (string, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return "", nil
	}

	var text string
	if err := json.Unmarshal(trimmed, &text); err == nil {
		return text, nil
	}

	var blocks []textBlockJSON
	if err := json.Unmarshal(trimmed, &blocks); err != nil {
		return "", fmt.Errorf("decode text content: %w", err)
	}
	texts := make([]string, 0, len(blocks))
	for _, block := range blocks {
		if block.Type == BlockText {
			texts = append(texts, block.Text)
		}
	}
	return strings.Join(texts, " "), nil
}

// ClaudeResponse models the Anthropic /v1/messages response and the pivot
// response envelope.
type ClaudeResponse struct {
	ID         string         `json:"id"`
	Type       string         `json:"type"`
	Role       string         `json:"role"`
	Content    []ContentBlock `json:"content"`
	Model      string         `json:"model"`
	StopReason StopReason     `json:"stop_reason"`
	Usage      *ClaudeUsage   `json:"usage,omitempty"`
}

// ClaudeUsage mirrors Anthropic usage format.
type ClaudeUsage struct {
	InputTokens  int32 `json:"input_tokens"`
	OutputTokens int32 `json:"output_tokens"`
}
