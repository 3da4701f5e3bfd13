package models

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
)

var errInvalidContent = errors.New("message content must be a string, an array of parts, or null")

// OpenAIRequest models the OpenAI chat/completions request payload.
type OpenAIRequest struct {
	Model       string          `json:"model"`
	Messages    []OpenAIMessage `json:"messages"`
	MaxTokens   *int32          `json:"max_tokens,omitempty"`
	Temperature *float32        `json:"temperature,omitempty"`
	TopP        *float32        `json:"top_p,omitempty"`
	Stream      *bool           `json:"stream,omitempty"`
	Tools       []OpenAITool    `json:"tools,omitempty"`
}

// OpenAIMessage is a single chat message whose content is loosely typed.
type OpenAIMessage struct {
	Role      string         `json:"role"`
	Content   MessageContent `json:"content"`
	Name      string         `json:"name,omitempty"`
	ToolCalls []ToolCall     `json:"tool_calls,omitempty"`
}

// OpenAITool declares a callable function.
type OpenAITool struct {
	Type     string       `json:"type"`
	Function ToolFunction `json:"function"`
}

// ToolFunction describes a function tool.
type ToolFunction struct {
	Name        string          `json:"name"`
	Description *string         `json:"description,omitempty"`
	Parameters  json.RawMessage `json:"parameters,omitempty"`
}

// ToolCall is a function invocation emitted by the assistant.
type ToolCall struct {
	ID       string           `json:"id"`
	Type     string           `json:"type"`
	Function ToolCallFunction `json:"function"`
}

// ToolCallFunction carries the function name and its JSON-encoded arguments.
type ToolCallFunction struct {
	Name      string `json:"name"`
	Arguments string `json:"arguments"`
}

// OpenAIResponse models the chat/completions response payload.
type OpenAIResponse struct {
	ID      string         `json:"id"`
	Object  string         `json:"object"`
	Created int64          `json:"created"`
	Model   string         `json:"model"`
	Choices []OpenAIChoice `json:"choices"`
	Usage   *OpenAIUsage   `json:"usage,omitempty"`
}

// OpenAIChoice is one generated alternative.
type OpenAIChoice struct {
	Index        int32          `json:"index"`
	Message      *OpenAIMessage `json:"message,omitempty"`
	Delta        *OpenAIMessage `json:"delta,omitempty"`
	FinishReason *string        `json:"finish_reason,omitempty"`
}

// OpenAIUsage mirrors the token usage block.
type OpenAIUsage struct {
	PromptTokens     int32 `json:"prompt_tokens"`
	CompletionTokens int32 `json:"completion_tokens"`
	TotalTokens      int32 `json:"total_tokens"`
}

// ContentKind tags the active variant of a MessageContent.
type ContentKind int

const (
	ContentEmpty ContentKind = iota
	ContentText
	ContentParts
)

// MessageContent is the string-or-array content field of an OpenAI message.
// The zero value is the empty variant and encodes as null.
type MessageContent struct {
	kind  ContentKind
	text  string
	parts []ContentPart
}

// ContentPart is one typed element of an array-valued message content.
type ContentPart struct {
	Type     string    `json:"type"`
	Text     string    `json:"text,omitempty"`
	ImageURL *ImageURL `json:"image_url,omitempty"`
}

// ImageURL references an image by URL or data URI.
type ImageURL struct {
	URL    string `json:"url"`
	Detail string `json:"detail,omitempty"`
}

// TextContent builds the plain-text variant.
func TextContent(text string) MessageContent {
	return MessageContent{kind: ContentText, text: text}
}

// PartsContent builds the parts variant.
func PartsContent(parts ...ContentPart) MessageContent {
	return MessageContent{kind: ContentParts, parts: parts}
}

// Kind reports which variant is set.
func (c MessageContent) Kind() ContentKind {
	return c.kind
}

// Text returns the plain-text payload; ok is false for other variants.
func (c MessageContent) Text() (string, bool) {
	return c.text, c.kind == ContentText
}

// Parts returns the parts payload; ok is false for other variants.
func (c MessageContent) Parts() ([]ContentPart, bool) {
	return c.parts, c.kind == ContentParts
}

// MarshalJSON encodes the active variant.
func (c MessageContent) MarshalJSON() ([]byte, error) {
	switch c.kind {
	case ContentText:
		return json.Marshal(c.text)
	case ContentParts:
		if c.parts == nil {
			return []byte("[]"), nil
		}
		return json.Marshal(c.parts)
	default:
		return []byte("null"), nil
	}
}

// UnmarshalJSON accepts a JSON string, an array of parts, or null.
func (c *MessageContent) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		*c = MessageContent{}
		return nil
	}

	switch trimmed[0] {
	case '"':
		var text string
		if err := json.Unmarshal(trimmed, &text); err != nil {
			return fmt.Errorf("decode text content: %w", err)
		}
		*c = TextContent(text)
		return nil
	case '[':
		var parts []ContentPart
		if err := json.Unmarshal(trimmed, &parts); err != nil {
			return fmt.Errorf("decode content parts: %w", err)
		}
		*c = PartsContent(parts...)
		return nil
	default:
		return errInvalidContent
	}
}
