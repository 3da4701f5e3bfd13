package models

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestMessageContentUnmarshal(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		wantKind  ContentKind
		wantText  string
		wantParts int
	}{
		{name: "string", input: `"hello"`, wantKind: ContentText, wantText: "hello"},
		{name: "parts", input: `[{"type":"text","text":"a"},{"type":"image_url","image_url":{"url":"data:x"}}]`, wantKind: ContentParts, wantParts: 2},
		{name: "null", input: `null`, wantKind: ContentEmpty},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var c MessageContent
			if err := json.Unmarshal([]byte(tt.input), &c); err != nil {
				t.Fatalf("unmarshal: %v", err)
			}
			if c.Kind() != tt.wantKind {
				t.Fatalf("kind = %v, want %v", c.Kind(), tt.wantKind)
			}
			if text, ok := c.Text(); ok && text != tt.wantText {
				t.Fatalf("text = %q, want %q", text, tt.wantText)
			}
			if parts, ok := c.Parts(); ok && len(parts) != tt.wantParts {
				t.Fatalf("parts = %d, want %d", len(parts), tt.wantParts)
			}
		})
	}
}

func TestMessageContentRejectsOtherKinds(t *testing.T) {
	var c MessageContent
	if err := json.Unmarshal([]byte(`42`), &c); err == nil {
		t.Fatal("expected error for numeric content")
	}
	if err := json.Unmarshal([]byte(`{"text":"x"}`), &c); err == nil {
		t.Fatal("expected error for object content")
	}
}

func TestMessageContentAbsentFieldIsEmpty(t *testing.T) {
	var msg OpenAIMessage
	if err := json.Unmarshal([]byte(`{"role":"assistant"}`), &msg); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if msg.Content.Kind() != ContentEmpty {
		t.Fatalf("kind = %v, want empty", msg.Content.Kind())
	}
}

func TestOpenAIRequestOmitsAbsentOptionals(t *testing.T) {
	req := OpenAIRequest{
		Model:    "gpt-4",
		Messages: []OpenAIMessage{{Role: RoleUser, Content: TextContent("hi")}},
	}
	data, err := json.Marshal(req)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	for _, field := range []string{"max_tokens", "temperature", "top_p", "stream", "tools", "name", "tool_calls"} {
		if strings.Contains(string(data), `"`+field+`"`) {
			t.Fatalf("field %q should be omitted: %s", field, data)
		}
	}

	var decoded OpenAIRequest
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if decoded.MaxTokens != nil || decoded.Temperature != nil || decoded.Stream != nil {
		t.Fatalf("absent optionals decoded as present: %+v", decoded)
	}
	if text, _ := decoded.Messages[0].Content.Text(); text != "hi" {
		t.Fatalf("content = %q", text)
	}
}

func TestContentBlockMarshalPerVariant(t *testing.T) {
	tests := []struct {
		name  string
		block ContentBlock
		want  string
	}{
		{name: "empty text", block: TextBlock(""), want: `{"type":"text","text":""}`},
		{name: "image", block: ImageBlock("image/png", "AAAA"), want: `{"type":"image","source":{"type":"base64","media_type":"image/png","data":"AAAA"}}`},
		{name: "tool use", block: ToolUseBlock("tu_1", "lookup", json.RawMessage(`{"q":"x"}`)), want: `{"type":"tool_use","id":"tu_1","name":"lookup","input":{"q":"x"}}`},
		{name: "tool use without input", block: ToolUseBlock("tu_2", "ping", nil), want: `{"type":"tool_use","id":"tu_2","name":"ping","input":{}}`},
		{name: "tool result", block: ToolResultBlock("tu_1", "42"), want: `{"type":"tool_result","tool_use_id":"tu_1","content":"42"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := json.Marshal(tt.block)
			if err != nil {
				t.Fatalf("marshal: %v", err)
			}
			if string(data) != tt.want {
				t.Fatalf("got %s, want %s", data, tt.want)
			}
		})
	}
}

func TestContentBlockUnmarshalToolResultArray(t *testing.T) {
	var block ContentBlock
	input := `{"type":"tool_result","tool_use_id":"tu_9","content":[{"type":"text","text":"a"},{"type":"text","text":"b"}]}`
	if err := json.Unmarshal([]byte(input), &block); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if block.ToolUseID != "tu_9" || block.Content != "a b" {
		t.Fatalf("unexpected block: %+v", block)
	}
}

func TestContentBlockUnknownTypePassesThrough(t *testing.T) {
	input := `{"type":"thinking","thinking":"..."}`
	var block ContentBlock
	if err := json.Unmarshal([]byte(input), &block); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if block.Type != "thinking" {
		t.Fatalf("type = %q", block.Type)
	}
	data, err := json.Marshal(block)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(data) != input {
		t.Fatalf("got %s, want %s", data, input)
	}

	if _, err := json.Marshal(ContentBlock{Type: "thinking"}); err == nil {
		t.Fatal("expected marshal error for unknown block without raw encoding")
	}
}

func TestGeminiPartOmitsUnsetMembers(t *testing.T) {
	data, err := json.Marshal(TextPart(""))
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(data) != `{"text":""}` {
		t.Fatalf("got %s", data)
	}
}

func TestClaudeRequestAcceptsShorthands(t *testing.T) {
	input := `{"model":"claude-3","max_tokens":10,"system":[{"type":"text","text":"be"},{"type":"text","text":"kind"}],"messages":[{"role":"user","content":"hi"}]}`

	var req ClaudeRequest
	if err := json.Unmarshal([]byte(input), &req); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if req.Model != "claude-3" || req.MaxTokens != 10 {
		t.Fatalf("unexpected request: %+v", req)
	}
	if req.System != "be kind" {
		t.Fatalf("system = %q", req.System)
	}
	if len(req.Messages) != 1 || len(req.Messages[0].Content) != 1 || req.Messages[0].Content[0].Text != "hi" {
		t.Fatalf("messages = %+v", req.Messages)
	}

	data, err := json.Marshal(req)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	want := `{"model":"claude-3","messages":[{"role":"user","content":[{"type":"text","text":"hi"}]}],"max_tokens":10,"system":"be kind"}`
	if string(data) != want {
		t.Fatalf("got %s, want %s", data, want)
	}
}
