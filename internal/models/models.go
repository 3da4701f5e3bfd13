package models

// Protocol identifies the wire schema a provider or caller speaks.
type Protocol string

const (
	ProtocolOpenAI Protocol = "openai"
	ProtocolClaude Protocol = "claude"
	ProtocolGemini Protocol = "gemini"
)

// Message roles shared by the source and pivot schemas.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
	RoleTool      = "tool"
)

// StopReason is the pivot vocabulary for why generation ended.
type StopReason string

const (
	StopEndTurn   StopReason = "end_turn"
	StopMaxTokens StopReason = "max_tokens"
	StopToolUse   StopReason = "tool_use"
)

// DefaultMaxTokens is applied when a source request omits max_tokens.
const DefaultMaxTokens int32 = 8192

// Model describes one entry of the /v1/models catalogue.
type Model struct {
	ID      string `json:"id"`
	Object  string `json:"object"`
	Created int64  `json:"created"`
	OwnedBy string `json:"owned_by"`
}

// ModelList is the /v1/models response body.
type ModelList struct {
	Object string  `json:"object"`
	Data   []Model `json:"data"`
}

// DefaultModels returns the static catalogue advertised when no models are configured.
func DefaultModels(created int64) []Model {
	return []Model{
		{ID: "gpt-3.5-turbo", Object: "model", Created: created, OwnedBy: "openai"},
		{ID: "claude-3-opus-20240229", Object: "model", Created: created, OwnedBy: "anthropic"},
		{ID: "gemini-pro", Object: "model", Created: created, OwnedBy: "google"},
	}
}
