package translator

import (
	"encoding/json"

	"aiproxy/internal/models"
)

const (
	finishStop      = "stop"
	finishLength    = "length"
	finishToolCalls = "tool_calls"

	toolTypeFunction = "function"
)

var emptySchema = json.RawMessage("{}")

// OpenAIToClaude converts an OpenAI chat request into the pivot schema.
// The first system message becomes the system prompt; later ones are ignored.
func OpenAIToClaude(req *models.OpenAIRequest) *models.ClaudeRequest {
	out := &models.ClaudeRequest{
		Model:       req.Model,
		Messages:    make([]models.ClaudeMessage, 0, len(req.Messages)),
		MaxTokens:   models.DefaultMaxTokens,
		Temperature: req.Temperature,
		TopP:        req.TopP,
		Stream:      req.Stream,
	}
	if req.MaxTokens != nil {
		out.MaxTokens = *req.MaxTokens
	}

	systemSeen := false
	for _, msg := range req.Messages {
		if msg.Role == models.RoleSystem {
			if !systemSeen {
				out.System = NormalizeContent(msg.Content)
				systemSeen = true
			}
			continue
		}
		out.Messages = append(out.Messages, models.ClaudeMessage{
			Role:    msg.Role,
			Content: []models.ContentBlock{models.TextBlock(NormalizeContent(msg.Content))},
		})
	}

	if req.Tools != nil {
		out.Tools = make([]models.ClaudeTool, 0, len(req.Tools))
		for _, tool := range req.Tools {
			description := ""
			if tool.Function.Description != nil {
				description = *tool.Function.Description
			}
			schema := tool.Function.Parameters
			if len(schema) == 0 {
				schema = emptySchema
			}
			out.Tools = append(out.Tools, models.ClaudeTool{
				Name:        tool.Function.Name,
				Description: description,
				InputSchema: schema,
			})
		}
	}

	return out
}

// ClaudeToOpenAI converts a pivot request into an OpenAI chat request.
// Message content is flattened to plain text; non-text blocks are dropped.
func ClaudeToOpenAI(req *models.ClaudeRequest) *models.OpenAIRequest {
	maxTokens := req.MaxTokens
	out := &models.OpenAIRequest{
		Model:       req.Model,
		Messages:    make([]models.OpenAIMessage, 0, len(req.Messages)+1),
		MaxTokens:   &maxTokens,
		Temperature: req.Temperature,
		TopP:        req.TopP,
		Stream:      req.Stream,
	}

	if req.System != "" {
		out.Messages = append(out.Messages, models.OpenAIMessage{
			Role:    models.RoleSystem,
			Content: models.TextContent(req.System),
		})
	}
	for _, msg := range req.Messages {
		out.Messages = append(out.Messages, models.OpenAIMessage{
			Role:    msg.Role,
			Content: models.TextContent(joinTextBlocks(msg.Content)),
		})
	}

	if req.Tools != nil {
		out.Tools = make([]models.OpenAITool, 0, len(req.Tools))
		for _, tool := range req.Tools {
			description := tool.Description
			out.Tools = append(out.Tools, models.OpenAITool{
				Type: toolTypeFunction,
				Function: models.ToolFunction{
					Name:        tool.Name,
					Description: &description,
					Parameters:  tool.InputSchema,
				},
			})
		}
	}

	return out
}

// OpenAIResponseToClaude converts the first choice of an OpenAI response into
// a pivot response.
func OpenAIResponseToClaude(resp *models.OpenAIResponse, model string) (*models.ClaudeResponse, error) {
	if len(resp.Choices) == 0 {
		return nil, ErrNoChoices
	}
	choice := resp.Choices[0]
	if choice.Message == nil {
		return nil, ErrNoMessage
	}

	finish := ""
	if choice.FinishReason != nil {
		finish = *choice.FinishReason
	}

	out := &models.ClaudeResponse{
		ID:         resp.ID,
		Type:       "message",
		Role:       models.RoleAssistant,
		Content:    []models.ContentBlock{models.TextBlock(NormalizeContent(choice.Message.Content))},
		Model:      model,
		StopReason: StopReasonFromOpenAI(finish),
	}
	if resp.Usage != nil {
		out.Usage = &models.ClaudeUsage{
			InputTokens:  resp.Usage.PromptTokens,
			OutputTokens: resp.Usage.CompletionTokens,
		}
	}
	return out, nil
}

// ClaudeResponseToOpenAI re-expresses a pivot response as an OpenAI chat
// completion with a single choice.
func ClaudeResponseToOpenAI(resp *models.ClaudeResponse, model string, createdUnix int64) *models.OpenAIResponse {
	finish := FinishReasonFromClaude(resp.StopReason)
	out := &models.OpenAIResponse{
		ID:      resp.ID,
		Object:  "chat.completion",
		Created: createdUnix,
		Model:   model,
		Choices: []models.OpenAIChoice{
			{
				Index: 0,
				Message: &models.OpenAIMessage{
					Role:    models.RoleAssistant,
					Content: models.TextContent(joinTextBlocks(resp.Content)),
				},
				FinishReason: &finish,
			},
		},
	}
	if resp.Usage != nil {
		out.Usage = &models.OpenAIUsage{
			PromptTokens:     resp.Usage.InputTokens,
			CompletionTokens: resp.Usage.OutputTokens,
			TotalTokens:      resp.Usage.InputTokens + resp.Usage.OutputTokens,
		}
	}
	return out
}

// StopReasonFromOpenAI maps an OpenAI finish_reason onto the pivot vocabulary.
func StopReasonFromOpenAI(finishReason string) models.StopReason {
	switch finishReason {
	case finishStop:
		return models.StopEndTurn
	case finishLength:
		return models.StopMaxTokens
	case finishToolCalls:
		return models.StopToolUse
	default:
		return models.StopEndTurn
	}
}

// FinishReasonFromClaude maps a pivot stop reason onto OpenAI's finish_reason.
func FinishReasonFromClaude(reason models.StopReason) string {
	switch reason {
	case models.StopEndTurn:
		return finishStop
	case models.StopMaxTokens:
		return finishLength
	case models.StopToolUse:
		return finishToolCalls
	default:
		return finishStop
	}
}
