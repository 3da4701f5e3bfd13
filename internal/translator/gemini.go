package translator

import (
	"encoding/json"

	"github.com/google/uuid"

	"aiproxy/internal/models"
)

const (
	geminiRoleModel = "model"

	geminiFinishStop      = "STOP"
	geminiFinishMaxTokens = "MAX_TOKENS"
)

// ClaudeToGemini converts a pivot request into a Gemini generateContent request.
// Tool results have no counterpart and are dropped.
func ClaudeToGemini(req *models.ClaudeRequest) *models.GeminiRequest {
	out := &models.GeminiRequest{
		Contents: make([]models.GeminiContent, 0, len(req.Messages)),
	}

	if req.System != "" {
		out.SystemInstruction = &models.GeminiSystemInstruction{
			Parts: []models.GeminiPart{models.TextPart(req.System)},
		}
	}

	for _, msg := range req.Messages {
		role := msg.Role
		if role == models.RoleAssistant {
			role = geminiRoleModel
		}

		parts := make([]models.GeminiPart, 0, len(msg.Content))
		for _, block := range msg.Content {
			part, ok := geminiPartFromBlock(block)
			if ok {
				parts = append(parts, part)
			}
		}

		out.Contents = append(out.Contents, models.GeminiContent{
			Role:  role,
			Parts: parts,
		})
	}

	maxTokens := req.MaxTokens
	out.GenerationConfig = &models.GeminiGenerationConfig{
		Temperature:     req.Temperature,
		TopP:            req.TopP,
		MaxOutputTokens: &maxTokens,
	}

	if req.Tools != nil {
		declarations := make([]models.GeminiFunctionDeclaration, 0, len(req.Tools))
		for _, tool := range req.Tools {
			params := tool.InputSchema
			if len(params) == 0 {
				params = emptySchema
			}
			declarations = append(declarations, models.GeminiFunctionDeclaration{
				Name:        tool.Name,
				Description: tool.Description,
				Parameters:  params,
			})
		}
		out.Tools = []models.GeminiTool{{FunctionDeclarations: declarations}}
	}

	return out
}

func geminiPartFromBlock(block models.ContentBlock) (models.GeminiPart, bool) {
	switch block.Type {
	case models.BlockText:
		return models.TextPart(block.Text), true
	case models.BlockImage:
		if block.Source == nil {
			return models.GeminiPart{}, false
		}
		return models.GeminiPart{
			InlineData: &models.GeminiInlineData{
				MimeType: block.Source.MediaType,
				Data:     block.Source.Data,
			},
		}, true
	case models.BlockToolUse:
		return models.GeminiPart{
			FunctionCall: &models.GeminiFunctionCall{
				Name: block.Name,
				Args: functionArgs(block.Input),
			},
		}, true
	default:
		return models.GeminiPart{}, false
	}
}

// functionArgs returns the top-level members of a JSON object. Anything that
// is not an object yields an empty, non-nil map.
func functionArgs(input json.RawMessage) map[string]json.RawMessage {
	args := make(map[string]json.RawMessage)
	if len(input) == 0 {
		return args
	}
	if err := json.Unmarshal(input, &args); err != nil {
		return make(map[string]json.RawMessage)
	}
	if args == nil {
		// input was the literal null
		return make(map[string]json.RawMessage)
	}
	return args
}

// GeminiResponseToClaude converts the first Gemini candidate into a pivot
// response. Only text parts are kept and a fresh id is generated.
func GeminiResponseToClaude(resp *models.GeminiResponse, model string) (*models.ClaudeResponse, error) {
	if len(resp.Candidates) == 0 {
		return nil, ErrNoCandidates
	}
	candidate := resp.Candidates[0]

	content := make([]models.ContentBlock, 0, len(candidate.Content.Parts))
	for _, part := range candidate.Content.Parts {
		if part.Text != nil {
			content = append(content, models.TextBlock(*part.Text))
		}
	}

	out := &models.ClaudeResponse{
		ID:         uuid.NewString(),
		Type:       "message",
		Role:       models.RoleAssistant,
		Content:    content,
		Model:      model,
		StopReason: StopReasonFromGemini(candidate.FinishReason),
	}
	if resp.UsageMetadata != nil {
		out.Usage = &models.ClaudeUsage{
			InputTokens:  resp.UsageMetadata.PromptTokenCount,
			OutputTokens: resp.UsageMetadata.CandidatesTokenCount,
		}
	}
	return out, nil
}

// StopReasonFromGemini maps a Gemini finishReason onto the pivot vocabulary.
func StopReasonFromGemini(finishReason string) models.StopReason {
	switch finishReason {
	case geminiFinishStop:
		return models.StopEndTurn
	case geminiFinishMaxTokens:
		return models.StopMaxTokens
	default:
		return models.StopEndTurn
	}
}
