package server

import (
	"fmt"
	"strings"

	"aiproxy/internal/models"
)

func validateChatRequest(req *models.OpenAIRequest) error {
	if strings.TrimSpace(req.Model) == "" {
		return badRequest("model is required")
	}
	if len(req.Messages) == 0 {
		return badRequest("messages must not be empty")
	}
	for i, msg := range req.Messages {
		switch msg.Role {
		case models.RoleSystem, models.RoleUser, models.RoleAssistant, models.RoleTool:
		default:
			return badRequest(fmt.Sprintf("messages[%d]: unsupported role %q", i, msg.Role))
		}
	}
	if req.MaxTokens != nil && *req.MaxTokens < 0 {
		return badRequest("max_tokens must not be negative")
	}
	return nil
}

func validateMessagesRequest(req *models.ClaudeRequest) error {
	if strings.TrimSpace(req.Model) == "" {
		return badRequest("model is required")
	}
	if len(req.Messages) == 0 {
		return badRequest("messages must not be empty")
	}
	for i, msg := range req.Messages {
		if msg.Role != models.RoleUser && msg.Role != models.RoleAssistant {
			return badRequest(fmt.Sprintf("messages[%d]: role must be user or assistant, got %q", i, msg.Role))
		}
		if len(msg.Content) == 0 {
			return badRequest(fmt.Sprintf("messages[%d]: content must not be empty", i))
		}
	}
	if req.MaxTokens < 0 {
		return badRequest("max_tokens must not be negative")
	}
	return nil
}
