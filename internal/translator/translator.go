// Package translator converts chat-completion payloads between the OpenAI,
// Claude and Gemini schemas. Every conversion goes through the Claude schema,
// so each outer schema needs one function toward it and one away from it.
package translator

import (
	"errors"
	"fmt"
	"strings"

	"aiproxy/internal/models"
)

// ErrConversion indicates a payload that cannot be mapped onto the target schema.
var ErrConversion = errors.New("conversion error")

var (
	// ErrNoChoices is returned for an OpenAI response without choices.
	ErrNoChoices = fmt.Errorf("%w: no choices in response", ErrConversion)
	// ErrNoMessage is returned when the first OpenAI choice has no message.
	ErrNoMessage = fmt.Errorf("%w: no message in choice", ErrConversion)
	// ErrNoCandidates is returned for a Gemini response without candidates.
	ErrNoCandidates = fmt.Errorf("%w: no candidates in response", ErrConversion)
)

const textSeparator = " "

// NormalizeContent flattens OpenAI message content into a single string.
// Text parts are joined with a single space; other part types are dropped.
func NormalizeContent(content models.MessageContent) string {
	switch content.Kind() {
	case models.ContentText:
		text, _ := content.Text()
		return text
	case models.ContentParts:
		parts, _ := content.Parts()
		texts := make([]string, 0, len(parts))
		for _, part := range parts {
			if part.Type == "text" {
				texts = append(texts, part.Text)
			}
		}
		return strings.Join(texts, textSeparator)
	case models.ContentEmpty:
		return ""
	default:
		return ""
	}
}

// joinTextBlocks concatenates the text blocks of a pivot message, dropping
// images, tool calls and tool results.
func joinTextBlocks(blocks []models.ContentBlock) string {
	texts := make([]string, 0, len(blocks))
	for _, block := range blocks {
		if block.Type == models.BlockText {
			texts = append(texts, block.Text)
		}
	}
	return strings.Join(texts, textSeparator)
}
