// Package claude implements the gateway for the Anthropic Messages API.
package claude

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"aiproxy/internal/config"
	"aiproxy/internal/models"
	"aiproxy/internal/provider"
)

const (
	// DefaultBaseURL is used when the configuration leaves base_url empty.
	DefaultBaseURL = "https://api.anthropic.com"
	apiVersion     = "2023-06-01"
)

// Provider implements Anthropic Claude API interactions.
type Provider struct {
	name     string
	apiKey   string
	headers  map[string]string
	client   *http.Client
	messages string
}

// New constructs a Claude provider instance.
func New(name string, cfg config.ProviderConfig, client *http.Client) (*Provider, error) {
	if client == nil {
		return nil, errors.New("http client must not be nil")
	}
	baseURL := strings.TrimRight(cfg.BaseURL, "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	return &Provider{
		name:     name,
		apiKey:   cfg.APIKey,
		headers:  cfg.Headers,
		client:   client,
		messages: baseURL + "/v1/messages",
	}, nil
}

func (p *Provider) Name() string {
	return p.name
}

func (p *Provider) Protocol() models.Protocol {
	return models.ProtocolClaude
}

func (p *Provider) ChatCompletion(ctx context.Context, payload []byte) ([]byte, error) {
	return provider.Post(ctx, p.client, p.name, p.messages, p.newHeader(), payload)
}

func (p *Provider) newHeader() http.Header {
	h := provider.BaseHeader()
	h.Set("x-api-key", p.apiKey)
	h.Set("anthropic-version", apiVersion)
	for k, v := range p.headers {
		h.Set(k, v)
	}
	return h
}
