// Package openai implements the gateway for OpenAI-compatible chat APIs.
package openai

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"aiproxy/internal/config"
	"aiproxy/internal/models"
	"aiproxy/internal/provider"
)

// DefaultBaseURL is used when the configuration leaves base_url empty.
const DefaultBaseURL = "https://api.openai.com/v1"

// Provider implements the Provider interface for OpenAI-compatible APIs.
type Provider struct {
	name    string
	apiKey  string
	headers map[string]string
	client  *http.Client
	chatURL string
}

// New creates a new OpenAI provider.
func New(name string, cfg config.ProviderConfig, client *http.Client) (*Provider, error) {
	if client == nil {
		return nil, errors.New("http client must not be nil")
	}

	baseURL := strings.TrimRight(cfg.BaseURL, "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	return &Provider{
		name:    name,
		apiKey:  cfg.APIKey,
		headers: cfg.Headers,
		client:  client,
		chatURL: baseURL + "/chat/completions",
	}, nil
}

func (p *Provider) Name() string {
	return p.name
}

func (p *Provider) Protocol() models.Protocol {
	return models.ProtocolOpenAI
}

// ChatCompletion posts an OpenAI chat request body and returns the raw reply.
func (p *Provider) ChatCompletion(ctx context.Context, payload []byte) ([]byte, error) {
	return provider.Post(ctx, p.client, p.name, p.chatURL, p.newHeader(), payload)
}

func (p *Provider) newHeader() http.Header {
	h := provider.BaseHeader()
	h.Set("Authorization", "Bearer "+p.apiKey)
	for k, v := range p.headers {
		h.Set(k, v)
	}
	return h
}
