// Package gemini implements the gateway for the Google Gemini
// generateContent API. The API key travels as a query parameter.
package gemini

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strings"

	"aiproxy/internal/config"
	"aiproxy/internal/models"
	"aiproxy/internal/provider"
)

const (
	// DefaultBaseURL is used when the configuration leaves base_url empty.
	DefaultBaseURL = "https://generativelanguage.googleapis.com"
	// DefaultModel is addressed when the configuration names none.
	DefaultModel = "gemini-pro"
)

// Provider implements Google Gemini API interactions.
type Provider struct {
	name     string
	model    string
	headers  map[string]string
	client   *http.Client
	generate string
}

// New constructs a Gemini provider bound to one model.
func New(name string, cfg config.ProviderConfig, client *http.Client) (*Provider, error) {
	if client == nil {
		return nil, errors.New("http client must not be nil")
	}
	baseURL := strings.TrimRight(cfg.BaseURL, "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	model := strings.TrimSpace(cfg.Model)
	if model == "" {
		model = DefaultModel
	}

	query := url.Values{"key": []string{cfg.APIKey}}
	return &Provider{
		name:     name,
		model:    model,
		headers:  cfg.Headers,
		client:   client,
		generate: baseURL + "/v1beta/models/" + url.PathEscape(model) + ":generateContent?" + query.Encode(),
	}, nil
}

func (p *Provider) Name() string {
	return p.name
}

func (p *Provider) Protocol() models.Protocol {
	return models.ProtocolGemini
}

// Model returns the upstream model every request is sent to.
func (p *Provider) Model() string {
	return p.model
}

func (p *Provider) ChatCompletion(ctx context.Context, payload []byte) ([]byte, error) {
	return provider.Post(ctx, p.client, p.name, p.generate, p.newHeader(), payload)
}

func (p *Provider) newHeader() http.Header {
	h := provider.BaseHeader()
	for k, v := range p.headers {
		h.Set(k, v)
	}
	return h
}
