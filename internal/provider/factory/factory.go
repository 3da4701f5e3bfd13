// Package factory builds the provider registry from configuration.
package factory

import (
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"time"

	"aiproxy/internal/config"
	"aiproxy/internal/provider"
	claudeProvider "aiproxy/internal/provider/claude"
	geminiProvider "aiproxy/internal/provider/gemini"
	openaiProvider "aiproxy/internal/provider/openai"
)

const (
	defaultHTTPTimeout     = 60 * time.Second
	defaultDialTimeout     = 10 * time.Second
	defaultKeepAlive       = 30 * time.Second
	defaultIdleConnTimeout = 90 * time.Second
)

type constructor func(name string, cfg config.ProviderConfig, client *http.Client) (provider.Provider, error)

// BuildRegistry constructs the openai, claude and gemini providers in that
// order. Providers without an api_key are skipped.
func BuildRegistry(cfg config.Config) (*provider.Registry, error) {
	candidates := []struct {
		name  string
		cfg   config.ProviderConfig
		build constructor
	}{
		{"openai", cfg.Providers.OpenAI, func(name string, c config.ProviderConfig, client *http.Client) (provider.Provider, error) {
			return openaiProvider.New(name, c, client)
		}},
		{"claude", cfg.Providers.Claude, func(name string, c config.ProviderConfig, client *http.Client) (provider.Provider, error) {
			return claudeProvider.New(name, c, client)
		}},
		{"gemini", cfg.Providers.Gemini, func(name string, c config.ProviderConfig, client *http.Client) (provider.Provider, error) {
			return geminiProvider.New(name, c, client)
		}},
	}

	providers := make([]provider.Provider, 0, len(candidates))
	for _, c := range candidates {
		if strings.TrimSpace(c.cfg.APIKey) == "" {
			slog.Info("provider skipped, no api key configured", "provider", c.name)
			continue
		}

		timeout := c.cfg.Timeout
		if timeout <= 0 {
			timeout = defaultHTTPTimeout
		}

		p, err := c.build(c.name, c.cfg, newHTTPClient(timeout))
		if err != nil {
			return nil, fmt.Errorf("initialise %s provider: %w", c.name, err)
		}
		providers = append(providers, p)
		slog.Info("provider registered", "provider", c.name, "protocol", p.Protocol())
	}

	registry, err := provider.NewRegistry(providers...)
	if err != nil {
		return nil, fmt.Errorf("build provider registry: %w", err)
	}
	return registry, nil
}

func newHTTPClient(timeout time.Duration) *http.Client {
	transport := &http.Transport{
		Proxy:                 http.ProxyFromEnvironment,
		DialContext:           (&net.Dialer{Timeout: defaultDialTimeout, KeepAlive: defaultKeepAlive}).DialContext,
		ForceAttemptHTTP2:     true,
		MaxIdleConns:          50,
		IdleConnTimeout:       defaultIdleConnTimeout,
		TLSHandshakeTimeout:   10 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
	}

	return &http.Client{
		Timeout:   timeout,
		Transport: transport,
	}
}
