// Package router dispatches chat requests to the selected provider, running
// the translation round trip between the caller's schema and the provider's.
package router

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"aiproxy/internal/cache"
	"aiproxy/internal/metrics"
	"aiproxy/internal/models"
	"aiproxy/internal/provider"
	"aiproxy/internal/translator"
)

// ErrInvalidRequest indicates a request the proxy refuses to forward.
var ErrInvalidRequest = errors.New("invalid request")

// ErrSerialization indicates a payload that could not be encoded or decoded.
var ErrSerialization = errors.New("serialization error")

// Router dispatches requests to the first registered provider.
type Router struct {
	registry *provider.Registry
	cache    *cache.Cache
	now      func() time.Time
}

// Option configures a Router.
type Option func(*Router)

// WithCache enables response caching. A nil cache disables it.
func WithCache(c *cache.Cache) Option {
	return func(r *Router) {
		r.cache = c
	}
}

// WithClock overrides the clock used for response timestamps.
func WithClock(now func() time.Time) Option {
	return func(r *Router) {
		r.now = now
	}
}

// New constructs a router backed by the provided registry.
func New(registry *provider.Registry, opts ...Option) *Router {
	r := &Router{
		registry: registry,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// SelectProvider returns the provider that serves every request.
func (r *Router) SelectProvider() (provider.Provider, error) {
	return r.registry.First()
}

// ChatCompletion serves an OpenAI-schema request and answers in the OpenAI schema.
func (r *Router) ChatCompletion(ctx context.Context, req *models.OpenAIRequest) (*models.OpenAIResponse, error) {
	if req.Stream != nil && *req.Stream {
		return nil, fmt.Errorf("%w: streaming is not supported", ErrInvalidRequest)
	}

	p, err := r.SelectProvider()
	if err != nil {
		return nil, err
	}

	requestJSON, err := encode(req)
	if err != nil {
		return nil, err
	}

	key := cache.GenerateKey(p.Name(), req.Model, string(models.ProtocolOpenAI)+":"+string(requestJSON))
	var cached models.OpenAIResponse
	if r.lookup(key, &cached) {
		return &cached, nil
	}

	payload, err := openAIRequestFor(p.Protocol(), req, requestJSON)
	if err != nil {
		return nil, err
	}

	body, err := r.invoke(ctx, p, req.Model, payload)
	if err != nil {
		return nil, err
	}

	resp, err := r.openAIResponseFrom(p.Protocol(), body, req.Model)
	if err != nil {
		return nil, err
	}

	if resp.Usage != nil {
		metrics.RecordTokens(p.Name(), req.Model, resp.Usage.PromptTokens, resp.Usage.CompletionTokens)
	}
	r.store(key, resp)
	return resp, nil
}

// Messages serves a Claude-schema request and answers in the Claude schema.
func (r *Router) Messages(ctx context.Context, req *models.ClaudeRequest) (*models.ClaudeResponse, error) {
	if req.Stream != nil && *req.Stream {
		return nil, fmt.Errorf("%w: streaming is not supported", ErrInvalidRequest)
	}
	if req.MaxTokens <= 0 {
		withDefault := *req
		withDefault.MaxTokens = models.DefaultMaxTokens
		req = &withDefault
	}

	p, err := r.SelectProvider()
	if err != nil {
		return nil, err
	}

	requestJSON, err := encode(req)
	if err != nil {
		return nil, err
	}

	key := cache.GenerateKey(p.Name(), req.Model, string(models.ProtocolClaude)+":"+string(requestJSON))
	var cached models.ClaudeResponse
	if r.lookup(key, &cached) {
		return &cached, nil
	}

	payload, err := claudeRequestFor(p.Protocol(), req, requestJSON)
	if err != nil {
		return nil, err
	}

	body, err := r.invoke(ctx, p, req.Model, payload)
	if err != nil {
		return nil, err
	}

	resp, err := claudeResponseFrom(p.Protocol(), body, req.Model)
	if err != nil {
		return nil, err
	}

	if resp.Usage != nil {
		metrics.RecordTokens(p.Name(), req.Model, resp.Usage.InputTokens, resp.Usage.OutputTokens)
	}
	r.store(key, resp)
	return resp, nil
}

func (r *Router) invoke(ctx context.Context, p provider.Provider, model string, payload []byte) ([]byte, error) {
	slog.Debug("dispatching request", "provider", p.Name(), "protocol", p.Protocol(), "model", model)

	body, err := p.ChatCompletion(ctx, payload)
	if err != nil {
		return nil, fmt.Errorf("provider %s: %w", p.Name(), err)
	}
	return body, nil
}

// openAIRequestFor renders an OpenAI-schema request in the provider's schema.
func openAIRequestFor(protocol models.Protocol, req *models.OpenAIRequest, requestJSON []byte) ([]byte, error) {
	switch protocol {
	case models.ProtocolOpenAI:
		return requestJSON, nil
	case models.ProtocolClaude:
		return encode(translator.OpenAIToClaude(req))
	case models.ProtocolGemini:
		return encode(translator.ClaudeToGemini(translator.OpenAIToClaude(req)))
	default:
		return nil, fmt.Errorf("%w: unsupported provider protocol %q", translator.ErrConversion, protocol)
	}
}

func (r *Router) openAIResponseFrom(protocol models.Protocol, body []byte, model string) (*models.OpenAIResponse, error) {
	switch protocol {
	case models.ProtocolOpenAI:
		resp, err := decode[models.OpenAIResponse](body)
		if err != nil {
			return nil, err
		}
		if len(resp.Choices) == 0 {
			return nil, translator.ErrNoChoices
		}
		return resp, nil
	case models.ProtocolClaude:
		resp, err := decode[models.ClaudeResponse](body)
		if err != nil {
			return nil, err
		}
		return translator.ClaudeResponseToOpenAI(resp, model, r.now().Unix()), nil
	case models.ProtocolGemini:
		resp, err := decode[models.GeminiResponse](body)
		if err != nil {
			return nil, err
		}
		pivot, err := translator.GeminiResponseToClaude(resp, model)
		if err != nil {
			return nil, err
		}
		return translator.ClaudeResponseToOpenAI(pivot, model, r.now().Unix()), nil
	default:
		return nil, fmt.Errorf("%w: unsupported provider protocol %q", translator.ErrConversion, protocol)
	}
}

// claudeRequestFor renders a Claude-schema request in the provider's schema.
func claudeRequestFor(protocol models.Protocol, req *models.ClaudeRequest, requestJSON []byte) ([]byte, error) {
	switch protocol {
	case models.ProtocolOpenAI:
		return encode(translator.ClaudeToOpenAI(req))
	case models.ProtocolClaude:
		return requestJSON, nil
	case models.ProtocolGemini:
		return encode(translator.ClaudeToGemini(req))
	default:
		return nil, fmt.Errorf("%w: unsupported provider protocol %q", translator.ErrConversion, protocol)
	}
}

func claudeResponseFrom(protocol models.Protocol, body []byte, model string) (*models.ClaudeResponse, error) {
	switch protocol {
	case models.ProtocolOpenAI:
		resp, err := decode[models.OpenAIResponse](body)
		if err != nil {
			return nil, err
		}
		return translator.OpenAIResponseToClaude(resp, model)
	case models.ProtocolClaude:
		return decode[models.ClaudeResponse](body)
	case models.ProtocolGemini:
		resp, err := decode[models.GeminiResponse](body)
		if err != nil {
			return nil, err
		}
		return translator.GeminiResponseToClaude(resp, model)
	default:
		return nil, fmt.Errorf("%w: unsupported provider protocol %q", translator.ErrConversion, protocol)
	}
}

// lookup decodes a cached response into out. Entries that no longer decode
// are dropped and reported as a miss.
func (r *Router) lookup(key string, out any) bool {
	if r.cache == nil {
		return false
	}
	value, ok := r.cache.Get(key)
	if !ok {
		metrics.CacheLookupsTotal.WithLabelValues(metrics.CacheMiss).Inc()
		return false
	}
	if err := json.Unmarshal([]byte(value), out); err != nil {
		slog.Warn("discarding undecodable cache entry", "error", err)
		r.cache.Delete(key)
		metrics.CacheLookupsTotal.WithLabelValues(metrics.CacheMiss).Inc()
		return false
	}
	metrics.CacheLookupsTotal.WithLabelValues(metrics.CacheHit).Inc()
	slog.Debug("serving cached response")
	return true
}

func (r *Router) store(key string, resp any) {
	if r.cache == nil {
		return
	}
	data, err := json.Marshal(resp)
	if err != nil {
		slog.Warn("response not cached", "error", err)
		return
	}
	r.cache.Set(key, string(data))
}

func encode(v any) ([]byte, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("%w: encode request: %v", ErrSerialization, err)
	}
	return data, nil
}

func decode[T any](body []byte) (*T, error) {
	var out T
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, fmt.Errorf("%w: decode provider response: %v", ErrSerialization, err)
	}
	return &out, nil
}
