package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Environment variables consulted by ApplyEnv.
const (
	EnvHost         = "AIPROXY_HOST"
	EnvPort         = "AIPROXY_PORT"
	EnvLogLevel     = "AIPROXY_LOG_LEVEL"
	EnvOpenAIAPIKey = "OPENAI_API_KEY"
	EnvClaudeAPIKey = "CLAUDE_API_KEY"
	EnvGeminiAPIKey = "GEMINI_API_KEY"
)

const (
	defaultHost            = "0.0.0.0"
	defaultPort            = 8080
	defaultCacheTTL        = 5 * time.Minute
	defaultCleanupInterval = 10 * time.Minute
	defaultProviderTimeout = 60 * time.Second
)

// Config represents the application configuration parsed from YAML.
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Log       LogConfig       `yaml:"log"`
	Cache     CacheConfig     `yaml:"cache"`
	Providers ProvidersConfig `yaml:"providers"`
	Models    []ModelConfig   `yaml:"models"`
}

// ServerConfig defines listener configuration.
type ServerConfig struct {
	Host        string   `yaml:"host"`
	Port        int      `yaml:"port"`
	CORSOrigins []string `yaml:"cors_origins"`
}

// Addr returns the host:port listen address.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// CacheConfig controls the response cache.
type CacheConfig struct {
	Enabled         bool          `yaml:"enabled"`
	TTL             time.Duration `yaml:"ttl"`
	CleanupInterval time.Duration `yaml:"cleanup_interval"`
}

// ProvidersConfig catalogues configured upstream providers. A provider with
// an empty api_key is not registered.
type ProvidersConfig struct {
	OpenAI ProviderConfig `yaml:"openai"`
	Claude ProviderConfig `yaml:"claude"`
	Gemini ProviderConfig `yaml:"gemini"`
}

// ProviderConfig captures authentication and routing info for a provider.
type ProviderConfig struct {
	APIKey  string        `yaml:"api_key"`
	BaseURL string        `yaml:"base_url"`
	Model   string        `yaml:"model"`
	Headers Headers       `yaml:"headers"`
	Timeout time.Duration `yaml:"timeout"`
}

// Headers contains additional HTTP headers to send with a provider request.
type Headers map[string]string

// ModelConfig describes an entry of the advertised model catalogue.
type ModelConfig struct {
	ID      string `yaml:"id"`
	OwnedBy string `yaml:"owned_by"`
}

// Default returns the configuration used when no file is given.
func Default() Config {
	provider := ProviderConfig{Timeout: defaultProviderTimeout}
	return Config{
		Server: ServerConfig{
			Host: defaultHost,
			Port: defaultPort,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
		Cache: CacheConfig{
			Enabled:         true,
			TTL:             defaultCacheTTL,
			CleanupInterval: defaultCleanupInterval,
		},
		Providers: ProvidersConfig{
			OpenAI: provider,
			Claude: provider,
			Gemini: provider,
		},
	}
}

// Load reads YAML configuration over the defaults, applies environment
// overrides and validates the result. An empty path skips the file.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		absPath, err := filepath.Abs(path)
		if err != nil {
			return Config{}, fmt.Errorf("resolve config path: %w", err)
		}

		data, err := os.ReadFile(absPath)
		if err != nil {
			return Config{}, fmt.Errorf("read config file %q: %w", absPath, err)
		}

		if err := decode(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config file %q: %w", absPath, err)
		}
	}

	if err := cfg.ApplyEnv(os.LookupEnv); err != nil {
		return Config{}, err
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func decode(data []byte, cfg *Config) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

// ApplyEnv overrides fields from environment variables found by lookup.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) error {
	if v, ok := lookup(EnvHost); ok && v != "" {
		c.Server.Host = v
	}
	if v, ok := lookup(EnvPort); ok && v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%s must be an integer, got %q", EnvPort, v)
		}
		c.Server.Port = port
	}
	if v, ok := lookup(EnvLogLevel); ok && v != "" {
		c.Log.Level = v
	}
	if v, ok := lookup(EnvOpenAIAPIKey); ok && v != "" {
		c.Providers.OpenAI.APIKey = v
	}
	if v, ok := lookup(EnvClaudeAPIKey); ok && v != "" {
		c.Providers.Claude.APIKey = v
	}
	if v, ok := lookup(EnvGeminiAPIKey); ok && v != "" {
		c.Providers.Gemini.APIKey = v
	}
	return nil
}

// Validate performs strict sanity checks on the configuration.
func (c Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be a valid TCP port, got %d", c.Server.Port)
	}

	switch strings.ToLower(c.Log.Level) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log.level must be one of debug, info, warn or error, got %q", c.Log.Level)
	}
	switch c.Log.Format {
	case "text", "json":
	default:
		return fmt.Errorf("log.format must be text or json, got %q", c.Log.Format)
	}

	if c.Cache.Enabled && c.Cache.TTL <= 0 {
		return fmt.Errorf("cache.ttl must be positive when the cache is enabled, got %s", c.Cache.TTL)
	}
	if c.Cache.CleanupInterval < 0 {
		return fmt.Errorf("cache.cleanup_interval must not be negative, got %s", c.Cache.CleanupInterval)
	}

	providers := []struct {
		name string
		cfg  ProviderConfig
	}{
		{"openai", c.Providers.OpenAI},
		{"claude", c.Providers.Claude},
		{"gemini", c.Providers.Gemini},
	}
	for _, p := range providers {
		if err := validateProvider(p.name, p.cfg); err != nil {
			return err
		}
	}

	for _, model := range c.Models {
		if strings.TrimSpace(model.ID) == "" {
			return errors.New("models: id must not be empty")
		}
	}

	return nil
}

func validateProvider(name string, provider ProviderConfig) error {
	if provider.BaseURL != "" {
		u, err := url.Parse(provider.BaseURL)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			return fmt.Errorf("provider %s: base_url %q must be an absolute http(s) URL", name, provider.BaseURL)
		}
	}
	if provider.Timeout < 0 {
		return fmt.Errorf("provider %s: timeout must not be negative, got %s", name, provider.Timeout)
	}

	for headerKey := range provider.Headers {
		if !isCanonicalHTTPHeader(headerKey) {
			return fmt.Errorf("provider %s: header %q is not a valid canonical HTTP header", name, headerKey)
		}
	}

	return nil
}

func isCanonicalHTTPHeader(header string) bool {
	if header == "" {
		return false
	}

	for _, r := range header {
		if !(r == '-' || (r >= 'A' && r <= 'Z') || (r >= 'a' && r <= 'z')) {
			return false
		}
	}
	return true
}
