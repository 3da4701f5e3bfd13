package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{EnvHost, EnvPort, EnvLogLevel, EnvOpenAIAPIKey, EnvClaudeAPIKey, EnvGeminiAPIKey} {
		t.Setenv(key, "")
	}
}

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadWithoutFileUsesDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.Addr() != "0.0.0.0:8080" {
		t.Fatalf("addr = %q", cfg.Server.Addr())
	}
	if !cfg.Cache.Enabled || cfg.Cache.TTL != 5*time.Minute {
		t.Fatalf("cache = %+v", cfg.Cache)
	}
	if cfg.Providers.Gemini.Timeout != 60*time.Second {
		t.Fatalf("gemini timeout = %s", cfg.Providers.Gemini.Timeout)
	}
}

func TestLoadFile(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, `
server:
  host: 127.0.0.1
  port: 9090
  cors_origins: ["https://example.com"]
log:
  level: debug
  format: json
cache:
  enabled: false
providers:
  claude:
    api_key: sk-ant
    base_url: https://claude.internal
    headers:
      X-Team: research
  gemini:
    api_key: g-key
    model: gemini-1.5-pro
    timeout: 15s
models:
  - id: claude-3-opus-20240229
    owned_by: anthropic
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.Addr() != "127.0.0.1:9090" {
		t.Fatalf("addr = %q", cfg.Server.Addr())
	}
	if len(cfg.Server.CORSOrigins) != 1 || cfg.Server.CORSOrigins[0] != "https://example.com" {
		t.Fatalf("cors origins = %v", cfg.Server.CORSOrigins)
	}
	if cfg.Log.Level != "debug" || cfg.Log.Format != "json" {
		t.Fatalf("log = %+v", cfg.Log)
	}
	if cfg.Cache.Enabled {
		t.Fatal("cache should be disabled")
	}
	if cfg.Cache.TTL != 5*time.Minute {
		t.Fatalf("unset ttl should keep default, got %s", cfg.Cache.TTL)
	}
	if cfg.Providers.Claude.APIKey != "sk-ant" || cfg.Providers.Claude.Headers["X-Team"] != "research" {
		t.Fatalf("claude = %+v", cfg.Providers.Claude)
	}
	if cfg.Providers.Gemini.Model != "gemini-1.5-pro" || cfg.Providers.Gemini.Timeout != 15*time.Second {
		t.Fatalf("gemini = %+v", cfg.Providers.Gemini)
	}
	if cfg.Providers.OpenAI.APIKey != "" {
		t.Fatalf("openai should stay unconfigured")
	}
	if len(cfg.Models) != 1 || cfg.Models[0].OwnedBy != "anthropic" {
		t.Fatalf("models = %+v", cfg.Models)
	}
}

func TestLoadRejectsUnknownFields(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, "server:\n  prot: 8080\n")

	if _, err := Load(path); err == nil {
		t.Fatal("expected error for unknown field")
	}
}

func TestLoadEmptyFile(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, "")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.Port != 8080 {
		t.Fatalf("port = %d", cfg.Server.Port)
	}
}

func TestLoadMissingFile(t *testing.T) {
	clearEnv(t)
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestLoadAppliesEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv(EnvPort, "7000")
	t.Setenv(EnvOpenAIAPIKey, "sk-env")

	cfg, err := Load(writeConfig(t, "providers:\n  openai:\n    api_key: sk-file\n"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.Port != 7000 {
		t.Fatalf("port = %d", cfg.Server.Port)
	}
	if cfg.Providers.OpenAI.APIKey != "sk-env" {
		t.Fatalf("env should override file, got %q", cfg.Providers.OpenAI.APIKey)
	}
}

func TestApplyEnv(t *testing.T) {
	env := map[string]string{
		EnvHost:         "localhost",
		EnvLogLevel:     "warn",
		EnvClaudeAPIKey: "sk-ant",
		EnvGeminiAPIKey: "g-key",
	}
	lookup := func(key string) (string, bool) {
		v, ok := env[key]
		return v, ok
	}

	cfg := Default()
	if err := cfg.ApplyEnv(lookup); err != nil {
		t.Fatalf("ApplyEnv: %v", err)
	}
	if cfg.Server.Host != "localhost" || cfg.Log.Level != "warn" {
		t.Fatalf("cfg = %+v", cfg)
	}
	if cfg.Providers.Claude.APIKey != "sk-ant" || cfg.Providers.Gemini.APIKey != "g-key" {
		t.Fatalf("providers = %+v", cfg.Providers)
	}

	env[EnvPort] = "eighty"
	if err := cfg.ApplyEnv(lookup); err == nil {
		t.Fatal("expected error for non-numeric port")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{name: "defaults", mutate: func(*Config) {}},
		{name: "port zero", mutate: func(c *Config) { c.Server.Port = 0 }, wantErr: "server.port"},
		{name: "port too large", mutate: func(c *Config) { c.Server.Port = 70000 }, wantErr: "server.port"},
		{name: "log level", mutate: func(c *Config) { c.Log.Level = "verbose" }, wantErr: "log.level"},
		{name: "log level case", mutate: func(c *Config) { c.Log.Level = "DEBUG" }},
		{name: "log format", mutate: func(c *Config) { c.Log.Format = "xml" }, wantErr: "log.format"},
		{name: "cache ttl", mutate: func(c *Config) { c.Cache.TTL = 0 }, wantErr: "cache.ttl"},
		{name: "disabled cache ignores ttl", mutate: func(c *Config) { c.Cache.Enabled = false; c.Cache.TTL = 0 }},
		{name: "cleanup interval", mutate: func(c *Config) { c.Cache.CleanupInterval = -time.Second }, wantErr: "cleanup_interval"},
		{name: "relative base url", mutate: func(c *Config) { c.Providers.OpenAI.BaseURL = "api.openai.com" }, wantErr: "provider openai"},
		{name: "ftp base url", mutate: func(c *Config) { c.Providers.Gemini.BaseURL = "ftp://example.com" }, wantErr: "provider gemini"},
		{name: "negative timeout", mutate: func(c *Config) { c.Providers.Claude.Timeout = -1 }, wantErr: "provider claude"},
		{name: "bad header", mutate: func(c *Config) { c.Providers.Claude.Headers = Headers{"X_Bad": "1"} }, wantErr: "header"},
		{name: "empty model id", mutate: func(c *Config) { c.Models = []ModelConfig{{ID: " "}} }, wantErr: "models"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("err = %v, want containing %q", err, tt.wantErr)
			}
		})
	}
}
