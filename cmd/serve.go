package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"

	"aiproxy/internal/cache"
	"aiproxy/internal/config"
	providerfactory "aiproxy/internal/provider/factory"
	"aiproxy/internal/router"
	"aiproxy/internal/server"
)

const defaultEnvFile = ".env"

type serveOptions struct {
	configPath string
	envFile    string
	host       string
	port       int
	logLevel   string
	logFormat  string
	noCache    bool
}

func newServeFlags(opts *serveOptions) *pflag.FlagSet {
	flags := pflag.NewFlagSet("serve", pflag.ContinueOnError)
	flags.StringVarP(&opts.configPath, "config", "c", "", "path to YAML configuration file (defaults apply when omitted)")
	flags.StringVar(&opts.envFile, "env-file", defaultEnvFile, "dotenv file with provider credentials, ignored when missing")
	flags.StringVar(&opts.host, "host", "", "override server host")
	flags.IntVarP(&opts.port, "port", "p", 0, "override server port")
	flags.StringVar(&opts.logLevel, "log-level", "", "override log level (debug, info, warn, error)")
	flags.StringVar(&opts.logFormat, "log-format", "", "override log format (text, json)")
	flags.BoolVar(&opts.noCache, "no-cache", false, "disable the response cache")
	return flags
}

func serve(ctx context.Context, args []string) error {
	var opts serveOptions
	flags := newServeFlags(&opts)
	if err := flags.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return nil
		}
		return fmt.Errorf("parse serve flags: %w", err)
	}

	if err := loadEnvFile(opts.envFile); err != nil {
		return err
	}

	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return err
	}
	opts.apply(&cfg)
	if err := cfg.Validate(); err != nil {
		return err
	}

	slog.SetDefault(newLogger(cfg.Log, os.Stderr))

	srv, err := buildServer(cfg)
	if err != nil {
		return err
	}
	return srv.Run(ctx)
}

func (o serveOptions) apply(cfg *config.Config) {
	if o.host != "" {
		cfg.Server.Host = o.host
	}
	if o.port != 0 {
		cfg.Server.Port = o.port
	}
	if o.logLevel != "" {
		cfg.Log.Level = o.logLevel
	}
	if o.logFormat != "" {
		cfg.Log.Format = o.logFormat
	}
	if o.noCache {
		cfg.Cache.Enabled = false
	}
}

func buildServer(cfg config.Config) (*server.Server, error) {
	registry, err := providerfactory.BuildRegistry(cfg)
	if err != nil {
		return nil, err
	}
	if registry.Len() == 0 {
		slog.Warn("no providers configured, chat requests will fail until an api key is set")
	}

	var opts []router.Option
	if cfg.Cache.Enabled {
		opts = append(opts, router.WithCache(cache.New(cfg.Cache.TTL, cfg.Cache.CleanupInterval)))
		slog.Info("response cache enabled", "ttl", cfg.Cache.TTL)
	}

	return server.New(cfg, router.New(registry, opts...))
}

// loadEnvFile populates the environment from a dotenv file without
// overriding variables that are already set.
func loadEnvFile(path string) error {
	if path == "" {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("load env file %q: %w", path, err)
	}
	return nil
}

func newLogger(cfg config.LogConfig, w io.Writer) *slog.Logger {
	handlerOpts := &slog.HandlerOptions{Level: parseLevel(cfg.Level)}
	if cfg.Format == "json" {
		return slog.New(slog.NewJSONHandler(w, handlerOpts))
	}
	return slog.New(slog.NewTextHandler(w, handlerOpts))
}

func parseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
