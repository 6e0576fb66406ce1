// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Classtrack Contributors

// Package config loads server configuration. Precedence, lowest to
// highest: built-in defaults, YAML config file, command-line flags.
package config

import (
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/samber/oops"
	"github.com/spf13/pflag"
)

// Default values for the serve command.
const (
	DefaultListenAddr  = ":8080"
	DefaultMetricsAddr = "127.0.0.1:9100"
	DefaultLogFormat   = "json"
	DefaultTokenTTL    = 7 * 24 * time.Hour
)

// Config is the full server configuration.
type Config struct {
	Server   ServerConfig   `koanf:"server"`
	Database DatabaseConfig `koanf:"database"`
	Auth     AuthConfig     `koanf:"auth"`
	Log      LogConfig      `koanf:"log"`
}

// ServerConfig configures the HTTP API and observability listeners.
type ServerConfig struct {
	Addr        string   `koanf:"addr"`
	MetricsAddr string   `koanf:"metrics_addr"` // empty disables the metrics server
	CORSOrigins []string `koanf:"cors_origins"`
}

// DatabaseConfig configures the PostgreSQL connection.
type DatabaseConfig struct {
	URL string `koanf:"url"`
}

// AuthConfig configures token issuance.
type AuthConfig struct {
	TokenSecret string        `koanf:"token_secret"`
	TokenTTL    time.Duration `koanf:"token_ttl"`
}

// LogConfig configures structured logging.
type LogConfig struct {
	Format string `koanf:"format"` // "json" or "text"
}

// Flags returns the flag set for the serve command. Flag names mirror the
// koanf key paths so posflag can map them directly.
func Flags() *pflag.FlagSet {
	fs := pflag.NewFlagSet("serve", pflag.ContinueOnError)
	fs.String("server.addr", DefaultListenAddr, "HTTP API listen address")
	fs.String("server.metrics_addr", DefaultMetricsAddr, "metrics/health HTTP address (empty = disabled)")
	fs.StringSlice("server.cors_origins", nil, "allowed CORS origins")
	fs.String("database.url", "", "PostgreSQL connection URL")
	fs.String("auth.token_secret", "", "HMAC secret for bearer tokens")
	fs.Duration("auth.token_ttl", DefaultTokenTTL, "bearer token lifetime")
	fs.String("log.format", DefaultLogFormat, "log format (json or text)")
	return fs
}

// Load reads configuration from an optional YAML file and the given
// flags, validates it, and returns the result.
func Load(configFile string, flags *pflag.FlagSet) (*Config, error) {
	k := koanf.New(".")

	if configFile != "" {
		if err := k.Load(file.Provider(configFile), yaml.Parser()); err != nil {
			return nil, oops.Code("CONFIG_FILE_FAILED").With("path", configFile).Wrap(err)
		}
	}

	if flags != nil {
		if err := k.Load(posflag.Provider(flags, ".", k), nil); err != nil {
			return nil, oops.Code("CONFIG_FLAGS_FAILED").Wrap(err)
		}
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, oops.Code("CONFIG_UNMARSHAL_FAILED").Wrap(err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks that required settings are present and well-formed.
func (c *Config) Validate() error {
	if c.Database.URL == "" {
		return oops.Code("CONFIG_INVALID").Errorf("database.url is required")
	}
	if c.Auth.TokenSecret == "" {
		return oops.Code("CONFIG_INVALID").Errorf("auth.token_secret is required")
	}
	if c.Log.Format != "json" && c.Log.Format != "text" {
		return oops.Code("CONFIG_INVALID").Errorf("log.format must be json or text, got %q", c.Log.Format)
	}
	if c.Auth.TokenTTL <= 0 {
		return oops.Code("CONFIG_INVALID").Errorf("auth.token_ttl must be positive")
	}
	return nil
}
