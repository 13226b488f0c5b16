// Copyright (c) 2026 Trackbook. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package config handles application-wide settings and environment parsing.

It leverages 'caarlos0/env' to map OS environment variables into a strongly-typed
Go struct, providing early validation and default values. A local '.env' file is
loaded first (when present) so development setups do not need exported variables.

Usage:

	cfg, err := config.Load()
	if err != nil {
	    log.Fatal(err)
	}

Architecture:

  - Immutability: Once loaded, configuration is read-only.
  - DI-Friendly: Passed to core components (Redis, upstream client) via constructors.
  - Zero Hidden State: No global variables are used to store config.
*/
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"

	"github.com/taibuivan/trackbook/pkg/query"
)

// # Configuration Schema

// Config holds all runtime configuration for the Trackbook server.
type Config struct {

	// Server settings
	ServerPort  string `env:"PORT"         envDefault:"4200"`
	Environment string `env:"ENVIRONMENT"  envDefault:"development"`
	Debug       bool   `env:"DEBUG"        envDefault:"false"`

	// Timezone decides which calendar day counts as "today" for progress derivation.
	Timezone string `env:"TIMEZONE" envDefault:"UTC"`

	// Reading-plan backend
	RemoteAPIURL  string        `env:"REMOTE_API_URL" envDefault:"http://localhost:8000/api"`
	RemoteTimeout time.Duration `env:"REMOTE_TIMEOUT" envDefault:"30s"`
	RemoteRetries int           `env:"REMOTE_RETRIES" envDefault:"3"`

	// Key-Value Store (Redis): sessions and plan cache
	RedisURL     string        `env:"REDIS_URL,required"`
	SessionTTL   time.Duration `env:"SESSION_TTL"    envDefault:"720h"`
	PlanCacheTTL time.Duration `env:"PLAN_CACHE_TTL" envDefault:"2m"`

	// StaticDir holds the compiled single-page app. Empty disables static serving.
	StaticDir string `env:"STATIC_DIR" envDefault:"./dist/trackbook/browser"`

	// Cross-Origin Resource Sharing (comma separated)
	ExtraOrigins string `env:"EXTRA_ORIGINS"`
}

// CLIConfig holds the terminal client settings. Variables carry the TRACKBOOK_ prefix.
type CLIConfig struct {
	RemoteAPIURL string        `env:"API_URL"      envDefault:"http://localhost:8000/api"`
	Timeout      time.Duration `env:"TIMEOUT"      envDefault:"30s"`
	SessionFile  string        `env:"SESSION_FILE"`
	Timezone     string        `env:"TIMEZONE"     envDefault:"Local"`
}

// # Configuration Loading

// Load parses environment variables into a [Config] struct.
func Load() (*Config, error) {
	if err := loadDotEnv(); err != nil {
		return nil, err
	}

	// Initialize an empty config struct
	cfg := &Config{}

	// This will fail if any field marked with 'required' is missing.
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("config: failed to parse environment variables: %w", err)
	}

	if _, err := cfg.Location(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// LoadCLI parses TRACKBOOK_* environment variables into a [CLIConfig].
func LoadCLI() (*CLIConfig, error) {
	if err := loadDotEnv(); err != nil {
		return nil, err
	}

	cfg := &CLIConfig{}
	if err := env.ParseWithOptions(cfg, env.Options{Prefix: "TRACKBOOK_"}); err != nil {
		return nil, fmt.Errorf("config: failed to parse environment variables: %w", err)
	}

	return cfg, nil
}

// loadDotEnv reads ./.env without overriding variables that are already set.
func loadDotEnv() error {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("config: failed to read .env: %w", err)
	}
	return nil
}

// IsDevelopment reports whether the server is running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// Location resolves [Config.Timezone].
func (c *Config) Location() (*time.Location, error) {
	return loadLocation(c.Timezone)
}

// Location resolves [CLIConfig.Timezone].
func (c *CLIConfig) Location() (*time.Location, error) {
	return loadLocation(c.Timezone)
}

// AllowedOrigins splits [Config.ExtraOrigins] into a clean list.
func (c *Config) AllowedOrigins() []string {
	return query.StringSlice(c.ExtraOrigins)
}

func loadLocation(name string) (*time.Location, error) {
	location, err := time.LoadLocation(name)
	if err != nil {
		return nil, fmt.Errorf("config: invalid timezone %q: %w", name, err)
	}
	return location, nil
}
