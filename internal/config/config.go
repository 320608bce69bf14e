// Package config defines lazymemo configuration and its loader.
package config

import (
	"fmt"
	"net/url"
	"time"

	"github.com/ras0q/lazymemo/internal/logging"
)

// Config is the complete client configuration.
type Config struct {
	API     APIConfig     `yaml:"api" mapstructure:"api"`
	Logging LoggingConfig `yaml:"logging" mapstructure:"logging"`
	TUI     TUIConfig     `yaml:"tui" mapstructure:"tui"`
}

// APIConfig configures the message backend.
type APIConfig struct {
	// BaseURL is the backend origin, e.g. http://localhost:8080.
	BaseURL string `yaml:"base_url" mapstructure:"base_url"`

	// Timeout bounds every HTTP request.
	Timeout time.Duration `yaml:"timeout" mapstructure:"timeout"`

	// CacheFresh and CacheTTL tune the response cache for list/me calls.
	CacheFresh time.Duration `yaml:"cache_fresh" mapstructure:"cache_fresh"`
	CacheTTL   time.Duration `yaml:"cache_ttl" mapstructure:"cache_ttl"`
}

type LoggingConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
	File   string `yaml:"file" mapstructure:"file"`
}

type TUIConfig struct {
	ShowHelp bool `yaml:"show_help" mapstructure:"show_help"`
}

// DefaultConfig returns the built-in defaults.
func DefaultConfig() *Config {
	return &Config{
		API: APIConfig{
			BaseURL:    "http://localhost:8080",
			Timeout:    10 * time.Second,
			CacheFresh: 30 * time.Second,
			CacheTTL:   2 * time.Minute,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			File:   logging.DefaultFile(),
		},
		TUI: TUIConfig{
			ShowHelp: false,
		},
	}
}

// Validate checks the configuration for obvious mistakes.
func (c *Config) Validate() error {
	if c.API.BaseURL == "" {
		return fmt.Errorf("api.base_url is required")
	}

	u, err := url.Parse(c.API.BaseURL)
	if err != nil {
		return fmt.Errorf("api.base_url is invalid: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("api.base_url must be an http or https URL")
	}
	if u.Host == "" {
		return fmt.Errorf("api.base_url must include a host")
	}

	if c.API.Timeout <= 0 {
		return fmt.Errorf("api.timeout must be positive")
	}

	if c.API.CacheTTL < c.API.CacheFresh {
		return fmt.Errorf("api.cache_ttl must not be shorter than api.cache_fresh")
	}

	return nil
}

// Host returns the host part of the base URL for display.
func (c *Config) Host() string {
	u, err := url.Parse(c.API.BaseURL)
	if err != nil {
		return c.API.BaseURL
	}

	return u.Host
}

// LoggerConfig converts to the logging package configuration.
func (c *Config) LoggerConfig() logging.Config {
	return logging.Config{
		Level:  c.Logging.Level,
		Format: c.Logging.Format,
		File:   c.Logging.File,
	}
}
