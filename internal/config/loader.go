package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

const envPrefix = "LAZYMEMO"

// keys that can be overridden through LAZYMEMO_* environment variables
var envBindings = []string{
	"api.base_url",
	"api.timeout",
	"api.cache_fresh",
	"api.cache_ttl",
	"logging.level",
	"logging.format",
	"logging.file",
	"tui.show_help",
}

// Loader handles configuration loading with Viper.
type Loader struct {
	v          *viper.Viper
	configFile string
}

// NewLoader creates a new configuration loader.
func NewLoader() *Loader {
	return &Loader{
		v: viper.New(),
	}
}

// SetConfigFile sets an explicit config file path.
func (l *Loader) SetConfigFile(path string) {
	l.configFile = path
}

// Set overrides a key, e.g. from a CLI flag.
func (l *Loader) Set(key string, value any) {
	l.v.Set(key, value)
}

// Load loads configuration with precedence
// defaults < config file < env vars < Set overrides.
func (l *Loader) Load() (*Config, error) {
	cfg := DefaultConfig()

	l.setupViper(cfg)

	if err := l.loadConfigFile(); err != nil {
		return nil, fmt.Errorf("load config file: %w", err)
	}

	if err := l.v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	cfg.Logging.File = expandTilde(cfg.Logging.File)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return cfg, nil
}

// ConfigFileUsed returns the config file that was loaded, if any.
func (l *Loader) ConfigFileUsed() string {
	return l.v.ConfigFileUsed()
}

func (l *Loader) setupViper(cfg *Config) {
	v := l.v

	v.SetConfigName("config")
	v.SetConfigType("yaml")

	if xdgConfig := os.Getenv("XDG_CONFIG_HOME"); xdgConfig != "" {
		v.AddConfigPath(filepath.Join(xdgConfig, "lazymemo"))
	}

	if homeDir, _ := os.UserHomeDir(); homeDir != "" {
		v.AddConfigPath(filepath.Join(homeDir, ".config", "lazymemo"))
	}

	v.AddConfigPath(".")

	v.SetDefault("api.base_url", cfg.API.BaseURL)
	v.SetDefault("api.timeout", cfg.API.Timeout)
	v.SetDefault("api.cache_fresh", cfg.API.CacheFresh)
	v.SetDefault("api.cache_ttl", cfg.API.CacheTTL)
	v.SetDefault("logging.level", cfg.Logging.Level)
	v.SetDefault("logging.format", cfg.Logging.Format)
	v.SetDefault("logging.file", cfg.Logging.File)
	v.SetDefault("tui.show_help", cfg.TUI.ShowHelp)

	// Unmarshal ignores env vars for nested keys unless they are bound.
	for _, key := range envBindings {
		envVar := envPrefix + "_" + strings.ToUpper(strings.ReplaceAll(key, ".", "_"))
		_ = v.BindEnv(key, envVar)
	}
}

// loadConfigFile reads the config file. A missing file is only an error
// when it was given explicitly.
func (l *Loader) loadConfigFile() error {
	if l.configFile != "" {
		l.v.SetConfigFile(l.configFile)
	}

	if err := l.v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) && l.configFile == "" {
			return nil
		}

		return err
	}

	return nil
}

func expandTilde(path string) string {
	if path == "~" || strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}

		return filepath.Join(home, strings.TrimPrefix(path, "~"))
	}

	return path
}
