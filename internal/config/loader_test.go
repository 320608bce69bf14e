package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func isolate(t *testing.T) string {
	t.Helper()

	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	t.Setenv("HOME", dir)
	t.Chdir(dir)

	return dir
}

func TestLoadDefaults(t *testing.T) {
	isolate(t)

	cfg, err := NewLoader().Load()
	require.NoError(t, err)
	require.Equal(t, "http://localhost:8080", cfg.API.BaseURL)
	require.Equal(t, 10*time.Second, cfg.API.Timeout)
	require.Equal(t, "localhost:8080", cfg.Host())
}

func TestLoadPrecedence(t *testing.T) {
	dir := isolate(t)

	path := filepath.Join(dir, "lazymemo", "config.yaml")
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(`
api:
  base_url: https://memo.example.com
  timeout: 3s
logging:
  level: debug
  file: ~/memo.log
`), 0o644))

	t.Setenv("LAZYMEMO_LOGGING_LEVEL", "warn")

	loader := NewLoader()
	loader.Set("api.timeout", "5s")

	cfg, err := loader.Load()
	require.NoError(t, err)
	require.Equal(t, path, loader.ConfigFileUsed())
	require.Equal(t, "https://memo.example.com", cfg.API.BaseURL)
	require.Equal(t, 5*time.Second, cfg.API.Timeout)
	require.Equal(t, "warn", cfg.Logging.Level)
	require.Equal(t, filepath.Join(dir, "memo.log"), cfg.Logging.File)
}

func TestLoadExplicitMissingFileFails(t *testing.T) {
	dir := isolate(t)

	loader := NewLoader()
	loader.SetConfigFile(filepath.Join(dir, "missing.yaml"))

	_, err := loader.Load()
	require.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{name: "defaults", mutate: func(*Config) {}},
		{name: "empty base url", mutate: func(c *Config) { c.API.BaseURL = "" }, wantErr: true},
		{name: "non-http scheme", mutate: func(c *Config) { c.API.BaseURL = "ftp://x" }, wantErr: true},
		{name: "missing host", mutate: func(c *Config) { c.API.BaseURL = "http://" }, wantErr: true},
		{name: "zero timeout", mutate: func(c *Config) { c.API.Timeout = 0 }, wantErr: true},
		{name: "ttl shorter than fresh", mutate: func(c *Config) { c.API.CacheTTL = time.Second }, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)

			err := cfg.Validate()
			if tt.wantErr {
				require.Error(t, err)
			} else {
				require.NoError(t, err)
			}
		})
	}
}
