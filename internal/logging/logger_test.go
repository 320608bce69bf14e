package logging

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

func TestInitWritesJSONToOutput(t *testing.T) {
	var buf bytes.Buffer
	_, err := Init(Config{Level: "debug", Format: "json", Output: &buf})
	require.NoError(t, err)
	t.Cleanup(func() { Logger = zerolog.Nop() })

	logger := Component("timeline")
	logger.Debug().Int("messages", 3).Msg("loaded")

	require.Contains(t, buf.String(), `"component":"timeline"`)
	require.Contains(t, buf.String(), `"messages":3`)
}

func TestInitOpensFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "lazymemo.log")
	closer, err := Init(Config{Level: "info", Format: "json", File: path})
	require.NoError(t, err)
	t.Cleanup(func() { Logger = zerolog.Nop() })

	Logger.Info().Msg("hello")
	require.NoError(t, closer.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Contains(t, string(data), "hello")
}

func TestFromContext(t *testing.T) {
	var buf bytes.Buffer
	ctx := WithContext(context.Background(), zerolog.New(&buf))

	logger, ok := FromContext(ctx)
	require.True(t, ok)
	logger.Info().Msg("scoped")
	require.Contains(t, buf.String(), "scoped")

	_, ok = FromContext(context.Background())
	require.False(t, ok)
}

func TestParseLevel(t *testing.T) {
	require.Equal(t, zerolog.WarnLevel, parseLevel("warning"))
	require.Equal(t, zerolog.InfoLevel, parseLevel("nonsense"))
}
