// Package logging provides structured logging for lazymemo using zerolog.
//
// The TUI owns the terminal, so logs are written to a file unless an
// explicit Output is given.
package logging

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
)

// Logger is the global logger instance.
var Logger = zerolog.Nop()

type ctxKey string

const loggerKey ctxKey = "logger"

// Config holds logging configuration.
type Config struct {
	// Level is the minimum log level (trace, debug, info, warn, error).
	Level string

	// Format is the output format (json, console).
	Format string

	// File is the log file path. Ignored when Output is set.
	File string

	// Output overrides File.
	Output io.Writer
}

// DefaultConfig returns the default logging configuration.
func DefaultConfig() Config {
	return Config{
		Level:  "info",
		Format: "json",
		File:   DefaultFile(),
	}
}

// DefaultFile returns $XDG_STATE_HOME/lazymemo/lazymemo.log, falling back
// to ~/.local/state.
func DefaultFile() string {
	stateDir := os.Getenv("XDG_STATE_HOME")
	if stateDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		stateDir = filepath.Join(home, ".local", "state")
	}

	return filepath.Join(stateDir, "lazymemo", "lazymemo.log")
}

// Init initializes the global logger. The returned closer releases the log
// file, if one was opened.
func Init(cfg Config) (io.Closer, error) {
	zerolog.SetGlobalLevel(parseLevel(cfg.Level))
	zerolog.TimeFieldFormat = time.RFC3339

	var closer io.Closer = nopCloser{}
	output := cfg.Output
	if output == nil {
		if cfg.File == "" {
			Logger = zerolog.Nop()
			return closer, nil
		}

		if err := os.MkdirAll(filepath.Dir(cfg.File), 0o700); err != nil {
			return nil, fmt.Errorf("create log dir: %w", err)
		}

		f, err := os.OpenFile(cfg.File, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o600)
		if err != nil {
			return nil, fmt.Errorf("open log file (%s): %w", cfg.File, err)
		}

		output = f
		closer = f
	}

	if cfg.Format == "console" {
		output = zerolog.ConsoleWriter{
			Out:        output,
			TimeFormat: "15:04:05",
			NoColor:    true,
		}
	}

	Logger = zerolog.New(output).With().Timestamp().Logger()

	return closer, nil
}

func parseLevel(level string) zerolog.Level {
	switch level {
	case "trace":
		return zerolog.TraceLevel
	case "debug":
		return zerolog.DebugLevel
	case "info":
		return zerolog.InfoLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}

// WithContext returns a new context with the logger attached.
func WithContext(ctx context.Context, logger zerolog.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, logger)
}

// FromContext returns the logger attached to ctx by WithContext.
func FromContext(ctx context.Context) (zerolog.Logger, bool) {
	logger, ok := ctx.Value(loggerKey).(zerolog.Logger)
	return logger, ok
}

// Component creates a logger with a component field.
func Component(name string) zerolog.Logger {
	return Logger.With().Str("component", name).Logger()
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
