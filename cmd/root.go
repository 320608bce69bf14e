// Package cmd implements the lazymemo command line.
package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/ras0q/lazymemo/internal/config"
	"github.com/ras0q/lazymemo/internal/logging"
	"github.com/ras0q/lazymemo/internal/memoapiext"
	"github.com/spf13/cobra"
)

var version = "dev"

var (
	configFile string
	apiURL     string
	logLevel   string

	cfg       *config.Config
	logCloser io.Closer
)

var rootCmd = &cobra.Command{
	Use:   "lazymemo",
	Short: "A terminal client for your message log",
	Long: `lazymemo shows your messages as a timeline grouped by day and lets
you write, edit, copy and delete them without leaving the terminal.

Run "lazymemo login" first to store a session for the configured backend.`,
	Version:           version,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: setup,
	PersistentPostRun: func(*cobra.Command, []string) {
		if logCloser != nil {
			_ = logCloser.Close()
		}
	},
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runTUI(cmd.Context())
	},
}

// Execute runs the command line and returns the first error.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return rootCmd.ExecuteContext(ctx)
}

func init() {
	rootCmd.CompletionOptions.DisableDefaultCmd = true

	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "config file path (default is $XDG_CONFIG_HOME/lazymemo/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&apiURL, "api", "", "backend base URL, e.g. http://localhost:8080")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level (trace, debug, info, warn, error)")
}

func setup(cmd *cobra.Command, _ []string) error {
	loader := config.NewLoader()
	if configFile != "" {
		loader.SetConfigFile(configFile)
	}
	if cmd.Flags().Changed("api") {
		loader.Set("api.base_url", apiURL)
	}
	if cmd.Flags().Changed("log-level") {
		loader.Set("logging.level", logLevel)
	}

	loaded, err := loader.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	closer, err := logging.Init(loaded.LoggerConfig())
	if err != nil {
		return fmt.Errorf("init logging: %w", err)
	}

	cfg = loaded
	logCloser = closer

	logging.Logger.Debug().
		Str("command", cmd.Name()).
		Str("config", loader.ConfigFileUsed()).
		Str("api", cfg.API.BaseURL).
		Msg("starting")

	return nil
}

func newBackend(session *memoapiext.SessionSource) (*memoapiext.Context, error) {
	return memoapiext.NewContext(memoapiext.Options{
		BaseURL:  cfg.API.BaseURL,
		Timeout:  cfg.API.Timeout,
		FreshFor: cfg.API.CacheFresh,
		TTL:      cfg.API.CacheTTL,
	}, session)
}
