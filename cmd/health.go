package cmd

import (
	"context"
	"fmt"
	"io"

	"github.com/go-faster/errors"
	"github.com/ras0q/lazymemo/internal/memoapi"
	"github.com/ras0q/lazymemo/internal/memoapiext"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(healthCmd)
}

var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Check that the backend is reachable",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runHealth(cmd.Context(), cmd.OutOrStdout())
	},
}

func runHealth(ctx context.Context, out io.Writer) error {
	backend, err := newBackend(memoapiext.NewSessionSource(""))
	if err != nil {
		return fmt.Errorf("create backend: %w", err)
	}

	status, err := backend.Client().Health(ctx)
	if err != nil {
		return errors.Wrap(errors.New(memoapi.UserMessage(err, memoapi.FallbackHealth)), cfg.Host())
	}

	_, _ = fmt.Fprintf(out, "%s: %s\n", cfg.Host(), status)

	return nil
}
