package cmd

import (
	"context"
	"fmt"
	"io"

	"github.com/go-faster/errors"
	"github.com/ras0q/lazymemo/internal/auth"
	"github.com/ras0q/lazymemo/internal/logging"
	"github.com/ras0q/lazymemo/internal/memoapi"
	"github.com/ras0q/lazymemo/internal/memoapiext"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(logoutCmd)
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "End the session and forget the stored token",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runLogout(cmd.Context(), cmd.OutOrStdout())
	},
}

func runLogout(ctx context.Context, out io.Writer) error {
	host := cfg.Host()

	token, _, err := auth.GetToken(host)
	if errors.Is(err, auth.ErrTokenNotFound) {
		_, _ = fmt.Fprintln(out, "Not logged in.")
		return nil
	}
	if err != nil {
		return fmt.Errorf("read stored token: %w", err)
	}

	backend, err := newBackend(memoapiext.NewSessionSource(token))
	if err != nil {
		return fmt.Errorf("create backend: %w", err)
	}

	// the local token goes away even when the backend cannot be reached
	if err := backend.Client().Logout(ctx); err != nil && !memoapi.IsAuthExpired(err) {
		logger := logging.Component("cmd")
		logger.Warn().Err(err).Msg("logout request failed")
		_, _ = fmt.Fprintf(out, "warning: %s\n", memoapi.UserMessage(err, memoapi.FallbackLogout))
	}

	if err := auth.DeleteToken(host); err != nil {
		return fmt.Errorf("delete stored token: %w", err)
	}

	_, _ = fmt.Fprintf(out, "Logged out of %s.\n", host)

	return nil
}
