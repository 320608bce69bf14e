package cmd

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/go-faster/errors"
	"github.com/ras0q/lazymemo/internal/auth"
	"github.com/ras0q/lazymemo/internal/memoapi"
	"github.com/ras0q/lazymemo/internal/memoapiext"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var loginUsername string

func init() {
	rootCmd.AddCommand(loginCmd)

	loginCmd.Flags().StringVarP(&loginUsername, "username", "u", "", "username (prompted when empty)")
}

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Log in and store the session token",
	Long: `Log in to the configured backend. The session token is stored in the
system keyring, or in hosts.json under the config directory when no
keyring is available.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runLogin(cmd.Context(), cmd.InOrStdin(), cmd.OutOrStdout())
	},
}

func runLogin(ctx context.Context, in io.Reader, out io.Writer) error {
	reader := bufio.NewReader(in)

	username := strings.TrimSpace(loginUsername)
	if username == "" {
		_, _ = fmt.Fprint(out, "Username: ")

		line, err := readLine(reader)
		if err != nil {
			return fmt.Errorf("read username: %w", err)
		}
		username = line
	}
	if username == "" {
		return errors.New("username is required")
	}

	_, _ = fmt.Fprint(out, "Password: ")
	password, err := readPassword(in, reader, out)
	if err != nil {
		return fmt.Errorf("read password: %w", err)
	}

	backend, err := newBackend(memoapiext.NewSessionSource(""))
	if err != nil {
		return fmt.Errorf("create backend: %w", err)
	}

	user, token, err := backend.Client().Login(ctx, username, password)
	if err != nil {
		return errors.New(memoapi.UserMessage(err, memoapi.FallbackLogin))
	}

	store, err := auth.SetToken(cfg.Host(), token)
	if err != nil {
		return fmt.Errorf("store token: %w", err)
	}

	_, _ = fmt.Fprintf(out, "Logged in to %s as @%s (token saved to %s)\n", cfg.Host(), user.Username, store)

	return nil
}

// readPassword reads without echo when in is a terminal.
func readPassword(in io.Reader, reader *bufio.Reader, out io.Writer) (string, error) {
	if f, ok := in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		b, err := term.ReadPassword(int(f.Fd()))
		_, _ = fmt.Fprintln(out)
		if err != nil {
			return "", err
		}

		return string(b), nil
	}

	return readLine(reader)
}

func readLine(reader *bufio.Reader) (string, error) {
	line, err := reader.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", err
	}

	return strings.TrimRight(line, "\r\n"), nil
}
