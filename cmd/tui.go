package cmd

import (
	"context"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/go-faster/errors"
	"github.com/ras0q/lazymemo/internal/auth"
	"github.com/ras0q/lazymemo/internal/logging"
	"github.com/ras0q/lazymemo/internal/memoapiext"
	"github.com/ras0q/lazymemo/internal/tui"
	"golang.org/x/sync/errgroup"
	"golang.org/x/term"
)

func runTUI(ctx context.Context) error {
	w, h, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil {
		return fmt.Errorf("get terminal size: %w", err)
	}

	// NOTE: decrease padding
	h = h - 2

	host := cfg.Host()
	logger := logging.Component("cmd")

	token, store, err := auth.GetToken(host)
	switch {
	case errors.Is(err, auth.ErrTokenNotFound):
		logger.Info().Str("host", host).Msg("no stored token")
	case err != nil:
		logger.Warn().Err(err).Str("host", host).Msg("read stored token")
	default:
		logger.Debug().Str("host", host).Stringer("store", store).Msg("token loaded")
	}

	session := memoapiext.NewSessionSource(token)
	backend, err := newBackend(session)
	if err != nil {
		return fmt.Errorf("create backend: %w", err)
	}

	model, err := tui.NewAppModel(ctx, w, h, tui.Options{
		APIHost: host,
		Backend: backend,
		Tokens:  session,
		ForgetToken: func() error {
			return auth.DeleteToken(host)
		},
		ShowHelp: cfg.TUI.ShowHelp,
	})
	if err != nil {
		return fmt.Errorf("create app model: %w", err)
	}
	defer model.Close()

	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	done := make(chan struct{})

	eg := errgroup.Group{}
	eg.Go(func() error {
		select {
		case <-ctx.Done():
			p.Quit()
		case <-done:
		}

		return nil
	})

	eg.Go(func() error {
		defer close(done)

		if _, err := p.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
			return err
		}

		return nil
	})

	if err := eg.Wait(); err != nil {
		return fmt.Errorf("run program: %w", err)
	}

	return nil
}
