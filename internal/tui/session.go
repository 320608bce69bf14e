package tui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/ras0q/lazymemo/internal/logging"
	"github.com/ras0q/lazymemo/internal/memoapi"
	"github.com/ras0q/lazymemo/internal/tui/shared"
	"golang.org/x/sync/errgroup"
)

// startSession replaces any running session. Children see
// SessionStartedMsg before any result of the new session can arrive.
func (m *AppModel) startSession() tea.Cmd {
	if m.cancel != nil {
		m.cancel()
	}

	m.epoch++
	scoped := logging.Logger.With().Uint64("epoch", m.epoch).Logger()
	ctx, cancel := context.WithCancel(logging.WithContext(m.ctx, scoped))
	m.session = shared.Session{Epoch: m.epoch, Ctx: ctx}
	m.cancel = cancel

	m.backend.Invalidate()
	m.logger.Info().Uint64("epoch", m.epoch).Msg("session started")

	return tea.Batch(
		m.broadcast(shared.SessionStartedMsg{Session: m.session}),
		m.bootstrapCmd(m.session),
	)
}

func (m *AppModel) endSession(reason shared.EndReason) tea.Cmd {
	if m.cancel != nil {
		m.cancel()
		m.cancel = nil
	}

	m.session = shared.Session{}
	m.focus = focusAreaTimeline

	cmds := make([]tea.Cmd, 0, 2)
	cmds = append(cmds, m.broadcast(shared.SessionEndedMsg{Reason: reason}))

	if reason == shared.EndReasonExpired {
		m.tokens.Clear()
		cmds = append(cmds, m.forgetTokenCmd())
	}

	return tea.Batch(cmds...)
}

// bootstrapCmd loads the current user and the messages concurrently. Only
// an expired session aborts the other call; any other failure is reported
// to the component that shows it.
func (m *AppModel) bootstrapCmd(session shared.Session) tea.Cmd {
	return func() tea.Msg {
		msg := shared.SessionLoadedMsg{Epoch: session.Epoch}

		eg, ctx := errgroup.WithContext(session.Ctx)
		eg.Go(func() error {
			msg.User, msg.UserErr = m.backend.CurrentUser(ctx)
			return authExpired(msg.UserErr)
		})
		eg.Go(func() error {
			msg.Messages, msg.MessagesErr = m.backend.LoadMessages(ctx)
			return authExpired(msg.MessagesErr)
		})

		if err := eg.Wait(); err != nil {
			return shared.SessionExpiredMsg{Epoch: session.Epoch}
		}

		return msg
	}
}

func (m *AppModel) forgetTokenCmd() tea.Cmd {
	if m.forgetToken == nil {
		return nil
	}

	forget := m.forgetToken
	logger := m.logger

	return func() tea.Msg {
		if err := forget(); err != nil {
			logger.Warn().Err(err).Msg("forget stored token")
		}

		return nil
	}
}

func authExpired(err error) error {
	if memoapi.IsAuthExpired(err) {
		return err
	}

	return nil
}
