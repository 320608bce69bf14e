package timeline

import (
	tea "github.com/charmbracelet/bubbletea"
	tl "github.com/ras0q/lazymemo/internal/timeline"
	"github.com/ras0q/lazymemo/internal/tui/shared"
)

func (m *Model) loadCmd(session shared.Session) tea.Cmd {
	return func() tea.Msg {
		messages, err := m.backend.LoadMessages(session.Ctx)

		return messagesLoadedMsg{
			epoch:    session.Epoch,
			messages: messages,
			err:      err,
		}
	}
}

func (m *Model) saveCmd(id tl.MessageID, body string) tea.Cmd {
	session := m.state.session

	return func() tea.Msg {
		saved, err := m.backend.UpdateMessage(session.Ctx, id, body)

		return messageSavedMsg{
			epoch:   session.Epoch,
			id:      id,
			message: saved,
			err:     err,
		}
	}
}

func (m *Model) deleteCmd(id tl.MessageID) tea.Cmd {
	session := m.state.session

	return func() tea.Msg {
		err := m.backend.DeleteMessage(session.Ctx, id)

		return messageDeletedMsg{
			epoch: session.Epoch,
			id:    id,
			err:   err,
		}
	}
}

// copyCmd writes the body as last received from the server.
func (m *Model) copyCmd(id tl.MessageID) tea.Cmd {
	message, ok := m.store.Get(id)
	if !ok {
		return nil
	}

	epoch := m.state.session.Epoch
	clipboard := m.clipboard

	return func() tea.Msg {
		return messageCopiedMsg{
			epoch: epoch,
			id:    id,
			err:   clipboard.WriteAll(message.Body),
		}
	}
}

func (m *Model) expiredCmd() tea.Cmd {
	epoch := m.state.session.Epoch

	return func() tea.Msg {
		return shared.SessionExpiredMsg{Epoch: epoch}
	}
}
