package messageinput

import (
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/ras0q/lazymemo/internal/logging"
	"github.com/ras0q/lazymemo/internal/memoapi"
	"github.com/ras0q/lazymemo/internal/timeline"
	"github.com/ras0q/lazymemo/internal/tui/shared"
	"github.com/rs/zerolog"
)

type messageCreatedMsg struct {
	epoch   uint64
	message timeline.Message
	err     error
}

var (
	submitKey = key.NewBinding(key.WithKeys("ctrl+s"), key.WithHelp("ctrl+s", "send"))
	leaveKey  = key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "back to timeline"))
)

type Model struct {
	w, h     int
	backend  shared.Backend
	composer *timeline.Composer
	input    textarea.Model
	theme    shared.Theme
	logger   zerolog.Logger

	session shared.Session
}

var _ tea.Model = (*Model)(nil)

// New creates a new message input model.
func New(w, h int, backend shared.Backend, composer *timeline.Composer, theme shared.Theme) *Model {
	input := textarea.New()
	input.Placeholder = "Write a message..."
	input.ShowLineNumbers = false
	input.CharLimit = 0
	input.SetWidth(w)
	input.SetHeight(max(h-1, 1))

	return &Model{
		w:        w,
		h:        h,
		backend:  backend,
		composer: composer,
		input:    input,
		theme:    theme,
		logger:   logging.Component("composer"),
	}
}

func (m *Model) Init() tea.Cmd {
	return nil
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	cmds := make([]tea.Cmd, 0, 10)

	switch msg := msg.(type) {
	case shared.SessionStartedMsg:
		m.session = msg.Session
		m.reset()

	case shared.SessionEndedMsg:
		m.session = shared.Session{}
		m.reset()

	case shared.FocusComposerMsg:
		cmds = append(cmds, m.input.Focus())

	case shared.ReturnToTimelineMsg:
		m.input.Blur()

	case messageCreatedMsg:
		if !m.session.Owns(msg.epoch) {
			break
		}

		if msg.err != nil {
			if memoapi.IsAuthExpired(msg.err) {
				epoch := msg.epoch
				cmds = append(cmds, func() tea.Msg {
					return shared.SessionExpiredMsg{Epoch: epoch}
				})
				break
			}

			m.logger.Warn().Err(msg.err).Msg("send failed")
			m.composer.SubmitFailed(memoapi.UserMessage(msg.err, memoapi.FallbackSend))
			cmds = append(cmds, m.input.Focus())
			break
		}

		m.composer.SubmitSucceeded(msg.message)
		m.input.Reset()
		cmds = append(cmds, m.input.Focus(), func() tea.Msg {
			return shared.TimelineChangedMsg{}
		})

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, submitKey):
			cmds = append(cmds, m.submit())

		case key.Matches(msg, leaveKey):
			m.input.Blur()
			cmds = append(cmds, func() tea.Msg {
				return shared.ReturnToTimelineMsg{}
			})

		default:
			if m.composer.Submitting() {
				break
			}

			var cmd tea.Cmd
			m.input, cmd = m.input.Update(msg)
			m.composer.SetDraft(m.input.Value())
			cmds = append(cmds, cmd)
		}
	}

	return m, tea.Batch(cmds...)
}

func (m *Model) View() string {
	var status string
	switch {
	case m.composer.Submitting():
		status = m.theme.Composer.Hint.Render("sending...")
	case m.composer.Err() != "":
		status = m.theme.Composer.Error.Render(m.composer.Err())
	case m.composer.CanSubmit():
		status = m.theme.Composer.Hint.Render("ctrl+s send · esc back")
	default:
		status = m.theme.Composer.Hint.Render("esc back")
	}

	return lipgloss.NewStyle().
		Width(m.w).
		Height(m.h).
		Render(lipgloss.JoinVertical(lipgloss.Left, m.input.View(), status))
}

func (m *Model) submit() tea.Cmd {
	if !m.session.Active() {
		return nil
	}

	body, ok := m.composer.BeginSubmit()
	if !ok {
		return nil
	}

	m.input.Blur()
	session := m.session

	return func() tea.Msg {
		created, err := m.backend.CreateMessage(session.Ctx, body)

		return messageCreatedMsg{
			epoch:   session.Epoch,
			message: created,
			err:     err,
		}
	}
}

func (m *Model) reset() {
	m.composer.Reset()
	m.input.Reset()
}
