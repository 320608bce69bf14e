package header

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/ras0q/lazymemo/internal/memoapi"
	"github.com/ras0q/lazymemo/internal/tui/shared"
)

const loginHint = "run `lazymemo login`"

type State struct {
	session shared.Session
	me      *memoapi.User
	ended   shared.EndReason
}

type Model struct {
	w, h    int
	apiHost string
	theme   shared.Theme

	state State
}

func New(w, h int, apiHost string, theme shared.Theme) *Model {
	return &Model{
		w:       w,
		h:       h,
		apiHost: apiHost,
		theme:   theme,
	}
}

func (m *Model) Init() tea.Cmd {
	return nil
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case shared.SessionStartedMsg:
		m.state = State{session: msg.Session}

	case shared.SessionLoadedMsg:
		if m.state.session.Owns(msg.Epoch) && msg.UserErr == nil {
			me := msg.User
			m.state.me = &me
		}

	case shared.SessionEndedMsg:
		m.state = State{ended: msg.Reason}
	}

	return m, nil
}

func (m *Model) View() string {
	leftPart := lipgloss.JoinHorizontal(
		lipgloss.Center,
		m.theme.Header.Title.Render("lazymemo"),
		" in ",
		m.theme.Header.Host.Render(m.apiHost),
	)

	var right string
	switch {
	case m.state.me != nil:
		right = m.theme.Header.Username.Render(fmt.Sprintf("@%s", m.state.me.Username))
	case m.state.session.Active():
		right = m.theme.Header.Username.Render("@unknown")
	case m.state.ended == shared.EndReasonExpired:
		right = m.theme.Header.Notice.Render("session expired, " + loginHint)
	default:
		right = m.theme.Header.Notice.Render("not logged in, " + loginHint)
	}

	rightPart := lipgloss.NewStyle().
		Width(max(m.w-lipgloss.Width(leftPart)-1, 0)).
		Align(lipgloss.Right).
		Render(right)

	return lipgloss.NewStyle().Height(m.h).Width(m.w).Render(
		lipgloss.JoinHorizontal(
			lipgloss.Top,
			leftPart,
			rightPart,
		),
	)
}
