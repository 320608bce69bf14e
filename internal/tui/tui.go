package tui

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/ras0q/lazymemo/internal/logging"
	memotimeline "github.com/ras0q/lazymemo/internal/timeline"
	"github.com/ras0q/lazymemo/internal/tui/shared"
	"github.com/ras0q/lazymemo/internal/tui/viewmodel/header"
	"github.com/ras0q/lazymemo/internal/tui/viewmodel/help"
	"github.com/ras0q/lazymemo/internal/tui/viewmodel/messageinput"
	"github.com/ras0q/lazymemo/internal/tui/viewmodel/timeline"
	"github.com/rs/zerolog"
)

// TokenHolder is the in-memory session credential.
type TokenHolder interface {
	HasToken() bool
	Clear()
}

type Options struct {
	APIHost string
	Backend shared.Backend
	Tokens  TokenHolder

	// ForgetToken drops the persisted token once the backend reports the
	// session expired.
	ForgetToken func() error

	ShowHelp     bool
	TimelineOpts []timeline.Option
}

type AppModel struct {
	theme        shared.Theme
	header       *header.Model
	timeline     *timeline.Model
	messageInput *messageinput.Model
	help         *help.Model

	ctx         context.Context
	backend     shared.Backend
	tokens      TokenHolder
	forgetToken func() error
	logger      zerolog.Logger

	focus    focusArea
	showHelp bool
	epoch    uint64
	session  shared.Session
	cancel   context.CancelFunc
}

type focusArea int

const (
	focusAreaTimeline focusArea = iota + 1
	focusAreaMessageInput
)

type startSessionMsg struct{}

func NewAppModel(ctx context.Context, w, h int, opts Options) (*AppModel, error) {
	if opts.Backend == nil || opts.Tokens == nil {
		return nil, fmt.Errorf("backend and tokens are required")
	}

	// Layout calculation
	// ---------------------
	// |       header      |
	// |-------------------|
	// |     timeline      |
	// |                   |
	// |-------------------|
	// |   messageInput    |
	// ---------------------

	headerHeight := 3
	mainHeight := h - headerHeight
	timelineHeight := mainHeight * 7 / 10
	messageInputHeight := mainHeight - timelineHeight
	padding := 2

	theme := shared.DefaultTheme()

	store := memotimeline.NewStore()
	anchor := memotimeline.NewAnchor()
	composer := memotimeline.NewComposer(store, anchor)

	return &AppModel{
		theme: theme,
		header: header.New(
			w-padding,
			headerHeight-padding,
			opts.APIHost,
			theme,
		),
		timeline: timeline.New(
			w-padding,
			timelineHeight-padding,
			opts.Backend,
			store,
			anchor,
			theme,
			opts.TimelineOpts...,
		),
		messageInput: messageinput.New(
			w-padding,
			messageInputHeight-padding,
			opts.Backend,
			composer,
			theme,
		),
		help: help.New(
			w-padding,
			timelineHeight-padding,
			timeline.DefaultKeyMap(),
		),
		ctx:         ctx,
		backend:     opts.Backend,
		tokens:      opts.Tokens,
		forgetToken: opts.ForgetToken,
		logger:      logging.Component("tui"),
		focus:       focusAreaTimeline,
		showHelp:    opts.ShowHelp,
	}, nil
}

var _ tea.Model = (*AppModel)(nil)

func (m *AppModel) Init() tea.Cmd {
	return tea.Batch(
		m.header.Init(),
		m.timeline.Init(),
		m.messageInput.Init(),
		m.help.Init(),
		func() tea.Msg {
			if !m.tokens.HasToken() {
				return shared.SessionEndedMsg{Reason: shared.EndReasonNoToken}
			}

			return startSessionMsg{}
		},
	)
}

func (m *AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	cmds := make([]tea.Cmd, 0, 10)

	m.logger.Trace().Str("msg", fmt.Sprintf("%T", msg)).Msg("update")

	switch msg := msg.(type) {
	case startSessionMsg:
		cmds = append(cmds, m.startSession())

	case shared.SessionExpiredMsg:
		if !m.session.Owns(msg.Epoch) {
			break
		}

		m.logger.Info().Uint64("epoch", msg.Epoch).Msg("session expired")
		cmds = append(cmds, m.endSession(shared.EndReasonExpired))

	case shared.ReturnToTimelineMsg:
		m.focus = focusAreaTimeline

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}

		if m.focus == focusAreaTimeline && !m.timeline.Capturing() {
			switch msg.String() {
			case "q":
				return m, tea.Quit

			case "?":
				m.showHelp = !m.showHelp
				return m, nil

			case "n", "i":
				if !m.session.Active() {
					break
				}

				m.showHelp = false
				m.focus = focusAreaMessageInput
				cmds = append(cmds, func() tea.Msg {
					return shared.FocusComposerMsg{}
				})

				return m, tea.Batch(cmds...)
			}
		}

		switch {
		case m.focus == focusAreaTimeline && m.showHelp:
			if msg.String() == "esc" {
				m.showHelp = false
				break
			}

			_help, cmd := m.help.Update(msg)
			m.help = _help.(*help.Model)
			cmds = append(cmds, cmd)

		case m.focus == focusAreaTimeline:
			_timeline, cmd := m.timeline.Update(msg)
			m.timeline = _timeline.(*timeline.Model)
			cmds = append(cmds, cmd)

		case m.focus == focusAreaMessageInput:
			_messageInput, cmd := m.messageInput.Update(msg)
			m.messageInput = _messageInput.(*messageinput.Model)
			cmds = append(cmds, cmd)
		}

	default:
		cmds = append(cmds, m.broadcast(msg))
	}

	return m, tea.Batch(cmds...)
}

func (m *AppModel) View() string {
	main := m.timeline.View()
	if m.showHelp {
		main = m.help.View()
	}

	return lipgloss.JoinVertical(
		lipgloss.Left,
		m.theme.WithBorder(m.header.View(), false),
		m.theme.WithBorder(main, m.focus == focusAreaTimeline),
		m.theme.WithBorder(m.messageInput.View(), m.focus == focusAreaMessageInput),
	)
}

// Close ends the running session, cancelling its in-flight calls.
func (m *AppModel) Close() {
	if m.session.Active() {
		m.endSession(shared.EndReasonQuit)
	}
}

func (m *AppModel) broadcast(msg tea.Msg) tea.Cmd {
	cmds := make([]tea.Cmd, 0, 3)

	_header, cmd := m.header.Update(msg)
	m.header = _header.(*header.Model)
	cmds = append(cmds, cmd)

	_timeline, cmd := m.timeline.Update(msg)
	m.timeline = _timeline.(*timeline.Model)
	cmds = append(cmds, cmd)

	_messageInput, cmd := m.messageInput.Update(msg)
	m.messageInput = _messageInput.(*messageinput.Model)
	cmds = append(cmds, cmd)

	return tea.Batch(cmds...)
}
