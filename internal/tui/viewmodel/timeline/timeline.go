package timeline

import (
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/ras0q/lazymemo/internal/logging"
	"github.com/ras0q/lazymemo/internal/memoapi"
	tl "github.com/ras0q/lazymemo/internal/timeline"
	"github.com/ras0q/lazymemo/internal/tui/shared"
	"github.com/rs/zerolog"
)

const copyFailedMessage = "failed to copy"

type (
	messagesLoadedMsg struct {
		epoch    uint64
		messages []tl.Message
		err      error
	}

	messageSavedMsg struct {
		epoch   uint64
		id      tl.MessageID
		message tl.Message
		err     error
	}

	messageDeletedMsg struct {
		epoch uint64
		id    tl.MessageID
		err   error
	}

	messageCopiedMsg struct {
		epoch uint64
		id    tl.MessageID
		err   error
	}
)

type State struct {
	session shared.Session
	loading bool
	loaded  bool
	loadErr string

	selected     tl.MessageID
	hasSelection bool

	// lines of the selected message in the rendered content
	selectedSpan lineSpan
	reveal       bool
}

type lineSpan struct {
	top, bottom int
	ok          bool
}

type Model struct {
	w, h      int
	backend   shared.Backend
	clipboard Clipboard
	theme     shared.Theme
	keys      KeyMap
	viewport  viewport.Model
	editor    textarea.Model
	spinner   spinner.Model
	logger    zerolog.Logger

	store      *tl.Store
	anchor     *tl.Anchor
	controller *tl.Controller
	scheduler  *Scheduler

	state State
}

var _ tea.Model = (*Model)(nil)

type Option func(*Model)

func WithClipboard(c Clipboard) Option {
	return func(m *Model) {
		m.clipboard = c
	}
}

func New(w, h int, backend shared.Backend, store *tl.Store, anchor *tl.Anchor, theme shared.Theme, opts ...Option) *Model {
	vp := viewport.New(w, h)
	// j/k move the selection; the viewport only pages
	keys := viewport.DefaultKeyMap()
	vp.KeyMap = viewport.KeyMap{
		PageDown:     keys.PageDown,
		PageUp:       keys.PageUp,
		HalfPageDown: keys.HalfPageDown,
		HalfPageUp:   keys.HalfPageUp,
	}

	editor := textarea.New()
	editor.Prompt = ""
	editor.ShowLineNumbers = false
	editor.CharLimit = 0
	editor.SetHeight(3)

	scheduler := NewScheduler()

	m := &Model{
		w:          w,
		h:          h,
		backend:    backend,
		clipboard:  SystemClipboard{},
		theme:      theme,
		keys:       DefaultKeyMap(),
		viewport:   vp,
		editor:     editor,
		spinner:    spinner.New(spinner.WithSpinner(spinner.Dot)),
		logger:     logging.Component("timeline"),
		store:      store,
		anchor:     anchor,
		controller: tl.NewController(store, scheduler),
		scheduler:  scheduler,
	}
	for _, opt := range opts {
		opt(m)
	}

	m.editor.SetWidth(max(w-m.gutterWidth(), 10))
	m.renderTimeline()

	return m
}

func (m *Model) Init() tea.Cmd {
	return m.scheduler.Listen()
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	cmds := make([]tea.Cmd, 0, 10)

	switch msg := msg.(type) {
	case shared.SessionStartedMsg:
		m.startSession(msg.Session)
		cmds = append(cmds, m.spinner.Tick)

	case shared.SessionLoadedMsg:
		if m.state.session.Owns(msg.Epoch) {
			cmds = append(cmds, m.applyLoad(msg.Messages, msg.MessagesErr))
		}

	case messagesLoadedMsg:
		if m.state.session.Owns(msg.epoch) {
			cmds = append(cmds, m.applyLoad(msg.messages, msg.err))
		}

	case shared.SessionEndedMsg:
		m.endSession()

	case shared.TimelineChangedMsg:
		if !m.state.hasSelection {
			m.selectNewest()
		}

	case messageSavedMsg:
		if !m.state.session.Owns(msg.epoch) {
			break
		}

		if msg.err != nil {
			if memoapi.IsAuthExpired(msg.err) {
				cmds = append(cmds, m.expiredCmd())
				break
			}

			m.logger.Warn().Err(msg.err).Int64("id", int64(msg.id)).Msg("save failed")
			m.controller.SaveFailed(msg.id, memoapi.UserMessage(msg.err, memoapi.FallbackUpdate))
			if _, ok := m.controller.Edit(); ok {
				cmds = append(cmds, m.editor.Focus())
			}
			break
		}

		m.controller.SaveSucceeded(msg.id, msg.message)
		m.editor.Reset()
		m.editor.Blur()

	case messageDeletedMsg:
		if !m.state.session.Owns(msg.epoch) {
			break
		}

		if msg.err != nil {
			if memoapi.IsAuthExpired(msg.err) {
				cmds = append(cmds, m.expiredCmd())
				break
			}

			m.logger.Warn().Err(msg.err).Int64("id", int64(msg.id)).Msg("delete failed")
			m.controller.DeleteFailed(msg.id, memoapi.UserMessage(msg.err, memoapi.FallbackDelete))
			break
		}

		m.removeMessage(msg.id)

	case messageCopiedMsg:
		if !m.state.session.Owns(msg.epoch) {
			break
		}

		if msg.err != nil {
			m.logger.Warn().Err(msg.err).Int64("id", int64(msg.id)).Msg("copy failed")
			m.controller.CopyFailed(msg.id, copyFailedMessage)
			break
		}

		m.controller.CopySucceeded(msg.id)

	case timerFiredMsg:
		msg()
		cmds = append(cmds, m.scheduler.Listen())

	case spinner.TickMsg:
		if m.state.loading {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			cmds = append(cmds, cmd)
		}

	case tea.KeyMsg:
		cmds = append(cmds, m.handleKey(msg))

	case tea.MouseMsg:
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		cmds = append(cmds, cmd)
	}

	m.renderTimeline()

	return m, tea.Batch(cmds...)
}

func (m *Model) View() string {
	return lipgloss.NewStyle().
		Width(m.w).
		Height(m.h).
		Render(m.viewport.View())
}

// Capturing reports whether keys must not be interpreted as global
// shortcuts: while editing or answering a delete confirmation.
func (m *Model) Capturing() bool {
	if _, ok := m.controller.Edit(); ok {
		return true
	}

	id, ok := m.selectedID()

	return ok && m.controller.State(id).Mode == tl.ModeConfirmingDelete
}

func (m *Model) handleKey(msg tea.KeyMsg) tea.Cmd {
	if !m.state.session.Active() {
		return nil
	}

	if edit, ok := m.controller.Edit(); ok {
		return m.handleEditorKey(msg, edit)
	}

	if key.Matches(msg, m.keys.Reload) {
		return m.reload()
	}

	id, ok := m.selectedID()
	if !ok {
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return cmd
	}

	if m.controller.State(id).Mode == tl.ModeConfirmingDelete {
		switch {
		case key.Matches(msg, m.keys.Confirm):
			if m.controller.ConfirmDelete(id) {
				return m.deleteCmd(id)
			}

		case key.Matches(msg, m.keys.Decline):
			m.controller.DeclineDelete(id)
		}

		return nil
	}

	switch {
	case key.Matches(msg, m.keys.Up):
		m.moveSelection(-1)

	case key.Matches(msg, m.keys.Down):
		m.moveSelection(1)

	case key.Matches(msg, m.keys.Menu):
		m.controller.ToggleMenu(id)

	case key.Matches(msg, m.keys.Edit):
		if m.controller.State(id).Mode == tl.ModeViewing {
			m.controller.OpenMenu(id)
		}

		if m.controller.StartEdit(id) {
			edit, _ := m.controller.Edit()
			m.editor.SetValue(edit.Draft)
			return m.editor.Focus()
		}

	case key.Matches(msg, m.keys.Delete):
		m.controller.RequestDelete(id)

	case key.Matches(msg, m.keys.Retry):
		if m.controller.RetryDelete(id) {
			return m.deleteCmd(id)
		}

	case key.Matches(msg, m.keys.Copy):
		return m.copyCmd(id)

	case key.Matches(msg, m.keys.Cancel):
		m.controller.CloseMenu(id)

	default:
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return cmd
	}

	return nil
}

func (m *Model) handleEditorKey(msg tea.KeyMsg, edit tl.EditSession) tea.Cmd {
	switch {
	case key.Matches(msg, m.keys.Save):
		body, ok := m.controller.BeginSave(edit.MessageID)
		if !ok {
			return nil
		}

		m.editor.Blur()

		return m.saveCmd(edit.MessageID, body)

	case key.Matches(msg, m.keys.Cancel):
		if m.controller.CancelEdit(edit.MessageID) {
			m.editor.Reset()
			m.editor.Blur()
		}

		return nil
	}

	if edit.Pending {
		return nil
	}

	var cmd tea.Cmd
	m.editor, cmd = m.editor.Update(msg)
	m.controller.SetDraft(edit.MessageID, m.editor.Value())

	return cmd
}

func (m *Model) startSession(session shared.Session) {
	m.resetState()
	m.state.session = session
	m.state.loading = true
	m.anchor.Activate()
}

func (m *Model) endSession() {
	m.resetState()
	m.anchor.Deactivate()
}

func (m *Model) resetState() {
	m.state = State{}
	m.store.Clear()
	m.controller.Reset()
	m.editor.Reset()
	m.editor.Blur()
	m.viewport.SetYOffset(0)
}

// applyLoad installs a loaded collection. A failed load keeps whatever is
// shown and never moves the viewport.
func (m *Model) applyLoad(messages []tl.Message, err error) tea.Cmd {
	m.state.loading = false

	if err != nil {
		if memoapi.IsAuthExpired(err) {
			return m.expiredCmd()
		}

		m.logger.Warn().Err(err).Msg("load failed")
		m.state.loadErr = memoapi.UserMessage(err, memoapi.FallbackLoad)

		return nil
	}

	m.state.loaded = true
	m.state.loadErr = ""
	m.store.Load(messages)
	m.controller.Prune()
	if !m.store.Contains(m.state.selected) {
		m.selectNewest()
	}
	m.anchor.Loaded(len(messages))

	m.logger.Debug().Int("count", len(messages)).Msg("messages loaded")

	return nil
}

func (m *Model) reload() tea.Cmd {
	if m.state.loading {
		return nil
	}

	m.state.loading = true

	return tea.Batch(m.loadCmd(m.state.session), m.spinner.Tick)
}

// removeMessage drops a deleted message and moves the selection to its
// neighbour.
func (m *Model) removeMessage(id tl.MessageID) {
	messages := m.store.Messages()
	idx := -1
	for i, message := range messages {
		if message.ID == id {
			idx = i
			break
		}
	}

	m.controller.DeleteSucceeded(id)

	if m.state.selected != id || idx < 0 {
		return
	}

	remaining := m.store.Messages()
	if len(remaining) == 0 {
		m.state.hasSelection = false
		return
	}

	m.state.selected = remaining[min(idx, len(remaining)-1)].ID
}

func (m *Model) selectedID() (tl.MessageID, bool) {
	if !m.state.hasSelection || !m.store.Contains(m.state.selected) {
		return 0, false
	}

	return m.state.selected, true
}

func (m *Model) selectNewest() {
	newest, ok := m.store.Newest()
	m.state.selected = newest.ID
	m.state.hasSelection = ok
}

func (m *Model) moveSelection(delta int) {
	messages := m.store.Messages()
	for i, message := range messages {
		if message.ID != m.state.selected {
			continue
		}

		next := min(max(i+delta, 0), len(messages)-1)
		m.state.selected = messages[next].ID
		m.state.reveal = true

		return
	}
}
