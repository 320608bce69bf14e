package timeline

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	tl "github.com/ras0q/lazymemo/internal/timeline"
)

const (
	timeLayout  = "15:04"
	unknownTime = "--:--"
)

func (m *Model) renderTimeline() {
	m.viewport.SetContent(m.timelineContent())

	if m.state.reveal {
		m.state.reveal = false
		m.revealSelection()
	}

	_, ok := m.store.Newest()
	if trigger, fired := m.anchor.Consume(ok); fired {
		m.viewport.GotoBottom()
		m.logger.Debug().Stringer("trigger", trigger).Msg("scrolled to newest")
	}
}

// revealSelection scrolls just enough to show the whole selected message,
// or its first lines when it is taller than the viewport.
func (m *Model) revealSelection() {
	span := m.state.selectedSpan
	if !span.ok {
		return
	}

	switch {
	case span.top < m.viewport.YOffset:
		m.viewport.SetYOffset(span.top)
	case span.bottom >= m.viewport.YOffset+m.viewport.Height:
		m.viewport.SetYOffset(min(span.top, span.bottom-m.viewport.Height+1))
	}
}

func (m *Model) timelineContent() string {
	m.state.selectedSpan = lineSpan{}

	if m.store.Len() == 0 {
		return m.statusLine()
	}

	var sb strings.Builder
	line := 0
	if m.state.loadErr != "" {
		rendered := m.theme.Timeline.Error.Render(m.state.loadErr)
		sb.WriteString(rendered)
		sb.WriteString("\n")
		line += strings.Count(rendered, "\n") + 1
	}

	for i, item := range tl.Project(m.store.Messages()) {
		if i > 0 {
			sb.WriteString("\n")
			line++
		}

		var rendered string
		switch item.Kind {
		case tl.ItemSeparator:
			rendered = m.renderSeparator(item.Label)
		case tl.ItemMessage:
			rendered = m.renderMessage(item.Message)
		}

		height := strings.Count(rendered, "\n")
		if item.Kind == tl.ItemMessage && m.state.hasSelection && item.Message.ID == m.state.selected {
			m.state.selectedSpan = lineSpan{top: line, bottom: line + height, ok: true}
		}

		sb.WriteString(rendered)
		line += height
	}

	return sb.String()
}

func (m *Model) statusLine() string {
	switch {
	case !m.state.session.Active():
		return m.theme.Timeline.Status.Render("Not logged in.")
	case m.state.loading:
		return m.spinner.View() + " " + m.theme.Timeline.Status.Render("loading messages...")
	case m.state.loadErr != "":
		return m.theme.Timeline.Error.Render(m.state.loadErr)
	default:
		return m.theme.Timeline.Status.Render("No messages yet.")
	}
}

func (m *Model) renderSeparator(label string) string {
	return lipgloss.PlaceHorizontal(
		m.w,
		lipgloss.Center,
		" "+m.theme.Timeline.DayLabel.Render(label)+" ",
		lipgloss.WithWhitespaceChars("─"),
		lipgloss.WithWhitespaceForeground(m.theme.Colors.Muted),
	)
}

func (m *Model) gutter(selected bool, stamp string) string {
	cursor := " "
	if selected {
		cursor = m.theme.Timeline.Cursor.Render("▌")
	}

	return cursor + m.theme.Timeline.Time.Render(stamp)
}

func (m *Model) gutterWidth() int {
	return lipgloss.Width(m.gutter(false, timeLayout)) + lipgloss.Width(m.rule())
}

func (m *Model) rule() string {
	return m.theme.Timeline.Separator.Render("│ ")
}

func (m *Model) renderMessage(message tl.Message) string {
	st := m.controller.State(message.ID)
	selected := m.state.hasSelection && m.state.selected == message.ID

	stamp := unknownTime
	if t, ok := message.Time(); ok {
		stamp = t.In(tl.Zone).Format(timeLayout)
	}

	head := m.gutter(selected, stamp)
	indent := strings.Repeat(" ", lipgloss.Width(head))
	rule := m.rule()

	var lines []string
	if edit, ok := m.controller.Edit(); ok && edit.MessageID == message.ID {
		lines = strings.Split(m.editor.View(), "\n")
		if edit.Pending {
			lines = append(lines, m.theme.Timeline.Hint.Render("saving..."))
		} else {
			lines = append(lines, m.theme.Timeline.Hint.Render("ctrl+s save · esc cancel"))
		}

		if edit.Err != "" {
			lines = append(lines, m.theme.Timeline.Error.Render(edit.Err))
		}
	} else {
		width := max(m.w-m.gutterWidth(), 10)
		lines = strings.Split(m.renderBody(message.Body, width), "\n")
	}

	lines = append(lines, m.itemStatus(st)...)

	var sb strings.Builder
	for i, line := range lines {
		if i == 0 {
			sb.WriteString(head)
		} else {
			sb.WriteString("\n")
			sb.WriteString(indent)
		}

		sb.WriteString(rule)
		sb.WriteString(line)
	}

	return sb.String()
}

// renderBody renders link segments as terminal hyperlinks.
func (m *Model) renderBody(body string, width int) string {
	var sb strings.Builder
	for _, segment := range tl.Linkify(body) {
		switch segment.Kind {
		case tl.SegmentLink:
			sb.WriteString(termenv.Hyperlink(segment.Href, m.theme.Timeline.Link.Render(segment.Text)))
		default:
			sb.WriteString(segment.Text)
		}
	}

	return m.theme.Timeline.Body.Width(width).Render(sb.String())
}

func (m *Model) itemStatus(st tl.ItemState) []string {
	lines := make([]string, 0, 3)

	switch st.Mode {
	case tl.ModeMenuOpen:
		lines = append(lines, m.theme.Timeline.Menu.Render("e edit · d delete · c copy · esc close"))
	case tl.ModeConfirmingDelete:
		lines = append(lines, m.theme.Timeline.Error.Render("delete this message?")+" "+
			m.theme.Timeline.Hint.Render("y yes · n no"))
	}

	if st.DeletePending {
		lines = append(lines, m.theme.Timeline.Hint.Render("deleting..."))
	}

	if st.DeleteErr != "" {
		lines = append(lines, m.theme.Timeline.Error.Render(st.DeleteErr)+" "+
			m.theme.Timeline.Hint.Render("r retry"))
	}

	if st.Copied {
		lines = append(lines, m.theme.Timeline.Copied.Render("copied!"))
	}

	if st.CopyErr != "" {
		lines = append(lines, m.theme.Timeline.Error.Render(st.CopyErr))
	}

	return lines
}
