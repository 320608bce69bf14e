// Package help renders the key reference panel.
package help

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	"github.com/ras0q/lazymemo/internal/tui/viewmodel/timeline"
)

type Model struct {
	w, h     int
	viewport viewport.Model
}

var _ tea.Model = (*Model)(nil)

func New(w, h int, keys timeline.KeyMap) *Model {
	markdown := Markdown(keys)

	renderer, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(w),
	)

	content := markdown
	if err == nil {
		if rendered, err := renderer.Render(markdown); err == nil {
			content = rendered
		}
	}

	vp := viewport.New(w, h)
	vp.SetContent(content)

	return &Model{
		w:        w,
		h:        h,
		viewport: vp,
	}
}

func (m *Model) Init() tea.Cmd {
	return nil
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)

	return m, cmd
}

func (m *Model) View() string {
	return lipgloss.NewStyle().
		Width(m.w).
		Height(m.h).
		Render(m.viewport.View())
}

// Markdown lists every binding as a markdown document.
func Markdown(keys timeline.KeyMap) string {
	var sb strings.Builder

	sb.WriteString("# Keys\n\n## Timeline\n\n")
	writeBindings(&sb,
		keys.Up, keys.Down, keys.Menu, keys.Edit, keys.Delete,
		keys.Confirm, keys.Decline, keys.Retry, keys.Copy,
		keys.Save, keys.Cancel, keys.Reload,
	)

	sb.WriteString("\n## Composer\n\n")
	sb.WriteString("- `ctrl+s` send\n")
	sb.WriteString("- `esc` back to timeline\n")

	sb.WriteString("\n## Global\n\n")
	sb.WriteString("- `n` write a message\n")
	sb.WriteString("- `?` toggle this help\n")
	sb.WriteString("- `q` / `ctrl+c` quit\n")

	return sb.String()
}

func writeBindings(sb *strings.Builder, bindings ...key.Binding) {
	for _, b := range bindings {
		if !b.Enabled() {
			continue
		}

		help := b.Help()
		fmt.Fprintf(sb, "- `%s` %s\n", help.Key, help.Desc)
	}
}
