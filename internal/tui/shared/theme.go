package shared

import "github.com/charmbracelet/lipgloss"

// Colors defines the color palette
type Colors struct {
	Primary lipgloss.Color
	Accent  lipgloss.Color
	Muted   lipgloss.Color
	Border  lipgloss.Color
	Error   lipgloss.Color
	Success lipgloss.Color
}

// BorderStyles defines border styling for components
type BorderStyles struct {
	Normal  lipgloss.Style
	Focused lipgloss.Style
}

// HeaderStyles defines styling for header component
type HeaderStyles struct {
	Title    lipgloss.Style
	Host     lipgloss.Style
	Username lipgloss.Style
	Notice   lipgloss.Style
}

// TimelineStyles defines styling for timeline component
type TimelineStyles struct {
	Time      lipgloss.Style
	Cursor    lipgloss.Style
	Body      lipgloss.Style
	Link      lipgloss.Style
	Separator lipgloss.Style
	DayLabel  lipgloss.Style
	Menu      lipgloss.Style
	Hint      lipgloss.Style
	Error     lipgloss.Style
	Copied    lipgloss.Style
	Status    lipgloss.Style
}

// ComposerStyles defines styling for the message input
type ComposerStyles struct {
	Hint  lipgloss.Style
	Error lipgloss.Style
}

// Theme aggregates all style definitions
type Theme struct {
	Colors   Colors
	Border   BorderStyles
	Header   HeaderStyles
	Timeline TimelineStyles
	Composer ComposerStyles
}

// DefaultTheme returns the default color scheme
func DefaultTheme() Theme {
	colors := Colors{
		Primary: lipgloss.Color("205"),
		Accent:  lipgloss.Color("240"),
		Muted:   lipgloss.Color("240"),
		Border:  lipgloss.Color("205"),
		Error:   lipgloss.Color("196"),
		Success: lipgloss.Color("42"),
	}

	return Theme{
		Colors: colors,
		Border: BorderStyles{
			Normal:  lipgloss.NewStyle().Border(lipgloss.RoundedBorder()),
			Focused: lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(colors.Border),
		},
		Header: HeaderStyles{
			Title:    lipgloss.NewStyle().Bold(true).Italic(true),
			Host:     lipgloss.NewStyle().Bold(true),
			Username: lipgloss.NewStyle().Bold(true),
			Notice:   lipgloss.NewStyle().Foreground(colors.Error),
		},
		Timeline: TimelineStyles{
			Time:      lipgloss.NewStyle().Foreground(colors.Accent).PaddingRight(1),
			Cursor:    lipgloss.NewStyle().Foreground(colors.Primary).Bold(true),
			Body:      lipgloss.NewStyle(),
			Link:      lipgloss.NewStyle().Foreground(colors.Primary).Underline(true),
			Separator: lipgloss.NewStyle().Foreground(colors.Muted),
			DayLabel:  lipgloss.NewStyle().Foreground(colors.Muted).Bold(true),
			Menu:      lipgloss.NewStyle().Foreground(colors.Primary),
			Hint:      lipgloss.NewStyle().Foreground(colors.Muted).Italic(true),
			Error:     lipgloss.NewStyle().Foreground(colors.Error),
			Copied:    lipgloss.NewStyle().Foreground(colors.Success),
			Status:    lipgloss.NewStyle().Foreground(colors.Muted),
		},
		Composer: ComposerStyles{
			Hint:  lipgloss.NewStyle().Foreground(colors.Muted).Italic(true),
			Error: lipgloss.NewStyle().Foreground(colors.Error),
		},
	}
}

// WithBorder applies border style based on focus state
func (t Theme) WithBorder(content string, focused bool) string {
	if focused {
		return t.Border.Focused.Render(content)
	}
	return t.Border.Normal.Render(content)
}
