package tui

import "github.com/charmbracelet/lipgloss"

type Style struct {
	Header lipgloss.Style
	Status lipgloss.Style
	Error  lipgloss.Style
	Muted  lipgloss.Style
	Badge  lipgloss.Style

	FocusedPrompt   lipgloss.Style
	UnfocusedPrompt lipgloss.Style

	Sidebar         lipgloss.Style
	SidebarSelected lipgloss.Style
	Reader          lipgloss.Style
	SelectedEntry   lipgloss.Style
	Entry           lipgloss.Style
	Body            lipgloss.Style
}

type BorderColors struct {
	Unselected string
	Selected   string
	Focused    string
}

func DefaultStyles() *Style {
	lightModeColors := BorderColors{
		Unselected: "#CCCCCC",
		Selected:   "#FFB6C1", // Light pink
		Focused:    "#FFFF99", // Light yellow
	}

	darkModeColors := BorderColors{
		Unselected: "#444444",
		Selected:   "#DD7090", // Desaturated pink for dark mode
		Focused:    "#DDDD77", // Desaturated yellow for dark mode
	}

	unselected := lipgloss.AdaptiveColor{Light: lightModeColors.Unselected, Dark: darkModeColors.Unselected}
	selected := lipgloss.AdaptiveColor{Light: lightModeColors.Selected, Dark: darkModeColors.Selected}
	focused := lipgloss.AdaptiveColor{Light: lightModeColors.Focused, Dark: darkModeColors.Focused}

	return &Style{
		Header: lipgloss.NewStyle().Bold(true).Padding(0, 1),
		Status: lipgloss.NewStyle().Padding(0, 1),
		Error:  lipgloss.NewStyle().Padding(0, 1).Foreground(lipgloss.Color("#FF5F5F")),
		Muted:  lipgloss.NewStyle().Foreground(unselected),
		Badge:  lipgloss.NewStyle().Padding(0, 1).Background(selected).Foreground(lipgloss.Color("#000000")),

		FocusedPrompt:   lipgloss.NewStyle().Border(lipgloss.NormalBorder()).BorderForeground(focused),
		UnfocusedPrompt: lipgloss.NewStyle().Border(lipgloss.NormalBorder()).BorderForeground(unselected),

		Sidebar:         lipgloss.NewStyle().Border(lipgloss.NormalBorder()).BorderForeground(unselected).Padding(0, 1),
		SidebarSelected: lipgloss.NewStyle().Bold(true).Foreground(selected),
		Reader:          lipgloss.NewStyle().Border(lipgloss.NormalBorder()).BorderForeground(unselected).Padding(0, 1),
		SelectedEntry:   lipgloss.NewStyle().Bold(true).Border(lipgloss.ThickBorder(), false, false, false, true).BorderForeground(selected).PaddingLeft(1),
		Entry:           lipgloss.NewStyle().Border(lipgloss.HiddenBorder(), false, false, false, true).PaddingLeft(1),
		Body:            lipgloss.NewStyle().PaddingLeft(3),
	}
}
