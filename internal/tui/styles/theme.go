package styles

import "github.com/charmbracelet/lipgloss"

// Theme defines the core UI styles
type Theme struct {
	App          lipgloss.Style
	Title        lipgloss.Style
	Card         lipgloss.Style
	FocusedCard  lipgloss.Style
	DisabledCard lipgloss.Style
	Overlay      lipgloss.Style
	Success      lipgloss.Style
	Error        lipgloss.Style
	Info         lipgloss.Style
	Help         lipgloss.Style
}

// Default is the theme used when no configuration is given
var Default = NewTheme(ThemeColors{
	Primary: "213",
	Success: "114",
	Error:   "196",
	Info:    "245",
	Border:  "213",
})
