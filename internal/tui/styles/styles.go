package styles

import (
	"clipcast/internal/config"

	"github.com/charmbracelet/lipgloss"
)

// ThemeColors are the configurable colours, as ANSI 256 codes or #rrggbb
type ThemeColors struct {
	Primary string
	Success string
	Error   string
	Info    string
	Border  string
}

// FromConfig returns the theme configured in cfg
func FromConfig(cfg *config.Config) Theme {
	return NewTheme(ThemeColors{
		Primary: cfg.Theme.Primary,
		Success: cfg.Theme.Success,
		Error:   cfg.Theme.Error,
		Info:    cfg.Theme.Info,
		Border:  cfg.Theme.Border,
	})
}

// NewTheme builds every style from the colour set
func NewTheme(c ThemeColors) Theme {
	card := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("240")).
		Padding(0, 1).
		Width(60)

	return Theme{
		App: lipgloss.NewStyle().
			Padding(1, 2),
		Title: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color(c.Primary)).
			MarginBottom(1),
		Card: card,
		FocusedCard: card.
			BorderForeground(lipgloss.Color(c.Border)),
		DisabledCard: card.
			Foreground(lipgloss.Color("240")),
		Overlay: lipgloss.NewStyle().
			Border(lipgloss.DoubleBorder()).
			BorderForeground(lipgloss.Color(c.Primary)).
			Padding(1, 2),
		Success: lipgloss.NewStyle().
			Foreground(lipgloss.Color(c.Success)),
		Error: lipgloss.NewStyle().
			Foreground(lipgloss.Color(c.Error)),
		Info: lipgloss.NewStyle().
			Foreground(lipgloss.Color(c.Info)),
		Help: lipgloss.NewStyle().
			Foreground(lipgloss.Color(c.Info)),
	}
}
