package views

import (
	"strings"

	"clipcast/internal/tui/common"
	"clipcast/internal/tui/styles"
	"clipcast/pkg/types"

	"github.com/charmbracelet/lipgloss"
)

// RenderMainView draws either the input cards or the QR overlay
func RenderMainView(m common.ModelReader, theme styles.Theme) string {
	var sb strings.Builder
	sb.WriteString(renderBanner(theme))
	sb.WriteString("\n")

	snap := m.Snapshot()
	if snap.View() == types.ViewDisplaying {
		sb.WriteString(m.OverlayView())
	} else {
		sb.WriteString(lipgloss.JoinVertical(lipgloss.Left,
			renderTextCard(m, theme),
			renderFileCard(m, theme),
		))
		if status := m.StatusView(); status != "" {
			sb.WriteString("\n" + status)
		}
	}

	sb.WriteString("\n" + m.HelpView())
	return theme.App.Render(sb.String())
}

func cardStyle(m common.ModelReader, theme styles.Theme, card common.Focus) lipgloss.Style {
	snap := m.Snapshot()
	switch {
	case snap.Loading:
		return theme.DisabledCard
	case m.Focus() == card:
		return theme.FocusedCard
	default:
		return theme.Card
	}
}

func renderTextCard(m common.ModelReader, theme styles.Theme) string {
	var s strings.Builder
	s.WriteString(theme.Title.Render("Text"))
	s.WriteString("\n")
	s.WriteString(m.TextInputView())
	if msg := m.Snapshot().ClipboardError; msg != "" {
		s.WriteString("\n" + theme.Error.Render(msg))
	}
	return cardStyle(m, theme, common.FocusText).Render(s.String())
}

func renderFileCard(m common.ModelReader, theme styles.Theme) string {
	var s strings.Builder
	s.WriteString(theme.Title.Render("Files"))
	s.WriteString("\n")
	s.WriteString(m.FileInputView())
	if msg := m.SelectionError(); msg != "" {
		s.WriteString("\n" + theme.Error.Render(msg))
	}
	if msg := m.Snapshot().FileError; msg != "" {
		s.WriteString("\n" + theme.Error.Render(msg))
	}
	if notice := m.Notice(); notice != "" {
		s.WriteString("\n" + theme.Info.Render(notice))
	}
	return cardStyle(m, theme, common.FocusFiles).Render(s.String())
}

func renderBanner(theme styles.Theme) string {
	return theme.Title.Render("ClipCast") + theme.Help.Render("  text and files to QR")
}
