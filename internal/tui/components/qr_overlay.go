package components

import (
	"strings"

	"clipcast/internal/qr"
	"clipcast/internal/tui/styles"
	"clipcast/pkg/types"
	"clipcast/pkg/workflow"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
)

// QROverlay renders the QR display for a snapshot in the displaying state
type QROverlay struct {
	renderer *qr.Renderer
	theme    styles.Theme
}

func NewQROverlay(renderer *qr.Renderer, theme styles.Theme) *QROverlay {
	return &QROverlay{renderer: renderer, theme: theme}
}

func (o *QROverlay) View(s workflow.Snapshot) string {
	payload := s.Payload()
	if payload == "" {
		return ""
	}

	var b strings.Builder
	title := "Text QR code"
	if s.Mode == types.ModeFile {
		title = "File QR code"
	}
	b.WriteString(o.theme.Title.Render(title))
	b.WriteString("\n")

	code, err := o.renderer.Terminal(payload)
	if err != nil {
		b.WriteString(o.theme.Error.Render("Cannot render QR code: " + err.Error()))
	} else {
		b.WriteString(code)
	}
	b.WriteString("\n\n")

	if s.Mode == types.ModeFile && s.Receipt != nil {
		b.WriteString(o.theme.Success.Render(s.Receipt.URL))
		b.WriteString("\n")
		b.WriteString(o.theme.Info.Render(s.Receipt.Filename + " · " + humanize.IBytes(uint64(s.Receipt.Size))))
		if s.Receipt.Digest != "" {
			b.WriteString("\n")
			b.WriteString(o.theme.Info.Render("blake3 " + s.Receipt.Digest))
		}
	} else {
		b.WriteString(o.theme.Info.Render(preview(payload, 60)))
	}
	b.WriteString("\n\n")
	b.WriteString(o.theme.Help.Render("esc to dismiss"))

	return o.theme.Overlay.Render(lipgloss.JoinVertical(lipgloss.Left, b.String()))
}

// preview shows the first line of payload, shortened to n runes
func preview(payload string, n int) string {
	line, _, more := strings.Cut(payload, "\n")
	if r := []rune(line); len(r) > n {
		line = string(r[:n-1]) + "…"
	} else if more {
		line += " …"
	}
	return line
}
