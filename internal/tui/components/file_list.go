package components

import (
	"fmt"
	"strings"

	"clipcast/internal/tui/styles"
	"clipcast/pkg/types"

	"github.com/dustin/go-humanize"
)

// FileList renders the current file selection with sizes and a total
type FileList struct {
	theme    styles.Theme
	maxBytes int64
	// MaxRows limits how many names are listed before "and N more"
	MaxRows int
}

func NewFileList(theme styles.Theme, maxBytes int64) *FileList {
	return &FileList{theme: theme, maxBytes: maxBytes, MaxRows: 6}
}

func (fl *FileList) View(entries []types.Entry) string {
	if len(entries) == 0 {
		return fl.theme.Info.Render("No files selected")
	}

	var s strings.Builder
	for i, e := range entries {
		if fl.MaxRows > 0 && i == fl.MaxRows {
			s.WriteString(fl.theme.Info.Render(fmt.Sprintf("  ... and %d more", len(entries)-i)))
			s.WriteString("\n")
			break
		}
		s.WriteString(fmt.Sprintf("  %-36s %10s\n", truncate(e.Name, 36), humanize.IBytes(uint64(e.Size))))
	}

	total := types.TotalSize(entries)
	line := fmt.Sprintf("%d file(s), %s total", len(entries), humanize.IBytes(uint64(total)))
	if len(entries) > 1 {
		line += ", sent as one zip"
	}
	if fl.maxBytes > 0 && total > fl.maxBytes {
		s.WriteString(fl.theme.Error.Render(line))
	} else {
		s.WriteString(fl.theme.Info.Render(line))
	}
	return s.String()
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
