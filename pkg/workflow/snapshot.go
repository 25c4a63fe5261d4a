package workflow

import (
	"strings"

	"clipcast/pkg/types"
)

// Messages recorded in a Snapshot for the front ends to show verbatim
const (
	MsgSelectFiles     = "Please select at least one file."
	MsgUploadFailed    = "Upload failed."
	MsgClipboardDenied = "Clipboard access denied."
)

// Snapshot is an immutable copy of the controller state. Files shares
// content buffers with the controller; treat them as read-only.
type Snapshot struct {
	Mode           types.InputMode
	Text           string
	Files          []types.Entry
	Receipt        *types.Receipt
	ClipboardError string
	FileError      string
	Loading        bool
	Generation     uint64
}

// View derives the active surface from the input mode
func (s Snapshot) View() types.ViewState {
	return types.ViewOf(s.Mode)
}

// Payload returns the string to encode into the QR code, or "" when
// nothing is displayed
func (s Snapshot) Payload() string {
	switch s.Mode {
	case types.ModeText:
		return strings.TrimSpace(s.Text)
	case types.ModeFile:
		return s.URL()
	default:
		return ""
	}
}

// URL returns the retrieval URL of the last successful upload
func (s Snapshot) URL() string {
	if s.Receipt == nil {
		return ""
	}
	return s.Receipt.URL
}

// TotalSize sums the sizes of the selected files
func (s Snapshot) TotalSize() int64 {
	return types.TotalSize(s.Files)
}

// CanGenerateText reports whether GenerateTextQR would pass its preconditions
func (s Snapshot) CanGenerateText() bool {
	return s.inputsEnabled() && strings.TrimSpace(s.Text) != ""
}

// CanUpload reports whether UploadAndGenerateFileQR would start an upload
func (s Snapshot) CanUpload() bool {
	return s.inputsEnabled() && len(s.Files) > 0
}

func (s Snapshot) inputsEnabled() bool {
	return s.Mode == types.ModeNone && !s.Loading
}

func (s Snapshot) clone() Snapshot {
	c := s
	if s.Files != nil {
		c.Files = append([]types.Entry(nil), s.Files...)
	}
	if s.Receipt != nil {
		r := *s.Receipt
		c.Receipt = &r
	}
	return c
}
