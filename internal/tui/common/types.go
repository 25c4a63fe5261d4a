package common

import "clipcast/pkg/workflow"

// Focus names the input card receiving keystrokes
type Focus int

const (
	FocusText Focus = iota
	FocusFiles
)

func (f Focus) String() string {
	if f == FocusFiles {
		return "files"
	}
	return "text"
}

// ModelReader defines the interface that views use to read model state
type ModelReader interface {
	Snapshot() workflow.Snapshot
	Focus() Focus
	TextInputView() string
	FileInputView() string
	SelectionError() string
	StatusView() string
	OverlayView() string
	HelpView() string
	Notice() string
}
