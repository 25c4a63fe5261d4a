package messages

import "clipcast/pkg/types"

// ErrorMsg carries an error that has no dedicated message
type ErrorMsg struct {
	Err error
}

// ClipboardMsg reports the end of a clipboard read
type ClipboardMsg struct {
	Err error
}

// SelectionMsg carries the files resolved from the path input. Generation
// is the controller generation the selection was started in.
type SelectionMsg struct {
	Entries    []types.Entry
	Err        error
	Generation uint64
}

// UploadMsg reports the end of an upload
type UploadMsg struct {
	Err error
}

// BrowseMsg reports that the file picker closed, with the marked paths
type BrowseMsg struct {
	Paths     []string
	Cancelled bool
}
