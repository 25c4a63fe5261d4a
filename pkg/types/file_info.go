package types

import (
	"fmt"
	"path/filepath"

	"github.com/dustin/go-humanize"
)

// Entry is one file chosen by the user. Content is captured at selection
// time so later changes on disk do not leak into an upload.
type Entry struct {
	Name    string `json:"name"`
	Size    int64  `json:"size"`
	Content []byte `json:"-"`
}

// NewEntry builds an entry from raw bytes, using the base name of path
func NewEntry(path string, content []byte) Entry {
	return Entry{
		Name:    filepath.Base(path),
		Size:    int64(len(content)),
		Content: content,
	}
}

// String returns a human-readable representation
func (e Entry) String() string {
	return fmt.Sprintf("%s (%s)", e.Name, humanize.IBytes(uint64(e.Size)))
}

// TotalSize sums the declared sizes of the entries
func TotalSize(entries []Entry) int64 {
	var total int64
	for _, e := range entries {
		total += e.Size
	}
	return total
}
