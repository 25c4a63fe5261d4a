package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEntry(t *testing.T) {
	e := NewEntry("/tmp/share/notes.txt", []byte("hello"))
	assert.Equal(t, "notes.txt", e.Name)
	assert.Equal(t, int64(5), e.Size)
	assert.Equal(t, "notes.txt (5 B)", e.String())

	big := Entry{Name: "video.mp4", Size: 3 * 1024 * 1024}
	assert.Equal(t, "video.mp4 (3.0 MiB)", big.String())
}

func TestTotalSize(t *testing.T) {
	assert.Zero(t, TotalSize(nil))
	assert.Equal(t, int64(2048+7), TotalSize([]Entry{{Size: 2048}, {Size: 7}}))
}

func TestViewOf(t *testing.T) {
	assert.Equal(t, ViewIdle, ViewOf(ModeNone))
	assert.Equal(t, ViewDisplaying, ViewOf(ModeText))
	assert.Equal(t, ViewDisplaying, ViewOf(ModeFile))
}
