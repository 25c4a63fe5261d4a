package components

import (
	"path/filepath"
	"testing"

	"clipcast/internal/tui/messages"
	"clipcast/internal/tui/styles"
	"clipcast/pkg/testutils"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func keyPress(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "space":
		return tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
	case "ctrl+s":
		return tea.KeyMsg{Type: tea.KeyCtrlS}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "left":
		return tea.KeyMsg{Type: tea.KeyLeft}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestFileTreeBuild(t *testing.T) {
	dir := t.TempDir()
	testutils.CreateTestFilesWithContent(t, dir, map[string]string{
		"b.txt":        "bb",
		"a.txt":        "a",
		"sub/c.md":     "ccc",
		".hidden/x.go": "x",
		".env":         "secret",
	})

	tree, err := NewFileTree(styles.Default, dir)
	require.NoError(t, err)

	names := make([]string, 0, len(tree.VisibleRows))
	for _, row := range tree.VisibleRows[1:] {
		names = append(names, row.Name)
	}
	assert.Equal(t, []string{"sub", "a.txt", "b.txt"}, names, "directories first, hidden entries skipped")

	tree.Update(keyPress("."))
	assert.True(t, tree.ShowHidden)
	assert.Len(t, tree.VisibleRows, 6)

	_, err = NewFileTree(styles.Default, filepath.Join(dir, "a.txt"))
	assert.Error(t, err)
	_, err = NewFileTree(styles.Default, filepath.Join(dir, "missing"))
	assert.Error(t, err)
}

func TestFileTreeSelection(t *testing.T) {
	dir := t.TempDir()
	paths := testutils.CreateTestFilesWithContent(t, dir, map[string]string{
		"a.txt":    "a",
		"sub/c.md": "ccc",
	})

	tree, err := NewFileTree(styles.Default, dir)
	require.NoError(t, err)

	// root, sub/, a.txt
	tree.Update(keyPress("down"))
	assert.Equal(t, "sub", tree.VisibleRows[tree.Cursor].Name)
	tree.Update(keyPress("space"))
	assert.Empty(t, tree.Selected, "directories cannot be marked")

	tree.Update(keyPress("enter"))
	assert.True(t, tree.VisibleRows[1].IsOpen)
	assert.Equal(t, "c.md", tree.VisibleRows[tree.Cursor].Name, "opening moves into the directory")
	tree.Update(keyPress("enter"))
	tree.Update(keyPress("j"))
	assert.Equal(t, "a.txt", tree.VisibleRows[tree.Cursor].Name)
	tree.Update(keyPress("space"))

	assert.Equal(t, paths, tree.GetSelectedFiles())
	view := testutils.StripANSI(tree.View())
	assert.Contains(t, view, "[x] a.txt")
	assert.Contains(t, view, "[x] c.md")
	assert.Contains(t, view, "2 marked")

	_, cmd := tree.Update(keyPress("ctrl+s"))
	require.NotNil(t, cmd)
	assert.Equal(t, messages.BrowseMsg{Paths: paths}, cmd())

	_, cmd = tree.Update(keyPress("esc"))
	require.NotNil(t, cmd)
	assert.Equal(t, messages.BrowseMsg{Cancelled: true}, cmd())
}

func TestFileTreeNavigation(t *testing.T) {
	dir := t.TempDir()
	testutils.CreateTestFilesWithContent(t, dir, map[string]string{"sub/c.md": "c"})

	tree, err := NewFileTree(styles.Default, dir)
	require.NoError(t, err)

	tree.Update(keyPress("down"))
	tree.Update(keyPress("enter"))
	require.Equal(t, "c.md", tree.VisibleRows[tree.Cursor].Name)

	tree.Update(keyPress("left"))
	assert.Equal(t, "sub", tree.VisibleRows[tree.Cursor].Name, "left goes to the parent")
	tree.Update(keyPress("left"))
	assert.False(t, tree.VisibleRows[tree.Cursor].IsOpen, "left on an open directory closes it")
	assert.Len(t, tree.VisibleRows, 2)

	tree.Update(keyPress("k"))
	tree.Update(keyPress("k"))
	assert.Equal(t, 0, tree.Cursor)
}

func TestFileTreeScrolling(t *testing.T) {
	dir := t.TempDir()
	files := map[string]string{}
	for _, name := range []string{"01", "02", "03", "04", "05", "06", "07", "08"} {
		files[name+".txt"] = name
	}
	testutils.CreateTestFilesWithContent(t, dir, files)

	tree, err := NewFileTree(styles.Default, dir)
	require.NoError(t, err)
	tree.Height = 4

	for i := 0; i < 6; i++ {
		tree.Update(keyPress("down"))
	}
	assert.Equal(t, 6, tree.Cursor)
	assert.Equal(t, 3, tree.Offset)

	view := testutils.StripANSI(tree.View())
	assert.Contains(t, view, "↑ more")
	assert.Contains(t, view, "↓ 2 more")
	assert.NotContains(t, view, "01.txt")
}
