package components

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"clipcast/internal/tui/messages"
	"clipcast/internal/tui/styles"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
)

// TreeNode represents a node in the file tree
type TreeNode struct {
	Name     string
	Path     string
	IsDir    bool
	Size     int64
	IsOpen   bool
	Children []*TreeNode
	Parent   *TreeNode
	Level    int
	loaded   bool
}

// FileTree is a picker that lets the user mark files in a directory
// hierarchy. Confirming emits messages.BrowseMsg with the marked paths.
type FileTree struct {
	Root        *TreeNode
	Cursor      int
	VisibleRows []*TreeNode
	Selected    map[string]bool
	Height      int
	Offset      int
	ShowHidden  bool

	theme styles.Theme
	keys  treeKeys
}

type treeKeys struct {
	Up      key.Binding
	Down    key.Binding
	Close   key.Binding
	Open    key.Binding
	Toggle  key.Binding
	Hidden  key.Binding
	Confirm key.Binding
	Cancel  key.Binding
}

func defaultTreeKeys() treeKeys {
	return treeKeys{
		Up:      key.NewBinding(key.WithKeys("up", "k")),
		Down:    key.NewBinding(key.WithKeys("down", "j")),
		Close:   key.NewBinding(key.WithKeys("left", "h")),
		Open:    key.NewBinding(key.WithKeys("right", "l", "enter")),
		Toggle:  key.NewBinding(key.WithKeys(" ")),
		Hidden:  key.NewBinding(key.WithKeys(".")),
		Confirm: key.NewBinding(key.WithKeys("ctrl+s")),
		Cancel:  key.NewBinding(key.WithKeys("esc")),
	}
}

// NewFileTree creates a picker rooted at rootDir
func NewFileTree(theme styles.Theme, rootDir string) (*FileTree, error) {
	abs, err := filepath.Abs(rootDir)
	if err != nil {
		return nil, err
	}
	info, err := os.Stat(abs)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%s is not a directory", abs)
	}

	f := &FileTree{
		Root:     &TreeNode{Name: filepath.Base(abs), Path: abs, IsDir: true, IsOpen: true},
		Selected: make(map[string]bool),
		Height:   12,
		theme:    theme,
		keys:     defaultTreeKeys(),
	}
	if err := f.BuildTree(f.Root); err != nil {
		return nil, err
	}
	f.UpdateVisibleRows()
	return f, nil
}

// BuildTree reads the children of a directory node, directories first
func (f *FileTree) BuildTree(node *TreeNode) error {
	if !node.IsDir {
		return nil
	}
	entries, err := os.ReadDir(node.Path)
	if err != nil {
		return err
	}

	sort.Slice(entries, func(i, j int) bool {
		if entries[i].IsDir() != entries[j].IsDir() {
			return entries[i].IsDir()
		}
		return entries[i].Name() < entries[j].Name()
	})

	node.Children = node.Children[:0]
	for _, entry := range entries {
		if !f.ShowHidden && strings.HasPrefix(entry.Name(), ".") {
			continue
		}
		var size int64
		if info, err := entry.Info(); err == nil {
			size = info.Size()
		}
		node.Children = append(node.Children, &TreeNode{
			Name:   entry.Name(),
			Path:   filepath.Join(node.Path, entry.Name()),
			IsDir:  entry.IsDir(),
			Size:   size,
			Parent: node,
			Level:  node.Level + 1,
		})
	}
	node.loaded = true
	return nil
}

// Update handles key presses while the picker is open
func (f *FileTree) Update(msg tea.Msg) (*FileTree, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return f, nil
	}

	switch {
	case key.Matches(keyMsg, f.keys.Up):
		f.MoveUp()
	case key.Matches(keyMsg, f.keys.Down):
		f.MoveDown()
	case key.Matches(keyMsg, f.keys.Close):
		if node := f.current(); node != nil && node.IsDir && node.IsOpen && node != f.Root {
			f.Toggle()
		} else {
			f.MoveToParent()
		}
	case key.Matches(keyMsg, f.keys.Open):
		if node := f.current(); node != nil {
			if node.IsDir {
				if !node.IsOpen {
					f.Toggle()
				}
				if len(node.Children) > 0 {
					f.MoveDown()
				}
			} else {
				f.ToggleSelected()
			}
		}
	case key.Matches(keyMsg, f.keys.Toggle):
		f.ToggleSelected()
	case key.Matches(keyMsg, f.keys.Hidden):
		f.ShowHidden = !f.ShowHidden
		f.reload(f.Root)
		f.UpdateVisibleRows()
	case key.Matches(keyMsg, f.keys.Confirm):
		paths := f.GetSelectedFiles()
		return f, func() tea.Msg { return messages.BrowseMsg{Paths: paths} }
	case key.Matches(keyMsg, f.keys.Cancel):
		return f, func() tea.Msg { return messages.BrowseMsg{Cancelled: true} }
	}
	return f, nil
}

func (f *FileTree) current() *TreeNode {
	if f.Cursor < 0 || f.Cursor >= len(f.VisibleRows) {
		return nil
	}
	return f.VisibleRows[f.Cursor]
}

// reload rebuilds every open directory below node
func (f *FileTree) reload(node *TreeNode) {
	if !node.IsDir || !node.loaded {
		return
	}
	open := make(map[string]bool)
	for _, child := range node.Children {
		if child.IsOpen {
			open[child.Path] = true
		}
	}
	if err := f.BuildTree(node); err != nil {
		return
	}
	for _, child := range node.Children {
		if open[child.Path] {
			child.IsOpen = true
			if f.BuildTree(child) == nil {
				f.reload(child)
			}
		}
	}
}

// Toggle expands or collapses the directory under the cursor
func (f *FileTree) Toggle() {
	node := f.current()
	if node == nil || !node.IsDir {
		return
	}
	node.IsOpen = !node.IsOpen
	if node.IsOpen && !node.loaded {
		if err := f.BuildTree(node); err != nil {
			node.IsOpen = false
		}
	}
	f.UpdateVisibleRows()
}

// UpdateVisibleRows flattens the open part of the tree
func (f *FileTree) UpdateVisibleRows() {
	f.VisibleRows = f.VisibleRows[:0]
	f.addVisibleNode(f.Root)
	if f.Cursor >= len(f.VisibleRows) {
		f.Cursor = max(0, len(f.VisibleRows)-1)
	}
	f.EnsureCursorVisible()
}

func (f *FileTree) addVisibleNode(node *TreeNode) {
	f.VisibleRows = append(f.VisibleRows, node)
	if node.IsOpen {
		for _, child := range node.Children {
			f.addVisibleNode(child)
		}
	}
}

// MoveUp moves the cursor up one row
func (f *FileTree) MoveUp() {
	if f.Cursor > 0 {
		f.Cursor--
	}
	f.EnsureCursorVisible()
}

// MoveDown moves the cursor down one row
func (f *FileTree) MoveDown() {
	if f.Cursor < len(f.VisibleRows)-1 {
		f.Cursor++
	}
	f.EnsureCursorVisible()
}

// MoveToParent moves the cursor to the parent of the current node
func (f *FileTree) MoveToParent() {
	node := f.current()
	if node == nil || node.Parent == nil {
		return
	}
	for i, row := range f.VisibleRows {
		if row == node.Parent {
			f.Cursor = i
			break
		}
	}
	f.EnsureCursorVisible()
}

// EnsureCursorVisible adjusts the scroll offset to keep the cursor in view
func (f *FileTree) EnsureCursorVisible() {
	if f.Height <= 0 {
		return
	}
	if f.Cursor < f.Offset {
		f.Offset = f.Cursor
	}
	if f.Cursor >= f.Offset+f.Height {
		f.Offset = f.Cursor - f.Height + 1
	}
	f.Offset = max(0, min(f.Offset, len(f.VisibleRows)-f.Height))
}

// ToggleSelected marks or unmarks the file under the cursor. Directories
// cannot be marked.
func (f *FileTree) ToggleSelected() {
	node := f.current()
	if node == nil || node.IsDir {
		return
	}
	if f.Selected[node.Path] {
		delete(f.Selected, node.Path)
	} else {
		f.Selected[node.Path] = true
	}
}

// GetSelectedFiles returns the marked paths in sorted order
func (f *FileTree) GetSelectedFiles() []string {
	files := make([]string, 0, len(f.Selected))
	for path := range f.Selected {
		files = append(files, path)
	}
	sort.Strings(files)
	return files
}

// View renders the visible window of the tree
func (f *FileTree) View() string {
	var b strings.Builder

	cursor := lipgloss.NewStyle().Reverse(true)
	dirStyle := f.theme.Info.Bold(true)

	end := min(len(f.VisibleRows), f.Offset+f.Height)
	if f.Offset > 0 {
		b.WriteString(f.theme.Help.Render("  ↑ more") + "\n")
	}
	for i := f.Offset; i < end; i++ {
		node := f.VisibleRows[i]

		indent := ""
		if node.Level > 0 {
			branch := "├─ "
			if i == len(f.VisibleRows)-1 || node.Parent != f.VisibleRows[i+1].Parent {
				branch = "└─ "
			}
			indent = strings.Repeat("  ", node.Level-1) + branch
		}

		var line string
		switch {
		case node.IsDir && node.IsOpen:
			line = indent + "▾ " + node.Name + "/"
		case node.IsDir:
			line = indent + "▸ " + node.Name + "/"
		case f.Selected[node.Path]:
			line = indent + "[x] " + node.Name + "  " + humanize.IBytes(uint64(node.Size))
		default:
			line = indent + "[ ] " + node.Name + "  " + humanize.IBytes(uint64(node.Size))
		}

		switch {
		case i == f.Cursor:
			line = cursor.Render(line)
		case f.Selected[node.Path]:
			line = f.theme.Success.Render(line)
		case node.IsDir:
			line = dirStyle.Render(line)
		}
		b.WriteString(line + "\n")
	}
	if end < len(f.VisibleRows) {
		b.WriteString(f.theme.Help.Render(fmt.Sprintf("  ↓ %d more", len(f.VisibleRows)-end)) + "\n")
	}

	b.WriteString(f.theme.Help.Render(fmt.Sprintf(
		"%d marked · space mark · enter open · . hidden · ctrl+s use · esc cancel", len(f.Selected))))
	return b.String()
}
