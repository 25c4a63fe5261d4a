package testutils

import (
	stdzip "archive/zip"
	"bytes"
	"io"
	"os"
	"path/filepath"
	"sort"
	"testing"

	"github.com/charmbracelet/x/ansi"
	"github.com/stretchr/testify/require"
)

// CreateTestFilesWithContent creates test files with specific content and
// returns their paths sorted by name
func CreateTestFilesWithContent(t *testing.T, dir string, files map[string]string) []string {
	t.Helper()
	paths := make([]string, 0, len(files))
	for name, content := range files {
		path := filepath.Join(dir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
		err := os.WriteFile(path, []byte(content), 0644)
		require.NoError(t, err)
		paths = append(paths, path)
	}
	sort.Strings(paths)
	return paths
}

// CreateTestFilesWithDefault creates test files with default content
func CreateTestFilesWithDefault(t *testing.T, dir string) []string {
	files := map[string]string{
		"test1.txt": "test content 1",
		"test2.txt": "test content 2",
		"test3.jpg": "image content",
	}
	return CreateTestFilesWithContent(t, dir, files)
}

// Unzip reads an archive back with the standard library reader, the way
// any stock unzip tool would. It returns member names in archive order
// and their contents.
func Unzip(t *testing.T, data []byte) ([]string, map[string][]byte) {
	t.Helper()
	zr, err := stdzip.NewReader(bytes.NewReader(data), int64(len(data)))
	require.NoError(t, err)

	var order []string
	contents := make(map[string][]byte)
	for _, f := range zr.File {
		rc, err := f.Open()
		require.NoError(t, err)
		body, err := io.ReadAll(rc)
		require.NoError(t, err)
		require.NoError(t, rc.Close())
		order = append(order, f.Name)
		contents[f.Name] = body
	}
	return order, contents
}

// StripANSI removes ANSI escape sequences from a string
func StripANSI(str string) string {
	return ansi.Strip(str)
}
