package selection

import (
	"path/filepath"
	"testing"

	"clipcast/internal/errors"
	"clipcast/pkg/testutils"
	"clipcast/pkg/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func names(entries []types.Entry) []string {
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = e.Name
	}
	return out
}

func TestLoadPathsKeepArgumentOrder(t *testing.T) {
	dir := t.TempDir()
	testutils.CreateTestFilesWithDefault(t, dir)

	entries, err := Load([]string{
		filepath.Join(dir, "test3.jpg"),
		filepath.Join(dir, "test1.txt"),
	}, Options{})
	require.NoError(t, err)

	assert.Equal(t, []string{"test3.jpg", "test1.txt"}, names(entries))
	assert.Equal(t, []byte("image content"), entries[0].Content)
	assert.Equal(t, int64(len("image content")), entries[0].Size)
	assert.Equal(t, []byte("test content 1"), entries[1].Content)
}

func TestLoadGlob(t *testing.T) {
	dir := t.TempDir()
	testutils.CreateTestFilesWithContent(t, dir, map[string]string{
		"b.txt":        "b",
		"a.txt":        "a",
		"c.md":         "c",
		"nested/d.txt": "d",
	})

	entries, err := Load([]string{filepath.Join(dir, "*.txt")}, Options{})
	require.NoError(t, err)
	assert.Equal(t, []string{"a.txt", "b.txt"}, names(entries))

	entries, err = Load([]string{filepath.Join(dir, "**.txt")}, Options{})
	require.NoError(t, err)
	assert.Equal(t, []string{"a.txt", "b.txt", "d.txt"}, names(entries))

	entries, err = Load([]string{filepath.Join(dir, "*.{md,txt}")}, Options{})
	require.NoError(t, err)
	assert.Equal(t, []string{"a.txt", "b.txt", "c.md"}, names(entries))
}

func TestLoadExclude(t *testing.T) {
	dir := t.TempDir()
	testutils.CreateTestFilesWithContent(t, dir, map[string]string{
		"keep.txt":  "k",
		"skip.tmp":  "s",
		".hidden":   "h",
		"notes.txt": "n",
	})

	entries, err := Load([]string{filepath.Join(dir, "*")}, Options{Exclude: []string{"*.tmp", ".*"}})
	require.NoError(t, err)
	assert.Equal(t, []string{"keep.txt", "notes.txt"}, names(entries))
}

func TestLoadDeduplicatesSamePath(t *testing.T) {
	dir := t.TempDir()
	paths := testutils.CreateTestFilesWithContent(t, dir, map[string]string{"a.txt": "a"})

	entries, err := Load([]string{paths[0], filepath.Join(dir, "*.txt"), paths[0]}, Options{})
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestLoadSameNameFromDifferentDirs(t *testing.T) {
	dir := t.TempDir()
	paths := testutils.CreateTestFilesWithContent(t, dir, map[string]string{
		"one/report.txt": "first",
		"two/report.txt": "second",
	})

	entries, err := Load(paths, Options{})
	require.NoError(t, err)
	// Both survive; the archive gives them distinct names later
	assert.Equal(t, []string{"report.txt", "report.txt"}, names(entries))
}

func TestLoadErrors(t *testing.T) {
	dir := t.TempDir()
	testutils.CreateTestFilesWithContent(t, dir, map[string]string{"a.txt": "a"})

	t.Run("missing file", func(t *testing.T) {
		_, err := Load([]string{filepath.Join(dir, "nope.txt")}, Options{})
		require.Error(t, err)
		assert.True(t, errors.IsFileNotFound(err))
	})

	t.Run("pattern without matches", func(t *testing.T) {
		_, err := Load([]string{filepath.Join(dir, "*.pdf")}, Options{})
		require.Error(t, err)
		assert.True(t, errors.IsFileNotFound(err))
	})

	t.Run("directory", func(t *testing.T) {
		_, err := Load([]string{dir}, Options{})
		require.Error(t, err)
		assert.Equal(t, errors.InvalidPath, errors.KindOf(err))
	})

	t.Run("bad exclude pattern", func(t *testing.T) {
		_, err := Load([]string{filepath.Join(dir, "a.txt")}, Options{Exclude: []string{"[a-"}})
		require.Error(t, err)
		assert.True(t, errors.IsInvalidConfig(err))
	})
}

func TestLoadOverLimitSkipsContent(t *testing.T) {
	dir := t.TempDir()
	paths := testutils.CreateTestFilesWithContent(t, dir, map[string]string{
		"a.bin": "0123456789",
		"b.bin": "0123456789",
	})

	entries, err := Load(paths, Options{MaxBytes: 15})
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, int64(20), types.TotalSize(entries))
	assert.Nil(t, entries[0].Content)

	entries, err = Load(paths, Options{MaxBytes: 20})
	require.NoError(t, err)
	assert.Equal(t, []byte("0123456789"), entries[1].Content)
}

func TestLoadSkipsBlankArguments(t *testing.T) {
	entries, err := Load([]string{"", "  "}, Options{})
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestIsPattern(t *testing.T) {
	assert.True(t, IsPattern("*.txt"))
	assert.True(t, IsPattern("file?.log"))
	assert.True(t, IsPattern("{a,b}.md"))
	assert.False(t, IsPattern("plain/file.txt"))
}

func TestStaticPrefix(t *testing.T) {
	assert.Equal(t, ".", staticPrefix("*.txt"))
	assert.Equal(t, "docs", staticPrefix("docs/*.md"))
	assert.Equal(t, filepath.FromSlash("/tmp/x"), staticPrefix("/tmp/x/*/a.md"))
	assert.Equal(t, "/", staticPrefix("/*.txt"))
}
