// Package archive packs several selected files into one zip blob so they
// can travel as a single upload.
package archive

import (
	"bytes"
	"fmt"
	"path"
	"strings"
	"time"

	"clipcast/pkg/types"

	"github.com/klauspost/compress/zip"
)

// Builder produces zip archives. The zero value is ready to use.
type Builder struct {
	// Store writes entries uncompressed instead of Deflate
	Store bool
	// Now stamps entry modification times; nil means time.Now.
	Now func() time.Time
}

// New returns a Builder using Deflate
func New() *Builder {
	return &Builder{}
}

// Build writes every entry into a single zip, in order. Entry names are
// reduced to their base name and made unique with a " (n)" suffix, so no
// entry is dropped or overwritten.
func (b *Builder) Build(entries []types.Entry) ([]byte, error) {
	if len(entries) == 0 {
		return nil, fmt.Errorf("no entries to archive")
	}

	method := zip.Deflate
	if b.Store {
		method = zip.Store
	}
	now := time.Now
	if b.Now != nil {
		now = b.Now
	}
	modified := now()

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)

	names := UniqueNames(entries)
	for i, entry := range entries {
		w, err := zw.CreateHeader(&zip.FileHeader{
			Name:     names[i],
			Method:   method,
			Modified: modified,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to add %s to archive: %w", names[i], err)
		}
		if _, err := w.Write(entry.Content); err != nil {
			return nil, fmt.Errorf("failed to write %s to archive: %w", names[i], err)
		}
	}

	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("failed to finish archive: %w", err)
	}
	return buf.Bytes(), nil
}

// UniqueNames returns the archive name of each entry. The first occurrence
// of a name keeps it; later ones become "name (2).ext", "name (3).ext", ...
func UniqueNames(entries []types.Entry) []string {
	used := make(map[string]bool, len(entries))
	names := make([]string, len(entries))
	for i, entry := range entries {
		name := cleanName(entry.Name, i)
		candidate := name
		ext := path.Ext(name)
		stem := strings.TrimSuffix(name, ext)
		for n := 2; used[strings.ToLower(candidate)]; n++ {
			candidate = fmt.Sprintf("%s (%d)%s", stem, n, ext)
		}
		used[strings.ToLower(candidate)] = true
		names[i] = candidate
	}
	return names
}

// cleanName strips directories so the archive never extracts outside the
// target folder.
func cleanName(name string, index int) string {
	name = strings.ReplaceAll(name, `\`, "/")
	name = path.Base(path.Clean("/" + name))
	if name == "/" || name == "." || name == "" {
		return fmt.Sprintf("file-%d", index+1)
	}
	return name
}
