// Package selection turns file arguments from the command line or the
// TUI into the ordered entries the workflow uploads.
package selection

import (
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"clipcast/internal/errors"
	"clipcast/internal/log"
	"clipcast/pkg/types"

	"github.com/gobwas/glob"
)

// Options controls how arguments are resolved
type Options struct {
	// Exclude drops any file whose base name or path matches one of
	// these glob patterns
	Exclude []string
	// MaxBytes, when positive, stops content from being read once the
	// stat'ed total is over the limit. Entries are still returned with
	// their sizes so the caller can report the limit.
	MaxBytes int64
}

// Load resolves each argument to one or more files. Plain paths keep
// argument order; glob matches of a single argument are sorted by path.
// A file named twice is loaded once.
func Load(args []string, opts Options) ([]types.Entry, error) {
	excludes, err := compileAll(opts.Exclude)
	if err != nil {
		return nil, err
	}

	var paths []string
	seen := make(map[string]bool)
	for _, arg := range args {
		arg = strings.TrimSpace(arg)
		if arg == "" {
			continue
		}
		resolved, err := resolve(arg)
		if err != nil {
			return nil, err
		}
		for _, p := range resolved {
			if excluded(p, excludes) {
				log.LogWithFields(log.F("path", p)).Debug("excluded from selection")
				continue
			}
			if seen[p] {
				continue
			}
			seen[p] = true
			paths = append(paths, p)
		}
	}

	entries := make([]types.Entry, 0, len(paths))
	var total int64
	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil {
			return nil, statError(p, err)
		}
		if info.IsDir() {
			return nil, errors.NewFileError("is a directory", p, errors.InvalidPath, nil)
		}
		total += info.Size()
		entries = append(entries, types.Entry{Name: filepath.Base(p), Size: info.Size()})
	}

	if opts.MaxBytes > 0 && total > opts.MaxBytes {
		log.LogWithFields(log.F("bytes", total), log.F("limit", opts.MaxBytes)).Debug("selection over limit, content not read")
		return entries, nil
	}

	for i, p := range paths {
		content, err := os.ReadFile(p)
		if err != nil {
			return nil, errors.NewFileError("failed to read file", p, errors.FileReadFailed, err)
		}
		entries[i].Content = content
		entries[i].Size = int64(len(content))
	}
	return entries, nil
}

// IsPattern reports whether arg contains glob syntax
func IsPattern(arg string) bool {
	return strings.ContainsAny(arg, "*?[{")
}

func resolve(arg string) ([]string, error) {
	if !IsPattern(arg) {
		return []string{filepath.Clean(arg)}, nil
	}

	pattern := filepath.ToSlash(filepath.Clean(arg))
	g, err := glob.Compile(pattern, '/')
	if err != nil {
		return nil, errors.NewFileError("invalid pattern", arg, errors.InvalidPath, err)
	}

	root := staticPrefix(pattern)
	recursive := strings.Contains(pattern, "**")
	depth := strings.Count(pattern, "/")
	var matches []string
	err = filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if p != root && !recursive && strings.Count(filepath.ToSlash(p), "/") >= depth {
				return filepath.SkipDir
			}
			return nil
		}
		if g.Match(filepath.ToSlash(p)) {
			matches = append(matches, p)
		}
		return nil
	})
	if err != nil {
		return nil, statError(root, err)
	}
	if len(matches) == 0 {
		return nil, errors.NewFileError("no files match", arg, errors.FileNotFound, nil)
	}
	sort.Strings(matches)
	return matches, nil
}

// staticPrefix returns the directory part of pattern that has no glob
// syntax, the place to start walking from
func staticPrefix(pattern string) string {
	parts := strings.Split(pattern, "/")
	var static []string
	for _, part := range parts[:len(parts)-1] {
		if IsPattern(part) {
			break
		}
		static = append(static, part)
	}
	if len(static) == 0 {
		return "."
	}
	prefix := strings.Join(static, "/")
	if prefix == "" {
		return "/"
	}
	return filepath.FromSlash(prefix)
}

func compileAll(patterns []string) ([]glob.Glob, error) {
	globs := make([]glob.Glob, 0, len(patterns))
	for _, p := range patterns {
		g, err := glob.Compile(p, '/')
		if err != nil {
			return nil, errors.NewConfigError("invalid exclude pattern", p, errors.InvalidConfig, err)
		}
		globs = append(globs, g)
	}
	return globs, nil
}

func excluded(path string, globs []glob.Glob) bool {
	base := filepath.Base(path)
	slashed := filepath.ToSlash(path)
	for _, g := range globs {
		if g.Match(base) || g.Match(slashed) {
			return true
		}
	}
	return false
}

func statError(path string, err error) error {
	switch {
	case os.IsNotExist(err):
		return errors.NewFileError("file not found", path, errors.FileNotFound, err)
	case os.IsPermission(err):
		return errors.NewFileError("permission denied", path, errors.FileAccessDenied, err)
	default:
		return errors.NewFileError("failed to stat file", path, errors.FileReadFailed, err)
	}
}
