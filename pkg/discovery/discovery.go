/*
Package discovery expands user-supplied path and glob patterns into a
deduplicated set of absolute file paths.

Each pattern is resolved against the working directory, its deepest existing
ancestor directory is used as the traversal root, and that root is walked
without following symlinks. Per-entry traversal errors (permission denied,
vanished files) are logged and skipped rather than aborting the pass; only an
empty pattern list or an empty result set after exclusion fails the whole
operation.

	files, err := discovery.Discover(fsys, cwd, patterns, excludes, log)
*/
package discovery

import (
	"errors"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/spf13/afero"

	"github.com/unifmt/unifmt/pkg/logger"
)

// ErrNoPatterns is returned when Discover is called with an empty pattern
// list.
var ErrNoPatterns = errors.New("discovery: no patterns supplied")

// ErrNoFiles is returned when no files remain after matching and exclusion.
var ErrNoFiles = errors.New("discovery: no files matched the given patterns")

// File is one discovered candidate path.
type File struct {
	// Path is absolute and cleaned.
	Path string

	// Explicit marks files the user named with an exact, wildcard-free
	// pattern. Unsupported file types are reported for explicit files and
	// silently skipped otherwise.
	Explicit bool
}

// Discover expands patterns into the set of files to process, removes every
// path matching an exclude pattern, and returns the result sorted by path.
// Patterns and excludes accept absolute or working-directory-relative forms.
func Discover(fsys afero.Fs, cwd string, patterns, excludes []string, log logger.Logger) ([]File, error) {
	if len(patterns) == 0 {
		return nil, ErrNoPatterns
	}

	seen := make(map[string]int)
	var files []File

	add := func(path string, explicit bool) {
		if i, ok := seen[path]; ok {
			files[i].Explicit = files[i].Explicit || explicit
			return
		}
		seen[path] = len(files)
		files = append(files, File{Path: path, Explicit: explicit})
	}

	walk := func(root string, match func(string) bool, explicit bool) {
		err := afero.Walk(fsys, root, func(path string, info os.FileInfo, err error) error {
			if err != nil {
				log.WithFields(logger.Fields{
					"path":  path,
					"error": err.Error(),
				}).Warn("Skipping unreadable entry")
				if info != nil && info.IsDir() {
					return filepath.SkipDir
				}
				return nil
			}
			if info.Mode()&os.ModeSymlink != 0 {
				return nil
			}
			if info.IsDir() {
				return nil
			}
			if match(path) {
				add(path, explicit)
			}
			return nil
		})
		if err != nil {
			log.WithFields(logger.Fields{
				"root":  root,
				"error": err.Error(),
			}).Warn("Traversal aborted")
		}
	}

	for _, pattern := range patterns {
		abs := absolutize(cwd, pattern)

		if !hasMeta(abs) {
			info, err := fsys.Stat(abs)
			if err != nil {
				log.WithFields(logger.Fields{
					"pattern": pattern,
					"error":   err.Error(),
				}).Warn("Skipping pattern, path not accessible")
				continue
			}
			if !info.IsDir() {
				add(abs, true)
				continue
			}
			// A literal directory means every file below it.
			walk(abs, func(string) bool { return true }, false)
			continue
		}

		slashPattern := filepath.ToSlash(abs)
		walk(walkRoot(fsys, abs), func(path string) bool {
			ok, err := doublestar.Match(slashPattern, filepath.ToSlash(path))
			return err == nil && ok
		}, false)
	}

	if len(excludes) > 0 {
		files = applyExcludes(files, cwd, excludes)
	}

	if len(files) == 0 {
		return nil, ErrNoFiles
	}

	sort.Slice(files, func(i, j int) bool { return files[i].Path < files[j].Path })

	log.WithFields(logger.Fields{
		"patterns": len(patterns),
		"excludes": len(excludes),
		"files":    len(files),
	}).Debug("File discovery complete")

	return files, nil
}

// Excluded reports whether path matches any of the given exclude or ignore
// patterns. Relative patterns are evaluated against both the absolute path
// and its form relative to cwd.
func Excluded(path, cwd string, patterns []string) bool {
	slashPath := filepath.ToSlash(path)
	rel, relErr := filepath.Rel(cwd, path)

	for _, pattern := range patterns {
		if !hasMeta(pattern) {
			// A wildcard-free exclude names a file or a directory subtree.
			abs := absolutize(cwd, pattern)
			if path == abs || strings.HasPrefix(path, abs+string(filepath.Separator)) {
				return true
			}
			continue
		}
		slashPattern := filepath.ToSlash(pattern)
		if ok, err := doublestar.Match(slashPattern, slashPath); err == nil && ok {
			return true
		}
		if relErr == nil {
			if ok, err := doublestar.Match(slashPattern, filepath.ToSlash(rel)); err == nil && ok {
				return true
			}
		}
	}
	return false
}

func applyExcludes(files []File, cwd string, excludes []string) []File {
	kept := files[:0]
	for _, f := range files {
		if !Excluded(f.Path, cwd, excludes) {
			kept = append(kept, f)
		}
	}
	return kept
}

func absolutize(cwd, pattern string) string {
	if filepath.IsAbs(pattern) {
		return filepath.Clean(pattern)
	}
	return filepath.Join(cwd, pattern)
}

func hasMeta(pattern string) bool {
	return strings.ContainsAny(pattern, "*?[{")
}

// walkRoot returns the deepest existing directory that can serve as the
// traversal root for pattern: the literal prefix before the first wildcard
// segment, walked upward past any segments that do not exist yet.
func walkRoot(fsys afero.Fs, pattern string) string {
	dir := pattern
	if i := strings.IndexAny(pattern, "*?[{"); i >= 0 {
		dir = pattern[:i]
	}
	// The wildcard may sit mid-segment; drop the partial segment.
	dir = filepath.Dir(dir + "x")

	for {
		if ok, _ := afero.DirExists(fsys, dir); ok {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return dir
		}
		dir = parent
	}
}
