package resolver

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// fileIndex is a prescanned view of a source tree: every file's
// repo-relative path, grouped by directory, plus the Go module path if a
// go.mod is present at the root. It never touches the filesystem again
// once built.
type fileIndex struct {
	root      string
	files     map[string]bool
	byDir     map[string][]string
	goModPath string
}

// newFileIndex walks root and records every regular file, skipping dot
// directories and vendor/node_modules trees the way a dependency tracer
// has no business descending into.
func newFileIndex(root string) (*fileIndex, error) {
	idx := &fileIndex{
		root:  root,
		files: map[string]bool{},
		byDir: map[string][]string{},
	}

	err := filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		rel, relErr := filepath.Rel(root, path)
		if relErr != nil {
			return relErr
		}
		if info.IsDir() {
			base := info.Name()
			if rel != "." && (strings.HasPrefix(base, ".") || base == "node_modules" || base == "vendor" || base == "target") {
				return filepath.SkipDir
			}
			return nil
		}
		idx.files[rel] = true
		idx.byDir[filepath.Dir(rel)] = append(idx.byDir[filepath.Dir(rel)], rel)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("resolver: scan %s: %w", root, err)
	}

	idx.goModPath = readGoModPath(filepath.Join(root, "go.mod"))
	return idx, nil
}

// readGoModPath extracts the module path from a go.mod's "module" line, or
// returns "" if absent.
func readGoModPath(path string) string {
	data, err := os.ReadFile(path)
	if err != nil {
		return ""
	}
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if strings.HasPrefix(line, "module ") {
			return strings.TrimSpace(strings.TrimPrefix(line, "module "))
		}
	}
	return ""
}

// has reports whether rel names a known file.
func (idx *fileIndex) has(rel string) bool {
	return idx.files[rel]
}

// probe checks basePath and basePath+each suffix against the known file
// set, returning the first match.
func (idx *fileIndex) probe(basePath string, suffixes []string) (string, bool) {
	if idx.has(basePath) {
		return basePath, true
	}
	for _, suffix := range suffixes {
		candidate := basePath + suffix
		if idx.has(candidate) {
			return candidate, true
		}
	}
	return "", false
}

// firstFileIn returns the lexicographically first non-test file with the
// given extension inside dir, for Go's package-import-resolves-to-a-
// directory semantics.
func (idx *fileIndex) firstFileIn(dir, ext string) (string, bool) {
	entries := idx.byDir[dir]
	if len(entries) == 0 {
		return "", false
	}
	sorted := make([]string, len(entries))
	copy(sorted, entries)
	sort.Strings(sorted)
	for _, f := range sorted {
		if strings.HasSuffix(f, ext) && !strings.HasSuffix(f, "_test"+ext) {
			return f, true
		}
	}
	return "", false
}

// abs returns the absolute filesystem path for a repo-relative file.
func (idx *fileIndex) abs(rel string) string {
	return filepath.Join(idx.root, rel)
}
