// Package resolver implements the default depgraph.Resolver: a
// tree-sitter-backed getDependencies that treats node-ids as repo-relative
// file paths and discovers a file's direct dependencies by parsing its
// import statements and resolving them against a prescanned file index.
package resolver

import (
	"path/filepath"
	"strings"
)

// language identifies which tree-sitter grammar and import-resolution
// strategy applies to a file.
type language string

const (
	langGo         language = "go"
	langTypeScript language = "typescript"
	langPython     language = "python"
	langRust       language = "rust"
)

// languageFor classifies path by extension. Unrecognized extensions return
// ok=false and the file is treated as a leaf with no dependencies.
func languageFor(path string) (language, bool) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".go":
		return langGo, true
	case ".ts", ".tsx", ".js", ".jsx":
		return langTypeScript, true
	case ".py":
		return langPython, true
	case ".rs":
		return langRust, true
	default:
		return "", false
	}
}
