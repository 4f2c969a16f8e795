package resolver

import (
	"path/filepath"
	"strings"
)

var tsSuffixes = []string{".ts", ".tsx", ".js", ".jsx", "/index.ts", "/index.tsx", "/index.js"}

// resolveImport rewrites a raw, language-specific import specifier found in
// sourceFile into a repo-relative path present in idx, or reports false if
// it names something outside the tree (stdlib, an external package, an
// external crate).
func resolveImport(idx *fileIndex, lang language, sourceFile, spec string) (string, bool) {
	switch lang {
	case langGo:
		return resolveGoImport(idx, spec)
	case langTypeScript:
		return resolveTSImport(idx, sourceFile, spec)
	case langPython:
		return resolvePyImport(idx, sourceFile, spec)
	case langRust:
		return resolveRustImport(idx, sourceFile, spec)
	default:
		return "", false
	}
}

func resolveGoImport(idx *fileIndex, importPath string) (string, bool) {
	if idx.goModPath == "" || !strings.HasPrefix(importPath, idx.goModPath) {
		return "", false
	}
	relDir := strings.TrimPrefix(importPath, idx.goModPath)
	relDir = strings.TrimPrefix(relDir, "/")
	if relDir == "" {
		relDir = "."
	}
	return idx.firstFileIn(relDir, ".go")
}

func resolveTSImport(idx *fileIndex, sourceFile, importPath string) (string, bool) {
	if !strings.HasPrefix(importPath, "./") && !strings.HasPrefix(importPath, "../") {
		return "", false // bare specifier: external package
	}
	base := filepath.Clean(filepath.Join(filepath.Dir(sourceFile), importPath))
	return idx.probe(base, tsSuffixes)
}

func resolvePyImport(idx *fileIndex, sourceFile, importPath string) (string, bool) {
	if !strings.HasPrefix(importPath, ".") {
		return "", false // absolute import: external package
	}
	dots := 0
	for _, c := range importPath {
		if c != '.' {
			break
		}
		dots++
	}
	modulePart := importPath[dots:]

	baseDir := filepath.Dir(sourceFile)
	for i := 1; i < dots; i++ {
		baseDir = filepath.Dir(baseDir)
	}

	if modulePart == "" {
		return idx.probe(filepath.Join(baseDir, "__init__"), []string{".py"})
	}

	relPath := strings.ReplaceAll(modulePart, ".", "/")
	return idx.probe(filepath.Join(baseDir, relPath), []string{".py", "/__init__.py"})
}

func resolveRustImport(idx *fileIndex, sourceFile, importPath string) (string, bool) {
	if i := strings.Index(importPath, "::{"); i != -1 {
		importPath = importPath[:i]
	}

	switch {
	case strings.HasPrefix(importPath, "crate::"):
		relPath := strings.ReplaceAll(strings.TrimPrefix(importPath, "crate::"), "::", "/")
		candidates := []string{filepath.Join("src", relPath), relPath}
		if srcDir := findCrateRoot(sourceFile); srcDir != "" {
			candidates = append(candidates, filepath.Join(srcDir, relPath))
		}
		for _, base := range candidates {
			if resolved, ok := idx.probe(base, []string{".rs", "/mod.rs"}); ok {
				return resolved, true
			}
		}
		return "", false

	case strings.HasPrefix(importPath, "self::"):
		relPath := strings.ReplaceAll(strings.TrimPrefix(importPath, "self::"), "::", "/")
		return idx.probe(filepath.Join(filepath.Dir(sourceFile), relPath), []string{".rs", "/mod.rs"})

	case strings.HasPrefix(importPath, "super::"):
		relPath := strings.ReplaceAll(strings.TrimPrefix(importPath, "super::"), "::", "/")
		parent := filepath.Dir(filepath.Dir(sourceFile))
		return idx.probe(filepath.Join(parent, relPath), []string{".rs", "/mod.rs"})

	default:
		return "", false // external crate
	}
}

// findCrateRoot walks up from a file path to the nearest "src" directory.
func findCrateRoot(filePath string) string {
	dir := filepath.Dir(filePath)
	for dir != "." && dir != "/" && dir != "" {
		if filepath.Base(dir) == "src" {
			return dir
		}
		dir = filepath.Dir(dir)
	}
	return ""
}
