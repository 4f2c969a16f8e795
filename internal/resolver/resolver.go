package resolver

import (
	"fmt"
	"os"

	"github.com/onedusk/tracegraph/internal/depgraph"
)

// FileResolver is the default depgraph.Resolver: it treats every NodeID as
// a repo-relative file path, parses it with the matching tree-sitter
// grammar, and resolves its import specifiers against a prescanned file
// tree. Files it can't classify by extension are reported as leaves (empty
// dependency list) rather than errors, so a single unsupported file type
// never aborts the trace. A file that can't be read or parsed is reported
// to the callback as an error.
type FileResolver struct {
	idx *fileIndex
}

// New scans root once and returns a FileResolver whose node-ids are
// interpreted relative to root.
func New(root string) (*FileResolver, error) {
	idx, err := newFileIndex(root)
	if err != nil {
		return nil, err
	}
	return &FileResolver{idx: idx}, nil
}

// Resolve implements depgraph.Resolver. It always calls back synchronously;
// callers that need concurrent resolution should wrap it (see
// internal/tracerun).
func (r *FileResolver) Resolve(id depgraph.NodeID, callback func(error, []depgraph.NodeID)) {
	rel := string(id)

	lang, ok := languageFor(rel)
	if !ok {
		callback(nil, nil)
		return
	}

	source, err := os.ReadFile(r.idx.abs(rel))
	if err != nil {
		callback(fmt.Errorf("resolver: read %s: %w", rel, err), nil)
		return
	}

	specs, err := extractImports(lang, source)
	if err != nil {
		callback(fmt.Errorf("resolver: parse %s: %w", rel, err), nil)
		return
	}

	deps := make([]depgraph.NodeID, 0, len(specs))
	seen := map[string]bool{}
	for _, spec := range specs {
		resolved, ok := resolveImport(r.idx, lang, rel, spec)
		if !ok || seen[resolved] {
			continue
		}
		seen[resolved] = true
		deps = append(deps, depgraph.NodeID(resolved))
	}

	callback(nil, deps)
}
