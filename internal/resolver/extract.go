package resolver

import (
	"fmt"
	"strings"

	tree_sitter "github.com/tree-sitter/go-tree-sitter"
	tree_sitter_go "github.com/tree-sitter/tree-sitter-go/bindings/go"
	tree_sitter_python "github.com/tree-sitter/tree-sitter-python/bindings/go"
	tree_sitter_rust "github.com/tree-sitter/tree-sitter-rust/bindings/go"
	tree_sitter_typescript "github.com/tree-sitter/tree-sitter-typescript/bindings/go"
)

// importExtractor pulls the raw import specifiers out of a parsed file.
// Each implementation only cares about the AST node kinds that introduce a
// dependency edge; it has no interest in symbols or call graphs.
type importExtractor interface {
	extract(root *tree_sitter.Node, source []byte) []string
}

var grammars = map[language]*tree_sitter.Language{
	langGo:         tree_sitter.NewLanguage(tree_sitter_go.Language()),
	langTypeScript: tree_sitter.NewLanguage(tree_sitter_typescript.LanguageTypescript()),
	langPython:     tree_sitter.NewLanguage(tree_sitter_python.Language()),
	langRust:       tree_sitter.NewLanguage(tree_sitter_rust.Language()),
}

var extractors = map[language]importExtractor{
	langGo:         goImports{},
	langTypeScript: tsImports{},
	langPython:     pyImports{},
	langRust:       rsImports{},
}

// extractImports parses source with lang's grammar and returns the raw
// import specifiers it finds, in source order.
func extractImports(lang language, source []byte) ([]string, error) {
	grammar, ok := grammars[lang]
	if !ok {
		return nil, fmt.Errorf("resolver: no grammar registered for %s", lang)
	}
	ext, ok := extractors[lang]
	if !ok {
		return nil, fmt.Errorf("resolver: no import extractor registered for %s", lang)
	}

	parser := tree_sitter.NewParser()
	defer parser.Close()
	if err := parser.SetLanguage(grammar); err != nil {
		return nil, fmt.Errorf("resolver: set language %s: %w", lang, err)
	}

	tree := parser.Parse(source, nil)
	if tree == nil {
		return nil, fmt.Errorf("resolver: tree-sitter returned nil tree")
	}
	defer tree.Close()

	return ext.extract(tree.RootNode(), source), nil
}

// goImports walks a Go AST for import_spec path strings.
type goImports struct{}

func (goImports) extract(root *tree_sitter.Node, source []byte) []string {
	var out []string
	walk(root, func(node *tree_sitter.Node) {
		if node.Kind() != "import_spec" {
			return
		}
		pathNode := node.ChildByFieldName("path")
		if pathNode == nil {
			for i := uint(0); i < node.ChildCount(); i++ {
				child := node.Child(i)
				if child != nil && child.Kind() == "interpreted_string_literal" {
					pathNode = child
					break
				}
			}
		}
		if pathNode == nil {
			return
		}
		path := strings.Trim(pathNode.Utf8Text(source), "\"")
		if path != "" {
			out = append(out, path)
		}
	})
	return out
}

// tsImports walks a TypeScript/JavaScript AST for import_statement sources.
type tsImports struct{}

func (tsImports) extract(root *tree_sitter.Node, source []byte) []string {
	var out []string
	walk(root, func(node *tree_sitter.Node) {
		if node.Kind() != "import_statement" {
			return
		}
		sourceNode := node.ChildByFieldName("source")
		if sourceNode == nil {
			for i := uint(0); i < node.ChildCount(); i++ {
				child := node.Child(i)
				if child != nil && child.Kind() == "string" {
					sourceNode = child
					break
				}
			}
		}
		if sourceNode == nil {
			return
		}
		path := strings.Trim(sourceNode.Utf8Text(source), "\"'`")
		if path != "" {
			out = append(out, path)
		}
	})
	return out
}

// pyImports walks a Python AST for import_statement / import_from_statement
// module names.
type pyImports struct{}

func (pyImports) extract(root *tree_sitter.Node, source []byte) []string {
	var out []string
	walk(root, func(node *tree_sitter.Node) {
		switch node.Kind() {
		case "import_statement":
			for i := uint(0); i < node.ChildCount(); i++ {
				child := node.Child(i)
				if child != nil && child.Kind() == "dotted_name" {
					if name := child.Utf8Text(source); name != "" {
						out = append(out, name)
					}
				}
			}
		case "import_from_statement":
			moduleNode := node.ChildByFieldName("module_name")
			if moduleNode != nil {
				if name := moduleNode.Utf8Text(source); name != "" {
					out = append(out, name)
				}
			}
		}
	})
	return out
}

// rsImports walks a Rust AST for use_declaration paths.
type rsImports struct{}

func (rsImports) extract(root *tree_sitter.Node, source []byte) []string {
	var out []string
	walk(root, func(node *tree_sitter.Node) {
		if node.Kind() != "use_declaration" {
			return
		}
		argNode := node.ChildByFieldName("argument")
		if argNode == nil {
			if text := node.Utf8Text(source); text != "" {
				out = append(out, text)
			}
			return
		}
		if text := argNode.Utf8Text(source); text != "" {
			out = append(out, text)
		}
	})
	return out
}

// walk performs a depth-first traversal of the tree rooted at node,
// invoking visit on every node encountered.
func walk(node *tree_sitter.Node, visit func(*tree_sitter.Node)) {
	cursor := node.Walk()
	defer cursor.Close()
	walkCursor(cursor, visit)
}

func walkCursor(cursor *tree_sitter.TreeCursor, visit func(*tree_sitter.Node)) {
	visit(cursor.Node())
	if cursor.GotoFirstChild() {
		walkCursor(cursor, visit)
		for cursor.GotoNextSibling() {
			walkCursor(cursor, visit)
		}
		cursor.GotoParent()
	}
}
