package depgraph

import (
	"bufio"
	"fmt"
	"strings"
)

// ParseNotation reads a small node-store text grammar: each line is
// either a bare node-id ("a") or an edge ("a -> b"), creating either
// endpoint if absent. Blank lines are ignored and every line is trimmed
// before parsing. This is the format used by the test fixtures in this
// package and by cmd/tracegraph's -seed flag.
func ParseNotation(text string) (NodeStore, error) {
	store := NewNodeStore()

	scanner := bufio.NewScanner(strings.NewReader(text))
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		if idx := strings.Index(line, "->"); idx >= 0 {
			head := strings.TrimSpace(line[:idx])
			tail := strings.TrimSpace(line[idx+2:])
			if head == "" || tail == "" {
				return NodeStore{}, fmt.Errorf("depgraph: notation line %d: malformed edge %q", lineNo, line)
			}
			store = store.EnsureNode(NodeID(head))
			store = store.EnsureNode(NodeID(tail))
			var err error
			store, err = store.AddEdge(NodeID(head), NodeID(tail))
			if err != nil {
				return NodeStore{}, fmt.Errorf("depgraph: notation line %d: %w", lineNo, err)
			}
			continue
		}

		store = store.EnsureNode(NodeID(line))
	}
	if err := scanner.Err(); err != nil {
		return NodeStore{}, fmt.Errorf("depgraph: notation: %w", err)
	}

	return store, nil
}
