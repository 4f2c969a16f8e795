package export

import (
	"encoding/json"
	"sort"

	"github.com/onedusk/tracegraph/internal/depgraph"
)

// GraphExport is the top-level JSON export structure for a traced graph.
type GraphExport struct {
	Nodes []NodeExport `json:"nodes"`
}

// NodeExport describes a single node and its edges.
type NodeExport struct {
	ID           string   `json:"id"`
	IsEntry      bool     `json:"isEntry"`
	Dependencies []string `json:"dependencies,omitempty"`
	Dependents   []string `json:"dependents,omitempty"`
}

// ExportJSON builds a GraphExport from nodes, with deterministic node and
// edge ordering so two exports of the same graph byte-compare equal.
func ExportJSON(nodes depgraph.NodeStore) (*GraphExport, error) {
	ids := nodes.IDs()
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	export := &GraphExport{Nodes: make([]NodeExport, 0, len(ids))}
	for _, id := range ids {
		node, _ := nodes.Get(id)
		export.Nodes = append(export.Nodes, NodeExport{
			ID:           string(id),
			IsEntry:      node.IsEntry,
			Dependencies: sortedStrings(node.Dependencies()),
			Dependents:   sortedStrings(node.Dependents()),
		})
	}
	return export, nil
}

// MarshalIndent renders export as pretty-printed JSON.
func MarshalIndent(export *GraphExport) ([]byte, error) {
	return json.MarshalIndent(export, "", "  ")
}

func sortedStrings(ids []depgraph.NodeID) []string {
	if len(ids) == 0 {
		return nil
	}
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = string(id)
	}
	sort.Strings(out)
	return out
}
