package export

import (
	"fmt"
	"sort"
	"strings"

	"github.com/onedusk/tracegraph/internal/depgraph"
)

// GenerateMermaid renders nodes as a Mermaid graph TD diagram. Dependency
// edges become arrows; entry nodes get a stadium shape so they stand out
// from ordinary rectangle nodes.
func GenerateMermaid(nodes depgraph.NodeStore) string {
	ids := nodes.IDs()
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	mermaidIDs := make(map[depgraph.NodeID]string, len(ids))
	for i, id := range ids {
		mermaidIDs[id] = fmt.Sprintf("N%d", i)
	}

	var sb strings.Builder
	sb.WriteString("graph TD\n")

	for _, id := range ids {
		node, _ := nodes.Get(id)
		mid := mermaidIDs[id]
		if node.IsEntry {
			sb.WriteString(fmt.Sprintf("  %s([\"%s\"])\n", mid, id))
		} else {
			sb.WriteString(fmt.Sprintf("  %s[\"%s\"]\n", mid, id))
		}
	}

	for _, id := range ids {
		node, _ := nodes.Get(id)
		deps := node.Dependencies()
		sort.Slice(deps, func(i, j int) bool { return deps[i] < deps[j] })
		for _, dep := range deps {
			sb.WriteString(fmt.Sprintf("  %s --> %s\n", mermaidIDs[id], mermaidIDs[dep]))
		}
	}

	return sb.String()
}
