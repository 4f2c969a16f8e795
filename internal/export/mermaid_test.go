package export

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/onedusk/tracegraph/internal/depgraph"
)

func TestGenerateMermaid_NodesAndEdges(t *testing.T) {
	nodes, err := depgraph.ParseNotation("a -> b\nb -> c\n")
	require.NoError(t, err)
	nodes, err = nodes.SetEntry("a", true)
	require.NoError(t, err)

	out := GenerateMermaid(nodes)

	assert.Contains(t, out, "graph TD\n")
	assert.Contains(t, out, `(["a"])`)
	assert.Contains(t, out, `["b"]`)
	assert.Contains(t, out, `["c"]`)
	assert.Contains(t, out, "-->")
}

func TestGenerateMermaid_Empty(t *testing.T) {
	out := GenerateMermaid(depgraph.NewNodeStore())
	assert.Equal(t, "graph TD\n", out)
}

func TestGenerateMermaid_DeterministicOutput(t *testing.T) {
	nodes, err := depgraph.ParseNotation("a -> b\na -> c\n")
	require.NoError(t, err)

	first := GenerateMermaid(nodes)
	second := GenerateMermaid(nodes)
	assert.Equal(t, first, second)
}
