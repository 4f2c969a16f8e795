package mcptools

import (
	"context"
	"encoding/json"
	"sort"
	"testing"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/onedusk/tracegraph/internal/depgraph"
)

// setupServerClient wires an MCP server and client together using in-memory
// transports. It returns the connected client session and the underlying
// GraphService so that tests can inspect state when needed.
func setupServerClient(t *testing.T, nodes depgraph.NodeStore, resolver depgraph.Resolver) (*mcp.ClientSession, *GraphService) {
	t.Helper()

	g := depgraph.NewGraph(nodes, resolver)
	svc := NewGraphService(g)
	server := NewGraphMCPServer(svc)

	st, ct := mcp.NewInMemoryTransports()
	ctx := context.Background()

	_, err := server.Connect(ctx, st, nil)
	require.NoError(t, err)

	client := mcp.NewClient(&mcp.Implementation{
		Name:    "test-client",
		Version: "1.0.0",
	}, nil)

	session, err := client.Connect(ctx, ct, nil)
	require.NoError(t, err)

	t.Cleanup(func() { session.Close() })

	return session, svc
}

func noopResolver(_ depgraph.NodeID, callback func(error, []depgraph.NodeID)) {
	callback(nil, nil)
}

// TestMCPListTools verifies that the MCP server exposes exactly 4 tools with
// the expected names.
func TestMCPListTools(t *testing.T) {
	session, _ := setupServerClient(t, depgraph.NewNodeStore(), noopResolver)
	ctx := context.Background()

	result, err := session.ListTools(ctx, &mcp.ListToolsParams{})
	require.NoError(t, err)

	require.Len(t, result.Tools, 4, "expected 4 registered tools")

	names := make([]string, len(result.Tools))
	for i, tool := range result.Tools {
		names[i] = tool.Name
	}
	sort.Strings(names)

	expected := []string{"get_nodes", "prune_node", "set_entry", "trace_node"}
	assert.Equal(t, expected, names)
}

func TestMCPTraceNode(t *testing.T) {
	resolver := func(id depgraph.NodeID, callback func(error, []depgraph.NodeID)) {
		if id == "a" {
			callback(nil, []depgraph.NodeID{"b"})
			return
		}
		callback(nil, nil)
	}
	session, _ := setupServerClient(t, depgraph.NewNodeStore(), resolver)
	ctx := context.Background()

	result, err := session.CallTool(ctx, &mcp.CallToolParams{
		Name:      "trace_node",
		Arguments: TraceNodeInput{NodeID: "a"},
	})
	require.NoError(t, err)
	require.False(t, result.IsError)

	var output TraceNodeOutput
	decodeStructured(t, result, &output)
	assert.Equal(t, "a", output.NodeID)
	assert.False(t, output.Pending, "synchronous resolver should leave nothing pending")
}

func TestMCPGetNodes_AfterTrace(t *testing.T) {
	resolver := func(id depgraph.NodeID, callback func(error, []depgraph.NodeID)) {
		if id == "a" {
			callback(nil, []depgraph.NodeID{"b"})
			return
		}
		callback(nil, nil)
	}
	session, _ := setupServerClient(t, depgraph.NewNodeStore(), resolver)
	ctx := context.Background()

	_, err := session.CallTool(ctx, &mcp.CallToolParams{
		Name:      "trace_node",
		Arguments: TraceNodeInput{NodeID: "a"},
	})
	require.NoError(t, err)

	result, err := session.CallTool(ctx, &mcp.CallToolParams{
		Name:      "get_nodes",
		Arguments: GetNodesInput{},
	})
	require.NoError(t, err)
	require.False(t, result.IsError)

	var output GetNodesOutput
	decodeStructured(t, result, &output)
	require.Len(t, output.Nodes, 2)
	assert.Equal(t, "a", output.Nodes[0].ID)
	assert.Equal(t, []string{"b"}, output.Nodes[0].Dependencies)
}

func TestMCPSetEntryThenPrune(t *testing.T) {
	seed, err := depgraph.ParseNotation("root -> a\na -> b\nb -> a\n")
	require.NoError(t, err)

	session, _ := setupServerClient(t, seed, noopResolver)
	ctx := context.Background()

	result, err := session.CallTool(ctx, &mcp.CallToolParams{
		Name:      "set_entry",
		Arguments: SetEntryInput{NodeID: "b", Entry: true},
	})
	require.NoError(t, err)
	require.False(t, result.IsError)

	result, err = session.CallTool(ctx, &mcp.CallToolParams{
		Name:      "prune_node",
		Arguments: PruneNodeInput{NodeID: "root"},
	})
	require.NoError(t, err)
	require.False(t, result.IsError)

	var output PruneNodeOutput
	decodeStructured(t, result, &output)
	assert.Equal(t, []string{"root"}, output.Pruned, "b's entry flag should anchor the a/b cycle")
}

func TestMCPCallUnknownTool(t *testing.T) {
	session, _ := setupServerClient(t, depgraph.NewNodeStore(), noopResolver)
	ctx := context.Background()

	result, err := session.CallTool(ctx, &mcp.CallToolParams{
		Name:      "nonexistent_tool",
		Arguments: map[string]any{},
	})

	if err != nil {
		return
	}

	require.NotNil(t, result)
	assert.True(t, result.IsError, "calling an unknown tool should set IsError")
}

func decodeStructured(t *testing.T, result *mcp.CallToolResult, out any) {
	t.Helper()
	require.NotNil(t, result.StructuredContent, "expected structured content")
	raw, err := json.Marshal(result.StructuredContent)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(raw, out))
}
