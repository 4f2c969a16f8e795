package mcptools

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/onedusk/tracegraph/internal/depgraph"
)

// GraphService holds the depgraph.Graph used by MCP tool handlers. Every
// handler reads or mutates this single shared graph, the way a host process
// would drive one trace session per MCP connection.
//
// EventBus has no unsubscribe, so a single OnPruned handler is registered
// once at construction and redirected to whichever PruneNode call is
// currently in flight, rather than one handler per call leaking forever.
type GraphService struct {
	graph *depgraph.Graph

	pruneMu  sync.Mutex
	pruneOut *[]string
}

// NewGraphService creates a GraphService wrapping graph.
func NewGraphService(graph *depgraph.Graph) *GraphService {
	s := &GraphService{graph: graph}
	graph.Events().OnPruned(func(ev depgraph.PrunedEvent) {
		s.pruneMu.Lock()
		out := s.pruneOut
		s.pruneMu.Unlock()
		if out != nil {
			*out = append(*out, string(ev.Node))
		}
	})
	return s
}

// TraceNode enqueues a resolution job for the given node and reports
// whether a job is still outstanding once the call returns. Under a
// synchronous resolver the job will already have settled; under an
// asynchronous one, Pending will be true until the resolver calls back.
func (s *GraphService) TraceNode(
	_ context.Context,
	_ *mcp.CallToolRequest,
	input TraceNodeInput,
) (*mcp.CallToolResult, TraceNodeOutput, error) {
	if input.NodeID == "" {
		return nil, TraceNodeOutput{}, fmt.Errorf("nodeId is required")
	}

	id := depgraph.NodeID(input.NodeID)
	s.graph.TraceNode(id)

	return nil, TraceNodeOutput{
		NodeID:  input.NodeID,
		Pending: s.graph.IsNodePending(id),
	}, nil
}

// PruneNode removes the given node and every dependency that becomes
// unreachable as a result, and reports everything that was removed.
func (s *GraphService) PruneNode(
	_ context.Context,
	_ *mcp.CallToolRequest,
	input PruneNodeInput,
) (*mcp.CallToolResult, PruneNodeOutput, error) {
	if input.NodeID == "" {
		return nil, PruneNodeOutput{}, fmt.Errorf("nodeId is required")
	}

	var pruned []string
	s.pruneMu.Lock()
	s.pruneOut = &pruned
	s.pruneMu.Unlock()
	defer func() {
		s.pruneMu.Lock()
		s.pruneOut = nil
		s.pruneMu.Unlock()
	}()

	s.graph.PruneNode(depgraph.NodeID(input.NodeID))

	return nil, PruneNodeOutput{Pruned: pruned}, nil
}

// SetEntry marks or unmarks a node as an entry point, protecting or
// exposing it to transitive pruning.
func (s *GraphService) SetEntry(
	_ context.Context,
	_ *mcp.CallToolRequest,
	input SetEntryInput,
) (*mcp.CallToolResult, SetEntryOutput, error) {
	if input.NodeID == "" {
		return nil, SetEntryOutput{}, fmt.Errorf("nodeId is required")
	}

	id := depgraph.NodeID(input.NodeID)
	var err error
	if input.Entry {
		err = s.graph.SetNodeAsEntry(id)
	} else {
		err = s.graph.UnsetNodeAsEntry(id)
	}
	if err != nil {
		return nil, SetEntryOutput{}, fmt.Errorf("set entry: %w", err)
	}

	return nil, SetEntryOutput{NodeID: input.NodeID, Entry: input.Entry}, nil
}

// GetNodes returns a snapshot of every node currently in the graph.
func (s *GraphService) GetNodes(
	_ context.Context,
	_ *mcp.CallToolRequest,
	_ GetNodesInput,
) (*mcp.CallToolResult, GetNodesOutput, error) {
	store := s.graph.GetNodes()
	ids := store.IDs()
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	nodes := make([]NodeSummary, 0, len(ids))
	for _, id := range ids {
		node, _ := store.Get(id)
		nodes = append(nodes, NodeSummary{
			ID:           string(id),
			IsEntry:      node.IsEntry,
			Dependencies: nodeIDsToStrings(node.Dependencies()),
			Dependents:   nodeIDsToStrings(node.Dependents()),
		})
	}

	return nil, GetNodesOutput{Nodes: nodes}, nil
}

func nodeIDsToStrings(ids []depgraph.NodeID) []string {
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
