package mcptools

import (
	"context"
	"net/http"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// version is set by the linker at build time.
var version = "dev"

// NewGraphMCPServer creates an MCP server with all 4 dependency-graph tools
// registered.
func NewGraphMCPServer(svc *GraphService) *mcp.Server {
	server := mcp.NewServer(&mcp.Implementation{
		Name:    "tracegraph",
		Version: version,
	}, nil)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "trace_node",
		Description: "Enqueue and drive resolution of a node's direct dependencies via the configured resolver. Returns whether a job is still outstanding.",
	}, svc.TraceNode)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "prune_node",
		Description: "Remove a node and every dependency that becomes unreachable as a result, anchoring on entry nodes. Returns every node-id removed.",
	}, svc.PruneNode)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "set_entry",
		Description: "Mark or unmark a node as an entry point, protecting or exposing it to transitive pruning.",
	}, svc.SetEntry)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "get_nodes",
		Description: "Return every node currently in the graph, with its entry flag and its dependency/dependent edges.",
	}, svc.GetNodes)

	return server
}

// RunMCPServer starts an HTTP server exposing the dependency-graph MCP tools.
func RunMCPServer(ctx context.Context, svc *GraphService, addr string) error {
	server := NewGraphMCPServer(svc)

	handler := mcp.NewStreamableHTTPHandler(
		func(_ *http.Request) *mcp.Server { return server },
		nil,
	)

	httpServer := &http.Server{
		Addr:    addr,
		Handler: handler,
	}

	go func() {
		<-ctx.Done()
		httpServer.Shutdown(context.Background())
	}()

	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}
