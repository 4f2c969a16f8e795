package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/onedusk/tracegraph/internal/mcptools"
)

func runServeMCP(args []string) error {
	var f commonFlags
	fs := flag.NewFlagSet("serve-mcp", flag.ContinueOnError)
	bindCommonFlags(fs, &f)
	addr := fs.String("addr", ":8787", "address to listen on")
	if err := fs.Parse(args); err != nil {
		return err
	}

	graph, _, err := buildGraph(&f)
	if err != nil {
		return err
	}

	svc := mcptools.NewGraphService(graph)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	fmt.Fprintf(os.Stderr, "tracegraph: serving MCP tools on %s\n", *addr)
	return mcptools.RunMCPServer(ctx, svc, *addr)
}
