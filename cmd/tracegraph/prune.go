package main

import (
	"flag"
	"fmt"

	"github.com/onedusk/tracegraph/internal/depgraph"
)

func runPrune(args []string) error {
	var f commonFlags
	fs := flag.NewFlagSet("prune", flag.ContinueOnError)
	bindCommonFlags(fs, &f)
	if err := fs.Parse(args); err != nil {
		return err
	}

	targets := fs.Args()
	if len(targets) == 0 {
		return fmt.Errorf("usage: tracegraph prune [flags] <node-id>...")
	}

	graph, _, err := buildGraph(&f)
	if err != nil {
		return err
	}

	var pruned []string
	graph.Events().OnPruned(func(ev depgraph.PrunedEvent) {
		pruned = append(pruned, string(ev.Node))
	})

	for _, t := range targets {
		graph.PruneNode(depgraph.NodeID(t))
	}

	for _, id := range pruned {
		fmt.Println(id)
	}

	if f.Store != "" {
		return saveStoreSnapshot(f.Store, graph.GetNodes())
	}
	return nil
}
