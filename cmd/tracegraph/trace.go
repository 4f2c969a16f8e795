package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/onedusk/tracegraph/internal/depgraph"
	"github.com/onedusk/tracegraph/internal/export"
	"github.com/onedusk/tracegraph/internal/tracerun"
)

func runTrace(args []string) error {
	var f commonFlags
	fs := flag.NewFlagSet("trace", flag.ContinueOnError)
	bindCommonFlags(fs, &f)
	entries := fs.String("entry", "", "comma-separated node-ids to trace and mark as entry points")
	if err := fs.Parse(args); err != nil {
		return err
	}

	roots := append([]string{}, fs.Args()...)
	roots = append(roots, splitCSV(*entries)...)

	graph, cfg, err := buildGraph(&f)
	if err != nil {
		return err
	}
	if len(roots) == 0 {
		roots = append(roots, cfg.Entries...)
	}
	if len(roots) == 0 {
		return fmt.Errorf("usage: tracegraph trace [flags] <node-id>...")
	}

	rootIDs := make([]depgraph.NodeID, len(roots))
	for i, r := range roots {
		rootIDs[i] = depgraph.NodeID(r)
	}

	runner := tracerun.NewRunner(graph, func(ev tracerun.ProgressEvent) {
		if f.Verbose {
			fmt.Println(tracerun.FormatProgress(ev))
		}
	})

	results, runErr := runner.Run(context.Background(), rootIDs)
	for _, res := range results {
		if res.Err != nil {
			fmt.Fprintf(os.Stderr, "trace %s: %v\n", res.Root, res.Err)
			continue
		}
		if err := graph.SetNodeAsEntry(res.Root); err != nil {
			fmt.Fprintf(os.Stderr, "mark entry %s: %v\n", res.Root, err)
		}
	}

	if f.Store != "" {
		if err := saveStoreSnapshot(f.Store, graph.GetNodes()); err != nil {
			return err
		}
	}

	data, err := export.ExportJSON(graph.GetNodes())
	if err != nil {
		return err
	}
	out, err := export.MarshalIndent(data)
	if err != nil {
		return err
	}
	if _, err := os.Stdout.Write(append(out, '\n')); err != nil {
		return err
	}

	return runErr
}
