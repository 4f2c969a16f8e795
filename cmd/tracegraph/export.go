package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/onedusk/tracegraph/internal/export"
)

func runExport(args []string) error {
	var f commonFlags
	fs := flag.NewFlagSet("export", flag.ContinueOnError)
	bindCommonFlags(fs, &f)
	format := fs.String("format", "json", "output format: json or mermaid")
	if err := fs.Parse(args); err != nil {
		return err
	}

	graph, _, err := buildGraph(&f)
	if err != nil {
		return err
	}
	nodes := graph.GetNodes()

	switch *format {
	case "mermaid":
		fmt.Print(export.GenerateMermaid(nodes))
		return nil
	case "json":
		data, err := export.ExportJSON(nodes)
		if err != nil {
			return err
		}
		out, err := export.MarshalIndent(data)
		if err != nil {
			return err
		}
		_, err = os.Stdout.Write(append(out, '\n'))
		return err
	default:
		return fmt.Errorf("unknown format %q (want json or mermaid)", *format)
	}
}
