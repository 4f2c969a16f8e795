package main

import (
	"fmt"
	"os"
)

// version is set by the linker at build time.
var version = "dev"

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	if len(args) == 0 {
		printUsage()
		return fmt.Errorf("missing command")
	}

	switch args[0] {
	case "-version", "--version":
		fmt.Println(version)
		return nil
	case "trace":
		return runTrace(args[1:])
	case "prune":
		return runPrune(args[1:])
	case "export":
		return runExport(args[1:])
	case "serve-mcp":
		return runServeMCP(args[1:])
	default:
		printUsage()
		return fmt.Errorf("unknown command %q", args[0])
	}
}

func printUsage() {
	fmt.Fprintln(os.Stderr, "usage: tracegraph <trace|prune|export|serve-mcp> [flags]")
}
