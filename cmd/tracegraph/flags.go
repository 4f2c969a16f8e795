package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/onedusk/tracegraph/internal/config"
	"github.com/onedusk/tracegraph/internal/depgraph"
	"github.com/onedusk/tracegraph/internal/remote"
	"github.com/onedusk/tracegraph/internal/resolver"
)

// commonFlags are the flags shared by every subcommand that operates on a
// graph: where the project and its optional tracegraph.yml live, how to
// seed the initial node store, and which resolver answers getDependencies.
type commonFlags struct {
	ProjectRoot string
	Seed        string
	Store       string
	Remote      string
	Verbose     bool
}

func bindCommonFlags(fs *flag.FlagSet, f *commonFlags) {
	fs.StringVar(&f.ProjectRoot, "project-root", ".", "project directory; also where tracegraph.yml is looked up")
	fs.StringVar(&f.Seed, "seed", "", "path to a notation file seeding the initial node store")
	fs.StringVar(&f.Store, "store", "", "path to a KuzuDB file to load and save the traced graph (cgo build only)")
	fs.StringVar(&f.Remote, "remote", "", "A2A endpoint to resolve dependencies remotely instead of walking the local file tree")
	fs.BoolVar(&f.Verbose, "verbose", false, "print progress for each traced root")
}

// buildGraph assembles a depgraph.Graph from commonFlags and the project's
// tracegraph.yml, with explicit flags taking priority over config values.
func buildGraph(f *commonFlags) (*depgraph.Graph, *config.ProjectConfig, error) {
	cfg, err := config.Load(f.ProjectRoot)
	if err != nil {
		return nil, nil, fmt.Errorf("load config: %w", err)
	}
	if f.Store == "" {
		f.Store = cfg.GraphStorePath
	}

	nodes, err := seedNodes(f)
	if err != nil {
		return nil, nil, err
	}

	res, err := buildResolver(f, cfg)
	if err != nil {
		return nil, nil, err
	}

	return depgraph.NewGraph(nodes, res), cfg, nil
}

func seedNodes(f *commonFlags) (depgraph.NodeStore, error) {
	switch {
	case f.Seed != "":
		data, err := os.ReadFile(f.Seed)
		if err != nil {
			return depgraph.NodeStore{}, fmt.Errorf("read seed file: %w", err)
		}
		return depgraph.ParseNotation(string(data))
	case f.Store != "":
		return loadStoreSeed(f.Store)
	default:
		return depgraph.NewNodeStore(), nil
	}
}

func buildResolver(f *commonFlags, cfg *config.ProjectConfig) (depgraph.Resolver, error) {
	endpoint := f.Remote
	if endpoint == "" {
		endpoint = cfg.RemoteEndpoint
	}
	if endpoint != "" {
		return remote.New(endpoint).Resolve, nil
	}

	root := cfg.Root
	if root == "" {
		root = f.ProjectRoot
	}
	fr, err := resolver.New(root)
	if err != nil {
		return nil, fmt.Errorf("build file resolver: %w", err)
	}
	return fr.Resolve, nil
}

// splitCSV splits a comma-separated flag value into trimmed, non-empty
// entries. Returns nil for an empty string so callers can append its
// result directly onto a positional-argument slice.
func splitCSV(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
