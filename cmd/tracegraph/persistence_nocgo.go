//go:build !cgo

package main

import (
	"fmt"

	"github.com/onedusk/tracegraph/internal/depgraph"
)

func loadStoreSeed(string) (depgraph.NodeStore, error) {
	return depgraph.NodeStore{}, fmt.Errorf("tracegraph: -store requires a cgo build (KuzuDB bindings)")
}

func saveStoreSnapshot(string, depgraph.NodeStore) error {
	return fmt.Errorf("tracegraph: -store requires a cgo build (KuzuDB bindings)")
}
