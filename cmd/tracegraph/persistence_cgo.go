//go:build cgo

package main

import (
	"context"
	"fmt"

	"github.com/onedusk/tracegraph/internal/depgraph"
	"github.com/onedusk/tracegraph/internal/graphstore"
)

func loadStoreSeed(path string) (depgraph.NodeStore, error) {
	store, err := graphstore.OpenFile(path)
	if err != nil {
		return depgraph.NodeStore{}, fmt.Errorf("open store: %w", err)
	}
	defer store.Close()

	if err := store.InitSchema(context.Background()); err != nil {
		return depgraph.NodeStore{}, fmt.Errorf("init schema: %w", err)
	}
	return store.Load(context.Background())
}

func saveStoreSnapshot(path string, nodes depgraph.NodeStore) error {
	store, err := graphstore.OpenFile(path)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer store.Close()
	return store.Save(context.Background(), nodes)
}
