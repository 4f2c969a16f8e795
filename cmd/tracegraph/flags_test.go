package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/onedusk/tracegraph/internal/config"
)

func TestSplitCSV(t *testing.T) {
	assert.Nil(t, splitCSV(""))
	assert.Equal(t, []string{"a", "b"}, splitCSV("a,b"))
	assert.Equal(t, []string{"a", "b"}, splitCSV(" a , b "))
	assert.Equal(t, []string{"a", "b"}, splitCSV("a,,b"))
}

func TestBuildResolver_PrefersExplicitRemoteFlag(t *testing.T) {
	f := &commonFlags{Remote: "http://localhost:9000/a2a", ProjectRoot: t.TempDir()}
	res, err := buildResolver(f, &config.ProjectConfig{RemoteEndpoint: "http://other/a2a"})
	require.NoError(t, err)
	require.NotNil(t, res)
}

func TestBuildResolver_FallsBackToConfigRemoteEndpoint(t *testing.T) {
	f := &commonFlags{ProjectRoot: t.TempDir()}
	res, err := buildResolver(f, &config.ProjectConfig{RemoteEndpoint: "http://localhost:9000/a2a"})
	require.NoError(t, err)
	require.NotNil(t, res)
}

func TestBuildResolver_FallsBackToFileResolver(t *testing.T) {
	f := &commonFlags{ProjectRoot: t.TempDir()}
	res, err := buildResolver(f, &config.ProjectConfig{})
	require.NoError(t, err)
	require.NotNil(t, res)
}

func TestSeedNodes_DefaultsToEmptyStore(t *testing.T) {
	f := &commonFlags{}
	nodes, err := seedNodes(f)
	require.NoError(t, err)
	assert.Empty(t, nodes.IDs())
}

func TestSeedNodes_ParsesSeedFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "seed.txt")
	require.NoError(t, os.WriteFile(path, []byte("a -> b\n"), 0o644))

	f := &commonFlags{Seed: path}
	nodes, err := seedNodes(f)
	require.NoError(t, err)

	ids := make([]string, len(nodes.IDs()))
	for i, id := range nodes.IDs() {
		ids[i] = string(id)
	}
	assert.ElementsMatch(t, []string{"a", "b"}, ids)
}
