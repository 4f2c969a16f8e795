package tracerun

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/onedusk/tracegraph/internal/depgraph"
)

func syncResolver(deps map[depgraph.NodeID][]depgraph.NodeID, fail map[depgraph.NodeID]error) depgraph.Resolver {
	return func(id depgraph.NodeID, callback func(error, []depgraph.NodeID)) {
		if err, ok := fail[id]; ok {
			callback(err, nil)
			return
		}
		callback(nil, deps[id])
	}
}

func TestRunner_TraceIfUndefined_SkipsExistingNode(t *testing.T) {
	calls := 0
	resolver := func(id depgraph.NodeID, callback func(error, []depgraph.NodeID)) {
		calls++
		callback(nil, nil)
	}
	g := depgraph.NewGraph(depgraph.NewNodeStore(), resolver)
	r := NewRunner(g, nil)

	r.TraceIfUndefined("a")
	assert.Equal(t, 1, calls)

	r.TraceIfUndefined("a")
	assert.Equal(t, 1, calls, "a is already defined, TraceNode must not be called again")
}

func TestRunner_Run_AllRootsSucceed(t *testing.T) {
	deps := map[depgraph.NodeID][]depgraph.NodeID{
		"a": {"a1"},
		"b": {"b1"},
		"c": nil,
	}
	g := depgraph.NewGraph(depgraph.NewNodeStore(), syncResolver(deps, nil))
	r := NewRunner(g, nil)

	results, err := r.Run(context.Background(), []depgraph.NodeID{"a", "b", "c"})
	require.NoError(t, err)
	require.Len(t, results, 3)

	for i, res := range results {
		assert.NoError(t, res.Err)
		assert.Equal(t, []depgraph.NodeID{"a", "b", "c"}[i], res.Root)
	}

	assert.True(t, g.IsNodeDefined("a1"))
	assert.True(t, g.IsNodeDefined("b1"))
}

func TestRunner_Run_OneRootFails(t *testing.T) {
	deps := map[depgraph.NodeID][]depgraph.NodeID{"good": nil}
	fail := map[depgraph.NodeID]error{"bad": errors.New("resolver exploded")}
	g := depgraph.NewGraph(depgraph.NewNodeStore(), syncResolver(deps, fail))
	r := NewRunner(g, nil)

	results, err := r.Run(context.Background(), []depgraph.NodeID{"good", "bad"})
	require.Error(t, err)
	require.Len(t, results, 2)

	assert.NoError(t, results[0].Err)
	assert.Error(t, results[1].Err)
	assert.Contains(t, results[1].Err.Error(), "resolver exploded")
}

func TestRunner_Run_AlreadyDefinedRootCompletesImmediately(t *testing.T) {
	seed, err := depgraph.ParseNotation("already\n")
	require.NoError(t, err)
	g := depgraph.NewGraph(seed, syncResolver(nil, nil))
	r := NewRunner(g, nil)

	results, err := r.Run(context.Background(), []depgraph.NodeID{"already"})
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.NoError(t, results[0].Err)
}

func TestRunner_Run_EmitsProgressEvents(t *testing.T) {
	deps := map[depgraph.NodeID][]depgraph.NodeID{"a": nil, "b": nil}
	var mu sync.Mutex
	var events []ProgressEvent
	onProgress := func(ev ProgressEvent) {
		mu.Lock()
		defer mu.Unlock()
		events = append(events, ev)
	}

	g := depgraph.NewGraph(depgraph.NewNodeStore(), syncResolver(deps, nil))
	r := NewRunner(g, onProgress)

	_, err := r.Run(context.Background(), []depgraph.NodeID{"a", "b"})
	require.NoError(t, err)

	mu.Lock()
	defer mu.Unlock()

	byRoot := map[depgraph.NodeID]map[Status]bool{}
	for _, ev := range events {
		if byRoot[ev.Root] == nil {
			byRoot[ev.Root] = map[Status]bool{}
		}
		byRoot[ev.Root][ev.Status] = true
	}

	for _, root := range []depgraph.NodeID{"a", "b"} {
		assert.True(t, byRoot[root][StatusPending], "missing pending event for %s", root)
		assert.True(t, byRoot[root][StatusWorking], "missing working event for %s", root)
		assert.True(t, byRoot[root][StatusComplete], "missing complete event for %s", root)
	}
}

func TestRunner_Run_PreCanceledContextSkipsResolver(t *testing.T) {
	resolver := func(id depgraph.NodeID, callback func(error, []depgraph.NodeID)) {
		t.Fatalf("resolver must not run once the context is already canceled")
	}
	g := depgraph.NewGraph(depgraph.NewNodeStore(), resolver)
	r := NewRunner(g, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	ch := make(chan error, 1)
	go func() {
		_, err := r.Run(ctx, []depgraph.NodeID{"a", "b"})
		ch <- err
	}()

	select {
	case err := <-ch:
		require.Error(t, err)
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after context cancellation within 5s")
	}
}

func TestFormatProgress(t *testing.T) {
	assert.Contains(t, FormatProgress(ProgressEvent{Root: "x", Status: StatusPending}), "pending")
	assert.Contains(t, FormatProgress(ProgressEvent{Root: "x", Status: StatusWorking}), "x")
	assert.Contains(t, FormatProgress(ProgressEvent{Root: "x", Status: StatusComplete}), "traced")
	assert.Contains(t, FormatProgress(ProgressEvent{Root: "x", Status: StatusFailed, Message: "boom"}), "boom")
}
