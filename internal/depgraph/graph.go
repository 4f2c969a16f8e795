package depgraph

import (
	"fmt"
	"sync"
)

// Graph is the public facade composing the node store, pending-job queue,
// trace engine, prune engine, and event bus. It owns the single NodeStore
// snapshot and PendingJobs sequence exclusively; callers never mutate
// either directly.
//
// The engine's own model is single-threaded cooperative: state changes
// only at resolver-callback boundaries, and no code path
// holds the lock while calling out to the resolver or to an event
// handler, so a handler may safely call back into the Graph (including
// re-entrant TraceNode/PruneNode calls) without deadlocking. The mutex
// exists only so that a host running resolver callbacks on arbitrary
// goroutines gets a memory-safe Graph; it does not change the engine's
// documented ordering guarantees.
type Graph struct {
	mu       sync.RWMutex
	store    NodeStore
	jobs     PendingJobs
	events   EventBus
	resolver Resolver

	// completeEmitted latches once complete has fired for the current
	// drain-to-zero of jobs; every job push clears it so the next batch can fire
	// complete again. See evaluateCompletion.
	completeEmitted bool
}

// NewGraph constructs a Graph. nodes seeds the initial store (pass
// NewNodeStore() for an empty graph); resolver is the external
// getDependencies callback the trace engine drives.
func NewGraph(nodes NodeStore, resolver Resolver) *Graph {
	return &Graph{
		store:    nodes,
		resolver: resolver,
	}
}

// Events returns the graph's event bus for subscribing to traced / pruned
// / error / complete notifications.
func (g *Graph) Events() *EventBus {
	return &g.events
}

// PendingJobs returns a read-only snapshot of the pending-job queue.
func (g *Graph) PendingJobs() []Job {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.jobs.Snapshot()
}

// GetNodes returns the current NodeStore snapshot.
func (g *Graph) GetNodes() NodeStore {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.store
}

// IsNodeDefined reports whether id is present in the current store.
func (g *Graph) IsNodeDefined(id NodeID) bool {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.store.Has(id)
}

// IsNodePending reports whether a valid job exists for id.
func (g *Graph) IsNodePending(id NodeID) bool {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.jobs.IsPending(id)
}

// SetNodeAsEntry marks id as an entry node, protecting it from transitive
// pruning. Fails synchronously if id is not present.
func (g *Graph) SetNodeAsEntry(id NodeID) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	store, err := g.store.SetEntry(id, true)
	if err != nil {
		return fmt.Errorf("depgraph: set-node-as-entry: %w", err)
	}
	g.store = store
	return nil
}

// UnsetNodeAsEntry clears id's entry flag. Fails synchronously if id is
// not present.
func (g *Graph) UnsetNodeAsEntry(id NodeID) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	store, err := g.store.SetEntry(id, false)
	if err != nil {
		return fmt.Errorf("depgraph: unset-node-as-entry: %w", err)
	}
	g.store = store
	return nil
}
