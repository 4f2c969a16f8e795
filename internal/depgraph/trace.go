package depgraph

// Resolver enumerates the direct dependencies of a node. It must invoke
// callback exactly once, synchronously or asynchronously, with either a
// non-nil error or the ordered list of dependency node-ids.
//
// This is the sole collaborator the engine consumes; concrete resolvers
// (walking a real source tree, calling out to a remote agent, ...) live
// outside this package.
type Resolver func(id NodeID, callback func(err error, deps []NodeID))

// TraceNode enqueues a resolution job for id and invokes the resolver.
// The engine tolerates the resolver calling back either synchronously
// (before TraceNode returns) or later from another goroutine; either way
// the callback's result is folded into the graph under the facade's lock.
//
// TraceNode unconditionally enqueues a job, even if id is already defined
// or already has a job outstanding — retracing a known node is treated
// as a deliberate request, not an error. Hosts that want to skip
// re-resolution of already-known nodes should use internal/tracerun's
// TraceIfUndefined.
func (g *Graph) TraceNode(id NodeID) {
	g.mu.Lock()
	g.jobs.Push(id)
	g.completeEmitted = false
	g.mu.Unlock()
	g.startResolve(id)
}

// startResolve invokes the resolver for a job that has already been pushed
// onto the queue. Used both by TraceNode and by the recursive expansion
// inside handleResolved, where the job for a newly discovered dependency
// is pushed while still holding the lock (so the queue reflects the whole
// newly-discovered frontier atomically) before any resolver runs.
func (g *Graph) startResolve(id NodeID) {
	g.resolver(id, func(err error, deps []NodeID) {
		g.handleResolved(id, err, deps)
	})
}

// handleResolved folds one resolver callback into the graph.
func (g *Graph) handleResolved(id NodeID, err error, deps []NodeID) {
	g.mu.Lock()
	if !g.jobs.IsPending(id) {
		// The job was invalidated (by a prune, or a previous callback for
		// the same id already consumed it) before this callback landed.
		// Discard entirely: no mutation, no events.
		g.mu.Unlock()
		return
	}

	if err != nil {
		g.jobs.InvalidateFor(id)
		g.mu.Unlock()
		g.events.emitError(ErrorEvent{Node: id, Error: err})
		g.evaluateCompletion()
		return
	}

	store := g.store.EnsureNode(id)

	var addErr error
	var toStart []NodeID
	for _, dep := range deps {
		alreadyKnown := store.Has(dep) || g.jobs.IsPending(dep)
		store = store.EnsureNode(dep)
		store, addErr = store.AddEdge(id, dep)
		if addErr != nil {
			// Both endpoints were just ensured to exist; AddEdge cannot
			// fail here. Guard anyway rather than silently drop the edge.
			panic("depgraph: invariant violated: " + addErr.Error())
		}
		if !alreadyKnown {
			g.jobs.Push(dep)
			g.completeEmitted = false
			toStart = append(toStart, dep)
		}
	}
	g.store = store
	g.jobs.consumeFirstValid(id)
	g.mu.Unlock()

	g.events.emitTraced(TracedEvent{Node: id, Dependencies: deps})

	for _, dep := range toStart {
		g.startResolve(dep)
	}

	g.evaluateCompletion()
}

// evaluateCompletion emits complete the first time the pending-job queue
// is observed to hold no valid jobs since the last time a job was pushed.
// It is called after every state change that could reduce the valid-job
// count: job consumption, job invalidation, and prune cascades. Without
// the completeEmitted latch, a synchronous fan-out would double-report:
// the last dependency's own drain-to-zero already fires complete, and the
// recursive caller's trailing evaluateCompletion call would see the same
// empty queue and fire it again for the same batch.
func (g *Graph) evaluateCompletion() {
	g.mu.Lock()
	shouldEmit := !g.jobs.AnyValid() && !g.completeEmitted
	if shouldEmit {
		g.completeEmitted = true
	}
	g.mu.Unlock()
	if shouldEmit {
		g.events.emitComplete()
	}
}
