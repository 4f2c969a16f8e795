package depgraph

// PruneNode removes id and every dependency that transitively loses all
// of its dependents, tolerating cycles and anchoring on entry nodes.
// Pruning an absent node is a no-op, though completion is still
// evaluated since the pending-job queue may hold invalidated jobs for it.
//
// The named root is always removed, even if it is itself an entry — the
// entry flag only protects nodes from *transitive* removal.
func (g *Graph) PruneNode(id NodeID) {
	g.mu.Lock()
	store := g.store
	if !store.Has(id) {
		g.mu.Unlock()
		g.evaluateCompletion()
		return
	}
	order := orphanOrder(store, id)
	g.mu.Unlock()

	for _, n := range order {
		g.mu.Lock()
		if g.store.Has(n) {
			g.store, _ = g.store.RemoveNode(n)
		}
		g.jobs.InvalidateFor(n)
		g.mu.Unlock()
		g.events.emitPruned(PrunedEvent{Node: n})
	}

	g.evaluateCompletion()
}

// orphanOrder computes the orphan set for removing root from store, and
// returns it as a breadth-first traversal order starting at root (root
// first, then its surviving-orphan dependencies level by level).
//
// A node surviving root's removal needs *external* life support: either
// it is an entry, or some node outside root's dependency closure still
// depends on it, or one of its own dependents (within the closure) has
// already been proven to have such support. This is a least-fixpoint:
// aliveness must be proven from concrete evidence, never assumed, which
// is exactly what makes cycles resolve correctly — a cluster of nodes
// that only depend on each other, with no entry and no outside dependent,
// can never bootstrap a proof of aliveness and collapses together.
func orphanOrder(store NodeStore, root NodeID) []NodeID {
	closure := dependencyClosure(store, root)

	alive := map[NodeID]bool{}
	var seedQueue []NodeID
	for c := range closure {
		if c == root {
			continue
		}
		node, _ := store.Get(c)
		if node.IsEntry || hasDependentOutside(node, closure) {
			alive[c] = true
			seedQueue = append(seedQueue, c)
		}
	}

	for len(seedQueue) > 0 {
		x := seedQueue[0]
		seedQueue = seedQueue[1:]
		node, ok := store.Get(x)
		if !ok {
			continue
		}
		for _, dep := range node.Dependencies() {
			if dep == root || !closure[dep] || alive[dep] {
				continue
			}
			alive[dep] = true
			seedQueue = append(seedQueue, dep)
		}
	}

	// Breadth-first emission: root first, then descend only through
	// confirmed orphans (an alive node can never gate a further orphan,
	// since aliveness propagates to every one of its own dependencies).
	order := []NodeID{root}
	visited := map[NodeID]bool{root: true}
	rootNode, _ := store.Get(root)
	queue := rootNode.Dependencies()

	for len(queue) > 0 {
		c := queue[0]
		queue = queue[1:]
		if visited[c] {
			continue
		}
		visited[c] = true
		if alive[c] {
			continue
		}
		order = append(order, c)
		node, ok := store.Get(c)
		if !ok {
			continue
		}
		queue = append(queue, node.Dependencies()...)
	}

	return order
}

// dependencyClosure returns the set of nodes reachable from root by
// following Dependencies edges forward, root included. This is the
// universe of nodes root's removal could possibly affect.
func dependencyClosure(store NodeStore, root NodeID) map[NodeID]bool {
	closure := map[NodeID]bool{root: true}
	queue := []NodeID{root}
	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		node, ok := store.Get(id)
		if !ok {
			continue
		}
		for _, dep := range node.Dependencies() {
			if !closure[dep] {
				closure[dep] = true
				queue = append(queue, dep)
			}
		}
	}
	return closure
}

// hasDependentOutside reports whether node has a dependent that lies
// outside closure — a node untouched by root's removal, which therefore
// keeps node alive unconditionally.
func hasDependentOutside(node Node, closure map[NodeID]bool) bool {
	for _, d := range node.Dependents() {
		if !closure[d] {
			return true
		}
	}
	return false
}
