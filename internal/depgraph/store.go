package depgraph

import "fmt"

// NodeStore is an immutable snapshot of node-id -> Node. Every mutating
// operation returns a new NodeStore; the receiver is left untouched, so a
// snapshot held by an observer (e.g. inside an event handler) always sees
// a coherent, unchanging view.
//
// Every operation below maintains two properties:
//   - edge symmetry: b is in a's dependencies iff a is in b's dependents
//   - closure: every dependency id names a node present in the store
type NodeStore struct {
	nodes map[NodeID]Node
}

// NewNodeStore returns an empty store.
func NewNodeStore() NodeStore {
	return NodeStore{nodes: map[NodeID]Node{}}
}

// Has reports whether id is present in the store.
func (s NodeStore) Has(id NodeID) bool {
	_, ok := s.nodes[id]
	return ok
}

// Get returns the node for id and whether it was found.
func (s NodeStore) Get(id NodeID) (Node, bool) {
	n, ok := s.nodes[id]
	return n, ok
}

// Len returns the number of nodes in the store.
func (s NodeStore) Len() int {
	return len(s.nodes)
}

// IDs returns every node-id currently in the store. Order is unspecified.
func (s NodeStore) IDs() []NodeID {
	ids := make([]NodeID, 0, len(s.nodes))
	for id := range s.nodes {
		ids = append(ids, id)
	}
	return ids
}

// clone returns a shallow copy of the node map. Node values themselves are
// immutable, so sharing them across the old and new map is safe; only
// entries that actually change get replaced.
func (s NodeStore) clone() map[NodeID]Node {
	out := make(map[NodeID]Node, len(s.nodes)+1)
	for k, v := range s.nodes {
		out[k] = v
	}
	return out
}

// AddNode returns a new store with a fresh, non-entry node named id. It
// fails if id is already present.
func (s NodeStore) AddNode(id NodeID) (NodeStore, error) {
	if s.Has(id) {
		return s, fmt.Errorf("depgraph: add-node: node %q already exists", id)
	}
	out := s.clone()
	out[id] = newNode(id)
	return NodeStore{nodes: out}, nil
}

// EnsureNode returns a store guaranteed to contain id: the receiver
// unchanged if id is already present, otherwise the result of AddNode.
func (s NodeStore) EnsureNode(id NodeID) NodeStore {
	if s.Has(id) {
		return s
	}
	out, _ := s.AddNode(id)
	return out
}

// RemoveNode returns a new store with id and all of its edges removed. It
// fails if id is absent.
func (s NodeStore) RemoveNode(id NodeID) (NodeStore, error) {
	node, ok := s.Get(id)
	if !ok {
		return s, fmt.Errorf("depgraph: remove-node: node %q does not exist", id)
	}

	out := s.clone()
	delete(out, id)

	for _, dep := range node.Dependencies() {
		if d, ok := out[dep]; ok {
			d.dependents = d.dependents.remove(id)
			out[dep] = d
		}
	}
	for _, dependent := range node.Dependents() {
		if d, ok := out[dependent]; ok {
			d.dependencies = d.dependencies.remove(id)
			out[dependent] = d
		}
	}

	return NodeStore{nodes: out}, nil
}

// AddEdge returns a new store with head -> tail installed: tail is added to
// head's dependencies and head to tail's dependents. Both nodes must
// already exist. Adding an edge that already exists is a no-op that
// returns the receiver unchanged.
func (s NodeStore) AddEdge(head, tail NodeID) (NodeStore, error) {
	h, ok := s.Get(head)
	if !ok {
		return s, fmt.Errorf("depgraph: add-edge: head node %q does not exist", head)
	}
	t, ok := s.Get(tail)
	if !ok {
		return s, fmt.Errorf("depgraph: add-edge: tail node %q does not exist", tail)
	}
	if h.HasDependency(tail) {
		return s, nil
	}

	out := s.clone()
	h.dependencies = h.dependencies.add(tail)
	t.dependents = t.dependents.add(head)
	out[head] = h
	out[tail] = t
	return NodeStore{nodes: out}, nil
}

// RemoveEdge returns a new store with head -> tail detached. It is the
// inverse of AddEdge and idempotent: removing an edge that doesn't exist
// is a no-op.
func (s NodeStore) RemoveEdge(head, tail NodeID) (NodeStore, error) {
	h, ok := s.Get(head)
	if !ok {
		return s, fmt.Errorf("depgraph: remove-edge: head node %q does not exist", head)
	}
	t, ok := s.Get(tail)
	if !ok {
		return s, fmt.Errorf("depgraph: remove-edge: tail node %q does not exist", tail)
	}
	if !h.HasDependency(tail) {
		return s, nil
	}

	out := s.clone()
	h.dependencies = h.dependencies.remove(tail)
	t.dependents = t.dependents.remove(head)
	out[head] = h
	out[tail] = t
	return NodeStore{nodes: out}, nil
}

// SetEntry returns a new store with id's IsEntry flag set to entry. It
// fails if id is absent. Graph.SetNodeAsEntry/UnsetNodeAsEntry are the
// entry points for a running trace; SetEntry exists for callers building
// or restoring a NodeStore directly, before it is ever wrapped in a Graph
// (seeding from the notation grammar, reloading a persisted snapshot).
func (s NodeStore) SetEntry(id NodeID, entry bool) (NodeStore, error) {
	n, ok := s.Get(id)
	if !ok {
		return s, fmt.Errorf("depgraph: set-entry: node %q does not exist", id)
	}
	if n.IsEntry == entry {
		return s, nil
	}
	out := s.clone()
	n.IsEntry = entry
	out[id] = n
	return NodeStore{nodes: out}, nil
}
