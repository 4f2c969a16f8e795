//go:build cgo

// Package graphstore persists a traced depgraph.NodeStore into an embedded
// KuzuDB graph database, for inspection and for resuming a trace across
// process restarts. The core engine in internal/depgraph has no notion of
// persistence of its own; this is purely an outside observer that snapshots
// whatever the Graph facade currently holds.
package graphstore

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	kuzu "github.com/kuzudb/go-kuzu"

	"github.com/onedusk/tracegraph/internal/depgraph"
)

// Store is a KuzuDB-backed snapshot store for a traced dependency graph.
type Store struct {
	db   *kuzu.Database
	conn *kuzu.Connection
}

// Open creates a Store backed by an in-memory KuzuDB instance. Data does
// not survive process exit; use OpenFile for a persistent index.
func Open() (*Store, error) {
	cfg := kuzu.DefaultSystemConfig()
	db, err := kuzu.OpenDatabase(":memory:", cfg)
	if err != nil {
		return nil, fmt.Errorf("graphstore: open database: %w", err)
	}
	conn, err := kuzu.OpenConnection(db)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("graphstore: open connection: %w", err)
	}
	return &Store{db: db, conn: conn}, nil
}

// OpenFile creates a Store backed by a file-based KuzuDB at dbPath, so a
// traced graph can be inspected again in a later run.
func OpenFile(dbPath string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("graphstore: create parent directory: %w", err)
	}
	cfg := kuzu.DefaultSystemConfig()
	db, err := kuzu.OpenDatabase(dbPath, cfg)
	if err != nil {
		return nil, fmt.Errorf("graphstore: open file database: %w", err)
	}
	conn, err := kuzu.OpenConnection(db)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("graphstore: open connection: %w", err)
	}
	return &Store{db: db, conn: conn}, nil
}

// Close releases the KuzuDB connection and database.
func (s *Store) Close() error {
	if s.conn != nil {
		s.conn.Close()
	}
	if s.db != nil {
		s.db.Close()
	}
	return nil
}

var ddlStatements = []string{
	`CREATE NODE TABLE IF NOT EXISTS DepNode(
		name STRING,
		is_entry BOOLEAN,
		PRIMARY KEY(name)
	)`,
	`CREATE REL TABLE IF NOT EXISTS DEPENDS_ON(FROM DepNode TO DepNode)`,
}

// InitSchema creates the node and relationship tables if they do not
// already exist.
func (s *Store) InitSchema(_ context.Context) error {
	for _, stmt := range ddlStatements {
		res, err := s.conn.Query(stmt)
		if err != nil {
			return fmt.Errorf("graphstore: init schema: %w", err)
		}
		res.Close()
	}
	return nil
}

// Save replaces the store's contents with a snapshot of nodes. It is a
// full-snapshot write, not an incremental diff: internal/depgraph's
// NodeStore is immutable and cheap to re-walk in full, and a tracer's
// inspection store has no need for partial updates.
func (s *Store) Save(ctx context.Context, nodes depgraph.NodeStore) error {
	if err := s.clear(); err != nil {
		return err
	}
	if err := s.InitSchema(ctx); err != nil {
		return err
	}

	ids := nodes.IDs()
	for _, id := range ids {
		node, _ := nodes.Get(id)
		if err := s.exec(
			"CREATE (n:DepNode {name: $name, is_entry: $entry})",
			map[string]any{"name": string(id), "entry": node.IsEntry},
		); err != nil {
			return fmt.Errorf("graphstore: save node %q: %w", id, err)
		}
	}
	for _, id := range ids {
		node, _ := nodes.Get(id)
		for _, dep := range node.Dependencies() {
			if err := s.exec(
				`MATCH (a:DepNode {name: $src}), (b:DepNode {name: $dst})
				 CREATE (a)-[:DEPENDS_ON]->(b)`,
				map[string]any{"src": string(id), "dst": string(dep)},
			); err != nil {
				return fmt.Errorf("graphstore: save edge %q -> %q: %w", id, dep, err)
			}
		}
	}
	return nil
}

// clear drops the tables so Save always starts from an empty graph. Order
// matters: relationship tables must drop before the node tables they
// reference.
func (s *Store) clear() error {
	for _, stmt := range []string{
		"DROP TABLE IF EXISTS DEPENDS_ON",
		"DROP TABLE IF EXISTS DepNode",
	} {
		res, err := s.conn.Query(stmt)
		if err != nil {
			return fmt.Errorf("graphstore: clear: %w", err)
		}
		res.Close()
	}
	return nil
}

// Load reconstructs a depgraph.NodeStore from the persisted snapshot.
func (s *Store) Load(_ context.Context) (depgraph.NodeStore, error) {
	store := depgraph.NewNodeStore()

	nodeRows, err := s.query("MATCH (n:DepNode) RETURN n.name, n.is_entry", nil)
	if err != nil {
		return store, fmt.Errorf("graphstore: load nodes: %w", err)
	}
	for _, row := range nodeRows {
		id := depgraph.NodeID(toString(row[0]))
		store = store.EnsureNode(id)
		if toBool(row[1]) {
			var setErr error
			store, setErr = store.SetEntry(id, true)
			if setErr != nil {
				return store, fmt.Errorf("graphstore: load nodes: %w", setErr)
			}
		}
	}

	edgeRows, err := s.query(
		"MATCH (a:DepNode)-[:DEPENDS_ON]->(b:DepNode) RETURN a.name, b.name", nil,
	)
	if err != nil {
		return store, fmt.Errorf("graphstore: load edges: %w", err)
	}
	for _, row := range edgeRows {
		src := depgraph.NodeID(toString(row[0]))
		dst := depgraph.NodeID(toString(row[1]))
		var addErr error
		store, addErr = store.AddEdge(src, dst)
		if addErr != nil {
			return store, fmt.Errorf("graphstore: load edges: %w", addErr)
		}
	}

	return store, nil
}

// Stats reports the node and edge counts currently persisted.
type Stats struct {
	Nodes int
	Edges int
}

// Stats returns the node and edge counts currently persisted.
func (s *Store) Stats(_ context.Context) (*Stats, error) {
	nodeRows, err := s.query("MATCH (n:DepNode) RETURN count(n)", nil)
	if err != nil {
		return nil, fmt.Errorf("graphstore: stats: %w", err)
	}
	edgeRows, err := s.query("MATCH ()-[r:DEPENDS_ON]->() RETURN count(r)", nil)
	if err != nil {
		return nil, fmt.Errorf("graphstore: stats: %w", err)
	}
	stats := &Stats{}
	if len(nodeRows) > 0 && len(nodeRows[0]) > 0 {
		stats.Nodes = toInt(nodeRows[0][0])
	}
	if len(edgeRows) > 0 && len(edgeRows[0]) > 0 {
		stats.Edges = toInt(edgeRows[0][0])
	}
	return stats, nil
}

func (s *Store) exec(cypher string, params map[string]any) error {
	stmt, err := s.conn.Prepare(cypher)
	if err != nil {
		return fmt.Errorf("prepare: %w", err)
	}
	defer stmt.Close()

	res, err := s.conn.Execute(stmt, params)
	if err != nil {
		return fmt.Errorf("execute: %w", err)
	}
	res.Close()
	return nil
}

func (s *Store) query(cypher string, params map[string]any) ([][]any, error) {
	var res *kuzu.QueryResult
	var err error

	if len(params) == 0 {
		res, err = s.conn.Query(cypher)
	} else {
		var stmt *kuzu.PreparedStatement
		stmt, err = s.conn.Prepare(cypher)
		if err != nil {
			return nil, fmt.Errorf("prepare: %w", err)
		}
		defer stmt.Close()
		res, err = s.conn.Execute(stmt, params)
	}
	if err != nil {
		return nil, fmt.Errorf("query: %w", err)
	}
	defer res.Close()

	var rows [][]any
	for res.HasNext() {
		tuple, err := res.Next()
		if err != nil {
			return nil, fmt.Errorf("next: %w", err)
		}
		vals, err := tuple.GetAsSlice()
		if err != nil {
			return nil, fmt.Errorf("row values: %w", err)
		}
		rows = append(rows, vals)
	}
	return rows, nil
}

func toString(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprintf("%v", v)
}

func toInt(v any) int {
	switch n := v.(type) {
	case int64:
		return int(n)
	case int:
		return n
	case int32:
		return int(n)
	case float64:
		return int(n)
	default:
		return 0
	}
}

func toBool(v any) bool {
	if b, ok := v.(bool); ok {
		return b
	}
	return false
}
