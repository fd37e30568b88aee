package snapshot

import (
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/chainloom/chainloom/pkg/graph"

	_ "github.com/ncruces/go-sqlite3/driver"
	_ "github.com/ncruces/go-sqlite3/embed"
)

// sqliteSchema mirrors the snapshot document: one row per node and per
// relationship, property bags as JSON text, position columns preserving
// creation order. No foreign keys; referential integrity is validated
// at load time by the staging store.
const sqliteSchema = `
CREATE TABLE IF NOT EXISTS nodes (
    id TEXT PRIMARY KEY,
    label TEXT NOT NULL,
    properties TEXT NOT NULL,
    position INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS relationships (
    position INTEGER PRIMARY KEY,
    from_id TEXT NOT NULL,
    to_id TEXT NOT NULL,
    rel_type TEXT NOT NULL,
    properties TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_nodes_label ON nodes(label);
CREATE INDEX IF NOT EXISTS idx_rels_type ON relationships(rel_type);
`

// SQLiteStore persists whole-graph snapshots in a SQLite file, via
// ncruces/go-sqlite3's database/sql driver over an embedded wasm build.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens (or creates) a snapshot database. Use ":memory:"
// for an in-memory database or a file path for persistent storage.
func NewSQLiteStore(dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("open snapshot database: %w", err)
	}
	if _, err := db.Exec(sqliteSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create snapshot schema: %w", err)
	}
	return &SQLiteStore{db: db}, nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// Save replaces the database contents with the store's, in one
// transaction.
func (s *SQLiteStore) Save(g *graph.Store) error {
	nodes, rels := g.Export()

	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM nodes`); err != nil {
		return err
	}
	if _, err := tx.Exec(`DELETE FROM relationships`); err != nil {
		return err
	}

	for i, n := range nodes {
		props, err := json.Marshal(n.Properties)
		if err != nil {
			return fmt.Errorf("encode node %s: %w", n.ID, err)
		}
		if _, err := tx.Exec(`
			INSERT INTO nodes (id, label, properties, position)
			VALUES (?, ?, ?, ?)
		`, n.ID, n.Label, string(props), i); err != nil {
			return err
		}
	}
	for i, r := range rels {
		props, err := json.Marshal(r.Properties)
		if err != nil {
			return fmt.Errorf("encode relationship %d: %w", i, err)
		}
		if _, err := tx.Exec(`
			INSERT INTO relationships (position, from_id, to_id, rel_type, properties)
			VALUES (?, ?, ?, ?, ?)
		`, i, r.From, r.To, r.Type, string(props)); err != nil {
			return err
		}
	}

	return tx.Commit()
}

// Load reads the database contents, validates them in a staging store,
// and installs them into the graph. The position columns restore the
// original creation order for both nodes and relationships.
func (s *SQLiteStore) Load(g *graph.Store) error {
	rows, err := s.db.Query(`SELECT id, label, properties FROM nodes ORDER BY position`)
	if err != nil {
		return err
	}
	defer rows.Close()

	var nodes []graph.Node
	for rows.Next() {
		var n graph.Node
		var props string
		if err := rows.Scan(&n.ID, &n.Label, &props); err != nil {
			return err
		}
		if err := json.Unmarshal([]byte(props), &n.Properties); err != nil {
			return fmt.Errorf("%w: node %s properties: %v", ErrMalformedSnapshot, n.ID, err)
		}
		nodes = append(nodes, n)
	}
	if err := rows.Err(); err != nil {
		return err
	}

	relRows, err := s.db.Query(`SELECT from_id, to_id, rel_type, properties FROM relationships ORDER BY position`)
	if err != nil {
		return err
	}
	defer relRows.Close()

	var rels []graph.Relationship
	for relRows.Next() {
		var r graph.Relationship
		var props string
		if err := relRows.Scan(&r.From, &r.To, &r.Type, &props); err != nil {
			return err
		}
		if err := json.Unmarshal([]byte(props), &r.Properties); err != nil {
			return fmt.Errorf("%w: relationship properties: %v", ErrMalformedSnapshot, err)
		}
		rels = append(rels, r)
	}
	if err := relRows.Err(); err != nil {
		return err
	}

	if err := g.Replace(nodes, rels); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedSnapshot, err)
	}
	return nil
}

var _ Store = (*SQLiteStore)(nil)
