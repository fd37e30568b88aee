// Package snapshot persists and recalls whole-graph snapshots. Import
// always validates into a staging store before touching the live one,
// so a malformed snapshot leaves prior contents intact; there is no
// merge mode.
package snapshot

import (
	"errors"
	"fmt"
	"sort"

	"github.com/chainloom/chainloom/pkg/graph"
)

// ErrMalformedSnapshot is returned when a snapshot fails validation:
// undecodable data, a node without a label, or a relationship whose
// endpoint is not in the snapshot.
var ErrMalformedSnapshot = errors.New("malformed snapshot")

// Store is a whole-graph snapshot backend. Save replaces the backend's
// contents with the graph's; Load replaces the graph's contents with
// the backend's.
type Store interface {
	Save(g *graph.Store) error
	Load(g *graph.Store) error
	Close() error
}

// Document is the interchange shape shared by snapshot backends and the
// JSON file format.
type Document struct {
	Nodes         map[string]NodeRecord `json:"nodes"`
	Relationships []RelRecord           `json:"relationships"`
}

// NodeRecord is one node keyed by id in Document.Nodes.
type NodeRecord struct {
	Label      string           `json:"label"`
	Properties graph.Properties `json:"properties"`
}

// RelRecord is one relationship in snapshot order.
type RelRecord struct {
	From       string           `json:"from"`
	To         string           `json:"to"`
	Type       string           `json:"type"`
	Properties graph.Properties `json:"properties"`
}

// Capture builds a Document from the store's current contents.
func Capture(g *graph.Store) Document {
	nodes, rels := g.Export()

	doc := Document{
		Nodes:         make(map[string]NodeRecord, len(nodes)),
		Relationships: make([]RelRecord, 0, len(rels)),
	}
	for _, n := range nodes {
		doc.Nodes[n.ID] = NodeRecord{Label: n.Label, Properties: n.Properties}
	}
	for _, r := range rels {
		doc.Relationships = append(doc.Relationships, RelRecord{
			From: r.From, To: r.To, Type: r.Type, Properties: r.Properties,
		})
	}
	return doc
}

// Restore validates the document and atomically replaces the store's
// contents. The nodes object carries no order, so nodes are recreated
// in sorted-id order; relationship order is preserved as written, which
// keeps trace tie-breaks stable across export/import.
func Restore(g *graph.Store, doc Document) error {
	ids := make([]string, 0, len(doc.Nodes))
	for id, rec := range doc.Nodes {
		if rec.Label == "" {
			return fmt.Errorf("%w: node %q has no label", ErrMalformedSnapshot, id)
		}
		ids = append(ids, id)
	}
	sort.Strings(ids)

	nodes := make([]graph.Node, 0, len(ids))
	for _, id := range ids {
		rec := doc.Nodes[id]
		nodes = append(nodes, graph.Node{ID: id, Label: rec.Label, Properties: rec.Properties})
	}
	rels := make([]graph.Relationship, 0, len(doc.Relationships))
	for _, r := range doc.Relationships {
		if r.Type == "" {
			return fmt.Errorf("%w: relationship %s->%s has no type", ErrMalformedSnapshot, r.From, r.To)
		}
		rels = append(rels, graph.Relationship{From: r.From, To: r.To, Type: r.Type, Properties: r.Properties})
	}

	if err := g.Replace(nodes, rels); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedSnapshot, err)
	}
	return nil
}
