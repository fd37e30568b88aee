// Package graph provides an embeddable in-memory property graph for
// supply-chain provenance data. Nodes carry an open-vocabulary label and
// a flat property bag; relationships are directed, typed, and may be
// parallel. The store is bulk-loaded once and read-only afterwards.
package graph

import (
	"errors"
	"fmt"
	"sort"
	"sync"
)

// ErrNodeNotFound is returned when a relationship references a node id
// that is not present in the store.
var ErrNodeNotFound = errors.New("node not found")

// Properties is a flat bag of scalar values (strings or numbers)
// attached to a node or relationship.
type Properties map[string]any

// Clone returns a shallow copy of the property bag.
func (p Properties) Clone() Properties {
	if p == nil {
		return Properties{}
	}
	out := make(Properties, len(p))
	for k, v := range p {
		out[k] = v
	}
	return out
}

// Node is a labeled entity in the graph.
type Node struct {
	ID         string     `json:"id"`
	Label      string     `json:"label"`
	Properties Properties `json:"properties"`
}

// Flattened returns the node's properties merged with its id, the
// record shape query bindings and traces are built from.
func (n Node) Flattened() Properties {
	rec := n.Properties.Clone()
	rec["id"] = n.ID
	return rec
}

// DisplayName returns the node's "name" property when present, falling
// back to its id.
func (n Node) DisplayName() string {
	if name, ok := n.Properties["name"].(string); ok && name != "" {
		return name
	}
	return n.ID
}

// Relationship is a directed, typed edge between two nodes.
type Relationship struct {
	From       string     `json:"from"`
	To         string     `json:"to"`
	Type       string     `json:"type"`
	Properties Properties `json:"properties"`
}

// Schema summarizes the current store contents.
type Schema struct {
	Labels            []string `json:"nodeLabels"`
	RelationshipTypes []string `json:"relationshipTypes"`
	NodeCount         int      `json:"nodeCount"`
	RelationshipCount int      `json:"relationshipCount"`
}

// Store owns all nodes and relationships. It is safe for concurrent
// readers; writes (CreateNode, CreateRelationship, Clear, Replace) take
// the write lock, so the single-writer/multi-reader discipline holds
// even when the bulk-load phase overlaps with early readers.
type Store struct {
	mu      sync.RWMutex
	nodes   map[string]*Node
	order   []string // node ids in creation order; overwrite keeps slot
	rels    []*Relationship
	out     map[string][]int // node id -> indexes into rels
	in      map[string][]int
	counter int
}

// NewStore creates an empty store.
func NewStore() *Store {
	s := &Store{}
	s.reset()
	return s
}

func (s *Store) reset() {
	s.nodes = make(map[string]*Node)
	s.order = nil
	s.rels = nil
	s.out = make(map[string][]int)
	s.in = make(map[string][]int)
	s.counter = 0
}

// CreateNode inserts a node and returns its id. If properties carry an
// explicit "id" string, that value is used; otherwise an id of the form
// {label}_{counter} is synthesized. Creating a node with an existing id
// silently overwrites the prior node, keeping its creation-order slot.
func (s *Store) CreateNode(label string, properties Properties) string {
	s.mu.Lock()
	defer s.mu.Unlock()

	props := properties.Clone()
	id, ok := props["id"].(string)
	if !ok || id == "" {
		id = fmt.Sprintf("%s_%d", label, s.counter)
	}
	s.counter++

	if _, exists := s.nodes[id]; !exists {
		s.order = append(s.order, id)
	}
	s.nodes[id] = &Node{ID: id, Label: label, Properties: props}
	return id
}

// CreateRelationship appends a directed edge. Both endpoints must
// already exist; otherwise ErrNodeNotFound is returned and nothing is
// stored.
func (s *Store) CreateRelationship(fromID, toID, relType string, properties Properties) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.nodes[fromID]; !ok {
		return fmt.Errorf("%w: %s", ErrNodeNotFound, fromID)
	}
	if _, ok := s.nodes[toID]; !ok {
		return fmt.Errorf("%w: %s", ErrNodeNotFound, toID)
	}

	idx := len(s.rels)
	s.rels = append(s.rels, &Relationship{
		From:       fromID,
		To:         toID,
		Type:       relType,
		Properties: properties.Clone(),
	})
	s.out[fromID] = append(s.out[fromID], idx)
	s.in[toID] = append(s.in[toID], idx)
	return nil
}

// NodeByID returns a copy of the node with the given id.
func (s *Store) NodeByID(id string) (Node, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	n, ok := s.nodes[id]
	if !ok {
		return Node{}, false
	}
	return Node{ID: n.ID, Label: n.Label, Properties: n.Properties.Clone()}, true
}

// AllNodes returns flattened snapshot copies of every node with the
// given label, in creation order. An empty label returns all nodes; in
// that case each record additionally carries its "label".
func (s *Store) AllNodes(label string) []Properties {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]Properties, 0, len(s.order))
	for _, id := range s.order {
		n := s.nodes[id]
		if label != "" && n.Label != label {
			continue
		}
		rec := n.Properties.Clone()
		rec["id"] = n.ID
		if label == "" {
			rec["label"] = n.Label
		}
		result = append(result, rec)
	}
	return result
}

// AllRelationships returns snapshot copies of every relationship with
// the given type, in creation order. An empty type returns all.
func (s *Store) AllRelationships(relType string) []Relationship {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]Relationship, 0, len(s.rels))
	for _, r := range s.rels {
		if relType != "" && r.Type != relType {
			continue
		}
		result = append(result, Relationship{
			From:       r.From,
			To:         r.To,
			Type:       r.Type,
			Properties: r.Properties.Clone(),
		})
	}
	return result
}

// Export returns copies of all nodes and relationships in creation
// order, in their raw (non-flattened) form. Snapshot backends build on
// this; regular readers should prefer AllNodes/AllRelationships.
func (s *Store) Export() ([]Node, []Relationship) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	nodes := make([]Node, 0, len(s.order))
	for _, id := range s.order {
		n := s.nodes[id]
		nodes = append(nodes, Node{ID: n.ID, Label: n.Label, Properties: n.Properties.Clone()})
	}
	rels := make([]Relationship, 0, len(s.rels))
	for _, r := range s.rels {
		rels = append(rels, Relationship{From: r.From, To: r.To, Type: r.Type, Properties: r.Properties.Clone()})
	}
	return nodes, rels
}

// Schema derives label and relationship-type sets plus counts from the
// current contents. Sets are sorted for stable output.
func (s *Store) Schema() Schema {
	s.mu.RLock()
	defer s.mu.RUnlock()

	labelSet := make(map[string]struct{})
	for _, n := range s.nodes {
		labelSet[n.Label] = struct{}{}
	}
	typeSet := make(map[string]struct{})
	for _, r := range s.rels {
		typeSet[r.Type] = struct{}{}
	}

	schema := Schema{
		Labels:            make([]string, 0, len(labelSet)),
		RelationshipTypes: make([]string, 0, len(typeSet)),
		NodeCount:         len(s.nodes),
		RelationshipCount: len(s.rels),
	}
	for l := range labelSet {
		schema.Labels = append(schema.Labels, l)
	}
	for t := range typeSet {
		schema.RelationshipTypes = append(schema.RelationshipTypes, t)
	}
	sort.Strings(schema.Labels)
	sort.Strings(schema.RelationshipTypes)
	return schema
}

// Clear drops all nodes and relationships and resets the id counter.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reset()
}

// Replace atomically swaps the entire store contents with the given
// nodes and relationships. Nodes are created in slice order, then
// relationships; the first relationship with a dangling endpoint aborts
// the swap with ErrNodeNotFound and leaves the store untouched.
func (s *Store) Replace(nodes []Node, rels []Relationship) error {
	staged := NewStore()
	for _, n := range nodes {
		if _, exists := staged.nodes[n.ID]; !exists {
			staged.order = append(staged.order, n.ID)
		}
		staged.nodes[n.ID] = &Node{ID: n.ID, Label: n.Label, Properties: n.Properties.Clone()}
	}
	for _, r := range rels {
		if err := staged.CreateRelationship(r.From, r.To, r.Type, r.Properties); err != nil {
			return err
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.nodes = staged.nodes
	s.order = staged.order
	s.rels = staged.rels
	s.out = staged.out
	s.in = staged.in
	s.counter = staged.counter
	return nil
}
