package graph

// NeighborEdge is one enumerated edge seen from a node. Other* fields
// describe the far endpoint: the target for outgoing edges, the source
// for incoming ones.
type NeighborEdge struct {
	Type       string `json:"type"`
	OtherID    string `json:"otherId"`
	OtherLabel string `json:"otherLabel"`
	OtherName  string `json:"otherName"`
}

// Neighborhood groups a node's edges by direction, each bucket in
// relationship creation order.
type Neighborhood struct {
	Outgoing []NeighborEdge `json:"outgoing"`
	Incoming []NeighborEdge `json:"incoming"`
}

// Index enumerates a node's edges without scanning the whole
// relationship list. It borrows read access from the store per call and
// holds no state of its own; the store's adjacency lists make each call
// O(deg(node)).
type Index struct {
	store *Store
}

// NewIndex creates an Index over the given store.
func NewIndex(s *Store) *Index {
	return &Index{store: s}
}

// Neighborhood returns the node's outgoing and incoming edges, resolved
// to the far endpoint's label and display name. With no types given,
// all relationship types pass the filter.
func (ix *Index) Neighborhood(nodeID string, types ...string) Neighborhood {
	var filter map[string]struct{}
	if len(types) > 0 {
		filter = make(map[string]struct{}, len(types))
		for _, t := range types {
			filter[t] = struct{}{}
		}
	}

	s := ix.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	nb := Neighborhood{Outgoing: []NeighborEdge{}, Incoming: []NeighborEdge{}}
	for _, idx := range s.out[nodeID] {
		r := s.rels[idx]
		if filter != nil {
			if _, ok := filter[r.Type]; !ok {
				continue
			}
		}
		if other, ok := s.nodes[r.To]; ok {
			nb.Outgoing = append(nb.Outgoing, NeighborEdge{
				Type:       r.Type,
				OtherID:    other.ID,
				OtherLabel: other.Label,
				OtherName:  other.DisplayName(),
			})
		}
	}
	for _, idx := range s.in[nodeID] {
		r := s.rels[idx]
		if filter != nil {
			if _, ok := filter[r.Type]; !ok {
				continue
			}
		}
		if other, ok := s.nodes[r.From]; ok {
			nb.Incoming = append(nb.Incoming, NeighborEdge{
				Type:       r.Type,
				OtherID:    other.ID,
				OtherLabel: other.Label,
				OtherName:  other.DisplayName(),
			})
		}
	}
	return nb
}
