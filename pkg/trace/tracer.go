// Package trace computes the four-tier provenance lineage of a product:
// suppliers provide materials, materials are supplied to a factory, the
// factory manufactures the product and holds certifications. The domain
// guarantees exactly these tiers, so the walk is fixed-depth; no general
// traversal or cycle detection is involved.
package trace

import (
	"errors"

	"github.com/chainloom/chainloom/pkg/graph"
)

// ErrProductNotFound is returned when the traced id does not exist in
// the store. It is distinct from an empty-but-found trace.
var ErrProductNotFound = errors.New("product not found")

// Lineage is the denormalized trace record for one product. Factory is
// nil when no MANUFACTURES edge targets the product, in which case all
// downstream buckets are empty. Each material record carries its own
// "suppliers" list; Suppliers is the flattened aggregate with each
// supplier id kept once, first-seen order.
type Lineage struct {
	Product        graph.Properties   `json:"product"`
	Factory        graph.Properties   `json:"factory"`
	Materials      []graph.Properties `json:"materials"`
	Suppliers      []graph.Properties `json:"suppliers"`
	Certifications []graph.Properties `json:"certifications"`
}

// Tracer walks the provenance chain through a store and its
// relationship index. It never mutates the graph.
type Tracer struct {
	store *graph.Store
	index *graph.Index
}

// NewTracer creates a Tracer over the given store and index.
func NewTracer(store *graph.Store, index *graph.Index) *Tracer {
	return &Tracer{store: store, index: index}
}

// Trace resolves the lineage of the given product id.
//
// If several MANUFACTURES edges target the product, the first one in
// relationship creation order wins; this is a tie-break, not a
// validated invariant. Duplicate certification edges are kept as-is.
func (t *Tracer) Trace(productID string) (*Lineage, error) {
	product, ok := t.store.NodeByID(productID)
	if !ok {
		return nil, ErrProductNotFound
	}

	lineage := &Lineage{
		Product:        product.Flattened(),
		Materials:      []graph.Properties{},
		Suppliers:      []graph.Properties{},
		Certifications: []graph.Properties{},
	}

	manufacturers := t.index.Neighborhood(productID, "MANUFACTURES").Incoming
	if len(manufacturers) == 0 {
		return lineage, nil
	}
	factoryID := manufacturers[0].OtherID
	factory, ok := t.store.NodeByID(factoryID)
	if !ok {
		return lineage, nil
	}
	lineage.Factory = factory.Flattened()

	for _, edge := range t.index.Neighborhood(factoryID, "HAS_CERTIFICATION").Outgoing {
		if cert, ok := t.store.NodeByID(edge.OtherID); ok {
			lineage.Certifications = append(lineage.Certifications, cert.Flattened())
		}
	}

	seen := make(map[string]bool)
	for _, edge := range t.index.Neighborhood(factoryID, "SUPPLIED_TO").Incoming {
		material, ok := t.store.NodeByID(edge.OtherID)
		if !ok {
			continue
		}

		suppliers := []graph.Properties{}
		for _, supEdge := range t.index.Neighborhood(material.ID, "PROVIDES").Incoming {
			supplier, ok := t.store.NodeByID(supEdge.OtherID)
			if !ok {
				continue
			}
			rec := supplier.Flattened()
			suppliers = append(suppliers, rec)
			if !seen[supplier.ID] {
				seen[supplier.ID] = true
				lineage.Suppliers = append(lineage.Suppliers, rec)
			}
		}

		record := material.Flattened()
		record["suppliers"] = suppliers
		lineage.Materials = append(lineage.Materials, record)
	}

	return lineage, nil
}
